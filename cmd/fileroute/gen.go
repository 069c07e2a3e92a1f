package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/fileroute/internal/build"
	"github.com/vango-dev/fileroute/internal/config"
	"github.com/vango-dev/fileroute/internal/errors"
)

func genCmd(flags *globalFlags) *cobra.Command {
	var (
		dryRun  bool
		modes   []string
		metrics string
	)

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate router code from the routes directory",
		Long: `Scan the routes directory, validate it and write the generated files:

  routes_tree_gen.go       Route constants and the directory tree
  routes_stateless_gen.go  NewRouter() for handlers without state
  routes_stateful_gen.go   NewRouterWithState(state) for stateful handlers

Files whose content did not change are left untouched, so running gen twice
produces no diff.

Examples:
  fileroute gen
  fileroute gen --modes stateless
  fileroute gen --dry-run -v`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if len(modes) > 0 {
				cfg.Output.Modes = modes
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			if metrics != "" {
				cfg.Metrics.File = metrics
			}
			return runGen(cmd, cfg, dryRun)
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Render files without writing them")
	cmd.Flags().StringSliceVar(&modes, "modes", nil, "Generation modes (stateless, stateful)")
	cmd.Flags().StringVar(&metrics, "metrics", "", "Write pass metrics to this Prometheus textfile")

	return cmd
}

func runGen(cmd *cobra.Command, cfg *config.Config, dryRun bool) error {
	out := cmd.OutOrStdout()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	info(out, "Routes: %s", relPath(cfg.Dir(), cfg.RoutesPath()))

	builder := build.New(cfg, build.Options{
		DryRun: dryRun,
		OnProgress: func(step string) {
			info(out, step)
		},
	})

	result, err := builder.Build(ctx)
	if err != nil {
		return err
	}

	for _, w := range result.Warnings {
		errors.Warn(w)
	}

	for _, f := range result.Files {
		name := relPath(cfg.Dir(), f.Path)
		switch {
		case dryRun:
			info(out, "%s (%d bytes)", name, f.Size)
		case f.Changed:
			success(out, "Wrote %s", name)
		default:
			info(out, "Unchanged %s", name)
		}
	}
	for _, path := range result.Removed {
		warn(out, "Removed %s", relPath(cfg.Dir(), path))
	}
	if result.MetricsFile != "" {
		info(out, "Metrics: %s", relPath(cfg.Dir(), result.MetricsFile))
	}

	success(out, "%d routes, %d layouts, %d wrappers in %s", result.Routes, result.Layouts, result.Wrappers, result.Duration.Round(time.Millisecond))
	return nil
}

// relPath shortens path for display.
func relPath(base, path string) string {
	if rel, err := filepath.Rel(base, path); err == nil {
		return rel
	}
	return path
}
