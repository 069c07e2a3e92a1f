package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/fileroute/internal/build"
	"github.com/vango-dev/fileroute/internal/errors"
)

func checkCmd(flags *globalFlags) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the routes directory without generating code",
		Long: `Scan and validate the routes directory. Reports duplicate routes,
ambiguous or duplicated handler names, layouts without a Layout function and
conflicting route patterns. Nothing is written.

Exits non-zero when validation fails, which makes it suitable for CI.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if strict {
				cfg.Routing.Strict = true
			}

			result, err := build.New(cfg, build.Options{CheckOnly: true}).Build(cmd.Context())
			if err != nil {
				return err
			}

			for _, w := range result.Warnings {
				errors.Warn(w)
			}
			success(cmd.OutOrStdout(), "%d routes, %d layouts: no problems found", result.Routes, result.Layouts)
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Treat unparsable route files as errors")

	return cmd
}
