// Package fileroute compiles a directory of Go route files into chi routers.
//
// Route files live under app/routes (configurable). Each file defines one
// function per HTTP method, directories may hold a layout.go wrapping
// everything below them, and the generated routers register every route
// with its layout chain unrolled into plain function calls.
//
// Run a pass from a go:generate directive:
//
//	//go:generate go run github.com/vango-dev/fileroute/cmd/fileroute gen
//
// or from a build script:
//
//	if err := fileroute.Generate(); err != nil {
//	    log.Fatal(err)
//	}
package fileroute

import (
	"context"
	"log/slog"

	"github.com/vango-dev/fileroute/internal/build"
	"github.com/vango-dev/fileroute/internal/config"
)

// Generate runs a generation pass for the project containing the working
// directory. Configuration comes from fileroute.json or fileroute.yaml at the
// project root, or defaults when neither exists.
func Generate() error {
	return GenerateContext(context.Background())
}

// GenerateContext is Generate with a context checked between phases.
func GenerateContext(ctx context.Context) error {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}
	return run(ctx, cfg)
}

// GenerateDir runs a generation pass for the project containing dir.
func GenerateDir(dir string) error {
	cfg, err := config.LoadFromDir(dir)
	if err != nil {
		return err
	}
	return run(context.Background(), cfg)
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := slog.Default().With("component", "fileroute")

	result, err := build.New(cfg, build.Options{Logger: logger}).Build(ctx)
	if err != nil {
		return err
	}
	for _, w := range result.Warnings {
		logger.Warn(w.Error())
	}
	return nil
}
