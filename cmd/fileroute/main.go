package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/fileroute/internal/config"
	"github.com/vango-dev/fileroute/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are shared by every command.
type globalFlags struct {
	configFile string
	dir        string
	verbose    bool
	noColor    bool
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "fileroute",
		Short: "Compile a routes directory into chi routers",
		Long: `fileroute turns a directory of Go route files into generated router code.

Each file under the routes directory is a route. Functions named after HTTP
methods (GET, POST, PUT, DELETE, PATCH) become handlers, name_.go files
(a trailing underscore) capture a path segment, and layout.go files wrap
every route below them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd.ErrOrStderr(), flags.verbose)
			if flags.noColor {
				errors.DisableColors()
				colors = false
			}
		},
	}
	rootCmd.SetOut(out)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configFile, "config", "c", "", "Config file (default: fileroute.json or fileroute.yaml at the project root)")
	pf.StringVarP(&flags.dir, "dir", "C", "", "Run as if started in this directory")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Log debug output")
	pf.BoolVar(&flags.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		genCmd(flags),
		routesCmd(flags),
		checkCmd(flags),
		newCmd(flags),
		versionCmd(),
	)

	return rootCmd
}

// setupLogging installs the default slog handler. Library code logs through
// slog.Default, so --verbose reaches the scanner and the build pass.
func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// loadConfig loads the configuration selected by the global flags.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	if flags.configFile != "" {
		return config.LoadFile(flags.configFile)
	}
	if flags.dir != "" {
		return config.LoadFromDir(flags.dir)
	}
	return config.LoadFromWorkingDir()
}

// colors controls ANSI output of the message helpers.
var colors = true

func paint(code, s string) string {
	if !colors {
		return s
	}
	return code + s + "\033[0m"
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", paint("\033[32m", "✓"), fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", paint("\033[33m", "⚠"), fmt.Sprintf(format, args...))
}
