package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/docroutes/internal/config"
	"github.com/vango-dev/docroutes/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "docroutes",
		Short: "Resolve documentation site paths to component chains",
		Long: `docroutes serves the route table generated by a documentation site build.

It resolves request paths to the ordered chain of layout and page
components that render them, and keeps the table current as the site
is rebuilt. Features include:

  • Ordered, prefix-aware route resolution
  • routes.js, JSON, YAML and TOML manifests
  • Local file or S3 table sources with hot reload
  • Prometheus metrics and OpenTelemetry spans`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		resolveCmd(),
		validateCmd(),
		importCmd(),
		routesCmd(),
		versionCmd(),
	)

	return rootCmd
}

// loadConfig reads the config at path, or docroutes.json in the working
// directory when path is empty. A missing default file yields defaults.
func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case path != "":
		if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
			path = filepath.Join(path, config.ConfigFileName)
		}
		cfg, err = config.LoadFile(path)
	case config.Exists("."):
		cfg, err = config.Load(".")
	default:
		cfg = config.New()
	}
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

// newLogger builds the process logger from the log section.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}

	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// usageError reports bad command-line input.
func usageError(format string, args ...any) error {
	return errors.New("E140").WithDetail(fmt.Sprintf(format, args...))
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}
