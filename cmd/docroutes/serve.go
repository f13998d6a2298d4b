package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/docroutes/internal/config"
	mw "github.com/vango-dev/docroutes/pkg/middleware"
	"github.com/vango-dev/docroutes/pkg/resolver"
	"github.com/vango-dev/docroutes/pkg/routetable"
	"github.com/vango-dev/docroutes/pkg/server"
	"github.com/vango-dev/docroutes/pkg/source"
)

type serveOptions struct {
	configPath string
	address    string
	table      string
	watch      bool
}

func serveCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the resolution server",
		Long: `Start the resolution server.

The server loads the route table, answers resolution queries, renders
preview pages and pushes reload notifications over WebSocket. With
watching enabled the table is reloaded whenever the manifest changes.

Examples:
  docroutes serve
  docroutes serve --table build/routes.js --watch
  docroutes serve --table s3://docs-site/build/routes.json
  docroutes serve --config deploy/docroutes.json --addr :9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Config file or directory (default ./docroutes.json)")
	cmd.Flags().StringVarP(&opts.address, "addr", "a", "", "Listen address (default from config)")
	cmd.Flags().StringVarP(&opts.table, "table", "t", "", "Table manifest path or s3://bucket/key (default from config)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Reload the table when it changes")

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, opts serveOptions) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	// Flags override the file and the environment.
	if opts.address != "" {
		cfg.Server.Address = opts.address
	}
	if opts.table != "" {
		table := opts.table
		cfg.ApplyEnv(func(key string) (string, bool) {
			if key == config.EnvTable {
				return table, true
			}
			return "", false
		})
	}
	if opts.watch {
		cfg.Table.Watch = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg, cmd.ErrOrStderr())
	slog.SetDefault(logger)

	loader, err := newLoader(ctx, cfg)
	if err != nil {
		return err
	}
	table, err := loader.Load(ctx)
	if err != nil {
		return err
	}
	logger.Info("route table loaded",
		"source", loader.Describe(),
		"entries", table.Len(),
		"fingerprint", table.Fingerprint()[:12])

	var ropts []resolver.Option
	if cfg.Resolver.TrailingSlashFallback {
		ropts = append(ropts, resolver.WithTrailingSlashFallback())
	}
	if cfg.Resolver.BasePath != "" {
		ropts = append(ropts, resolver.WithBasePath(cfg.Resolver.BasePath))
	}
	live := resolver.NewLive(table, ropts...)

	scfg := server.DefaultConfig()
	scfg.Address = cfg.Server.Address
	scfg.ShutdownTimeout = cfg.ShutdownTimeout()
	scfg.ReadHeaderTimeout = cfg.ReadHeaderTimeout()
	scfg.Loader = loader
	scfg.AdminSecret = cfg.Admin.Secret
	scfg.Logger = logger

	var mws []resolver.Middleware
	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		mws = append(mws, mw.Prometheus(
			mw.WithNamespace(cfg.Metrics.Namespace),
			mw.WithRegistry(registry),
		))
		scfg.Gatherer = registry
	}
	if cfg.Tracing.Enabled {
		mws = append(mws, mw.OpenTelemetry(mw.WithTracerName(cfg.Tracing.TracerName)))
	}
	mws = append(mws, mw.Logging(logger))

	srv := server.New(live, scfg, mws...)

	if cfg.Table.Watch {
		watcher := source.NewWatcher(source.WatcherConfig{
			Loader:   loader,
			Interval: cfg.PollInterval(),
			Logger:   logger,
		})
		watcher.OnReload(func(t *routetable.Table) { srv.Apply(t) })
		watcher.OnError(srv.ReportError)
		watcher.Prime(ctx, table)

		go func() {
			if err := watcher.Start(ctx); err != nil && ctx.Err() == nil {
				logger.Error("table watcher stopped", "error", err)
			}
		}()
		defer watcher.Stop()
	}

	w := cmd.OutOrStdout()
	success(w, "Serving %d routes from %s", table.Len(), loader.Describe())
	info(w, "Listening on %s", cfg.Server.Address)
	if cfg.Admin.Secret == "" {
		info(w, "Admin endpoints are open (set admin.secret to protect them)")
	}

	return srv.Run(ctx)
}

// newLoader builds the table source named by the config.
func newLoader(ctx context.Context, cfg *config.Config) (source.Loader, error) {
	var format routetable.Format
	if cfg.Table.Format != "" {
		f, err := routetable.ParseFormat(cfg.Table.Format)
		if err != nil {
			return nil, err
		}
		format = f
	}

	if s3cfg := cfg.Table.S3; s3cfg != nil {
		s3, err := source.NewS3FromEnv(ctx, s3cfg.Region, s3cfg.Bucket, s3cfg.Key)
		if err != nil {
			return nil, err
		}
		if format != "" {
			s3 = s3.WithFormat(format)
		}
		return s3, nil
	}

	file := source.NewFile(cfg.TablePath())
	if format != "" {
		file = file.WithFormat(format)
	}
	return file, nil
}
