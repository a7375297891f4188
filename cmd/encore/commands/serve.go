package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/encore/internal/explore"
	"github.com/Sumatoshi-tech/encore/internal/observability"
	"github.com/Sumatoshi-tech/encore/internal/server"
)

type serveOptions struct {
	source sourceFlags
	host   string
	port   int
	dark   bool
}

func newServeCommand(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the interactive dashboard",
		Long: `Serve the trend dashboard and its JSON API.

Routes:
  /dashboard      interactive charts with controls and an animation player
  /api/trends     trend results as JSON
  /api/entities   entity listings
  /api/summary    archive overview
  /healthz        liveness
  /readyz         readiness
  /metrics        Prometheus scrape endpoint`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, root, opts)
		},
	}

	opts.source.register(cmd)
	cmd.Flags().StringVar(&opts.host, "host", "", "listen host (default from config)")
	cmd.Flags().IntVar(&opts.port, "port", 0, "listen port (default from config)")
	cmd.Flags().BoolVar(&opts.dark, "dark", false, "dark dashboard theme")

	return cmd
}

func runServe(cmd *cobra.Command, root *rootOptions, opts *serveOptions) error {
	sess, err := root.start(observability.ModeServe)
	if err != nil {
		return err
	}
	defer sess.close(cmd.Context())

	ctx := cmd.Context()
	cfg := sess.cfg

	if cmd.Flags().Changed("host") {
		cfg.Serve.Host = opts.host
	}

	if cmd.Flags().Changed("port") {
		cfg.Serve.Port = opts.port
	}

	ds, err := opts.source.loadDataset(ctx, cfg, sess.logger)
	if err != nil {
		return err
	}

	tm, err := observability.NewTrendMetrics(sess.providers.Meter)
	if err != nil {
		return err
	}

	red, err := observability.NewREDMetrics(sess.providers.Meter)
	if err != nil {
		return err
	}

	svc, err := explore.NewService(explore.NewCatalog(ds), explore.Options{
		CacheSize: cfg.Serve.CacheSize,
		Logger:    sess.logger,
		Tracer:    sess.providers.Tracer,
		Metrics:   tm,
	})
	if err != nil {
		return err
	}

	srv := server.New(svc, server.Options{
		Defaults:       cfg.Trend,
		Logger:         sess.logger,
		Tracer:         sess.providers.Tracer,
		RED:            red,
		MetricsHandler: sess.providers.MetricsHandler,
		Dark:           opts.dark,
	})

	addr := cfg.Serve.Addr()
	fmt.Fprintf(root.out(cmd), "Dashboard on http://%s/dashboard\n", addr)

	return srv.ListenAndServe(ctx, addr, cfg.Serve.ReadTimeout, cfg.Serve.WriteTimeout)
}
