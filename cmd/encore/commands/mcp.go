package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/encore/internal/explore"
	"github.com/Sumatoshi-tech/encore/internal/mcp"
	"github.com/Sumatoshi-tech/encore/internal/observability"
	"github.com/Sumatoshi-tech/encore/pkg/version"
)

func newMCPCommand(root *rootOptions) *cobra.Command {
	var (
		debug  bool
		source sourceFlags
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The MCP server exposes the trend engine as tools that AI agents can discover
and invoke:
  - encore_trends: popularity trend of composers or works
  - encore_entities: search composer and work names
  - encore_summary: archive overview`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}

			// stdout carries the protocol; logs go to stderr as JSON.
			cfg.Logging.JSON = true

			oc := cfg.Observability(observability.ModeMCP, version.Version)
			if debug {
				oc.LogLevel = slog.LevelDebug
				oc.DebugTrace = true
			}

			providers, err := observability.Init(oc)
			if err != nil {
				return err
			}

			sess := &session{cfg: cfg, providers: providers, logger: providers.Logger}
			defer sess.close(cmd.Context())

			ds, err := source.loadDataset(cmd.Context(), cfg, sess.logger)
			if err != nil {
				return err
			}

			tm, err := observability.NewTrendMetrics(providers.Meter)
			if err != nil {
				return err
			}

			red, err := observability.NewREDMetrics(providers.Meter)
			if err != nil {
				return err
			}

			svc, err := explore.NewService(explore.NewCatalog(ds), explore.Options{
				CacheSize: cfg.Serve.CacheSize,
				Logger:    providers.Logger,
				Tracer:    providers.Tracer,
				Metrics:   tm,
			})
			if err != nil {
				return err
			}

			srv := mcp.NewServer(mcp.ServerDeps{
				Service:  svc,
				Defaults: cfg.Trend,
				Version:  version.Version,
				Logger:   providers.Logger,
				Metrics:  red,
				Tracer:   providers.Tracer,
			})

			return srv.Run(cmd.Context())
		},
	}

	source.register(cmd)
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging to stderr")

	return cmd
}
