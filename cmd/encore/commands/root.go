// Package commands implements the encore CLI subcommands.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/encore/internal/config"
	"github.com/Sumatoshi-tech/encore/internal/observability"
	"github.com/Sumatoshi-tech/encore/pkg/version"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	verbose    bool
	quiet      bool
	noColor    bool
}

// NewRootCommand builds the encore command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "encore",
		Short: "Encore - concert program popularity trends",
		Long: `Encore turns an orchestra's performance archive into popularity trends for
composers and works.

Commands:
  ingest     Normalize an archive into the local database
  trend      Compute a trend and render it as text, JSON, YAML or HTML
  entities   List composers or works
  stats      Summarize the archive
  serve      Run the interactive dashboard
  mcp        Serve trend tools to AI agents over MCP`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default .encore.yaml in . or $HOME)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress output")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(
		newIngestCommand(opts),
		newTrendCommand(opts),
		newEntitiesCommand(opts),
		newStatsCommand(opts),
		newServeCommand(opts),
		newMCPCommand(opts),
	)

	return rootCmd
}

// loadConfig reads the configuration and applies --verbose / --quiet.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return nil, err
	}

	switch {
	case o.verbose:
		cfg.Logging.Level = "debug"
	case o.quiet:
		cfg.Logging.Level = "error"
	}

	return cfg, nil
}

// session is the per-invocation runtime: configuration plus initialized
// observability providers.
type session struct {
	cfg       *config.Config
	providers observability.Providers
	logger    *slog.Logger
}

// start loads config and initializes observability for mode.
func (o *rootOptions) start(mode observability.AppMode) (*session, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	providers, err := observability.Init(cfg.Observability(mode, version.Version))
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	return &session{cfg: cfg, providers: providers, logger: providers.Logger}, nil
}

func (s *session) close(ctx context.Context) {
	shutdownErr := s.providers.Shutdown(context.WithoutCancel(ctx))
	if shutdownErr != nil {
		s.logger.Warn("observability shutdown failed", "error", shutdownErr)
	}
}

// out returns the command's stdout unless --quiet is set.
func (o *rootOptions) out(cmd *cobra.Command) io.Writer {
	if o.quiet {
		return io.Discard
	}

	return cmd.OutOrStdout()
}
