package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/encore/internal/explore"
	"github.com/Sumatoshi-tech/encore/internal/observability"
	"github.com/Sumatoshi-tech/encore/internal/report"
	"github.com/Sumatoshi-tech/encore/internal/trend"
)

const outputPerm = 0o644

type trendOptions struct {
	source      sourceFlags
	family      string
	curve       string
	granularity int
	topN        int
	start       int
	end         int
	entities    []string
	unique      bool
	markers     bool
	format      string
	output      string
	dark        bool
}

func newTrendCommand(root *rootOptions) *cobra.Command {
	opts := &trendOptions{}

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Compute a popularity trend",
		Long: `Compute how often composers or works were performed over time.

Curves:
  cumulative   running total of performances
  step         performances per period

Unset flags fall back to the trend section of the configuration.`,
		Example: `  encore trend --curve step --granularity 10 --top-n 5
  encore trend --family work --entities "SYMPHONY NO. 5 IN C MINOR, OP.67" -f json
  encore trend --format html -o trends.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTrend(cmd, root, opts)
		},
	}

	opts.source.register(cmd)

	flags := cmd.Flags()
	flags.StringVar(&opts.family, "family", "", "entity family: composer or work")
	flags.StringVar(&opts.curve, "curve", "", "curve kind: cumulative or step")
	flags.IntVar(&opts.granularity, "granularity", 0, "bucket width in years")
	flags.IntVar(&opts.topN, "top-n", 0, "number of leaders per frame")
	flags.IntVar(&opts.start, "start", 0, "first year of the domain")
	flags.IntVar(&opts.end, "end", 0, "last year of the domain")
	flags.StringArrayVar(&opts.entities, "entities", nil, "track only these entities (repeatable)")
	flags.BoolVar(&opts.unique, "unique", false, "count a composer at most once per concert")
	flags.BoolVar(&opts.markers, "markers", false, "draw point markers in HTML output")
	flags.StringVarP(&opts.format, "format", "f", report.FormatText, "output format: text, json, yaml, html (plot)")
	flags.StringVarP(&opts.output, "output", "o", "", "write to file instead of stdout")
	flags.BoolVar(&opts.dark, "dark", false, "dark theme for HTML output")

	return cmd
}

func runTrend(cmd *cobra.Command, root *rootOptions, opts *trendOptions) error {
	format, err := report.ValidateFormat(opts.format, report.TrendFormats)
	if err != nil {
		return err
	}

	sess, err := root.start(observability.ModeCLI)
	if err != nil {
		return err
	}
	defer sess.close(cmd.Context())

	ctx := cmd.Context()

	ds, err := opts.source.loadDataset(ctx, sess.cfg, sess.logger)
	if err != nil {
		return err
	}

	tm, err := observability.NewTrendMetrics(sess.providers.Meter)
	if err != nil {
		return err
	}

	svc, err := explore.NewService(explore.NewCatalog(ds), explore.Options{
		Logger:  sess.logger,
		Tracer:  sess.providers.Tracer,
		Metrics: tm,
	})
	if err != nil {
		return err
	}

	res, err := svc.Compute(ctx, opts.config(cmd, sess.cfg.Trend.Default()))
	if err != nil {
		return err
	}

	return writeOutput(cmd, root, opts.output, func(w io.Writer) error {
		return report.WriteTrend(w, format, res, report.Options{NoColor: root.noColor || opts.output != "", Dark: opts.dark})
	})
}

// config overlays the explicitly set flags on the configured defaults.
func (o *trendOptions) config(cmd *cobra.Command, cfg trend.Config) trend.Config {
	flags := cmd.Flags()

	if flags.Changed("family") {
		cfg.Family = trend.Family(o.family)
	}

	if flags.Changed("curve") {
		cfg.Curve = trend.CurveKind(o.curve)
	}

	if flags.Changed("granularity") {
		cfg.Granularity = o.granularity
	}

	if flags.Changed("top-n") {
		cfg.TopN = o.topN
	}

	if flags.Changed("start") {
		cfg.StartYear = o.start
	}

	if flags.Changed("end") {
		cfg.EndYear = o.end
	}

	if flags.Changed("unique") {
		cfg.Unique = o.unique
	}

	if flags.Changed("markers") {
		cfg.Markers = o.markers
	}

	// The configured unique default is composer-only.
	if cfg.Family != trend.FamilyComposer && !flags.Changed("unique") {
		cfg.Unique = false
	}

	cfg.Entities = o.entities

	return cfg
}

// writeOutput sends render's output to path, or to stdout when path is empty.
func writeOutput(cmd *cobra.Command, root *rootOptions, path string, render func(io.Writer) error) error {
	if path == "" {
		return render(root.out(cmd))
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outputPerm)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	renderErr := render(f)
	closeErr := f.Close()

	if renderErr != nil || closeErr != nil {
		return errors.Join(renderErr, closeErr)
	}

	fmt.Fprintf(root.out(cmd), "Wrote %s\n", path)

	return nil
}
