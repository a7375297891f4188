package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/encore/internal/observability"
	"github.com/Sumatoshi-tech/encore/internal/report"
	"github.com/Sumatoshi-tech/encore/internal/store"
)

const defaultStatsTop = 10

type statsOptions struct {
	source sourceFlags
	top    int
	format string
}

func newStatsCommand(root *rootOptions) *cobra.Command {
	opts := &statsOptions{}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStats(cmd, root, opts)
		},
	}

	opts.source.register(cmd)
	cmd.Flags().IntVar(&opts.top, "top", defaultStatsTop, "number of leading composers and works")
	cmd.Flags().StringVarP(&opts.format, "format", "f", report.FormatText, "output format: text, json, yaml")

	return cmd
}

func runStats(cmd *cobra.Command, root *rootOptions, opts *statsOptions) error {
	format, err := report.ValidateFormat(opts.format, report.TableFormats)
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

	out := root.out(cmd)

	writeErr := report.WriteSummary(out, format, ds.Summarize(opts.top), report.Options{NoColor: root.noColor})
	if writeErr != nil {
		return writeErr
	}

	if opts.source.dbPath == "" || format != report.FormatText {
		return nil
	}

	st, err := store.Open(ctx, opts.source.dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	info, err := st.Info(ctx)
	if errors.Is(err, store.ErrNotIngested) {
		return nil
	}

	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nIngested from %s %s\n", info.Source, humanize.RelTime(info.IngestedAt, time.Now(), "ago", "from now"))

	return nil
}
