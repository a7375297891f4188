package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/encore/internal/explore"
	"github.com/Sumatoshi-tech/encore/internal/observability"
	"github.com/Sumatoshi-tech/encore/internal/report"
	"github.com/Sumatoshi-tech/encore/internal/trend"
)

type entitiesOptions struct {
	source  sourceFlags
	family  string
	query   string
	limit   int
	top     int
	catalog bool
	format  string
}

func newEntitiesCommand(root *rootOptions) *cobra.Command {
	opts := &entitiesOptions{}

	cmd := &cobra.Command{
		Use:   "entities",
		Short: "List composers or works",
		Long: `List the entities of a family with their total performance counts.

With --top the most performed entities are listed instead of the
alphabetical listing. With --catalog every distinct "composer: title" pair
is printed, one per line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEntities(cmd, root, opts)
		},
	}

	opts.source.register(cmd)

	flags := cmd.Flags()
	flags.StringVar(&opts.family, "family", string(trend.FamilyComposer), "entity family: composer or work")
	flags.StringVar(&opts.query, "query", "", "keep names containing this text")
	flags.IntVar(&opts.limit, "limit", 0, "maximum entries (0 means all)")
	flags.IntVar(&opts.top, "top", 0, "list the N most performed instead")
	flags.BoolVar(&opts.catalog, "catalog", false, "print every composer: title pair")
	flags.StringVarP(&opts.format, "format", "f", report.FormatText, "output format: text, json, yaml")

	return cmd
}

func runEntities(cmd *cobra.Command, root *rootOptions, opts *entitiesOptions) error {
	format, err := report.ValidateFormat(opts.format, report.TableFormats)
	if err != nil {
		return err
	}

	sess, err := root.start(observability.ModeCLI)
	if err != nil {
		return err
	}
	defer sess.close(cmd.Context())

	ds, err := opts.source.loadDataset(cmd.Context(), sess.cfg, sess.logger)
	if err != nil {
		return err
	}

	out := root.out(cmd)

	if opts.catalog {
		for _, line := range ds.Catalog() {
			fmt.Fprintln(out, line)
		}

		return nil
	}

	family := trend.Family(opts.family)
	catalog := explore.NewCatalog(ds)

	var entities []explore.Entity
	if opts.top > 0 {
		entities, err = catalog.Leaders(family, opts.top)
	} else {
		entities, err = catalog.Entities(family, opts.query, opts.limit)
	}

	if err != nil {
		return err
	}

	return report.WriteEntities(out, format, family, entities, report.Options{NoColor: root.noColor})
}
