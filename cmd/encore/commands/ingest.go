package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/encore/internal/archive"
	"github.com/Sumatoshi-tech/encore/internal/observability"
	"github.com/Sumatoshi-tech/encore/internal/store"
)

// ErrNoDestination is returned when ingest has nowhere to write.
var ErrNoDestination = errors.New("ingest needs --db or --compress")

type ingestOptions struct {
	archivePath string
	dbPath      string
	compressTo  string
	validate    bool
}

func newIngestCommand(root *rootOptions) *cobra.Command {
	opts := &ingestOptions{}

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Normalize an archive into the local database",
		Long: `Parse the performance archive once, normalize it into the concerts and
works tables and save them to SQLite. With --compress the raw archive is also
written as an LZ4 frame that every command can read directly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIngest(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.archivePath, "archive", "", "archive JSON file (default from config)")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "SQLite database to write (default from config)")
	cmd.Flags().StringVar(&opts.compressTo, "compress", "", "also write the archive as an .lz4 file")
	cmd.Flags().BoolVar(&opts.validate, "validate", false, "validate the archive against the JSON schema")

	return cmd
}

func runIngest(cmd *cobra.Command, root *rootOptions, opts *ingestOptions) error {
	sess, err := root.start(observability.ModeCLI)
	if err != nil {
		return err
	}
	defer sess.close(cmd.Context())

	ctx := cmd.Context()

	src := opts.archivePath
	if src == "" {
		src = sess.cfg.Data.Archive
	}

	dbPath := opts.dbPath
	if dbPath == "" {
		dbPath = sess.cfg.Data.Database
	}

	if dbPath == "" && opts.compressTo == "" {
		return ErrNoDestination
	}

	a, err := archive.Open(src, archive.Options{Validate: opts.validate || sess.cfg.Data.ValidateSchema})
	if err != nil {
		return err
	}

	ds := archive.BuildDataset(a)
	out := root.out(cmd)

	if dbPath != "" {
		saveErr := saveDataset(cmd, dbPath, src, ds)
		if saveErr != nil {
			return saveErr
		}

		fmt.Fprintf(out, "Ingested %s concerts, %s works, %s intermissions into %s\n",
			humanize.Comma(int64(len(ds.Concerts))),
			humanize.Comma(int64(len(ds.Works))),
			humanize.Comma(int64(ds.Intermissions)),
			dbPath,
		)
	}

	if opts.compressTo != "" {
		size, compressErr := compressFile(src, opts.compressTo)
		if compressErr != nil {
			return compressErr
		}

		fmt.Fprintf(out, "Wrote %s (%s)\n", opts.compressTo, humanize.Bytes(uint64(size)))
	}

	sess.logger.InfoContext(ctx, "ingest complete", "source", src, "works", len(ds.Works))

	return nil
}

func saveDataset(cmd *cobra.Command, dbPath, source string, ds *archive.Dataset) error {
	st, err := store.Open(cmd.Context(), dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	return st.Save(cmd.Context(), source, ds)
}

func compressFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("open archive: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", dst, err)
	}

	compressErr := archive.Compress(out, in)
	if compressErr != nil {
		return 0, errors.Join(compressErr, out.Close())
	}

	info, statErr := out.Stat()

	closeErr := out.Close()
	if closeErr != nil {
		return 0, fmt.Errorf("close %s: %w", dst, closeErr)
	}

	if statErr != nil {
		return 0, fmt.Errorf("stat %s: %w", dst, statErr)
	}

	return info.Size(), nil
}
