package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/encore/internal/archive"
	"github.com/Sumatoshi-tech/encore/internal/config"
	"github.com/Sumatoshi-tech/encore/internal/store"
)

// ErrNoSource is returned when neither an archive nor a database is configured.
var ErrNoSource = errors.New("no archive or database configured")

// sourceFlags selects where a command reads its dataset from.
type sourceFlags struct {
	archivePath string
	dbPath      string
	validate    bool
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.archivePath, "archive", "", "archive JSON file (.json or .json.lz4)")
	cmd.Flags().StringVar(&f.dbPath, "db", "", "SQLite database written by ingest")
	cmd.Flags().BoolVar(&f.validate, "validate", false, "validate the archive against the JSON schema")
}

// loadDataset resolves the dataset: an explicit --archive wins, then --db,
// then the configured database, then the configured archive.
func (f *sourceFlags) loadDataset(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*archive.Dataset, error) {
	switch {
	case f.archivePath != "":
		return readArchive(f.archivePath, f.validate || cfg.Data.ValidateSchema, logger)
	case f.dbPath != "":
		return readStore(ctx, f.dbPath, logger)
	case cfg.Data.Database != "":
		return readStore(ctx, cfg.Data.Database, logger)
	case cfg.Data.Archive != "":
		return readArchive(cfg.Data.Archive, f.validate || cfg.Data.ValidateSchema, logger)
	default:
		return nil, ErrNoSource
	}
}

func readArchive(path string, validate bool, logger *slog.Logger) (*archive.Dataset, error) {
	a, err := archive.Open(path, archive.Options{Validate: validate})
	if err != nil {
		return nil, err
	}

	ds := archive.BuildDataset(a)
	logger.Debug("archive loaded",
		"path", path,
		"programs", len(a.Programs),
		"works", len(ds.Works),
	)

	return ds, nil
}

func readStore(ctx context.Context, path string, logger *slog.Logger) (*archive.Dataset, error) {
	st, err := store.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	ds, err := st.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	logger.Debug("dataset loaded from store", "path", path, "works", len(ds.Works))

	return ds, nil
}
