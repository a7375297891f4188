// Package store caches the normalized concert and work tables in SQLite so
// the archive only has to be parsed once.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite" // SQLite driver.

	"github.com/Sumatoshi-tech/encore/internal/archive"
)

const (
	driverName = "sqlite"
	dirPerm    = 0o755

	metaIntermissions = "intermissions"
	metaIngestedAt    = "ingested_at"
	metaSource        = "source"
)

// ErrNotIngested is returned by Load before any dataset has been saved.
var ErrNotIngested = errors.New("no dataset has been ingested")

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Info describes the dataset currently held by the store.
type Info struct {
	Source        string    `json:"source"`
	IngestedAt    time.Time `json:"ingested_at"`
	Concerts      int       `json:"concerts"`
	Works         int       `json:"works"`
	Intermissions int       `json:"intermissions"`
}

// Open opens or creates the database at path and applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	mkErr := os.MkdirAll(filepath.Dir(path), dirPerm)
	if mkErr != nil {
		return nil, fmt.Errorf("create store dir: %w", mkErr)
	}

	db, openErr := sql.Open(driverName, path)
	if openErr != nil {
		return nil, fmt.Errorf("open store: %w", openErr)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}

	migrateErr := s.migrate(ctx)
	if migrateErr != nil {
		return nil, errors.Join(migrateErr, db.Close())
	}

	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS concerts (
			seq INTEGER PRIMARY KEY,
			id TEXT NOT NULL,
			program_id TEXT NOT NULL,
			orchestra TEXT NOT NULL,
			season TEXT NOT NULL,
			date TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS works (
			seq INTEGER PRIMARY KEY,
			id TEXT NOT NULL,
			program_id TEXT NOT NULL,
			composer TEXT NOT NULL,
			title TEXT NOT NULL,
			movement TEXT NOT NULL,
			conductor TEXT NOT NULL,
			soloists TEXT NOT NULL,
			date TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_works_program ON works(program_id);`,
	}

	for _, stmt := range stmts {
		_, execErr := s.db.ExecContext(ctx, stmt)
		if execErr != nil {
			return fmt.Errorf("migrate store: %w", execErr)
		}
	}

	return nil
}

// Save replaces the stored dataset with ds inside one transaction.
func (s *Store) Save(ctx context.Context, source string, ds *archive.Dataset) (err error) {
	tx, beginErr := s.db.BeginTx(ctx, nil)
	if beginErr != nil {
		return fmt.Errorf("begin save: %w", beginErr)
	}

	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	for _, table := range []string{"concerts", "works", "meta"} {
		_, err = tx.ExecContext(ctx, "DELETE FROM "+table)
		if err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	err = insertConcerts(ctx, tx, ds.Concerts)
	if err != nil {
		return err
	}

	err = insertWorks(ctx, tx, ds.Works)
	if err != nil {
		return err
	}

	meta := map[string]string{
		metaIntermissions: strconv.Itoa(ds.Intermissions),
		metaIngestedAt:    time.Now().UTC().Format(time.RFC3339),
		metaSource:        source,
	}

	for key, value := range meta {
		_, err = tx.ExecContext(ctx, `INSERT INTO meta (key, value) VALUES (?, ?)`, key, value)
		if err != nil {
			return fmt.Errorf("write meta %s: %w", key, err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("commit save: %w", err)
	}

	return nil
}

func insertConcerts(ctx context.Context, tx *sql.Tx, rows []archive.ConcertRow) error {
	stmt, prepErr := tx.PrepareContext(ctx,
		`INSERT INTO concerts (seq, id, program_id, orchestra, season, date) VALUES (?, ?, ?, ?, ?, ?)`)
	if prepErr != nil {
		return fmt.Errorf("prepare concerts: %w", prepErr)
	}
	defer stmt.Close()

	for i, row := range rows {
		_, execErr := stmt.ExecContext(ctx, i, row.ID, row.ProgramID, row.Orchestra, row.Season,
			formatDate(row.Date, row.Dated))
		if execErr != nil {
			return fmt.Errorf("insert concert %s: %w", row.ProgramID, execErr)
		}
	}

	return nil
}

func insertWorks(ctx context.Context, tx *sql.Tx, rows []archive.WorkRow) error {
	stmt, prepErr := tx.PrepareContext(ctx,
		`INSERT INTO works (seq, id, program_id, composer, title, movement, conductor, soloists, date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if prepErr != nil {
		return fmt.Errorf("prepare works: %w", prepErr)
	}
	defer stmt.Close()

	for i, row := range rows {
		soloists, marshalErr := json.Marshal(row.Soloists)
		if marshalErr != nil {
			return fmt.Errorf("encode soloists: %w", marshalErr)
		}

		_, execErr := stmt.ExecContext(ctx, i, row.ID, row.ProgramID, row.Composer, row.Title,
			row.Movement, row.Conductor, string(soloists), formatDate(row.Date, row.Dated))
		if execErr != nil {
			return fmt.Errorf("insert work %s: %w", row.ID, execErr)
		}
	}

	return nil
}

// Load reads the stored dataset back in its original row order.
func (s *Store) Load(ctx context.Context) (*archive.Dataset, error) {
	info, infoErr := s.Info(ctx)
	if infoErr != nil {
		return nil, infoErr
	}

	ds := &archive.Dataset{
		Concerts:      make([]archive.ConcertRow, 0, info.Concerts),
		Works:         make([]archive.WorkRow, 0, info.Works),
		Intermissions: info.Intermissions,
	}

	concertsErr := s.loadConcerts(ctx, ds)
	if concertsErr != nil {
		return nil, concertsErr
	}

	worksErr := s.loadWorks(ctx, ds)
	if worksErr != nil {
		return nil, worksErr
	}

	return ds, nil
}

func (s *Store) loadConcerts(ctx context.Context, ds *archive.Dataset) error {
	rows, queryErr := s.db.QueryContext(ctx,
		`SELECT id, program_id, orchestra, season, date FROM concerts ORDER BY seq`)
	if queryErr != nil {
		return fmt.Errorf("query concerts: %w", queryErr)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			row  archive.ConcertRow
			date string
		)

		scanErr := rows.Scan(&row.ID, &row.ProgramID, &row.Orchestra, &row.Season, &date)
		if scanErr != nil {
			return fmt.Errorf("scan concert: %w", scanErr)
		}

		row.Date, row.Dated = archive.ParseDate(date)
		ds.Concerts = append(ds.Concerts, row)
	}

	return rows.Err()
}

func (s *Store) loadWorks(ctx context.Context, ds *archive.Dataset) error {
	rows, queryErr := s.db.QueryContext(ctx,
		`SELECT id, program_id, composer, title, movement, conductor, soloists, date FROM works ORDER BY seq`)
	if queryErr != nil {
		return fmt.Errorf("query works: %w", queryErr)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			row            archive.WorkRow
			soloists, date string
		)

		scanErr := rows.Scan(&row.ID, &row.ProgramID, &row.Composer, &row.Title,
			&row.Movement, &row.Conductor, &soloists, &date)
		if scanErr != nil {
			return fmt.Errorf("scan work: %w", scanErr)
		}

		unmarshalErr := json.Unmarshal([]byte(soloists), &row.Soloists)
		if unmarshalErr != nil {
			return fmt.Errorf("decode soloists of %s: %w", row.ID, unmarshalErr)
		}

		row.Date, row.Dated = archive.ParseDate(date)
		ds.Works = append(ds.Works, row)
	}

	return rows.Err()
}

// Info reports what is stored. It returns ErrNotIngested for an empty store.
func (s *Store) Info(ctx context.Context) (Info, error) {
	meta := make(map[string]string)

	rows, queryErr := s.db.QueryContext(ctx, `SELECT key, value FROM meta`)
	if queryErr != nil {
		return Info{}, fmt.Errorf("query meta: %w", queryErr)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string

		scanErr := rows.Scan(&key, &value)
		if scanErr != nil {
			return Info{}, fmt.Errorf("scan meta: %w", scanErr)
		}

		meta[key] = value
	}

	iterErr := rows.Err()
	if iterErr != nil {
		return Info{}, fmt.Errorf("read meta: %w", iterErr)
	}

	ingested, ok := meta[metaIngestedAt]
	if !ok {
		return Info{}, ErrNotIngested
	}

	info := Info{Source: meta[metaSource]}
	info.IngestedAt, _ = time.Parse(time.RFC3339, ingested)
	info.Intermissions, _ = strconv.Atoi(meta[metaIntermissions])

	countErr := s.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM concerts), (SELECT COUNT(*) FROM works)`,
	).Scan(&info.Concerts, &info.Works)
	if countErr != nil {
		return Info{}, fmt.Errorf("count rows: %w", countErr)
	}

	return info, nil
}

func formatDate(ts time.Time, dated bool) string {
	if !dated {
		return ""
	}

	return ts.UTC().Format(time.RFC3339)
}
