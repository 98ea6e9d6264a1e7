package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/droplet/internal/logger"
	"github.com/julianstephens/droplet/internal/migration"
	"github.com/julianstephens/droplet/internal/models"
	"github.com/julianstephens/droplet/internal/storage"
	"github.com/julianstephens/droplet/migrations"
)

const (
	scopeLocal  = "local"
	scopeRemote = "remote"
)

// Store keeps records in a SQLite file. It serves both the local fallback
// (scope "local") and a single-host persistence service (scope "remote").
type Store struct {
	path string
	db   *sql.DB
	now  func() time.Time
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
		now:  time.Now,
	}
}

func (s *Store) open() error {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// one writer keeps SQLite from returning SQLITE_BUSY under the server
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON; PRAGMA busy_timeout = 5000;"); err != nil {
		db.Close()
		return fmt.Errorf("failed to configure database: %w", err)
	}
	s.db = db
	return nil
}

func (s *Store) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if s.db == nil {
		if err := s.open(); err != nil {
			return err
		}
	}
	if _, err := s.Migrate(context.Background(), func(msg string) { logger.Info(msg) }); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'droplet init' first")
	}
	if err := s.open(); err != nil {
		return err
	}
	if err := s.runner().ValidateVersion(context.Background()); err != nil {
		s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

// Open connects without checking the schema version
func (s *Store) Open() error {
	if s.db != nil {
		return nil
	}
	return s.open()
}

func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying database connection, nil before Init or Load
func (s *Store) GetDB() *sql.DB {
	return s.db
}

func (s *Store) runner() *migration.Runner {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		// the embed pattern guarantees the directory
		panic(fmt.Sprintf("sqlite migrations missing: %v", err))
	}
	return migration.NewRunner(s.db, subFS, migration.SQLite)
}

// Migrate applies pending schema migrations
func (s *Store) Migrate(ctx context.Context, logFn func(string)) (int, error) {
	if s.db == nil {
		return 0, storage.ErrNotLoaded
	}
	return s.runner().ApplyMigrations(ctx, logFn)
}

// MigrationStatus reports the schema version of the database
func (s *Store) MigrationStatus(ctx context.Context) (migration.Status, error) {
	if s.db == nil {
		return migration.Status{}, storage.ErrNotLoaded
	}
	return s.runner().Status(ctx)
}

func (s *Store) query(ctx context.Context, scope, identity string) ([]models.FootprintRecord, error) {
	if s.db == nil {
		return nil, storage.ErrNotLoaded
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+storage.RecordColumns+" FROM footprint_records WHERE scope = ? AND identity = ? ORDER BY seq",
		scope, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	records := []models.FootprintRecord{}
	for rows.Next() {
		rec, err := storage.ScanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func insert(ctx context.Context, tx *sql.Tx, scope, identity string, rec models.FootprintRecord) error {
	args := append([]any{scope, identity}, storage.RecordArgs(rec)...)
	_, err := tx.ExecContext(ctx,
		"INSERT INTO footprint_records (scope, identity, "+storage.RecordColumns+") "+
			"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		args...)
	return err
}

// LocalLoad returns the local history in insertion order
func (s *Store) LocalLoad() ([]models.FootprintRecord, error) {
	return s.query(context.Background(), scopeLocal, "")
}

// LocalSave replaces the local history in one transaction
func (s *Store) LocalSave(records []models.FootprintRecord) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}
	ctx := context.Background()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM footprint_records WHERE scope = ?", scopeLocal); err != nil {
		return fmt.Errorf("failed to clear local history: %w", err)
	}
	for _, rec := range records {
		if err := insert(ctx, tx, scopeLocal, "", rec); err != nil {
			return fmt.Errorf("failed to save record %q: %w", rec.ItemName, err)
		}
	}
	return tx.Commit()
}

func (s *Store) FetchHistory(ctx context.Context, identity string) ([]models.FootprintRecord, error) {
	return s.query(ctx, scopeRemote, identity)
}

func (s *Store) CommitHistory(ctx context.Context, identity string, rec models.FootprintRecord) (models.FootprintRecord, error) {
	if s.db == nil {
		return models.FootprintRecord{}, storage.ErrNotLoaded
	}
	stored := storage.PrepareCommit(rec, s.now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.FootprintRecord{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insert(ctx, tx, scopeRemote, identity, stored); err != nil {
		return models.FootprintRecord{}, fmt.Errorf("failed to insert record: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return models.FootprintRecord{}, fmt.Errorf("failed to commit record: %w", err)
	}
	return stored, nil
}

func (s *Store) DeleteHistory(ctx context.Context, identity, recordID string) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM footprint_records WHERE scope = ? AND identity = ? AND id = ?",
		scopeRemote, identity, recordID)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("record %s: %w", recordID, storage.ErrNotFound)
	}
	return nil
}

var (
	_ storage.LocalStore  = (*Store)(nil)
	_ storage.RemoteStore = (*Store)(nil)
)
