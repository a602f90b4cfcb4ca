package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/okian/deckcheck/internal/domain/model"
	"github.com/okian/deckcheck/pkg/logger"
)

// Default cache configuration constants.
const (
	defaultTTL = 7 * 24 * time.Hour
)

const schema = `
CREATE TABLE IF NOT EXISTS lookup_cache (
	source     TEXT    NOT NULL,
	app_id     INTEGER NOT NULL,
	value      TEXT    NOT NULL,
	fetched_at INTEGER NOT NULL,
	PRIMARY KEY (source, app_id)
)`

// Store persists source lookup results in SQLite, keyed by
// (source, app id). Entries older than the TTL read as misses and are
// pruned on open. It implements enrich.Cache.
type Store struct {
	sqlDB  *sql.DB
	ttl    time.Duration
	logger logger.Logger
}

// Open opens the cache store at path, creating the schema and pruning
// expired rows.
func Open(path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("cache path is required")
	}
	if err := os.MkdirAll(filepath.Dir(filepath.Clean(path)), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s := &Store{
		sqlDB:  sqlDB,
		ttl:    defaultTTL,
		logger: logger.Get().Named("cache"),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.prune(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("prune expired rows: %w", err)
	}
	return s, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Get returns the cached value for (source, app id). Expired or absent
// rows read as a miss, not an error.
func (s *Store) Get(ctx context.Context, source string, id model.AppID) (string, bool, error) {
	if s == nil || s.sqlDB == nil {
		return "", false, ErrClosed
	}

	var value string
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT value FROM lookup_cache WHERE source = ? AND app_id = ? AND fetched_at >= ?`,
		source, int64(id), s.cutoff(),
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read cache: %w", err)
	}
	return value, true, nil
}

// Put writes one lookup result through to the store, replacing any
// previous row and refreshing its timestamp.
func (s *Store) Put(ctx context.Context, source string, id model.AppID, value string) error {
	if s == nil || s.sqlDB == nil {
		return ErrClosed
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO lookup_cache (source, app_id, value, fetched_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (source, app_id) DO UPDATE SET value = excluded.value, fetched_at = excluded.fetched_at`,
		source, int64(id), value, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	return nil
}

// Purge removes every cached row.
func (s *Store) Purge(ctx context.Context) error {
	if s == nil || s.sqlDB == nil {
		return ErrClosed
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM lookup_cache`); err != nil {
		return fmt.Errorf("purge cache: %w", err)
	}
	return nil
}

func (s *Store) prune() error {
	res, err := s.sqlDB.Exec(`DELETE FROM lookup_cache WHERE fetched_at < ?`, s.cutoff())
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		s.logger.Debug(context.Background(), "pruned expired cache rows", logger.Int("rows", int(n)))
	}
	return nil
}

func (s *Store) cutoff() int64 {
	return time.Now().UTC().Add(-s.ttl).UnixMilli()
}
