// Package cache persists fetched bibliographic metadata across runs.
//
// Records are keyed by the external identifier (kind + value), not the
// local entry identifier, so renaming a local entry never invalidates
// its cached metadata. The cache exists for courtesy to the remote
// services and for offline resilience, not correctness: fresh data is
// always preferred when reachable.
package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/matsen/gitbib/internal/entry"
)

const schemaVersion = "1"

// Cache is a SQLite-backed store of fetched metadata bags.
type Cache struct {
	db  *sql.DB
	log *slog.Logger
}

// Record is one cached metadata bag with its fetch timestamp.
type Record struct {
	External  entry.ExternalID
	Meta      *entry.Metadata
	FetchedAt time.Time
}

// Open opens or creates a metadata cache at the given path.
func Open(path string, logger *slog.Logger) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if logger == nil {
		logger = slog.Default()
	}

	c := &Cache{db: db, log: logger}
	if err := c.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache schema: %w", err)
	}
	return c, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) initSchema() error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS metadata (
  kind TEXT NOT NULL,
  id TEXT NOT NULL,
  data TEXT NOT NULL,
  fetched_at TEXT NOT NULL,
  PRIMARY KEY (kind, id)
)`,
		`CREATE TABLE IF NOT EXISTS _meta (
  key TEXT PRIMARY KEY,
  value TEXT
)`,
	}
	for _, stmt := range ddl {
		if _, err := c.db.Exec(stmt); err != nil {
			return err
		}
	}

	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO _meta (key, value) VALUES ('schema_version', ?)`,
		schemaVersion)
	return err
}

// Get returns the cached record for an external identifier, or nil if
// none exists. It is a point lookup; the store is never scanned whole.
func (c *Cache) Get(ext entry.ExternalID) (*Record, error) {
	var data, fetchedAt string
	err := c.db.QueryRow(
		`SELECT data, fetched_at FROM metadata WHERE kind = ? AND id = ?`,
		string(ext.Kind), ext.Value).Scan(&data, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache record %s: %w", ext, err)
	}

	var meta entry.Metadata
	if err := json.Unmarshal([]byte(data), &meta); err != nil {
		return nil, fmt.Errorf("decoding cache record %s: %w", ext, err)
	}

	rec := &Record{External: ext, Meta: &meta}
	if t, err := time.Parse(time.RFC3339, fetchedAt); err == nil {
		rec.FetchedAt = t
	}
	return rec, nil
}

// Put stores a metadata bag for an external identifier, overwriting any
// previous record and stamping the fetch time.
func (c *Cache) Put(ext entry.ExternalID, meta *entry.Metadata) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encoding cache record %s: %w", ext, err)
	}

	_, err = c.db.Exec(
		`INSERT OR REPLACE INTO metadata (kind, id, data, fetched_at) VALUES (?, ?, ?, ?)`,
		string(ext.Kind), ext.Value, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("writing cache record %s: %w", ext, err)
	}
	return nil
}

// Len returns the number of cached records.
func (c *Cache) Len() (int, error) {
	var n int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM metadata`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
