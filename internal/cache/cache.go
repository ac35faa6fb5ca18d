// Package cache provides the durable response cache and per-service
// request throttling used by all network-touching components.
package cache

import (
	"database/sql"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store is a persistent key -> response-body mapping backed by SQLite.
// Entries survive process restarts; a given key's value is effectively
// immutable (identifiers and their canonical metadata do not change), so
// re-putting is idempotent and last-writer-wins.
type Store struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS responses (
			key TEXT PRIMARY KEY,
			body BLOB NOT NULL,
			stored_at INTEGER NOT NULL
		);
	`
	_, err := db.Exec(schema)
	return err
}

// Get returns the cached body for a key, or ok=false when absent.
func (s *Store) Get(key string) ([]byte, bool, error) {
	var body []byte
	err := s.db.QueryRow(`SELECT body FROM responses WHERE key = ?`, key).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry: %w", err)
	}
	return body, true, nil
}

// Put stores a body under a key. Re-putting the same key overwrites, which
// is acceptable since upstream values are immutable per key.
func (s *Store) Put(key string, body []byte) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO responses (key, body, stored_at)
		VALUES (?, ?, ?)
	`, key, body, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Count returns the number of cached responses.
func (s *Store) Count() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM responses`).Scan(&count)
	return count, err
}

// Clear removes all cached responses.
func (s *Store) Clear() error {
	_, err := s.db.Exec(`DELETE FROM responses`)
	return err
}

// Key computes the canonical request key for an outbound GET: host, path,
// and query parameters sorted by name. The Accept header is folded in when
// set, since content negotiation selects the representation served for an
// otherwise identical URL.
func Key(u *url.URL, accept string) string {
	var b strings.Builder
	b.WriteString(u.Host)
	b.WriteString(u.EscapedPath())

	params := u.Query()
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, v := range params[name] {
			b.WriteString("|")
			b.WriteString(name)
			b.WriteString("=")
			b.WriteString(v)
		}
	}

	if accept != "" {
		b.WriteString("|accept=")
		b.WriteString(accept)
	}

	return b.String()
}
