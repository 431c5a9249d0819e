package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS pages (
    key TEXT PRIMARY KEY,
    html TEXT NOT NULL,
    created_at INTEGER NOT NULL
);
`

// SQLite is a page store persisted in a SQLite database file.
// Pages survive restarts and can be shared by several processes.
type SQLite struct {
	db   *sql.DB
	path string
	ttl  time.Duration
	now  func() time.Time
}

// OpenSQLite opens or creates the database at path. ttl <= 0 keeps pages
// forever; otherwise older pages are reported as misses.
func OpenSQLite(path string, ttl time.Duration) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: open database: %w", err)
	}

	// Every connection to ":memory:" gets its own empty database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cache: set busy timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cache: initialize schema: %w", err)
	}

	return &SQLite{db: db, path: path, ttl: ttl, now: time.Now}, nil
}

// Get returns the stored page for key.
func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		html      string
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT html, created_at FROM pages WHERE key = ?", key,
	).Scan(&html, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache: read page: %w", err)
	}

	if s.ttl > 0 && s.now().Sub(time.Unix(0, createdAt)) > s.ttl {
		return "", false, nil
	}
	return html, true, nil
}

// Set upserts the page for key.
func (s *SQLite) Set(ctx context.Context, key, html string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pages (key, html, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET html = excluded.html, created_at = excluded.created_at
	`, key, html, s.now().UnixNano())
	if err != nil {
		return fmt.Errorf("cache: write page: %w", err)
	}
	return nil
}

// Len returns the number of stored pages.
func (s *SQLite) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pages").Scan(&n); err != nil {
		return 0, fmt.Errorf("cache: count pages: %w", err)
	}
	return n, nil
}

// Path returns the database file path.
func (s *SQLite) Path() string {
	return s.path
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
