package imagecache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLite persists images in a SQLite database so repeated builds skip
// unchanged renders.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path, ensures the data
// directory exists, and creates the schema.
func OpenSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("imagecache: sqlite: %w", err)
	}
	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("imagecache: sqlite: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &SQLite{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// sqliteDSN carries the pragmas in the DSN so every pooled connection gets
// them, not only the first. WAL lets the build's concurrent writers proceed
// while readers keep going; the busy timeout makes writers wait instead of
// failing.
func sqliteDSN(path string) string {
	return "file:" + path +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
}

func (s *SQLite) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS og_images (
    key TEXT PRIMARY KEY,
    png BLOB NOT NULL,
    created_at TEXT NOT NULL
);
`)
	if err != nil {
		return fmt.Errorf("imagecache: sqlite schema: %w", err)
	}
	return nil
}

// Get implements Backend.
func (s *SQLite) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var png []byte
	err := s.db.QueryRowContext(ctx, `SELECT png FROM og_images WHERE key = ?`, key).Scan(&png)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("imagecache: sqlite get: %w", err)
	}
	return png, true, nil
}

// Put implements Backend.
func (s *SQLite) Put(ctx context.Context, key string, png []byte) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO og_images (key, png, created_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET png = excluded.png, created_at = excluded.created_at
`, key, png, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("imagecache: sqlite put: %w", err)
	}
	return nil
}

// Prune deletes entries created before cutoff and returns how many were
// removed.
func (s *SQLite) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM og_images WHERE created_at < ?`, cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("imagecache: sqlite prune: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the number of stored images.
func (s *SQLite) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM og_images`).Scan(&n); err != nil {
		return 0, fmt.Errorf("imagecache: sqlite count: %w", err)
	}
	return n, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}
