// Package store persists per-folder session data (expanded folders and the
// last opened file) in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/avitaltamir/quill/internal/debug"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS expanded (
	root TEXT NOT NULL,
	path TEXT NOT NULL,
	PRIMARY KEY (root, path)
);
CREATE TABLE IF NOT EXISTS folders (
	root TEXT PRIMARY KEY,
	last_file TEXT NOT NULL DEFAULT '',
	updated_at DATETIME NOT NULL
);
`

// DB is the session database. Methods are safe for concurrent use and are
// meant to be called from commands, off the UI loop.
type DB struct {
	conn *sql.DB
}

// DefaultPath returns the database location under the user cache directory.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "quill", "session.db"), nil
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// WAL lets readers proceed while a save is in progress.
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=2000;",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	debug.Log(debug.STORE, "session db opened", "path", path)
	return &DB{conn: conn}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.conn.Close()
}

// SaveExpanded replaces the expanded folder set recorded for root.
func (d *DB) SaveExpanded(ctx context.Context, root string, paths []string) error {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM expanded WHERE root = ?", root); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, "INSERT OR IGNORE INTO expanded (root, path) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range paths {
		if _, err := stmt.ExecContext(ctx, root, p); err != nil {
			return err
		}
	}
	if err := d.touch(ctx, tx, root); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	debug.Log(debug.STORE, "expanded saved", "root", root, "count", len(paths))
	return nil
}

// Expanded returns the expanded folders recorded for root, sorted by path.
func (d *DB) Expanded(ctx context.Context, root string) ([]string, error) {
	rows, err := d.conn.QueryContext(ctx, "SELECT path FROM expanded WHERE root = ? ORDER BY path", root)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// SetLastFile records the file last opened in root.
func (d *DB) SetLastFile(ctx context.Context, root, file string) error {
	_, err := d.conn.ExecContext(ctx, `
		INSERT INTO folders (root, last_file, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(root) DO UPDATE SET last_file = excluded.last_file, updated_at = excluded.updated_at`,
		root, file, time.Now().UTC())
	return err
}

// LastFile returns the file last opened in root, or "" if none is recorded.
func (d *DB) LastFile(ctx context.Context, root string) (string, error) {
	var file string
	err := d.conn.QueryRowContext(ctx, "SELECT last_file FROM folders WHERE root = ?", root).Scan(&file)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return file, err
}

func (d *DB) touch(ctx context.Context, tx *sql.Tx, root string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO folders (root, updated_at) VALUES (?, ?)
		ON CONFLICT(root) DO UPDATE SET updated_at = excluded.updated_at`,
		root, time.Now().UTC())
	return err
}
