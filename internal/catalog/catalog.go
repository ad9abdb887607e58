// Package catalog keeps a SQLite index of every primitive in every library
// prim has touched, so primitives can be found without opening each file.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gobwas/glob"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// schema contains the DDL executed on first open. Using IF NOT EXISTS makes
// it safe to run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS primitives (
    library    TEXT NOT NULL,
    name       TEXT NOT NULL,
    lines      INTEGER NOT NULL,
    indexed_at INTEGER NOT NULL,
    PRIMARY KEY (library, name)
);
`

// Entry is one indexed primitive.
type Entry struct {
	Library   string
	Name      string
	Lines     int
	IndexedAt time.Time
}

// Catalog is a SQLite-backed primitive index in WAL mode.
type Catalog struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the catalog database at dbPath, enables WAL mode
// and busy timeout, and creates the schema if it does not exist.
func Open(ctx context.Context, dbPath string) (*Catalog, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("catalog: open database: %w", err)
	}

	// SQLite supports a single writer; one connection keeps PRAGMAs in effect.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: create schema: %w", err)
	}

	return &Catalog{db: db, now: time.Now}, nil
}

// Upsert records or refreshes one primitive.
func (c *Catalog) Upsert(ctx context.Context, library, name string, lines int) error {
	const q = `
		INSERT INTO primitives (library, name, lines, indexed_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(library, name) DO UPDATE SET
			lines      = excluded.lines,
			indexed_at = excluded.indexed_at`
	if _, err := c.db.ExecContext(ctx, q, library, name, lines, c.now().Unix()); err != nil {
		return fmt.Errorf("catalog: upsert %q/%q: %w", library, name, err)
	}
	return nil
}

// Delete drops one primitive from the index.
func (c *Catalog) Delete(ctx context.Context, library, name string) error {
	if _, err := c.db.ExecContext(ctx, "DELETE FROM primitives WHERE library = ? AND name = ?", library, name); err != nil {
		return fmt.Errorf("catalog: delete %q/%q: %w", library, name, err)
	}
	return nil
}

// ReplaceLibrary swaps every row for library with entries in one transaction.
// The map is name to body line count.
func (c *Catalog) ReplaceLibrary(ctx context.Context, library string, entries map[string]int) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("catalog: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx, "DELETE FROM primitives WHERE library = ?", library); err != nil {
		return fmt.Errorf("catalog: clear %q: %w", library, err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO primitives (library, name, lines, indexed_at) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("catalog: prepare insert: %w", err)
	}
	defer stmt.Close()

	now := c.now().Unix()
	for name, lines := range entries {
		if _, err := stmt.ExecContext(ctx, library, name, lines, now); err != nil {
			return fmt.Errorf("catalog: insert %q/%q: %w", library, name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("catalog: commit %q: %w", library, err)
	}
	return nil
}

// Search returns every entry whose name matches the glob pattern, ordered by
// library then name. An empty pattern matches everything.
func (c *Catalog) Search(ctx context.Context, pattern string) ([]Entry, error) {
	if pattern == "" {
		pattern = "*"
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("catalog: bad pattern %q: %w", pattern, err)
	}

	rows, err := c.db.QueryContext(ctx, "SELECT library, name, lines, indexed_at FROM primitives ORDER BY library, name")
	if err != nil {
		return nil, fmt.Errorf("catalog: query: %w", err)
	}
	defer rows.Close()

	var result []Entry
	for rows.Next() {
		var e Entry
		var ts int64
		if err := rows.Scan(&e.Library, &e.Name, &e.Lines, &ts); err != nil {
			return nil, fmt.Errorf("catalog: scan: %w", err)
		}
		if !g.Match(e.Name) {
			continue
		}
		e.IndexedAt = time.Unix(ts, 0)
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate: %w", err)
	}
	return result, nil
}

// Close releases the database handle.
func (c *Catalog) Close() error {
	return c.db.Close()
}
