// Package index provides a derived sqlite cache for shallow-scan
// classification results. The cache is never authoritative and is safe to
// delete: a miss, a stale mtime stamp or any sqlite failure just means the
// folder gets scanned directly.
package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"rf/internal/folder"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
)

const schemaVersion = 1

// Index is an sqlite-backed folder.ScanCache.
type Index struct {
	db *sql.DB
}

// Open opens (or creates) the cache database at path. A schema version
// mismatch drops and recreates the schema; cached scans are disposable.
func Open(ctx context.Context, path string) (*Index, error) {
	db, err := openSQLite(ctx, path)
	if err != nil {
		return nil, err
	}

	version, err := userVersion(ctx, db)
	if err != nil {
		_ = db.Close()

		return nil, err
	}

	if version != schemaVersion {
		if err := resetSchema(ctx, db); err != nil {
			_ = db.Close()

			return nil, err
		}
	}

	return &Index{db: db}, nil
}

// Close closes the underlying database.
func (x *Index) Close() error {
	return x.db.Close()
}

// Get returns the cached classification for key if the stored mtime stamp
// still matches the live directory mtime. Any failure is a miss.
func (x *Index) Get(ctx context.Context, key folder.Key, mtimeNS int64) (folder.Classification, bool) {
	row := x.db.QueryRowContext(ctx, `
		SELECT mtime_ns, category, tags FROM scans WHERE key = ?`, string(key))

	var (
		storedMtime int64
		category    string
		tags        string
	)

	err := row.Scan(&storedMtime, &category, &tags)
	if err != nil {
		return folder.Classification{}, false
	}

	if storedMtime != mtimeNS {
		return folder.Classification{}, false
	}

	return folder.Classification{Category: category, Tags: splitTags(tags)}, true
}

// Put upserts the classification for key under the given mtime stamp.
// Failures are swallowed: the cache must never break a sweep.
func (x *Index) Put(ctx context.Context, key folder.Key, path string, mtimeNS int64, c folder.Classification, listing *folder.Listing) {
	entryCount := 0
	truncated := false

	if listing != nil {
		entryCount = listing.Total
		truncated = listing.Truncated
	}

	_, _ = x.db.ExecContext(ctx, `
		INSERT INTO scans (key, path, mtime_ns, category, tags, entry_count, truncated, scanned_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			path = excluded.path,
			mtime_ns = excluded.mtime_ns,
			category = excluded.category,
			tags = excluded.tags,
			entry_count = excluded.entry_count,
			truncated = excluded.truncated,
			scanned_at = excluded.scanned_at`,
		string(key), path, mtimeNS, c.Category, joinTags(c.Tags),
		entryCount, boolToInt(truncated), time.Now().Unix())
}

// Len returns the number of cached scans, for diagnostics.
func (x *Index) Len(ctx context.Context) (int, error) {
	row := x.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scans`)

	var n int

	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count scans: %w", err)
	}

	return n, nil
}

// Prune removes cached scans whose key is not in keep, in one transaction.
// Run after a refresh so the cache does not grow with folders that left the
// recent list.
func (x *Index) Prune(ctx context.Context, keep map[folder.Key]bool) (int, error) {
	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin prune txn: %w", err)
	}

	committed := false

	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rows, err := tx.QueryContext(ctx, `SELECT key FROM scans`)
	if err != nil {
		return 0, fmt.Errorf("list scan keys: %w", err)
	}

	var stale []string

	for rows.Next() {
		var key string

		if err := rows.Scan(&key); err != nil {
			_ = rows.Close()

			return 0, fmt.Errorf("scan key: %w", err)
		}

		if !keep[folder.Key(key)] {
			stale = append(stale, key)
		}
	}

	if err := rows.Err(); err != nil {
		_ = rows.Close()

		return 0, fmt.Errorf("iterate scan keys: %w", err)
	}

	_ = rows.Close()

	del, err := tx.PrepareContext(ctx, `DELETE FROM scans WHERE key = ?`)
	if err != nil {
		return 0, fmt.Errorf("prepare delete: %w", err)
	}

	defer func() { _ = del.Close() }()

	for _, key := range stale {
		if _, err := del.ExecContext(ctx, key); err != nil {
			return 0, fmt.Errorf("delete scan %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit prune txn: %w", err)
	}

	committed = true

	return len(stale), nil
}

func openSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		return nil, errors.New("open sqlite: path is empty")
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()

		return nil, err
	}

	return db, nil
}

// applyPragmas favors speed over durability: the cache is disposable.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	statements := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply pragma %q: %w", stmt, err)
		}
	}

	return nil
}

func userVersion(ctx context.Context, db *sql.DB) (int, error) {
	row := db.QueryRowContext(ctx, "PRAGMA user_version")

	var version int

	if err := row.Scan(&version); err != nil {
		return 0, fmt.Errorf("read user_version: %w", err)
	}

	return version, nil
}

func resetSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`DROP TABLE IF EXISTS scans`,
		`CREATE TABLE scans (
			key         TEXT PRIMARY KEY,
			path        TEXT NOT NULL,
			mtime_ns    INTEGER NOT NULL,
			category    TEXT NOT NULL,
			tags        TEXT NOT NULL,
			entry_count INTEGER NOT NULL,
			truncated   INTEGER NOT NULL,
			scanned_at  INTEGER NOT NULL
		)`,
		fmt.Sprintf("PRAGMA user_version = %d", schemaVersion),
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("reset schema: %w", err)
		}
	}

	return nil
}

// tagSeparator joins tags in the tags column. Tags never contain newlines.
const tagSeparator = "\n"

func joinTags(tags []string) string {
	return strings.Join(tags, tagSeparator)
}

func splitTags(joined string) []string {
	if joined == "" {
		return nil
	}

	return strings.Split(joined, tagSeparator)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}

	return 0
}
