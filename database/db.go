package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
}

// New opens (or creates) the prompt store at dbPath. The parent
// directory is created on demand. WAL mode and foreign-key enforcement
// are set through DSN pragmas so they apply to every pooled connection.
func New(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	// Surface an unreadable or corrupt file at open time rather than
	// on the first query
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &DB{db}, nil
}

// Migrate issues the schema DDL. Every statement is idempotent, so
// calling it on an already-initialized store is a no-op.
func (db *DB) Migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS categories (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			icon TEXT,
			sort_order INTEGER NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS tags (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			color TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS prompts (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			category_id TEXT NOT NULL,
			source TEXT,
			is_favorite INTEGER NOT NULL DEFAULT 0,
			usage_count INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY (category_id) REFERENCES categories(id)
		)`,

		`CREATE TABLE IF NOT EXISTS prompt_tags (
			prompt_id TEXT NOT NULL,
			tag_id TEXT NOT NULL,
			PRIMARY KEY (prompt_id, tag_id),
			FOREIGN KEY (prompt_id) REFERENCES prompts(id) ON DELETE CASCADE,
			FOREIGN KEY (tag_id) REFERENCES tags(id) ON DELETE CASCADE
		)`,

		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Full-text index over prompts, kept current by the three
		// triggers below. The triggers are the only writers of this
		// table; it must never diverge from prompts.
		`CREATE VIRTUAL TABLE IF NOT EXISTS prompts_fts USING fts5(
			title,
			content,
			content='prompts',
			content_rowid='rowid'
		)`,

		`CREATE TRIGGER IF NOT EXISTS prompts_ai AFTER INSERT ON prompts BEGIN
			INSERT INTO prompts_fts(rowid, title, content)
			VALUES (new.rowid, new.title, new.content);
		END`,

		`CREATE TRIGGER IF NOT EXISTS prompts_ad AFTER DELETE ON prompts BEGIN
			INSERT INTO prompts_fts(prompts_fts, rowid, title, content)
			VALUES ('delete', old.rowid, old.title, old.content);
		END`,

		`CREATE TRIGGER IF NOT EXISTS prompts_au AFTER UPDATE ON prompts BEGIN
			INSERT INTO prompts_fts(prompts_fts, rowid, title, content)
			VALUES ('delete', old.rowid, old.title, old.content);
			INSERT INTO prompts_fts(rowid, title, content)
			VALUES (new.rowid, new.title, new.content);
		END`,

		`CREATE INDEX IF NOT EXISTS idx_prompts_category ON prompts(category_id)`,
		`CREATE INDEX IF NOT EXISTS idx_prompts_usage ON prompts(usage_count DESC, updated_at DESC)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// WithTx runs fn inside a single transaction. Every multi-statement
// mutation in the repositories goes through here so a failure mid-way
// never leaves the link table or a reassignment half-applied.
func (db *DB) WithTx(fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	return tx.Commit()
}

func (db *DB) Close() error {
	return db.DB.Close()
}

// Timestamps are bound as fixed-width UTC text so that lexicographic
// comparison in ORDER BY matches chronological order.
const timeLayout = "2006-01-02T15:04:05.000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
