// Package sqlite implements the repositories on an embedded SQLite file
// using modernc.org/sqlite. It backs local development (DB_DRIVER=sqlite)
// and the service and handler tests.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ckante203-dev/chat-backend/internal/repository"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const schema = `
	CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		birth_date    TEXT,
		phone_number  TEXT,
		created_at    INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS users_created_at_idx ON users (created_at DESC);

	CREATE TABLE IF NOT EXISTS conversations (
		id         TEXT PRIMARY KEY,
		user1_id   TEXT NOT NULL REFERENCES users (id),
		user2_id   TEXT NOT NULL REFERENCES users (id),
		created_at INTEGER NOT NULL,
		CHECK (user1_id <> user2_id)
	);

	CREATE UNIQUE INDEX IF NOT EXISTS conversations_pair_key
		ON conversations (min(user1_id, user2_id), max(user1_id, user2_id));

	CREATE TABLE IF NOT EXISTS messages (
		id              TEXT PRIMARY KEY,
		conversation_id TEXT NOT NULL REFERENCES conversations (id),
		sender_id       TEXT NOT NULL REFERENCES users (id),
		body            TEXT NOT NULL CHECK (body <> ''),
		is_read         INTEGER NOT NULL DEFAULT 0,
		created_at      INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS messages_conversation_created_idx
		ON messages (conversation_id, created_at, id);
`

// Open opens (creating if needed) the database at path and applies the
// schema. Parent directories are created.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// SQLite has a single writer; one connection avoids SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return db, nil
}

func translate(err error) error {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return repository.ErrDuplicate
		}
	}
	return err
}

func toUnix(t time.Time) int64 {
	return t.UnixMicro()
}

func fromUnix(us int64) time.Time {
	return time.UnixMicro(us).UTC()
}
