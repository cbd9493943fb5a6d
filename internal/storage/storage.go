// Package storage persists visitor metrics and presence status history in
// SQLite.
package storage

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

type Storage struct {
	db      *sql.DB
	salt    string
	writeMu sync.Mutex // Serialize write operations
}

// Open opens (and creates) the database at path. salt is mixed into visitor
// IP hashes; an empty salt is replaced by a random one, which makes hashes
// stable only for the life of the process.
func Open(path, salt string) (*Storage, error) {
	dsn := path + "?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		// Every connection would get its own empty in-memory database.
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA busy_timeout=10000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy_timeout: %w", err)
	}

	if salt == "" {
		salt, err = randomHex(32)
		if err != nil {
			db.Close()
			return nil, err
		}
	}

	s := &Storage{db: db, salt: salt}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS visitors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			hashed_ip TEXT NOT NULL,  -- never the raw IP
			user_agent TEXT,
			path TEXT,
			visited_at INTEGER NOT NULL  -- unix millis
		)`,
		`CREATE INDEX IF NOT EXISTS idx_visitors_visited_at ON visitors(visited_at)`,
		`CREATE TABLE IF NOT EXISTS status_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			status TEXT NOT NULL,
			changed_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_status_history_user ON status_history(user_id, id)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// HashIP returns a salted, truncated sha256 of ip. The same ip always maps
// to the same hash for a given salt.
func (s *Storage) HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + s.salt))
	return hex.EncodeToString(sum[:])[:16]
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return hex.EncodeToString(b), nil
}
