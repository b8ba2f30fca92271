// Package archive persists raw feed payloads to a size-capped SQLite
// file for replay and debugging. It is not history: the engine never
// reads it back at runtime, and losing it loses nothing but forensics.
package archive

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/courtside/courtside/internal/telemetry"

	_ "modernc.org/sqlite"
)

const (
	maxStoreBytes  int64 = 256 << 20 // 256 MiB
	evictBatchSize       = 100
)

// Store is a FIFO archive of raw payloads. Oldest rows are evicted when
// the byte budget is exceeded. A nil *Store is a no-op.
type Store struct {
	db         *sql.DB
	mu         sync.Mutex
	cachedSize int64
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS payloads (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			topic     TEXT    NOT NULL,
			origin    TEXT    NOT NULL,
			received  TEXT    NOT NULL,
			byte_size INTEGER NOT NULL,
			raw       BLOB    NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_payloads_received ON payloads(received)`,
		`CREATE INDEX IF NOT EXISTS idx_payloads_topic    ON payloads(topic)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("init archive schema: %w", err)
		}
	}

	var size int64
	if err := db.QueryRow(`SELECT COALESCE(SUM(byte_size), 0) FROM payloads`).Scan(&size); err != nil {
		db.Close()
		return nil, fmt.Errorf("read archive size: %w", err)
	}

	telemetry.Debugf("archive: opened %s rows_bytes=%d", path, size)
	return &Store{db: db, cachedSize: size}, nil
}

// Insert stores one raw payload. origin names the delivering channel
// ("push" or "poll") for forensics only.
func (s *Store) Insert(topic, origin string, raw []byte) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO payloads (topic, origin, received, byte_size, raw) VALUES (?, ?, ?, ?, ?)`,
		topic, origin,
		time.Now().UTC().Format(time.RFC3339Nano),
		int64(len(raw)), raw,
	)
	if err != nil {
		telemetry.Warnf("archive: insert failed: %v", err)
		return
	}

	s.cachedSize += int64(len(raw))
	if s.cachedSize > maxStoreBytes {
		s.evict()
	}
}

// Count returns how many payloads are archived for a topic.
func (s *Store) Count(topic string) (int, error) {
	if s == nil {
		return 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM payloads WHERE topic = ?`, topic).Scan(&n)
	return n, err
}

// Replay streams archived payloads for a topic, oldest first.
func (s *Store) Replay(topic string, fn func(origin string, raw []byte) error) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT origin, raw FROM payloads WHERE topic = ? ORDER BY id ASC`, topic)
	if err != nil {
		return fmt.Errorf("replay query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var origin string
		var raw []byte
		if err := rows.Scan(&origin, &raw); err != nil {
			return fmt.Errorf("replay scan: %w", err)
		}
		if err := fn(origin, raw); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *Store) evict() {
	for s.cachedSize > maxStoreBytes {
		var freed int64
		err := s.db.QueryRow(
			`WITH deleted AS (
				DELETE FROM payloads
				WHERE id IN (SELECT id FROM payloads ORDER BY id ASC LIMIT ?)
				RETURNING byte_size
			)
			SELECT COALESCE(SUM(byte_size), 0) FROM deleted`,
			evictBatchSize,
		).Scan(&freed)
		if err != nil || freed == 0 {
			telemetry.Warnf("archive: eviction stalled (freed=%d): %v", freed, err)
			break
		}
		s.cachedSize -= freed
	}
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
