package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"livestock-records/internal/domain/records"

	_ "modernc.org/sqlite" // driver sqlite en Go puro
)

const DefaultPath = "livestock.db"

// Storage persiste cada colección como un blob JSON en la tabla state,
// una fila por key.
type Storage struct {
	db   *sql.DB
	path string
}

func Open(ctx context.Context, path string) (*Storage, error) {
	if path == "" {
		path = DefaultPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// un solo writer; evita SQLITE_BUSY entre conexiones del pool
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}

	return &Storage{db: db, path: path}, nil
}

func (s *Storage) Load(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM state WHERE bucket = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, records.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return payload, nil
}

const upsertState = `INSERT INTO state(bucket, payload) VALUES(?, ?)
	ON CONFLICT(bucket) DO UPDATE SET payload = excluded.payload`

func (s *Storage) Save(ctx context.Context, key string, payload []byte) error {
	if _, err := s.db.ExecContext(ctx, upsertState, key, payload); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

// SaveBatch escribe todas las keys en una transacción.
func (s *Storage) SaveBatch(ctx context.Context, entries []records.Entry) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, upsertState, e.Key, e.Payload); err != nil {
			return fmt.Errorf("upsert %s: %w", e.Key, err)
		}
	}
	return tx.Commit()
}

func (s *Storage) Path() string { return s.path }

func (s *Storage) Close() error { return s.db.Close() }
