package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"livestock-records/internal/domain/records"
)

const createStateTable = `
	CREATE TABLE IF NOT EXISTS livestock_state (
		key        TEXT PRIMARY KEY,
		payload    JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

const upsertState = `
	INSERT INTO livestock_state (key, payload, updated_at)
	VALUES ($1, $2, now())
	ON CONFLICT (key) DO UPDATE
	SET payload = EXCLUDED.payload,
		updated_at = EXCLUDED.updated_at
`

// Storage guarda cada colección como JSONB en livestock_state.
type Storage struct {
	db *sql.DB
}

// NewStorage crea la tabla si no existe.
func NewStorage(ctx context.Context, db *sql.DB) (*Storage, error) {
	if db == nil {
		return nil, errors.New("postgres: nil db")
	}
	if _, err := db.ExecContext(ctx, createStateTable); err != nil {
		return nil, fmt.Errorf("create livestock_state: %w", err)
	}
	return &Storage{db: db}, nil
}

func (s *Storage) Load(ctx context.Context, key string) ([]byte, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, records.ErrKeyNotFound
	}

	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM livestock_state WHERE key = $1`, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, records.ErrKeyNotFound
		}
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return payload, nil
}

func (s *Storage) Save(ctx context.Context, key string, payload []byte) error {
	if _, err := s.db.ExecContext(ctx, upsertState, key, string(payload)); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

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
		if _, err := tx.ExecContext(ctx, upsertState, e.Key, string(e.Payload)); err != nil {
			return fmt.Errorf("upsert %s: %w", e.Key, err)
		}
	}
	return tx.Commit()
}

func (s *Storage) Close() error { return s.db.Close() }
