package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"livestock-records/internal/adapters/storage/memory"
	"livestock-records/internal/adapters/storage/postgres"
	"livestock-records/internal/adapters/storage/s3"
	"livestock-records/internal/adapters/storage/sqlite"
	"livestock-records/internal/domain/records"
)

// Driver identifica el backend de persistencia.
type Driver string

const (
	DriverMemory   Driver = "memory"   // efímero, tests / dev
	DriverSQLite   Driver = "sqlite"   // archivo embebido (default)
	DriverPostgres Driver = "postgres" // servidor PostgreSQL
	DriverS3       Driver = "s3"       // objetos JSON en un bucket
)

type Config struct {
	Driver      Driver
	SQLitePath  string
	PostgresDSN string
	S3          s3.Config
}

// Backend es lo que el store necesita más el cierre de recursos.
type Backend interface {
	records.Storage
	io.Closer
}

// Open selecciona el backend según cfg.Driver (sqlite si está vacío).
func Open(ctx context.Context, cfg Config) (Backend, error) {
	driver := Driver(strings.ToLower(strings.TrimSpace(string(cfg.Driver))))
	if driver == "" {
		driver = DriverSQLite
	}

	switch driver {
	case DriverMemory:
		return memory.NewStorage(), nil
	case DriverSQLite:
		st, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return st, nil
	case DriverPostgres:
		if strings.TrimSpace(cfg.PostgresDSN) == "" {
			return nil, fmt.Errorf("DB_DSN is required for driver %s", driver)
		}
		db, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		st, err := postgres.NewStorage(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		return st, nil
	case DriverS3:
		st, err := s3.New(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
