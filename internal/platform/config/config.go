package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"livestock-records/internal/adapters/storage"
	"livestock-records/internal/adapters/storage/s3"
	"livestock-records/internal/platform/logger"

	"github.com/joho/godotenv"
)

// Config agrupa lo que necesita cmd/api. Se arma desde el entorno.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration

	LogLevel  logger.Level
	LogFormat logger.Format
	AppName   string

	Storage storage.Config
}

// Load lee .env (si existe) y luego el entorno. Las variables ya definidas
// en el proceso tienen prioridad sobre el archivo.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv arma la config a partir de un lookup; los tests pasan un map.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		Addr:            ":" + get("PORT", "8080"),
		ShutdownTimeout: 10 * time.Second,
		LogLevel:        logger.ParseLevel(get("LOG_LEVEL", "info")),
		LogFormat:       logger.ParseFormat(get("LOG_FORMAT", "text")),
		AppName:         get("APP_NAME", "livestock-records"),
		Storage: storage.Config{
			Driver:      storage.Driver(strings.ToLower(get("STORAGE_DRIVER", string(storage.DriverSQLite)))),
			SQLitePath:  get("SQLITE_PATH", "livestock.db"),
			PostgresDSN: get("DB_DSN", ""),
			S3: s3.Config{
				Bucket:          get("S3_BUCKET", ""),
				Region:          get("S3_REGION", "us-east-1"),
				Endpoint:        get("S3_ENDPOINT", ""),
				Prefix:          get("S3_PREFIX", ""),
				AccessKeyID:     get("S3_ACCESS_KEY_ID", ""),
				SecretAccessKey: get("S3_SECRET_ACCESS_KEY", ""),
			},
		},
	}

	if v := get("S3_PATH_STYLE", ""); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("S3_PATH_STYLE: %w", err)
		}
		cfg.Storage.S3.PathStyle = b
	}
	if v := get("SHUTDOWN_TIMEOUT", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.ShutdownTimeout = d
	}
	if _, err := strconv.Atoi(strings.TrimPrefix(cfg.Addr, ":")); err != nil {
		return Config{}, fmt.Errorf("PORT: %w", err)
	}

	switch cfg.Storage.Driver {
	case storage.DriverPostgres:
		if cfg.Storage.PostgresDSN == "" {
			return Config{}, errors.New("DB_DSN is required when STORAGE_DRIVER=postgres")
		}
	case storage.DriverS3:
		if cfg.Storage.S3.Bucket == "" {
			return Config{}, errors.New("S3_BUCKET is required when STORAGE_DRIVER=s3")
		}
	}

	return cfg, nil
}

// Logger construye el logger de la app con la config cargada.
func (c Config) Logger(out io.Writer) logger.Logger {
	return logger.New(logger.Options{
		Level:  c.LogLevel,
		Format: c.LogFormat,
		App:    c.AppName,
		Out:    out,
	})
}
