package sqlstore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

const (
	maxRetries = 30
	retryDelay = 2 * time.Second
)

// Open connects to the database. PostgreSQL connections are retried so the
// bot can start before the database container is ready.
func Open(d Dialect, dsn string, logger *zap.Logger) (*sql.DB, error) {
	attempts := maxRetries
	if d.Name() == "sqlite" {
		attempts = 1
		if dir := filepath.Dir(dsn); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create store directory: %w", err)
			}
		}
	}

	var db *sql.DB
	var err error

	for i := 0; i < attempts; i++ {
		if i > 0 {
			time.Sleep(retryDelay)
		}

		db, err = sql.Open(d.DriverName(), dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.String("driver", d.Name()),
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			continue
		}

		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.String("driver", d.Name()),
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			continue
		}

		if err = d.Configure(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to configure %s connection: %w", d.Name(), err)
		}

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", attempts, err)
}
