// Package store persists lookup records in SQLite or PostgreSQL.
package store

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pricelens/backend/internal/domain"
)

// Supported drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store is a record store that owns a database connection
type Store interface {
	domain.RecordStore
	Migrate(ctx context.Context) error
	Close() error
}

// Config selects and configures the store driver
type Config struct {
	Driver      string
	SQLitePath  string
	PostgresURL string
	Pool        PoolConfig
}

// Open connects to the configured driver and applies pending migrations
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		st  Store
		err error
	)
	switch cfg.Driver {
	case DriverSQLite, "":
		st, err = NewSQLite(cfg.SQLitePath)
	case DriverPostgres:
		st, err = NewPostgres(ctx, cfg.PostgresURL, &cfg.Pool)
	default:
		return nil, fmt.Errorf("%w: unknown store driver %q", domain.ErrInvalidRequest, cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "store: migrate")
	}
	zap.L().Info("store: ready", zap.String("driver", cfg.Driver))
	return st, nil
}
