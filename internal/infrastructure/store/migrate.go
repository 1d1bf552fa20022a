package store

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"

	"github.com/pressly/goose/v3"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

//go:embed migrations
var migrationsFS embed.FS

// migrate applies every pending migration for the given dialect
func migrate(ctx context.Context, db *sql.DB, dialect goose.Dialect, dir string) error {
	fsys, err := fs.Sub(migrationsFS, "migrations/"+dir)
	if err != nil {
		return eris.Wrapf(err, "%s: migrations", dir)
	}

	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return eris.Wrapf(err, "%s: migration provider", dir)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return eris.Wrapf(err, "%s: migrate", dir)
	}
	for _, r := range results {
		zap.L().Info("store: applied migration",
			zap.String("dialect", dir),
			zap.String("source", r.Source.Path),
			zap.Duration("duration", r.Duration),
		)
	}
	return nil
}
