package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rotisserie/eris"

	"github.com/pricelens/backend/internal/domain"
)

// Pool is the subset of pgxpool.Pool used by the store
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `mapstructure:"max_conns"`
	MinConns int32 `mapstructure:"min_conns"`
}

// PostgresStore implements domain.RecordStore using pgxpool.
type PostgresStore struct {
	pool    Pool
	migrate func(ctx context.Context) error
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(4)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}

	return &PostgresStore{
		pool: pool,
		migrate: func(ctx context.Context) error {
			db := stdlib.OpenDBFromPool(pool)
			defer db.Close() //nolint:errcheck
			return migrate(ctx, db, goose.DialectPostgres, "postgres")
		},
	}, nil
}

// Migrate creates the products table when it does not exist yet
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if s.migrate == nil {
		return nil
	}
	return s.migrate(ctx)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Insert appends one lookup record and returns its id
func (s *PostgresStore) Insert(ctx context.Context, rec domain.LookupRecord) (int64, error) {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO products (name, ebay_price, flipkart_title, flipkart_price, created_at) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		rec.ProductName, rec.EbayValue, rec.FlipkartTitle, rec.FlipkartValue, createdAt,
	).Scan(&id)
	if err != nil {
		return 0, eris.Wrapf(err, "postgres: insert record %q", rec.ProductName)
	}
	return id, nil
}

// List returns every record in insertion order
func (s *PostgresStore) List(ctx context.Context) ([]domain.LookupRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, ebay_price, flipkart_title, flipkart_price, created_at FROM products ORDER BY id`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list records")
	}
	defer rows.Close()

	records := []domain.LookupRecord{}
	for rows.Next() {
		var rec domain.LookupRecord
		if err := rows.Scan(&rec.ID, &rec.ProductName, &rec.EbayValue, &rec.FlipkartTitle, &rec.FlipkartValue, &rec.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan record")
		}
		records = append(records, rec)
	}
	return records, eris.Wrap(rows.Err(), "postgres: iterate records")
}
