package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/pricelens/backend/internal/domain"
)

// SQLiteStore implements domain.RecordStore using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

// Migrate creates the products table when it does not exist yet
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	return migrate(ctx, s.db, goose.DialectSQLite3, "sqlite")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Insert appends one lookup record and returns its id
func (s *SQLiteStore) Insert(ctx context.Context, rec domain.LookupRecord) (int64, error) {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO products (name, ebay_price, flipkart_title, flipkart_price, created_at) VALUES (?, ?, ?, ?, ?)`,
		rec.ProductName, rec.EbayValue, rec.FlipkartTitle, rec.FlipkartValue, createdAt,
	)
	if err != nil {
		return 0, eris.Wrapf(err, "sqlite: insert record %q", rec.ProductName)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: last insert id")
	}
	return id, nil
}

// List returns every record in insertion order
func (s *SQLiteStore) List(ctx context.Context) ([]domain.LookupRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, ebay_price, flipkart_title, flipkart_price, created_at FROM products ORDER BY id`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list records")
	}
	defer rows.Close() //nolint:errcheck

	records := []domain.LookupRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan record")
		}
		records = append(records, rec)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: iterate records")
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRecord(row scannable) (domain.LookupRecord, error) {
	var (
		rec                                 domain.LookupRecord
		ebayValue, flipkartTitle, flipValue sql.NullString
	)
	if err := row.Scan(&rec.ID, &rec.ProductName, &ebayValue, &flipkartTitle, &flipValue, &rec.CreatedAt); err != nil {
		return domain.LookupRecord{}, err
	}
	rec.EbayValue = nullableString(ebayValue)
	rec.FlipkartTitle = nullableString(flipkartTitle)
	rec.FlipkartValue = nullableString(flipValue)
	return rec, nil
}

func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
