package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricelens/backend/internal/domain"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func strPtr(s string) *string { return &s }

func TestSQLite_InsertAndList(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	id, err := st.Insert(ctx, domain.LookupRecord{
		ProductName:   "laptop",
		EbayValue:     strPtr("799.99 USD"),
		FlipkartTitle: strPtr("Dell Laptop"),
		FlipkartValue: strPtr("780.00 USD"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	id, err = st.Insert(ctx, domain.LookupRecord{ProductName: "phone"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)

	records, err := st.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, "laptop", first.ProductName)
	require.NotNil(t, first.EbayValue)
	assert.Equal(t, "799.99 USD", *first.EbayValue)
	require.NotNil(t, first.FlipkartTitle)
	assert.Equal(t, "Dell Laptop", *first.FlipkartTitle)
	require.NotNil(t, first.FlipkartValue)
	assert.Equal(t, "780.00 USD", *first.FlipkartValue)
	assert.WithinDuration(t, time.Now(), first.CreatedAt, time.Minute)

	second := records[1]
	assert.Equal(t, "phone", second.ProductName)
	assert.Nil(t, second.EbayValue)
	assert.Nil(t, second.FlipkartTitle)
	assert.Nil(t, second.FlipkartValue)
}

func TestSQLite_ListEmpty(t *testing.T) {
	st := newTestSQLiteStore(t)

	records, err := st.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestSQLite_MigrateIsIdempotent(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := st.Insert(ctx, domain.LookupRecord{ProductName: "laptop"})
	require.NoError(t, err)
	require.NoError(t, st.Migrate(ctx))

	records, err := st.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestSQLite_DuplicateNamesKept(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	for range 3 {
		_, err := st.Insert(ctx, domain.LookupRecord{ProductName: "phone"})
		require.NoError(t, err)
	}

	records, err := st.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestSQLite_ClosedStoreFails(t *testing.T) {
	st, err := NewSQLite(filepath.Join(t.TempDir(), "closed.db"))
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	require.NoError(t, st.Close())

	_, err = st.Insert(context.Background(), domain.LookupRecord{ProductName: "laptop"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite: insert record")
}

func TestOpen_SQLite(t *testing.T) {
	st, err := Open(context.Background(), Config{
		Driver:     DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "open.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck

	_, err = st.Insert(context.Background(), domain.LookupRecord{ProductName: "laptop"})
	require.NoError(t, err)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "mysql"})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}
