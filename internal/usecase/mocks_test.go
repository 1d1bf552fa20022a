package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/pricelens/backend/internal/domain"
)

// MockFetcher serves canned pages per marketplace
type MockFetcher struct {
	mu      sync.Mutex
	pages   map[domain.MarketplaceID][]byte
	errs    map[domain.MarketplaceID]error
	queries []string
}

func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		pages: make(map[domain.MarketplaceID][]byte),
		errs:  make(map[domain.MarketplaceID]error),
	}
}

func (m *MockFetcher) Fetch(ctx context.Context, marketplace domain.MarketplaceID, query string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, string(marketplace)+":"+query)
	if err := m.errs[marketplace]; err != nil {
		return nil, err
	}
	return m.pages[marketplace], nil
}

// MockRateProvider returns fixed rates keyed by "FROM:TO"
type MockRateProvider struct {
	mu    sync.Mutex
	rates map[string]decimal.Decimal
	err   error
	calls int
}

func NewMockRateProvider() *MockRateProvider {
	return &MockRateProvider{rates: make(map[string]decimal.Decimal)}
}

func (m *MockRateProvider) GetRate(ctx context.Context, from, to domain.Currency) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return decimal.Zero, m.err
	}
	rate, ok := m.rates[string(from)+":"+string(to)]
	if !ok {
		return decimal.Zero, domain.ErrRateUnavailable
	}
	return rate, nil
}

// FailingRateProvider fails every call and remembers that it was called
type FailingRateProvider struct {
	called bool
}

func (f *FailingRateProvider) GetRate(ctx context.Context, from, to domain.Currency) (decimal.Decimal, error) {
	f.called = true
	return decimal.Zero, errors.New("rate source must not be called")
}

// MockRecordStore records inserts in call order
type MockRecordStore struct {
	mu        sync.Mutex
	records   []domain.LookupRecord
	insertErr error
	listErr   error
}

func NewMockRecordStore() *MockRecordStore {
	return &MockRecordStore{}
}

func (m *MockRecordStore) Insert(ctx context.Context, rec domain.LookupRecord) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	rec.ID = int64(len(m.records) + 1)
	m.records = append(m.records, rec)
	return rec.ID, nil
}

func (m *MockRecordStore) List(ctx context.Context) ([]domain.LookupRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]domain.LookupRecord(nil), m.records...), nil
}
