package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pricelens/backend/internal/domain"
)

// Lookuper produces the outcome for one product
type Lookuper interface {
	Lookup(ctx context.Context, productName string, target domain.Currency) domain.LookupOutcome
}

// ComparisonServiceConfig holds configuration for the comparison service
type ComparisonServiceConfig struct {
	// Concurrency bounds how many products are looked up at once; 1 is sequential
	Concurrency int
	Currencies  []domain.Currency
}

// ComparisonService runs lookups for a list of products and logs each one
type ComparisonService struct {
	lookup      Lookuper
	store       domain.RecordStore
	concurrency int
	currencies  map[domain.Currency]bool
}

// NewComparisonService creates a comparison service with dependencies
func NewComparisonService(lookup Lookuper, store domain.RecordStore, config ComparisonServiceConfig) *ComparisonService {
	concurrency := config.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	list := config.Currencies
	if len(list) == 0 {
		list = domain.DefaultCurrencies
	}
	currencies := make(map[domain.Currency]bool, len(list))
	for _, c := range list {
		currencies[c] = true
	}

	return &ComparisonService{
		lookup:      lookup,
		store:       store,
		concurrency: concurrency,
		currencies:  currencies,
	}
}

// ResolveCurrency parses code and checks it against the enabled target currencies
func (s *ComparisonService) ResolveCurrency(code string) (domain.Currency, error) {
	c, err := domain.ParseCurrency(code)
	if err != nil {
		return "", err
	}
	if !s.currencies[c] {
		return "", fmt.Errorf("%w: %s is not enabled", domain.ErrUnsupportedCurrency, c)
	}
	return c, nil
}

// Compare looks up every product and returns the outcomes in input order.
// Exactly one record is written per product, in input order; write failures
// are logged and do not affect the result.
func (s *ComparisonService) Compare(ctx context.Context, productNames []string, target domain.Currency) (domain.ComparisonResult, error) {
	if !s.currencies[target] {
		return domain.ComparisonResult{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedCurrency, target)
	}

	result := domain.ComparisonResult{
		SessionID: uuid.NewString(),
		Outcomes:  make([]domain.LookupOutcome, len(productNames)),
	}
	log := zap.L().With(zap.String("session", result.SessionID))
	log.Info("compare: session started",
		zap.Int("products", len(productNames)),
		zap.String("currency", string(target)),
	)

	done := make([]chan struct{}, len(productNames))
	for i := range done {
		done[i] = make(chan struct{})
	}

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	go func() {
		for i, name := range productNames {
			g.Go(func() error {
				result.Outcomes[i] = s.lookup.Lookup(ctx, name, target)
				close(done[i])
				return nil
			})
		}
	}()

	for i := range productNames {
		<-done[i]
		s.record(ctx, log, result.Outcomes[i])
	}
	_ = g.Wait()

	log.Info("compare: session finished")
	return result, nil
}

// ListRecords returns every stored lookup record
func (s *ComparisonService) ListRecords(ctx context.Context) ([]domain.LookupRecord, error) {
	if s.store == nil {
		return []domain.LookupRecord{}, nil
	}
	return s.store.List(ctx)
}

func (s *ComparisonService) record(ctx context.Context, log *zap.Logger, outcome domain.LookupOutcome) {
	if s.store == nil {
		return
	}
	id, err := s.store.Insert(ctx, domain.NewLookupRecord(outcome))
	if err != nil {
		log.Error("compare: failed to store lookup record",
			zap.String("product", outcome.ProductName),
			zap.Error(err),
		)
		return
	}
	log.Debug("compare: stored lookup record", zap.Int64("id", id), zap.String("product", outcome.ProductName))
}
