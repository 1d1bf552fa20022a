package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/infrastructure/marketplace"
)

// LookupService fetches, parses and converts one product's listing on every marketplace
type LookupService struct {
	fetcher   domain.MarketplaceFetcher
	parsers   map[domain.MarketplaceID]domain.ListingParser
	converter *CurrencyConverter
}

// NewLookupService creates a lookup service with its dependencies
func NewLookupService(
	fetcher domain.MarketplaceFetcher,
	parsers map[domain.MarketplaceID]domain.ListingParser,
	converter *CurrencyConverter,
) *LookupService {
	return &LookupService{
		fetcher:   fetcher,
		parsers:   parsers,
		converter: converter,
	}
}

// Lookup queries every marketplace concurrently and always returns one
// listing per marketplace. A failure in one slot never affects another.
func (s *LookupService) Lookup(ctx context.Context, productName string, target domain.Currency) domain.LookupOutcome {
	listings := make([]domain.MarketplaceListing, len(domain.Marketplaces))

	var g errgroup.Group
	for i, m := range domain.Marketplaces {
		g.Go(func() error {
			listings[i] = s.lookupMarketplace(ctx, m, productName, target)
			return nil
		})
	}
	_ = g.Wait()

	return domain.LookupOutcome{
		ProductName:    productName,
		TargetCurrency: target,
		Listings:       listings,
	}
}

// lookupMarketplace runs Fetching -> Parsing -> Converting for one marketplace
func (s *LookupService) lookupMarketplace(
	ctx context.Context,
	m domain.MarketplaceID,
	productName string,
	target domain.Currency,
) domain.MarketplaceListing {
	listing := domain.MarketplaceListing{Marketplace: m}
	log := zap.L().With(zap.String("marketplace", string(m)), zap.String("product", productName))

	html, err := s.fetcher.Fetch(ctx, m, productName)
	if err != nil {
		log.Info("lookup: fetch failed", zap.Error(err))
		return failed(listing, domain.ReasonTransportError, err)
	}

	parser, ok := s.parsers[m]
	if !ok {
		log.DPanic("lookup: no parser registered")
		return failed(listing, domain.ReasonPriceElementMissing, domain.ErrPriceElementMissing)
	}

	extraction, err := parser.Parse(html)
	if extraction != nil && extraction.Title != "" {
		title := extraction.Title
		listing.Title = &title
	}
	if err != nil {
		log.Info("lookup: no listing extracted", zap.Error(err))
		if errors.Is(err, domain.ErrListingNotFound) {
			return failed(listing, domain.ReasonNotFound, err)
		}
		return failed(listing, domain.ReasonPriceElementMissing, err)
	}
	listing.RawPrice = extraction.RawPrice

	native, err := marketplace.ParsePrice(extraction.RawPrice)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownCurrencySymbol) {
			log.DPanic("lookup: price without currency marker passed the parser", zap.String("raw", extraction.RawPrice))
		}
		return failed(listing, domain.ReasonPriceElementMissing, err)
	}

	converted, err := s.converter.ConvertMoney(ctx, native, target)
	if err != nil {
		log.Warn("lookup: conversion failed",
			zap.String("from", string(native.Currency())),
			zap.String("to", string(target)),
			zap.Error(err),
		)
		return failed(listing, domain.ReasonRateUnavailable, err)
	}

	listing.Price = &converted
	return listing
}

func failed(l domain.MarketplaceListing, reason domain.FailureReason, err error) domain.MarketplaceListing {
	l.Price = nil
	l.Reason = reason
	l.Detail = err.Error()
	return l
}
