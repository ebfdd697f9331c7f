package repository

import (
	"context"
	"fmt"

	"quantreport/internal/calculator"
	"quantreport/internal/domain"
)

// BenchmarkIndexRepository fetches cumulative return series for named
// benchmark indices.
type BenchmarkIndexRepository interface {
	GetIndexSeries(ctx context.Context, indexCode string, rng domain.SeriesRange) (*domain.IndexSeries, error)
}

type benchmarkIndexHandler struct {
	marketData MarketDataRepository
}

func NewBenchmarkIndexRepository(marketData MarketDataRepository) BenchmarkIndexRepository {
	return &benchmarkIndexHandler{
		marketData: marketData,
	}
}

func (h *benchmarkIndexHandler) GetIndexSeries(ctx context.Context, indexCode string, rng domain.SeriesRange) (*domain.IndexSeries, error) {
	series, err := h.marketData.GetSeries(ctx, indexCode, rng)
	if err != nil {
		return nil, err
	}

	returns, err := calculator.CumulativeReturns(series.Closes())
	if err != nil {
		return nil, fmt.Errorf("%w: index %s: %s", domain.ErrCollaboratorUnavailable, indexCode, err)
	}

	dates := make([]string, 0, len(series.Points))
	for _, p := range series.Points {
		dates = append(dates, p.Date)
	}

	return &domain.IndexSeries{
		Symbol:     indexCode,
		Dates:      dates,
		Returns:    returns,
		Provenance: domain.ProvenanceReal,
	}, nil
}
