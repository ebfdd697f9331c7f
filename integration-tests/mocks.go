package integration_tests

import (
	"context"
	"fmt"

	"quantreport/internal/calculator"
	"quantreport/internal/domain"
)

// fake collaborators for end-to-end runs without network access

type fakeMarketDataRepository struct {
	seriesByCode map[string][]domain.PricePoint
}

func (f *fakeMarketDataRepository) GetSeries(ctx context.Context, canonicalID string, rng domain.SeriesRange) (*domain.SecurityTimeSeries, error) {
	points, ok := f.seriesByCode[canonicalID]
	if !ok {
		return nil, fmt.Errorf("%w: no data for %s", domain.ErrCollaboratorUnavailable, canonicalID)
	}
	closes := make([]float64, 0, len(points))
	for _, p := range points {
		closes = append(closes, p.Close)
	}
	last := closes[len(closes)-1]
	return &domain.SecurityTimeSeries{
		Symbol:       canonicalID,
		CurrentPrice: &last,
		Points:       points,
		Metrics:      calculator.CalculateDerivedMetrics(closes, nil),
	}, nil
}

type fakeGptRepository struct {
	response string
	err      error
	calls    int
}

func (f *fakeGptRepository) GenerateNarrative(ctx context.Context, systemPrompt, userPrompt string, settings domain.LLMSettings) (string, error) {
	f.calls++
	return f.response, f.err
}

func pricePoints(closes ...float64) []domain.PricePoint {
	points := make([]domain.PricePoint, len(closes))
	for i, c := range closes {
		points[i] = domain.PricePoint{
			Date:  fmt.Sprintf("2025-01-%02d", i+1),
			Close: c,
		}
	}
	return points
}
