package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"quantreport/internal/calculator"
	"quantreport/internal/domain"
	"quantreport/internal/logger"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
)

// MarketDataRepository fetches daily price history for a security.
// Lookups happen by canonical dictionary identifier, never by the raw
// text a user typed.
type MarketDataRepository interface {
	GetSeries(ctx context.Context, canonicalID string, rng domain.SeriesRange) (*domain.SecurityTimeSeries, error)
}

type marketDataHandler struct {
	fetchTimeout time.Duration
}

func NewMarketDataRepository() MarketDataRepository {
	return &marketDataHandler{
		fetchTimeout: 15 * time.Second,
	}
}

// vendorSymbol maps canonical exchange-prefixed codes (sh.600519,
// sz.399001) to the data vendor's suffix convention (600519.SS,
// 399001.SZ). Symbols without a recognized prefix pass through.
func vendorSymbol(canonicalID string) string {
	switch {
	case strings.HasPrefix(canonicalID, "sh."):
		return strings.TrimPrefix(canonicalID, "sh.") + ".SS"
	case strings.HasPrefix(canonicalID, "sz."):
		return strings.TrimPrefix(canonicalID, "sz.") + ".SZ"
	}
	return canonicalID
}

func (h *marketDataHandler) GetSeries(ctx context.Context, canonicalID string, rng domain.SeriesRange) (*domain.SecurityTimeSeries, error) {
	log := logger.FromContext(ctx)

	points, err := h.fetchDailyBars(ctx, canonicalID, rng)
	if err != nil {
		// one bounded retry; transient vendor hiccups are common
		log.Warnw("retrying series fetch", "canonicalID", canonicalID, "error", err)
		points, err = h.fetchDailyBars(ctx, canonicalID, rng)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: series fetch for %s: %s", domain.ErrCollaboratorUnavailable, canonicalID, err)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no bars returned for %s", domain.ErrCollaboratorUnavailable, canonicalID)
	}

	series := &domain.SecurityTimeSeries{
		Symbol: canonicalID,
		Points: points,
	}
	series.CurrentPrice = &points[len(points)-1].Close
	series.Metrics = calculator.CalculateDerivedMetrics(series.Closes(), nil)
	return series, nil
}

func (h *marketDataHandler) fetchDailyBars(ctx context.Context, canonicalID string, rng domain.SeriesRange) ([]domain.PricePoint, error) {
	ctx, cancel := context.WithTimeout(ctx, h.fetchTimeout)
	defer cancel()

	type result struct {
		points []domain.PricePoint
		err    error
	}
	resultCh := make(chan result, 1)

	// the chart client has no context support, so run it on the side and
	// abandon it when the deadline fires
	go func() {
		params := &chart.Params{
			Symbol:   vendorSymbol(canonicalID),
			Start:    datetime.New(&rng.Start),
			End:      datetime.New(&rng.End),
			Interval: datetime.OneDay,
		}
		iter := chart.Get(params)

		points := []domain.PricePoint{}
		for iter.Next() {
			bar := iter.Bar()
			open := bar.Open.InexactFloat64()
			high := bar.High.InexactFloat64()
			low := bar.Low.InexactFloat64()
			points = append(points, domain.PricePoint{
				Date:   time.Unix(int64(bar.Timestamp), 0).UTC().Format(time.DateOnly),
				Open:   &open,
				High:   &high,
				Low:    &low,
				Close:  bar.Close.InexactFloat64(),
				Volume: int64(bar.Volume),
			})
		}
		if err := iter.Err(); err != nil {
			resultCh <- result{err: fmt.Errorf("failed to get bars for %s: %w", canonicalID, err)}
			return
		}
		resultCh <- result{points: points}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultCh:
		return res.points, res.err
	}
}
