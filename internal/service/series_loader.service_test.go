package service

import (
	"context"
	"fmt"
	"testing"

	"quantreport/internal/domain"
	mock_repository "quantreport/internal/repository/mocks"
	"quantreport/internal/util"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSeriesLoaderService_LoadSeries(t *testing.T) {
	ctx := context.Background()
	window := domain.LastYear(util.NewDate(2025, 6, 1))

	t.Run("request-supplied series short-circuits the fetch", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		marketData := mock_repository.NewMockMarketDataRepository(ctrl)
		// no GetSeries expectations: any fetch fails the test

		provided := []domain.SecurityTimeSeries{
			{
				Symbol: "sh.510300",
				Name:   "沪深300ETF",
				Points: []domain.PricePoint{
					{Date: "2025-01-01", Close: 100},
					{Date: "2025-01-02", Close: 101},
				},
				Metrics: domain.DerivedMetrics{
					ReturnRate: util.FloatPointer(0.01),
					Beta:       util.FloatPointer(0.9),
				},
			},
		}

		h := NewSeriesLoaderService(marketData)
		loaded := h.LoadSeries(ctx, map[string]domain.MatchResult{
			"沪深300": foundMatch("沪深300", "沪深300ETF", "sh.510300"),
		}, provided, window)

		require.Len(t, loaded, 1)
		require.Contains(t, loaded, "sh.510300")
		require.Equal(t, 0.9, *loaded["sh.510300"].Metrics.Beta)
	})

	t.Run("supplied series without price history is fetched instead", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		marketData := mock_repository.NewMockMarketDataRepository(ctrl)

		fetched := &domain.SecurityTimeSeries{
			Symbol: "sh.510300",
			Points: []domain.PricePoint{
				{Date: "2025-01-01", Close: 100},
				{Date: "2025-01-02", Close: 101},
			},
			Metrics: domain.DerivedMetrics{Beta: util.FloatPointer(1.0)},
		}
		marketData.EXPECT().
			GetSeries(gomock.Any(), "sh.510300", window).
			Return(fetched, nil)

		h := NewSeriesLoaderService(marketData)
		loaded := h.LoadSeries(ctx, map[string]domain.MatchResult{
			"沪深300": foundMatch("沪深300", "沪深300ETF", "sh.510300"),
		}, []domain.SecurityTimeSeries{{Symbol: "sh.510300"}}, window)

		require.Len(t, loaded, 1)
		require.Len(t, loaded["sh.510300"].Points, 2)
	})

	t.Run("empty supplied series whose fetch also fails is omitted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		marketData := mock_repository.NewMockMarketDataRepository(ctrl)
		marketData.EXPECT().
			GetSeries(gomock.Any(), "sh.510300", window).
			Return(nil, fmt.Errorf("no data"))

		h := NewSeriesLoaderService(marketData)
		loaded := h.LoadSeries(ctx, map[string]domain.MatchResult{
			"沪深300": foundMatch("沪深300", "沪深300ETF", "sh.510300"),
		}, []domain.SecurityTimeSeries{{Symbol: "sh.510300"}}, window)

		require.Empty(t, loaded)
	})

	t.Run("failed fetch omits the asset instead of inventing data", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		marketData := mock_repository.NewMockMarketDataRepository(ctrl)
		marketData.EXPECT().
			GetSeries(gomock.Any(), "sh.600519", window).
			Return(nil, fmt.Errorf("upstream timeout"))

		h := NewSeriesLoaderService(marketData)
		loaded := h.LoadSeries(ctx, map[string]domain.MatchResult{
			"贵州茅台": foundMatch("贵州茅台", "贵州茅台", "sh.600519"),
		}, nil, window)

		require.Empty(t, loaded)
	})

	t.Run("unmatched names are never fetched", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		marketData := mock_repository.NewMockMarketDataRepository(ctrl)

		h := NewSeriesLoaderService(marketData)
		loaded := h.LoadSeries(ctx, map[string]domain.MatchResult{
			"未知": domain.NoMatch("未知", "no dictionary entry matched"),
		}, nil, window)

		require.Empty(t, loaded)
	})

	t.Run("fetched series gets beta against the benchmark index", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		marketData := mock_repository.NewMockMarketDataRepository(ctrl)

		points := []domain.PricePoint{
			{Date: "2025-01-01", Close: 100},
			{Date: "2025-01-02", Close: 102},
			{Date: "2025-01-03", Close: 99},
			{Date: "2025-01-04", Close: 103},
		}
		assetSeries := &domain.SecurityTimeSeries{
			Symbol:  "sh.510300",
			Points:  points,
			Metrics: domain.DerivedMetrics{ReturnRate: util.FloatPointer(0.03)},
		}
		benchmarkSeries := &domain.SecurityTimeSeries{
			Symbol: "sh.000001",
			Points: points,
		}

		marketData.EXPECT().
			GetSeries(gomock.Any(), "sh.510300", window).
			Return(assetSeries, nil)
		marketData.EXPECT().
			GetSeries(gomock.Any(), "sh.000001", window).
			Return(benchmarkSeries, nil)

		h := NewSeriesLoaderService(marketData)
		loaded := h.LoadSeries(ctx, map[string]domain.MatchResult{
			"沪深300": foundMatch("沪深300", "沪深300ETF", "sh.510300"),
		}, nil, window)

		require.Len(t, loaded, 1)
		series := loaded["sh.510300"]
		require.Equal(t, "沪深300ETF", series.Name)
		require.NotNil(t, series.Metrics.Beta)
		// the asset is its own benchmark here, so beta regresses to 1
		require.InDelta(t, 1.0, *series.Metrics.Beta, 1e-9)
	})
}
