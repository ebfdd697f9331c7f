package service

import (
	"context"
	"testing"

	"quantreport/internal/domain"
	"quantreport/internal/util"

	"github.com/stretchr/testify/require"
)

func foundMatch(query, name, code string) domain.MatchResult {
	return domain.MatchResult{
		Query:       query,
		MatchType:   domain.MatchTypeExact,
		MatchedName: &name,
		MatchedCode: &code,
		Confidence:  1.0,
	}
}

func TestDataReconciler_Reconcile(t *testing.T) {
	ctx := context.Background()
	h := NewDataReconciler()

	t.Run("declared weights survive even without any market data", func(t *testing.T) {
		rows := h.Reconcile(ctx, ReconcileInput{
			Descriptors: []domain.AssetDescriptor{
				{Name: "未知资产A", DeclaredWeight: util.FloatPointer(0.6)},
				{Name: "未知资产B", DeclaredWeight: util.FloatPointer(0.4)},
			},
			Matches: map[string]domain.MatchResult{
				"未知资产A": domain.NoMatch("未知资产A", "no dictionary entry matched"),
				"未知资产B": domain.NoMatch("未知资产B", "no dictionary entry matched"),
			},
			Optimization: &domain.OptimizationResult{},
		})

		require.Len(t, rows, 2)
		require.Equal(t, 60.0, rows[0].WeightBefore)
		require.Equal(t, 40.0, rows[1].WeightBefore)
		// nothing declares post-optimization weights, so both fall to uniform
		require.Equal(t, 50.0, rows[0].WeightAfter)
		require.Equal(t, 50.0, rows[1].WeightAfter)

		for _, row := range rows {
			require.Equal(t, domain.DataSourceNotMatched, row.DataSource)
			require.Nil(t, row.CurrentPrice)
			require.Nil(t, row.ReturnRate)
			require.Nil(t, row.Volatility)
			require.Equal(t, domain.MatchTypeNone, row.Match.MatchType)
		}
	})

	t.Run("declared weights that do not sum to 100 are reported unmodified", func(t *testing.T) {
		rows := h.Reconcile(ctx, ReconcileInput{
			Descriptors: []domain.AssetDescriptor{
				{Name: "A", DeclaredWeight: util.FloatPointer(0.57)},
				{Name: "B", DeclaredWeight: util.FloatPointer(0.40)},
			},
			Matches: map[string]domain.MatchResult{},
		})

		require.Len(t, rows, 2)
		require.InDelta(t, 57.0, rows[0].WeightBefore, 1e-9)
		require.InDelta(t, 40.0, rows[1].WeightBefore, 1e-9)
	})

	t.Run("weight priority: per-asset field, then parallel array, then uniform", func(t *testing.T) {
		rows := h.Reconcile(ctx, ReconcileInput{
			Descriptors: []domain.AssetDescriptor{
				{Name: "A"},
				{Name: "B"},
			},
			Matches: map[string]domain.MatchResult{},
			Optimization: &domain.OptimizationResult{
				Assets: []domain.OptimizationAsset{
					{Name: "A", WeightBefore: util.FloatPointer(0.5), WeightAfter: util.FloatPointer(0.7)},
					{Name: "B"},
				},
				WeightsAfter: []float64{0.2, 0.3},
			},
		})

		require.Len(t, rows, 2)
		require.InDelta(t, 70.0, rows[0].WeightAfter, 1e-9)
		require.InDelta(t, 30.0, rows[1].WeightAfter, 1e-9)
		require.InDelta(t, 50.0, rows[0].WeightBefore, 1e-9)
		// B has no field and no beforeWeights array entry
		require.InDelta(t, 50.0, rows[1].WeightBefore, 1e-9)
	})

	t.Run("matched asset with canonical series is real", func(t *testing.T) {
		series := domain.SecurityTimeSeries{
			Symbol: "sh.510300",
			Name:   "沪深300ETF",
			Points: []domain.PricePoint{
				{Date: "2025-01-01", Close: 100},
				{Date: "2025-01-02", Close: 110},
			},
			Metrics: domain.DerivedMetrics{
				ReturnRate: util.FloatPointer(0.1),
				Volatility: util.FloatPointer(0.2),
			},
		}

		rows := h.Reconcile(ctx, ReconcileInput{
			Descriptors: []domain.AssetDescriptor{{Name: "沪深300"}},
			Matches: map[string]domain.MatchResult{
				"沪深300": foundMatch("沪深300", "沪深300ETF", "sh.510300"),
			},
			Series: map[string]domain.SecurityTimeSeries{"sh.510300": series},
		})

		require.Len(t, rows, 1)
		row := rows[0]
		require.Equal(t, domain.DataSourceReal, row.DataSource)
		require.Equal(t, "沪深300ETF", row.Name)
		require.Equal(t, "sh.510300", row.Symbol)
		require.Equal(t, "沪深300", row.OriginalName)
		require.NotNil(t, row.CurrentPrice)
		require.Equal(t, 110.0, *row.CurrentPrice)
		require.Equal(t, 0.1, *row.ReturnRate)
		require.Equal(t, 0.2, *row.Volatility)
	})

	t.Run("series without a resolvable price never backs a real row", func(t *testing.T) {
		rows := h.Reconcile(ctx, ReconcileInput{
			Descriptors: []domain.AssetDescriptor{{Name: "沪深300"}},
			Matches: map[string]domain.MatchResult{
				"沪深300": foundMatch("沪深300", "沪深300ETF", "sh.510300"),
			},
			Series: map[string]domain.SecurityTimeSeries{
				"sh.510300": {Symbol: "sh.510300", Name: "沪深300ETF"},
			},
		})

		require.Len(t, rows, 1)
		require.Equal(t, domain.DataSourceMatchedNoData, rows[0].DataSource)
		require.Nil(t, rows[0].CurrentPrice)
	})

	t.Run("matched asset without series degrades to matched_no_data", func(t *testing.T) {
		rows := h.Reconcile(ctx, ReconcileInput{
			Descriptors: []domain.AssetDescriptor{{Name: "贵州茅台"}},
			Matches: map[string]domain.MatchResult{
				"贵州茅台": foundMatch("贵州茅台", "贵州茅台", "sh.600519"),
			},
			Optimization: &domain.OptimizationResult{
				Assets: []domain.OptimizationAsset{
					{Name: "贵州茅台", CurrentPrice: util.FloatPointer(1688.0), SharpeRatio: util.FloatPointer(1.2)},
				},
			},
		})

		require.Len(t, rows, 1)
		require.Equal(t, domain.DataSourceMatchedNoData, rows[0].DataSource)
		require.Equal(t, 1688.0, *rows[0].CurrentPrice)
		require.Equal(t, 1.2, *rows[0].SharpeRatio)
		// volatility only ever comes from a canonical series
		require.Nil(t, rows[0].Volatility)
	})

	t.Run("unmatched asset never gets a price, even from the optimizer", func(t *testing.T) {
		rows := h.Reconcile(ctx, ReconcileInput{
			Descriptors: []domain.AssetDescriptor{{Name: "神秘资产"}},
			Matches: map[string]domain.MatchResult{
				"神秘资产": domain.NoMatch("神秘资产", "no dictionary entry matched"),
			},
			Optimization: &domain.OptimizationResult{
				Assets: []domain.OptimizationAsset{
					{Name: "神秘资产", CurrentPrice: util.FloatPointer(42.0)},
				},
			},
		})

		require.Len(t, rows, 1)
		require.Equal(t, domain.DataSourceNotMatched, rows[0].DataSource)
		require.Nil(t, rows[0].CurrentPrice)
	})

	t.Run("empty input yields empty table", func(t *testing.T) {
		rows := h.Reconcile(ctx, ReconcileInput{})
		require.NotNil(t, rows)
		require.Empty(t, rows)
	})

	t.Run("optimizer assets stand in when no descriptors are given", func(t *testing.T) {
		rows := h.Reconcile(ctx, ReconcileInput{
			Matches: map[string]domain.MatchResult{},
			Optimization: &domain.OptimizationResult{
				Assets: []domain.OptimizationAsset{{Name: "A"}, {Name: "B"}},
			},
		})

		require.Len(t, rows, 2)
		require.Equal(t, "A", rows[0].Name)
		require.Equal(t, domain.MatchTypeNone, rows[0].Match.MatchType)
		require.NotEmpty(t, rows[0].Match.Note)
	})
}
