package service

import (
	"context"
	"math"

	"quantreport/internal/domain"
	"quantreport/internal/logger"
)

// DataReconciler joins matched assets, optimizer output and canonical
// time series into the report's asset table. Missing numbers stay nil;
// the reconciler never synthesizes a plausible-looking value to fill a
// gap.
type DataReconciler interface {
	Reconcile(ctx context.Context, in ReconcileInput) []domain.ReconciledAssetRow
}

type ReconcileInput struct {
	Descriptors  []domain.AssetDescriptor
	Matches      map[string]domain.MatchResult
	Optimization *domain.OptimizationResult
	// Series is keyed by canonical code, the way the loader produced it
	Series map[string]domain.SecurityTimeSeries
}

type dataReconcilerHandler struct{}

func NewDataReconciler() DataReconciler {
	return &dataReconcilerHandler{}
}

type weightSide int

const (
	sideBefore weightSide = iota
	sideAfter
)

type weightContext struct {
	descriptor domain.AssetDescriptor
	optAsset   *domain.OptimizationAsset
	index      int
	parallel   []float64
	numAssets  int
}

// weightResolver is one link of the weight priority chain. The chain is
// an ordered list so the policy is auditable and each link testable on
// its own.
type weightResolver struct {
	name    string
	resolve func(weightContext) *float64
}

func weightChain(side weightSide) []weightResolver {
	return []weightResolver{
		{
			name: "declared",
			resolve: func(c weightContext) *float64 {
				// confirmed summaries only declare pre-optimization
				// weights; there is no user-declared "after"
				if side != sideBefore || c.descriptor.DeclaredWeight == nil {
					return nil
				}
				v := *c.descriptor.DeclaredWeight * 100
				return &v
			},
		},
		{
			name: "optimizer field",
			resolve: func(c weightContext) *float64 {
				if c.optAsset == nil {
					return nil
				}
				w := c.optAsset.WeightBefore
				if side == sideAfter {
					w = c.optAsset.WeightAfter
				}
				if w == nil {
					return nil
				}
				v := *w * 100
				return &v
			},
		},
		{
			name: "optimizer array",
			resolve: func(c weightContext) *float64 {
				if c.index < 0 || c.index >= len(c.parallel) {
					return nil
				}
				v := c.parallel[c.index] * 100
				return &v
			},
		},
		{
			name: "uniform",
			resolve: func(c weightContext) *float64 {
				if c.numAssets == 0 {
					return nil
				}
				v := 100 / float64(c.numAssets)
				return &v
			},
		},
	}
}

func resolveWeight(chain []weightResolver, c weightContext) float64 {
	for _, r := range chain {
		if v := r.resolve(c); v != nil {
			return *v
		}
	}
	return 0
}

func (h *dataReconcilerHandler) Reconcile(ctx context.Context, in ReconcileInput) []domain.ReconciledAssetRow {
	log := logger.FromContext(ctx)

	descriptors := in.Descriptors
	if len(descriptors) == 0 && in.Optimization != nil {
		for _, a := range in.Optimization.Assets {
			descriptors = append(descriptors, domain.AssetDescriptor{
				Name:       a.Name,
				SymbolHint: a.Symbol,
			})
		}
	}
	// no confirmed assets and no optimizer rows: nothing to invent
	if len(descriptors) == 0 {
		return []domain.ReconciledAssetRow{}
	}

	var weightsBefore, weightsAfter []float64
	if in.Optimization != nil {
		weightsBefore = in.Optimization.WeightsBefore
		weightsAfter = in.Optimization.WeightsAfter
		if len(weightsAfter) > 0 && len(weightsAfter) != len(descriptors) {
			log.Warnw("optimizer weight array length differs from asset list",
				"weights", len(weightsAfter), "assets", len(descriptors))
		}
	}

	beforeChain := weightChain(sideBefore)
	afterChain := weightChain(sideAfter)

	rows := make([]domain.ReconciledAssetRow, 0, len(descriptors))
	for i, d := range descriptors {
		match, ok := in.Matches[d.Name]
		if !ok {
			match = domain.NoMatch(d.Name, "no dictionary search performed")
		}

		optAsset := findOptimizationAsset(in.Optimization, d.Name, match, i, len(descriptors))

		var series *domain.SecurityTimeSeries
		if match.Found() && match.MatchedCode != nil {
			// a series without a resolvable price cannot back a real row
			if s, ok := in.Series[*match.MatchedCode]; ok && s.LastClose() != nil {
				series = &s
			}
		}

		dataSource := domain.DataSourceNotMatched
		if match.Found() {
			dataSource = domain.DataSourceMatchedNoData
			if series != nil {
				dataSource = domain.DataSourceReal
			}
		}

		c := weightContext{
			descriptor: d,
			optAsset:   optAsset,
			index:      i,
			numAssets:  len(descriptors),
		}

		row := domain.ReconciledAssetRow{
			Name:         d.Name,
			Symbol:       d.SymbolHint,
			OriginalName: d.Name,
			DataSource:   dataSource,
			Match:        match,
		}
		if match.MatchedName != nil {
			row.Name = *match.MatchedName
		}
		if match.MatchedCode != nil {
			row.Symbol = *match.MatchedCode
		}

		c.parallel = weightsBefore
		row.WeightBefore = resolveWeight(beforeChain, c)
		c.parallel = weightsAfter
		row.WeightAfter = resolveWeight(afterChain, c)

		if series != nil {
			row.CurrentPrice = series.LastClose()
		} else if match.Found() && optAsset != nil {
			row.CurrentPrice = optAsset.CurrentPrice
		}

		var seriesMetrics domain.DerivedMetrics
		if series != nil {
			seriesMetrics = series.Metrics
		}
		row.ReturnRate = pickMetric(seriesMetrics.ReturnRate, optMetric(optAsset, func(a domain.OptimizationAsset) *float64 { return a.ReturnRate }))
		row.SharpeRatio = pickMetric(seriesMetrics.SharpeRatio, optMetric(optAsset, func(a domain.OptimizationAsset) *float64 { return a.SharpeRatio }))
		row.MaxDrawdown = pickMetric(seriesMetrics.MaxDrawdown, optMetric(optAsset, func(a domain.OptimizationAsset) *float64 { return a.MaxDrawdown }))
		row.Volatility = seriesMetrics.Volatility
		row.Beta = seriesMetrics.Beta

		rows = append(rows, row)
	}

	reportWeightDrift(ctx, rows)
	return rows
}

// pickMetric is the metric priority chain: canonical series value, then
// optimizer value, then nil.
func pickMetric(seriesVal, optimizerVal *float64) *float64 {
	if seriesVal != nil {
		return seriesVal
	}
	return optimizerVal
}

func optMetric(a *domain.OptimizationAsset, get func(domain.OptimizationAsset) *float64) *float64 {
	if a == nil {
		return nil
	}
	return get(*a)
}

// findOptimizationAsset locates the optimizer's row for a descriptor,
// by original name, then canonical name, then position when the lists
// line up.
func findOptimizationAsset(opt *domain.OptimizationResult, name string, match domain.MatchResult, index, numDescriptors int) *domain.OptimizationAsset {
	if opt == nil {
		return nil
	}
	for i := range opt.Assets {
		if opt.Assets[i].Name == name {
			return &opt.Assets[i]
		}
	}
	if match.MatchedName != nil {
		for i := range opt.Assets {
			if opt.Assets[i].Name == *match.MatchedName {
				return &opt.Assets[i]
			}
		}
	}
	if len(opt.Assets) == numDescriptors && index < len(opt.Assets) {
		return &opt.Assets[index]
	}
	return nil
}

// reportWeightDrift logs (never throws) when resolved after-weights
// stray from 100%.
func reportWeightDrift(ctx context.Context, rows []domain.ReconciledAssetRow) {
	if len(rows) == 0 {
		return
	}
	sum := 0.0
	for _, r := range rows {
		sum += r.WeightAfter
	}
	if math.Abs(sum-100) > 0.5 {
		logger.FromContext(ctx).Warnw("post-optimization weights do not sum to 100%",
			"sum", sum)
	}
}
