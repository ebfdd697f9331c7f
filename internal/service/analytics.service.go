package service

import (
	"context"
	"math"
	"math/rand"
	"time"

	"quantreport/internal/calculator"
	"quantreport/internal/domain"
	"quantreport/internal/logger"
	"quantreport/internal/repository"
	"quantreport/internal/util"
)

// benchmarkIndices is the fixed set of indices every report compares
// against. Fallback drift/volatility per index mirror each index's
// historical character.
var benchmarkIndices = []struct {
	Name       string
	Symbol     string
	Color      string
	Drift      float64
	DailyRange float64
}{
	{"上证综合指数", "sh.000001", "#FF6B6B", 0.0001, 0.04},
	{"深证成指", "sz.399001", "#4ECDC4", 0.0002, 0.045},
	{"沪深300指数", "sz.399300", "#45B7D1", 0.00015, 0.042},
	{"中证500指数", "sz.399905", "#96CEB4", 0.0003, 0.048},
	{"创业板指数", "sz.399006", "#FFEAA7", 0.0004, 0.05},
}

const simulatedCurveLength = 252

// AnalyticsSynthesizer computes the numeric chart payload of a report.
// Everything here is deterministic given the input and seed; series
// that had to be invented are tagged simulated, reconstructed OHLC bars
// are tagged derived. Real and synthetic numbers never mix silently.
type AnalyticsSynthesizer interface {
	Synthesize(ctx context.Context, in SynthesizeInput) domain.ChartData
}

type SynthesizeInput struct {
	Rows          []domain.ReconciledAssetRow
	Series        map[string]domain.SecurityTimeSeries
	Optimization  *domain.OptimizationResult
	PortfolioData *domain.PortfolioData
	Now           time.Time
	Seed          int64
}

type analyticsHandler struct {
	IndexRepository repository.BenchmarkIndexRepository
}

func NewAnalyticsSynthesizer(indexRepository repository.BenchmarkIndexRepository) AnalyticsSynthesizer {
	return &analyticsHandler{IndexRepository: indexRepository}
}

func (h *analyticsHandler) Synthesize(ctx context.Context, in SynthesizeInput) domain.ChartData {
	rng := rand.New(rand.NewSource(in.Seed))

	out := domain.ChartData{
		PortfolioChart:    h.portfolioChart(ctx, in, rng),
		PriceCharts:       h.priceCharts(in, rng),
		CandlestickCharts: h.candlestickCharts(in, rng),
	}

	if cmp := h.indexComparison(ctx, in, rng); cmp != nil {
		out.IndexComparison = cmp
	}
	if heatmap := h.covarianceHeatmap(ctx, in); heatmap != nil {
		out.CovarianceHeatmap = heatmap
	}
	if in.Optimization != nil && in.Optimization.Algorithm == domain.AlgorithmClassical {
		out.CapitalMarketLine = in.Optimization.CapitalMarketLine
	}
	return out
}

// referenceSeries picks the date axis for portfolio-level charts: the
// first row (in table order) that carries a real canonical series.
func referenceSeries(in SynthesizeInput) *domain.SecurityTimeSeries {
	for _, row := range in.Rows {
		if row.DataSource != domain.DataSourceReal {
			continue
		}
		if s, ok := in.Series[row.Symbol]; ok && len(s.Points) > 0 {
			return &s
		}
	}
	return nil
}

func (h *analyticsHandler) portfolioChart(ctx context.Context, in SynthesizeInput, rng *rand.Rand) domain.PortfolioChart {
	ref := referenceSeries(in)
	if ref == nil {
		logger.FromContext(ctx).Warnw("no real series available, portfolio curve is simulated")
		return simulatedPortfolioChart(in.Now, rng)
	}

	numDays := len(ref.Points)
	dates := make([]string, numDays)
	for i, p := range ref.Points {
		dates[i] = p.Date
	}

	beforeValues := make([]float64, numDays)
	afterValues := make([]float64, numDays)
	for _, row := range in.Rows {
		if row.DataSource != domain.DataSourceReal {
			continue
		}
		s, ok := in.Series[row.Symbol]
		if !ok {
			continue
		}
		for i := 0; i < numDays && i < len(s.Points); i++ {
			beforeValues[i] += s.Points[i].Close * row.WeightBefore / 100
			afterValues[i] += s.Points[i].Close * row.WeightAfter / 100
		}
	}

	before, errB := calculator.CumulativeReturns(beforeValues)
	after, errA := calculator.CumulativeReturns(afterValues)
	if errB != nil || errA != nil {
		return simulatedPortfolioChart(in.Now, rng)
	}
	return domain.PortfolioChart{
		Dates:         dates,
		BeforeReturns: before,
		AfterReturns:  after,
		Provenance:    domain.ProvenanceReal,
	}
}

func simulatedPortfolioChart(now time.Time, rng *rand.Rand) domain.PortfolioChart {
	dates := simulatedDateAxis(now)
	before := make([]float64, len(dates))
	after := make([]float64, len(dates))
	for i := range dates {
		before[i] = math.Sin(float64(i)*0.02)*5 + (rng.Float64()-0.5)*2
		after[i] = math.Sin(float64(i)*0.02)*8 + (rng.Float64()-0.5)*3 + float64(i)*0.03
	}
	// a simulated curve still starts at zero like a real one
	before[0] = 0
	after[0] = 0
	return domain.PortfolioChart{
		Dates:         dates,
		BeforeReturns: before,
		AfterReturns:  after,
		Provenance:    domain.ProvenanceSimulated,
	}
}

// simulatedDateAxis spreads trading days across the trailing year.
func simulatedDateAxis(now time.Time) []string {
	start := now.AddDate(-1, 0, 0)
	dates := make([]string, simulatedCurveLength)
	for i := range dates {
		offset := time.Duration(float64(i)*1.44*24) * time.Hour
		dates[i] = util.FormatDate(start.Add(offset))
	}
	return dates
}

func (h *analyticsHandler) priceCharts(in SynthesizeInput, rng *rand.Rand) []domain.PriceChart {
	charts := []domain.PriceChart{}
	for _, row := range in.Rows {
		if row.DataSource == domain.DataSourceReal {
			s, ok := in.Series[row.Symbol]
			if !ok || len(s.Points) == 0 {
				continue
			}
			dates := make([]string, len(s.Points))
			prices := make([]float64, len(s.Points))
			for i, p := range s.Points {
				dates[i] = p.Date
				prices[i] = p.Close
			}
			charts = append(charts, domain.PriceChart{
				AssetName:  row.Name,
				Symbol:     row.Symbol,
				Dates:      dates,
				Prices:     prices,
				Provenance: domain.ProvenanceReal,
			})
			continue
		}

		// no canonical series: a line can still be back-projected from
		// the current price and period return, tagged simulated
		if row.CurrentPrice == nil || row.ReturnRate == nil {
			continue
		}
		dates := simulatedDateAxis(in.Now)
		prices := make([]float64, len(dates))
		for i := range dates {
			progress := float64(i) / float64(len(dates)-1)
			prices[i] = *row.CurrentPrice * (1 - *row.ReturnRate*(1-progress))
		}
		charts = append(charts, domain.PriceChart{
			AssetName:  row.Name,
			Symbol:     row.Symbol,
			Dates:      dates,
			Prices:     prices,
			Provenance: domain.ProvenanceSimulated,
		})
	}
	return charts
}

func (h *analyticsHandler) candlestickCharts(in SynthesizeInput, rng *rand.Rand) []domain.CandlestickChart {
	charts := []domain.CandlestickChart{}
	for _, row := range in.Rows {
		if row.DataSource != domain.DataSourceReal {
			continue
		}
		s, ok := in.Series[row.Symbol]
		if !ok || len(s.Points) == 0 {
			continue
		}

		volatility := 0.02
		if s.Metrics.Volatility != nil && *s.Metrics.Volatility > 0 {
			volatility = *s.Metrics.Volatility
		}

		bars := make([]domain.CandlestickBar, 0, len(s.Points))
		anyDerived := false
		for _, p := range s.Points {
			if p.HasOHLC() {
				bars = append(bars, domain.CandlestickBar{
					Date:   p.Date,
					Open:   *p.Open,
					High:   *p.High,
					Low:    *p.Low,
					Close:  p.Close,
					Volume: p.Volume,
				})
				continue
			}
			anyDerived = true
			bars = append(bars, deriveBar(p, volatility, rng))
		}

		provenance := domain.ProvenanceReal
		if anyDerived {
			provenance = domain.ProvenanceDerived
		}
		charts = append(charts, domain.CandlestickChart{
			Symbol:     row.Symbol,
			Name:       row.Name,
			Bars:       bars,
			Provenance: provenance,
		})
	}
	return charts
}

// deriveBar reconstructs a plausible OHLC bar around an observed close.
// The bar is flagged so a consumer can tell it from real exchange data.
func deriveBar(p domain.PricePoint, volatility float64, rng *rand.Rand) domain.CandlestickBar {
	dailyRange := p.Close * volatility * 0.3
	open := p.Close * (1 + (rng.Float64()-0.5)*0.01)
	high := math.Max(open, p.Close) + rng.Float64()*dailyRange
	low := math.Min(open, p.Close) - rng.Float64()*dailyRange
	return domain.CandlestickBar{
		Date:    p.Date,
		Open:    open,
		High:    high,
		Low:     low,
		Close:   p.Close,
		Volume:  p.Volume,
		Derived: true,
	}
}

func (h *analyticsHandler) indexComparison(ctx context.Context, in SynthesizeInput, rng *rand.Rand) *domain.IndexComparison {
	log := logger.FromContext(ctx)
	window := domain.LastYear(in.Now)

	indices := make([]domain.IndexSeries, 0, len(benchmarkIndices))
	for _, idx := range benchmarkIndices {
		series, err := h.IndexRepository.GetIndexSeries(ctx, idx.Symbol, window)
		if err != nil || series == nil || len(series.Dates) == 0 {
			if err != nil {
				log.Warnw("index fetch failed, falling back to simulated series",
					"index", idx.Symbol, "error", err)
			}
			indices = append(indices, simulatedIndexSeries(idx.Name, idx.Symbol, idx.Color, idx.Drift, idx.DailyRange, in.Now, rng))
			continue
		}
		series.Name = idx.Name
		series.Color = idx.Color
		indices = append(indices, *series)
	}

	var dates []string
	for _, idx := range indices {
		if len(idx.Dates) > 0 {
			dates = idx.Dates
			break
		}
	}
	if len(dates) == 0 {
		return nil
	}
	return &domain.IndexComparison{Dates: dates, Indices: indices}
}

func simulatedIndexSeries(name, symbol, color string, drift, dailyRange float64, now time.Time, rng *rand.Rand) domain.IndexSeries {
	dates := simulatedDateAxis(now)
	returns := make([]float64, len(dates))
	cumulative := 0.0
	for i := range dates {
		cumulative += (rng.Float64()-0.5)*dailyRange + drift
		returns[i] = cumulative * 100
	}
	return domain.IndexSeries{
		Name:       name,
		Symbol:     symbol,
		Color:      color,
		Dates:      dates,
		Returns:    returns,
		Provenance: domain.ProvenanceSimulated,
	}
}

func (h *analyticsHandler) covarianceHeatmap(ctx context.Context, in SynthesizeInput) *domain.CovarianceHeatmap {
	if in.PortfolioData != nil && len(in.PortfolioData.CovarianceMatrix) > 0 {
		return &domain.CovarianceHeatmap{
			Assets:      canonicalHeatmapLabels(in.PortfolioData.Assets, in.Rows),
			Matrix:      in.PortfolioData.CovarianceMatrix,
			Title:       "资产协方差矩阵热力图",
			Description: "显示各资产间的协方差关系，数值越大表示相关性越强",
			Provenance:  domain.ProvenanceReal,
		}
	}

	// no upstream matrix: compute one from real series when at least
	// two assets have usable return histories
	labels := []string{}
	returnsBySeries := [][]float64{}
	for _, row := range in.Rows {
		if row.DataSource != domain.DataSourceReal {
			continue
		}
		s, ok := in.Series[row.Symbol]
		if !ok {
			continue
		}
		returns, err := calculator.DailyReturns(s.Closes())
		if err != nil {
			continue
		}
		labels = append(labels, row.Name)
		returnsBySeries = append(returnsBySeries, returns)
	}
	if len(returnsBySeries) < 2 {
		return nil
	}
	matrix, err := calculator.CovarianceMatrix(returnsBySeries)
	if err != nil {
		logger.FromContext(ctx).Warnw("covariance computation failed", "error", err)
		return nil
	}
	return &domain.CovarianceHeatmap{
		Assets:      labels,
		Matrix:      matrix,
		Title:       "资产协方差矩阵热力图",
		Description: "显示各资产间的协方差关系，数值越大表示相关性越强",
		Provenance:  domain.ProvenanceDerived,
	}
}

// canonicalHeatmapLabels swaps upstream asset labels for their
// dictionary-resolved names where a match exists.
func canonicalHeatmapLabels(assets []string, rows []domain.ReconciledAssetRow) []string {
	byOriginal := map[string]string{}
	for _, row := range rows {
		if row.Match.Found() {
			byOriginal[row.OriginalName] = row.Name
		}
	}
	labels := make([]string, len(assets))
	for i, a := range assets {
		if canonical, ok := byOriginal[a]; ok {
			labels[i] = canonical
		} else {
			labels[i] = a
		}
	}
	return labels
}
