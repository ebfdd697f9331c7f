package service

import (
	"context"
	"sync"

	"quantreport/internal/calculator"
	"quantreport/internal/domain"
	"quantreport/internal/logger"
	"quantreport/internal/repository"
)

// defaultBetaBenchmark is the index assets are regressed against when
// computing beta.
const defaultBetaBenchmark = "sh.000001"

// SeriesLoaderService fetches canonical time series for every matched
// asset. The key correctness contract of the pipeline lives here:
// lookups go through the dictionary-resolved identifier, never the raw
// text the user typed. Request-supplied series short-circuit the fetch
// for the assets they cover.
type SeriesLoaderService interface {
	LoadSeries(ctx context.Context, matches map[string]domain.MatchResult, provided []domain.SecurityTimeSeries, rng domain.SeriesRange) map[string]domain.SecurityTimeSeries
}

type seriesLoaderHandler struct {
	MarketDataRepository repository.MarketDataRepository
	NumWorkers           int
}

func NewSeriesLoaderService(marketDataRepository repository.MarketDataRepository) SeriesLoaderService {
	return &seriesLoaderHandler{
		MarketDataRepository: marketDataRepository,
		NumWorkers:           4,
	}
}

// LoadSeries returns series keyed by canonical code. Assets whose fetch
// failed are simply absent; the reconciler downgrades them to
// matched_no_data.
func (h *seriesLoaderHandler) LoadSeries(ctx context.Context, matches map[string]domain.MatchResult, provided []domain.SecurityTimeSeries, rng domain.SeriesRange) map[string]domain.SecurityTimeSeries {
	log := logger.FromContext(ctx)

	loaded := map[string]domain.SecurityTimeSeries{}
	var mu sync.Mutex

	toFetch := []domain.MatchResult{}
	for _, match := range matches {
		if !match.Found() || match.MatchedCode == nil {
			continue
		}
		code := *match.MatchedCode
		// a supplied series with no price history carries nothing worth
		// short-circuiting for; fetch the real thing instead
		if supplied := findProvidedSeries(provided, match); supplied != nil && len(supplied.Points) > 0 {
			s := *supplied
			s.Symbol = code
			if match.MatchedName != nil {
				s.Name = *match.MatchedName
			}
			if metricsEmpty(s.Metrics) && len(s.Points) >= 2 {
				s.Metrics = calculator.CalculateDerivedMetrics(s.Closes(), nil)
			}
			loaded[code] = s
			continue
		}
		toFetch = append(toFetch, match)
	}

	inputCh := make(chan domain.MatchResult, len(toFetch))
	for _, m := range toFetch {
		inputCh <- m
	}
	close(inputCh)

	var wg sync.WaitGroup
	for i := 0; i < h.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case match, ok := <-inputCh:
					if !ok {
						return
					}
					code := *match.MatchedCode
					series, err := h.MarketDataRepository.GetSeries(ctx, code, rng)
					if err != nil {
						log.Warnw("series fetch failed, asset degrades to matched_no_data",
							"canonicalID", code, "error", err)
						continue
					}
					if match.MatchedName != nil {
						series.Name = *match.MatchedName
					}
					mu.Lock()
					loaded[code] = *series
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	h.fillBetas(ctx, loaded, rng)
	return loaded
}

// fillBetas regresses each loaded series against the benchmark index.
// Failures leave beta nil - a missing number, not a fabricated one.
func (h *seriesLoaderHandler) fillBetas(ctx context.Context, loaded map[string]domain.SecurityTimeSeries, rng domain.SeriesRange) {
	needsBeta := false
	for _, s := range loaded {
		if s.Metrics.Beta == nil && len(s.Points) >= 3 {
			needsBeta = true
		}
	}
	if !needsBeta {
		return
	}

	log := logger.FromContext(ctx)
	benchmark, err := h.MarketDataRepository.GetSeries(ctx, defaultBetaBenchmark, rng)
	if err != nil {
		log.Warnw("benchmark fetch failed, betas stay null", "error", err)
		return
	}
	benchmarkReturns, err := calculator.DailyReturns(benchmark.Closes())
	if err != nil {
		return
	}

	for code, s := range loaded {
		if s.Metrics.Beta != nil || len(s.Points) < 3 {
			continue
		}
		assetReturns, err := calculator.DailyReturns(s.Closes())
		if err != nil {
			continue
		}
		if beta, err := calculator.Beta(assetReturns, benchmarkReturns); err == nil {
			s.Metrics.Beta = &beta
			loaded[code] = s
		}
	}
}

func findProvidedSeries(provided []domain.SecurityTimeSeries, match domain.MatchResult) *domain.SecurityTimeSeries {
	for i := range provided {
		if match.MatchedCode != nil && provided[i].Symbol == *match.MatchedCode {
			return &provided[i]
		}
		if match.MatchedName != nil && provided[i].Name == *match.MatchedName {
			return &provided[i]
		}
	}
	return nil
}

func metricsEmpty(m domain.DerivedMetrics) bool {
	return m.ReturnRate == nil && m.SharpeRatio == nil && m.MaxDrawdown == nil && m.Volatility == nil && m.Beta == nil
}
