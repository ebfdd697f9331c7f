package calculator

import (
	"fmt"
	"math"

	"quantreport/internal/domain"

	"github.com/montanaflynn/stats"
)

const tradingDaysPerYear = 252

// DailyReturns converts a close series into simple day-over-day returns.
// The result has len(closes)-1 entries.
func DailyReturns(closes []float64) ([]float64, error) {
	if len(closes) < 2 {
		return nil, fmt.Errorf("cannot compute returns on < 2 closes")
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			return nil, fmt.Errorf("zero close at index %d", i-1)
		}
		returns = append(returns, (closes[i]-closes[i-1])/closes[i-1])
	}
	return returns, nil
}

// CumulativeReturns converts closes into cumulative % returns with the
// first element pinned to 0.
func CumulativeReturns(closes []float64) ([]float64, error) {
	if len(closes) == 0 {
		return nil, fmt.Errorf("cannot compute cumulative returns on empty closes")
	}
	base := closes[0]
	if base == 0 {
		return nil, fmt.Errorf("zero base close")
	}
	out := make([]float64, len(closes))
	for i, c := range closes {
		out[i] = (c - base) / base * 100
	}
	return out, nil
}

// MaxDrawdown returns the largest peak-to-trough decline as a positive
// fraction, e.g. 0.25 for a 25% drawdown.
func MaxDrawdown(closes []float64) (float64, error) {
	if len(closes) == 0 {
		return 0, fmt.Errorf("cannot compute drawdown on empty closes")
	}
	peak := closes[0]
	maxDd := 0.0
	for _, c := range closes {
		if c > peak {
			peak = c
		}
		if peak > 0 {
			dd := (peak - c) / peak
			if dd > maxDd {
				maxDd = dd
			}
		}
	}
	return maxDd, nil
}

// Beta regresses the asset's daily returns against the benchmark's.
// Both series must cover the same dates; extra length is truncated.
func Beta(assetReturns, benchmarkReturns []float64) (float64, error) {
	n := len(assetReturns)
	if len(benchmarkReturns) < n {
		n = len(benchmarkReturns)
	}
	if n < 2 {
		return 0, fmt.Errorf("cannot compute beta on < 2 overlapping returns")
	}
	cov, err := stats.Covariance(assetReturns[:n], benchmarkReturns[:n])
	if err != nil {
		return 0, err
	}
	benchVar, err := stats.VarS(benchmarkReturns[:n])
	if err != nil {
		return 0, err
	}
	if benchVar == 0 {
		return 0, fmt.Errorf("benchmark variance is zero")
	}
	return cov / benchVar, nil
}

// CovarianceMatrix computes the sample covariance of daily returns for
// each pair of series.
func CovarianceMatrix(returnsBySeries [][]float64) ([][]float64, error) {
	n := len(returnsBySeries)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			a, b := returnsBySeries[i], returnsBySeries[j]
			m := len(a)
			if len(b) < m {
				m = len(b)
			}
			if m < 2 {
				return nil, fmt.Errorf("series %d and %d overlap on < 2 returns", i, j)
			}
			cov, err := stats.Covariance(a[:m], b[:m])
			if err != nil {
				return nil, err
			}
			matrix[i][j] = cov
			matrix[j][i] = cov
		}
	}
	return matrix, nil
}

// CalculateDerivedMetrics computes the per-security metrics block from a
// close series, optionally regressing beta against benchmark returns.
// Metrics that cannot be computed stay nil rather than defaulting to 0.
func CalculateDerivedMetrics(closes []float64, benchmarkReturns []float64) domain.DerivedMetrics {
	metrics := domain.DerivedMetrics{}
	if len(closes) < 2 || closes[0] == 0 {
		return metrics
	}

	totalReturn := (closes[len(closes)-1] - closes[0]) / closes[0]
	metrics.ReturnRate = &totalReturn

	returns, err := DailyReturns(closes)
	if err != nil {
		return metrics
	}

	stdev, err := stats.StandardDeviationSample(returns)
	if err == nil && stdev > 0 {
		annualizedStdev := stdev * math.Sqrt(tradingDaysPerYear)
		metrics.Volatility = &annualizedStdev

		numYears := float64(len(returns)) / tradingDaysPerYear
		if numYears > 0 && closes[len(closes)-1] > 0 {
			annualizedReturn := math.Pow(closes[len(closes)-1]/closes[0], 1/numYears) - 1
			sharpe := annualizedReturn / annualizedStdev
			metrics.SharpeRatio = &sharpe
		}
	}

	if dd, err := MaxDrawdown(closes); err == nil {
		metrics.MaxDrawdown = &dd
	}

	if len(benchmarkReturns) >= 2 {
		if beta, err := Beta(returns, benchmarkReturns); err == nil {
			metrics.Beta = &beta
		}
	}

	return metrics
}
