package domain

// Algorithm identifies which optimization engine produced the result.
type Algorithm string

const (
	AlgorithmQuantum   Algorithm = "quantum"
	AlgorithmClassical Algorithm = "classical"
)

// OptimizationAsset is one asset as reported by the optimization engine.
// All numeric fields are optional - engines differ in what they return.
type OptimizationAsset struct {
	Name         string   `json:"name"`
	Symbol       string   `json:"symbol,omitempty"`
	WeightBefore *float64 `json:"weightBefore,omitempty"` // fraction (0-1)
	WeightAfter  *float64 `json:"weightAfter,omitempty"`  // fraction (0-1)
	ReturnRate   *float64 `json:"returnRate,omitempty"`
	SharpeRatio  *float64 `json:"sharpeRatio,omitempty"`
	MaxDrawdown  *float64 `json:"maxDrawdown,omitempty"`
	CurrentPrice *float64 `json:"currentPrice,omitempty"`
}

type PortfolioMetrics struct {
	ReturnBefore     float64 `json:"returnBefore"`
	ReturnAfter      float64 `json:"returnAfter"`
	SharpeBefore     float64 `json:"sharpeBefore"`
	SharpeAfter      float64 `json:"sharpeAfter"`
	VolatilityBefore float64 `json:"volatilityBefore"`
	VolatilityAfter  float64 `json:"volatilityAfter"`
	DrawdownBefore   float64 `json:"drawdownBefore"`
	DrawdownAfter    float64 `json:"drawdownAfter"`
}

type AlgorithmDetails struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CMLPoint is one point of the capital market line. Only the classical
// engine produces one.
type CMLPoint struct {
	Risk   float64 `json:"risk"`
	Return float64 `json:"return"`
}

// OptimizationResult is the opaque output of the upstream optimization
// engine. Engines are inconsistent: some fill per-asset weights, some
// only the parallel beforeWeights/afterWeights arrays, some neither.
// The reconciler's priority chain absorbs all of these shapes.
type OptimizationResult struct {
	Algorithm         Algorithm           `json:"algorithm"`
	AlgorithmDetails  *AlgorithmDetails   `json:"algorithmDetails,omitempty"`
	Assets            []OptimizationAsset `json:"assets,omitempty"`
	WeightsBefore     []float64           `json:"beforeWeights,omitempty"`
	WeightsAfter      []float64           `json:"afterWeights,omitempty"`
	PortfolioMetrics  *PortfolioMetrics   `json:"portfolioMetrics,omitempty"`
	CapitalMarketLine []CMLPoint          `json:"capitalMarketLine,omitempty"`
}

// PortfolioData is optional covariance input computed upstream
// alongside the optimization.
type PortfolioData struct {
	Assets           []string    `json:"assets"`
	CovarianceMatrix [][]float64 `json:"covarianceMatrix"`
}
