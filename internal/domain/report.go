package domain

// Narrative holds the six prose sections of a report. They come from
// the LLM when it's reachable, or from the deterministic template
// generator - either way every field is non-empty.
type Narrative struct {
	Title               string   `json:"title"`
	ExecutiveSummary    string   `json:"executiveSummary"`
	InvestmentStrategy  string   `json:"investmentStrategy"`
	RiskAnalysis        string   `json:"riskAnalysis"`
	PerformanceAnalysis string   `json:"performanceAnalysis"`
	Recommendations     []string `json:"recommendations"`
	Disclaimer          string   `json:"disclaimer"`
}

type PortfolioChart struct {
	Dates         []string       `json:"dates"`
	BeforeReturns []float64      `json:"beforeReturns"`
	AfterReturns  []float64      `json:"afterReturns"`
	Provenance    DataProvenance `json:"dataSource"`
}

type PriceChart struct {
	AssetName  string         `json:"assetName"`
	Symbol     string         `json:"symbol,omitempty"`
	Dates      []string       `json:"dates"`
	Prices     []float64      `json:"prices"`
	Provenance DataProvenance `json:"dataSource"`
}

// CandlestickBar is one OHLC bar. Derived marks bars whose open/high/low
// were reconstructed from the close rather than observed.
type CandlestickBar struct {
	Date    string  `json:"date"`
	Open    float64 `json:"open"`
	High    float64 `json:"high"`
	Low     float64 `json:"low"`
	Close   float64 `json:"close"`
	Volume  int64   `json:"volume"`
	Derived bool    `json:"derived,omitempty"`
}

type CandlestickChart struct {
	Symbol     string           `json:"symbol"`
	Name       string           `json:"name"`
	Bars       []CandlestickBar `json:"data"`
	Provenance DataProvenance   `json:"dataSource"`
}

type IndexComparison struct {
	Dates   []string      `json:"dates"`
	Indices []IndexSeries `json:"indices"`
}

type CovarianceHeatmap struct {
	Assets      []string       `json:"assets"`
	Matrix      [][]float64    `json:"matrix"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Provenance  DataProvenance `json:"dataSource"`
}

// ChartData is the numeric chart payload of a report. It is computed
// deterministically from reconciled rows and never depends on the LLM.
type ChartData struct {
	PortfolioChart    PortfolioChart     `json:"portfolioChart"`
	PriceCharts       []PriceChart       `json:"priceCharts"`
	CandlestickCharts []CandlestickChart `json:"candlestickCharts"`
	IndexComparison   *IndexComparison   `json:"indexComparison,omitempty"`
	CovarianceHeatmap *CovarianceHeatmap `json:"covarianceHeatmap,omitempty"`
	CapitalMarketLine []CMLPoint         `json:"capitalMarketLine,omitempty"`
}

// ReportPayload is the final, immutable output of the pipeline.
type ReportPayload struct {
	Narrative
	AssetTable []ReconciledAssetRow `json:"assetTable"`
	ChartData  ChartData            `json:"chartData"`
}
