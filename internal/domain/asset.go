package domain

// MatchType describes how a free-text asset name was resolved against
// the security dictionary.
type MatchType string

const (
	MatchTypeExact MatchType = "exact"
	MatchTypeAlias MatchType = "alias"
	MatchTypeFuzzy MatchType = "fuzzy"
	MatchTypeNone  MatchType = "none"
)

// DataSource marks where a reconciled row's numbers came from.
type DataSource string

const (
	DataSourceReal          DataSource = "real"
	DataSourceMatchedNoData DataSource = "matched_no_data"
	DataSourceNotMatched    DataSource = "not_matched"
)

// DataProvenance is carried on every derived chart/series so consumers
// can tell real market data from simulated or reconstructed values
// without sniffing for sentinel numbers.
type DataProvenance string

const (
	ProvenanceReal      DataProvenance = "real"
	ProvenanceSimulated DataProvenance = "simulated"
	ProvenanceDerived   DataProvenance = "derived"
)

// AssetDescriptor is one asset from the confirmed user summary.
// Immutable for the duration of a request.
type AssetDescriptor struct {
	Name           string
	SymbolHint     string
	DeclaredWeight *float64 // fraction of portfolio (0-1), if the user confirmed one
	Confidence     *float64
}

type MatchResult struct {
	Query       string    `json:"query"`
	MatchType   MatchType `json:"matchType"`
	MatchedName *string   `json:"matchedName"`
	MatchedCode *string   `json:"matchedCode"`
	Confidence  float64   `json:"confidence"`
	Note        string    `json:"note,omitempty"`
}

func (m MatchResult) Found() bool {
	return m.MatchType != MatchTypeNone
}

func NoMatch(query string, note string) MatchResult {
	return MatchResult{
		Query:      query,
		MatchType:  MatchTypeNone,
		Confidence: 0,
		Note:       note,
	}
}

// ReconciledAssetRow is one line of the report's asset table. Metric
// pointers are nil when no trustworthy source supplied a value - the
// pipeline never fills gaps with plausible-looking numbers.
//
// Invariants:
//   - DataSource == real     => CurrentPrice != nil && Match.MatchType != none
//   - DataSource == not_matched => Match.MatchType == none && CurrentPrice == nil
type ReconciledAssetRow struct {
	Name         string      `json:"name"`
	Symbol       string      `json:"symbol"`
	OriginalName string      `json:"originalName"`
	CurrentPrice *float64    `json:"currentPrice"`
	WeightBefore float64     `json:"beforeWeight"` // percent
	WeightAfter  float64     `json:"afterWeight"`  // percent
	ReturnRate   *float64    `json:"returnRate"`
	SharpeRatio  *float64    `json:"sharpeRatio"`
	MaxDrawdown  *float64    `json:"maxDrawdown"`
	Volatility   *float64    `json:"volatility"`
	Beta         *float64    `json:"beta"`
	DataSource   DataSource  `json:"dataSource"`
	Match        MatchResult `json:"matchInfo"`
}
