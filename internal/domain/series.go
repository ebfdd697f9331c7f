package domain

import "time"

// PricePoint is one trading day of a security's history. Open/High/Low
// are pointers because some sources only deliver a close; a nil value
// means "not provided", never zero.
type PricePoint struct {
	Date   string   `json:"date"`
	Open   *float64 `json:"open,omitempty"`
	High   *float64 `json:"high,omitempty"`
	Low    *float64 `json:"low,omitempty"`
	Close  float64  `json:"close"`
	Volume int64    `json:"volume,omitempty"`
}

func (p PricePoint) HasOHLC() bool {
	return p.Open != nil && p.High != nil && p.Low != nil
}

// DerivedMetrics are computed from a security's own price history.
// Nil means the metric could not be computed from available data.
type DerivedMetrics struct {
	ReturnRate  *float64 `json:"returnRate"`
	SharpeRatio *float64 `json:"sharpeRatio"`
	MaxDrawdown *float64 `json:"maxDrawdown"`
	Volatility  *float64 `json:"volatility"`
	Beta        *float64 `json:"beta"`
}

// SecurityTimeSeries is the canonical price history for one security,
// always fetched (or supplied) under its dictionary-resolved identifier.
type SecurityTimeSeries struct {
	Symbol       string         `json:"symbol"`
	Name         string         `json:"name"`
	CurrentPrice *float64       `json:"currentPrice,omitempty"`
	Points       []PricePoint   `json:"historicalPrices"`
	Metrics      DerivedMetrics `json:"metrics"`
}

func (s SecurityTimeSeries) LastClose() *float64 {
	if s.CurrentPrice != nil {
		return s.CurrentPrice
	}
	if len(s.Points) == 0 {
		return nil
	}
	c := s.Points[len(s.Points)-1].Close
	return &c
}

func (s SecurityTimeSeries) Closes() []float64 {
	closes := make([]float64, 0, len(s.Points))
	for _, p := range s.Points {
		closes = append(closes, p.Close)
	}
	return closes
}

type SeriesRange struct {
	Start time.Time
	End   time.Time
}

// LastYear is the default lookback window for report charts.
func LastYear(now time.Time) SeriesRange {
	return SeriesRange{
		Start: now.AddDate(-1, 0, 0),
		End:   now,
	}
}

// IndexSeries is a benchmark index's cumulative return series.
type IndexSeries struct {
	Name       string         `json:"name"`
	Symbol     string         `json:"symbol"`
	Color      string         `json:"color,omitempty"`
	Dates      []string       `json:"dates"`
	Returns    []float64      `json:"returns"`
	Provenance DataProvenance `json:"dataSource"`
}
