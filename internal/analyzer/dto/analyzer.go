package dto

import (
	"time"
)

// Moving-average signal values.
const (
	MASignalBullish = "bullish"
	MASignalBearish = "bearish"
	MASignalNeutral = "neutral"
)

// Volume trend values.
const (
	VolumeTrendIncreasing = "increasing"
	VolumeTrendDecreasing = "decreasing"
	VolumeTrendStable     = "stable"
)

// PricePoint is one OHLCV entry of a per-symbol, date-ordered series.
type PricePoint struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// FundamentalSnapshot is the latest reported fundamentals for a symbol.
type FundamentalSnapshot struct {
	Symbol      string    `json:"symbol"`
	PeriodEnd   time.Time `json:"period_end"`
	Revenue     float64   `json:"revenue"`
	NetIncome   float64   `json:"net_income"`
	TotalEquity float64   `json:"total_equity"`
	EPS         float64   `json:"eps"`
}

// TechnicalIndicators is the derived indicator set for one analysis run.
// Valid is false when the series was too short (<50 rows); callers treat that
// as insufficient data, not an error.
type TechnicalIndicators struct {
	Valid        bool    `json:"valid"`
	RSI          float64 `json:"rsi"`
	MA50         float64 `json:"ma_50"`
	HasMA50      bool    `json:"has_ma_50"`
	MA200        float64 `json:"ma_200"`
	HasMA200     bool    `json:"has_ma_200"`
	MASignal     string  `json:"ma_signal"`
	VolumeTrend  string  `json:"volume_trend"`
	CurrentPrice float64 `json:"current_price"`
}

// ValuationMetrics holds the P/E and P/B ratios and their bucket scores.
type ValuationMetrics struct {
	PERatio float64 `json:"pe_ratio"`
	PEScore float64 `json:"pe_score"`
	PBRatio float64 `json:"pb_ratio"`
	PBScore float64 `json:"pb_score"`
}

// TechnicalScores holds the per-indicator 0-100 scores.
type TechnicalScores struct {
	RSIScore    float64 `json:"rsi_score"`
	MAScore     float64 `json:"ma_score"`
	VolumeScore float64 `json:"volume_score"`
}

// CompositeScores holds the weighted quantitative composites.
type CompositeScores struct {
	ValuationScore float64 `json:"valuation_score"`
	TechnicalScore float64 `json:"technical_score"`
	CompositeScore float64 `json:"composite_score"`
}

// QuantitativeAnalysis is the complete per-symbol result of one run.
type QuantitativeAnalysis struct {
	Symbol       string              `json:"symbol"`
	AnalysisDate time.Time           `json:"analysis_date"`
	Indicators   TechnicalIndicators `json:"indicators"`
	Valuation    ValuationMetrics    `json:"valuation"`
	Technical    TechnicalScores     `json:"technical"`
	Composite    CompositeScores     `json:"composite"`
}

// RunSummary reports partial-success counts for a batch run.
type RunSummary struct {
	Analyzed     int `json:"analyzed"`
	Saved        int `json:"saved"`
	Errors       int `json:"errors"`
	TotalSymbols int `json:"total_symbols"`
}
