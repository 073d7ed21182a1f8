package dto

import (
	"time"
)

// Risk level values.
const (
	RiskLevelLow    = "LOW"
	RiskLevelMedium = "MEDIUM"
	RiskLevelHigh   = "HIGH"
)

// RiskAssessment is the per-symbol risk view, recomputed per request over a
// trailing price window and never persisted.
type RiskAssessment struct {
	Symbol           string    `json:"symbol"`
	AnalysisDate     time.Time `json:"analysis_date"`
	Volatility30d    float64   `json:"volatility_30d"`
	AnnualizedReturn float64   `json:"annualized_return"`
	RiskScore        float64   `json:"risk_score"`
	RiskLevel        string    `json:"risk_level"`
	MaxDrawdown      float64   `json:"max_drawdown"`
	VaR95            float64   `json:"var_95"`
	// Beta is always nil: no market-index series is wired in.
	Beta       *float64 `json:"beta"`
	DataPoints int      `json:"data_points"`
}

// PortfolioRisk combines constituent risks under the naive no-covariance
// model (weight-squared volatility scaling).
type PortfolioRisk struct {
	PortfolioVolatility float64                   `json:"portfolio_volatility"`
	PortfolioRiskScore  float64                   `json:"portfolio_risk_score"`
	PortfolioRiskLevel  string                    `json:"portfolio_risk_level"`
	ConstituentRisks    map[string]RiskAssessment `json:"constituent_risks"`
	AnalysisDate        time.Time                 `json:"analysis_date"`
}
