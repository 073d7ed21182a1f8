package dto

import (
	"time"

	analyzerdto "github.com/Subakiz/ai-investment-manager/internal/analyzer/dto"
	"github.com/Subakiz/ai-investment-manager/internal/entity"
)

// RecommendationResponse is the public view of one recommendation row.
type RecommendationResponse struct {
	Symbol             string                 `json:"symbol"`
	CompanyName        string                 `json:"company_name"`
	Sector             string                 `json:"sector"`
	RecommendationDate time.Time              `json:"recommendation_date"`
	QuantitativeScore  float64                `json:"quantitative_score"`
	QualitativeScore   float64                `json:"qualitative_score"`
	CombinedScore      float64                `json:"combined_score"`
	Recommendation     string                 `json:"recommendation"`
	ConfidenceLevel    string                 `json:"confidence_level"`
	KeyThemes          []string               `json:"key_themes"`
	TechnicalSignals   map[string]interface{} `json:"technical_signals"`
	RiskFactors        []string               `json:"risk_factors"`
}

// NewRecommendationResponse maps a recommendation row plus its stock master
// data into the public view.
func NewRecommendationResponse(rec *entity.Recommendation, stock *entity.Stock) RecommendationResponse {
	return RecommendationResponse{
		Symbol:             stock.Symbol,
		CompanyName:        stock.CompanyName,
		Sector:             stock.Sector,
		RecommendationDate: rec.RecommendationDate,
		QuantitativeScore:  rec.QuantitativeScore,
		QualitativeScore:   rec.QualitativeScore,
		CombinedScore:      rec.CombinedScore,
		Recommendation:     rec.Recommendation,
		ConfidenceLevel:    rec.ConfidenceLevel,
		KeyThemes:          []string(rec.KeyThemes),
		TechnicalSignals:   map[string]interface{}(rec.TechnicalSignals),
		RiskFactors:        []string(rec.RiskFactors),
	}
}

// QuantitativeScoreResponse is the public view of one quantitative score row.
type QuantitativeScoreResponse struct {
	Symbol         string    `json:"symbol"`
	AnalysisDate   time.Time `json:"analysis_date"`
	PERatio        float64   `json:"pe_ratio"`
	PBRatio        float64   `json:"pb_ratio"`
	PEScore        float64   `json:"pe_score"`
	PBScore        float64   `json:"pb_score"`
	RSI            float64   `json:"rsi"`
	RSIScore       float64   `json:"rsi_score"`
	MA50           float64   `json:"ma_50"`
	MA200          float64   `json:"ma_200"`
	MASignal       string    `json:"ma_signal"`
	MAScore        float64   `json:"ma_score"`
	VolumeTrend    string    `json:"volume_trend"`
	VolumeScore    float64   `json:"volume_score"`
	ValuationScore float64   `json:"valuation_score"`
	TechnicalScore float64   `json:"technical_score"`
	CompositeScore float64   `json:"composite_score"`
}

// NewQuantitativeScoreResponse maps a score row to the public view.
func NewQuantitativeScoreResponse(symbol string, score *entity.QuantitativeScore) QuantitativeScoreResponse {
	return QuantitativeScoreResponse{
		Symbol:         symbol,
		AnalysisDate:   score.AnalysisDate,
		PERatio:        score.PERatio,
		PBRatio:        score.PBRatio,
		PEScore:        score.PEScore,
		PBScore:        score.PBScore,
		RSI:            score.RSI,
		RSIScore:       score.RSIScore,
		MA50:           score.MA50,
		MA200:          score.MA200,
		MASignal:       score.MASignal,
		MAScore:        score.MAScore,
		VolumeTrend:    score.VolumeTrend,
		VolumeScore:    score.VolumeScore,
		ValuationScore: score.ValuationScore,
		TechnicalScore: score.TechnicalScore,
		CompositeScore: score.CompositeScore,
	}
}

// StockResponse is one row of the stock universe listing.
type StockResponse struct {
	Symbol      string `json:"symbol"`
	CompanyName string `json:"company_name"`
	Sector      string `json:"sector"`
	IsLQ45      bool   `json:"is_lq45"`
	Currency    string `json:"currency"`
}

// PriceHistoryResponse returns the stored daily series for one symbol.
type PriceHistoryResponse struct {
	Symbol string                   `json:"symbol"`
	Prices []analyzerdto.PricePoint `json:"prices"`
}

// MarketOverviewResponse summarizes the latest recommendations market-wide.
type MarketOverviewResponse struct {
	AnalysisDate    time.Time `json:"analysis_date"`
	StocksCovered   int       `json:"stocks_covered"`
	AverageScore    float64   `json:"average_score"`
	MarketSentiment string    `json:"market_sentiment"`
	BuyCount        int       `json:"buy_count"`
	HoldCount       int       `json:"hold_count"`
	SellCount       int       `json:"sell_count"`
}

// FinancialStatementRequest carries one reporting-period fundamentals snapshot
// for manual loading; there is no automated ingestion source for these.
type FinancialStatementRequest struct {
	StatementType string    `json:"statement_type"`
	PeriodEnd     time.Time `json:"period_end"`
	FiscalYear    int       `json:"fiscal_year"`
	Revenue       float64   `json:"revenue"`
	NetIncome     float64   `json:"net_income"`
	TotalAssets   float64   `json:"total_assets"`
	TotalEquity   float64   `json:"total_equity"`
	EPS           float64   `json:"eps"`
	ROE           float64   `json:"roe"`
}

// PortfolioRiskRequest carries the symbol weights for a portfolio assessment.
// Weights must be non-negative and sum to 1.0 within a small tolerance.
type PortfolioRiskRequest struct {
	Weights map[string]float64 `json:"weights"`
}

// TrendingThemesResponse wraps the trending-theme stats with their window.
type TrendingThemesResponse struct {
	WindowHours int                     `json:"window_hours"`
	Themes      []analyzerdto.ThemeStat `json:"themes"`
}
