package entity

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Recommendation action values.
const (
	RecommendationBuy  = "BUY"
	RecommendationHold = "HOLD"
	RecommendationSell = "SELL"
)

// Confidence level values.
const (
	ConfidenceHigh   = "HIGH"
	ConfidenceMedium = "MEDIUM"
	ConfidenceLow    = "LOW"
)

// Recommendation is the final per-(stock, date) BUY/HOLD/SELL record.
// Immutable once written; a rerun for the same date upserts the single row.
type Recommendation struct {
	ID                 uint              `gorm:"primaryKey" json:"id"`
	StockID            uint              `gorm:"not null;uniqueIndex:uq_recommendation_date" json:"stock_id"`
	RecommendationDate time.Time         `gorm:"not null;uniqueIndex:uq_recommendation_date" json:"recommendation_date"`
	QuantitativeScore  float64           `json:"quantitative_score"`
	QualitativeScore   float64           `json:"qualitative_score"`
	CombinedScore      float64           `json:"combined_score"`
	Recommendation     string            `gorm:"type:varchar(10);not null" json:"recommendation"`
	ConfidenceLevel    string            `gorm:"type:varchar(10);not null" json:"confidence_level"`
	KeyThemes          pq.StringArray    `gorm:"type:text[]" json:"key_themes"`
	TechnicalSignals   datatypes.JSONMap `json:"technical_signals"`
	RiskFactors        pq.StringArray    `gorm:"type:text[]" json:"risk_factors"`
	CreatedAt          time.Time         `gorm:"autoCreateTime" json:"created_at"`
}

func (Recommendation) TableName() string {
	return "recommendations"
}
