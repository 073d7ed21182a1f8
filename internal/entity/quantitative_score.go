package entity

import (
	"time"
)

// QuantitativeScore is one (stock, analysis_date) scoring row produced by the
// quantitative composite engine. Immutable after creation; reruns for the same
// date upsert the single existing row.
type QuantitativeScore struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	StockID      uint      `gorm:"not null;uniqueIndex:uq_quant_score_date" json:"stock_id"`
	AnalysisDate time.Time `gorm:"not null;uniqueIndex:uq_quant_score_date" json:"analysis_date"`

	// Valuation metrics
	PERatio float64 `gorm:"column:pe_ratio" json:"pe_ratio"`
	PBRatio float64 `gorm:"column:pb_ratio" json:"pb_ratio"`
	PEScore float64 `gorm:"column:pe_score" json:"pe_score"`
	PBScore float64 `gorm:"column:pb_score" json:"pb_score"`

	// Technical indicators
	RSI         float64 `gorm:"column:rsi" json:"rsi"`
	RSIScore    float64 `gorm:"column:rsi_score" json:"rsi_score"`
	MA50        float64 `gorm:"column:ma_50" json:"ma_50"`
	MA200       float64 `gorm:"column:ma_200" json:"ma_200"`
	MASignal    string  `gorm:"column:ma_signal;type:varchar(10)" json:"ma_signal"`
	MAScore     float64 `gorm:"column:ma_score" json:"ma_score"`
	VolumeTrend string  `gorm:"type:varchar(10)" json:"volume_trend"`
	VolumeScore float64 `json:"volume_score"`

	// Composites
	ValuationScore float64   `json:"valuation_score"`
	TechnicalScore float64   `json:"technical_score"`
	CompositeScore float64   `json:"composite_score"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (QuantitativeScore) TableName() string {
	return "quantitative_scores"
}
