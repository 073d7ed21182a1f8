package entity

import (
	"time"

	"github.com/lib/pq"
)

// SentimentAnalysis is the normalized per-article AI sentiment record.
// Created once per processed article, never updated; a reprocessed article
// gets a logically new row.
type SentimentAnalysis struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	NewsArticleID    uint           `gorm:"not null;index" json:"news_article_id"`
	SentimentScore   float64        `gorm:"not null" json:"sentiment_score"`
	Confidence       float64        `gorm:"not null" json:"confidence"`
	Themes           pq.StringArray `gorm:"type:text[]" json:"themes"`
	Summary          string         `gorm:"type:varchar(100)" json:"summary"`
	Relevance        float64        `gorm:"not null" json:"relevance"`
	ModelUsed        string         `gorm:"type:varchar(50)" json:"model_used"`
	ProcessingTimeMs int64          `json:"processing_time_ms"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (SentimentAnalysis) TableName() string {
	return "sentiment_analyses"
}
