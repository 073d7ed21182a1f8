package dto

import (
	"time"
)

// SentimentResult is the normalized outcome of one article sentiment call.
// All fields are clamped to their documented ranges before use.
type SentimentResult struct {
	SentimentScore   float64  `json:"sentiment_score"`
	Confidence       float64  `json:"confidence"`
	Themes           []string `json:"themes"`
	Summary          string   `json:"summary"`
	Relevance        float64  `json:"relevance"`
	ModelUsed        string   `json:"model_used"`
	ProcessingTimeMs int64    `json:"processing_time_ms"`
}

// IsFallback reports whether this is the deterministic record emitted after
// the retry budget was exhausted, recognizable by its literal theme tag.
func (r *SentimentResult) IsFallback() bool {
	return len(r.Themes) == 1 && r.Themes[0] == "analysis_failed"
}

// SymbolSentiment is the per-symbol rollup over a lookback window.
type SymbolSentiment struct {
	Symbol           string   `json:"symbol"`
	CompanyName      string   `json:"company_name"`
	AvgSentiment     float64  `json:"avg_sentiment"`
	AvgConfidence    float64  `json:"avg_confidence"`
	ArticleCount     int      `json:"article_count"`
	Themes           []string `json:"themes"`
	QualitativeScore float64  `json:"qualitative_score"`
}

// ThemeStat is one entry of the trending-themes view.
type ThemeStat struct {
	Theme        string  `json:"theme"`
	Count        int     `json:"count"`
	AvgSentiment float64 `json:"avg_sentiment"`
}

// SentimentRunSummary reports partial-success counts for one sentiment batch.
type SentimentRunSummary struct {
	Processed     int      `json:"processed"`
	Saved         int      `json:"saved"`
	Errors        int      `json:"errors"`
	TotalArticles int      `json:"total_articles"`
	TopThemes     []string `json:"top_themes"`
}

// ArticleSentimentRow joins one sentiment record to the stocks it mentions,
// as returned by the aggregation query.
type ArticleSentimentRow struct {
	Symbol         string    `json:"symbol"`
	CompanyName    string    `json:"company_name"`
	SentimentScore float64   `json:"sentiment_score"`
	Confidence     float64   `json:"confidence"`
	Themes         []string  `json:"themes"`
	PublishedAt    time.Time `json:"published_at"`
}
