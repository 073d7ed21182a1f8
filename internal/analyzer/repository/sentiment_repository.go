package repository

import (
	"context"
	"time"

	"github.com/Subakiz/ai-investment-manager/internal/analyzer/dto"
	"github.com/Subakiz/ai-investment-manager/internal/entity"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// SentimentRepository defines the interface for per-article sentiment records
// and the windowed views built on top of them.
type SentimentRepository interface {
	Create(ctx context.Context, record *entity.SentimentAnalysis) error
	FindRowsForSymbol(ctx context.Context, symbol string, from time.Time) ([]dto.ArticleSentimentRow, error)
	FindRowsInWindow(ctx context.Context, from time.Time) ([]dto.ArticleSentimentRow, error)
}

type sentimentRepository struct {
	db *gorm.DB
}

// NewSentimentRepository creates a new instance of SentimentRepository.
func NewSentimentRepository(db *gorm.DB) SentimentRepository {
	return &sentimentRepository{db: db}
}

func (r *sentimentRepository) Create(ctx context.Context, record *entity.SentimentAnalysis) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// sentimentRow is the raw scan target; themes arrive as a text[] column.
type sentimentRow struct {
	Symbol         string
	CompanyName    string
	SentimentScore float64
	Confidence     float64
	Themes         pq.StringArray `gorm:"type:text[]"`
	PublishedAt    time.Time
}

const sentimentRowsQuery = `
	SELECT
		s.symbol,
		s.company_name,
		sa.sentiment_score,
		sa.confidence,
		sa.themes,
		na.published_at
	FROM sentiment_analyses AS sa
	JOIN news_articles AS na ON na.id = sa.news_article_id
	JOIN news_stock_mentions AS nsm ON nsm.news_article_id = na.id
	JOIN stocks AS s ON s.id = nsm.stock_id
	WHERE na.published_at >= ?
`

// FindRowsForSymbol returns the per-article sentiment rows mentioning one
// symbol within the window.
func (r *sentimentRepository) FindRowsForSymbol(ctx context.Context, symbol string, from time.Time) ([]dto.ArticleSentimentRow, error) {
	var rows []sentimentRow
	err := r.db.WithContext(ctx).
		Raw(sentimentRowsQuery+" AND s.symbol = ?", from, symbol).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toArticleSentimentRows(rows), nil
}

// FindRowsInWindow returns all per-article sentiment rows in the window,
// used for market-level and theme rollups.
func (r *sentimentRepository) FindRowsInWindow(ctx context.Context, from time.Time) ([]dto.ArticleSentimentRow, error) {
	var rows []sentimentRow
	err := r.db.WithContext(ctx).
		Raw(sentimentRowsQuery, from).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toArticleSentimentRows(rows), nil
}

func toArticleSentimentRows(rows []sentimentRow) []dto.ArticleSentimentRow {
	out := make([]dto.ArticleSentimentRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.ArticleSentimentRow{
			Symbol:         row.Symbol,
			CompanyName:    row.CompanyName,
			SentimentScore: row.SentimentScore,
			Confidence:     row.Confidence,
			Themes:         []string(row.Themes),
			PublishedAt:    row.PublishedAt,
		})
	}
	return out
}
