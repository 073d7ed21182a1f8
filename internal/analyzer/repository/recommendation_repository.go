package repository

import (
	"context"
	"errors"
	"sort"

	"github.com/Subakiz/ai-investment-manager/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecommendationWithStock joins one recommendation to its stock master row.
type RecommendationWithStock struct {
	Recommendation entity.Recommendation
	Stock          entity.Stock
}

// RecommendationRepository defines the interface for recommendation rows.
type RecommendationRepository interface {
	Upsert(ctx context.Context, rec *entity.Recommendation) error
	GetLatestForStock(ctx context.Context, stockID uint) (*entity.Recommendation, error)
	GetLatestRanked(ctx context.Context, limit int) ([]RecommendationWithStock, error)
}

type recommendationRepository struct {
	db *gorm.DB
}

// NewRecommendationRepository creates a new RecommendationRepository.
func NewRecommendationRepository(db *gorm.DB) RecommendationRepository {
	return &recommendationRepository{db: db}
}

// Upsert writes one row per (stock_id, recommendation_date).
func (r *recommendationRepository) Upsert(ctx context.Context, rec *entity.Recommendation) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "stock_id"}, {Name: "recommendation_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"quantitative_score", "qualitative_score", "combined_score",
			"recommendation", "confidence_level",
			"key_themes", "technical_signals", "risk_factors",
		}),
	}).Create(rec).Error
}

func (r *recommendationRepository) GetLatestForStock(ctx context.Context, stockID uint) (*entity.Recommendation, error) {
	var rec entity.Recommendation
	err := r.db.WithContext(ctx).
		Where("stock_id = ?", stockID).
		Order("recommendation_date DESC").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetLatestRanked returns each stock's newest recommendation, ordered by
// combined score descending.
func (r *recommendationRepository) GetLatestRanked(ctx context.Context, limit int) ([]RecommendationWithStock, error) {
	var recs []entity.Recommendation
	err := r.db.WithContext(ctx).
		Raw(`
			SELECT DISTINCT ON (stock_id) *
			FROM recommendations
			ORDER BY stock_id, recommendation_date DESC
		`).
		Scan(&recs).Error
	if err != nil {
		return nil, err
	}

	out := make([]RecommendationWithStock, 0, len(recs))
	for _, rec := range recs {
		var stock entity.Stock
		if err := r.db.WithContext(ctx).First(&stock, rec.StockID).Error; err != nil {
			return nil, err
		}
		out = append(out, RecommendationWithStock{Recommendation: rec, Stock: stock})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Recommendation.CombinedScore > out[j].Recommendation.CombinedScore
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
