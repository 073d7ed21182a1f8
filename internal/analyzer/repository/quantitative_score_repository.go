package repository

import (
	"context"
	"errors"

	"github.com/Subakiz/ai-investment-manager/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuantitativeScoreRepository defines the interface for quantitative score rows.
type QuantitativeScoreRepository interface {
	Upsert(ctx context.Context, score *entity.QuantitativeScore) error
	GetLatest(ctx context.Context, stockID uint) (*entity.QuantitativeScore, error)
}

type quantitativeScoreRepository struct {
	db *gorm.DB
}

// NewQuantitativeScoreRepository creates a new QuantitativeScoreRepository.
func NewQuantitativeScoreRepository(db *gorm.DB) QuantitativeScoreRepository {
	return &quantitativeScoreRepository{db: db}
}

// Upsert writes one row per (stock_id, analysis_date); a rerun for the same
// date overwrites the existing row instead of duplicating it.
func (r *quantitativeScoreRepository) Upsert(ctx context.Context, score *entity.QuantitativeScore) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "stock_id"}, {Name: "analysis_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"pe_ratio", "pb_ratio", "pe_score", "pb_score",
			"rsi", "rsi_score", "ma_50", "ma_200", "ma_signal", "ma_score",
			"volume_trend", "volume_score",
			"valuation_score", "technical_score", "composite_score",
		}),
	}).Create(score).Error
}

func (r *quantitativeScoreRepository) GetLatest(ctx context.Context, stockID uint) (*entity.QuantitativeScore, error) {
	var score entity.QuantitativeScore
	err := r.db.WithContext(ctx).
		Where("stock_id = ?", stockID).
		Order("analysis_date DESC").
		First(&score).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &score, nil
}
