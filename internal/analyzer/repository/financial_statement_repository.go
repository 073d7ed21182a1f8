package repository

import (
	"context"
	"errors"

	"github.com/Subakiz/ai-investment-manager/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FinancialStatementRepository defines the interface for fundamentals.
type FinancialStatementRepository interface {
	GetLatest(ctx context.Context, stockID uint) (*entity.FinancialStatement, error)
	Upsert(ctx context.Context, statement *entity.FinancialStatement) error
}

type financialStatementRepository struct {
	db *gorm.DB
}

// NewFinancialStatementRepository creates a new FinancialStatementRepository.
func NewFinancialStatementRepository(db *gorm.DB) FinancialStatementRepository {
	return &financialStatementRepository{db: db}
}

// GetLatest returns the newest snapshot by period_end, or nil when the stock
// has no fundamentals yet (missing fundamentals are not an error).
func (r *financialStatementRepository) GetLatest(ctx context.Context, stockID uint) (*entity.FinancialStatement, error) {
	var statement entity.FinancialStatement
	err := r.db.WithContext(ctx).
		Where("stock_id = ?", stockID).
		Order("period_end DESC").
		First(&statement).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &statement, nil
}

func (r *financialStatementRepository) Upsert(ctx context.Context, statement *entity.FinancialStatement) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stock_id"}, {Name: "statement_type"}, {Name: "period_end"}},
		DoUpdates: clause.AssignmentColumns([]string{"revenue", "net_income", "total_assets", "total_equity", "eps", "roe", "updated_at"}),
	}).Create(statement).Error
}
