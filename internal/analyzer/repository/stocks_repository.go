package repository

import (
	"context"

	"github.com/Subakiz/ai-investment-manager/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StocksRepository defines the interface for interacting with stock master data.
type StocksRepository interface {
	GetLQ45(ctx context.Context) ([]entity.Stock, error)
	GetBySymbol(ctx context.Context, symbol string) (*entity.Stock, error)
	GetByID(ctx context.Context, id uint) (*entity.Stock, error)
	UpsertAll(ctx context.Context, stocks []entity.Stock) error
}

type stocksRepository struct {
	db *gorm.DB
}

// NewStocksRepository creates a new instance of StocksRepository.
func NewStocksRepository(db *gorm.DB) StocksRepository {
	return &stocksRepository{db: db}
}

func (r *stocksRepository) GetLQ45(ctx context.Context) ([]entity.Stock, error) {
	var stocks []entity.Stock
	err := r.db.WithContext(ctx).
		Where("is_lq45 = ?", true).
		Order("symbol").
		Find(&stocks).Error
	return stocks, err
}

func (r *stocksRepository) GetBySymbol(ctx context.Context, symbol string) (*entity.Stock, error) {
	var stock entity.Stock
	if err := r.db.WithContext(ctx).Where("symbol = ?", symbol).First(&stock).Error; err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *stocksRepository) GetByID(ctx context.Context, id uint) (*entity.Stock, error) {
	var stock entity.Stock
	if err := r.db.WithContext(ctx).First(&stock, id).Error; err != nil {
		return nil, err
	}
	return &stock, nil
}

// UpsertAll seeds the stock universe, updating names and sector labels for
// symbols that already exist.
func (r *stocksRepository) UpsertAll(ctx context.Context, stocks []entity.Stock) error {
	if len(stocks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{"company_name", "sector", "is_lq45", "updated_at"}),
	}).Create(&stocks).Error
}
