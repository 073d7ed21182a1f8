package repository

import (
	"context"
	"time"

	"github.com/Subakiz/ai-investment-manager/internal/analyzer/dto"
	"github.com/Subakiz/ai-investment-manager/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockPriceRepository defines the interface for OHLCV price history.
type StockPriceRepository interface {
	UpsertBatch(ctx context.Context, prices []entity.StockPrice) error
	GetSeries(ctx context.Context, stockID uint, from time.Time) ([]dto.PricePoint, error)
}

type stockPriceRepository struct {
	db *gorm.DB
}

// NewStockPriceRepository creates a new instance of StockPriceRepository.
func NewStockPriceRepository(db *gorm.DB) StockPriceRepository {
	return &stockPriceRepository{db: db}
}

// UpsertBatch writes daily rows idempotently on (stock_id, trade_date), so a
// rerun for the same day overwrites instead of duplicating.
func (r *stockPriceRepository) UpsertBatch(ctx context.Context, prices []entity.StockPrice) error {
	if len(prices) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stock_id"}, {Name: "trade_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"open_price", "high_price", "low_price", "close_price", "volume"}),
	}).Create(&prices).Error
}

// GetSeries returns the date-ordered series from the cutoff onwards.
func (r *stockPriceRepository) GetSeries(ctx context.Context, stockID uint, from time.Time) ([]dto.PricePoint, error) {
	var rows []entity.StockPrice
	err := r.db.WithContext(ctx).
		Where("stock_id = ? AND trade_date >= ?", stockID, from).
		Order("trade_date").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	points := make([]dto.PricePoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, dto.PricePoint{
			Date:   row.TradeDate,
			Open:   row.Open,
			High:   row.High,
			Low:    row.Low,
			Close:  row.Close,
			Volume: row.Volume,
		})
	}
	return points, nil
}
