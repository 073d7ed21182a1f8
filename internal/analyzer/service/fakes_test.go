package service

import (
	"context"
	"time"

	"github.com/Subakiz/ai-investment-manager/internal/analyzer/dto"
	"github.com/Subakiz/ai-investment-manager/internal/entity"

	"gorm.io/gorm"
)

// Hand-written repository fakes shared across the service tests.

type fakeStocksRepository struct {
	stocks []entity.Stock
}

func (f *fakeStocksRepository) GetLQ45(ctx context.Context) ([]entity.Stock, error) {
	return f.stocks, nil
}

func (f *fakeStocksRepository) GetBySymbol(ctx context.Context, symbol string) (*entity.Stock, error) {
	for i := range f.stocks {
		if f.stocks[i].Symbol == symbol {
			return &f.stocks[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStocksRepository) GetByID(ctx context.Context, id uint) (*entity.Stock, error) {
	for i := range f.stocks {
		if f.stocks[i].ID == id {
			return &f.stocks[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStocksRepository) UpsertAll(ctx context.Context, stocks []entity.Stock) error {
	f.stocks = stocks
	return nil
}

type fakeStockPriceRepository struct {
	series []dto.PricePoint
}

func (f *fakeStockPriceRepository) UpsertBatch(ctx context.Context, prices []entity.StockPrice) error {
	return nil
}

func (f *fakeStockPriceRepository) GetSeries(ctx context.Context, stockID uint, from time.Time) ([]dto.PricePoint, error) {
	return f.series, nil
}

type fakeFinancialStatementRepository struct {
	latest *entity.FinancialStatement
}

func (f *fakeFinancialStatementRepository) GetLatest(ctx context.Context, stockID uint) (*entity.FinancialStatement, error) {
	return f.latest, nil
}

func (f *fakeFinancialStatementRepository) Upsert(ctx context.Context, statement *entity.FinancialStatement) error {
	f.latest = statement
	return nil
}

type fakeQuantitativeScoreRepository struct {
	saved *entity.QuantitativeScore
}

func (f *fakeQuantitativeScoreRepository) Upsert(ctx context.Context, score *entity.QuantitativeScore) error {
	f.saved = score
	return nil
}

func (f *fakeQuantitativeScoreRepository) GetLatest(ctx context.Context, stockID uint) (*entity.QuantitativeScore, error) {
	return f.saved, nil
}
