package service

import (
	"context"
	"fmt"

	"github.com/Subakiz/ai-investment-manager/internal/analyzer/config"
	"github.com/Subakiz/ai-investment-manager/internal/analyzer/dto"
	"github.com/Subakiz/ai-investment-manager/internal/analyzer/repository"
	"github.com/Subakiz/ai-investment-manager/internal/entity"
	"github.com/Subakiz/ai-investment-manager/pkg/logger"
	"github.com/Subakiz/ai-investment-manager/pkg/utils"
)

// MarketDataService seeds the stock universe and pulls daily OHLCV series
// into storage.
type MarketDataService interface {
	SeedUniverse(ctx context.Context) error
	CollectDailyPrices(ctx context.Context, symbols []string) (*dto.RunSummary, error)
}

type marketDataService struct {
	cfg        *config.Config
	log        *logger.Logger
	marketRepo repository.MarketDataRepository
	stocksRepo repository.StocksRepository
	priceRepo  repository.StockPriceRepository
}

// NewMarketDataService creates a new market-data collector.
func NewMarketDataService(
	cfg *config.Config,
	log *logger.Logger,
	marketRepo repository.MarketDataRepository,
	stocksRepo repository.StocksRepository,
	priceRepo repository.StockPriceRepository,
) MarketDataService {
	return &marketDataService{
		cfg:        cfg,
		log:        log,
		marketRepo: marketRepo,
		stocksRepo: stocksRepo,
		priceRepo:  priceRepo,
	}
}

// SeedUniverse upserts the LQ45 constituents so every downstream run has a
// populated stock table.
func (s *marketDataService) SeedUniverse(ctx context.Context) error {
	stocks := LQ45Stocks()
	if err := s.stocksRepo.UpsertAll(ctx, stocks); err != nil {
		return fmt.Errorf("failed to seed stock universe: %w", err)
	}
	s.log.Info("Seeded stock universe", logger.IntField("count", len(stocks)))
	return nil
}

// CollectDailyPrices fetches the trailing daily series for each symbol and
// upserts it keyed by (stock, trade date). A failing symbol is counted and
// skipped, never fatal for the batch.
func (s *marketDataService) CollectDailyPrices(ctx context.Context, symbols []string) (*dto.RunSummary, error) {
	if len(symbols) == 0 {
		stocks, err := s.stocksRepo.GetLQ45(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list LQ45 stocks: %w", err)
		}
		for _, stock := range stocks {
			symbols = append(symbols, stock.Symbol)
		}
	}

	summary := &dto.RunSummary{TotalSymbols: len(symbols)}
	for _, symbol := range symbols {
		if !utils.ShouldContinue(ctx, s.log) {
			break
		}
		saved, err := s.collectSymbol(ctx, symbol)
		if err != nil {
			s.log.Error("Failed to collect prices", logger.StringField("symbol", symbol), logger.ErrorField(err))
			summary.Errors++
			continue
		}
		summary.Analyzed++
		summary.Saved += saved
	}

	s.log.Info("Market data collection completed",
		logger.IntField("symbols", summary.Analyzed),
		logger.IntField("rows", summary.Saved),
		logger.IntField("errors", summary.Errors),
	)
	return summary, nil
}

func (s *marketDataService) collectSymbol(ctx context.Context, symbol string) (int, error) {
	stock, err := s.stocksRepo.GetBySymbol(ctx, symbol)
	if err != nil {
		return 0, fmt.Errorf("stock not found: %w", err)
	}

	points, err := s.marketRepo.GetDailySeries(ctx, dto.GetStockDataParam{
		Symbol:   FormatIDXSymbol(symbol),
		Interval: "1d",
		Range:    "1y",
	})
	if err != nil {
		return 0, fmt.Errorf("chart fetch failed: %w", err)
	}
	if len(points) == 0 {
		return 0, fmt.Errorf("%w: no rows returned for %s", ErrInsufficientData, symbol)
	}

	prices := make([]entity.StockPrice, len(points))
	for i, p := range points {
		prices[i] = entity.StockPrice{
			StockID:   stock.ID,
			TradeDate: utils.TruncateToDate(p.Date),
			Open:      p.Open,
			High:      p.High,
			Low:       p.Low,
			Close:     p.Close,
			Volume:    p.Volume,
		}
	}
	if err := s.priceRepo.UpsertBatch(ctx, prices); err != nil {
		return 0, fmt.Errorf("price upsert failed: %w", err)
	}
	return len(prices), nil
}
