package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Subakiz/ai-investment-manager/internal/analyzer/repository"
	"github.com/Subakiz/ai-investment-manager/internal/entity"
	"github.com/Subakiz/ai-investment-manager/internal/server/config"
	"github.com/Subakiz/ai-investment-manager/internal/server/dto"
	"github.com/Subakiz/ai-investment-manager/pkg/logger"
	"github.com/Subakiz/ai-investment-manager/pkg/utils"

	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

// StockService serves the stock universe, price history and quantitative
// score reads.
type StockService interface {
	ListStocks(ctx context.Context) ([]dto.StockResponse, error)
	GetPriceHistory(ctx context.Context, symbol string, days int) (*dto.PriceHistoryResponse, error)
	GetLatestScore(ctx context.Context, symbol string) (*dto.QuantitativeScoreResponse, error)
	SaveFinancialStatement(ctx context.Context, symbol string, req *dto.FinancialStatementRequest) error
}

type stockService struct {
	cfg        *config.Config
	log        *logger.Logger
	stocksRepo repository.StocksRepository
	priceRepo  repository.StockPriceRepository
	scoreRepo  repository.QuantitativeScoreRepository
	finRepo    repository.FinancialStatementRepository
	cache      *cache.Cache
}

// NewStockService creates the stock read service.
func NewStockService(
	cfg *config.Config,
	log *logger.Logger,
	stocksRepo repository.StocksRepository,
	priceRepo repository.StockPriceRepository,
	scoreRepo repository.QuantitativeScoreRepository,
	finRepo repository.FinancialStatementRepository,
) StockService {
	return &stockService{
		cfg:        cfg,
		log:        log,
		stocksRepo: stocksRepo,
		priceRepo:  priceRepo,
		scoreRepo:  scoreRepo,
		finRepo:    finRepo,
		cache:      cache.New(cfg.Cache.TTL, cfg.Cache.CleanupInterval),
	}
}

func (s *stockService) ListStocks(ctx context.Context) ([]dto.StockResponse, error) {
	cacheKey := "stocks:lq45"
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.([]dto.StockResponse), nil
	}

	stocks, err := s.stocksRepo.GetLQ45(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.StockResponse, len(stocks))
	for i, stock := range stocks {
		responses[i] = dto.StockResponse{
			Symbol:      stock.Symbol,
			CompanyName: stock.CompanyName,
			Sector:      stock.Sector,
			IsLQ45:      stock.IsLQ45,
			Currency:    stock.Currency,
		}
	}
	s.cache.Set(cacheKey, responses, cache.DefaultExpiration)
	return responses, nil
}

func (s *stockService) GetPriceHistory(ctx context.Context, symbol string, days int) (*dto.PriceHistoryResponse, error) {
	stock, err := s.stocksRepo.GetBySymbol(ctx, symbol)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: stock %s", ErrNotFound, symbol)
		}
		return nil, err
	}

	from := utils.TimeNowWIB().AddDate(0, 0, -days)
	prices, err := s.priceRepo.GetSeries(ctx, stock.ID, from)
	if err != nil {
		return nil, err
	}
	return &dto.PriceHistoryResponse{Symbol: symbol, Prices: prices}, nil
}

func (s *stockService) GetLatestScore(ctx context.Context, symbol string) (*dto.QuantitativeScoreResponse, error) {
	cacheKey := "score:" + symbol
	if cached, ok := s.cache.Get(cacheKey); ok {
		resp := cached.(dto.QuantitativeScoreResponse)
		return &resp, nil
	}

	stock, err := s.stocksRepo.GetBySymbol(ctx, symbol)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: stock %s", ErrNotFound, symbol)
		}
		return nil, err
	}

	score, err := s.scoreRepo.GetLatest(ctx, stock.ID)
	if err != nil {
		return nil, err
	}
	if score == nil {
		return nil, fmt.Errorf("%w: no quantitative score for %s", ErrNotFound, symbol)
	}

	resp := dto.NewQuantitativeScoreResponse(symbol, score)
	s.cache.Set(cacheKey, resp, cache.DefaultExpiration)
	return &resp, nil
}

// SaveFinancialStatement upserts one fundamentals snapshot keyed by
// (stock, statement type, period end). The next quantitative run picks it up.
func (s *stockService) SaveFinancialStatement(ctx context.Context, symbol string, req *dto.FinancialStatementRequest) error {
	stock, err := s.stocksRepo.GetBySymbol(ctx, symbol)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: stock %s", ErrNotFound, symbol)
		}
		return err
	}

	statement := &entity.FinancialStatement{
		StockID:       stock.ID,
		StatementType: req.StatementType,
		PeriodEnd:     req.PeriodEnd,
		FiscalYear:    req.FiscalYear,
		Revenue:       req.Revenue,
		NetIncome:     req.NetIncome,
		TotalAssets:   req.TotalAssets,
		TotalEquity:   req.TotalEquity,
		EPS:           req.EPS,
		ROE:           req.ROE,
	}
	if err := s.finRepo.Upsert(ctx, statement); err != nil {
		return err
	}

	s.log.Info("Saved financial statement",
		logger.StringField("symbol", symbol),
		logger.StringField("statement_type", req.StatementType),
	)
	return nil
}
