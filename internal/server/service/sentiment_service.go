package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	analyzerdto "github.com/Subakiz/ai-investment-manager/internal/analyzer/dto"
	"github.com/Subakiz/ai-investment-manager/internal/analyzer/repository"
	analyzersvc "github.com/Subakiz/ai-investment-manager/internal/analyzer/service"
	"github.com/Subakiz/ai-investment-manager/internal/server/config"
	"github.com/Subakiz/ai-investment-manager/internal/server/dto"
	"github.com/Subakiz/ai-investment-manager/pkg/logger"
	"github.com/Subakiz/ai-investment-manager/pkg/utils"

	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

const defaultTrendingLimit = 10

// SentimentService serves aggregated sentiment reads.
type SentimentService interface {
	GetSymbolSentiment(ctx context.Context, symbol string, windowHours int) (*analyzerdto.SymbolSentiment, error)
	GetTrendingThemes(ctx context.Context, windowHours, limit int) (*dto.TrendingThemesResponse, error)
}

type sentimentService struct {
	cfg           *config.Config
	log           *logger.Logger
	stocksRepo    repository.StocksRepository
	sentimentRepo repository.SentimentRepository
	cache         *cache.Cache
}

// NewSentimentService creates the sentiment read service.
func NewSentimentService(
	cfg *config.Config,
	log *logger.Logger,
	stocksRepo repository.StocksRepository,
	sentimentRepo repository.SentimentRepository,
) SentimentService {
	return &sentimentService{
		cfg:           cfg,
		log:           log,
		stocksRepo:    stocksRepo,
		sentimentRepo: sentimentRepo,
		cache:         cache.New(cfg.Cache.TTL, cfg.Cache.CleanupInterval),
	}
}

func (s *sentimentService) window(windowHours int) time.Duration {
	if windowHours <= 0 {
		return s.cfg.Analysis.SentimentWindow
	}
	return time.Duration(windowHours) * time.Hour
}

func (s *sentimentService) GetSymbolSentiment(ctx context.Context, symbol string, windowHours int) (*analyzerdto.SymbolSentiment, error) {
	cacheKey := fmt.Sprintf("sentiment:%s:%d", symbol, windowHours)
	if cached, ok := s.cache.Get(cacheKey); ok {
		agg := cached.(analyzerdto.SymbolSentiment)
		return &agg, nil
	}

	if _, err := s.stocksRepo.GetBySymbol(ctx, symbol); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: stock %s", ErrNotFound, symbol)
		}
		return nil, err
	}

	from := utils.TimeNowWIB().Add(-s.window(windowHours))
	rows, err := s.sentimentRepo.FindRowsForSymbol(ctx, symbol, from)
	if err != nil {
		return nil, err
	}

	agg := analyzersvc.AggregateSymbolRows(symbol, rows)
	s.cache.Set(cacheKey, agg, cache.DefaultExpiration)
	return &agg, nil
}

func (s *sentimentService) GetTrendingThemes(ctx context.Context, windowHours, limit int) (*dto.TrendingThemesResponse, error) {
	if limit <= 0 {
		limit = defaultTrendingLimit
	}
	window := s.window(windowHours)

	cacheKey := fmt.Sprintf("themes:%d:%d", windowHours, limit)
	if cached, ok := s.cache.Get(cacheKey); ok {
		resp := cached.(dto.TrendingThemesResponse)
		return &resp, nil
	}

	from := utils.TimeNowWIB().Add(-window)
	rows, err := s.sentimentRepo.FindRowsInWindow(ctx, from)
	if err != nil {
		return nil, err
	}

	resp := dto.TrendingThemesResponse{
		WindowHours: int(window / time.Hour),
		Themes:      analyzersvc.TrendingThemeStats(rows, limit),
	}
	s.cache.Set(cacheKey, resp, cache.DefaultExpiration)
	return &resp, nil
}
