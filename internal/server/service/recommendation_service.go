package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Subakiz/ai-investment-manager/internal/analyzer/repository"
	analyzersvc "github.com/Subakiz/ai-investment-manager/internal/analyzer/service"
	"github.com/Subakiz/ai-investment-manager/internal/entity"
	"github.com/Subakiz/ai-investment-manager/internal/server/config"
	"github.com/Subakiz/ai-investment-manager/internal/server/dto"
	"github.com/Subakiz/ai-investment-manager/pkg/logger"
	"github.com/Subakiz/ai-investment-manager/pkg/utils"

	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

// ErrNotFound marks lookups for symbols or rows that do not exist.
var ErrNotFound = errors.New("not found")

// RecommendationService serves the read side of recommendations.
type RecommendationService interface {
	GetLatest(ctx context.Context, symbol string) (*dto.RecommendationResponse, error)
	GetRanked(ctx context.Context, limit int) ([]dto.RecommendationResponse, error)
	GetMarketOverview(ctx context.Context) (*dto.MarketOverviewResponse, error)
}

type recommendationService struct {
	cfg        *config.Config
	log        *logger.Logger
	stocksRepo repository.StocksRepository
	recRepo    repository.RecommendationRepository
	cache      *cache.Cache
}

// NewRecommendationService creates the recommendation read service.
func NewRecommendationService(
	cfg *config.Config,
	log *logger.Logger,
	stocksRepo repository.StocksRepository,
	recRepo repository.RecommendationRepository,
) RecommendationService {
	return &recommendationService{
		cfg:        cfg,
		log:        log,
		stocksRepo: stocksRepo,
		recRepo:    recRepo,
		cache:      cache.New(cfg.Cache.TTL, cfg.Cache.CleanupInterval),
	}
}

func (s *recommendationService) GetLatest(ctx context.Context, symbol string) (*dto.RecommendationResponse, error) {
	cacheKey := "recommendation:" + symbol
	if cached, ok := s.cache.Get(cacheKey); ok {
		resp := cached.(dto.RecommendationResponse)
		return &resp, nil
	}

	stock, err := s.stocksRepo.GetBySymbol(ctx, symbol)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: stock %s", ErrNotFound, symbol)
		}
		return nil, err
	}

	rec, err := s.recRepo.GetLatestForStock(ctx, stock.ID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: no recommendation for %s", ErrNotFound, symbol)
	}

	resp := dto.NewRecommendationResponse(rec, stock)
	s.cache.Set(cacheKey, resp, cache.DefaultExpiration)
	return &resp, nil
}

func (s *recommendationService) GetRanked(ctx context.Context, limit int) ([]dto.RecommendationResponse, error) {
	cacheKey := fmt.Sprintf("recommendations:ranked:%d", limit)
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.([]dto.RecommendationResponse), nil
	}

	ranked, err := s.recRepo.GetLatestRanked(ctx, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.RecommendationResponse, 0, len(ranked))
	for _, r := range ranked {
		rec := r.Recommendation
		stock := r.Stock
		responses = append(responses, dto.NewRecommendationResponse(&rec, &stock))
	}
	s.cache.Set(cacheKey, responses, cache.DefaultExpiration)
	return responses, nil
}

// GetMarketOverview averages the latest combined scores across the universe
// and maps the result onto the five-bucket sentiment scale.
func (s *recommendationService) GetMarketOverview(ctx context.Context) (*dto.MarketOverviewResponse, error) {
	cacheKey := "market:overview"
	if cached, ok := s.cache.Get(cacheKey); ok {
		resp := cached.(dto.MarketOverviewResponse)
		return &resp, nil
	}

	ranked, err := s.recRepo.GetLatestRanked(ctx, 0)
	if err != nil {
		return nil, err
	}

	overview := dto.MarketOverviewResponse{
		AnalysisDate:    utils.TruncateToDate(utils.TimeNowWIB()),
		StocksCovered:   len(ranked),
		MarketSentiment: analyzersvc.SentimentNeutral,
	}
	if len(ranked) == 0 {
		overview.AverageScore = 50.0
		s.cache.Set(cacheKey, overview, cache.DefaultExpiration)
		return &overview, nil
	}

	var sum float64
	for _, r := range ranked {
		sum += r.Recommendation.CombinedScore
		switch r.Recommendation.Recommendation {
		case entity.RecommendationBuy:
			overview.BuyCount++
		case entity.RecommendationSell:
			overview.SellCount++
		default:
			overview.HoldCount++
		}
	}
	overview.AverageScore = sum / float64(len(ranked))
	overview.MarketSentiment = analyzersvc.SentimentLabel(overview.AverageScore)

	s.cache.Set(cacheKey, overview, cache.DefaultExpiration)
	return &overview, nil
}
