package service

import (
	"context"

	analyzerdto "github.com/Subakiz/ai-investment-manager/internal/analyzer/dto"
	analyzersvc "github.com/Subakiz/ai-investment-manager/internal/analyzer/service"
	"github.com/Subakiz/ai-investment-manager/internal/server/config"
	"github.com/Subakiz/ai-investment-manager/pkg/logger"

	"github.com/patrickmn/go-cache"
)

// RiskService serves on-demand risk assessments, cached briefly because they
// are recomputed from the full price window on every call.
type RiskService interface {
	GetSymbolRisk(ctx context.Context, symbol string) (*analyzerdto.RiskAssessment, error)
	GetPortfolioRisk(ctx context.Context, weights map[string]float64) (*analyzerdto.PortfolioRisk, error)
}

type riskService struct {
	cfg      *config.Config
	log      *logger.Logger
	analyzer analyzersvc.RiskAnalyzerService
	cache    *cache.Cache
}

// NewRiskService creates the risk read service.
func NewRiskService(cfg *config.Config, log *logger.Logger, analyzer analyzersvc.RiskAnalyzerService) RiskService {
	return &riskService{
		cfg:      cfg,
		log:      log,
		analyzer: analyzer,
		cache:    cache.New(cfg.Cache.TTL, cfg.Cache.CleanupInterval),
	}
}

func (s *riskService) GetSymbolRisk(ctx context.Context, symbol string) (*analyzerdto.RiskAssessment, error) {
	cacheKey := "risk:" + symbol
	if cached, ok := s.cache.Get(cacheKey); ok {
		assessment := cached.(analyzerdto.RiskAssessment)
		return &assessment, nil
	}

	assessment, err := s.analyzer.AssessSymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	s.cache.Set(cacheKey, *assessment, cache.DefaultExpiration)
	return assessment, nil
}

func (s *riskService) GetPortfolioRisk(ctx context.Context, weights map[string]float64) (*analyzerdto.PortfolioRisk, error) {
	// Portfolio requests are not cached: the weight combinations are
	// arbitrary and would pollute the cache.
	return s.analyzer.AssessPortfolio(ctx, weights)
}
