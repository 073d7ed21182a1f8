package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/Subakiz/ai-investment-manager/internal/analyzer/config"
	"github.com/Subakiz/ai-investment-manager/internal/analyzer/dto"
	"github.com/Subakiz/ai-investment-manager/internal/analyzer/repository"
	"github.com/Subakiz/ai-investment-manager/pkg/logger"
	"github.com/Subakiz/ai-investment-manager/pkg/utils"

	"gonum.org/v1/gonum/stat"
)

const (
	tradingDaysPerYear = 252
	minRiskReturns     = 2
	weightTolerance    = 0.01
)

// RiskAnalyzerService computes volatility-based risk views on demand. Results
// are derived from stored prices and never persisted.
type RiskAnalyzerService interface {
	AssessSymbol(ctx context.Context, symbol string) (*dto.RiskAssessment, error)
	AssessPortfolio(ctx context.Context, weights map[string]float64) (*dto.PortfolioRisk, error)
}

type riskAnalyzerService struct {
	cfg        *config.Config
	log        *logger.Logger
	stocksRepo repository.StocksRepository
	priceRepo  repository.StockPriceRepository
}

// NewRiskAnalyzerService creates a new risk analyzer.
func NewRiskAnalyzerService(
	cfg *config.Config,
	log *logger.Logger,
	stocksRepo repository.StocksRepository,
	priceRepo repository.StockPriceRepository,
) RiskAnalyzerService {
	return &riskAnalyzerService{
		cfg:        cfg,
		log:        log,
		stocksRepo: stocksRepo,
		priceRepo:  priceRepo,
	}
}

// AssessSymbol computes annualized volatility, return, max drawdown and VaR
// over the trailing risk window.
func (s *riskAnalyzerService) AssessSymbol(ctx context.Context, symbol string) (*dto.RiskAssessment, error) {
	stock, err := s.stocksRepo.GetBySymbol(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to find stock %s: %w", symbol, err)
	}

	// Calendar window is wider than the trading-day window to survive
	// weekends and holidays.
	cutoff := utils.TimeNowWIB().AddDate(0, 0, -s.cfg.Analysis.RiskWindowDays*2)
	prices, err := s.priceRepo.GetSeries(ctx, stock.ID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to load price series for %s: %w", symbol, err)
	}
	// Keep only the newest window of trading rows so the volatility figure
	// covers the number of days its name claims.
	if window := s.cfg.Analysis.RiskWindowDays; len(prices) > window {
		prices = prices[len(prices)-window:]
	}

	closes := make([]float64, len(prices))
	for i, p := range prices {
		closes[i] = p.Close
	}

	assessment, err := assessCloses(closes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", symbol, err)
	}
	assessment.Symbol = symbol
	assessment.AnalysisDate = utils.TruncateToDate(utils.TimeNowWIB())
	return assessment, nil
}

// assessCloses is the pure computation over an ordered close series.
func assessCloses(closes []float64) (*dto.RiskAssessment, error) {
	returns := simpleReturns(closes)
	if len(returns) < minRiskReturns {
		return nil, fmt.Errorf("%w: %d returns, need %d", ErrInsufficientData, len(returns), minRiskReturns)
	}

	volatility := stat.StdDev(returns, nil) * math.Sqrt(tradingDaysPerYear)
	annualized := stat.Mean(returns, nil) * tradingDaysPerYear
	score := volatilityRiskScore(volatility)

	sorted := append([]float64(nil), returns...)
	sort.Float64s(sorted)

	return &dto.RiskAssessment{
		Volatility30d:    round4(volatility),
		AnnualizedReturn: round4(annualized),
		RiskScore:        round2(score),
		RiskLevel:        riskLevel(score),
		MaxDrawdown:      round4(maxDrawdown(closes)),
		VaR95:            round4(stat.Quantile(0.05, stat.LinInterp, sorted, nil)),
		Beta:             nil,
		DataPoints:       len(returns),
	}, nil
}

func simpleReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		returns = append(returns, closes[i]/closes[i-1]-1)
	}
	return returns
}

// volatilityRiskScore maps annualized volatility to a 0-100 score with a
// piecewise-linear curve: gentle below 20%, steeper to 40%, flattening above.
func volatilityRiskScore(v float64) float64 {
	switch {
	case v <= 0.20:
		return math.Min(30, v*150)
	case v <= 0.40:
		return 30 + (v-0.20)*200
	default:
		return math.Min(100, 70+(v-0.40)*75)
	}
}

func riskLevel(score float64) string {
	switch {
	case score <= 30:
		return dto.RiskLevelLow
	case score <= 70:
		return dto.RiskLevelMedium
	default:
		return dto.RiskLevelHigh
	}
}

// maxDrawdown is the most negative peak-to-trough decline over the series.
func maxDrawdown(closes []float64) float64 {
	if len(closes) == 0 {
		return 0
	}
	peak := closes[0]
	worst := 0.0
	for _, c := range closes {
		if c > peak {
			peak = c
		}
		if peak > 0 {
			dd := c/peak - 1
			if dd < worst {
				worst = dd
			}
		}
	}
	return worst
}

// AssessPortfolio validates the weights, assesses every constituent and
// combines them under the no-covariance model.
func (s *riskAnalyzerService) AssessPortfolio(ctx context.Context, weights map[string]float64) (*dto.PortfolioRisk, error) {
	if len(weights) == 0 {
		return nil, NewValidationError("portfolio weights are required")
	}
	var total float64
	for symbol, w := range weights {
		if w < 0 {
			return nil, NewValidationError("negative weight for %s", symbol)
		}
		total += w
	}
	if math.Abs(total-1.0) > weightTolerance {
		return nil, NewValidationError("weights sum to %.4f, expected 1.0", total)
	}

	portfolio := &dto.PortfolioRisk{
		ConstituentRisks: make(map[string]dto.RiskAssessment, len(weights)),
		AnalysisDate:     utils.TruncateToDate(utils.TimeNowWIB()),
	}

	var varianceSum, scoreSum float64
	for symbol, w := range weights {
		assessment, err := s.AssessSymbol(ctx, symbol)
		if err != nil {
			return nil, fmt.Errorf("failed to assess %s: %w", symbol, err)
		}
		portfolio.ConstituentRisks[symbol] = *assessment
		varianceSum += w * w * assessment.Volatility30d * assessment.Volatility30d
		scoreSum += w * assessment.RiskScore
	}

	portfolio.PortfolioVolatility = round4(math.Sqrt(varianceSum))
	portfolio.PortfolioRiskScore = round2(scoreSum)
	portfolio.PortfolioRiskLevel = riskLevel(portfolio.PortfolioRiskScore)

	return portfolio, nil
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
