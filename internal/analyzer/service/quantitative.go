package service

import (
	"context"
	"fmt"
	"math"

	"github.com/Subakiz/ai-investment-manager/internal/analyzer/config"
	"github.com/Subakiz/ai-investment-manager/internal/analyzer/dto"
	"github.com/Subakiz/ai-investment-manager/internal/analyzer/repository"
	"github.com/Subakiz/ai-investment-manager/internal/entity"
	"github.com/Subakiz/ai-investment-manager/pkg/logger"
	"github.com/Subakiz/ai-investment-manager/pkg/utils"

	"github.com/cinar/indicator"
)

const (
	rsiPeriod        = 14
	maShortPeriod    = 50
	maLongPeriod     = 200
	volumeWindow     = 20
	minIndicatorRows = 50

	// notionalShares is the fixed share-count proxy used to derive a
	// per-share book value. It is NOT real shares outstanding; see DESIGN.md.
	notionalShares = 1_000_000
)

// QuantitativeAnalyzerService derives valuation and technical scores from
// price history and fundamentals and persists the composite per (stock, date).
type QuantitativeAnalyzerService interface {
	CalculateTechnicalIndicators(prices []dto.PricePoint) dto.TechnicalIndicators
	CalculateValuation(currentPrice float64, fundamentals *dto.FundamentalSnapshot) dto.ValuationMetrics
	CalculateTechnicalScores(ind dto.TechnicalIndicators) dto.TechnicalScores
	CalculateComposite(val dto.ValuationMetrics, tech dto.TechnicalScores) dto.CompositeScores
	AnalyzeSymbol(ctx context.Context, symbol string) (*dto.QuantitativeAnalysis, error)
	Run(ctx context.Context, symbols []string) (*dto.RunSummary, error)
}

type quantitativeAnalyzerService struct {
	cfg        *config.Config
	log        *logger.Logger
	stocksRepo repository.StocksRepository
	priceRepo  repository.StockPriceRepository
	finRepo    repository.FinancialStatementRepository
	scoreRepo  repository.QuantitativeScoreRepository
}

// NewQuantitativeAnalyzerService creates a new quantitative analyzer.
func NewQuantitativeAnalyzerService(
	cfg *config.Config,
	log *logger.Logger,
	stocksRepo repository.StocksRepository,
	priceRepo repository.StockPriceRepository,
	finRepo repository.FinancialStatementRepository,
	scoreRepo repository.QuantitativeScoreRepository,
) QuantitativeAnalyzerService {
	return &quantitativeAnalyzerService{
		cfg:        cfg,
		log:        log,
		stocksRepo: stocksRepo,
		priceRepo:  priceRepo,
		finRepo:    finRepo,
		scoreRepo:  scoreRepo,
	}
}

// CalculateTechnicalIndicators derives RSI, moving averages and the volume
// trend from a date-ordered series. Fewer than 50 rows yields Valid=false,
// which callers treat as insufficient data rather than an error.
func (s *quantitativeAnalyzerService) CalculateTechnicalIndicators(prices []dto.PricePoint) dto.TechnicalIndicators {
	if len(prices) < minIndicatorRows {
		return dto.TechnicalIndicators{
			MASignal:    dto.MASignalNeutral,
			VolumeTrend: dto.VolumeTrendStable,
		}
	}

	closes := make([]float64, len(prices))
	volumes := make([]float64, len(prices))
	for i, p := range prices {
		closes[i] = p.Close
		volumes[i] = float64(p.Volume)
	}

	ind := dto.TechnicalIndicators{
		Valid:        true,
		RSI:          rollingRSI(closes),
		CurrentPrice: closes[len(closes)-1],
	}

	if len(closes) >= maShortPeriod {
		sma := indicator.Sma(maShortPeriod, closes)
		ind.MA50 = sma[len(sma)-1]
		ind.HasMA50 = true
	}
	if len(closes) >= maLongPeriod {
		sma := indicator.Sma(maLongPeriod, closes)
		ind.MA200 = sma[len(sma)-1]
		ind.HasMA200 = true
	}

	switch {
	case ind.HasMA50 && ind.HasMA200 && ind.MA50 > ind.MA200:
		ind.MASignal = dto.MASignalBullish
	case ind.HasMA50 && ind.HasMA200 && ind.MA50 < ind.MA200:
		ind.MASignal = dto.MASignalBearish
	default:
		ind.MASignal = dto.MASignalNeutral
	}

	ind.VolumeTrend = volumeTrend(volumes)

	return ind
}

// rollingRSI computes RSI over a fixed 14-period rolling mean of gains and
// losses. Series with fewer than 14 differenced rows fall back to the neutral
// 50 instead of failing.
func rollingRSI(closes []float64) float64 {
	if len(closes) < rsiPeriod+1 {
		return 50.0
	}

	diffs := make([]float64, 0, rsiPeriod)
	for i := len(closes) - rsiPeriod; i < len(closes); i++ {
		diffs = append(diffs, closes[i]-closes[i-1])
	}

	var gainSum, lossSum float64
	for _, d := range diffs {
		if d > 0 {
			gainSum += d
		} else {
			lossSum += -d
		}
	}
	avgGain := gainSum / rsiPeriod
	avgLoss := lossSum / rsiPeriod

	if avgLoss == 0 {
		if avgGain == 0 {
			return 50.0
		}
		return 100.0
	}

	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}

// volumeTrend compares the mean volume of the latest 20 periods against the
// 20 before them. Requires at least 40 rows, otherwise "stable".
func volumeTrend(volumes []float64) string {
	if len(volumes) < 2*volumeWindow {
		return dto.VolumeTrendStable
	}

	recent := mean(volumes[len(volumes)-volumeWindow:])
	previous := mean(volumes[len(volumes)-2*volumeWindow : len(volumes)-volumeWindow])

	switch {
	case recent > previous*1.1:
		return dto.VolumeTrendIncreasing
	case recent < previous*0.9:
		return dto.VolumeTrendDecreasing
	default:
		return dto.VolumeTrendStable
	}
}

// CalculateValuation maps P/E and P/B ratios to bucket scores. Missing or
// non-positive inputs get the neutral 50: absent data is neither rewarded nor
// penalized.
func (s *quantitativeAnalyzerService) CalculateValuation(currentPrice float64, fundamentals *dto.FundamentalSnapshot) dto.ValuationMetrics {
	val := dto.ValuationMetrics{
		PEScore: 50.0,
		PBScore: 50.0,
	}
	if fundamentals == nil || currentPrice <= 0 {
		return val
	}

	if fundamentals.EPS > 0 {
		val.PERatio = currentPrice / fundamentals.EPS
		val.PEScore = peBucketScore(val.PERatio)
	}

	if fundamentals.TotalEquity > 0 {
		// Per-share book value via the notional share-count proxy.
		bookValuePerShare := fundamentals.TotalEquity / notionalShares
		if bookValuePerShare > 0 {
			val.PBRatio = currentPrice / bookValuePerShare
			val.PBScore = pbBucketScore(val.PBRatio)
		}
	}

	return val
}

// peBucketScore: lower P/E scores higher, typical range 5-30.
func peBucketScore(pe float64) float64 {
	switch {
	case pe < 10:
		return 90.0
	case pe < 15:
		return 75.0
	case pe < 20:
		return 60.0
	case pe < 25:
		return 40.0
	default:
		return 20.0
	}
}

// pbBucketScore: lower P/B scores higher, typical range 0.5-3.
func pbBucketScore(pb float64) float64 {
	switch {
	case pb < 1:
		return 90.0
	case pb < 1.5:
		return 75.0
	case pb < 2:
		return 60.0
	case pb < 3:
		return 40.0
	default:
		return 20.0
	}
}

// CalculateTechnicalScores converts indicators to 0-100 sub-scores.
func (s *quantitativeAnalyzerService) CalculateTechnicalScores(ind dto.TechnicalIndicators) dto.TechnicalScores {
	scores := dto.TechnicalScores{}

	// RSI: 30-70 is the healthy range, the edges are moderate, extremes are
	// oversold/overbought.
	switch {
	case ind.RSI >= 30 && ind.RSI <= 70:
		scores.RSIScore = 80.0
	case (ind.RSI >= 20 && ind.RSI < 30) || (ind.RSI > 70 && ind.RSI <= 80):
		scores.RSIScore = 60.0
	default:
		scores.RSIScore = 30.0
	}

	switch ind.MASignal {
	case dto.MASignalBullish:
		scores.MAScore = 75.0
	case dto.MASignalBearish:
		scores.MAScore = 25.0
	default:
		scores.MAScore = 50.0
	}

	// Adjust by price position relative to both MAs when both exist.
	if ind.HasMA50 && ind.HasMA200 {
		if ind.CurrentPrice > ind.MA50 && ind.CurrentPrice > ind.MA200 {
			scores.MAScore = math.Min(scores.MAScore+15, 100)
		} else if ind.CurrentPrice < ind.MA50 && ind.CurrentPrice < ind.MA200 {
			scores.MAScore = math.Max(scores.MAScore-15, 0)
		}
	}

	switch ind.VolumeTrend {
	case dto.VolumeTrendIncreasing:
		scores.VolumeScore = 75.0
	case dto.VolumeTrendDecreasing:
		scores.VolumeScore = 40.0
	default:
		scores.VolumeScore = 60.0
	}

	return scores
}

// CalculateComposite blends valuation and technical sub-scores with the fixed
// 40/60 weights.
func (s *quantitativeAnalyzerService) CalculateComposite(val dto.ValuationMetrics, tech dto.TechnicalScores) dto.CompositeScores {
	valuationComposite := (val.PEScore + val.PBScore) / 2
	technicalComposite := (tech.RSIScore + tech.MAScore + tech.VolumeScore) / 3

	composite := valuationComposite*s.cfg.Analysis.ValuationWeight +
		technicalComposite*s.cfg.Analysis.TechnicalWeight

	return dto.CompositeScores{
		ValuationScore: round2(valuationComposite),
		TechnicalScore: round2(technicalComposite),
		CompositeScore: round2(composite),
	}
}

// AnalyzeSymbol runs the complete quantitative analysis for one stock and
// upserts the resulting score row.
func (s *quantitativeAnalyzerService) AnalyzeSymbol(ctx context.Context, symbol string) (*dto.QuantitativeAnalysis, error) {
	stock, err := s.stocksRepo.GetBySymbol(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to find stock %s: %w", symbol, err)
	}

	cutoff := utils.TimeNowWIB().AddDate(0, 0, -s.cfg.Analysis.HistoricalDays)
	prices, err := s.priceRepo.GetSeries(ctx, stock.ID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to load price series for %s: %w", symbol, err)
	}

	indicators := s.CalculateTechnicalIndicators(prices)
	if !indicators.Valid {
		return nil, fmt.Errorf("%w: %s has %d price rows, need %d", ErrInsufficientData, symbol, len(prices), minIndicatorRows)
	}

	var fundamentals *dto.FundamentalSnapshot
	statement, err := s.finRepo.GetLatest(ctx, stock.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load fundamentals for %s: %w", symbol, err)
	}
	if statement != nil {
		fundamentals = &dto.FundamentalSnapshot{
			Symbol:      symbol,
			PeriodEnd:   statement.PeriodEnd,
			Revenue:     statement.Revenue,
			NetIncome:   statement.NetIncome,
			TotalEquity: statement.TotalEquity,
			EPS:         statement.EPS,
		}
	} else {
		s.log.Warn("No financial data, valuation defaults to neutral", logger.StringField("symbol", symbol))
	}

	valuation := s.CalculateValuation(indicators.CurrentPrice, fundamentals)
	technical := s.CalculateTechnicalScores(indicators)
	composite := s.CalculateComposite(valuation, technical)

	analysis := &dto.QuantitativeAnalysis{
		Symbol:       symbol,
		AnalysisDate: utils.TruncateToDate(utils.TimeNowWIB()),
		Indicators:   indicators,
		Valuation:    valuation,
		Technical:    technical,
		Composite:    composite,
	}

	if err := s.scoreRepo.Upsert(ctx, toScoreEntity(stock.ID, analysis)); err != nil {
		return nil, fmt.Errorf("failed to save quantitative score for %s: %w", symbol, err)
	}

	s.log.Info("Completed quantitative analysis",
		logger.StringField("symbol", symbol),
		logger.Float64Field("composite_score", composite.CompositeScore),
	)
	return analysis, nil
}

// Run analyzes the given symbols sequentially, or all LQ45 when none are
// given, and reports partial-success counts instead of failing the batch.
func (s *quantitativeAnalyzerService) Run(ctx context.Context, symbols []string) (*dto.RunSummary, error) {
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
		if _, err := s.AnalyzeSymbol(ctx, symbol); err != nil {
			s.log.Error("Failed to analyze symbol", logger.StringField("symbol", symbol), logger.ErrorField(err))
			summary.Errors++
			continue
		}
		summary.Analyzed++
		summary.Saved++
	}

	s.log.Info("Quantitative analysis run completed",
		logger.IntField("analyzed", summary.Analyzed),
		logger.IntField("saved", summary.Saved),
		logger.IntField("errors", summary.Errors),
	)
	return summary, nil
}

func toScoreEntity(stockID uint, a *dto.QuantitativeAnalysis) *entity.QuantitativeScore {
	return &entity.QuantitativeScore{
		StockID:        stockID,
		AnalysisDate:   a.AnalysisDate,
		PERatio:        a.Valuation.PERatio,
		PBRatio:        a.Valuation.PBRatio,
		PEScore:        a.Valuation.PEScore,
		PBScore:        a.Valuation.PBScore,
		RSI:            a.Indicators.RSI,
		RSIScore:       a.Technical.RSIScore,
		MA50:           a.Indicators.MA50,
		MA200:          a.Indicators.MA200,
		MASignal:       a.Indicators.MASignal,
		MAScore:        a.Technical.MAScore,
		VolumeTrend:    a.Indicators.VolumeTrend,
		VolumeScore:    a.Technical.VolumeScore,
		ValuationScore: a.Composite.ValuationScore,
		TechnicalScore: a.Composite.TechnicalScore,
		CompositeScore: a.Composite.CompositeScore,
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
