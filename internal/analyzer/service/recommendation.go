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

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Sentiment-scale labels for the combined score mapped back onto [-1, 1].
const (
	SentimentPositive           = "Positive"
	SentimentModeratelyPositive = "Moderately Positive"
	SentimentNeutral            = "Neutral"
	SentimentModeratelyNegative = "Moderately Negative"
	SentimentNegative           = "Negative"
)

// RecommendationService blends the quantitative composite with the
// qualitative sentiment score into the final BUY/HOLD/SELL record.
type RecommendationService interface {
	GenerateForSymbol(ctx context.Context, symbol string) (*entity.Recommendation, error)
	Run(ctx context.Context, symbols []string) (*dto.RunSummary, error)
}

type recommendationService struct {
	cfg         *config.Config
	log         *logger.Logger
	stocksRepo  repository.StocksRepository
	scoreRepo   repository.QuantitativeScoreRepository
	qualitative QualitativeAnalyzerService
	recRepo     repository.RecommendationRepository
}

// NewRecommendationService creates a new recommendation engine.
func NewRecommendationService(
	cfg *config.Config,
	log *logger.Logger,
	stocksRepo repository.StocksRepository,
	scoreRepo repository.QuantitativeScoreRepository,
	qualitative QualitativeAnalyzerService,
	recRepo repository.RecommendationRepository,
) RecommendationService {
	return &recommendationService{
		cfg:         cfg,
		log:         log,
		stocksRepo:  stocksRepo,
		scoreRepo:   scoreRepo,
		qualitative: qualitative,
		recRepo:     recRepo,
	}
}

// GenerateForSymbol combines the latest quantitative score with the sentiment
// rollup and upserts the day's recommendation.
func (s *recommendationService) GenerateForSymbol(ctx context.Context, symbol string) (*entity.Recommendation, error) {
	stock, err := s.stocksRepo.GetBySymbol(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to find stock %s: %w", symbol, err)
	}

	score, err := s.scoreRepo.GetLatest(ctx, stock.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quantitative score for %s: %w", symbol, err)
	}
	if score == nil {
		return nil, fmt.Errorf("%w: no quantitative score for %s", ErrInsufficientData, symbol)
	}

	sentiment, err := s.qualitative.AggregateSymbolSentiment(ctx, symbol, s.cfg.Analysis.SentimentWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sentiment for %s: %w", symbol, err)
	}

	combined := round2(score.CompositeScore*s.cfg.Analysis.QuantitativeWeight +
		sentiment.QualitativeScore*s.cfg.Analysis.QualitativeWeight)
	label := SentimentLabel(combined)

	rec := &entity.Recommendation{
		StockID:            stock.ID,
		RecommendationDate: utils.TruncateToDate(utils.TimeNowWIB()),
		QuantitativeScore:  score.CompositeScore,
		QualitativeScore:   sentiment.QualitativeScore,
		CombinedScore:      combined,
		Recommendation:     actionFor(label),
		ConfidenceLevel:    confidenceLevel(sentiment.ArticleCount, score.CompositeScore, sentiment.QualitativeScore),
		KeyThemes:          pq.StringArray(sentiment.Themes),
		TechnicalSignals: datatypes.JSONMap{
			"rsi":             score.RSI,
			"rsi_score":       score.RSIScore,
			"ma_signal":       score.MASignal,
			"ma_score":        score.MAScore,
			"volume_trend":    score.VolumeTrend,
			"volume_score":    score.VolumeScore,
			"sentiment_label": label,
		},
		RiskFactors: pq.StringArray(riskFactors(score, sentiment)),
	}

	if err := s.recRepo.Upsert(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save recommendation for %s: %w", symbol, err)
	}

	s.log.Info("Generated recommendation",
		logger.StringField("symbol", symbol),
		logger.StringField("action", rec.Recommendation),
		logger.Float64Field("combined_score", combined),
	)
	return rec, nil
}

// Run generates recommendations for the given symbols, or all LQ45 when none
// are given.
func (s *recommendationService) Run(ctx context.Context, symbols []string) (*dto.RunSummary, error) {
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
		if _, err := s.GenerateForSymbol(ctx, symbol); err != nil {
			s.log.Error("Failed to generate recommendation", logger.StringField("symbol", symbol), logger.ErrorField(err))
			summary.Errors++
			continue
		}
		summary.Analyzed++
		summary.Saved++
	}

	s.log.Info("Recommendation run completed",
		logger.IntField("saved", summary.Saved),
		logger.IntField("errors", summary.Errors),
	)
	return summary, nil
}

// SentimentLabel maps a 0-100 combined score onto the [-1, 1] sentiment scale
// and buckets it.
func SentimentLabel(combined float64) string {
	s := combined/50 - 1
	switch {
	case s > 0.3:
		return SentimentPositive
	case s > 0.1:
		return SentimentModeratelyPositive
	case s >= -0.1:
		return SentimentNeutral
	case s >= -0.3:
		return SentimentModeratelyNegative
	default:
		return SentimentNegative
	}
}

// actionFor keeps the action conservative: only the outer buckets trade.
func actionFor(label string) string {
	switch label {
	case SentimentPositive:
		return entity.RecommendationBuy
	case SentimentNegative:
		return entity.RecommendationSell
	default:
		return entity.RecommendationHold
	}
}

// confidenceLevel grades the evidence behind a recommendation: article
// coverage plus agreement between the quantitative and qualitative views.
func confidenceLevel(articleCount int, quantScore, qualScore float64) string {
	divergence := quantScore - qualScore
	if divergence < 0 {
		divergence = -divergence
	}
	switch {
	case articleCount >= 5 && divergence <= 20:
		return entity.ConfidenceHigh
	case articleCount >= 2 && divergence <= 35:
		return entity.ConfidenceMedium
	default:
		return entity.ConfidenceLow
	}
}

// riskFactors lists the warning signs visible in the inputs.
func riskFactors(score *entity.QuantitativeScore, sentiment *dto.SymbolSentiment) []string {
	factors := []string{}
	if score.RSI > 70 {
		factors = append(factors, "overbought (RSI above 70)")
	}
	if score.RSI < 30 {
		factors = append(factors, "oversold (RSI below 30)")
	}
	if score.MASignal == dto.MASignalBearish {
		factors = append(factors, "bearish moving-average crossover")
	}
	if score.VolumeTrend == dto.VolumeTrendDecreasing {
		factors = append(factors, "declining trading volume")
	}
	if sentiment.AvgSentiment < -0.3 {
		factors = append(factors, "negative news sentiment")
	}
	if sentiment.ArticleCount == 0 {
		factors = append(factors, "no recent news coverage")
	}
	return factors
}
