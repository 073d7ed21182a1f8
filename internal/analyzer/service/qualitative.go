package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Subakiz/ai-investment-manager/internal/analyzer/config"
	"github.com/Subakiz/ai-investment-manager/internal/analyzer/dto"
	"github.com/Subakiz/ai-investment-manager/internal/analyzer/repository"
	"github.com/Subakiz/ai-investment-manager/internal/entity"
	"github.com/Subakiz/ai-investment-manager/pkg/logger"
	"github.com/Subakiz/ai-investment-manager/pkg/utils"
)

const (
	maxSummaryLen   = 100
	topThemesPerRun = 5
)

// QualitativeAnalyzerService turns unprocessed news articles into normalized
// sentiment records and aggregates them per symbol over a lookback window.
type QualitativeAnalyzerService interface {
	AnalyzeArticle(ctx context.Context, articleText, companyName, symbol string) *dto.SentimentResult
	Run(ctx context.Context) (*dto.SentimentRunSummary, error)
	AggregateSymbolSentiment(ctx context.Context, symbol string, window time.Duration) (*dto.SymbolSentiment, error)
	TrendingThemes(ctx context.Context, window time.Duration, limit int) ([]dto.ThemeStat, error)
}

type qualitativeAnalyzerService struct {
	cfg           *config.Config
	log           *logger.Logger
	aiRepo        repository.AIRepository
	articleRepo   repository.NewsArticleRepository
	sentimentRepo repository.SentimentRepository
	stocksRepo    repository.StocksRepository
}

// NewQualitativeAnalyzerService creates a new sentiment analyzer.
func NewQualitativeAnalyzerService(
	cfg *config.Config,
	log *logger.Logger,
	aiRepo repository.AIRepository,
	articleRepo repository.NewsArticleRepository,
	sentimentRepo repository.SentimentRepository,
	stocksRepo repository.StocksRepository,
) QualitativeAnalyzerService {
	return &qualitativeAnalyzerService{
		cfg:           cfg,
		log:           log,
		aiRepo:        aiRepo,
		articleRepo:   articleRepo,
		sentimentRepo: sentimentRepo,
		stocksRepo:    stocksRepo,
	}
}

// AnalyzeArticle calls the AI collaborator with retry and normalizes the
// result. It never returns an error: once the retry budget is exhausted it
// returns the deterministic fallback record so the pipeline keeps moving.
func (s *qualitativeAnalyzerService) AnalyzeArticle(ctx context.Context, articleText, companyName, symbol string) *dto.SentimentResult {
	var lastErr error
	for attempt := 1; attempt <= s.cfg.Analysis.SentimentMaxRetry; attempt++ {
		result, err := s.aiRepo.AnalyzeArticleSentiment(ctx, articleText, companyName, symbol)
		if err == nil {
			return normalizeSentiment(result)
		}
		lastErr = err
		s.log.Warn("Sentiment analysis attempt failed",
			logger.StringField("symbol", symbol),
			logger.IntField("attempt", attempt),
			logger.ErrorField(err),
		)
		if attempt < s.cfg.Analysis.SentimentMaxRetry {
			if !sleepCtx(ctx, time.Duration(attempt)*s.cfg.Analysis.SentimentRateDelay) {
				break
			}
		}
	}

	s.log.Error("Sentiment analysis exhausted retries, using fallback",
		logger.StringField("symbol", symbol),
		logger.ErrorField(lastErr),
	)
	return fallbackSentiment()
}

// fallbackSentiment is the fixed neutral-leaning record written when the AI
// response could not be obtained or parsed.
func fallbackSentiment() *dto.SentimentResult {
	return &dto.SentimentResult{
		SentimentScore: 0.0,
		Confidence:     0.3,
		Themes:         []string{"analysis_failed"},
		Summary:        "Failed to parse AI response",
		Relevance:      0.5,
	}
}

// normalizeSentiment clamps every numeric field to its documented range and
// truncates the summary. Out-of-range values are silently corrected, never
// rejected.
func normalizeSentiment(r *dto.SentimentResult) *dto.SentimentResult {
	r.SentimentScore = clamp(r.SentimentScore, -1, 1)
	r.Confidence = clamp(r.Confidence, 0, 1)
	r.Relevance = clamp(r.Relevance, 0, 1)
	r.Summary = utils.TruncateRunes(r.Summary, maxSummaryLen)
	if r.Themes == nil {
		r.Themes = []string{}
	}
	return r
}

// Run processes the backlog of unprocessed articles: one AI call per article,
// one sentiment row per article, and a processed stamp regardless of whether
// the call succeeded or fell back.
func (s *qualitativeAnalyzerService) Run(ctx context.Context) (*dto.SentimentRunSummary, error) {
	since := utils.TimeNowWIB().Add(-s.cfg.NewsIngest.MaxArticleAge)
	articles, err := s.articleRepo.FindUnprocessed(ctx, since, s.cfg.Analysis.ArticleBatchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load unprocessed articles: %w", err)
	}

	summary := &dto.SentimentRunSummary{TotalArticles: len(articles)}
	themeCounts := make(map[string]int)

	for _, article := range articles {
		if !utils.ShouldContinue(ctx, s.log) {
			break
		}

		companyName, symbol := s.primaryMention(ctx, article)
		text := article.Title
		if article.Content != "" {
			text += "\n\n" + article.Content
		}

		result := s.AnalyzeArticle(ctx, text, companyName, symbol)
		summary.Processed++

		record := &entity.SentimentAnalysis{
			NewsArticleID:    article.ID,
			SentimentScore:   result.SentimentScore,
			Confidence:       result.Confidence,
			Themes:           result.Themes,
			Summary:          result.Summary,
			Relevance:        result.Relevance,
			ModelUsed:        result.ModelUsed,
			ProcessingTimeMs: result.ProcessingTimeMs,
		}
		if err := s.sentimentRepo.Create(ctx, record); err != nil {
			s.log.Error("Failed to save sentiment record",
				logger.IntField("article_id", int(article.ID)),
				logger.ErrorField(err),
			)
			summary.Errors++
			continue
		}
		summary.Saved++

		if err := s.articleRepo.MarkProcessed(ctx, article.ID, utils.TimeNowWIB()); err != nil {
			s.log.Error("Failed to mark article processed",
				logger.IntField("article_id", int(article.ID)),
				logger.ErrorField(err),
			)
		}

		for _, theme := range result.Themes {
			themeCounts[normalizeTheme(theme)]++
		}

		// Keep the request rate gentle between articles.
		if !sleepCtx(ctx, s.cfg.Analysis.SentimentRateDelay) {
			break
		}
	}

	summary.TopThemes = topThemes(themeCounts, topThemesPerRun)

	s.log.Info("Sentiment run completed",
		logger.IntField("total", summary.TotalArticles),
		logger.IntField("processed", summary.Processed),
		logger.IntField("saved", summary.Saved),
		logger.IntField("errors", summary.Errors),
	)
	return summary, nil
}

// primaryMention resolves the first mentioned stock of an article for prompt
// context. Articles without mentions get a market-wide framing.
func (s *qualitativeAnalyzerService) primaryMention(ctx context.Context, article entity.NewsArticle) (companyName, symbol string) {
	if len(article.StockMentions) == 0 {
		return "Indonesian stock market", "IDX"
	}
	stock, err := s.stocksRepo.GetByID(ctx, article.StockMentions[0].StockID)
	if err != nil {
		s.log.Warn("Failed to resolve mentioned stock",
			logger.IntField("stock_id", int(article.StockMentions[0].StockID)),
			logger.ErrorField(err),
		)
		return "Indonesian stock market", "IDX"
	}
	return stock.CompanyName, stock.Symbol
}

// AggregateSymbolSentiment rolls up the sentiment rows of one symbol over the
// lookback window. Zero articles yields the neutral rollup, not an error.
func (s *qualitativeAnalyzerService) AggregateSymbolSentiment(ctx context.Context, symbol string, window time.Duration) (*dto.SymbolSentiment, error) {
	from := utils.TimeNowWIB().Add(-window)
	rows, err := s.sentimentRepo.FindRowsForSymbol(ctx, symbol, from)
	if err != nil {
		return nil, fmt.Errorf("failed to load sentiment rows for %s: %w", symbol, err)
	}
	agg := AggregateSymbolRows(symbol, rows)
	return &agg, nil
}

// AggregateSymbolRows computes the confidence-weighted average sentiment, the
// unweighted average confidence, the counted themes and the 0-100 qualitative
// score for one symbol's rows.
func AggregateSymbolRows(symbol string, rows []dto.ArticleSentimentRow) dto.SymbolSentiment {
	agg := dto.SymbolSentiment{
		Symbol:           symbol,
		ArticleCount:     len(rows),
		Themes:           []string{},
		QualitativeScore: 50.0,
	}
	if len(rows) == 0 {
		return agg
	}
	agg.CompanyName = rows[0].CompanyName

	var weighted, weightSum, plain, confSum float64
	themeCounts := make(map[string]int)
	for _, row := range rows {
		weighted += row.SentimentScore * row.Confidence
		weightSum += row.Confidence
		plain += row.SentimentScore
		confSum += row.Confidence
		for _, theme := range row.Themes {
			themeCounts[normalizeTheme(theme)]++
		}
	}

	if weightSum > 0 {
		agg.AvgSentiment = weighted / weightSum
	} else {
		agg.AvgSentiment = plain / float64(len(rows))
	}
	agg.AvgConfidence = confSum / float64(len(rows))
	agg.Themes = topThemes(themeCounts, topThemesPerRun)
	agg.QualitativeScore = round2((agg.AvgSentiment + 1) * 50)

	return agg
}

// TrendingThemes returns the themes mentioned by at least two articles in the
// window, ordered by frequency.
func (s *qualitativeAnalyzerService) TrendingThemes(ctx context.Context, window time.Duration, limit int) ([]dto.ThemeStat, error) {
	from := utils.TimeNowWIB().Add(-window)
	rows, err := s.sentimentRepo.FindRowsInWindow(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("failed to load sentiment rows: %w", err)
	}
	return TrendingThemeStats(rows, limit), nil
}

// TrendingThemeStats counts themes across rows, keeping those mentioned at
// least twice, ordered by frequency.
func TrendingThemeStats(rows []dto.ArticleSentimentRow, limit int) []dto.ThemeStat {
	counts := make(map[string]int)
	sums := make(map[string]float64)
	for _, row := range rows {
		for _, theme := range row.Themes {
			key := normalizeTheme(theme)
			if key == "" {
				continue
			}
			counts[key]++
			sums[key] += row.SentimentScore
		}
	}

	stats := make([]dto.ThemeStat, 0, len(counts))
	for theme, count := range counts {
		if count < 2 {
			continue
		}
		stats = append(stats, dto.ThemeStat{
			Theme:        theme,
			Count:        count,
			AvgSentiment: round2(sums[theme] / float64(count)),
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Theme < stats[j].Theme
	})
	if limit > 0 && len(stats) > limit {
		stats = stats[:limit]
	}
	return stats
}

func normalizeTheme(theme string) string {
	return strings.ToLower(strings.TrimSpace(theme))
}

func topThemes(counts map[string]int, limit int) []string {
	type kv struct {
		theme string
		count int
	}
	pairs := make([]kv, 0, len(counts))
	for theme, count := range counts {
		if theme == "" {
			continue
		}
		pairs = append(pairs, kv{theme, count})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].theme < pairs[j].theme
	})
	if len(pairs) > limit {
		pairs = pairs[:limit]
	}
	themes := make([]string, len(pairs))
	for i, p := range pairs {
		themes[i] = p.theme
	}
	return themes
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// sleepCtx sleeps for d unless the context ends first. Returns false when the
// caller should stop.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
