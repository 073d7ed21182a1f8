package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/Subakiz/ai-investment-manager/internal/analyzer/config"
	"github.com/Subakiz/ai-investment-manager/internal/analyzer/dto"
	"github.com/Subakiz/ai-investment-manager/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAIRepository struct {
	calls   int
	failFor int
	result  *dto.SentimentResult
}

func (f *fakeAIRepository) AnalyzeArticleSentiment(ctx context.Context, articleText, companyName, symbol string) (*dto.SentimentResult, error) {
	f.calls++
	if f.calls <= f.failFor {
		return nil, errors.New("model unavailable")
	}
	return f.result, nil
}

func newTestQualitativeService(t *testing.T, aiRepo *fakeAIRepository) *qualitativeAnalyzerService {
	t.Helper()
	log, err := logger.New("error", "json")
	require.NoError(t, err)
	cfg := &config.Config{}
	cfg.Analysis.ApplyDefaults()
	cfg.Analysis.SentimentRateDelay = 0
	return &qualitativeAnalyzerService{cfg: cfg, log: log, aiRepo: aiRepo}
}

func TestNormalizeSentiment(t *testing.T) {
	r := normalizeSentiment(&dto.SentimentResult{
		SentimentScore: 1.8,
		Confidence:     -0.2,
		Relevance:      2.5,
		Summary:        strings.Repeat("a", 150),
	})

	assert.Equal(t, 1.0, r.SentimentScore)
	assert.Equal(t, 0.0, r.Confidence)
	assert.Equal(t, 1.0, r.Relevance)
	assert.Len(t, r.Summary, 100)
	assert.NotNil(t, r.Themes)
}

func TestNormalizeSentimentTruncatesOnRuneBoundary(t *testing.T) {
	// A multi-byte rune straddling the limit must not be split: the stored
	// summary has to stay valid UTF-8 for the database column.
	r := normalizeSentiment(&dto.SentimentResult{
		Summary: strings.Repeat("a", 99) + "é dan seterusnya",
	})

	assert.True(t, utf8.ValidString(r.Summary))
	assert.Equal(t, 100, utf8.RuneCountInString(r.Summary))
	assert.Equal(t, strings.Repeat("a", 99)+"é", r.Summary)
}

func TestAnalyzeArticleRetriesThenSucceeds(t *testing.T) {
	aiRepo := &fakeAIRepository{
		failFor: 2,
		result:  &dto.SentimentResult{SentimentScore: 0.6, Confidence: 0.8, Relevance: 0.9},
	}
	svc := newTestQualitativeService(t, aiRepo)

	result := svc.AnalyzeArticle(context.Background(), "text", "Bank Central Asia", "BBCA")

	assert.Equal(t, 3, aiRepo.calls)
	assert.False(t, result.IsFallback())
	assert.Equal(t, 0.6, result.SentimentScore)
}

func TestAnalyzeArticleFallbackAfterExhaustedRetries(t *testing.T) {
	aiRepo := &fakeAIRepository{failFor: 10}
	svc := newTestQualitativeService(t, aiRepo)

	result := svc.AnalyzeArticle(context.Background(), "text", "Bank Central Asia", "BBCA")

	assert.Equal(t, 3, aiRepo.calls, "stops at the retry budget")
	assert.True(t, result.IsFallback())
	assert.Equal(t, 0.0, result.SentimentScore)
	assert.Equal(t, 0.3, result.Confidence)
	assert.Equal(t, 0.5, result.Relevance)
	assert.Equal(t, "Failed to parse AI response", result.Summary)
}

func TestAggregateSymbolRowsEmpty(t *testing.T) {
	agg := AggregateSymbolRows("BBCA", nil)

	assert.Equal(t, "BBCA", agg.Symbol)
	assert.Zero(t, agg.ArticleCount)
	assert.Zero(t, agg.AvgSentiment)
	assert.Equal(t, 50.0, agg.QualitativeScore)
	assert.Empty(t, agg.Themes)
}

func TestAggregateSymbolRowsConfidenceWeighted(t *testing.T) {
	rows := []dto.ArticleSentimentRow{
		{CompanyName: "Bank Central Asia", SentimentScore: 1.0, Confidence: 0.9, Themes: []string{"Earnings", "dividend"}},
		{CompanyName: "Bank Central Asia", SentimentScore: -1.0, Confidence: 0.1, Themes: []string{"earnings"}},
	}

	agg := AggregateSymbolRows("BBCA", rows)

	assert.Equal(t, 2, agg.ArticleCount)
	assert.Equal(t, "Bank Central Asia", agg.CompanyName)
	// (1.0*0.9 + -1.0*0.1) / 1.0 = 0.8
	assert.InDelta(t, 0.8, agg.AvgSentiment, 0.001)
	assert.InDelta(t, 0.5, agg.AvgConfidence, 0.001)
	// (0.8 + 1) * 50 = 90
	assert.InDelta(t, 90.0, agg.QualitativeScore, 0.001)
	assert.Equal(t, []string{"earnings", "dividend"}, agg.Themes)
}

func TestAggregateSymbolRowsZeroConfidenceFallsBackToUnweighted(t *testing.T) {
	rows := []dto.ArticleSentimentRow{
		{SentimentScore: 0.4, Confidence: 0},
		{SentimentScore: 0.8, Confidence: 0},
	}

	agg := AggregateSymbolRows("TLKM", rows)

	assert.InDelta(t, 0.6, agg.AvgSentiment, 0.001)
	assert.InDelta(t, 80.0, agg.QualitativeScore, 0.001)
}

func TestTrendingThemeStats(t *testing.T) {
	rows := []dto.ArticleSentimentRow{
		{SentimentScore: 0.5, Themes: []string{"Earnings", "ipo"}},
		{SentimentScore: -0.5, Themes: []string{"earnings "}},
		{SentimentScore: 0.2, Themes: []string{"dividend"}},
		{SentimentScore: 0.4, Themes: []string{"dividend", "earnings"}},
	}

	stats := TrendingThemeStats(rows, 10)

	// "ipo" appears once and is excluded.
	require.Len(t, stats, 2)
	assert.Equal(t, "earnings", stats[0].Theme)
	assert.Equal(t, 3, stats[0].Count)
	assert.InDelta(t, 0.13, stats[0].AvgSentiment, 0.001)
	assert.Equal(t, "dividend", stats[1].Theme)
	assert.Equal(t, 2, stats[1].Count)
	assert.InDelta(t, 0.3, stats[1].AvgSentiment, 0.001)
}

func TestTrendingThemeStatsLimit(t *testing.T) {
	rows := []dto.ArticleSentimentRow{
		{Themes: []string{"a", "b", "c"}},
		{Themes: []string{"a", "b", "c"}},
	}

	stats := TrendingThemeStats(rows, 2)

	require.Len(t, stats, 2)
	assert.Equal(t, "a", stats[0].Theme)
	assert.Equal(t, "b", stats[1].Theme)
}
