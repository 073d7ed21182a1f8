package service

import (
	"testing"

	"github.com/Subakiz/ai-investment-manager/internal/analyzer/dto"
	"github.com/Subakiz/ai-investment-manager/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestSentimentLabel(t *testing.T) {
	tests := []struct {
		combined float64
		want     string
	}{
		{80, SentimentPositive},
		{66, SentimentPositive},
		{65, SentimentModeratelyPositive},
		{56, SentimentModeratelyPositive},
		{55, SentimentNeutral},
		{50, SentimentNeutral},
		{45, SentimentNeutral},
		{44, SentimentModeratelyNegative},
		{35, SentimentModeratelyNegative},
		{34, SentimentNegative},
		{10, SentimentNegative},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SentimentLabel(tt.combined), "combined=%v", tt.combined)
	}
}

func TestActionFor(t *testing.T) {
	assert.Equal(t, entity.RecommendationBuy, actionFor(SentimentPositive))
	assert.Equal(t, entity.RecommendationSell, actionFor(SentimentNegative))
	assert.Equal(t, entity.RecommendationHold, actionFor(SentimentModeratelyPositive))
	assert.Equal(t, entity.RecommendationHold, actionFor(SentimentNeutral))
	assert.Equal(t, entity.RecommendationHold, actionFor(SentimentModeratelyNegative))
}

func TestConfidenceLevel(t *testing.T) {
	tests := []struct {
		name         string
		articleCount int
		quant        float64
		qual         float64
		want         string
	}{
		{"good coverage with agreement", 5, 70, 60, entity.ConfidenceHigh},
		{"good coverage but diverging views", 5, 80, 40, entity.ConfidenceLow},
		{"thin coverage with agreement", 2, 60, 50, entity.ConfidenceMedium},
		{"thin coverage at divergence edge", 2, 85, 50, entity.ConfidenceMedium},
		{"no coverage", 0, 60, 60, entity.ConfidenceLow},
		{"single article", 1, 60, 60, entity.ConfidenceLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, confidenceLevel(tt.articleCount, tt.quant, tt.qual))
		})
	}
}

func TestRiskFactors(t *testing.T) {
	score := &entity.QuantitativeScore{
		RSI:         75,
		MASignal:    dto.MASignalBearish,
		VolumeTrend: dto.VolumeTrendDecreasing,
	}
	sentiment := &dto.SymbolSentiment{AvgSentiment: -0.5, ArticleCount: 0}

	factors := riskFactors(score, sentiment)

	assert.Contains(t, factors, "overbought (RSI above 70)")
	assert.Contains(t, factors, "bearish moving-average crossover")
	assert.Contains(t, factors, "declining trading volume")
	assert.Contains(t, factors, "negative news sentiment")
	assert.Contains(t, factors, "no recent news coverage")
	assert.NotContains(t, factors, "oversold (RSI below 30)")
}

func TestRiskFactorsCleanInputs(t *testing.T) {
	score := &entity.QuantitativeScore{
		RSI:         55,
		MASignal:    dto.MASignalBullish,
		VolumeTrend: dto.VolumeTrendIncreasing,
	}
	sentiment := &dto.SymbolSentiment{AvgSentiment: 0.4, ArticleCount: 6}

	assert.Empty(t, riskFactors(score, sentiment))
}
