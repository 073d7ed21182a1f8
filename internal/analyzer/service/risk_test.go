package service

import (
	"context"
	"testing"

	"github.com/Subakiz/ai-investment-manager/internal/analyzer/config"
	"github.com/Subakiz/ai-investment-manager/internal/analyzer/dto"
	"github.com/Subakiz/ai-investment-manager/internal/entity"
	"github.com/Subakiz/ai-investment-manager/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVolatilityRiskScore(t *testing.T) {
	tests := []struct {
		name       string
		volatility float64
		want       float64
	}{
		{"low volatility", 0.10, 15},
		{"low boundary", 0.20, 30},
		{"mid range", 0.30, 50},
		{"mid boundary", 0.40, 70},
		{"high range", 0.60, 85},
		{"capped at 100", 1.50, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, volatilityRiskScore(tt.volatility), 0.001)
		})
	}
}

func TestRiskLevel(t *testing.T) {
	assert.Equal(t, dto.RiskLevelLow, riskLevel(30))
	assert.Equal(t, dto.RiskLevelMedium, riskLevel(30.01))
	assert.Equal(t, dto.RiskLevelMedium, riskLevel(70))
	assert.Equal(t, dto.RiskLevelHigh, riskLevel(70.01))
}

func TestSimpleReturns(t *testing.T) {
	returns := simpleReturns([]float64{100, 110, 99})

	require.Len(t, returns, 2)
	assert.InDelta(t, 0.1, returns[0], 0.001)
	assert.InDelta(t, -0.1, returns[1], 0.001)
}

func TestSimpleReturnsSkipsZeroDenominator(t *testing.T) {
	returns := simpleReturns([]float64{100, 0, 50})

	require.Len(t, returns, 1)
	assert.InDelta(t, -1.0, returns[0], 0.001)
}

func TestMaxDrawdown(t *testing.T) {
	// Peak 120, trough 90: drawdown -25%.
	closes := []float64{100, 120, 90, 110}
	assert.InDelta(t, -0.25, maxDrawdown(closes), 0.001)

	assert.Zero(t, maxDrawdown([]float64{100, 110, 120}), "monotonic rise has no drawdown")
	assert.Zero(t, maxDrawdown(nil))
}

func TestAssessClosesInsufficientData(t *testing.T) {
	_, err := assessCloses([]float64{100, 101})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestAssessCloses(t *testing.T) {
	closes := []float64{100, 102, 101, 104, 103, 106, 105, 108, 107, 110}

	assessment, err := assessCloses(closes)

	require.NoError(t, err)
	assert.Equal(t, 9, assessment.DataPoints)
	assert.Greater(t, assessment.Volatility30d, 0.0)
	assert.Greater(t, assessment.AnnualizedReturn, 0.0)
	assert.Negative(t, assessment.MaxDrawdown)
	assert.Negative(t, assessment.VaR95)
	assert.Nil(t, assessment.Beta)
	assert.Contains(t, []string{dto.RiskLevelLow, dto.RiskLevelMedium, dto.RiskLevelHigh}, assessment.RiskLevel)
}

func TestAssessSymbolCapsSeriesToRiskWindow(t *testing.T) {
	log, err := logger.New("error", "json")
	require.NoError(t, err)
	cfg := &config.Config{}
	cfg.Analysis.ApplyDefaults()

	svc := &riskAnalyzerService{
		cfg:        cfg,
		log:        log,
		stocksRepo: &fakeStocksRepository{stocks: []entity.Stock{{ID: 1, Symbol: "BBCA"}}},
		priceRepo:  &fakeStockPriceRepository{series: makePrices(rampUp(80, 100, 1), 1000)},
	}

	assessment, err := svc.AssessSymbol(context.Background(), "BBCA")

	require.NoError(t, err)
	// 80 stored rows, 30-day window: only the newest 30 closes count, so
	// 29 returns feed the volatility figure.
	assert.Equal(t, cfg.Analysis.RiskWindowDays-1, assessment.DataPoints)
}

func TestAssessPortfolioWeightValidation(t *testing.T) {
	svc := &riskAnalyzerService{}

	tests := []struct {
		name    string
		weights map[string]float64
	}{
		{"empty weights", nil},
		{"negative weight", map[string]float64{"BBCA": 1.5, "TLKM": -0.5}},
		{"sum below one", map[string]float64{"BBCA": 0.5, "TLKM": 0.45}},
		{"sum above one", map[string]float64{"BBCA": 0.6, "TLKM": 0.45}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AssessPortfolio(context.Background(), tt.weights)

			require.Error(t, err)
			var vErr *ValidationError
			assert.ErrorAs(t, err, &vErr)
		})
	}
}
