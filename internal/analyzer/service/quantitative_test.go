package service

import (
	"context"
	"testing"
	"time"

	"github.com/Subakiz/ai-investment-manager/internal/analyzer/config"
	"github.com/Subakiz/ai-investment-manager/internal/analyzer/dto"
	"github.com/Subakiz/ai-investment-manager/internal/entity"
	"github.com/Subakiz/ai-investment-manager/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQuantitativeService(t *testing.T) *quantitativeAnalyzerService {
	t.Helper()
	log, err := logger.New("error", "json")
	require.NoError(t, err)
	cfg := &config.Config{}
	cfg.Analysis.ApplyDefaults()
	return &quantitativeAnalyzerService{cfg: cfg, log: log}
}

func makePrices(closes []float64, volume int64) []dto.PricePoint {
	prices := make([]dto.PricePoint, len(closes))
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		prices[i] = dto.PricePoint{
			Date:   base.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: volume,
		}
	}
	return prices
}

func TestRollingRSI(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		want   float64
	}{
		{
			name:   "too few closes falls back to neutral",
			closes: []float64{100, 101, 102},
			want:   50.0,
		},
		{
			name:   "all gains is fully overbought",
			closes: rampUp(20, 100, 10),
			want:   100.0,
		},
		{
			name:   "flat series is neutral",
			closes: flatSeries(20, 100),
			want:   50.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, rollingRSI(tt.closes), 0.001)
		})
	}
}

func TestRollingRSIBalancedSeries(t *testing.T) {
	// Alternating +10/-5 moves: avg gain twice the avg loss, RS=2, RSI=66.67.
	closes := []float64{100}
	for i := 0; i < 14; i++ {
		last := closes[len(closes)-1]
		if i%2 == 0 {
			closes = append(closes, last+10)
		} else {
			closes = append(closes, last-5)
		}
	}
	assert.InDelta(t, 66.67, rollingRSI(closes), 0.01)
}

func TestVolumeTrend(t *testing.T) {
	increasing := make([]float64, 40)
	decreasing := make([]float64, 40)
	stable := make([]float64, 40)
	for i := range increasing {
		stable[i] = 1000
		if i < 20 {
			increasing[i] = 1000
			decreasing[i] = 2000
		} else {
			increasing[i] = 2000
			decreasing[i] = 1000
		}
	}

	assert.Equal(t, dto.VolumeTrendIncreasing, volumeTrend(increasing))
	assert.Equal(t, dto.VolumeTrendDecreasing, volumeTrend(decreasing))
	assert.Equal(t, dto.VolumeTrendStable, volumeTrend(stable))
	assert.Equal(t, dto.VolumeTrendStable, volumeTrend(stable[:30]), "short series defaults to stable")
}

func TestCalculateTechnicalIndicatorsShortSeries(t *testing.T) {
	svc := newTestQuantitativeService(t)

	ind := svc.CalculateTechnicalIndicators(makePrices(flatSeries(49, 100), 1000))

	assert.False(t, ind.Valid)
	assert.Equal(t, dto.MASignalNeutral, ind.MASignal)
	assert.Equal(t, dto.VolumeTrendStable, ind.VolumeTrend)
}

func TestCalculateTechnicalIndicators(t *testing.T) {
	svc := newTestQuantitativeService(t)

	// 250 rows trending up: MA50 above MA200, RSI pegged high.
	ind := svc.CalculateTechnicalIndicators(makePrices(rampUp(250, 1000, 10), 1000))

	assert.True(t, ind.Valid)
	assert.True(t, ind.HasMA50)
	assert.True(t, ind.HasMA200)
	assert.Greater(t, ind.MA50, ind.MA200)
	assert.Equal(t, dto.MASignalBullish, ind.MASignal)
	assert.InDelta(t, 100.0, ind.RSI, 0.001)
	assert.InDelta(t, 3490, ind.CurrentPrice, 0.001)
}

func TestCalculateTechnicalIndicatorsNoLongMA(t *testing.T) {
	svc := newTestQuantitativeService(t)

	// 100 rows: enough for MA50 but not MA200, signal stays neutral.
	ind := svc.CalculateTechnicalIndicators(makePrices(flatSeries(100, 500), 1000))

	assert.True(t, ind.Valid)
	assert.True(t, ind.HasMA50)
	assert.False(t, ind.HasMA200)
	assert.Equal(t, dto.MASignalNeutral, ind.MASignal)
}

func TestPEBucketScore(t *testing.T) {
	tests := []struct {
		pe   float64
		want float64
	}{
		{8, 90},
		{12, 75},
		{17, 60},
		{22, 40},
		{30, 20},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, peBucketScore(tt.pe), "pe=%v", tt.pe)
	}
}

func TestPBBucketScore(t *testing.T) {
	tests := []struct {
		pb   float64
		want float64
	}{
		{0.8, 90},
		{1.2, 75},
		{1.7, 60},
		{2.5, 40},
		{4, 20},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, pbBucketScore(tt.pb), "pb=%v", tt.pb)
	}
}

func TestCalculateValuation(t *testing.T) {
	svc := newTestQuantitativeService(t)

	t.Run("missing fundamentals defaults to neutral", func(t *testing.T) {
		val := svc.CalculateValuation(8500, nil)
		assert.Equal(t, 50.0, val.PEScore)
		assert.Equal(t, 50.0, val.PBScore)
		assert.Zero(t, val.PERatio)
		assert.Zero(t, val.PBRatio)
	})

	t.Run("ratios derived from price and fundamentals", func(t *testing.T) {
		val := svc.CalculateValuation(8500, &dto.FundamentalSnapshot{
			EPS:         500,
			TotalEquity: 5_000_000_000,
		})
		assert.InDelta(t, 17.0, val.PERatio, 0.001)
		assert.Equal(t, 60.0, val.PEScore)
		// Book value per share = 5e9 / 1e6 notional shares = 5000.
		assert.InDelta(t, 1.7, val.PBRatio, 0.001)
		assert.Equal(t, 60.0, val.PBScore)
	})

	t.Run("negative EPS keeps neutral PE score", func(t *testing.T) {
		val := svc.CalculateValuation(8500, &dto.FundamentalSnapshot{EPS: -200})
		assert.Equal(t, 50.0, val.PEScore)
		assert.Zero(t, val.PERatio)
	})
}

func TestCalculateTechnicalScores(t *testing.T) {
	svc := newTestQuantitativeService(t)

	tests := []struct {
		name string
		ind  dto.TechnicalIndicators
		want dto.TechnicalScores
	}{
		{
			name: "healthy RSI with bullish MAs and rising volume",
			ind: dto.TechnicalIndicators{
				RSI: 55, MASignal: dto.MASignalBullish,
				HasMA50: true, HasMA200: true,
				CurrentPrice: 110, MA50: 100, MA200: 90,
				VolumeTrend: dto.VolumeTrendIncreasing,
			},
			want: dto.TechnicalScores{RSIScore: 80, MAScore: 90, VolumeScore: 75},
		},
		{
			name: "overbought RSI edge",
			ind: dto.TechnicalIndicators{
				RSI: 75, MASignal: dto.MASignalNeutral,
				VolumeTrend: dto.VolumeTrendStable,
			},
			want: dto.TechnicalScores{RSIScore: 60, MAScore: 50, VolumeScore: 60},
		},
		{
			name: "extreme RSI with bearish MAs below both averages",
			ind: dto.TechnicalIndicators{
				RSI: 15, MASignal: dto.MASignalBearish,
				HasMA50: true, HasMA200: true,
				CurrentPrice: 80, MA50: 100, MA200: 110,
				VolumeTrend: dto.VolumeTrendDecreasing,
			},
			want: dto.TechnicalScores{RSIScore: 30, MAScore: 10, VolumeScore: 40},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.CalculateTechnicalScores(tt.ind))
		})
	}
}

func TestCalculateComposite(t *testing.T) {
	svc := newTestQuantitativeService(t)

	got := svc.CalculateComposite(
		dto.ValuationMetrics{PEScore: 60, PBScore: 60},
		dto.TechnicalScores{RSIScore: 80, MAScore: 90, VolumeScore: 75},
	)

	assert.InDelta(t, 60.0, got.ValuationScore, 0.001)
	assert.InDelta(t, 81.67, got.TechnicalScore, 0.001)
	// 60*0.4 + 81.666*0.6 = 73.0
	assert.InDelta(t, 73.0, got.CompositeScore, 0.001)
}

func TestAnalyzeSymbol(t *testing.T) {
	svc := newTestQuantitativeService(t)
	svc.stocksRepo = &fakeStocksRepository{stocks: []entity.Stock{
		{ID: 7, Symbol: "BBCA", CompanyName: "Bank Central Asia"},
	}}
	svc.priceRepo = &fakeStockPriceRepository{series: makePrices(rampUp(250, 1000, 10), 1000)}
	svc.finRepo = &fakeFinancialStatementRepository{latest: &entity.FinancialStatement{
		EPS:         500,
		TotalEquity: 2_000_000_000,
	}}
	scoreRepo := &fakeQuantitativeScoreRepository{}
	svc.scoreRepo = scoreRepo

	analysis, err := svc.AnalyzeSymbol(context.Background(), "BBCA")

	require.NoError(t, err)
	assert.Equal(t, "BBCA", analysis.Symbol)
	// Price 3490, EPS 500: P/E 6.98. Book value per share 2000: P/B 1.745.
	assert.InDelta(t, 6.98, analysis.Valuation.PERatio, 0.001)
	assert.Equal(t, 90.0, analysis.Valuation.PEScore)
	assert.Equal(t, 60.0, analysis.Valuation.PBScore)
	// RSI 100 (30), bullish above both MAs (90), stable volume (60).
	assert.Equal(t, 75.0, analysis.Composite.ValuationScore)
	assert.Equal(t, 60.0, analysis.Composite.TechnicalScore)
	assert.Equal(t, 66.0, analysis.Composite.CompositeScore)

	require.NotNil(t, scoreRepo.saved)
	assert.Equal(t, uint(7), scoreRepo.saved.StockID)
	assert.Equal(t, 66.0, scoreRepo.saved.CompositeScore)
}

func TestAnalyzeSymbolInsufficientPrices(t *testing.T) {
	svc := newTestQuantitativeService(t)
	svc.stocksRepo = &fakeStocksRepository{stocks: []entity.Stock{{ID: 1, Symbol: "TLKM"}}}
	svc.priceRepo = &fakeStockPriceRepository{series: makePrices(flatSeries(30, 100), 1000)}
	scoreRepo := &fakeQuantitativeScoreRepository{}
	svc.scoreRepo = scoreRepo

	_, err := svc.AnalyzeSymbol(context.Background(), "TLKM")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientData)
	assert.Nil(t, scoreRepo.saved, "nothing is persisted on insufficient data")
}

func rampUp(n int, start, step float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = start + float64(i)*step
	}
	return s
}

func flatSeries(n int, value float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = value
	}
	return s
}
