package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Subakiz/ai-investment-manager/internal/analyzer/config"
	"github.com/Subakiz/ai-investment-manager/internal/analyzer/dto"
	"github.com/Subakiz/ai-investment-manager/pkg/logger"

	"golang.org/x/time/rate"
)

// yahooFinanceRepository fetches OHLCV series from the Yahoo Finance chart
// API. It is the market-data collaborator: short or empty series are returned
// as-is and interpreted downstream as insufficient data.
type yahooFinanceRepository struct {
	client  *http.Client
	cfg     *config.Config
	logger  *logger.Logger
	limiter *rate.Limiter
}

// NewYahooFinanceRepository creates a new Yahoo Finance market-data repository.
func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger) (MarketDataRepository, error) {
	if cfg.YahooFinance.MaxRequestPerMinute <= 0 {
		return nil, fmt.Errorf("yahoo_finance.max_request_per_minute must be positive")
	}
	secondsPerRequest := time.Minute / time.Duration(cfg.YahooFinance.MaxRequestPerMinute)

	return &yahooFinanceRepository{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		cfg:     cfg,
		logger:  log,
		limiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}, nil
}

// GetDailySeries returns the date-ordered daily OHLCV series for one symbol.
func (r *yahooFinanceRepository) GetDailySeries(ctx context.Context, param dto.GetStockDataParam) ([]dto.PricePoint, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	interval := param.Interval
	if interval == "" {
		interval = "1d"
	}
	rangeData := param.Range
	if rangeData == "" {
		rangeData = "1y"
	}

	apiURL := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		r.cfg.YahooFinance.BaseURL, param.Symbol, interval, rangeData)

	req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; ai-investment-manager)")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chart data for %s: %w", param.Symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("non-OK response from chart API for %s: %d - %s", param.Symbol, resp.StatusCode, string(body))
	}

	var chart dto.YahooChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, fmt.Errorf("failed to decode chart response: %w", err)
	}

	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error for %s: %s", param.Symbol, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		r.logger.Warn("Empty chart result", logger.StringField("symbol", param.Symbol))
		return nil, nil
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	points := make([]dto.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		// Rows with missing quotes (halted days) are dropped rather than
		// poisoning the series with zeros.
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		point := dto.PricePoint{
			Date:  time.Unix(ts, 0),
			Close: *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			point.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			point.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			point.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			point.Volume = *quote.Volume[i]
		}
		points = append(points, point)
	}

	r.logger.Debug("Fetched chart data",
		logger.StringField("symbol", param.Symbol),
		logger.IntField("points", len(points)),
	)
	return points, nil
}
