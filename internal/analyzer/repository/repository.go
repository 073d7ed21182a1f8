package repository

import (
	"context"

	"github.com/Subakiz/ai-investment-manager/internal/analyzer/dto"
)

// AIRepository is the sentiment-inference collaborator. Implementations must
// return the structured result or an error; retries and the deterministic
// fallback belong to the caller.
type AIRepository interface {
	AnalyzeArticleSentiment(ctx context.Context, articleText, companyName, symbol string) (*dto.SentimentResult, error)
}

// MarketDataRepository supplies ordered OHLCV series from the external
// market-data collaborator.
type MarketDataRepository interface {
	GetDailySeries(ctx context.Context, param dto.GetStockDataParam) ([]dto.PricePoint, error)
}
