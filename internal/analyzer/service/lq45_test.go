package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatIDXSymbol(t *testing.T) {
	assert.Equal(t, "BBCA.JK", FormatIDXSymbol("BBCA"))
	assert.Equal(t, "BBCA.JK", FormatIDXSymbol("BBCA.JK"))
}

func TestCleanIDXSymbol(t *testing.T) {
	assert.Equal(t, "BBCA", CleanIDXSymbol("BBCA.JK"))
	assert.Equal(t, "BBCA", CleanIDXSymbol("BBCA"))
}

func TestLQ45Stocks(t *testing.T) {
	stocks := LQ45Stocks()

	require.Len(t, stocks, 45)

	seen := make(map[string]bool, len(stocks))
	for _, s := range stocks {
		assert.True(t, s.IsLQ45)
		assert.Equal(t, "IDR", s.Currency)
		assert.NotEmpty(t, s.CompanyName, "symbol %s", s.Symbol)
		assert.NotContains(t, s.Symbol, ".JK", "stored symbols are bare tickers")
		assert.False(t, seen[s.Symbol], "duplicate symbol %s", s.Symbol)
		seen[s.Symbol] = true
	}

	assert.True(t, seen["BBCA"])
	assert.True(t, seen["TLKM"])
}
