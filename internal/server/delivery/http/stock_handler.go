package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Subakiz/ai-investment-manager/internal/server/dto"
	"github.com/Subakiz/ai-investment-manager/internal/server/service"
	"github.com/Subakiz/ai-investment-manager/pkg/logger"

	"github.com/labstack/echo/v4"
)

const defaultHistoryDays = 90

// StockHandler handles HTTP requests for the stock universe.
type StockHandler struct {
	stockService service.StockService
	logger       *logger.Logger
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockService service.StockService, logger *logger.Logger) *StockHandler {
	return &StockHandler{stockService: stockService, logger: logger}
}

// RegisterRoutes registers the stock routes to the Echo group.
func (h *StockHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListStocks)
	g.GET("/:symbol/prices", h.GetPriceHistory)
	g.GET("/:symbol/score", h.GetLatestScore)
	g.PUT("/:symbol/financials", h.SaveFinancialStatement)
}

// ListStocks returns the LQ45 universe.
func (h *StockHandler) ListStocks(c echo.Context) error {
	stocks, err := h.stockService.ListStocks(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to list stocks", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, stocks)
}

// GetPriceHistory returns the stored daily series for one symbol.
func (h *StockHandler) GetPriceHistory(c echo.Context) error {
	symbol := c.Param("symbol")

	days := defaultHistoryDays
	if raw := c.QueryParam("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid days"})
		}
		days = parsed
	}

	history, err := h.stockService.GetPriceHistory(c.Request().Context(), symbol, days)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Failed to get price history", logger.StringField("symbol", symbol), logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, history)
}

// GetLatestScore returns the newest quantitative score for one symbol.
func (h *StockHandler) GetLatestScore(c echo.Context) error {
	symbol := c.Param("symbol")

	score, err := h.stockService.GetLatestScore(c.Request().Context(), symbol)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Failed to get quantitative score", logger.StringField("symbol", symbol), logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, score)
}

// SaveFinancialStatement loads one fundamentals snapshot for a symbol.
func (h *StockHandler) SaveFinancialStatement(c echo.Context) error {
	symbol := c.Param("symbol")

	var req dto.FinancialStatementRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	if req.StatementType == "" || req.PeriodEnd.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "statement_type and period_end are required"})
	}

	if err := h.stockService.SaveFinancialStatement(c.Request().Context(), symbol, &req); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Failed to save financial statement", logger.StringField("symbol", symbol), logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "saved"})
}
