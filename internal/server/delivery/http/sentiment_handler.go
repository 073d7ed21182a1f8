package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Subakiz/ai-investment-manager/internal/server/service"
	"github.com/Subakiz/ai-investment-manager/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SentimentHandler handles HTTP requests for aggregated sentiment.
type SentimentHandler struct {
	sentimentService service.SentimentService
	logger           *logger.Logger
}

// NewSentimentHandler creates a new SentimentHandler.
func NewSentimentHandler(sentimentService service.SentimentService, logger *logger.Logger) *SentimentHandler {
	return &SentimentHandler{sentimentService: sentimentService, logger: logger}
}

// RegisterRoutes registers the sentiment routes to the Echo group.
func (h *SentimentHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/themes/trending", h.GetTrendingThemes)
	g.GET("/:symbol", h.GetSymbolSentiment)
}

// GetSymbolSentiment returns the sentiment rollup for one symbol over the
// window_hours query parameter (default: the configured window).
func (h *SentimentHandler) GetSymbolSentiment(c echo.Context) error {
	symbol := c.Param("symbol")

	windowHours := 0
	if raw := c.QueryParam("window_hours"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid window_hours"})
		}
		windowHours = parsed
	}

	sentiment, err := h.sentimentService.GetSymbolSentiment(c.Request().Context(), symbol, windowHours)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Failed to get symbol sentiment", logger.StringField("symbol", symbol), logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, sentiment)
}

// GetTrendingThemes returns the most mentioned themes in the window.
func (h *SentimentHandler) GetTrendingThemes(c echo.Context) error {
	windowHours := 0
	if raw := c.QueryParam("window_hours"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid window_hours"})
		}
		windowHours = parsed
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid limit"})
		}
		limit = parsed
	}

	themes, err := h.sentimentService.GetTrendingThemes(c.Request().Context(), windowHours, limit)
	if err != nil {
		h.logger.Error("Failed to get trending themes", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, themes)
}
