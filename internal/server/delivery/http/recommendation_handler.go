package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Subakiz/ai-investment-manager/internal/server/service"
	"github.com/Subakiz/ai-investment-manager/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RecommendationHandler handles HTTP requests for recommendations.
type RecommendationHandler struct {
	recommendationService service.RecommendationService
	logger                *logger.Logger
}

// NewRecommendationHandler creates a new RecommendationHandler.
func NewRecommendationHandler(recommendationService service.RecommendationService, logger *logger.Logger) *RecommendationHandler {
	return &RecommendationHandler{recommendationService: recommendationService, logger: logger}
}

// RegisterRoutes registers the recommendation routes to the Echo group.
func (h *RecommendationHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetRanked)
	g.GET("/:symbol", h.GetLatest)
}

// RegisterMarketRoutes registers the market-level routes.
func (h *RecommendationHandler) RegisterMarketRoutes(g *echo.Group) {
	g.GET("/overview", h.GetMarketOverview)
}

// GetRanked returns the latest recommendation per stock, ordered by combined
// score. The optional limit query parameter caps the list.
func (h *RecommendationHandler) GetRanked(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid limit"})
		}
		limit = parsed
	}

	responses, err := h.recommendationService.GetRanked(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("Failed to get ranked recommendations", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, responses)
}

// GetLatest returns the newest recommendation for one symbol.
func (h *RecommendationHandler) GetLatest(c echo.Context) error {
	symbol := c.Param("symbol")

	response, err := h.recommendationService.GetLatest(c.Request().Context(), symbol)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Failed to get recommendation", logger.StringField("symbol", symbol), logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, response)
}

// GetMarketOverview returns the market-wide summary of the latest run.
func (h *RecommendationHandler) GetMarketOverview(c echo.Context) error {
	overview, err := h.recommendationService.GetMarketOverview(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to get market overview", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, overview)
}
