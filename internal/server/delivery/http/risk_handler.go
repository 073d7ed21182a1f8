package http

import (
	"errors"
	"net/http"

	analyzersvc "github.com/Subakiz/ai-investment-manager/internal/analyzer/service"
	"github.com/Subakiz/ai-investment-manager/internal/server/dto"
	"github.com/Subakiz/ai-investment-manager/internal/server/service"
	"github.com/Subakiz/ai-investment-manager/pkg/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// RiskHandler handles HTTP requests for risk assessments.
type RiskHandler struct {
	riskService service.RiskService
	logger      *logger.Logger
}

// NewRiskHandler creates a new RiskHandler.
func NewRiskHandler(riskService service.RiskService, logger *logger.Logger) *RiskHandler {
	return &RiskHandler{riskService: riskService, logger: logger}
}

// RegisterRoutes registers the risk routes to the Echo group.
func (h *RiskHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/portfolio", h.GetPortfolioRisk)
	g.GET("/:symbol", h.GetSymbolRisk)
}

// GetSymbolRisk returns the volatility-based risk view for one symbol.
func (h *RiskHandler) GetSymbolRisk(c echo.Context) error {
	symbol := c.Param("symbol")

	assessment, err := h.riskService.GetSymbolRisk(c.Request().Context(), symbol)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "stock not found: " + symbol})
		}
		if errors.Is(err, analyzersvc.ErrInsufficientData) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Failed to assess risk", logger.StringField("symbol", symbol), logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, assessment)
}

// GetPortfolioRisk combines per-symbol assessments for the posted weights.
func (h *RiskHandler) GetPortfolioRisk(c echo.Context) error {
	var req dto.PortfolioRiskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	portfolio, err := h.riskService.GetPortfolioRisk(c.Request().Context(), req.Weights)
	if err != nil {
		var validationErr *analyzersvc.ValidationError
		if errors.As(err, &validationErr) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": validationErr.Error()})
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		if errors.Is(err, analyzersvc.ErrInsufficientData) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Failed to assess portfolio risk", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, portfolio)
}
