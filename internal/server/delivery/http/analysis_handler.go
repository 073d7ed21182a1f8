package http

import (
	"net/http"

	"github.com/Subakiz/ai-investment-manager/internal/server/service"
	"github.com/Subakiz/ai-investment-manager/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AnalysisHandler exposes the manual pipeline trigger.
type AnalysisHandler struct {
	schedulerService service.SchedulerService
	logger           *logger.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(schedulerService service.SchedulerService, logger *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{schedulerService: schedulerService, logger: logger}
}

// RegisterRoutes registers the analysis routes to the Echo group.
func (h *AnalysisHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/trigger", h.TriggerPipeline)
}

type triggerRequest struct {
	Symbols []string `json:"symbols"`
}

// TriggerPipeline enqueues an ad-hoc analysis run. Empty symbols means the
// full LQ45 universe.
func (h *AnalysisHandler) TriggerPipeline(c echo.Context) error {
	var req triggerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	if err := h.schedulerService.TriggerPipeline(c.Request().Context(), req.Symbols, "api:manual"); err != nil {
		h.logger.Error("Failed to trigger pipeline", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusAccepted, echo.Map{"status": "queued", "symbols": req.Symbols})
}
