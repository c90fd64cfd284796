package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spendmeter/spendmeter_backend/internal/apperrors"
	portssvc "github.com/spendmeter/spendmeter_backend/internal/core/ports/services"
	"github.com/spendmeter/spendmeter_backend/internal/middleware"
)

// insightHandler handles HTTP requests for month spending insights.
type insightHandler struct {
	insightService portssvc.InsightSvcFacade
}

// newInsightHandler creates a new insightHandler.
func newInsightHandler(is portssvc.InsightSvcFacade) *insightHandler {
	return &insightHandler{insightService: is}
}

// registerInsightRoutes registers routes related to insights.
func registerInsightRoutes(rg *gin.RouterGroup, insightService portssvc.InsightSvcFacade) {
	h := newInsightHandler(insightService)
	rg.GET("/months/:monthID/insights", h.getMonthInsights)
}

// getMonthInsights godoc
// @Summary Get a month's spending insights
// @Description Returns totals and per-category / per-merchant breakdowns over the month's non-deleted transactions.
// @Tags insights
// @Produce json
// @Param monthID path string true "Month ID"
// @Success 200 {object} dto.MonthInsightsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Month not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /months/{monthID}/insights [get]
func (h *insightHandler) getMonthInsights(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	monthID := c.Param("monthID")

	res, err := h.insightService.GetMonthInsights(c.Request.Context(), userID, monthID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Month not found"})
			return
		}
		logger.Error("Failed to compute month insights", slog.String("error", err.Error()), slog.String("month_id", monthID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to compute insights"})
		return
	}

	c.JSON(http.StatusOK, res)
}
