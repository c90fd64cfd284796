package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spendmeter/spendmeter_backend/internal/apperrors"
	portssvc "github.com/spendmeter/spendmeter_backend/internal/core/ports/services"
	"github.com/spendmeter/spendmeter_backend/internal/dto"
	"github.com/spendmeter/spendmeter_backend/internal/middleware"
)

// monthHandler handles HTTP requests for budgeting months: the active month,
// rollovers, limits, and recurring materialization.
type monthHandler struct {
	periodService    portssvc.PeriodSvcFacade
	recurringService portssvc.RecurringSvcFacade
}

// newMonthHandler creates a new monthHandler.
func newMonthHandler(ps portssvc.PeriodSvcFacade, rs portssvc.RecurringSvcFacade) *monthHandler {
	return &monthHandler{
		periodService:    ps,
		recurringService: rs,
	}
}

// RegisterMonthRoutes registers routes related to months.
func RegisterMonthRoutes(rg *gin.RouterGroup, periodService portssvc.PeriodSvcFacade, recurringService portssvc.RecurringSvcFacade) {
	h := newMonthHandler(periodService, recurringService)

	months := rg.Group("/months")
	{
		months.GET("", h.listMonths)
		months.GET("/active", h.getActiveMonth)
		months.GET("/rollover-check", h.rolloverCheck)
		months.POST("/rollover", h.rollover)
		months.PUT("/active/limit", h.updateActiveLimit)
		months.POST("/active/recurring/ensure", h.ensureRecurringApplied)
	}
}

// getActiveMonth godoc
// @Summary Get the active month
// @Description Returns the caller's active budgeting month, creating one for the current calendar month on first access.
// @Tags months
// @Produce json
// @Success 200 {object} dto.MonthResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /months/active [get]
func (h *monthHandler) getActiveMonth(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	month, err := h.periodService.GetActiveMonth(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to get active month", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get active month"})
		return
	}

	c.JSON(http.StatusOK, dto.ToMonthResponse(month))
}

// rolloverCheck godoc
// @Summary Check whether a rollover is due
// @Description Compares the active month's label with the current calendar month. Read-only.
// @Tags months
// @Produce json
// @Success 200 {object} dto.RolloverCheckResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /months/rollover-check [get]
func (h *monthHandler) rolloverCheck(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	check, err := h.periodService.IsRolloverNeeded(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to check rollover", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to check rollover"})
		return
	}

	c.JSON(http.StatusOK, dto.RolloverCheckResponse{
		Needed:             check.Needed,
		SuggestedLabel:     check.SuggestedLabel,
		CurrentActiveLabel: check.CurrentActiveLabel,
	})
}

// rollover godoc
// @Summary Roll over to a new month
// @Description Closes the active month and opens a new one. Label and limit default to the calendar month and the closing month's limit.
// @Tags months
// @Accept json
// @Produce json
// @Param rollover body dto.RolloverRequest false "Overrides for the new month"
// @Success 201 {object} dto.RolloverResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "A concurrent rollover already opened a month"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /months/rollover [post]
func (h *monthHandler) rollover(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.RolloverRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
			return
		}
	}

	result, err := h.periodService.Rollover(c.Request.Context(), userID, req.Label, req.SpendingLimit)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Another rollover already opened a new month"})
			return
		}
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to roll over month", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to roll over month"})
		return
	}

	c.JSON(http.StatusCreated, dto.RolloverResponse{
		ClosedMonthID: result.ClosedMonthID,
		NewMonth:      dto.ToMonthResponse(&result.NewMonth),
	})
}

// updateActiveLimit godoc
// @Summary Set the active month's spending limit
// @Tags months
// @Accept json
// @Produce json
// @Param limit body dto.UpdateLimitRequest true "New spending limit"
// @Success 200 {object} dto.UpdateLimitResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "No active month"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /months/active/limit [put]
func (h *monthHandler) updateActiveLimit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	month, err := h.periodService.SetActiveMonthLimit(c.Request.Context(), userID, req.SpendingLimit)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "No active month found"})
			return
		}
		logger.Error("Failed to update spending limit", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update spending limit"})
		return
	}

	c.JSON(http.StatusOK, dto.UpdateLimitResponse{
		MonthID:       month.MonthID,
		SpendingLimit: month.SpendingLimit,
	})
}

// listMonths godoc
// @Summary List months
// @Description Returns the caller's months, newest first.
// @Tags months
// @Produce json
// @Param limit query int false "Maximum months to return" default(24)
// @Success 200 {object} dto.ListMonthsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /months [get]
func (h *monthHandler) listMonths(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params dto.ListMonthsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	months, err := h.periodService.ListMonths(c.Request.Context(), userID, params.Limit)
	if err != nil {
		logger.Error("Failed to list months", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list months"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListMonthsResponse(months))
}

// ensureRecurringApplied godoc
// @Summary Materialize due recurring expenses
// @Description Ensures every due recurring template has posted its instance into the active month. Idempotent.
// @Tags months
// @Produce json
// @Success 200 {object} dto.EnsureAppliedResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /months/active/recurring/ensure [post]
func (h *monthHandler) ensureRecurringApplied(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	// Resolve the active month first: materialization only ever targets it.
	month, err := h.periodService.GetActiveMonth(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to resolve active month for materialization", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to resolve active month"})
		return
	}

	result, err := h.recurringService.EnsureApplied(c.Request.Context(), userID, month.MonthID)
	if err != nil {
		logger.Error("Failed to materialize recurring expenses", slog.String("error", err.Error()), slog.String("month_id", month.MonthID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to apply recurring expenses"})
		return
	}

	c.JSON(http.StatusOK, dto.EnsureAppliedResponse{
		CreatedCount:          result.CreatedCount,
		CreatedTransactionIDs: result.CreatedTransactionIDs,
	})
}
