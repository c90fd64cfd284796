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

// recurringHandler handles HTTP requests for recurring expense templates.
type recurringHandler struct {
	recurringService portssvc.RecurringSvcFacade
}

// newRecurringHandler creates a new recurringHandler.
func newRecurringHandler(rs portssvc.RecurringSvcFacade) *recurringHandler {
	return &recurringHandler{recurringService: rs}
}

// registerRecurringRoutes registers routes related to recurring templates.
func registerRecurringRoutes(rg *gin.RouterGroup, recurringService portssvc.RecurringSvcFacade) {
	h := newRecurringHandler(recurringService)

	templates := rg.Group("/recurring-templates")
	{
		templates.GET("", h.listTemplates)
		templates.POST("", h.createTemplate)
		templates.PUT("/:templateID", h.updateTemplate)
		templates.DELETE("/:templateID", h.deleteTemplate)
	}
}

// listTemplates godoc
// @Summary List recurring templates
// @Description Returns all of the caller's recurring templates with resolved category and payment method names.
// @Tags recurring
// @Produce json
// @Success 200 {object} dto.ListRecurringTemplatesResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /recurring-templates [get]
func (h *recurringHandler) listTemplates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	res, err := h.recurringService.ListTemplates(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to list recurring templates", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list recurring templates"})
		return
	}

	c.JSON(http.StatusOK, res)
}

// createTemplate godoc
// @Summary Create a recurring template
// @Tags recurring
// @Accept json
// @Produce json
// @Param template body dto.CreateRecurringTemplateRequest true "Template details"
// @Success 201 {object} domain.RecurringTemplate
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /recurring-templates [post]
func (h *recurringHandler) createTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateRecurringTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	template, err := h.recurringService.CreateTemplate(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to create recurring template", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create recurring template"})
		return
	}

	c.JSON(http.StatusCreated, template)
}

// updateTemplate godoc
// @Summary Update a recurring template
// @Description Applies a partial update; deactivating a template stops future generation without touching history.
// @Tags recurring
// @Accept json
// @Produce json
// @Param templateID path string true "Template ID"
// @Param template body dto.UpdateRecurringTemplateRequest true "Fields to update"
// @Success 200 {object} domain.RecurringTemplate
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /recurring-templates/{templateID} [put]
func (h *recurringHandler) updateTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	templateID := c.Param("templateID")

	var req dto.UpdateRecurringTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	template, err := h.recurringService.UpdateTemplate(c.Request.Context(), userID, templateID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Recurring template not found"})
			return
		}
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to update recurring template", slog.String("error", err.Error()), slog.String("template_id", templateID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update recurring template"})
		return
	}

	c.JSON(http.StatusOK, template)
}

// deleteTemplate godoc
// @Summary Delete a recurring template
// @Description Removes the template; transactions it generated are kept.
// @Tags recurring
// @Produce json
// @Param templateID path string true "Template ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /recurring-templates/{templateID} [delete]
func (h *recurringHandler) deleteTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	templateID := c.Param("templateID")

	if err := h.recurringService.DeleteTemplate(c.Request.Context(), userID, templateID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Recurring template not found"})
			return
		}
		logger.Error("Failed to delete recurring template", slog.String("error", err.Error()), slog.String("template_id", templateID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete recurring template"})
		return
	}

	c.Status(http.StatusNoContent)
}
