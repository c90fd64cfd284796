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

// paymentMethodHandler handles HTTP requests related to payment methods.
type paymentMethodHandler struct {
	paymentMethodService portssvc.PaymentMethodSvcFacade
}

// newPaymentMethodHandler creates a new paymentMethodHandler.
func newPaymentMethodHandler(pms portssvc.PaymentMethodSvcFacade) *paymentMethodHandler {
	return &paymentMethodHandler{paymentMethodService: pms}
}

// registerPaymentMethodRoutes registers routes related to payment methods.
func registerPaymentMethodRoutes(rg *gin.RouterGroup, paymentMethodService portssvc.PaymentMethodSvcFacade) {
	h := newPaymentMethodHandler(paymentMethodService)

	methods := rg.Group("/payment-methods")
	{
		methods.GET("", h.listPaymentMethods)
		methods.POST("", h.createPaymentMethod)
		methods.PUT("/:paymentMethodID", h.updatePaymentMethod)
		methods.DELETE("/:paymentMethodID", h.deletePaymentMethod)
	}
}

// listPaymentMethods godoc
// @Summary List payment methods
// @Tags payment-methods
// @Produce json
// @Success 200 {object} dto.ListPaymentMethodsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /payment-methods [get]
func (h *paymentMethodHandler) listPaymentMethods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	methods, err := h.paymentMethodService.ListPaymentMethods(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to list payment methods", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list payment methods"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListPaymentMethodsResponse(methods))
}

// createPaymentMethod godoc
// @Summary Create a payment method
// @Tags payment-methods
// @Accept json
// @Produce json
// @Param paymentMethod body dto.CreatePaymentMethodRequest true "Payment method details"
// @Success 201 {object} dto.PaymentMethodResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Name already in use"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /payment-methods [post]
func (h *paymentMethodHandler) createPaymentMethod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	method, err := h.paymentMethodService.CreatePaymentMethod(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		if errors.Is(err, apperrors.ErrConflict) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "A payment method with this name already exists"})
			return
		}
		logger.Error("Failed to create payment method", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create payment method"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToPaymentMethodResponse(method))
}

// updatePaymentMethod godoc
// @Summary Rename a payment method
// @Tags payment-methods
// @Accept json
// @Produce json
// @Param paymentMethodID path string true "Payment method ID"
// @Param paymentMethod body dto.UpdatePaymentMethodRequest true "New name"
// @Success 200 {object} dto.PaymentMethodResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Name already in use"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /payment-methods/{paymentMethodID} [put]
func (h *paymentMethodHandler) updatePaymentMethod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	paymentMethodID := c.Param("paymentMethodID")

	var req dto.UpdatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	method, err := h.paymentMethodService.UpdatePaymentMethod(c.Request.Context(), userID, paymentMethodID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Payment method not found"})
			return
		}
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		if errors.Is(err, apperrors.ErrConflict) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "A payment method with this name already exists"})
			return
		}
		logger.Error("Failed to update payment method", slog.String("error", err.Error()), slog.String("payment_method_id", paymentMethodID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update payment method"})
		return
	}

	c.JSON(http.StatusOK, dto.ToPaymentMethodResponse(method))
}

// deletePaymentMethod godoc
// @Summary Delete a payment method
// @Tags payment-methods
// @Produce json
// @Param paymentMethodID path string true "Payment method ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Payment method still referenced"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /payment-methods/{paymentMethodID} [delete]
func (h *paymentMethodHandler) deletePaymentMethod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	paymentMethodID := c.Param("paymentMethodID")

	if err := h.paymentMethodService.DeletePaymentMethod(c.Request.Context(), userID, paymentMethodID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Payment method not found"})
			return
		}
		if errors.Is(err, apperrors.ErrConflict) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Payment method is still referenced by transactions or templates"})
			return
		}
		logger.Error("Failed to delete payment method", slog.String("error", err.Error()), slog.String("payment_method_id", paymentMethodID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete payment method"})
		return
	}

	c.Status(http.StatusNoContent)
}
