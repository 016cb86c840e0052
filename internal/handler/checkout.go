package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/osikani/kente-storefront-api/internal/checkout"
	"github.com/osikani/kente-storefront-api/internal/dto"
	"github.com/osikani/kente-storefront-api/internal/middleware"
	"github.com/osikani/kente-storefront-api/internal/payment"
)

type CheckoutHandler struct {
	orchestrator *checkout.Orchestrator
}

func NewCheckoutHandler(orchestrator *checkout.Orchestrator) *CheckoutHandler {
	return &CheckoutHandler{orchestrator: orchestrator}
}

// Checkout places an order for the direct payment methods, or opens a gateway
// session for Mobile Money. The response shape tells the client which path it
// is on: an order for the former, a checkout_id plus deadline for the latter.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	code, ok := activeCurrency(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported currency"})
		return
	}

	userID := middleware.GetUserID(c)
	addr := checkout.Address{
		FullName:   req.FullName,
		Email:      req.Email,
		Line1:      req.Line1,
		City:       req.City,
		Region:     req.Region,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	}

	if checkout.DirectMethod(req.PaymentMethod) {
		order, err := h.orchestrator.PlaceDirect(c.Request.Context(), userID, addr, req.PaymentMethod, code)
		if err != nil {
			h.checkoutError(c, err)
			return
		}
		c.JSON(http.StatusCreated, toOrderResponse(order))
		return
	}

	session, err := h.orchestrator.BeginGateway(c.Request.Context(), userID, addr, req.PaymentMethod, code)
	if err != nil {
		h.checkoutError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, dto.GatewaySessionResponse{
		CheckoutID: session.ID,
		Amount:     session.Total,
		Currency:   session.Currency,
		Deadline:   session.Deadline,
	})
}

func (h *CheckoutHandler) ConfirmGateway(c *gin.Context) {
	var req dto.GatewayConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orchestrator.ConfirmGateway(c.Request.Context(), middleware.GetUserID(c), req.CheckoutID, req.Reference)
	if err != nil {
		h.checkoutError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(order))
}

func (h *CheckoutHandler) CancelGateway(c *gin.Context) {
	var req struct {
		CheckoutID uuid.UUID `json:"checkout_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.orchestrator.CancelGateway(middleware.GetUserID(c), req.CheckoutID); err != nil {
		h.checkoutError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CheckoutHandler) checkoutError(c *gin.Context, err error) {
	var fieldErrs checkout.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		c.JSON(http.StatusBadRequest, gin.H{"error": fieldErrs.Error(), "fields": fieldErrs})
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
	case errors.Is(err, checkout.ErrUnknownPaymentMethod):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown payment method"})
	case errors.Is(err, checkout.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "checkout session not found"})
	case errors.Is(err, checkout.ErrSessionExpired):
		c.JSON(http.StatusGone, gin.H{"error": "checkout session expired"})
	case errors.Is(err, payment.ErrNotConfirmed), errors.Is(err, payment.ErrAmountMismatch):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "payment not confirmed"})
	case errors.Is(err, checkout.ErrOrderNotSaved):
		// Payment went through; do not invite a retry.
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
