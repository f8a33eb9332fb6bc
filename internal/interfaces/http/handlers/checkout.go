// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/artiflora-storefront/internal/domain/cart"
	"github.com/your-org/artiflora-storefront/internal/domain/checkout"
	"github.com/your-org/artiflora-storefront/internal/domain/order"
	"github.com/your-org/artiflora-storefront/internal/domain/payment"
	"github.com/your-org/artiflora-storefront/internal/interfaces/http/middleware"
)

// CheckoutHandler handles the /order checkout page
type CheckoutHandler struct {
	checkouts   *checkout.Registry
	cartService *cart.Service
	logger      *logrus.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkouts *checkout.Registry, cartService *cart.Service, logger *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkouts:   checkouts,
		cartService: cartService,
		logger:      logger,
	}
}

// GetCheckout handles GET /order. A completed checkout is shown once and
// then reset.
func (h *CheckoutHandler) GetCheckout(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)
	orchestrator := h.checkouts.Get(sessionID)
	view := orchestrator.View()

	if view.State == checkout.StateCompleted {
		orchestrator.Reset()
		c.JSON(http.StatusOK, gin.H{
			"message": view.Success,
			"data":    gin.H{"checkout": view},
		})
		return
	}

	basket, err := h.cartService.GetCart(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve cart",
		})
		return
	}

	if len(basket.Items) == 0 && view.State == checkout.StateIdle {
		c.JSON(http.StatusOK, gin.H{
			"message": checkout.MessageEmptyCart,
			"data": gin.H{
				"empty":    true,
				"checkout": view,
			},
		})
		return
	}

	user := identitySession(c).Current()
	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout retrieved successfully",
		"data": gin.H{
			"empty":    false,
			"cart":     basket,
			"checkout": view,
			"user":     user,
		},
	})
}

// Submit handles POST /order. The response carries the options the browser
// opens the payment widget with.
func (h *CheckoutHandler) Submit(c *gin.Context) {
	var shipping order.Shipping
	if err := c.ShouldBindJSON(&shipping); err != nil {
		invalidRequest(c, err)
		return
	}

	sessionID := middleware.SessionIDFromContext(c)
	basket, err := h.cartService.Open(c.Request.Context(), sessionID)
	if err != nil {
		cartError(c, err, "Failed to retrieve cart")
		return
	}

	orchestrator := h.checkouts.Get(sessionID)
	widget, err := orchestrator.Submit(c.Request.Context(), identitySession(c), basket, shipping)
	if err != nil {
		h.submitFailure(c, err, orchestrator.View())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment widget ready",
		"data": gin.H{
			"widget":   widget,
			"checkout": orchestrator.View(),
		},
	})
}

// CompletePayment handles POST /order/payment, the success callback of the
// payment widget
func (h *CheckoutHandler) CompletePayment(c *gin.Context) {
	var proof payment.Proof
	if err := c.ShouldBindJSON(&proof); err != nil {
		invalidRequest(c, err)
		return
	}

	sessionID := middleware.SessionIDFromContext(c)
	basket, err := h.cartService.Open(c.Request.Context(), sessionID)
	if err != nil {
		cartError(c, err, "Failed to retrieve cart")
		return
	}

	orchestrator := h.checkouts.Get(sessionID)
	view, err := orchestrator.CompletePayment(c.Request.Context(), basket, proof)
	if err != nil {
		_ = c.Error(err)
		status := http.StatusBadGateway
		message := orchestrator.View().Error
		switch {
		case errors.Is(err, checkout.ErrNoPendingPayment):
			status = http.StatusConflict
			message = err.Error()
		case errors.Is(err, checkout.ErrPaymentVerificationFailed):
			status = http.StatusPaymentRequired
		}
		c.JSON(status, gin.H{
			"error": message,
			"data":  gin.H{"checkout": orchestrator.View()},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": view.Success,
		"data":    gin.H{"checkout": view},
	})
}

// Dismiss handles POST /order/dismiss, sent when the widget is closed
// without paying
func (h *CheckoutHandler) Dismiss(c *gin.Context) {
	orchestrator := h.checkouts.Get(middleware.SessionIDFromContext(c))
	abandoned := orchestrator.Abandon()

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout dismissed",
		"data": gin.H{
			"abandoned": abandoned,
			"checkout":  orchestrator.View(),
		},
	})
}

func (h *CheckoutHandler) submitFailure(c *gin.Context, err error, view checkout.View) {
	_ = c.Error(err)

	var authErr *checkout.AuthRequiredError
	if errors.As(err, &authErr) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":    "Authentication required",
			"redirect": middleware.LoginRedirect(authErr.ReturnPath),
		})
		return
	}

	status := http.StatusBadGateway
	switch {
	case errors.Is(err, checkout.ErrCheckoutInProgress):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Checkout already in progress",
			"data":  gin.H{"checkout": view},
		})
		return
	case errors.Is(err, checkout.ErrSessionInvalid):
		status = http.StatusUnauthorized
	case errors.Is(err, checkout.ErrEmptyCart), errors.Is(err, checkout.ErrInvalidShipping):
		status = http.StatusBadRequest
	case errors.Is(err, checkout.ErrGatewayUnavailable):
		status = http.StatusServiceUnavailable
	}

	if status >= http.StatusInternalServerError {
		h.logger.WithError(err).WithField("session_id", middleware.SessionIDFromContext(c)).Warn("Checkout could not start")
	}

	c.JSON(status, gin.H{
		"error": view.Error,
		"data":  gin.H{"checkout": view},
	})
}
