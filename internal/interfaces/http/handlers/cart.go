// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/artiflora-storefront/internal/domain/cart"
	"github.com/your-org/artiflora-storefront/internal/infrastructure/api"
	"github.com/your-org/artiflora-storefront/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService *cart.Service
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	cartResponse, err := h.cartService.GetCart(c.Request.Context(), middleware.SessionIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    cartResponse,
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req cart.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	cartResponse, err := h.cartService.AddToCart(c.Request.Context(), middleware.SessionIDFromContext(c), &req)
	if err != nil {
		if api.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
			return
		}
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			remoteError(c, err, "Failed to add item to cart")
			return
		}
		cartError(c, err, "Failed to add item to cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    cartResponse,
	})
}

// UpdateCartItem handles PUT /cart/items/:productId. Quantities below 1
// leave the row unchanged.
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	var req cart.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	cartResponse, err := h.cartService.UpdateCartItem(c.Request.Context(), middleware.SessionIDFromContext(c), c.Param("productId"), &req)
	if err != nil {
		cartError(c, err, "Failed to update cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    cartResponse,
	})
}

// RemoveFromCart handles DELETE /cart/items/:productId
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	cartResponse, err := h.cartService.RemoveFromCart(c.Request.Context(), middleware.SessionIDFromContext(c), c.Param("productId"))
	if err != nil {
		cartError(c, err, "Failed to update cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    cartResponse,
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.cartService.ClearCart(c.Request.Context(), middleware.SessionIDFromContext(c)); err != nil {
		cartError(c, err, "Failed to clear cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}

// cartError writes a failed cart mutation. An unreadable cart answers 503 so
// the browser retries instead of starting over.
func cartError(c *gin.Context, err error, message string) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, cart.ErrQuantityTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
	case errors.Is(err, cart.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   message,
			"details": "Your cart could not be loaded. Please try again.",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": message,
		})
	}
}
