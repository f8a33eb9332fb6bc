// internal/interfaces/http/handlers/order.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/artiflora-storefront/internal/domain/order"
	"github.com/your-org/artiflora-storefront/internal/infrastructure/api"
	"github.com/your-org/artiflora-storefront/internal/pkg/pdf"
)

// OrderHandler handles the shopper's order pages
type OrderHandler struct {
	orderService *order.Service
	pdfService   *pdf.Service
	logger       *logrus.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *order.Service, pdfService *pdf.Service, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		pdfService:   pdfService,
		logger:       logger,
	}
}

// GetOrderHistory handles GET /disp
func (h *OrderHandler) GetOrderHistory(c *gin.Context) {
	token, ok := bearerToken(c)
	if !ok {
		return
	}

	summaries, err := h.orderService.History(c.Request.Context(), token)
	if err != nil {
		remoteError(c, err, "We couldn't retrieve your order history. Please try again later.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    summaries,
	})
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	details, ok := h.details(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    details,
	})
}

// DownloadReceipt handles GET /orders/:id/receipt
func (h *OrderHandler) DownloadReceipt(c *gin.Context) {
	details, ok := h.details(c)
	if !ok {
		return
	}

	receipt, err := h.pdfService.GenerateReceipt(details)
	if err != nil {
		h.logger.WithError(err).WithField("order_id", details.Order.ID).Error("Failed to generate receipt")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate receipt",
		})
		return
	}

	filename := fmt.Sprintf("receipt-%s.pdf", details.Order.ShortID())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", receipt.Bytes())
}

func (h *OrderHandler) details(c *gin.Context) (*order.Details, bool) {
	token, ok := bearerToken(c)
	if !ok {
		return nil, false
	}

	details, err := h.orderService.Details(c.Request.Context(), token, c.Param("id"))
	if err != nil {
		if api.IsNotFound(err) || api.IsUnauthorized(err) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Order Not Found",
				"details": "Failed to fetch order details. The order may not exist or you may not have permission to view it.",
			})
			return nil, false
		}
		remoteError(c, err, "Failed to fetch order details.")
		return nil, false
	}
	return details, true
}
