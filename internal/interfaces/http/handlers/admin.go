// internal/interfaces/http/handlers/admin.go
package handlers

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/artiflora-storefront/internal/domain/catalog"
	"github.com/your-org/artiflora-storefront/internal/domain/order"
	"github.com/your-org/artiflora-storefront/internal/infrastructure/api"
)

// AdminHandler handles the admin dashboard
type AdminHandler struct {
	catalogService *catalog.Service
	orderService   *order.Service
	logger         *logrus.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(catalogService *catalog.Service, orderService *order.Service, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		catalogService: catalogService,
		orderService:   orderService,
		logger:         logger,
	}
}

// StatusUpdateRequest is the body of an order status change
type StatusUpdateRequest struct {
	Status order.Status `json:"status" binding:"required"`
}

// Dashboard handles GET /admin. Products and orders load independently and
// each section carries its own error.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	token, ok := bearerToken(c)
	if !ok {
		return
	}

	var (
		wg            sync.WaitGroup
		products      []catalog.Product
		ordersView    *order.AdminView
		productsState ViewState
		ordersState   ViewState
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		if products, err = h.catalogService.List(c.Request.Context()); err != nil {
			productsState.Error = sectionError(err, "Failed to load products.")
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if ordersView, err = h.orderService.AdminOrders(c.Request.Context(), token); err != nil {
			ordersState.Error = sectionError(err, "Failed to load orders.")
		}
	}()
	wg.Wait()

	c.JSON(http.StatusOK, gin.H{
		"message": "Dashboard retrieved successfully",
		"data": gin.H{
			"products":       products,
			"products_state": productsState,
			"orders":         ordersView,
			"orders_state":   ordersState,
		},
	})
}

// GetProducts handles GET /admin/products
func (h *AdminHandler) GetProducts(c *gin.Context) {
	products, err := h.catalogService.List(c.Request.Context())
	if err != nil {
		remoteError(c, err, "Failed to load products.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data":    products,
	})
}

// GetProductForm handles GET /admin/products/:id/form
func (h *AdminHandler) GetProductForm(c *gin.Context) {
	form, err := h.catalogService.EditForm(c.Request.Context(), c.Param("id"))
	if err != nil {
		remoteError(c, err, "Failed to load product.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product form retrieved successfully",
		"data":    form,
	})
}

// CreateProduct handles POST /admin/products
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var input catalog.ProductInput
	if !bindProduct(c, &input) {
		return
	}
	token, ok := bearerToken(c)
	if !ok {
		return
	}

	product, err := h.catalogService.Create(c.Request.Context(), token, &input)
	if err != nil {
		h.writeFailure(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"data":    product,
	})
}

// UpdateProduct handles PUT /admin/products/:id
func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	var input catalog.ProductInput
	if !bindProduct(c, &input) {
		return
	}
	token, ok := bearerToken(c)
	if !ok {
		return
	}

	if err := h.catalogService.Update(c.Request.Context(), token, c.Param("id"), &input); err != nil {
		h.writeFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
	})
}

// DeleteProduct handles DELETE /admin/products/:id. Without confirm=true it
// only returns the confirmation prompt.
func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	token, ok := bearerToken(c)
	if !ok {
		return
	}

	confirmation, err := h.catalogService.Delete(c.Request.Context(), token, c.Param("id"), c.Query("confirm") == "true")
	if errors.Is(err, catalog.ErrConfirmationRequired) {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Confirmation required",
			"data":  confirmation,
		})
		return
	}
	if err != nil {
		remoteError(c, err, "Failed to delete product. Please try again.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted successfully",
	})
}

// GetOrders handles GET /admin/orders
func (h *AdminHandler) GetOrders(c *gin.Context) {
	token, ok := bearerToken(c)
	if !ok {
		return
	}

	view, err := h.orderService.AdminOrders(c.Request.Context(), token)
	if err != nil {
		remoteError(c, err, "Failed to load orders.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    view,
	})
}

// UpdateOrderStatus handles PATCH /admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	var req StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	token, ok := bearerToken(c)
	if !ok {
		return
	}

	if err := h.orderService.UpdateStatus(c.Request.Context(), token, c.Param("id"), req.Status); err != nil {
		if errors.Is(err, order.ErrStatusNotAllowed) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid order status",
				"details": err.Error(),
			})
			return
		}
		remoteError(c, err, "Failed to update status. Please try again.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
		"data": gin.H{
			"id":     c.Param("id"),
			"status": req.Status,
		},
	})
}

func (h *AdminHandler) writeFailure(c *gin.Context, err error) {
	if api.IsUnauthorized(err) {
		c.JSON(http.StatusForbidden, gin.H{
			"error": "You are not authorized to perform this action.",
		})
		return
	}
	h.logger.WithError(err).Warn("Product write failed")
	remoteError(c, err, "An error occurred.")
}

func bindProduct(c *gin.Context, input *catalog.ProductInput) bool {
	if err := c.ShouldBindJSON(input); err != nil {
		invalidRequest(c, err)
		return false
	}
	if err := input.Validate(); err != nil {
		invalidRequest(c, err)
		return false
	}
	return true
}

func sectionError(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
