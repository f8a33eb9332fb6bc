// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/artiflora-storefront/internal/domain/catalog"
	"github.com/your-org/artiflora-storefront/internal/infrastructure/api"
)

// FeaturedCount is how many products the landing page shows
const FeaturedCount = 3

// CatalogHandler handles the public product pages
type CatalogHandler struct {
	catalogService *catalog.Service
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *catalog.Service) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// Landing handles GET /
func (h *CatalogHandler) Landing(c *gin.Context) {
	featured, err := h.catalogService.Featured(c.Request.Context(), FeaturedCount)
	if err != nil {
		remoteError(c, err, "Failed to fetch products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Featured products retrieved successfully",
		"data": gin.H{
			"featured": featured,
		},
	})
}

// GetProducts handles GET /products
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	products, err := h.catalogService.List(c.Request.Context())
	if err != nil {
		remoteError(c, err, "Failed to fetch products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data":    products,
	})
}

// GetProduct handles GET /products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.catalogService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if api.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Product Not Found",
				"details": "We couldn't find the product you're looking for.",
			})
			return
		}
		remoteError(c, err, "Failed to load product.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product retrieved successfully",
		"data": gin.H{
			"product":       product,
			"display_price": product.DisplayPrice(),
			"primary_image": product.PrimaryImage(),
		},
	})
}
