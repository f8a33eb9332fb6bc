// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/artiflora-storefront/internal/domain/access"
	"github.com/your-org/artiflora-storefront/internal/domain/cart"
	"github.com/your-org/artiflora-storefront/internal/domain/catalog"
	"github.com/your-org/artiflora-storefront/internal/domain/checkout"
	"github.com/your-org/artiflora-storefront/internal/domain/media"
	"github.com/your-org/artiflora-storefront/internal/domain/order"
	"github.com/your-org/artiflora-storefront/internal/interfaces/http/handlers"
	"github.com/your-org/artiflora-storefront/internal/interfaces/http/middleware"
	"github.com/your-org/artiflora-storefront/internal/pkg/pdf"
)

// Dependencies are the services the routes are wired to
type Dependencies struct {
	Logger    *logrus.Logger
	Sessions  *middleware.Sessions
	Access    *access.Registry
	Catalog   *catalog.Service
	Cart      *cart.Service
	Orders    *order.Service
	Checkouts *checkout.Registry
	Uploader  *media.Uploader
	PDF       *pdf.Service
}

// SetupCatalogRoutes sets up the landing page and product pages
func SetupCatalogRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	catalogHandler := handlers.NewCatalogHandler(deps.Catalog)

	rg.GET("/", catalogHandler.Landing)
	rg.GET("/products", catalogHandler.GetProducts)
	rg.GET("/products/:id", catalogHandler.GetProduct)
}

// SetupCartRoutes sets up cart routes. The cart belongs to the browser, so
// no sign-in is needed.
func SetupCartRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	cartHandler := handlers.NewCartHandler(deps.Cart)

	cartGroup := rg.Group("/cart")
	{
		cartGroup.GET("", cartHandler.GetCart)
		cartGroup.POST("/items", cartHandler.AddToCart)
		cartGroup.PUT("/items/:productId", cartHandler.UpdateCartItem)
		cartGroup.DELETE("/items/:productId", cartHandler.RemoveFromCart)
		cartGroup.DELETE("", cartHandler.ClearCart)
	}
}

// SetupAuthRoutes sets up the login page routes
func SetupAuthRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	authHandler := handlers.NewAuthHandler(deps.Sessions, deps.Logger)

	rg.GET("/login", authHandler.LoginPage)
	rg.POST("/login", authHandler.Login)
	rg.POST("/login/google", authHandler.GoogleLogin)
	rg.POST("/signup", authHandler.SignUp)
	rg.POST("/logout", authHandler.Logout)
}

// SetupCheckoutRoutes sets up the checkout page. Viewing it is open so the
// empty-cart view can be shown; the checkout itself checks the session.
func SetupCheckoutRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	checkoutHandler := handlers.NewCheckoutHandler(deps.Checkouts, deps.Cart, deps.Logger)

	orderGroup := rg.Group("/order")
	{
		orderGroup.GET("", checkoutHandler.GetCheckout)
		orderGroup.POST("", checkoutHandler.Submit)
		orderGroup.POST("/payment", checkoutHandler.CompletePayment)
		orderGroup.POST("/dismiss", checkoutHandler.Dismiss)
	}
}

// SetupOrderRoutes sets up the shopper's order history and details
func SetupOrderRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	orderHandler := handlers.NewOrderHandler(deps.Orders, deps.PDF, deps.Logger)

	protected := rg.Group("")
	protected.Use(middleware.RequireSignIn())
	{
		protected.GET("/disp", orderHandler.GetOrderHistory)
		protected.GET("/orders/:id", orderHandler.GetOrder)
		protected.GET("/orders/:id/receipt", orderHandler.DownloadReceipt)
	}
}

// SetupAdminRoutes sets up the admin dashboard
func SetupAdminRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	adminHandler := handlers.NewAdminHandler(deps.Catalog, deps.Orders, deps.Logger)
	uploadHandler := handlers.NewUploadHandler(deps.Uploader, deps.Logger)

	admin := rg.Group("/admin")
	admin.Use(middleware.AdminGate(deps.Access))
	{
		admin.GET("", adminHandler.Dashboard)

		admin.GET("/products", adminHandler.GetProducts)
		admin.POST("/products", adminHandler.CreateProduct)
		admin.GET("/products/:id/form", adminHandler.GetProductForm)
		admin.PUT("/products/:id", adminHandler.UpdateProduct)
		admin.DELETE("/products/:id", adminHandler.DeleteProduct)

		admin.GET("/orders", adminHandler.GetOrders)
		admin.PATCH("/orders/:id/status", adminHandler.UpdateOrderStatus)

		admin.POST("/uploads", uploadHandler.UploadImages)
	}
}

// SetupRoutes sets up every storefront route
func SetupRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	SetupCatalogRoutes(rg, deps)
	SetupCartRoutes(rg, deps)
	SetupAuthRoutes(rg, deps)
	SetupCheckoutRoutes(rg, deps)
	SetupOrderRoutes(rg, deps)
	SetupAdminRoutes(rg, deps)
}
