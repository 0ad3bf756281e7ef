package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/food-delivery-api/auth"
	orderControllers "github.com/junaidrashid-git/food-delivery-api/controllers/order"
	"github.com/junaidrashid-git/food-delivery-api/storage"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// App carries what the route groups hand to their controllers.
type App struct {
	DB          *gorm.DB
	Images      *storage.Images
	Sessions    *auth.Resolver
	Orders      *orderControllers.Deps
	AdminAPIKey string
	DeliveryFee decimal.Decimal
	Location    *time.Location
}

// SetupRoutes is the single entry-point that wires up the storefront,
// order, dashboard and panel route groups.
func SetupRoutes(r *gin.Engine, app *App) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public catalog and cart
	SetupStorefrontRoutes(r, app)

	// Checkout and order listings
	SetupOrderRoutes(r, app)

	// Admin (API-key protected)
	SetupDashboardRoutes(r, app)
	SetupAdminRoutes(r, app)
}
