package routes

import (
	"github.com/gin-gonic/gin"
	adminController "github.com/junaidrashid-git/food-delivery-api/controllers/admin"
	dashboardController "github.com/junaidrashid-git/food-delivery-api/controllers/dashboard"
	orderControllers "github.com/junaidrashid-git/food-delivery-api/controllers/order"
	productcontroller "github.com/junaidrashid-git/food-delivery-api/controllers/product"
	"github.com/junaidrashid-git/food-delivery-api/middleware"
)

func SetupDashboardRoutes(r *gin.Engine, app *App) {
	dashboard := r.Group("/api/dashboard")
	dashboard.Use(middleware.ValidateAPIKey(app.AdminAPIKey))
	{
		dashboard.GET("/stats", dashboardController.GetStats(app.DB, app.Location))
	}
}

// SetupAdminRoutes registers all "/api/painel/*" endpoints. Requires the API key.
func SetupAdminRoutes(r *gin.Engine, app *App) {
	db, images := app.DB, app.Images

	painel := r.Group("/api/painel")
	painel.Use(middleware.ValidateAPIKey(app.AdminAPIKey))
	{
		// ─────────── Product Management ───────────
		products := painel.Group("/produtos")
		{
			products.GET("", productcontroller.ListProducts(db))
			products.POST("", productcontroller.CreateProduct(db, images))
			products.GET("/export", productcontroller.ExportProductsToExcel(db))
			products.POST("/import", productcontroller.ImportProductsFromExcel(db))
			products.PUT("/:id", productcontroller.UpdateProduct(db, images))
			products.DELETE("/:id", productcontroller.DeleteProduct(db))
		}

		// ─────────── Category Management ───────────
		categories := painel.Group("/categorias")
		{
			categories.GET("", productcontroller.ListCategories(db))
			categories.POST("", productcontroller.CreateCategory(db, images))
			categories.PUT("/:id", productcontroller.UpdateCategory(db, images))
			categories.DELETE("/:id", productcontroller.DeleteCategory(db, images))
		}

		// ─────────── Order Management ───────────
		orders := painel.Group("/pedidos")
		{
			orders.GET("", orderControllers.ListOrdersHandler(db))
			orders.POST("", orderControllers.CreateOrderHandler(app.Orders))
			orders.GET("/export", orderControllers.ExportOrdersToExcel(db, app.Location))
			orders.GET("/ws", app.Orders.Feed.OrderWebSocketHandler)
			orders.PUT("/:id", orderControllers.UpdateOrderHandler(app.Orders))
			orders.PUT("/:id/status", orderControllers.UpdateOrderStatusHandler(app.Orders))
			orders.DELETE("/:id", orderControllers.DeleteOrderHandler(app.Orders))
		}

		// ─────────── Banners ───────────
		banners := painel.Group("/banners")
		{
			banners.GET("", adminController.GetBanners(db))
			banners.POST("", adminController.UploadBanner(db, images))
			banners.DELETE("/:id", adminController.DeleteBanner(db, images))
		}
	}
}
