package routes

import (
	"github.com/gin-gonic/gin"
	adminController "github.com/junaidrashid-git/food-delivery-api/controllers/admin"
	cartControllers "github.com/junaidrashid-git/food-delivery-api/controllers/cart"
	productcontroller "github.com/junaidrashid-git/food-delivery-api/controllers/product"
)

func SetupStorefrontRoutes(r *gin.Engine, app *App) {
	api := r.Group("/api")
	{
		api.GET("/banners/active", adminController.GetActiveBanner(app.DB))

		api.GET("/categories", productcontroller.GetCategories(app.DB))
		api.GET("/categories/:slug", productcontroller.GetCategoryBySlug(app.DB))

		api.GET("/products", productcontroller.GetProducts(app.DB))
		api.GET("/products/:slug", productcontroller.GetProductBySlug(app.DB))

		api.POST("/cart/quote", cartControllers.QuoteCart(app.DB, app.DeliveryFee))
	}
}
