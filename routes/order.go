package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/junaidrashid-git/food-delivery-api/controllers/order"
	"github.com/junaidrashid-git/food-delivery-api/middleware"
)

func SetupOrderRoutes(r *gin.Engine, app *App) {
	orders := r.Group("/api/orders")
	{
		// Checkout; a session is optional
		orders.POST("", middleware.CurrentUser(app.Sessions), orderControllers.PlaceOrderHandler(app.Orders))

		// Every order (admin)
		orders.GET("/all", middleware.ValidateAPIKey(app.AdminAPIKey), orderControllers.GetAllOrdersHandler(app.DB))

		// The session user's orders
		orders.GET("/my-orders", middleware.RequireUser(app.Sessions), orderControllers.GetMyOrdersHandler(app.DB))
	}
}
