package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "github.com/craftcart/commerce-api/controllers/order"
	"github.com/craftcart/commerce-api/middleware"
)

// SetupOrderRoutes registers checkout and order management endpoints.
func SetupOrderRoutes(r *gin.Engine, d Deps) {
	orders := r.Group("/api/orders")
	orders.Use(middleware.Auth(d.JWTSecret))
	{
		orders.POST("", orderControllers.PlaceCODOrder(d.Ledger))
		orders.POST("/gateway", orderControllers.CreateIntent(d.Gateway))
		orders.POST("/verify", orderControllers.VerifyAndPlaceOrder(d.Ledger, d.Gateway))
		orders.GET("/myorders", orderControllers.GetMyOrders(d.Ledger))

		admin := orders.Group("")
		admin.Use(middleware.AdminOnly())
		{
			admin.GET("", orderControllers.GetAllOrders(d.Ledger))
			admin.PUT("/:id", orderControllers.UpdateOrderStatus(d.Ledger))
			admin.GET("/export", orderControllers.ExportOrders(d.Ledger))
			admin.GET("/live", d.Hub.Handle)
		}
	}
}
