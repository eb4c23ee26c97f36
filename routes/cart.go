package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/craftcart/commerce-api/controllers/cart"
	"github.com/craftcart/commerce-api/middleware"
)

// SetupCartRoutes registers the "/api/cart" endpoints, all keyed by the
// authenticated principal.
func SetupCartRoutes(r *gin.Engine, d Deps) {
	cartGroup := r.Group("/api/cart")
	cartGroup.Use(middleware.Auth(d.JWTSecret))
	{
		cartGroup.GET("", cartControllers.GetCart(d.Cart))
		cartGroup.POST("/add", cartControllers.AddItem(d.Cart))
		cartGroup.PUT("/:itemId", cartControllers.UpdateQuantity(d.Cart))
		cartGroup.DELETE("/:itemId", cartControllers.RemoveItem(d.Cart))
		cartGroup.DELETE("", cartControllers.ClearCart(d.Cart))
	}
}
