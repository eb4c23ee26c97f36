package routes

import (
	"github.com/gin-gonic/gin"

	productControllers "github.com/craftcart/commerce-api/controllers/product"
	"github.com/craftcart/commerce-api/middleware"
)

// SetupProductRoutes registers the "/api/products" endpoints. Reads are
// public; catalog mutation is admin only.
func SetupProductRoutes(r *gin.Engine, d Deps) {
	products := r.Group("/api/products")
	{
		products.GET("", productControllers.GetProducts(d.Catalog, d.Images))
		products.GET("/:id", productControllers.GetProductByID(d.Catalog, d.Images))

		admin := products.Group("")
		admin.Use(middleware.Auth(d.JWTSecret), middleware.AdminOnly())
		{
			admin.POST("", productControllers.CreateProduct(d.Catalog, d.Images, d.Log))
			admin.DELETE("/:id", productControllers.DeleteProduct(d.Catalog))
		}
	}
}
