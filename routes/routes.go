package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/craftcart/commerce-api/events"
	"github.com/craftcart/commerce-api/services/cart"
	"github.com/craftcart/commerce-api/services/catalog"
	"github.com/craftcart/commerce-api/services/order"
	"github.com/craftcart/commerce-api/services/payment"
	"github.com/craftcart/commerce-api/storage"
)

// Deps carries everything the route groups wire handlers with.
type Deps struct {
	Catalog   *catalog.Service
	Cart      *cart.Store
	Ledger    *order.Ledger
	Gateway   *payment.Gateway
	Images    storage.ImageStore
	Hub       *events.Hub
	JWTSecret string
	Log       *zap.Logger
}

// SetupRoutes is the single entry point wiring up all API route groups.
func SetupRoutes(r *gin.Engine, d Deps) {
	SetupProductRoutes(r, d)
	SetupCartRoutes(r, d)
	SetupOrderRoutes(r, d)
}
