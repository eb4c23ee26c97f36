package cartControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/craftcart/commerce-api/apperr"
	"github.com/craftcart/commerce-api/middleware"
	"github.com/craftcart/commerce-api/services/cart"
)

// The cart is always keyed by the authenticated principal; a client can
// never address another user's cart.

type addItemInput struct {
	ProductID      uint   `json:"product_id" binding:"required"`
	Quantity       int    `json:"quantity" binding:"required,min=1"`
	Size           string `json:"size"`
	Color          string `json:"color"`
	CustomText     string `json:"custom_text"`
	CustomImageRef string `json:"custom_image_ref"`
}

type updateQuantityInput struct {
	Quantity int `json:"quantity"`
}

// GET /api/cart
func GetCart(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := middleware.PrincipalFrom(c)
		if !ok {
			apperr.JSON(c, apperr.New(apperr.KindUnauthorized, "authentication required"))
			return
		}
		lines, err := store.Get(c.Request.Context(), p.ID)
		if err != nil {
			apperr.JSON(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": lines})
	}
}

// POST /api/cart/add
func AddItem(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := middleware.PrincipalFrom(c)
		if !ok {
			apperr.JSON(c, apperr.New(apperr.KindUnauthorized, "authentication required"))
			return
		}
		var in addItemInput
		if err := c.ShouldBindJSON(&in); err != nil {
			apperr.JSON(c, apperr.Newf(apperr.KindBadRequest, "invalid input: %v", err))
			return
		}
		err := store.Add(c.Request.Context(), p.ID, cart.AddInput{
			ProductID:      in.ProductID,
			Quantity:       in.Quantity,
			Size:           in.Size,
			Color:          in.Color,
			CustomText:     in.CustomText,
			CustomImageRef: in.CustomImageRef,
		})
		if err != nil {
			apperr.JSON(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "item added to cart"})
	}
}

// PUT /api/cart/:itemId
func UpdateQuantity(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := middleware.PrincipalFrom(c)
		if !ok {
			apperr.JSON(c, apperr.New(apperr.KindUnauthorized, "authentication required"))
			return
		}
		var in updateQuantityInput
		if err := c.ShouldBindJSON(&in); err != nil {
			apperr.JSON(c, apperr.Newf(apperr.KindBadRequest, "invalid input: %v", err))
			return
		}
		itemID := c.Param("itemId")
		if err := store.UpdateQuantity(c.Request.Context(), p.ID, itemID, in.Quantity); err != nil {
			apperr.JSON(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "quantity updated"})
	}
}

// DELETE /api/cart/:itemId
func RemoveItem(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := middleware.PrincipalFrom(c)
		if !ok {
			apperr.JSON(c, apperr.New(apperr.KindUnauthorized, "authentication required"))
			return
		}
		if err := store.Remove(c.Request.Context(), p.ID, c.Param("itemId")); err != nil {
			apperr.JSON(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "item removed from cart"})
	}
}

// DELETE /api/cart
func ClearCart(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := middleware.PrincipalFrom(c)
		if !ok {
			apperr.JSON(c, apperr.New(apperr.KindUnauthorized, "authentication required"))
			return
		}
		if err := store.Clear(c.Request.Context(), p.ID); err != nil {
			apperr.JSON(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
	}
}
