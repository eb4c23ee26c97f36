package orderControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/craftcart/commerce-api/apperr"
	"github.com/craftcart/commerce-api/middleware"
	"github.com/craftcart/commerce-api/models"
	"github.com/craftcart/commerce-api/services/order"
	"github.com/craftcart/commerce-api/services/payment"
)

type lineInput struct {
	ProductID      uint   `json:"product_id" binding:"required"`
	Quantity       int    `json:"quantity" binding:"required,min=1"`
	CustomText     string `json:"custom_text"`
	CustomImageRef string `json:"custom_image_ref"`
}

type addressInput struct {
	FullName   string `json:"full_name" binding:"required"`
	Line1      string `json:"address" binding:"required"`
	Line2      string `json:"address_line2"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
	Country    string `json:"country" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
}

type placeOrderInput struct {
	Products        []lineInput  `json:"products" binding:"required"`
	TotalAmount     float64      `json:"total_amount" binding:"required"`
	ShippingAddress addressInput `json:"shipping_address" binding:"required"`
}

type createIntentInput struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type verifyInput struct {
	IntentID  string `json:"intent_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
	placeOrderInput
}

type updateStatusInput struct {
	OrderStatus string `json:"order_status" binding:"required"`
}

func toLines(in []lineInput) []order.LineInput {
	lines := make([]order.LineInput, 0, len(in))
	for _, l := range in {
		lines = append(lines, order.LineInput{
			ProductID:      l.ProductID,
			Quantity:       l.Quantity,
			CustomText:     l.CustomText,
			CustomImageRef: l.CustomImageRef,
		})
	}
	return lines
}

func toAddress(in addressInput) models.Address {
	return models.Address{
		FullName:   in.FullName,
		Line1:      in.Line1,
		Line2:      in.Line2,
		City:       in.City,
		State:      in.State,
		PostalCode: in.PostalCode,
		Country:    in.Country,
		Phone:      in.Phone,
	}
}

// POST /api/orders — cash-on-delivery checkout.
func PlaceCODOrder(ledger *order.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := middleware.PrincipalFrom(c)
		if !ok {
			apperr.JSON(c, apperr.New(apperr.KindUnauthorized, "authentication required"))
			return
		}
		var in placeOrderInput
		if err := c.ShouldBindJSON(&in); err != nil {
			apperr.JSON(c, apperr.Newf(apperr.KindBadRequest, "invalid input: %v", err))
			return
		}
		o, err := ledger.Place(c.Request.Context(), p.ID,
			toLines(in.Products), in.TotalAmount, toAddress(in.ShippingAddress), payment.COD())
		if err != nil {
			apperr.JSON(c, err)
			return
		}
		c.JSON(http.StatusCreated, o)
	}
}

// POST /api/orders/gateway — open a payment intent with the gateway.
func CreateIntent(gateway *payment.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in createIntentInput
		if err := c.ShouldBindJSON(&in); err != nil {
			apperr.JSON(c, apperr.Newf(apperr.KindBadRequest, "invalid input: %v", err))
			return
		}
		intent, err := gateway.CreateIntent(c.Request.Context(), in.Amount)
		if err != nil {
			apperr.JSON(c, err)
			return
		}
		c.JSON(http.StatusOK, intent)
	}
}

// POST /api/orders/verify — verify the gateway confirmation signature and,
// only on success, place the order. A failed verification leaves nothing
// behind.
func VerifyAndPlaceOrder(ledger *order.Ledger, gateway *payment.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := middleware.PrincipalFrom(c)
		if !ok {
			apperr.JSON(c, apperr.New(apperr.KindUnauthorized, "authentication required"))
			return
		}
		var in verifyInput
		if err := c.ShouldBindJSON(&in); err != nil {
			apperr.JSON(c, apperr.Newf(apperr.KindBadRequest, "invalid input: %v", err))
			return
		}
		result, err := gateway.Verify(in.IntentID, in.PaymentID, in.Signature)
		if err != nil {
			apperr.JSON(c, err)
			return
		}
		o, err := ledger.Place(c.Request.Context(), p.ID,
			toLines(in.Products), in.TotalAmount, toAddress(in.ShippingAddress), result)
		if err != nil {
			apperr.JSON(c, err)
			return
		}
		c.JSON(http.StatusCreated, o)
	}
}

// GET /api/orders/myorders
func GetMyOrders(ledger *order.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := middleware.PrincipalFrom(c)
		if !ok {
			apperr.JSON(c, apperr.New(apperr.KindUnauthorized, "authentication required"))
			return
		}
		orders, err := ledger.ListForUser(c.Request.Context(), p.ID)
		if err != nil {
			apperr.JSON(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /api/orders  (admin)
func GetAllOrders(ledger *order.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := ledger.ListAll(c.Request.Context())
		if err != nil {
			apperr.JSON(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// PUT /api/orders/:id  (admin) — order status transition.
func UpdateOrderStatus(ledger *order.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			apperr.JSON(c, apperr.New(apperr.KindBadRequest, "invalid order id"))
			return
		}
		var in updateStatusInput
		if err := c.ShouldBindJSON(&in); err != nil {
			apperr.JSON(c, apperr.Newf(apperr.KindBadRequest, "invalid input: %v", err))
			return
		}
		next, err := models.ParseOrderStatus(in.OrderStatus)
		if err != nil {
			apperr.JSON(c, apperr.New(apperr.KindBadRequest, "invalid order status"))
			return
		}
		o, err := ledger.Transition(c.Request.Context(), uint(id), next)
		if err != nil {
			apperr.JSON(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}
