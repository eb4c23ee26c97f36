package orderControllers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"

	"github.com/craftcart/commerce-api/apperr"
	"github.com/craftcart/commerce-api/services/order"
)

// GET /api/orders/export  (admin) — download all orders as a spreadsheet.
func ExportOrders(ledger *order.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := ledger.ListAll(c.Request.Context())
		if err != nil {
			apperr.JSON(c, err)
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Orders")
		if err != nil {
			apperr.JSON(c, apperr.Wrap(apperr.KindInternal, "failed to create sheet", err))
			return
		}

		headers := []string{
			"ID", "UserID", "UserName", "UserEmail", "Items", "TotalAmount",
			"PaymentMethod", "PaymentStatus", "OrderStatus", "City", "Country", "CreatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, o := range orders {
			var items []string
			for _, line := range o.Products {
				items = append(items, line.Name)
			}

			row := sheet.AddRow()
			row.AddCell().SetValue(o.ID)
			row.AddCell().SetValue(o.UserID)
			row.AddCell().SetValue(o.User.Name)
			row.AddCell().SetValue(o.User.Email)
			row.AddCell().SetValue(strings.Join(items, ", "))
			row.AddCell().SetValue(o.TotalAmount)
			row.AddCell().SetValue(string(o.PaymentMethod))
			row.AddCell().SetValue(string(o.PaymentStatus))
			row.AddCell().SetValue(string(o.OrderStatus))
			row.AddCell().SetValue(o.ShippingAddress.City)
			row.AddCell().SetValue(o.ShippingAddress.Country)
			row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
		}

		c.Header("Content-Disposition", "attachment; filename=orders.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")

		if err := file.Write(c.Writer); err != nil {
			apperr.JSON(c, apperr.Wrap(apperr.KindInternal, "failed to write spreadsheet", err))
			return
		}
	}
}
