package orderControllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/food-delivery-api/apperr"
	"github.com/junaidrashid-git/food-delivery-api/models"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

var orderColumns = []string{
	"ID", "CreatedAt", "Status", "CustomerName", "CustomerEmail",
	"CustomerPhone", "Address", "Items", "Total",
}

// ExportOrdersToExcel writes every order as a row; times are shown in loc.
func ExportOrdersToExcel(db *gorm.DB, loc *time.Location) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := withItems(db).Order("created_at DESC").Find(&orders).Error; err != nil {
			apperr.Respond(c, err, "Failed to fetch orders")
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Orders")
		if err != nil {
			apperr.Respond(c, err, "Failed to create Excel sheet")
			return
		}

		headerRow := sheet.AddRow()
		for _, h := range orderColumns {
			headerRow.AddCell().SetValue(h)
		}

		for _, o := range orders {
			row := sheet.AddRow()
			row.AddCell().SetString(o.ID)
			row.AddCell().SetString(o.CreatedAt.In(loc).Format("02/01/2006 15:04"))
			row.AddCell().SetString(string(o.Status))
			row.AddCell().SetString(o.CustomerName)
			row.AddCell().SetString(o.CustomerEmail)
			row.AddCell().SetString(o.CustomerPhone)
			row.AddCell().SetString(o.Address)
			row.AddCell().SetString(describeItems(o.Items))
			row.AddCell().SetString(o.Total.StringFixed(2))
		}

		c.Header("Content-Disposition", "attachment; filename=orders.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")
		c.Status(http.StatusOK)

		if err := file.Write(c.Writer); err != nil {
			apperr.Respond(c, err, "Failed to write Excel file")
		}
	}
}

// describeItems renders "2x X-Burger; 1x Suco".
func describeItems(items []models.OrderItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		name := item.ProductID
		if item.Product != nil {
			name = item.Product.Name
		}
		parts = append(parts, fmt.Sprintf("%dx %s", item.Quantity, name))
	}
	return strings.Join(parts, "; ")
}
