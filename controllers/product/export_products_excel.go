package productcontroller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/food-delivery-api/apperr"
	"github.com/junaidrashid-git/food-delivery-api/models"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// productColumns is the sheet layout shared by export and import.
var productColumns = []string{
	"ID", "Name", "Slug", "Description", "Price",
	"ImageURL", "IsActive", "CategoryID", "Category",
	"CreatedAt", "UpdatedAt",
}

func ExportProductsToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.Preload("Category").Order("name").Find(&products).Error; err != nil {
			apperr.Respond(c, err, "Failed to fetch products")
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Products")
		if err != nil {
			apperr.Respond(c, err, "Failed to create Excel sheet")
			return
		}

		headerRow := sheet.AddRow()
		for _, h := range productColumns {
			headerRow.AddCell().SetValue(h)
		}

		for _, p := range products {
			row := sheet.AddRow()
			row.AddCell().SetString(p.ID)
			row.AddCell().SetString(p.Name)
			row.AddCell().SetString(p.Slug)
			row.AddCell().SetString(p.Description)
			row.AddCell().SetString(p.Price.StringFixed(2))
			row.AddCell().SetString(p.ImageURL)
			row.AddCell().SetString(strconv.FormatBool(p.IsActive))
			row.AddCell().SetString(p.CategoryID)
			categoryName := ""
			if p.Category != nil {
				categoryName = p.Category.Name
			}
			row.AddCell().SetString(categoryName)
			row.AddCell().SetString(p.CreatedAt.Format("2006-01-02 15:04:05"))
			row.AddCell().SetString(p.UpdatedAt.Format("2006-01-02 15:04:05"))
		}

		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")
		c.Status(http.StatusOK)

		if err := file.Write(c.Writer); err != nil {
			apperr.Respond(c, err, "Failed to write Excel file")
			return
		}
	}
}
