package productcontroller

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/food-delivery-api/apperr"
	"github.com/junaidrashid-git/food-delivery-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var sortColumns = map[string]string{
	"name":       "products.name",
	"price":      "products.price",
	"created_at": "products.created_at",
}

// GetProducts lists active products for the storefront.
// Query: search, category (slug), min_price, max_price, sort_by, order.
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sortBy, ok := sortColumns[c.DefaultQuery("sort_by", "name")]
		if !ok {
			sortBy = sortColumns["name"]
		}
		sortOrder := strings.ToLower(c.DefaultQuery("order", "asc"))
		if sortOrder != "asc" && sortOrder != "desc" {
			sortOrder = "asc"
		}

		query := db.Model(&models.Product{}).
			Preload("Category").
			Where("products.is_active = ?", true)

		if search := strings.TrimSpace(c.Query("search")); search != "" {
			like := "%" + strings.ToLower(search) + "%"
			query = query.Where("LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ?", like, like)
		}

		for _, bound := range []struct{ param, op string }{{"min_price", ">="}, {"max_price", "<="}} {
			raw := c.Query(bound.param)
			if raw == "" {
				continue
			}
			price, err := decimal.NewFromString(raw)
			if err != nil {
				apperr.Respond(c, apperr.Invalid("invalid %s", bound.param), "")
				return
			}
			query = query.Where("products.price "+bound.op+" ?", price)
		}

		if slug := c.Query("category"); slug != "" {
			query = query.
				Joins("JOIN categories ON categories.id = products.category_id").
				Where("categories.slug = ?", slug)
		}

		var products []models.Product
		if err := query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder)).Find(&products).Error; err != nil {
			apperr.Respond(c, err, "Failed to fetch products")
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// ListProducts returns every product, inactive ones included, for the panel.
func ListProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.Preload("Category").Order("name").Find(&products).Error; err != nil {
			apperr.Respond(c, err, "Failed to fetch products")
			return
		}
		c.JSON(http.StatusOK, products)
	}
}
