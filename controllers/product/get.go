package productcontroller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/food-delivery-api/models"
	"gorm.io/gorm"
)

// GetProductBySlug returns an active product with its category.
// URL param: /products/:slug
func GetProductBySlug(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		err := db.Preload("Category").
			Where("slug = ? AND is_active = ?", c.Param("slug"), true).
			First(&product).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
			}
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// loadProduct reads a product back with its category for the panel response.
func loadProduct(db *gorm.DB, id string) (models.Product, error) {
	var product models.Product
	err := db.Preload("Category").First(&product, "id = ?", id).Error
	return product, err
}
