package productcontroller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/food-delivery-api/apperr"
	"github.com/junaidrashid-git/food-delivery-api/models"
	"gorm.io/gorm"
)

// DeleteProduct soft deletes a product. Its image stays on disk because
// past order items still show it.
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
			apperr.Respond(c, notFound(err, "product"), "Failed to retrieve product")
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			return tx.Delete(&product).Error
		})
		if err != nil {
			apperr.Respond(c, err, "Failed to delete product")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}

func notFound(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(entity)
	}
	return err
}
