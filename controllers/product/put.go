package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/food-delivery-api/apperr"
	"github.com/junaidrashid-git/food-delivery-api/logger"
	"github.com/junaidrashid-git/food-delivery-api/models"
	"github.com/junaidrashid-git/food-delivery-api/storage"
	"gorm.io/gorm"
)

// UpdateProduct edits a product by ID. Accepts the same fields as
// CreateProduct; a new "image" replaces the stored one.
func UpdateProduct(db *gorm.DB, images *storage.Images) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
			apperr.Respond(c, notFound(err, "product"), "Failed to retrieve product")
			return
		}

		var form productForm
		if err := apperr.Bind(c, &form); err != nil {
			apperr.Respond(c, err, "Failed to update product")
			return
		}

		oldName, oldImage := product.Name, product.ImageURL
		if err := form.apply(db, &product); err != nil {
			apperr.Respond(c, err, "Failed to update product")
			return
		}

		imageURL, err := images.SaveFromForm(c, "image", "products")
		if err != nil {
			apperr.Respond(c, err, "Failed to save image")
			return
		}
		if imageURL != "" {
			product.ImageURL = imageURL
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if product.Name != oldName {
				slug, err := uniqueSlug(tx, &models.Product{}, product.Name, product.ID)
				if err != nil {
					return err
				}
				product.Slug = slug
			}
			product.Category = nil
			return tx.Save(&product).Error
		})
		if err != nil {
			_ = images.Remove(imageURL)
			apperr.Respond(c, err, "Failed to update product")
			return
		}

		if oldImage != "" && product.ImageURL != oldImage {
			if err := images.Remove(oldImage); err != nil {
				logger.Log.WithError(err).WithField("image", oldImage).Warn("failed to remove replaced product image")
			}
		}

		saved, err := loadProduct(db, product.ID)
		if err != nil {
			apperr.Respond(c, err, "Failed to load product")
			return
		}
		c.JSON(http.StatusOK, saved)
	}
}
