package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/food-delivery-api/apperr"
	"github.com/junaidrashid-git/food-delivery-api/models"
	"github.com/junaidrashid-git/food-delivery-api/storage"
	"gorm.io/gorm"
)

// CreateProduct creates a product from the panel form, with an optional image upload.
func CreateProduct(db *gorm.DB, images *storage.Images) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form productForm
		if err := apperr.Bind(c, &form); err != nil {
			apperr.Respond(c, err, "Failed to create product")
			return
		}

		product := models.Product{IsActive: true}
		if err := form.apply(db, &product); err != nil {
			apperr.Respond(c, err, "Failed to create product")
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
			slug, err := uniqueSlug(tx, &models.Product{}, product.Name, "")
			if err != nil {
				return err
			}
			product.Slug = slug
			return tx.Create(&product).Error
		})
		if err != nil {
			_ = images.Remove(imageURL)
			apperr.Respond(c, err, "Failed to create product")
			return
		}

		saved, err := loadProduct(db, product.ID)
		if err != nil {
			apperr.Respond(c, err, "Failed to load product")
			return
		}
		c.JSON(http.StatusCreated, saved)
	}
}
