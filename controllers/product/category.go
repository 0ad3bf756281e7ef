package productcontroller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/food-delivery-api/apperr"
	"github.com/junaidrashid-git/food-delivery-api/logger"
	"github.com/junaidrashid-git/food-delivery-api/models"
	"github.com/junaidrashid-git/food-delivery-api/storage"
	"gorm.io/gorm"
)

type categoryForm struct {
	Name     string `form:"name" validate:"required,max=50"`
	Color    string `form:"color" validate:"omitempty,max=20"`
	ImageURL string `form:"imageUrl"`
	IsActive string `form:"isActive"`
}

func (f *categoryForm) apply(cat *models.Category) error {
	if f.IsActive != "" {
		active, err := parseBool(f.IsActive)
		if err != nil {
			return apperr.Invalid("isActive must be true or false")
		}
		cat.IsActive = active
	}
	cat.Name = strings.TrimSpace(f.Name)
	cat.Color = f.Color
	if f.ImageURL != "" {
		cat.ImageURL = f.ImageURL
	}
	return nil
}

// GetCategories returns the active categories for the storefront menu.
func GetCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categories []models.Category
		if err := db.Where("is_active = ?", true).Order("name").Find(&categories).Error; err != nil {
			apperr.Respond(c, err, "Failed to fetch categories")
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

// GetCategoryBySlug returns an active category with its active products.
func GetCategoryBySlug(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.Category
		err := db.Preload("Products", func(tx *gorm.DB) *gorm.DB {
			return tx.Where("is_active = ?", true).Order("name")
		}).Where("slug = ? AND is_active = ?", c.Param("slug"), true).First(&category).Error
		if err != nil {
			apperr.Respond(c, notFound(err, "category"), "Failed to fetch category")
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

// ListCategories returns every category for the panel.
func ListCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categories []models.Category
		if err := db.Order("name").Find(&categories).Error; err != nil {
			apperr.Respond(c, err, "Failed to fetch categories")
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

func CreateCategory(db *gorm.DB, images *storage.Images) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form categoryForm
		if err := apperr.Bind(c, &form); err != nil {
			apperr.Respond(c, err, "Failed to create category")
			return
		}

		category := models.Category{IsActive: true}
		if err := form.apply(&category); err != nil {
			apperr.Respond(c, err, "Failed to create category")
			return
		}

		imageURL, err := images.SaveFromForm(c, "image", "categories")
		if err != nil {
			apperr.Respond(c, err, "Failed to save image")
			return
		}
		if imageURL != "" {
			category.ImageURL = imageURL
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			slug, err := uniqueSlug(tx, &models.Category{}, category.Name, "")
			if err != nil {
				return err
			}
			category.Slug = slug
			return tx.Create(&category).Error
		})
		if err != nil {
			_ = images.Remove(imageURL)
			apperr.Respond(c, err, "Failed to create category")
			return
		}

		c.JSON(http.StatusCreated, category)
	}
}

func UpdateCategory(db *gorm.DB, images *storage.Images) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.Category
		if err := db.First(&category, "id = ?", c.Param("id")).Error; err != nil {
			apperr.Respond(c, notFound(err, "category"), "Failed to fetch category")
			return
		}

		var form categoryForm
		if err := apperr.Bind(c, &form); err != nil {
			apperr.Respond(c, err, "Failed to update category")
			return
		}

		oldName, oldImage := category.Name, category.ImageURL
		if err := form.apply(&category); err != nil {
			apperr.Respond(c, err, "Failed to update category")
			return
		}

		imageURL, err := images.SaveFromForm(c, "image", "categories")
		if err != nil {
			apperr.Respond(c, err, "Failed to save image")
			return
		}
		if imageURL != "" {
			category.ImageURL = imageURL
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if category.Name != oldName {
				slug, err := uniqueSlug(tx, &models.Category{}, category.Name, category.ID)
				if err != nil {
					return err
				}
				category.Slug = slug
			}
			return tx.Save(&category).Error
		})
		if err != nil {
			_ = images.Remove(imageURL)
			apperr.Respond(c, err, "Failed to update category")
			return
		}

		if oldImage != "" && category.ImageURL != oldImage {
			if err := images.Remove(oldImage); err != nil {
				logger.Log.WithError(err).WithField("image", oldImage).Warn("failed to remove replaced category image")
			}
		}

		c.JSON(http.StatusOK, category)
	}
}

// DeleteCategory refuses while any product, soft deleted ones included,
// still references the category.
func DeleteCategory(db *gorm.DB, images *storage.Images) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.Category
		if err := db.First(&category, "id = ?", c.Param("id")).Error; err != nil {
			apperr.Respond(c, notFound(err, "category"), "Failed to fetch category")
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Unscoped().Model(&models.Product{}).Where("category_id = ?", category.ID).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return apperr.Invalid("category has %d product(s) and cannot be deleted", count)
			}
			return tx.Delete(&category).Error
		})
		if err != nil {
			apperr.Respond(c, err, "Failed to delete category")
			return
		}

		if err := images.Remove(category.ImageURL); err != nil {
			logger.Log.WithError(err).WithField("image", category.ImageURL).Warn("failed to remove category image")
		}
		c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
	}
}
