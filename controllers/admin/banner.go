package adminController

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

type bannerForm struct {
	Title       string `form:"title" validate:"required,max=120"`
	Description string `form:"description" validate:"max=255"`
	ImageURL    string `form:"imageUrl"`
	IsActive    string `form:"isActive"`
}

// GetActiveBanner returns the newest active banner for the storefront hero.
func GetActiveBanner(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var banner models.Banner
		err := db.Where("is_active = ?", true).Order("created_at DESC").First(&banner).Error
		if err != nil {
			apperr.Respond(c, notFound(err), "Failed to get banner")
			return
		}
		c.JSON(http.StatusOK, banner)
	}
}

// GetBanners lists every banner, newest first.
func GetBanners(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var banners []models.Banner
		if err := db.Order("created_at DESC").Find(&banners).Error; err != nil {
			apperr.Respond(c, err, "Failed to get banners")
			return
		}
		c.JSON(http.StatusOK, banners)
	}
}

// UploadBanner creates a banner from an uploaded "image" or an imageUrl.
func UploadBanner(db *gorm.DB, images *storage.Images) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form bannerForm
		if err := apperr.Bind(c, &form); err != nil {
			apperr.Respond(c, err, "Failed to create banner")
			return
		}

		banner := models.Banner{
			Title:       strings.TrimSpace(form.Title),
			Description: strings.TrimSpace(form.Description),
			ImageURL:    form.ImageURL,
			IsActive:    form.IsActive == "" || form.IsActive == "true" || form.IsActive == "on",
		}

		imageURL, err := images.SaveFromForm(c, "image", "banners")
		if err != nil {
			apperr.Respond(c, err, "Failed to save file")
			return
		}
		if imageURL != "" {
			banner.ImageURL = imageURL
		}
		if banner.ImageURL == "" {
			apperr.Respond(c, apperr.Invalid("image is required"), "")
			return
		}

		if err := db.Create(&banner).Error; err != nil {
			_ = images.Remove(imageURL)
			apperr.Respond(c, err, "DB save failed")
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "Banner uploaded", "data": banner})
	}
}

// DeleteBanner removes the record and, when stored locally, its image.
func DeleteBanner(db *gorm.DB, images *storage.Images) gin.HandlerFunc {
	return func(c *gin.Context) {
		var banner models.Banner
		if err := db.First(&banner, "id = ?", c.Param("id")).Error; err != nil {
			apperr.Respond(c, notFound(err), "Database error")
			return
		}

		if err := db.Delete(&banner).Error; err != nil {
			apperr.Respond(c, err, "Failed to delete from database")
			return
		}

		if err := images.Remove(banner.ImageURL); err != nil {
			logger.Log.WithError(err).WithField("image", banner.ImageURL).Warn("failed to remove banner image")
		}
		c.JSON(http.StatusOK, gin.H{"message": "Banner deleted"})
	}
}

func notFound(err error) error {
	if err == gorm.ErrRecordNotFound {
		return apperr.NotFound("banner")
	}
	return err
}
