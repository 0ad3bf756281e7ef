package productcontroller

import (
	"errors"
	"strconv"
	"strings"

	"github.com/junaidrashid-git/food-delivery-api/apperr"
	"github.com/junaidrashid-git/food-delivery-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// productForm is the panel's flat product payload.
type productForm struct {
	Name        string `form:"name" validate:"required,max=100"`
	Description string `form:"description"`
	Price       string `form:"price" validate:"required"`
	CategoryID  string `form:"categoryId" validate:"required"`
	ImageURL    string `form:"imageUrl"`
	IsActive    string `form:"isActive"`
}

// apply copies the validated form onto p. An empty isActive leaves the flag as is.
func (f *productForm) apply(db *gorm.DB, p *models.Product) error {
	price, err := decimal.NewFromString(strings.TrimSpace(f.Price))
	if err != nil {
		return apperr.Invalid("price must be a number")
	}
	if !price.IsPositive() {
		return apperr.Invalid("price must be greater than zero")
	}

	if err := db.Select("id").First(&models.Category{}, "id = ?", f.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Invalid("category not found")
		}
		return err
	}

	if f.IsActive != "" {
		active, err := parseBool(f.IsActive)
		if err != nil {
			return apperr.Invalid("isActive must be true or false")
		}
		p.IsActive = active
	}

	p.Name = strings.TrimSpace(f.Name)
	p.Description = strings.TrimSpace(f.Description)
	p.Price = price.Round(2)
	p.CategoryID = f.CategoryID
	if f.ImageURL != "" {
		p.ImageURL = f.ImageURL
	}
	return nil
}

// parseBool also accepts the "on" an HTML checkbox posts.
func parseBool(s string) (bool, error) {
	if strings.EqualFold(s, "on") {
		return true, nil
	}
	return strconv.ParseBool(s)
}
