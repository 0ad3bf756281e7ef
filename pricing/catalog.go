package pricing

import (
	"github.com/junaidrashid-git/food-delivery-api/apperr"
	"github.com/junaidrashid-git/food-delivery-api/models"
	"gorm.io/gorm"
)

// Want is a requested product and quantity, before pricing.
type Want struct {
	ProductID string
	Quantity  int
}

// Priced is a resolved line with the product it was priced from.
type Priced struct {
	Line
	Product models.Product
}

// Resolve prices wants at their current catalog prices, keeping request order.
// Missing products fail the whole set; with activeOnly, so do inactive ones.
func Resolve(db *gorm.DB, wants []Want, activeOnly bool) ([]Priced, error) {
	ids := make([]string, 0, len(wants))
	seen := make(map[string]bool, len(wants))
	for _, w := range wants {
		if w.Quantity < 1 {
			return nil, apperr.Invalid("quantity must be at least 1")
		}
		if !seen[w.ProductID] {
			seen[w.ProductID] = true
			ids = append(ids, w.ProductID)
		}
	}

	var products []models.Product
	if len(ids) > 0 {
		if err := db.Where("id IN ?", ids).Find(&products).Error; err != nil {
			return nil, err
		}
	}
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := make([]Priced, 0, len(wants))
	for _, w := range wants {
		p, ok := byID[w.ProductID]
		if !ok {
			return nil, apperr.Invalid("one or more products were not found")
		}
		if activeOnly && !p.IsActive {
			return nil, apperr.Invalid("%s is not available", p.Name)
		}
		lines = append(lines, Priced{
			Line:    Line{ProductID: p.ID, Price: p.Price, Quantity: w.Quantity},
			Product: p,
		})
	}
	return lines, nil
}

// Lines drops the products from priced lines.
func Lines(priced []Priced) []Line {
	out := make([]Line, len(priced))
	for i, p := range priced {
		out[i] = p.Line
	}
	return out
}
