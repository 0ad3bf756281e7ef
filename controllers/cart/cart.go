package cartControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/food-delivery-api/apperr"
	"github.com/junaidrashid-git/food-delivery-api/pricing"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CartItemInput struct {
	ProductID string `json:"id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

type QuoteInput struct {
	Items []CartItemInput `json:"items" validate:"dive"`
}

type QuoteLine struct {
	ProductID string          `json:"id"`
	Name      string          `json:"name"`
	ImageURL  string          `json:"imageUrl"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// QuoteCart prices a client-side cart against the catalog.
// POST /api/cart/quote
func QuoteCart(db *gorm.DB, deliveryFee decimal.Decimal) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input QuoteInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperr.Respond(c, apperr.Invalid("invalid cart"), "")
			return
		}
		if err := apperr.Validate(input); err != nil {
			apperr.Respond(c, err, "")
			return
		}

		wants := make([]pricing.Want, len(input.Items))
		for i, item := range input.Items {
			wants[i] = pricing.Want{ProductID: item.ProductID, Quantity: item.Quantity}
		}
		priced, err := pricing.Resolve(db, wants, true)
		if err != nil {
			apperr.Respond(c, err, "Failed to price cart")
			return
		}

		lines := make([]QuoteLine, len(priced))
		for i, p := range priced {
			lines[i] = QuoteLine{
				ProductID: p.ProductID,
				Name:      p.Product.Name,
				ImageURL:  p.Product.ImageURL,
				Price:     p.Price,
				Quantity:  p.Quantity,
				Subtotal:  p.Subtotal(),
			}
		}
		summary := pricing.Quote(pricing.Lines(priced), deliveryFee)

		c.JSON(http.StatusOK, gin.H{
			"items":       lines,
			"itemCount":   summary.ItemCount,
			"subtotal":    summary.Subtotal,
			"deliveryFee": summary.DeliveryFee,
			"total":       summary.Total,
		})
	}
}
