package orderControllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/food-delivery-api/apperr"
	"github.com/junaidrashid-git/food-delivery-api/events"
	"github.com/junaidrashid-git/food-delivery-api/middleware"
	"github.com/junaidrashid-git/food-delivery-api/models"
	"github.com/junaidrashid-git/food-delivery-api/pricing"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// -------- Requests --------

type PlaceOrderItem struct {
	ProductID string           `json:"id" validate:"required"`
	Name      string           `json:"name"`
	Quantity  int              `json:"quantity" validate:"gte=1"`
	Price     *decimal.Decimal `json:"price"`
}

type PlaceOrderRequest struct {
	CustomerName  string           `json:"customerName" validate:"max=100"`
	CustomerEmail string           `json:"customerEmail" validate:"email"`
	CustomerPhone string           `json:"customerPhone" validate:"max=20"`
	Items         []PlaceOrderItem `json:"items" validate:"dive"`
	Total         *decimal.Decimal `json:"total"`
	UserID        string           `json:"userId"`
}

// check runs the presence checks, then the field rules.
func (r *PlaceOrderRequest) check() error {
	r.CustomerName = strings.TrimSpace(r.CustomerName)
	r.CustomerEmail = strings.TrimSpace(r.CustomerEmail)
	r.CustomerPhone = strings.TrimSpace(r.CustomerPhone)

	if r.CustomerName == "" || r.CustomerEmail == "" || r.CustomerPhone == "" ||
		r.Items == nil || r.Total == nil || r.Total.IsZero() {
		return apperr.Invalid("incomplete order data")
	}
	if len(r.Items) == 0 {
		return apperr.Invalid("cart is empty")
	}
	return apperr.Validate(r)
}

// -------- Core Logic --------

// PlaceOrder validates the checkout and writes the order with its items in
// one transaction. sessionUserID, when set, wins over the body's userId.
// Nothing is written unless every check passes.
func PlaceOrder(db *gorm.DB, req PlaceOrderRequest, sessionUserID string, deliveryFee decimal.Decimal) (models.Order, error) {
	if err := req.check(); err != nil {
		return models.Order{}, err
	}

	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		wants := make([]pricing.Want, len(req.Items))
		for i, item := range req.Items {
			wants[i] = pricing.Want{ProductID: item.ProductID, Quantity: item.Quantity}
		}
		priced, err := pricing.Resolve(tx, wants, true)
		if err != nil {
			return err
		}

		for i, p := range priced {
			if posted := req.Items[i].Price; posted != nil && !posted.Equal(p.Price) {
				return apperr.Invalid("price of %s has changed", p.Product.Name)
			}
		}

		summary := pricing.Quote(pricing.Lines(priced), deliveryFee)
		if !req.Total.Equal(summary.Total) {
			return apperr.Invalid("order total does not match: expected %s", summary.Total.StringFixed(2))
		}

		userID, err := actingUser(tx, sessionUserID, req.UserID)
		if err != nil {
			return err
		}

		order = models.Order{
			CustomerName:  req.CustomerName,
			CustomerEmail: req.CustomerEmail,
			CustomerPhone: req.CustomerPhone,
			Total:         summary.Total,
			Status:        models.OrderStatusPending,
			UserID:        userID,
			Items:         orderItems(priced),
		}
		return tx.Create(&order).Error
	})
	if err != nil {
		return models.Order{}, err
	}

	return loadOrder(db, order.ID)
}

// actingUser picks the session user, else the body's userId. Either must
// exist; a bearer token can outlive its user.
func actingUser(tx *gorm.DB, sessionUserID, bodyUserID string) (*string, error) {
	userID := sessionUserID
	if userID == "" {
		userID = bodyUserID
	}
	if userID == "" {
		return nil, nil
	}
	var user models.User
	if err := tx.Select("id").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Invalid("user not found")
		}
		return nil, err
	}
	return &user.ID, nil
}

func orderItems(priced []pricing.Priced) []models.OrderItem {
	items := make([]models.OrderItem, len(priced))
	for i, p := range priced {
		items[i] = models.OrderItem{
			ProductID: p.ProductID,
			Quantity:  p.Quantity,
			Price:     p.Price,
			Position:  i,
		}
	}
	return items
}

// -------- Handlers --------

// PlaceOrderHandler is the storefront checkout.
// POST /api/orders
func PlaceOrderHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperr.Respond(c, apperr.Invalid("incomplete order data"), "")
			return
		}

		sessionUserID, _ := middleware.UserID(c)
		order, err := PlaceOrder(d.DB, req, sessionUserID, d.DeliveryFee)
		if err != nil {
			apperr.Respond(c, err, "failed to process order")
			return
		}

		d.announce(c.Request.Context(), events.OrderCreated, order)
		d.confirm(c.Request.Context(), order)

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"order": gin.H{
				"id":           order.ID,
				"customerName": order.CustomerName,
				"total":        order.Total,
				"status":       order.Status,
				"createdAt":    order.CreatedAt,
			},
		})
	}
}

// GetAllOrdersHandler lists every order, newest first.
// GET /api/orders/all
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := withItems(db).Order("created_at DESC").Find(&orders).Error; err != nil {
			apperr.Respond(c, err, "Failed to fetch orders")
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GetMyOrdersHandler lists the session user's orders, newest first.
// GET /api/orders/my-orders
func GetMyOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		var orders []models.Order
		err := db.
			Preload("Items", func(tx *gorm.DB) *gorm.DB {
				return tx.Order("position")
			}).
			Preload("Items.Product", func(tx *gorm.DB) *gorm.DB {
				return tx.Unscoped().Select("id", "name", "image_url")
			}).
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Find(&orders).Error
		if err != nil {
			apperr.Respond(c, err, "failed to fetch orders")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
	}
}
