package orderControllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/food-delivery-api/apperr"
	"github.com/junaidrashid-git/food-delivery-api/events"
	"github.com/junaidrashid-git/food-delivery-api/models"
	"github.com/junaidrashid-git/food-delivery-api/pricing"
	"gorm.io/gorm"
)

type panelProduct struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

// PanelOrderForm is the panel's order payload. products arrives as a JSON
// list inside the form.
type PanelOrderForm struct {
	Name         string         `form:"name" validate:"required,max=100"`
	Address      string         `form:"address" validate:"required,max=200"`
	Phone        string         `form:"phone" validate:"required,max=20"`
	ProductsJSON string         `form:"products" json:"-"`
	Products     []panelProduct `form:"-" json:"products" validate:"min=1,dive"`
}

func bindPanelOrder(c *gin.Context) (PanelOrderForm, error) {
	var form PanelOrderForm
	if err := c.ShouldBind(&form); err != nil {
		return form, apperr.Invalid("invalid request body")
	}
	form.Name = strings.TrimSpace(form.Name)
	form.Address = strings.TrimSpace(form.Address)
	form.Phone = strings.TrimSpace(form.Phone)
	if raw := strings.TrimSpace(form.ProductsJSON); raw != "" {
		if err := json.Unmarshal([]byte(raw), &form.Products); err != nil {
			return form, apperr.Invalid("products must be a JSON list")
		}
	}
	return form, apperr.Validate(form)
}

// price resolves the form's products at catalog prices. Inactive products
// are allowed here; the panel may record any existing product.
func (f PanelOrderForm) price(tx *gorm.DB) ([]pricing.Priced, error) {
	wants := make([]pricing.Want, len(f.Products))
	for i, p := range f.Products {
		wants[i] = pricing.Want{ProductID: p.ProductID, Quantity: p.Quantity}
	}
	return pricing.Resolve(tx, wants, false)
}

// ListOrdersHandler is the panel order list with product categories.
func ListOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		err := withItems(db).
			Preload("Items.Product.Category").
			Order("created_at DESC").
			Find(&orders).Error
		if err != nil {
			apperr.Respond(c, err, "Failed to fetch orders")
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// CreateOrderHandler records an order taken by phone or at the counter.
func CreateOrderHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := bindPanelOrder(c)
		if err != nil {
			apperr.Respond(c, err, "")
			return
		}

		var order models.Order
		err = d.DB.Transaction(func(tx *gorm.DB) error {
			priced, err := form.price(tx)
			if err != nil {
				return err
			}
			order = models.Order{
				CustomerName:  form.Name,
				CustomerPhone: form.Phone,
				Address:       form.Address,
				Total:         pricing.Quote(pricing.Lines(priced), d.DeliveryFee).Total,
				Status:        models.OrderStatusPending,
				Items:         orderItems(priced),
			}
			return tx.Create(&order).Error
		})
		if err != nil {
			apperr.Respond(c, err, "failed to create order")
			return
		}

		order, err = loadOrder(d.DB, order.ID)
		if err != nil {
			apperr.Respond(c, err, "failed to create order")
			return
		}
		d.announce(c.Request.Context(), events.OrderCreated, order)
		c.JSON(http.StatusCreated, order)
	}
}

// UpdateOrderHandler rewrites the order header and replaces all of its items.
func UpdateOrderHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := bindPanelOrder(c)
		if err != nil {
			apperr.Respond(c, err, "")
			return
		}

		id := c.Param("id")
		err = d.DB.Transaction(func(tx *gorm.DB) error {
			var order models.Order
			if err := tx.First(&order, "id = ?", id).Error; err != nil {
				return orderNotFound(err)
			}

			priced, err := form.price(tx)
			if err != nil {
				return err
			}

			if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			items := orderItems(priced)
			for i := range items {
				items[i].OrderID = order.ID
			}
			if err := tx.Create(&items).Error; err != nil {
				return err
			}

			return tx.Model(&order).Updates(map[string]interface{}{
				"customer_name":  form.Name,
				"customer_phone": form.Phone,
				"address":        form.Address,
				"total":          pricing.Quote(pricing.Lines(priced), d.DeliveryFee).Total,
			}).Error
		})
		if err != nil {
			apperr.Respond(c, err, "failed to update order")
			return
		}

		order, err := loadOrder(d.DB, id)
		if err != nil {
			apperr.Respond(c, err, "failed to update order")
			return
		}
		d.announce(c.Request.Context(), events.OrderUpdated, order)
		c.JSON(http.StatusOK, order)
	}
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" form:"status"`
}

// UpdateOrderStatusHandler moves an order to another status.
func UpdateOrderStatusHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateOrderStatusRequest
		if err := c.ShouldBind(&req); err != nil {
			apperr.Respond(c, apperr.Invalid("invalid order status"), "")
			return
		}
		status, err := models.ParseOrderStatus(req.Status)
		if err != nil {
			apperr.Respond(c, apperr.Invalid("invalid order status"), "")
			return
		}

		id := c.Param("id")
		res := d.DB.Model(&models.Order{}).Where("id = ?", id).Update("status", status)
		if res.Error != nil {
			apperr.Respond(c, res.Error, "failed to update order status")
			return
		}
		if res.RowsAffected == 0 {
			apperr.Respond(c, apperr.NotFound("order"), "")
			return
		}

		order, err := loadOrder(d.DB, id)
		if err != nil {
			apperr.Respond(c, err, "failed to update order status")
			return
		}
		d.announce(c.Request.Context(), events.OrderStatusChanged, order)
		c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully", "order": order})
	}
}

// DeleteOrderHandler removes an order and its items.
func DeleteOrderHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var order models.Order
		err := d.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&order, "id = ?", c.Param("id")).Error; err != nil {
				return orderNotFound(err)
			}
			if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			return tx.Delete(&order).Error
		})
		if err != nil {
			apperr.Respond(c, err, "failed to delete order")
			return
		}

		d.announce(c.Request.Context(), events.OrderDeleted, order)
		c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
	}
}

func orderNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("order")
	}
	return err
}
