package orderControllers

import (
	"context"
	"time"

	"github.com/junaidrashid-git/food-delivery-api/events"
	"github.com/junaidrashid-git/food-delivery-api/logger"
	"github.com/junaidrashid-git/food-delivery-api/models"
	"github.com/junaidrashid-git/food-delivery-api/notify"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Deps is what the order handlers share.
type Deps struct {
	DB          *gorm.DB
	Feed        *Hub
	Events      events.Publisher
	Mailer      notify.Mailer
	DeliveryFee decimal.Decimal
}

// sideEffectTimeout caps how long a request waits on Kafka or SMTP after commit.
const sideEffectTimeout = 10 * time.Second

// announce pushes a committed change to the live feed and the event
// stream. Failures are logged only.
func (d *Deps) announce(ctx context.Context, eventType string, order models.Order) {
	if d.Feed != nil {
		d.Feed.Broadcast(eventType, order)
	}
	if d.Events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()
	if err := d.Events.Publish(ctx, events.NewOrderEvent(eventType, order)); err != nil {
		logger.Log.WithError(err).WithFields(logrus.Fields{
			"event":    eventType,
			"order_id": order.ID,
		}).Warn("failed to publish order event")
	}
}

func (d *Deps) confirm(ctx context.Context, order models.Order) {
	if d.Mailer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()
	if err := d.Mailer.OrderConfirmation(ctx, order); err != nil {
		logger.Log.WithError(err).WithField("order_id", order.ID).Warn("failed to send order confirmation")
	}
}

// withItems preloads the items in submission order, including soft
// deleted products, plus the ordering user.
func withItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User").
		Preload("Items", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position")
		}).
		Preload("Items.Product", func(tx *gorm.DB) *gorm.DB {
			return tx.Unscoped()
		})
}

func loadOrder(db *gorm.DB, id string) (models.Order, error) {
	var order models.Order
	err := withItems(db).First(&order, "id = ?", id).Error
	return order, err
}
