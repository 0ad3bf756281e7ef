// Package events publishes order lifecycle events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/junaidrashid-git/food-delivery-api/logger"
	"github.com/junaidrashid-git/food-delivery-api/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	OrderCreated       = "order.created"
	OrderUpdated       = "order.updated"
	OrderStatusChanged = "order.status_changed"
	OrderDeleted       = "order.deleted"
)

// OrderEvent is the message value; the order id is the message key so all
// events of one order land on the same partition.
type OrderEvent struct {
	Type       string             `json:"type"`
	OrderID    string             `json:"orderId"`
	Status     models.OrderStatus `json:"status,omitempty"`
	Total      decimal.Decimal    `json:"total"`
	ItemCount  int                `json:"itemCount"`
	UserID     *string            `json:"userId,omitempty"`
	OccurredAt time.Time          `json:"occurredAt"`
}

// NewOrderEvent summarises order for eventType.
func NewOrderEvent(eventType string, order models.Order) OrderEvent {
	count := 0
	for _, item := range order.Items {
		count += item.Quantity
	}
	return OrderEvent{
		Type:       eventType,
		OrderID:    order.ID,
		Status:     order.Status,
		Total:      order.Total,
		ItemCount:  count,
		UserID:     order.UserID,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
	Close() error
}

// KafkaPublisher sends events with a sarama SyncProducer.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaPublisher connects a producer that waits for all in-sync replicas.
func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Timeout = 5 * time.Second
	config.Net.DialTimeout = 5 * time.Second
	config.Net.ReadTimeout = 5 * time.Second
	config.Net.WriteTimeout = 5 * time.Second

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to start Sarama producer: %w", err)
	}
	logger.Log.WithField("brokers", brokers).Info("Kafka producer connected")
	return NewPublisher(producer, topic), nil
}

func NewPublisher(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

type sendResult struct {
	partition int32
	offset    int64
	err       error
}

// Publish returns when the broker acknowledges or ctx is done, whichever
// comes first. A send abandoned on ctx still completes in the background.
func (p *KafkaPublisher) Publish(ctx context.Context, event OrderEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event.Type, err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.OrderID),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(event.Type)},
		},
	}
	done := make(chan sendResult, 1)
	go func() {
		partition, offset, err := p.producer.SendMessage(msg)
		done <- sendResult{partition, offset, err}
	}()

	var res sendResult
	select {
	case res = <-done:
	case <-ctx.Done():
		return fmt.Errorf("%s event to %s: %w", event.Type, p.topic, ctx.Err())
	}
	if res.err != nil {
		return fmt.Errorf("failed to send %s event to %s: %w", event.Type, p.topic, res.err)
	}
	logger.Log.WithFields(logrus.Fields{
		"topic":     p.topic,
		"partition": res.partition,
		"offset":    res.offset,
		"event":     event.Type,
		"order_id":  event.OrderID,
	}).Debug("order event published")
	return nil
}

func (p *KafkaPublisher) Close() error { return p.producer.Close() }

// Noop drops every event. Used when no brokers are configured.
type Noop struct{}

func (Noop) Publish(context.Context, OrderEvent) error { return nil }
func (Noop) Close() error                              { return nil }

// New returns a Kafka publisher, or Noop when brokers is empty.
func New(brokers []string, topic string) (Publisher, error) {
	if len(brokers) == 0 {
		return Noop{}, nil
	}
	return NewKafkaPublisher(brokers, topic)
}
