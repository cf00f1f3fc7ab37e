// Package kafka publishes order events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/devsuperior/dscommerce/internal/domains/orders/domain"
	"github.com/devsuperior/dscommerce/internal/domains/orders/ports"
)

var _ ports.EventPublisher = (*Publisher)(nil)

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Publisher writes order.placed events.
type Publisher struct {
	writer MessageWriter
}

func NewPublisher(writer MessageWriter) *Publisher {
	return &Publisher{writer: writer}
}

type orderPlacedEvent struct {
	OrderID  int64           `json:"orderId"`
	ClientID int64           `json:"clientId"`
	Moment   time.Time       `json:"moment"`
	Status   string          `json:"status"`
	Items    []eventItem     `json:"items"`
	Total    decimal.Decimal `json:"total"`
}

type eventItem struct {
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

func (p *Publisher) OrderPlaced(ctx context.Context, order *domain.Order) error {
	if p == nil || p.writer == nil || order == nil {
		return nil
	}
	msg, err := buildMessage(order)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func buildMessage(order *domain.Order) (kafka.Message, error) {
	event := orderPlacedEvent{
		OrderID:  order.ID,
		ClientID: order.Client.ID,
		Moment:   order.Moment,
		Status:   string(order.Status),
		Items:    make([]eventItem, 0, len(order.Items)),
		Total:    order.Total(),
	}
	for _, item := range order.Items {
		event.Items = append(event.Items, eventItem{ProductID: item.ProductID, Quantity: item.Quantity, Price: item.Price})
	}
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode order event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(fmt.Sprintf("order.placed.%d", order.ID)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte("order.placed")},
		},
		Time: order.Moment,
	}, nil
}
