package events

import (
	"context"
	"time"

	"github.com/craftcart/commerce-api/models"
)

const (
	TypeOrderCreated       = "order.created"
	TypeOrderStatusChanged = "order.status_changed"
)

type Event struct {
	Type          string    `json:"type"`
	OrderID       uint      `json:"order_id"`
	UserID        string    `json:"user_id"`
	OrderStatus   string    `json:"order_status"`
	PaymentStatus string    `json:"payment_status"`
	PaymentMethod string    `json:"payment_method"`
	TotalAmount   float64   `json:"total_amount"`
	Timestamp     time.Time `json:"timestamp"`
}

// Sink receives order lifecycle events. Publishing is best-effort: the
// ledger logs failures but never fails an order write over them.
type Sink interface {
	Publish(ctx context.Context, ev Event) error
}

func FromOrder(eventType string, o *models.Order) Event {
	return Event{
		Type:          eventType,
		OrderID:       o.ID,
		UserID:        o.UserID,
		OrderStatus:   string(o.OrderStatus),
		PaymentStatus: string(o.PaymentStatus),
		PaymentMethod: string(o.PaymentMethod),
		TotalAmount:   o.TotalAmount,
		Timestamp:     time.Now(),
	}
}

// Multi fans one event out to several sinks, returning the first error.
type Multi []Sink

func (m Multi) Publish(ctx context.Context, ev Event) error {
	var first error
	for _, s := range m {
		if err := s.Publish(ctx, ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Noop is used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
