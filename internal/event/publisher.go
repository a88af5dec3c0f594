// Package event publishes storefront activity to Kafka.
package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trendify/storefront/internal/cart"
	"github.com/trendify/storefront/internal/checkout"
	"github.com/trendify/storefront/pkg/kafka"
	"github.com/trendify/storefront/pkg/logger"
)

// Topics and event types.
const (
	TopicCart   = "storefront.cart"
	TopicOrders = "storefront.orders"

	TypeCartUpdated = "storefront.cart.updated"
	TypeOrderPlaced = "storefront.order.placed"

	source = "storefront"
)

// Publisher is satisfied by *kafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *kafka.Event) error
}

// CartUpdated is the payload of TypeCartUpdated.
type CartUpdated struct {
	Op        string `json:"op"`
	ItemID    string `json:"item_id,omitempty"`
	ItemCount int    `json:"item_count"`
	Total     string `json:"total"`
}

// OrderPlaced is the payload of TypeOrderPlaced.
type OrderPlaced struct {
	OrderID   string `json:"order_id"`
	ItemCount int    `json:"item_count"`
	Total     string `json:"total"`
	Lines     []Line `json:"lines"`
}

// Line is one ordered product.
type Line struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

// Producer turns cart and checkout activity into Kafka events.
type Producer struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewProducer creates an event producer.
func NewProducer(p Publisher, logger *slog.Logger) *Producer {
	return &Producer{publisher: p, logger: logger}
}

// CartListener returns a cart.Listener that publishes TypeCartUpdated for
// sessionID after each mutation. Publish errors are logged.
func (p *Producer) CartListener(sessionID string, store *cart.Store) cart.Listener {
	return func(ctx context.Context, ev cart.ChangeEvent) {
		payload := CartUpdated{
			Op:        string(ev.Op),
			ItemID:    ev.ItemID,
			ItemCount: store.ItemCount(),
			Total:     store.Total().StringFixed(2),
		}
		if err := p.publish(ctx, TopicCart, TypeCartUpdated, sessionID, "cart", payload); err != nil {
			p.logger.WarnContext(ctx, "cart event not published",
				slog.String("op", string(ev.Op)),
				slog.String("error", err.Error()),
			)
		}
	}
}

// OrderPlaced implements checkout.OrderNotifier.
func (p *Producer) OrderPlaced(ctx context.Context, order checkout.Order) error {
	payload := OrderPlaced{
		OrderID:   order.ID,
		ItemCount: order.ItemCount,
		Total:     order.Total.StringFixed(2),
		Lines:     make([]Line, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		payload.Lines = append(payload.Lines, Line{
			ProductID: item.ID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
		})
	}
	return p.publish(ctx, TopicOrders, TypeOrderPlaced, order.SessionID, "order", payload)
}

func (p *Producer) publish(ctx context.Context, topic, eventType, sessionID, subject string, payload any) error {
	ev, err := kafka.NewEvent(eventType, sessionID, subject, source, payload)
	if err != nil {
		return fmt.Errorf("build %s event: %w", eventType, err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		ev.WithCorrelationID(id)
	}
	return p.publisher.Publish(ctx, topic, ev)
}

// Noop discards every event. It is used when Kafka is disabled.
type Noop struct{}

// Publish implements Publisher.
func (Noop) Publish(context.Context, string, *kafka.Event) error { return nil }
