package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/trendify/storefront/internal/cart"
	"github.com/trendify/storefront/internal/domain"
	"github.com/trendify/storefront/internal/session"
	"github.com/trendify/storefront/internal/storage"
	"github.com/trendify/storefront/internal/view"
	apperrors "github.com/trendify/storefront/pkg/errors"
	"github.com/trendify/storefront/pkg/tracing"
)

// User-facing messages.
const (
	MsgLoginRequired = "You need to be logged in to proceed with your order."
	MsgInvalidForm   = "Please correct the highlighted fields."
	MsgOrderPlaced   = "Order placed successfully! (This is a demo, no actual order was processed.)"
)

// Submission is the checkout form as posted.
type Submission struct {
	PaymentMethod string            `json:"payment_method"`
	Fields        map[string]string `json:"fields"`
}

// Order is the confirmation of a successful checkout.
type Order struct {
	ID        string            `json:"id"`
	SessionID string            `json:"-"`
	Items     []domain.LineItem `json:"items"`
	ItemCount int               `json:"item_count"`
	Total     decimal.Decimal   `json:"total"`
	PlacedAt  time.Time         `json:"placed_at"`
	Message   string            `json:"message"`
}

// OrderNotifier is told about placed orders. Failures are logged, not returned.
type OrderNotifier interface {
	OrderPlaced(ctx context.Context, order Order) error
}

// Session bundles the per-request collaborators of one client.
type Session struct {
	ID      string
	Storage storage.Adapter
	Cart    *cart.Store
	Auth    *session.Session
}

// Service validates and completes checkouts.
type Service struct {
	validator *Validator
	notifier  OrderNotifier
	logger    *slog.Logger
	now       func() time.Time
}

// NewService creates a checkout service. notifier may be nil.
func NewService(v *Validator, notifier OrderNotifier, logger *slog.Logger) *Service {
	return &Service{validator: v, notifier: notifier, logger: logger, now: time.Now}
}

// CheckField validates a single field as the user types.
func (s *Service) CheckField(field, value string) (FieldState, string, error) {
	if !s.validator.Known(field) {
		return "", "", apperrors.InvalidInput(fmt.Sprintf("unknown checkout field %q", field))
	}
	state, msg := s.validator.Check(field, value)
	return state, msg, nil
}

// Summary renders the order summary for a logged-in session.
func (s *Service) Summary(ctx context.Context, sess Session) (view.OrderSummary, error) {
	if err := sess.Auth.RequireLogin(ctx, MsgLoginRequired); err != nil {
		return view.OrderSummary{}, err
	}
	return view.Summary(sess.Cart.Snapshot()), nil
}

// Submit validates every applicable field. On success the cart is copied to
// lastOrderCart, cleared and an Order is returned. On failure nothing changes
// and the error carries one message per invalid field.
func (s *Service) Submit(ctx context.Context, sess Session, sub Submission) (_ *Order, err error) {
	ctx, span := tracing.Tracer("checkout").Start(ctx, "checkout.Submit")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("checkout.payment_method", sub.PaymentMethod))

	if err := sess.Auth.RequireLogin(ctx, MsgLoginRequired); err != nil {
		return nil, err
	}

	form := s.validator.NewForm(sub.PaymentMethod)
	for field, value := range sub.Fields {
		form.Input(field, value)
	}
	if fields := form.Validate(); len(fields) > 0 {
		span.SetAttributes(attribute.Int("checkout.invalid_fields", len(fields)))
		s.logger.InfoContext(ctx, "checkout rejected", slog.Int("invalid_fields", len(fields)))
		return nil, apperrors.Validation(MsgInvalidForm, fields)
	}

	items := sess.Cart.Snapshot()
	total := sess.Cart.Total()
	count := sess.Cart.ItemCount()

	// lastOrderCart follows the stored cart key: an empty but present cart
	// still overwrites it, an absent one leaves it alone.
	if _, err := sess.Storage.Get(ctx, domain.KeyCart); err == nil {
		if err := storage.SaveJSON(ctx, sess.Storage, domain.KeyLastOrderCart, items); err != nil {
			return nil, fmt.Errorf("save last order: %w", err)
		}
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("read cart: %w", err)
	}
	if err := sess.Cart.Clear(ctx); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	order := &Order{
		ID:        uuid.New().String(),
		SessionID: sess.ID,
		Items:     items,
		ItemCount: count,
		Total:     total,
		PlacedAt:  s.now().UTC(),
		Message:   MsgOrderPlaced,
	}
	span.SetAttributes(attribute.String("order.id", order.ID), attribute.Int("order.item_count", count))

	if s.notifier != nil {
		if err := s.notifier.OrderPlaced(ctx, *order); err != nil {
			s.logger.WarnContext(ctx, "order notification failed",
				slog.String("order_id", order.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID),
		slog.Int("item_count", count),
		slog.String("total", total.StringFixed(2)),
	)
	return order, nil
}

// LastOrder returns the cart captured by the most recent successful checkout.
// A missing or unreadable record yields an empty list.
func (s *Service) LastOrder(ctx context.Context, sess Session) ([]domain.LineItem, error) {
	var items []domain.LineItem
	_, err := storage.LoadJSON(ctx, sess.Storage, domain.KeyLastOrderCart, &items)
	if errors.Is(err, storage.ErrCorrupt) {
		s.logger.WarnContext(ctx, "ignoring unreadable last order", slog.String("error", err.Error()))
		return []domain.LineItem{}, nil
	}
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.LineItem{}
	}
	return items, nil
}
