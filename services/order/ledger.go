package order

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/craftcart/commerce-api/apperr"
	"github.com/craftcart/commerce-api/events"
	"github.com/craftcart/commerce-api/metrics"
	"github.com/craftcart/commerce-api/models"
	"github.com/craftcart/commerce-api/services/catalog"
	"github.com/craftcart/commerce-api/services/payment"
)

// Client totals may differ from the server-side recomputation by at most
// one minor currency unit before the order is rejected.
const totalTolerance = 0.01

type Repository interface {
	Create(ctx context.Context, o *models.Order) error
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	// UpdateStatus loads and locks the order, asks decide for the next
	// status, and persists it — all in one transaction.
	UpdateStatus(ctx context.Context, orderID uint, decide func(current models.OrderStatus) (models.OrderStatus, error)) (*models.Order, error)
}

// LineInput is what the client submits at checkout. Only the product
// reference, quantity and customization are taken from it; name and price
// are re-resolved server-side.
type LineInput struct {
	ProductID      uint
	Quantity       int
	CustomText     string
	CustomImageRef string
}

type Ledger struct {
	repo     Repository
	products catalog.Resolver
	sink     events.Sink
	log      *zap.Logger
	metrics  *metrics.Metrics
}

func NewLedger(repo Repository, products catalog.Resolver, sink events.Sink, log *zap.Logger, m *metrics.Metrics) *Ledger {
	if sink == nil {
		sink = events.Noop{}
	}
	return &Ledger{repo: repo, products: products, sink: sink, log: log, metrics: m}
}

// Place creates the immutable order record from a verified payment result
// and the submitted lines. Snapshots come from the catalog at this moment
// and are never re-derived; the client-submitted total is cross-checked
// against the server-side sum and rejected on disagreement.
func (l *Ledger) Place(ctx context.Context, userID string, lines []LineInput, clientTotal float64, addr models.Address, pay payment.Result) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, apperr.New(apperr.KindEmptyOrder, "no products in order")
	}
	if err := validateAddress(addr); err != nil {
		return nil, err
	}

	var total float64
	products := make([]models.OrderLine, 0, len(lines))
	for _, in := range lines {
		if in.Quantity < 1 {
			return nil, apperr.New(apperr.KindBadRequest, "quantity must be at least 1")
		}
		sum, err := l.products.Resolve(ctx, in.ProductID)
		if err != nil {
			return nil, err
		}
		total += sum.Price * float64(in.Quantity)
		products = append(products, models.OrderLine{
			ProductID:      sum.ID,
			Name:           sum.Name,
			Price:          sum.Price,
			Quantity:       in.Quantity,
			CustomText:     in.CustomText,
			CustomImageRef: in.CustomImageRef,
		})
	}

	if math.Abs(total-clientTotal) > totalTolerance {
		l.log.Warn("order total mismatch",
			zap.String("user_id", userID),
			zap.Float64("client_total", clientTotal),
			zap.Float64("server_total", total))
		return nil, apperr.Newf(apperr.KindBadRequest,
			"total amount mismatch: submitted %.2f, expected %.2f", clientTotal, total)
	}

	o := &models.Order{
		UserID:          userID,
		Products:        products,
		TotalAmount:     total,
		PaymentMethod:   pay.Method,
		PaymentStatus:   pay.Status,
		OrderStatus:     models.OrderStatusProcessing,
		PaymentInfo:     pay.Info,
		ShippingAddress: addr,
	}
	if err := l.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	l.metrics.OrderPlaced(string(pay.Method))
	l.log.Info("order placed",
		zap.Uint("order_id", o.ID),
		zap.String("user_id", userID),
		zap.String("payment_method", string(pay.Method)),
		zap.Float64("total_amount", total))

	if err := l.sink.Publish(ctx, events.FromOrder(events.TypeOrderCreated, o)); err != nil {
		l.log.Error("failed to publish order created event",
			zap.Uint("order_id", o.ID), zap.Error(err))
	}
	return o, nil
}

// Transition moves an order's status forward through the state machine.
func (l *Ledger) Transition(ctx context.Context, orderID uint, next models.OrderStatus) (*models.Order, error) {
	o, err := l.repo.UpdateStatus(ctx, orderID, func(current models.OrderStatus) (models.OrderStatus, error) {
		if !current.CanTransition(next) {
			return "", apperr.Newf(apperr.KindInvalidTransition,
				"cannot transition order from %s to %s", current, next)
		}
		return next, nil
	})
	if err != nil {
		return nil, err
	}

	l.log.Info("order status updated",
		zap.Uint("order_id", o.ID), zap.String("status", string(next)))
	if err := l.sink.Publish(ctx, events.FromOrder(events.TypeOrderStatusChanged, o)); err != nil {
		l.log.Error("failed to publish status change event",
			zap.Uint("order_id", o.ID), zap.Error(err))
	}
	return o, nil
}

func (l *Ledger) ListForUser(ctx context.Context, userID string) ([]models.Order, error) {
	return l.repo.ListByUser(ctx, userID)
}

func (l *Ledger) ListAll(ctx context.Context) ([]models.Order, error) {
	return l.repo.ListAll(ctx)
}

func validateAddress(a models.Address) error {
	if a.FullName == "" || a.Line1 == "" || a.City == "" || a.State == "" ||
		a.PostalCode == "" || a.Country == "" || a.Phone == "" {
		return apperr.New(apperr.KindBadRequest, "shipping address is incomplete")
	}
	return nil
}
