// Package checkout turns a non-empty cart plus a submitted shipping form
// into exactly one persisted order, clearing the cart only after the order
// is durably saved.
//
// Two paths exist. Direct methods (card, PayPal) place the order immediately
// with status Pending. The Mobile Money path waits on the external widget:
// the cart is frozen into a session, the gateway later reports a reference,
// and only a verified reference places the order, with status Processing.
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"

	"github.com/osikani/kente-storefront-api/internal/cart"
	"github.com/osikani/kente-storefront-api/internal/currency"
	"github.com/osikani/kente-storefront-api/internal/model"
	"github.com/osikani/kente-storefront-api/internal/payment"
	"github.com/osikani/kente-storefront-api/internal/repository"
)

const (
	MethodCard        = "Credit Card (Stripe)"
	MethodPayPal      = "PayPal"
	MethodMobileMoney = "Mobile Money"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
	ErrSessionNotFound      = errors.New("checkout session not found")
	ErrSessionExpired       = errors.New("checkout session expired")

	// ErrOrderNotSaved is the elevated-severity case: the gateway confirmed
	// the payment but the order record failed to persist. Callers must relay
	// it verbatim rather than invite a blind retry, which could double-charge.
	ErrOrderNotSaved = errors.New("payment succeeded but the order could not be saved; contact support")
)

// GatewaySession is a checkout frozen while the external payment widget has
// control. Items and total are snapshotted when the session is created so the
// amount the widget charges is exactly the amount the order will record.
type GatewaySession struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Address  Address
	Currency currency.Code
	Items    []model.OrderItem
	Total    decimal.Decimal
	Deadline time.Time
}

type Orchestrator struct {
	carts   *cart.Store
	orders  repository.OrderRepository
	gateway payment.Gateway
	amqpCh  *amqp.Channel
	log     *slog.Logger

	gatewayTTL time.Duration
	now        func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*GatewaySession
	// confirming holds sessions a ConfirmGateway call has taken but not yet
	// resolved; cancelled tombstones those the user cancelled meanwhile.
	confirming map[uuid.UUID]*GatewaySession
	cancelled  map[uuid.UUID]struct{}
}

func NewOrchestrator(
	carts *cart.Store,
	orders repository.OrderRepository,
	gateway payment.Gateway,
	amqpCh *amqp.Channel,
	gatewayTTL time.Duration,
	log *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		carts:      carts,
		orders:     orders,
		gateway:    gateway,
		amqpCh:     amqpCh,
		log:        log,
		gatewayTTL: gatewayTTL,
		now:        time.Now,
		sessions:   make(map[uuid.UUID]*GatewaySession),
		confirming: make(map[uuid.UUID]*GatewaySession),
		cancelled:  make(map[uuid.UUID]struct{}),
	}
}

func DirectMethod(method string) bool {
	return method == MethodCard || method == MethodPayPal
}

// PlaceDirect validates the form, snapshots the cart, and persists the order
// with status Pending in one step. The cart is cleared only on success.
func (o *Orchestrator) PlaceDirect(ctx context.Context, userID uuid.UUID, addr Address, method string, code currency.Code) (*model.Order, error) {
	if !DirectMethod(method) {
		return nil, ErrUnknownPaymentMethod
	}
	if err := addr.Validate(code); err != nil {
		return nil, err
	}

	c := o.carts.Cart(userID)
	items, total, err := freeze(c, code)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		UserID:          userID,
		OrderDate:       o.now().UTC(),
		TotalAmount:     total,
		Currency:        code,
		ShippingAddress: addr.String(),
		PaymentMethod:   method,
		Status:          model.OrderStatusPending,
		Items:           items,
	}
	if err := o.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}

	c.Clear()
	o.publishPlaced(ctx, order)
	return order, nil
}

// BeginGateway validates the form and freezes the cart into a session, then
// hands control to the external widget. No order exists yet.
func (o *Orchestrator) BeginGateway(ctx context.Context, userID uuid.UUID, addr Address, method string, code currency.Code) (*GatewaySession, error) {
	if method != MethodMobileMoney {
		return nil, ErrUnknownPaymentMethod
	}
	if err := addr.Validate(code); err != nil {
		return nil, err
	}

	items, total, err := freeze(o.carts.Cart(userID), code)
	if err != nil {
		return nil, err
	}

	session := &GatewaySession{
		ID:       uuid.New(),
		UserID:   userID,
		Address:  addr,
		Currency: code,
		Items:    items,
		Total:    total,
		Deadline: o.now().Add(o.gatewayTTL),
	}

	o.mu.Lock()
	o.sessions[session.ID] = session
	o.mu.Unlock()

	return session, nil
}

// ConfirmGateway verifies the widget's reference with the gateway and places
// the order from the frozen session with status Processing. A persistence
// failure after a verified payment returns ErrOrderNotSaved and leaves the
// cart untouched for operator follow-up.
func (o *Orchestrator) ConfirmGateway(ctx context.Context, userID, sessionID uuid.UUID, reference string) (*model.Order, error) {
	session, err := o.takeSession(userID, sessionID)
	if err != nil {
		return nil, err
	}

	if err := o.gateway.Verify(ctx, reference, session.Total, session.Currency); err != nil {
		// Not confirmed: the session stays live until it expires or the
		// user cancels, so a slow widget can still complete.
		o.restoreSession(session)
		return nil, fmt.Errorf("verify payment: %w", err)
	}

	order := &model.Order{
		UserID:           session.UserID,
		OrderDate:        o.now().UTC(),
		TotalAmount:      session.Total,
		Currency:         session.Currency,
		ShippingAddress:  session.Address.String(),
		PaymentMethod:    MethodMobileMoney,
		Status:           model.OrderStatusProcessing,
		Items:            session.Items,
		PaymentReference: reference,
	}
	if err := o.orders.Create(ctx, order); err != nil {
		o.log.Error("order write failed after confirmed payment",
			"user_id", userID, "reference", reference, "error", err)
		o.finishSession(session.ID)
		return nil, fmt.Errorf("%w (reference %s)", ErrOrderNotSaved, reference)
	}

	o.finishSession(session.ID)
	o.carts.Cart(userID).Clear()
	o.publishPlaced(ctx, order)
	return order, nil
}

// CancelGateway handles the widget's close signal: the session is dropped
// and nothing else happens. No order, no cart mutation. A cancel that lands
// while a confirm holds the session tombstones it, so a failed verify cannot
// resurrect what the user already closed.
func (o *Orchestrator) CancelGateway(userID, sessionID uuid.UUID) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if session, ok := o.sessions[sessionID]; ok && session.UserID == userID {
		delete(o.sessions, sessionID)
		return nil
	}
	if session, ok := o.confirming[sessionID]; ok && session.UserID == userID {
		o.cancelled[sessionID] = struct{}{}
		return nil
	}
	return ErrSessionNotFound
}

// takeSession moves the session into the confirming set, enforcing ownership
// and the gateway deadline. Expired sessions are discarded on access; there
// is no background sweeper.
func (o *Orchestrator) takeSession(userID, sessionID uuid.UUID) (*GatewaySession, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	session, ok := o.sessions[sessionID]
	if !ok || session.UserID != userID {
		return nil, ErrSessionNotFound
	}
	delete(o.sessions, sessionID)
	if o.now().After(session.Deadline) {
		return nil, ErrSessionExpired
	}
	o.confirming[session.ID] = session
	return session, nil
}

// restoreSession puts a session back after a failed verify, unless the user
// cancelled it while the verify was in flight.
func (o *Orchestrator) restoreSession(session *GatewaySession) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.confirming, session.ID)
	if _, ok := o.cancelled[session.ID]; ok {
		delete(o.cancelled, session.ID)
		return
	}
	o.sessions[session.ID] = session
}

func (o *Orchestrator) finishSession(id uuid.UUID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.confirming, id)
	delete(o.cancelled, id)
}

// freeze snapshots the cart's lines and subtotal in the active currency.
// Prices are read here and never recomputed; later product edits cannot
// reach into a placed order.
func freeze(c *cart.Cart, code currency.Code) ([]model.OrderItem, decimal.Decimal, error) {
	lines := c.Items()
	if len(lines) == 0 {
		return nil, decimal.Zero, ErrEmptyCart
	}

	items := make([]model.OrderItem, 0, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		unit := line.Product.Price.Amount(code)
		items = append(items, model.OrderItem{
			ProductID: line.Product.ID,
			Name:      line.Product.Name,
			Quantity:  line.Quantity,
			Price:     unit,
			ImageURL:  line.Product.ImageURL,
		})
		total = total.Add(unit.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return items, total, nil
}

func (o *Orchestrator) publishPlaced(ctx context.Context, order *model.Order) {
	if o.amqpCh == nil {
		return
	}
	msg, _ := json.Marshal(model.OrderPlacedMessage{OrderID: order.ID, UserID: order.UserID})
	err := o.amqpCh.PublishWithContext(ctx, "", "orders", false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         msg,
		DeliveryMode: amqp.Persistent,
	})
	if err != nil {
		o.log.Error("publish order placed event", "order_id", order.ID, "error", err)
	}
}
