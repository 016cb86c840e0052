package checkout

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osikani/kente-storefront-api/internal/cart"
	"github.com/osikani/kente-storefront-api/internal/currency"
	"github.com/osikani/kente-storefront-api/internal/model"
	"github.com/osikani/kente-storefront-api/internal/payment"
)

type mockOrderRepo struct {
	orders  map[uuid.UUID]*model.Order
	failing bool
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[uuid.UUID]*model.Order)}
}

func (m *mockOrderRepo) Create(_ context.Context, order *model.Order) error {
	if m.failing {
		return errors.New("connection reset")
	}
	order.ID = uuid.New()
	saved := *order
	m.orders[order.ID] = &saved
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	return m.orders[id], nil
}

func (m *mockOrderRepo) ListByUserID(_ context.Context, userID uuid.UUID) ([]model.Order, error) {
	var out []model.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) ListAll(_ context.Context) ([]model.Order, error) {
	var out []model.Order
	for _, o := range m.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.OrderStatus) error {
	if o, ok := m.orders[id]; ok {
		o.Status = status
	}
	return nil
}

func (m *mockOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.orders, id)
	return nil
}

type mockGateway struct {
	err          error
	verified     []string
	beforeVerify func()
}

func (g *mockGateway) Verify(_ context.Context, reference string, _ decimal.Decimal, _ currency.Code) error {
	if g.beforeVerify != nil {
		g.beforeVerify()
	}
	if g.err != nil {
		return g.err
	}
	g.verified = append(g.verified, reference)
	return nil
}

func testProduct(name string, usd string) model.Product {
	return model.Product{
		ID:       uuid.New(),
		Name:     name,
		ImageURL: "https://img.example/" + name + ".jpg",
		Price: currency.PriceMap{
			currency.USD: decimal.RequireFromString(usd),
			currency.EUR: decimal.RequireFromString(usd),
			currency.GHS: decimal.RequireFromString(usd),
		},
	}
}

func ghanaAddress() Address {
	return Address{
		FullName: "Ama Serwaa",
		Email:    "ama@example.com",
		Line1:    "123 Heritage Lane",
		City:     "Accra",
		Region:   "Greater Accra",
		Country:  "Ghana",
	}
}

func intlAddress() Address {
	return Address{
		FullName:   "Jane Doe",
		Email:      "jane@example.com",
		Line1:      "1 Main St",
		City:       "Springfield",
		PostalCode: "12345",
		Country:    "USA",
	}
}

type fixture struct {
	orch    *Orchestrator
	repo    *mockOrderRepo
	gateway *mockGateway
	carts   *cart.Store
	userID  uuid.UUID
	now     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:    newMockOrderRepo(),
		gateway: &mockGateway{},
		carts:   cart.NewStore(),
		userID:  uuid.New(),
		now:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.orch = NewOrchestrator(f.carts, f.repo, f.gateway, nil, 15*time.Minute, slog.Default())
	f.orch.now = func() time.Time { return f.now }
	return f
}

func (f *fixture) fillCart() {
	c := f.carts.Cart(f.userID)
	c.AddItem(testProduct("Adwinasa Stole", "75"), 1)
	c.AddItem(testProduct("Sika Futoro Bow Tie", "35"), 2)
}

func TestPlaceDirect_EndToEnd(t *testing.T) {
	f := newFixture(t)
	f.fillCart()

	order, err := f.orch.PlaceDirect(context.Background(), f.userID, intlAddress(), MethodCard, currency.USD)
	require.NoError(t, err)

	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("145")), "total %s", order.TotalAmount)
	assert.Equal(t, currency.USD, order.Currency)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Empty(t, order.PaymentReference)
	require.Len(t, order.Items, 2)
	assert.True(t, order.Items[0].Price.Equal(decimal.NewFromInt(75)))
	assert.True(t, order.Items[1].Price.Equal(decimal.NewFromInt(35)))
	assert.Equal(t, "Jane Doe, 1 Main St, Springfield, 12345, USA", order.ShippingAddress)

	assert.True(t, f.carts.Cart(f.userID).IsEmpty(), "cart cleared after success")
	assert.Len(t, f.repo.orders, 1)
}

func TestPlaceDirect_EmptyCartWritesNothing(t *testing.T) {
	f := newFixture(t)
	_, err := f.orch.PlaceDirect(context.Background(), f.userID, intlAddress(), MethodCard, currency.USD)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, f.repo.orders)
}

func TestPlaceDirect_InvalidFormHasNoNetworkEffect(t *testing.T) {
	f := newFixture(t)
	f.fillCart()

	addr := intlAddress()
	addr.Email = "not-an-email"
	addr.PostalCode = ""

	_, err := f.orch.PlaceDirect(context.Background(), f.userID, addr, MethodCard, currency.USD)
	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "email")
	assert.Contains(t, fieldErrs, "postal_code")
	assert.Empty(t, f.repo.orders)
	assert.Equal(t, 3, f.carts.Cart(f.userID).ItemCount())
}

func TestPlaceDirect_PersistFailureKeepsCart(t *testing.T) {
	f := newFixture(t)
	f.fillCart()
	f.repo.failing = true

	_, err := f.orch.PlaceDirect(context.Background(), f.userID, intlAddress(), MethodCard, currency.USD)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrOrderNotSaved, "direct path failures are ordinary errors")
	assert.Equal(t, 3, f.carts.Cart(f.userID).ItemCount(), "cart retained on failure")
}

func TestPlaceDirect_PriceFreeze(t *testing.T) {
	f := newFixture(t)
	c := f.carts.Cart(f.userID)
	p := testProduct("Adwinasa Stole", "75")
	c.AddItem(p, 1)

	order, err := f.orch.PlaceDirect(context.Background(), f.userID, intlAddress(), MethodPayPal, currency.USD)
	require.NoError(t, err)

	// edit the product after placement; the stored order must not move
	p.Price[currency.USD] = decimal.NewFromInt(999)
	saved := f.repo.orders[order.ID]
	assert.True(t, saved.Items[0].Price.Equal(decimal.NewFromInt(75)))
	assert.True(t, saved.TotalAmount.Equal(decimal.NewFromInt(75)))
}

func TestGateway_ConfirmEndToEnd(t *testing.T) {
	f := newFixture(t)
	f.fillCart()

	session, err := f.orch.BeginGateway(context.Background(), f.userID, ghanaAddress(), MethodMobileMoney, currency.USD)
	require.NoError(t, err)
	assert.True(t, session.Total.Equal(decimal.RequireFromString("145")))
	assert.Equal(t, f.now.Add(15*time.Minute), session.Deadline)
	assert.False(t, f.carts.Cart(f.userID).IsEmpty(), "cart untouched while widget has control")

	order, err := f.orch.ConfirmGateway(context.Background(), f.userID, session.ID, "ref123")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusProcessing, order.Status)
	assert.Equal(t, "ref123", order.PaymentReference)
	assert.Equal(t, MethodMobileMoney, order.PaymentMethod)
	assert.True(t, f.carts.Cart(f.userID).IsEmpty())
	assert.Equal(t, []string{"ref123"}, f.gateway.verified)
}

func TestGateway_CancelLeavesNoTrace(t *testing.T) {
	f := newFixture(t)
	f.fillCart()

	session, err := f.orch.BeginGateway(context.Background(), f.userID, ghanaAddress(), MethodMobileMoney, currency.GHS)
	require.NoError(t, err)

	require.NoError(t, f.orch.CancelGateway(f.userID, session.ID))
	assert.Empty(t, f.repo.orders)
	assert.Equal(t, 3, f.carts.Cart(f.userID).ItemCount())

	_, err = f.orch.ConfirmGateway(context.Background(), f.userID, session.ID, "ref123")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestGateway_EmptyCartCannotBegin(t *testing.T) {
	f := newFixture(t)
	session, err := f.orch.BeginGateway(context.Background(), f.userID, ghanaAddress(), MethodMobileMoney, currency.GHS)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, session)
}

func TestGateway_CancelDuringFailedVerifySticks(t *testing.T) {
	f := newFixture(t)
	f.fillCart()

	session, err := f.orch.BeginGateway(context.Background(), f.userID, ghanaAddress(), MethodMobileMoney, currency.GHS)
	require.NoError(t, err)

	// the user closes the widget while a verify for the same session is
	// still in flight and about to fail
	f.gateway.err = payment.ErrNotConfirmed
	f.gateway.beforeVerify = func() {
		require.NoError(t, f.orch.CancelGateway(f.userID, session.ID))
	}
	_, err = f.orch.ConfirmGateway(context.Background(), f.userID, session.ID, "bad-ref")
	assert.ErrorIs(t, err, payment.ErrNotConfirmed)

	// the failed verify must not bring the cancelled session back
	f.gateway.err = nil
	f.gateway.beforeVerify = nil
	_, err = f.orch.ConfirmGateway(context.Background(), f.userID, session.ID, "ref123")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Empty(t, f.repo.orders)
}

func TestGateway_SessionExpires(t *testing.T) {
	f := newFixture(t)
	f.fillCart()

	session, err := f.orch.BeginGateway(context.Background(), f.userID, ghanaAddress(), MethodMobileMoney, currency.GHS)
	require.NoError(t, err)

	f.now = f.now.Add(16 * time.Minute)
	_, err = f.orch.ConfirmGateway(context.Background(), f.userID, session.ID, "ref123")
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Empty(t, f.repo.orders)
	assert.Equal(t, 3, f.carts.Cart(f.userID).ItemCount())
}

func TestGateway_VerifyFailureKeepsSessionLive(t *testing.T) {
	f := newFixture(t)
	f.fillCart()

	session, err := f.orch.BeginGateway(context.Background(), f.userID, ghanaAddress(), MethodMobileMoney, currency.GHS)
	require.NoError(t, err)

	f.gateway.err = payment.ErrNotConfirmed
	_, err = f.orch.ConfirmGateway(context.Background(), f.userID, session.ID, "bad-ref")
	assert.ErrorIs(t, err, payment.ErrNotConfirmed)

	// a later, genuine confirmation still works
	f.gateway.err = nil
	order, err := f.orch.ConfirmGateway(context.Background(), f.userID, session.ID, "ref123")
	require.NoError(t, err)
	assert.Equal(t, "ref123", order.PaymentReference)
}

func TestGateway_OrderNotSavedAfterConfirmedPayment(t *testing.T) {
	f := newFixture(t)
	f.fillCart()

	session, err := f.orch.BeginGateway(context.Background(), f.userID, ghanaAddress(), MethodMobileMoney, currency.GHS)
	require.NoError(t, err)

	f.repo.failing = true
	_, err = f.orch.ConfirmGateway(context.Background(), f.userID, session.ID, "ref123")
	assert.ErrorIs(t, err, ErrOrderNotSaved)
	assert.Contains(t, err.Error(), "ref123", "reference surfaced for support")
	assert.Equal(t, 3, f.carts.Cart(f.userID).ItemCount(), "cart retained")
}

func TestGateway_SessionOwnership(t *testing.T) {
	f := newFixture(t)
	f.fillCart()

	session, err := f.orch.BeginGateway(context.Background(), f.userID, ghanaAddress(), MethodMobileMoney, currency.GHS)
	require.NoError(t, err)

	stranger := uuid.New()
	_, err = f.orch.ConfirmGateway(context.Background(), stranger, session.ID, "ref123")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, f.orch.CancelGateway(stranger, session.ID), ErrSessionNotFound)
}

func TestUnknownPaymentMethodRejected(t *testing.T) {
	f := newFixture(t)
	f.fillCart()

	_, err := f.orch.PlaceDirect(context.Background(), f.userID, intlAddress(), "Barter", currency.USD)
	assert.ErrorIs(t, err, ErrUnknownPaymentMethod)

	_, err = f.orch.BeginGateway(context.Background(), f.userID, intlAddress(), MethodCard, currency.USD)
	assert.ErrorIs(t, err, ErrUnknownPaymentMethod)
}

func TestAddress_GhanaFieldSet(t *testing.T) {
	addr := ghanaAddress()
	require.NoError(t, addr.Validate(currency.GHS))
	assert.Equal(t, "Ama Serwaa, 123 Heritage Lane, Accra, Greater Accra, Ghana", addr.String())

	addr.Region = ""
	err := addr.Validate(currency.GHS)
	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "region")

	// the same form without a region is fine internationally, given a postal code
	addr.PostalCode = "00233"
	assert.NoError(t, addr.Validate(currency.USD))
}
