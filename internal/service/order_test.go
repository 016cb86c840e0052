package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osikani/kente-storefront-api/internal/currency"
	"github.com/osikani/kente-storefront-api/internal/model"
)

type mockOrderRepo struct {
	orders map[uuid.UUID]*model.Order
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[uuid.UUID]*model.Order)}
}

func (m *mockOrderRepo) Create(_ context.Context, order *model.Order) error {
	order.ID = uuid.New()
	m.orders[order.ID] = order
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

func seedOrder(repo *mockOrderRepo, userID uuid.UUID, status model.OrderStatus) *model.Order {
	order := &model.Order{
		ID:          uuid.New(),
		UserID:      userID,
		OrderDate:   time.Now(),
		TotalAmount: decimal.RequireFromString("145.00"),
		Currency:    currency.USD,
		Status:      status,
	}
	repo.orders[order.ID] = order
	return order
}

func TestOrderService_UpdateStatus_LegalMove(t *testing.T) {
	repo := newMockOrderRepo()
	order := seedOrder(repo, uuid.New(), model.OrderStatusPending)
	svc := NewOrderService(repo)

	updated, err := svc.UpdateStatus(context.Background(), order.ID, model.OrderStatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusProcessing, updated.Status)
	assert.Equal(t, model.OrderStatusProcessing, repo.orders[order.ID].Status)
}

func TestOrderService_UpdateStatus_IllegalMove(t *testing.T) {
	repo := newMockOrderRepo()
	order := seedOrder(repo, uuid.New(), model.OrderStatusDelivered)
	svc := NewOrderService(repo)

	_, err := svc.UpdateStatus(context.Background(), order.ID, model.OrderStatusPending)
	assert.ErrorIs(t, err, ErrIllegalStatusChange)
	assert.Equal(t, model.OrderStatusDelivered, repo.orders[order.ID].Status, "status untouched")
}

func TestOrderService_UpdateStatus_NotFound(t *testing.T) {
	svc := NewOrderService(newMockOrderRepo())
	_, err := svc.UpdateStatus(context.Background(), uuid.New(), model.OrderStatusShipped)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_GetByID_Ownership(t *testing.T) {
	repo := newMockOrderRepo()
	owner := uuid.New()
	order := seedOrder(repo, owner, model.OrderStatusPending)
	svc := NewOrderService(repo)

	found, err := svc.GetByID(context.Background(), order.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	_, err = svc.GetByID(context.Background(), order.ID, uuid.New())
	assert.ErrorIs(t, err, ErrOrderAccessDenied)

	_, err = svc.GetByID(context.Background(), uuid.New(), owner)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_ListAllAndDelete(t *testing.T) {
	repo := newMockOrderRepo()
	seedOrder(repo, uuid.New(), model.OrderStatusPending)
	order := seedOrder(repo, uuid.New(), model.OrderStatusShipped)
	svc := NewOrderService(repo)

	all, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, svc.Delete(context.Background(), order.ID))
	all, _ = svc.ListAll(context.Background())
	assert.Len(t, all, 1)
}
