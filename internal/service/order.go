package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/osikani/kente-storefront-api/internal/model"
	"github.com/osikani/kente-storefront-api/internal/repository"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderAccessDenied   = errors.New("access denied")
	ErrIllegalStatusChange = errors.New("illegal status transition")
)

// OrderService covers the customer order-history reads and the admin
// back-office operations. Order creation lives in the checkout package.
type OrderService struct {
	orderRepo repository.OrderRepository
}

func NewOrderService(orderRepo repository.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

func (s *OrderService) GetByID(ctx context.Context, orderID, userID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.UserID != userID {
		return nil, ErrOrderAccessDenied
	}
	return order, nil
}

func (s *OrderService) ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	return s.orderRepo.ListByUserID(ctx, userID)
}

// ListAll is the admin all-customers view.
func (s *OrderService) ListAll(ctx context.Context) ([]model.Order, error) {
	return s.orderRepo.ListAll(ctx)
}

// UpdateStatus applies an admin status change, rejecting moves the
// fulfillment flow forbids (e.g. Delivered back to Pending).
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, next model.OrderStatus) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalStatusChange, order.Status, next)
	}
	if err := s.orderRepo.UpdateStatus(ctx, orderID, next); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	order.Status = next
	return order, nil
}

func (s *OrderService) Delete(ctx context.Context, orderID uuid.UUID) error {
	if err := s.orderRepo.Delete(ctx, orderID); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}
