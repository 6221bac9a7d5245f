package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/event"
	"github.com/utafrali/storefront/internal/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// OrderService implements order submission and history reads.
type OrderService struct {
	repo     repository.OrderRepository
	producer event.Publisher
	logger   *slog.Logger
}

// NewOrderService creates an order service.
func NewOrderService(repo repository.OrderRepository, producer event.Publisher, logger *slog.Logger) *OrderService {
	return &OrderService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// Submit writes the order row, then its items, as two dependent calls with
// no shared transaction. If the item write fails the order row stays behind
// without items; there is no compensating delete, and no idempotency key
// guards a retried submission against creating a duplicate order.
func (s *OrderService) Submit(ctx context.Context, order *domain.Order) (string, error) {
	orderID, err := s.repo.InsertOrder(ctx, order)
	if err != nil {
		return "", fmt.Errorf("insert order: %w", err)
	}
	order.ID = orderID

	if err := s.repo.InsertItems(ctx, orderID, order.Items); err != nil {
		s.logger.WarnContext(ctx, "order row written but item insert failed, order left without items",
			slog.String("order_id", orderID),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("insert order items: %w", err)
	}

	if err := s.producer.PublishOrderCreated(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.created event",
			slog.String("order_id", orderID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order submitted",
		slog.String("order_id", orderID),
		slog.String("order_number", order.OrderNumber),
		slog.String("user_id", order.UserID),
	)

	return orderID, nil
}

// History returns the user's orders newest-first with denormalized items.
// An empty history is an empty slice, not an error; the caller decides
// whether to show placeholder content.
func (s *OrderService) History(ctx context.Context, userID string) ([]domain.Order, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("sign in to view orders")
	}

	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// Get retrieves one order scoped to the owning user.
func (s *OrderService) Get(ctx context.Context, id, userID string) (*domain.Order, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("sign in to view orders")
	}

	order, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

// UpdateStatus changes an order's status. Administrative operation.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) error {
	if !domain.IsValidOrderStatus(status) {
		return apperrors.InvalidInput(fmt.Sprintf("invalid order status: %s", status))
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	if err := s.producer.PublishOrderStatusChanged(ctx, id, status); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.status_changed event",
			slog.String("order_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order status updated",
		slog.String("order_id", id),
		slog.String("status", status),
	)

	return nil
}

// UpdateTracking sets an order's tracking number. Administrative operation.
func (s *OrderService) UpdateTracking(ctx context.Context, id, trackingNumber string) error {
	if trackingNumber == "" {
		return apperrors.InvalidInput("tracking number is required")
	}

	if err := s.repo.UpdateTracking(ctx, id, trackingNumber); err != nil {
		return fmt.Errorf("update order tracking: %w", err)
	}

	s.logger.InfoContext(ctx, "order tracking updated",
		slog.String("order_id", id),
	)

	return nil
}
