package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// cartKey is the fixed persistence slot for the session cart.
const cartKey = "cart"

// OrderSubmitter places an order built from cart contents. The cart store
// depends on it so checkout stays decoupled from order persistence.
type OrderSubmitter interface {
	Submit(ctx context.Context, order *domain.Order) (string, error)
}

// CartStore holds the session's cart in memory and mirrors every mutation
// to the KV port under a fixed key. Stock is not enforced at this layer.
type CartStore struct {
	mu     sync.Mutex
	kv     repository.KV
	orders OrderSubmitter
	logger *slog.Logger
	cart   domain.Cart
}

// NewCartStore creates a cart store. Call Load before first use to restore
// the persisted snapshot.
func NewCartStore(kv repository.KV, orders OrderSubmitter, logger *slog.Logger) *CartStore {
	return &CartStore{
		kv:     kv,
		orders: orders,
		logger: logger,
	}
}

// Load restores the cart from its persisted snapshot. A missing key yields
// an empty cart.
func (s *CartStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.kv.Get(ctx, cartKey)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.cart = domain.Cart{}
			return nil
		}
		return fmt.Errorf("load cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return fmt.Errorf("unmarshal cart: %w", err)
	}

	s.cart = cart
	return nil
}

// Add inserts a new entry for the product or increments the existing
// entry's quantity.
func (s *CartStore) Add(ctx context.Context, product *domain.Product, quantity int) error {
	if quantity <= 0 {
		return apperrors.InvalidInput("quantity must be greater than 0")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.cart.FindItemIndex(product.ID); i >= 0 {
		s.cart.Items[i].Quantity += quantity
	} else {
		s.cart.Items = append(s.cart.Items, domain.CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			ImageURL:  product.ImageURL,
			Quantity:  quantity,
		})
	}

	return s.persist(ctx)
}

// Remove deletes the entry unconditionally. Removing an absent product is
// a no-op.
func (s *CartStore) Remove(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.cart.FindItemIndex(productID)
	if i < 0 {
		return nil
	}

	s.cart.Items = append(s.cart.Items[:i], s.cart.Items[i+1:]...)
	return s.persist(ctx)
}

// UpdateQuantity overwrites the entry's quantity. A quantity of zero or
// less removes the entry.
func (s *CartStore) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return s.Remove(ctx, productID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.cart.FindItemIndex(productID)
	if i < 0 {
		return nil
	}

	s.cart.Items[i].Quantity = quantity
	return s.persist(ctx)
}

// Items returns a copy of the current cart entries.
func (s *CartStore) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]domain.CartItem, len(s.cart.Items))
	copy(items, s.cart.Items)
	return items
}

// ItemCount returns the sum of all quantities.
func (s *CartStore) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.ItemCount()
}

// Total returns the cart total in cents, using the already-discounted
// prices captured at add time.
func (s *CartStore) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.TotalAmount()
}

// Contains reports whether the cart has an entry for the product.
func (s *CartStore) Contains(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.FindItemIndex(productID) >= 0
}

// Checkout places an order from the current cart contents. It fails fast,
// before any persistence call, when no user is signed in or the cart is
// empty. The cart is cleared only after the order submission succeeds.
func (s *CartStore) Checkout(ctx context.Context, userID, shippingAddress string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if userID == "" {
		return "", apperrors.Unauthorized("sign in to complete checkout")
	}
	if len(s.cart.Items) == 0 {
		return "", apperrors.InvalidInput("cart is empty")
	}

	now := time.Now().UTC()
	order := &domain.Order{
		UserID:          userID,
		OrderNumber:     domain.NewOrderNumber(now),
		Total:           s.cart.TotalAmount(),
		Status:          domain.OrderStatusPending,
		ShippingAddress: shippingAddress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, item := range s.cart.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	orderID, err := s.orders.Submit(ctx, order)
	if err != nil {
		return "", fmt.Errorf("submit order: %w", err)
	}

	s.cart = domain.Cart{}
	if err := s.kv.Delete(ctx, cartKey); err != nil {
		s.logger.ErrorContext(ctx, "failed to drop persisted cart",
			slog.String("order_id", orderID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "checkout completed",
		slog.String("order_id", orderID),
		slog.String("order_number", order.OrderNumber),
		slog.Int64("total", order.Total),
	)

	return orderID, nil
}

// persist rewrites the full cart snapshot. Callers must hold the mutex.
func (s *CartStore) persist(ctx context.Context) error {
	data, err := json.Marshal(&s.cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := s.kv.Set(ctx, cartKey, data); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}
