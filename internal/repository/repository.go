package repository

import (
	"context"
	"time"

	"github.com/utafrali/storefront/internal/domain"
)

// KV is the typed persistence port backing the cart and wishlist stores.
// Implementations return apperrors.ErrNotFound from Get when the key is
// absent. Values are opaque JSON blobs; no versioning or migration of the
// stored shape is performed.
type KV interface {
	// Get returns the value stored under key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, overwriting any existing value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the key. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error
}

// ProductPatch is a sparse update payload for a product. Only non-nil
// fields are written. ClearOriginal and ClearDiscount set their columns to
// NULL, since a nil pointer alone cannot distinguish "leave unchanged"
// from "clear".
type ProductPatch struct {
	Name            *string
	Description     *string
	Price           *int64
	OriginalPrice   *int64
	ClearOriginal   bool
	DiscountPercent *int
	ClearDiscount   bool
	Category        *string
	Stock           *int
	ImageURL        *string
	Features        []string
}

// ProductRepository defines catalog persistence operations.
type ProductRepository interface {
	// List returns all products newest-first. An empty catalog yields an
	// empty slice, not an error.
	List(ctx context.Context) ([]domain.Product, error)

	// GetByID retrieves a product by its identifier.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// Create inserts a new product and fills in its generated fields.
	Create(ctx context.Context, product *domain.Product) error

	// Update applies a sparse patch and returns the updated row.
	Update(ctx context.Context, id string, patch ProductPatch) (*domain.Product, error)

	// Delete removes a product unconditionally by identifier.
	Delete(ctx context.Context, id string) error
}

// OrderRepository defines order persistence operations. Inserting an order
// and its items are separate calls with no shared transaction; a failure
// between them leaves the order row without items.
type OrderRepository interface {
	// InsertOrder writes the order row and returns its generated ID.
	InsertOrder(ctx context.Context, order *domain.Order) (string, error)

	// InsertItems writes one row per line item referencing orderID.
	InsertItems(ctx context.Context, orderID string, items []domain.OrderItem) error

	// ListByUser returns a user's orders newest-first with their items,
	// each item denormalized with product name and image.
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)

	// GetByID retrieves one order with denormalized items, scoped to the
	// owning user.
	GetByID(ctx context.Context, id, userID string) (*domain.Order, error)

	// ListBetween returns orders created within [start, end].
	ListBetween(ctx context.Context, start, end time.Time) ([]domain.Order, error)

	// ListItemsBetween returns line items of orders created within
	// [start, end], denormalized with product name, category, and image.
	ListItemsBetween(ctx context.Context, start, end time.Time) ([]ItemSale, error)

	// UpdateStatus changes an order's status.
	UpdateStatus(ctx context.Context, id, status string) error

	// UpdateTracking sets an order's tracking number.
	UpdateTracking(ctx context.Context, id, trackingNumber string) error
}

// ItemSale is a line item row flattened for analytics: the sale facts plus
// the parent order's creation time and the product's display fields.
type ItemSale struct {
	OrderID        string
	OrderCreatedAt time.Time
	ProductID      string
	ProductName    string
	Category       string
	ImageURL       string
	Quantity       int
	Price          int64
}

// ProfileRepository defines read access to registered user profiles.
type ProfileRepository interface {
	// List returns all profiles.
	List(ctx context.Context) ([]domain.Profile, error)
}
