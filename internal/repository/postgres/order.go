package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/repository"
	"github.com/utafrali/storefront/pkg/database"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// OrderRepository implements repository.OrderRepository using PostgreSQL.
//
// InsertOrder and InsertItems deliberately run outside any shared
// transaction: a failure between them leaves an order row without items.
type OrderRepository struct {
	pool database.DBTX
}

// NewOrderRepository creates a PostgreSQL-backed order repository.
func NewOrderRepository(pool database.DBTX) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// InsertOrder writes the order row and returns the generated identifier.
func (r *OrderRepository) InsertOrder(ctx context.Context, o *domain.Order) (string, error) {
	query := `
		INSERT INTO orders (user_id, order_number, total, status, shipping_address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	var id string
	err := r.pool.QueryRow(ctx, query,
		o.UserID,
		o.OrderNumber,
		o.Total,
		o.Status,
		o.ShippingAddress,
		o.CreatedAt,
		o.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert order: %w", err)
	}

	return id, nil
}

// InsertItems writes one row per line item referencing orderID.
func (r *OrderRepository) InsertItems(ctx context.Context, orderID string, items []domain.OrderItem) error {
	query := `
		INSERT INTO order_items (order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4)`

	for _, item := range items {
		if _, err := r.pool.Exec(ctx, query,
			orderID,
			item.ProductID,
			item.Quantity,
			item.Price,
		); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	return nil
}

// ListByUser returns a user's orders newest-first, each with its items
// denormalized with product name and image via a follow-up query per order.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	query := `
		SELECT id, user_id, order_number, total, status, shipping_address, tracking_number, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	orders, err := scanOrders(rows)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := r.listItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return orders, nil
}

// GetByID retrieves one order with denormalized items, scoped to the owner.
func (r *OrderRepository) GetByID(ctx context.Context, id, userID string) (*domain.Order, error) {
	query := `
		SELECT id, user_id, order_number, total, status, shipping_address, tracking_number, created_at, updated_at
		FROM orders
		WHERE id = $1 AND user_id = $2`

	var o domain.Order
	err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&o.ID,
		&o.UserID,
		&o.OrderNumber,
		&o.Total,
		&o.Status,
		&o.ShippingAddress,
		&o.TrackingNumber,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	items, err := r.listItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items

	return &o, nil
}

// ListBetween returns orders created within [start, end], without items.
func (r *OrderRepository) ListBetween(ctx context.Context, start, end time.Time) (orders []domain.Order, err error) {
	query := `
		SELECT id, user_id, order_number, total, status, shipping_address, tracking_number, created_at, updated_at
		FROM orders
		WHERE created_at >= $1 AND created_at <= $2
		ORDER BY created_at DESC`

	ctx, done := database.TraceQuery(ctx, "ListOrdersBetween", query)
	defer func() { done(err) }()

	rows, err := r.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("list orders in range: %w", err)
	}

	return scanOrders(rows)
}

// ListItemsBetween returns line items of orders created within [start, end],
// joined to products for display fields.
func (r *OrderRepository) ListItemsBetween(ctx context.Context, start, end time.Time) (sales []repository.ItemSale, err error) {
	query := `
		SELECT oi.order_id, o.created_at, oi.product_id,
		       COALESCE(p.name, ''), COALESCE(p.category, ''), COALESCE(p.image_url, ''),
		       oi.quantity, oi.price
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE o.created_at >= $1 AND o.created_at <= $2`

	ctx, done := database.TraceQuery(ctx, "ListOrderItemsBetween", query)
	defer func() { done(err) }()

	rows, err := r.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("list order items in range: %w", err)
	}
	defer rows.Close()

	sales = []repository.ItemSale{}
	for rows.Next() {
		var s repository.ItemSale
		if err := rows.Scan(
			&s.OrderID,
			&s.OrderCreatedAt,
			&s.ProductID,
			&s.ProductName,
			&s.Category,
			&s.ImageURL,
			&s.Quantity,
			&s.Price,
		); err != nil {
			return nil, fmt.Errorf("scan item sale row: %w", err)
		}
		sales = append(sales, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate item sale rows: %w", err)
	}

	return sales, nil
}

// UpdateStatus changes an order's status.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE id = $3`

	ct, err := r.pool.Exec(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("order", id)
	}

	return nil
}

// UpdateTracking sets an order's tracking number.
func (r *OrderRepository) UpdateTracking(ctx context.Context, id, trackingNumber string) error {
	query := `
		UPDATE orders
		SET tracking_number = $1, updated_at = $2
		WHERE id = $3`

	ct, err := r.pool.Exec(ctx, query, trackingNumber, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update order tracking: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("order", id)
	}

	return nil
}

// listItems loads an order's items joined to the catalog for name and image.
func (r *OrderRepository) listItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	query := `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price,
		       COALESCE(p.name, ''), COALESCE(p.image_url, '')
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	items := []domain.OrderItem{}
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Quantity,
			&item.Price,
			&item.ProductName,
			&item.ProductImage,
		); err != nil {
			return nil, fmt.Errorf("scan order item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order item rows: %w", err)
	}

	return items, nil
}

// scanOrders drains a multi-row orders query.
func scanOrders(rows pgx.Rows) ([]domain.Order, error) {
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID,
			&o.UserID,
			&o.OrderNumber,
			&o.Total,
			&o.Status,
			&o.ShippingAddress,
			&o.TrackingNumber,
			&o.CreatedAt,
			&o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, nil
}
