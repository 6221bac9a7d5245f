package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/repository"
	"github.com/utafrali/storefront/pkg/database"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	pool database.DBTX
}

// NewProductRepository creates a PostgreSQL-backed product repository.
func NewProductRepository(pool database.DBTX) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = `id, name, description, price, original_price, discount_percent, category, stock, image_url, features, created_at, updated_at`

// List returns all products newest-first. An empty catalog yields an empty
// slice.
func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		ORDER BY created_at DESC`, productColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProductRow(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, nil
}

// GetByID retrieves a product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE id = $1`, productColumns)

	var (
		p            domain.Product
		featuresJSON []byte
	)

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.OriginalPrice,
		&p.DiscountPercent,
		&p.Category,
		&p.Stock,
		&p.ImageURL,
		&featuresJSON,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	if featuresJSON != nil {
		if err := json.Unmarshal(featuresJSON, &p.Features); err != nil {
			return nil, fmt.Errorf("unmarshal features: %w", err)
		}
	}

	return &p, nil
}

// Create inserts a new product.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	featuresJSON, err := json.Marshal(p.Features)
	if err != nil {
		return fmt.Errorf("marshal features: %w", err)
	}

	query := `
		INSERT INTO products (id, name, description, price, original_price, discount_percent, category, stock, image_url, features, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = r.pool.Exec(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		p.Price,
		p.OriginalPrice,
		p.DiscountPercent,
		p.Category,
		p.Stock,
		p.ImageURL,
		featuresJSON,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("product", "id", p.ID)
		}
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

// Update applies a sparse patch, writing only the supplied fields, and
// returns the updated row.
func (r *ProductRepository) Update(ctx context.Context, id string, patch repository.ProductPatch) (*domain.Product, error) {
	var (
		sets     []string
		args     []any
		argIndex = 1
	)

	set := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Price != nil {
		set("price", *patch.Price)
	}
	if patch.ClearOriginal {
		sets = append(sets, "original_price = NULL")
	} else if patch.OriginalPrice != nil {
		set("original_price", *patch.OriginalPrice)
	}
	if patch.ClearDiscount {
		sets = append(sets, "discount_percent = NULL")
	} else if patch.DiscountPercent != nil {
		set("discount_percent", *patch.DiscountPercent)
	}
	if patch.Category != nil {
		set("category", *patch.Category)
	}
	if patch.Stock != nil {
		set("stock", *patch.Stock)
	}
	if patch.ImageURL != nil {
		set("image_url", *patch.ImageURL)
	}
	if patch.Features != nil {
		featuresJSON, err := json.Marshal(patch.Features)
		if err != nil {
			return nil, fmt.Errorf("marshal features: %w", err)
		}
		set("features", featuresJSON)
	}

	set("updated_at", time.Now().UTC())

	query := fmt.Sprintf(`
		UPDATE products
		SET %s
		WHERE id = $%d
		RETURNING %s`,
		strings.Join(sets, ", "), argIndex, productColumns,
	)
	args = append(args, id)

	var (
		p            domain.Product
		featuresJSON []byte
	)

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.OriginalPrice,
		&p.DiscountPercent,
		&p.Category,
		&p.Stock,
		&p.ImageURL,
		&featuresJSON,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("update product: %w", err)
	}

	if featuresJSON != nil {
		if err := json.Unmarshal(featuresJSON, &p.Features); err != nil {
			return nil, fmt.Errorf("unmarshal features: %w", err)
		}
	}

	return &p, nil
}

// Delete removes a product unconditionally by its ID.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", id)
	}

	return nil
}

// scanProductRow scans one product row from a multi-row query.
func scanProductRow(rows pgx.Rows) (*domain.Product, error) {
	var (
		p            domain.Product
		featuresJSON []byte
	)

	if err := rows.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.OriginalPrice,
		&p.DiscountPercent,
		&p.Category,
		&p.Stock,
		&p.ImageURL,
		&featuresJSON,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("scan product row: %w", err)
	}

	if featuresJSON != nil {
		if err := json.Unmarshal(featuresJSON, &p.Features); err != nil {
			return nil, fmt.Errorf("unmarshal features: %w", err)
		}
	}

	return &p, nil
}

// isUniqueViolation checks for a PostgreSQL unique constraint violation
// (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
