package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/event"
	"github.com/utafrali/storefront/internal/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// CreateProductInput holds the parameters for adding a catalog entry.
type CreateProductInput struct {
	Name        string   `json:"name" validate:"required,min=1,max=200"`
	Description string   `json:"description"`
	Price       int64    `json:"price" validate:"required,gt=0"`
	Category    string   `json:"category"`
	Stock       int      `json:"stock" validate:"gte=0"`
	ImageURL    string   `json:"image_url"`
	Features    []string `json:"features"`
}

// UpdateProductInput is a sparse update: nil fields are left unchanged.
// DiscountPercent distinguishes three cases: absent (DiscountSet false),
// supplied as null/zero (DiscountSet true, DiscountPercent nil or zero),
// and supplied as a positive percent.
type UpdateProductInput struct {
	Name            *string  `json:"name"`
	Description     *string  `json:"description"`
	Price           *int64   `json:"price"`
	Category        *string  `json:"category"`
	Stock           *int     `json:"stock"`
	ImageURL        *string  `json:"image_url"`
	Features        []string `json:"features"`
	DiscountPercent *int     `json:"discount_percent"`
	DiscountSet     bool     `json:"-"`
}

// CatalogService implements product catalog reads and writes, including the
// discount price derivation.
type CatalogService struct {
	repo     repository.ProductRepository
	producer event.Publisher
	logger   *slog.Logger
}

// NewCatalogService creates a catalog service.
func NewCatalogService(repo repository.ProductRepository, producer event.Publisher, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// List returns all products newest-first. An empty catalog is returned as
// an empty slice; the caller decides whether to show placeholder content.
func (s *CatalogService) List(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// Get retrieves one product by ID.
func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

// Create inserts a new product. New products never carry a discount; the
// supplied price is the base price.
func (s *CatalogService) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	now := time.Now().UTC()
	product := &domain.Product{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		Stock:       input.Stock,
		ImageURL:    input.ImageURL,
		Features:    input.Features,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	if err := s.producer.PublishProductCreated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("name", product.Name),
	)

	return product, nil
}

// Update applies a sparse update. Supplying a discount percent triggers the
// price derivation:
//
//   - positive percent: the base price is the existing original_price if
//     set, else the current price; original_price becomes that base and
//     price becomes base reduced by the percent.
//   - null or zero percent while an original_price exists: price reverts
//     to original_price and both discount columns are cleared.
//
// A percent outside [0, 100] is rejected before any write.
func (s *CatalogService) Update(ctx context.Context, id string, input UpdateProductInput) (*domain.Product, error) {
	if input.DiscountSet && input.DiscountPercent != nil {
		if *input.DiscountPercent < 0 || *input.DiscountPercent > 100 {
			return nil, apperrors.InvalidInput("discount percent must be between 0 and 100")
		}
	}

	patch := repository.ProductPatch{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		Stock:       input.Stock,
		ImageURL:    input.ImageURL,
		Features:    input.Features,
	}

	if input.DiscountSet {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get product for discount update: %w", err)
		}

		if input.DiscountPercent != nil && *input.DiscountPercent > 0 {
			base := current.Price
			if current.OriginalPrice != nil {
				base = *current.OriginalPrice
			}
			salePrice := domain.DiscountedPrice(base, *input.DiscountPercent)

			patch.DiscountPercent = input.DiscountPercent
			patch.OriginalPrice = &base
			patch.Price = &salePrice
		} else if current.OriginalPrice != nil {
			restored := *current.OriginalPrice
			patch.Price = &restored
			patch.ClearOriginal = true
			patch.ClearDiscount = true
		} else {
			patch.ClearDiscount = true
		}
	}

	product, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	if err := s.producer.PublishProductUpdated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", product.ID),
	)

	return product, nil
}

// Delete removes a product unconditionally by ID.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if err := s.producer.PublishProductDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.deleted event",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", id),
	)

	return nil
}
