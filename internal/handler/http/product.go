package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/sample"
	"github.com/utafrali/storefront/internal/service"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/validator"
)

// ProductHandler handles HTTP requests for catalog endpoints.
type ProductHandler struct {
	service   *service.CatalogService
	analytics *service.AnalyticsService
	logger    *slog.Logger
}

// NewProductHandler creates a new catalog HTTP handler. The analytics
// service is invalidated after catalog writes so reports pick them up.
func NewProductHandler(svc *service.CatalogService, analytics *service.AnalyticsService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service:   svc,
		analytics: analytics,
		logger:    logger,
	}
}

// UpdateProductRequest is the JSON request body for updating a product.
// All fields are optional; discount_percent distinguishes an absent field
// from an explicit null via the raw message check in the handler.
type UpdateProductRequest struct {
	Name            *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Description     *string  `json:"description"`
	Price           *int64   `json:"price" validate:"omitempty,gt=0"`
	Category        *string  `json:"category"`
	Stock           *int     `json:"stock" validate:"omitempty,gte=0"`
	ImageURL        *string  `json:"image_url"`
	Features        []string `json:"features"`
	DiscountPercent *int     `json:"discount_percent"`
}

// ListProductsResponse wraps the catalog list. Placeholder is true when
// the catalog is empty and demo products are served instead.
type ListProductsResponse struct {
	Products    any  `json:"products"`
	Placeholder bool `json:"placeholder,omitempty"`
}

// ListProducts handles GET /api/v1/products
// @Summary List all products
// @Description Returns all products newest-first. An empty catalog yields demo placeholder products.
// @Tags products
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/products [get]
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	// The empty-catalog fallback is a presentation decision made here, not
	// in the data layer. API consumers can tell from the placeholder flag.
	if len(products) == 0 {
		httputil.WriteJSON(w, http.StatusOK, httputil.Response{
			Data: ListProductsResponse{Products: sample.Products(), Placeholder: true},
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: ListProductsResponse{Products: products},
	})
}

// GetProduct handles GET /api/v1/products/{id}
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Param id path string true "Product UUID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/products/{id} [get]
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := httputil.ParseUUID(w, id); !ok {
		return
	}

	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// CreateProduct handles POST /api/v1/products
// @Summary Create a product
// @Tags products
// @Accept json
// @Produce json
// @Param request body service.CreateProductInput true "Product to create"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/products [post]
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var input service.CreateProductInput
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.Create(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.analytics.Invalidate()
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: product})
}

// UpdateProduct handles PUT /api/v1/products/{id}
// @Summary Update a product
// @Description Partially updates a product. Setting discount_percent derives the sale price; null or zero restores the original price.
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product UUID"
// @Param request body UpdateProductRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/products/{id} [put]
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := httputil.ParseUUID(w, id); !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	req, discountSet, err := decodeUpdateProduct(r)
	if err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	input := service.UpdateProductInput{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		Category:        req.Category,
		Stock:           req.Stock,
		ImageURL:        req.ImageURL,
		Features:        req.Features,
		DiscountPercent: req.DiscountPercent,
		DiscountSet:     discountSet,
	}

	product, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.analytics.Invalidate()
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// DeleteProduct handles DELETE /api/v1/products/{id}
// @Summary Delete a product
// @Tags products
// @Param id path string true "Product UUID"
// @Success 204 "No Content"
// @Router /api/v1/products/{id} [delete]
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := httputil.ParseUUID(w, id); !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.analytics.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}

// decodeUpdateProduct decodes the sparse update body. It reports whether
// the discount_percent key appeared at all, since an explicit null and an
// absent key request different behavior.
func decodeUpdateProduct(r *http.Request) (UpdateProductRequest, bool, error) {
	var req UpdateProductRequest

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return req, false, apperrors.InvalidInput("failed to read request body")
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(body, &keys); err != nil {
		return req, false, apperrors.InvalidInput("invalid request body: " + err.Error())
	}
	_, discountSet := keys["discount_percent"]

	if err := json.Unmarshal(body, &req); err != nil {
		return req, false, apperrors.InvalidInput("invalid request body: " + err.Error())
	}
	if err := validator.Validate(req); err != nil {
		return req, false, err
	}

	return req, discountSet, nil
}
