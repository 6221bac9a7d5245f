package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/sample"
	"github.com/utafrali/storefront/internal/service"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httputil"
	pkgmiddleware "github.com/utafrali/storefront/pkg/middleware"
	"github.com/utafrali/storefront/pkg/validator"
)

// CartHandler handles HTTP requests for the shopping cart.
type CartHandler struct {
	cart      *service.CartStore
	catalog   *service.CatalogService
	analytics *service.AnalyticsService
	logger    *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(cart *service.CartStore, catalog *service.CatalogService, analytics *service.AnalyticsService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		cart:      cart,
		catalog:   catalog,
		analytics: analytics,
		logger:    logger,
	}
}

// AddCartItemRequest is the JSON request body for adding a cart item.
type AddCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// UpdateCartItemRequest is the JSON request body for changing a quantity.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CheckoutRequest is the JSON request body for checkout.
type CheckoutRequest struct {
	ShippingAddress string `json:"shipping_address" validate:"required,min=1"`
}

// CartResponse is the cart representation returned by every cart endpoint.
type CartResponse struct {
	Items     []domain.CartItem `json:"items"`
	Total     int64             `json:"total"`
	ItemCount int               `json:"item_count"`
}

func (h *CartHandler) cartResponse() CartResponse {
	return CartResponse{
		Items:     h.cart.Items(),
		Total:     h.cart.Total(),
		ItemCount: h.cart.ItemCount(),
	}
}

// GetCart handles GET /api/v1/cart
// @Summary Get the current cart
// @Tags cart
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/cart [get]
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.cartResponse()})
}

// AddItem handles POST /api/v1/cart/items
// @Summary Add a product to the cart
// @Description Adds the product or increments its quantity if already present.
// @Tags cart
// @Accept json
// @Produce json
// @Param request body AddCartItemRequest true "Product and quantity"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/cart/items [post]
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddCartItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.lookupProduct(r, req.ProductID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if err := h.cart.Add(r.Context(), product, req.Quantity); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.cartResponse()})
}

// UpdateItem handles PUT /api/v1/cart/items/{productID}
// @Summary Set a cart item's quantity
// @Description A quantity of zero or less removes the item.
// @Tags cart
// @Accept json
// @Produce json
// @Param productID path string true "Product ID"
// @Param request body UpdateCartItemRequest true "New quantity"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/cart/items/{productID} [put]
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	var req UpdateCartItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.cart.UpdateQuantity(r.Context(), productID, req.Quantity); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.cartResponse()})
}

// RemoveItem handles DELETE /api/v1/cart/items/{productID}
// @Summary Remove a product from the cart
// @Description Removing a product that is not in the cart is a no-op.
// @Tags cart
// @Produce json
// @Param productID path string true "Product ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/cart/items/{productID} [delete]
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	if err := h.cart.Remove(r.Context(), productID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.cartResponse()})
}

// Checkout handles POST /api/v1/cart/checkout
// @Summary Place an order from the cart contents
// @Description Requires a signed-in user and a non-empty cart. Clears the cart on success.
// @Tags cart
// @Accept json
// @Produce json
// @Param request body CheckoutRequest true "Shipping address"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/v1/cart/checkout [post]
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	userID := pkgmiddleware.UserIDFromContext(r.Context())
	orderID, err := h.cart.Checkout(r.Context(), userID, req.ShippingAddress)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.analytics.Invalidate()
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{
		Data: map[string]string{"order_id": orderID},
	})
}

// lookupProduct resolves a product from the catalog, falling back to the
// demo products when the catalog does not know the ID. The fallback keeps
// the placeholder catalog browsable end to end.
func (h *CartHandler) lookupProduct(r *http.Request, productID string) (*domain.Product, error) {
	product, err := h.catalog.Get(r.Context(), productID)
	if err == nil {
		return product, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	for _, p := range sample.Products() {
		if p.ID == productID {
			return &p, nil
		}
	}
	return nil, apperrors.NotFound("product", productID)
}
