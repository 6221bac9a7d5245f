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

// WishlistHandler handles HTTP requests for the wishlist. Every store call
// carries the caller's identity, so guests and signed-in users operate on
// separate lists.
type WishlistHandler struct {
	wishlist *service.WishlistStore
	catalog  *service.CatalogService
	logger   *slog.Logger
}

// NewWishlistHandler creates a new wishlist HTTP handler.
func NewWishlistHandler(wishlist *service.WishlistStore, catalog *service.CatalogService, logger *slog.Logger) *WishlistHandler {
	return &WishlistHandler{
		wishlist: wishlist,
		catalog:  catalog,
		logger:   logger,
	}
}

// AddWishlistItemRequest is the JSON request body for saving a product.
type AddWishlistItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

// WishlistResponse is the wishlist representation returned by every
// wishlist endpoint.
type WishlistResponse struct {
	Identity string                `json:"identity"`
	Items    []domain.WishlistItem `json:"items"`
}

func wishlistResponse(userID string, items []domain.WishlistItem) WishlistResponse {
	if items == nil {
		items = []domain.WishlistItem{}
	}
	return WishlistResponse{
		Identity: service.WishlistIdentity(userID),
		Items:    items,
	}
}

// GetWishlist handles GET /api/v1/wishlist
// @Summary Get the caller's wishlist
// @Tags wishlist
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/wishlist [get]
func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	userID := pkgmiddleware.UserIDFromContext(r.Context())

	items, err := h.wishlist.Items(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: wishlistResponse(userID, items)})
}

// AddItem handles POST /api/v1/wishlist/items
// @Summary Save a product to the wishlist
// @Description Saving an already-saved product is a no-op.
// @Tags wishlist
// @Accept json
// @Produce json
// @Param request body AddWishlistItemRequest true "Product to save"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/wishlist/items [post]
func (h *WishlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddWishlistItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	userID := pkgmiddleware.UserIDFromContext(r.Context())

	product, err := h.lookupProduct(r, req.ProductID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	items, err := h.wishlist.Add(r.Context(), userID, product)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: wishlistResponse(userID, items)})
}

// RemoveItem handles DELETE /api/v1/wishlist/items/{productID}
// @Summary Remove a product from the wishlist
// @Tags wishlist
// @Produce json
// @Param productID path string true "Product ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/wishlist/items/{productID} [delete]
func (h *WishlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID := pkgmiddleware.UserIDFromContext(r.Context())

	productID := chi.URLParam(r, "productID")
	items, err := h.wishlist.Remove(r.Context(), userID, productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: wishlistResponse(userID, items)})
}

// Clear handles DELETE /api/v1/wishlist
// @Summary Remove every product from the wishlist
// @Tags wishlist
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/wishlist [delete]
func (h *WishlistHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID := pkgmiddleware.UserIDFromContext(r.Context())

	if err := h.wishlist.Clear(r.Context(), userID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: wishlistResponse(userID, nil)})
}

func (h *WishlistHandler) lookupProduct(r *http.Request, productID string) (*domain.Product, error) {
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
