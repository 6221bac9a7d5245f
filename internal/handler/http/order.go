package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/sample"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/httputil"
	pkgmiddleware "github.com/utafrali/storefront/pkg/middleware"
	"github.com/utafrali/storefront/pkg/validator"
)

// OrderHandler handles HTTP requests for order endpoints.
type OrderHandler struct {
	service   *service.OrderService
	analytics *service.AnalyticsService
	logger    *slog.Logger
}

// NewOrderHandler creates a new order HTTP handler.
func NewOrderHandler(svc *service.OrderService, analytics *service.AnalyticsService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		service:   svc,
		analytics: analytics,
		logger:    logger,
	}
}

// UpdateOrderStatusRequest is the JSON request body for a status change.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateTrackingRequest is the JSON request body for setting a tracking
// number.
type UpdateTrackingRequest struct {
	TrackingNumber string `json:"tracking_number" validate:"required,min=1"`
}

// ListOrdersResponse wraps the order history. Placeholder is true when the
// user has no orders and demo orders are served instead.
type ListOrdersResponse struct {
	Orders      []domain.Order `json:"orders"`
	Placeholder bool           `json:"placeholder,omitempty"`
}

// ListOrders handles GET /api/v1/orders
// @Summary List the caller's orders
// @Description Returns the user's orders newest-first. An empty history yields demo placeholder orders.
// @Tags orders
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/v1/orders [get]
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID := pkgmiddleware.UserIDFromContext(r.Context())

	orders, err := h.service.History(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	// Like the catalog, the empty-history fallback is decided here. The
	// static dataset is still filtered by the caller's identity, so only
	// the demo user ever sees placeholder orders.
	if len(orders) == 0 {
		demo := sample.OrdersFor(userID)
		httputil.WriteJSON(w, http.StatusOK, httputil.Response{
			Data: ListOrdersResponse{Orders: demo, Placeholder: len(demo) > 0},
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: ListOrdersResponse{Orders: orders},
	})
}

// GetOrder handles GET /api/v1/orders/{id}
// @Summary Get one of the caller's orders
// @Tags orders
// @Produce json
// @Param id path string true "Order UUID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/orders/{id} [get]
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := httputil.ParseUUID(w, id); !ok {
		return
	}

	userID := pkgmiddleware.UserIDFromContext(r.Context())
	order, err := h.service.Get(r.Context(), id, userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}

// UpdateStatus handles PATCH /api/v1/admin/orders/{id}/status
// @Summary Change an order's status
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Order UUID"
// @Param request body UpdateOrderStatusRequest true "New status"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/admin/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := httputil.ParseUUID(w, id); !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.service.UpdateStatus(r.Context(), id, req.Status); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.analytics.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}

// UpdateTracking handles PATCH /api/v1/admin/orders/{id}/tracking
// @Summary Set an order's tracking number
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Order UUID"
// @Param request body UpdateTrackingRequest true "Tracking number"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/admin/orders/{id}/tracking [patch]
func (h *OrderHandler) UpdateTracking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := httputil.ParseUUID(w, id); !ok {
		return
	}

	var req UpdateTrackingRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.service.UpdateTracking(r.Context(), id, req.TrackingNumber); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
