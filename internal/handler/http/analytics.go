package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/httputil"
)

// AnalyticsHandler handles HTTP requests for the analytics report.
type AnalyticsHandler struct {
	service *service.AnalyticsService
	logger  *slog.Logger
}

// NewAnalyticsHandler creates a new analytics HTTP handler.
func NewAnalyticsHandler(svc *service.AnalyticsService, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: svc,
		logger:  logger,
	}
}

// GetReport handles GET /api/v1/analytics/report
// @Summary Compute the analytics report for a date range
// @Description Defaults to the trailing 30 days. Set compare=true to include the preceding period's headline figures.
// @Tags analytics
// @Produce json
// @Param start query string false "Range start (YYYY-MM-DD)"
// @Param end query string false "Range end (YYYY-MM-DD)"
// @Param compare query bool false "Include previous-period comparison"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/analytics/report [get]
func (h *AnalyticsHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	rng := domain.ReportRange{
		Start: now.AddDate(0, 0, -29),
		End:   now,
	}

	if v := r.URL.Query().Get("start"); v != "" {
		start, err := time.Parse("2006-01-02", v)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "start must be a date in YYYY-MM-DD form"},
			})
			return
		}
		rng.Start = start
	}
	if v := r.URL.Query().Get("end"); v != "" {
		end, err := time.Parse("2006-01-02", v)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "end must be a date in YYYY-MM-DD form"},
			})
			return
		}
		rng.End = end
	}
	if v := r.URL.Query().Get("compare"); v != "" {
		compare, err := strconv.ParseBool(v)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "compare must be a boolean"},
			})
			return
		}
		rng.Compare = compare
	}

	report, err := h.service.Report(r.Context(), rng)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: report})
}

// InvalidateCache handles POST /api/v1/analytics/cache/invalidate
// @Summary Drop every cached analytics report
// @Tags analytics
// @Success 204 "No Content"
// @Router /api/v1/analytics/cache/invalidate [post]
func (h *AnalyticsHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	h.service.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}
