package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/mmynk/billcal/internal/analytics"
	"github.com/mmynk/billcal/internal/models"
	"github.com/mmynk/billcal/internal/recommend"
)

// recommendationQuery is the reporting window page similarity is computed over.
var recommendationQuery = analytics.Query{Period: "month", Date: "today"}

// PageSource provides analytics reports. *analytics.Client implements it.
type PageSource interface {
	Overview(ctx context.Context, q analytics.Query) (*analytics.Overview, error)
	PageViews(ctx context.Context, q analytics.Query) ([]models.PageView, error)
}

// AnalyticsHandler serves the plain JSON endpoints under /api.
type AnalyticsHandler struct {
	source   PageSource
	overview analytics.Query
}

// NewAnalyticsHandler creates the handler. overview is the reporting window
// of /api/matomo.
func NewAnalyticsHandler(source PageSource, overview analytics.Query) *AnalyticsHandler {
	return &AnalyticsHandler{source: source, overview: overview}
}

// RecommendationsResponse is the body of /api/recommendations.
type RecommendationsResponse struct {
	Recommendations []recommend.PageSimilarity `json:"recommendations"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Matomo serves GET /api/matomo: the latest visit summary plus all country
// and page rows of the configured window.
func (h *AnalyticsHandler) Matomo(w http.ResponseWriter, r *http.Request) {
	ov, err := h.source.Overview(r.Context(), h.overview)
	if errors.Is(err, analytics.ErrDisabled) {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "Analytics is not configured"})
		return
	}
	if err != nil {
		slog.Error("Analytics overview failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to fetch analytics data"})
		return
	}
	writeJSON(w, http.StatusOK, ov)
}

// Recommendations serves GET /api/recommendations: the three pages most
// similar to each tracked page.
func (h *AnalyticsHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	pages, err := h.source.PageViews(r.Context(), recommendationQuery)
	if errors.Is(err, analytics.ErrDisabled) {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "Analytics is not configured"})
		return
	}
	if err != nil {
		slog.Error("Recommendations failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to generate recommendations"})
		return
	}

	recs := recommend.Recommend(pages, recommend.DefaultLimit)
	slog.Info("Recommendations generated", "pages", len(recs))
	writeJSON(w, http.StatusOK, RecommendationsResponse{Recommendations: recs})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to encode response", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
