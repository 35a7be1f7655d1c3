package handler

import (
	"context"
	"net/http"

	"github.com/xela07ax/fleetsim-console/internal/domain"
)

// MetricsProvider Описываем, что нам нужно от сервиса
type MetricsProvider interface {
	KPI(ctx context.Context, r domain.TimeRange) (*domain.KPI, error)
	TrafficSeries(ctx context.Context, r domain.TimeRange) ([]domain.TrafficPoint, error)
	LatencySeries(ctx context.Context, r domain.TimeRange) ([]domain.LatencyPoint, error)
	ActionsBreakdown(ctx context.Context, r domain.TimeRange) (*domain.ActionsBreakdown, error)
	ProfileDistribution(ctx context.Context, r domain.TimeRange) ([]domain.DistributionEntry, error)
	TopErrors(ctx context.Context, r domain.TimeRange) ([]domain.AgentErrors, error)
	Dashboard(ctx context.Context) (*domain.Dashboard, error)
	Activity(ctx context.Context) ([]domain.ActivityItem, error)
}

type MetricsHandler struct {
	service MetricsProvider
}

func NewMetricsHandler(s MetricsProvider) *MetricsHandler {
	return &MetricsHandler{service: s}
}

// rangeToken: нераспознанные значения молча падают в 24h — это
// документированное поведение, а не ошибка валидации.
func rangeToken(r *http.Request) domain.TimeRange {
	return domain.ParseRange(r.URL.Query().Get("range"))
}

func (h *MetricsHandler) KPI(w http.ResponseWriter, r *http.Request) {
	kpi, err := h.service.KPI(r.Context(), rangeToken(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, kpi)
}

func (h *MetricsHandler) Traffic(w http.ResponseWriter, r *http.Request) {
	points, err := h.service.TrafficSeries(r.Context(), rangeToken(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (h *MetricsHandler) Latency(w http.ResponseWriter, r *http.Request) {
	points, err := h.service.LatencySeries(r.Context(), rangeToken(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (h *MetricsHandler) Actions(w http.ResponseWriter, r *http.Request) {
	breakdown, err := h.service.ActionsBreakdown(r.Context(), rangeToken(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}

func (h *MetricsHandler) ProfileDistribution(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ProfileDistribution(r.Context(), rangeToken(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *MetricsHandler) TopErrors(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.TopErrors(r.Context(), rangeToken(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *MetricsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.service.Dashboard(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

func (h *MetricsHandler) Activity(w http.ResponseWriter, r *http.Request) {
	feed, err := h.service.Activity(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, feed)
}
