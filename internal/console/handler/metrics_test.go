package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/xela07ax/fleetsim-console/internal/domain"
)

type stubMetricsService struct {
	gotRange domain.TimeRange
}

func (s *stubMetricsService) KPI(ctx context.Context, r domain.TimeRange) (*domain.KPI, error) {
	s.gotRange = r
	return &domain.KPI{OnlineAgents: 5, TotalAgents: 7}, nil
}

func (s *stubMetricsService) TrafficSeries(ctx context.Context, r domain.TimeRange) ([]domain.TrafficPoint, error) {
	s.gotRange = r
	return []domain.TrafficPoint{}, nil
}

func (s *stubMetricsService) LatencySeries(ctx context.Context, r domain.TimeRange) ([]domain.LatencyPoint, error) {
	s.gotRange = r
	return []domain.LatencyPoint{}, nil
}

func (s *stubMetricsService) ActionsBreakdown(ctx context.Context, r domain.TimeRange) (*domain.ActionsBreakdown, error) {
	s.gotRange = r
	return &domain.ActionsBreakdown{Ping: 1, Apply: 2, Stop: 3}, nil
}

func (s *stubMetricsService) ProfileDistribution(ctx context.Context, r domain.TimeRange) ([]domain.DistributionEntry, error) {
	s.gotRange = r
	return []domain.DistributionEntry{}, nil
}

func (s *stubMetricsService) TopErrors(ctx context.Context, r domain.TimeRange) ([]domain.AgentErrors, error) {
	s.gotRange = r
	return []domain.AgentErrors{}, nil
}

func (s *stubMetricsService) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	return &domain.Dashboard{Latest: []domain.Telemetry{}}, nil
}

func (s *stubMetricsService) Activity(ctx context.Context) ([]domain.ActivityItem, error) {
	return []domain.ActivityItem{}, nil
}

func TestMetricsKPIRangeToken(t *testing.T) {
	svc := &stubMetricsService{}
	h := NewMetricsHandler(svc)

	rec := httptest.NewRecorder()
	h.KPI(rec, httptest.NewRequest(http.MethodGet, "/api/v1/metrics/kpi?range=1h", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	if svc.gotRange != domain.Range1h {
		t.Fatalf("want range 1h, got %q", svc.gotRange)
	}

	var kpi domain.KPI
	if err := json.NewDecoder(rec.Body).Decode(&kpi); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if kpi.OnlineAgents != 5 || kpi.TotalAgents != 7 {
		t.Fatalf("unexpected kpi: %+v", kpi)
	}
}

func TestMetricsUnknownRangeFallsBack(t *testing.T) {
	svc := &stubMetricsService{}
	h := NewMetricsHandler(svc)

	rec := httptest.NewRecorder()
	h.Traffic(rec, httptest.NewRequest(http.MethodGet, "/api/v1/metrics/traffic?range=100y", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	if svc.gotRange != domain.Range24h {
		t.Fatalf("unknown range must fall back to 24h, got %q", svc.gotRange)
	}
}

func TestMetricsActionsBreakdownJSONKeys(t *testing.T) {
	svc := &stubMetricsService{}
	h := NewMetricsHandler(svc)

	rec := httptest.NewRecorder()
	h.Actions(rec, httptest.NewRequest(http.MethodGet, "/api/v1/metrics/actions", nil))

	var got map[string]int
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["PING"] != 1 || got["APPLY"] != 2 || got["STOP"] != 3 {
		t.Fatalf("breakdown keys must be PING/APPLY/STOP: %v", got)
	}
}
