package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/xela07ax/fleetsim-console/internal/domain"
	"go.uber.org/zap"
)

// MetricsRepository — read-only контракт агрегатора. Реализация не имеет
// права мутировать хранилище; все методы — чистые выборки.
type MetricsRepository interface {
	CountAgents(ctx context.Context) (total, online int, err error)
	CountAuditAction(ctx context.Context, action string, since time.Time) (int, error)
	KPIAggregates(ctx context.Context, since time.Time) (samples, errorsSum int64, avgLatency float64, err error)
	TelemetrySince(ctx context.Context, since time.Time) ([]domain.Telemetry, error)
	AuditEventsSince(ctx context.Context, since time.Time) ([]domain.AuditEvent, error)
	ApplyCountsByProfile(ctx context.Context, since time.Time) ([]domain.ProfileApplyCount, error)
	ErrorTotalsByAgent(ctx context.Context, since time.Time, limit int) ([]domain.AgentErrorTotal, error)
	ListProfiles(ctx context.Context) ([]domain.Profile, error)
	LatestTelemetry(ctx context.Context, limit int) ([]domain.Telemetry, error)
	LatestAuditEvents(ctx context.Context, limit int) ([]domain.AuditEvent, error)
}

// MetricsService — read-side вычисления поверх снимка хранилища.
// Детерминирован при фиксированном состоянии базы и фиксированном now.
type MetricsService struct {
	repo   MetricsRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewMetricsService(repo MetricsRepository, logger *zap.Logger) *MetricsService {
	return &MetricsService{
		repo:   repo,
		logger: logger.Named("metrics-service"),
		now:    time.Now,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// KPI — сводка панели. Счетчик деплоев всегда за скользящие 24 часа,
// независимо от выбранного окна.
func (s *MetricsService) KPI(ctx context.Context, r domain.TimeRange) (*domain.KPI, error) {
	now := s.now()

	total, online, err := s.repo.CountAgents(ctx)
	if err != nil {
		return nil, fmt.Errorf("metrics: agent counts: %w", err)
	}

	deploys, err := s.repo.CountAuditAction(ctx, domain.ActionApplyProfile, now.Add(-24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("metrics: deploy count: %w", err)
	}

	samples, errorsSum, avgLatency, err := s.repo.KPIAggregates(ctx, r.Start(now))
	if err != nil {
		return nil, fmt.Errorf("metrics: kpi aggregates: %w", err)
	}

	// Знаменатель прижат к 1: пустое окно дает rate 0, а не деление на ноль
	denom := samples
	if denom == 0 {
		denom = 1
	}

	return &domain.KPI{
		OnlineAgents:     online,
		TotalAgents:      total,
		Deployments24h:   deploys,
		ErrorRatePer1000: round2(float64(errorsSum) * 1000 / float64(denom)),
		AvgLatency:       round2(avgLatency),
	}, nil
}

// TrafficSeries — минутные бакеты трафика в порядке первого появления.
// Выборка приходит отсортированной по ts, поэтому порядок хронологический.
func (s *MetricsService) TrafficSeries(ctx context.Context, r domain.TimeRange) ([]domain.TrafficPoint, error) {
	rows, err := s.repo.TelemetrySince(ctx, r.Start(s.now()))
	if err != nil {
		return nil, fmt.Errorf("metrics: traffic rows: %w", err)
	}

	index := make(map[string]int)
	points := make([]domain.TrafficPoint, 0)
	for _, row := range rows {
		key := row.TS.Format("2006-01-02 15:04")
		i, ok := index[key]
		if !ok {
			i = len(points)
			index[key] = i
			points = append(points, domain.TrafficPoint{TS: key})
		}
		points[i].BytesIn += row.BytesIn
		points[i].BytesOut += row.BytesOut
		points[i].LatencyTotal += int64(row.LatencyMS)
		points[i].Count++
	}
	return points, nil
}

// LatencySeries выводится из бакетов трафика; бакеты без выборок опускаются.
func (s *MetricsService) LatencySeries(ctx context.Context, r domain.TimeRange) ([]domain.LatencyPoint, error) {
	traffic, err := s.TrafficSeries(ctx, r)
	if err != nil {
		return nil, err
	}

	points := make([]domain.LatencyPoint, 0, len(traffic))
	for _, bucket := range traffic {
		if bucket.Count == 0 {
			continue
		}
		points = append(points, domain.LatencyPoint{
			TS:        bucket.TS,
			LatencyMS: round2(float64(bucket.LatencyTotal) / float64(bucket.Count)),
		})
	}
	return points, nil
}

// ActionsBreakdown — счетчики действий аудита за окно. PING — префикс,
// APPLY/STOP — точные совпадения; одно событие может попасть в два бакета.
func (s *MetricsService) ActionsBreakdown(ctx context.Context, r domain.TimeRange) (*domain.ActionsBreakdown, error) {
	rows, err := s.repo.AuditEventsSince(ctx, r.Start(s.now()))
	if err != nil {
		return nil, fmt.Errorf("metrics: audit rows: %w", err)
	}

	result := &domain.ActionsBreakdown{}
	for _, row := range rows {
		if strings.HasPrefix(row.Action, "PING") {
			result.Ping++
		}
		if row.Action == domain.ActionApplyProfile {
			result.Apply++
		}
		if row.Action == domain.ActionStopProfile {
			result.Stop++
		}
	}
	return result, nil
}

// ProfileDistribution — применения профилей за окно: топ-5 по убыванию,
// остаток схлопывается в синтетический "other".
func (s *MetricsService) ProfileDistribution(ctx context.Context, r domain.TimeRange) ([]domain.DistributionEntry, error) {
	counts, err := s.repo.ApplyCountsByProfile(ctx, r.Start(s.now()))
	if err != nil {
		return nil, fmt.Errorf("metrics: apply counts: %w", err)
	}

	profiles, err := s.repo.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("metrics: profile names: %w", err)
	}
	names := make(map[int64]string, len(profiles))
	for _, p := range profiles {
		names[p.ID] = p.Name
	}

	named := make([]domain.DistributionEntry, 0, len(counts))
	for _, c := range counts {
		if c.ProfileID == nil {
			continue
		}
		label, ok := names[*c.ProfileID]
		if !ok {
			label = "unknown"
		}
		named = append(named, domain.DistributionEntry{Label: label, Value: c.Count})
	}

	sort.SliceStable(named, func(i, j int) bool { return named[i].Value > named[j].Value })

	if len(named) > 5 {
		var other int64
		for _, e := range named[5:] {
			other += e.Value
		}
		named = append(named[:5], domain.DistributionEntry{Label: "other", Value: other})
	}
	return named, nil
}

// TopErrors — топ-5 агентов по суммарным ошибкам окна.
func (s *MetricsService) TopErrors(ctx context.Context, r domain.TimeRange) ([]domain.AgentErrors, error) {
	totals, err := s.repo.ErrorTotalsByAgent(ctx, r.Start(s.now()), 5)
	if err != nil {
		return nil, fmt.Errorf("metrics: error totals: %w", err)
	}

	result := make([]domain.AgentErrors, 0, len(totals))
	for _, t := range totals {
		name := fmt.Sprintf("agent-%d", t.AgentID)
		if t.AgentName != nil {
			name = *t.AgentName
		}
		result = append(result, domain.AgentErrors{Agent: name, Errors: t.Errors})
	}
	return result, nil
}

// Dashboard — payload главной страницы: KPI(24h) + последняя телеметрия.
func (s *MetricsService) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	kpi, err := s.KPI(ctx, domain.Range24h)
	if err != nil {
		return nil, err
	}
	latest, err := s.repo.LatestTelemetry(ctx, 10)
	if err != nil {
		return nil, fmt.Errorf("metrics: latest telemetry: %w", err)
	}
	if latest == nil {
		latest = []domain.Telemetry{}
	}
	return &domain.Dashboard{KPI: *kpi, Latest: latest}, nil
}

// Activity — объединенная лента: хвосты аудита и телеметрии,
// новые первыми, не больше 50 строк.
func (s *MetricsService) Activity(ctx context.Context) ([]domain.ActivityItem, error) {
	events, err := s.repo.LatestAuditEvents(ctx, 25)
	if err != nil {
		return nil, fmt.Errorf("metrics: latest audit: %w", err)
	}
	telemetry, err := s.repo.LatestTelemetry(ctx, 25)
	if err != nil {
		return nil, fmt.Errorf("metrics: latest telemetry: %w", err)
	}

	merged := make([]domain.ActivityItem, 0, len(events)+len(telemetry))
	for _, e := range events {
		details := e.Details
		if details == "" {
			details = e.Username
		}
		merged = append(merged, domain.ActivityItem{TS: e.TS, Type: "audit", Action: e.Action, Details: details})
	}
	for _, t := range telemetry {
		merged = append(merged, domain.ActivityItem{
			TS:      t.TS,
			Type:    "telemetry",
			Action:  t.Scenario,
			Details: fmt.Sprintf("lat=%d err=%d", t.LatencyMS, t.Errors),
		})
	}

	sort.SliceStable(merged, func(i, j int) bool { return merged[i].TS.After(merged[j].TS) })
	if len(merged) > 50 {
		merged = merged[:50]
	}
	return merged, nil
}
