package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/xela07ax/fleetsim-console/internal/domain"
)

func scanTelemetry(rows pgx.Rows) ([]domain.Telemetry, error) {
	defer rows.Close()
	var result []domain.Telemetry
	for rows.Next() {
		var t domain.Telemetry
		if err := rows.Scan(&t.ID, &t.TS, &t.AgentID, &t.BytesIn, &t.BytesOut, &t.LatencyMS, &t.Errors, &t.ProfileID, &t.Scenario); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// TelemetrySince — все выборки окна в хронологическом порядке.
// Полный скан диапазона на каждый вызов: объемы демо ограничены,
// пре-агрегации нет намеренно.
func (s *Store) TelemetrySince(ctx context.Context, since time.Time) ([]domain.Telemetry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, ts, agent_id, bytes_in, bytes_out, latency_ms, errors, profile_id, scenario
		FROM telemetry WHERE ts >= $1 ORDER BY ts`, since)
	if err != nil {
		return nil, fmt.Errorf("postgres: telemetry since: %w", err)
	}
	return scanTelemetry(rows)
}

// LatestTelemetry — последние выборки по всему флоту, новые первыми.
func (s *Store) LatestTelemetry(ctx context.Context, limit int) ([]domain.Telemetry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, ts, agent_id, bytes_in, bytes_out, latency_ms, errors, profile_id, scenario
		FROM telemetry ORDER BY ts DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: latest telemetry: %w", err)
	}
	return scanTelemetry(rows)
}

// AgentTelemetry — последние выборки одного агента.
func (s *Store) AgentTelemetry(ctx context.Context, agentID int64, limit int) ([]domain.Telemetry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, ts, agent_id, bytes_in, bytes_out, latency_ms, errors, profile_id, scenario
		FROM telemetry WHERE agent_id = $1 ORDER BY ts DESC LIMIT $2`, agentID, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: agent telemetry: %w", err)
	}
	return scanTelemetry(rows)
}

// WriteHeartbeats фиксирует один цикл симулятора: вставка выборок и
// продвижение last_seen их агентов — одной транзакцией.
func (s *Store) WriteHeartbeats(ctx context.Context, ts time.Time, samples []domain.Telemetry) error {
	if len(samples) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin heartbeat tx: %w", err)
	}
	defer tx.Rollback(ctx)

	agentIDs := make([]int64, 0, len(samples))
	for _, t := range samples {
		agentIDs = append(agentIDs, t.AgentID)
		if _, err := tx.Exec(ctx,
			`INSERT INTO telemetry (ts, agent_id, bytes_in, bytes_out, latency_ms, errors, profile_id, scenario)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			t.TS, t.AgentID, t.BytesIn, t.BytesOut, t.LatencyMS, t.Errors, t.ProfileID, t.Scenario); err != nil {
			return fmt.Errorf("postgres: insert heartbeat: %w", err)
		}
	}

	if _, err := tx.Exec(ctx,
		`UPDATE agents SET last_seen = $1 WHERE id = ANY($2)`, ts, agentIDs); err != nil {
		return fmt.Errorf("postgres: advance last_seen: %w", err)
	}

	return tx.Commit(ctx)
}

// KPIAggregates — агрегаты окна для KPI-панели одним запросом.
func (s *Store) KPIAggregates(ctx context.Context, since time.Time) (samples int64, errorsSum int64, avgLatency float64, err error) {
	err = s.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(errors), 0), COALESCE(AVG(latency_ms), 0)
		FROM telemetry WHERE ts >= $1`, since).
		Scan(&samples, &errorsSum, &avgLatency)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("postgres: kpi aggregates: %w", err)
	}
	return samples, errorsSum, avgLatency, nil
}

// ApplyCountsByProfile — GROUP BY по профилям среди выборок apply_profile.
func (s *Store) ApplyCountsByProfile(ctx context.Context, since time.Time) ([]domain.ProfileApplyCount, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT profile_id, COUNT(*)
		FROM telemetry
		WHERE ts >= $1 AND scenario = $2
		GROUP BY profile_id`, since, domain.ScenarioApplyProfile)
	if err != nil {
		return nil, fmt.Errorf("postgres: apply counts: %w", err)
	}
	defer rows.Close()

	var result []domain.ProfileApplyCount
	for rows.Next() {
		var c domain.ProfileApplyCount
		if err := rows.Scan(&c.ProfileID, &c.Count); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// ErrorTotalsByAgent — топ агентов по суммарным ошибкам окна.
// LEFT JOIN: телеметрия переживает удаление агента, имя может быть NULL.
func (s *Store) ErrorTotalsByAgent(ctx context.Context, since time.Time, limit int) ([]domain.AgentErrorTotal, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT t.agent_id, a.name, COALESCE(SUM(t.errors), 0) AS total
		FROM telemetry t
		LEFT JOIN agents a ON a.id = t.agent_id
		WHERE t.ts >= $1
		GROUP BY t.agent_id, a.name
		ORDER BY total DESC, t.agent_id
		LIMIT $2`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: error totals: %w", err)
	}
	defer rows.Close()

	var result []domain.AgentErrorTotal
	for rows.Next() {
		var e domain.AgentErrorTotal
		if err := rows.Scan(&e.AgentID, &e.AgentName, &e.Errors); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}
