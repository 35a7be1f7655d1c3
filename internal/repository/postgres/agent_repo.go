package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/xela07ax/fleetsim-console/internal/domain"
)

func scanAgents(rows pgx.Rows) ([]domain.Agent, error) {
	defer rows.Close()
	var result []domain.Agent
	for rows.Next() {
		var a domain.Agent
		if err := rows.Scan(&a.ID, &a.Name, &a.Status, &a.LastSeen, &a.CurrentProfileID, &a.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

// ListAgents возвращает агентов по фильтру листинга консоли.
func (s *Store) ListAgents(ctx context.Context, f domain.AgentFilter) ([]domain.Agent, error) {
	query := `
		SELECT id, name, status, last_seen, current_profile_id, created_at
		FROM agents
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR status = $2)`
	if f.SortDesc {
		query += ` ORDER BY last_seen DESC`
	} else {
		query += ` ORDER BY last_seen ASC`
	}

	status := ""
	if f.Status == string(domain.StatusOnline) || f.Status == string(domain.StatusOffline) {
		status = f.Status
	}

	rows, err := s.pool.Query(ctx, query, f.Search, status)
	if err != nil {
		return nil, fmt.Errorf("postgres: list agents: %w", err)
	}
	return scanAgents(rows)
}

// ListAgentsByStatus — выборка для heartbeat-цикла.
func (s *Store) ListAgentsByStatus(ctx context.Context, status domain.AgentStatus) ([]domain.Agent, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, status, last_seen, current_profile_id, created_at
		FROM agents WHERE status = $1 ORDER BY id`, status)
	if err != nil {
		return nil, fmt.Errorf("postgres: list agents by status: %w", err)
	}
	return scanAgents(rows)
}

// GetAgent возвращает (nil, nil) при отсутствии — 404 решает сервис.
func (s *Store) GetAgent(ctx context.Context, id int64) (*domain.Agent, error) {
	a := &domain.Agent{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, status, last_seen, current_profile_id, created_at
		FROM agents WHERE id = $1`, id).
		Scan(&a.ID, &a.Name, &a.Status, &a.LastSeen, &a.CurrentProfileID, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres: get agent: %w", err)
	}
	return a, nil
}

// CountAgents возвращает текущие total/online одним запросом.
func (s *Store) CountAgents(ctx context.Context) (total, online int, err error) {
	err = s.pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'online') FROM agents`).
		Scan(&total, &online)
	if err != nil {
		return 0, 0, fmt.Errorf("postgres: count agents: %w", err)
	}
	return total, online, nil
}

// CommitProfileAction атомарно фиксирует триплет control-plane действия:
// мутация агента + телеметрия действия + запись аудита. Либо коммитятся
// все три, либо ни одной.
func (s *Store) CommitProfileAction(ctx context.Context, agentID int64, profileID *int64, sample domain.Telemetry, event domain.AuditEvent) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin action tx: %w", err)
	}
	defer tx.Rollback(ctx)

	ct, err := tx.Exec(ctx,
		`UPDATE agents SET current_profile_id = $1 WHERE id = $2`, profileID, agentID)
	if err != nil {
		return fmt.Errorf("postgres: update agent profile: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO telemetry (ts, agent_id, bytes_in, bytes_out, latency_ms, errors, profile_id, scenario)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		sample.TS, sample.AgentID, sample.BytesIn, sample.BytesOut,
		sample.LatencyMS, sample.Errors, sample.ProfileID, sample.Scenario); err != nil {
		return fmt.Errorf("postgres: insert action telemetry: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO audit_events (ts, user_id, username, action, target_type, target_id, details)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		event.TS, event.UserID, event.Username, event.Action,
		event.TargetType, event.TargetID, event.Details); err != nil {
		return fmt.Errorf("postgres: insert audit event: %w", err)
	}

	return tx.Commit(ctx)
}
