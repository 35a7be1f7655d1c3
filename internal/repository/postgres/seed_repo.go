package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/xela07ax/fleetsim-console/internal/sim"
)

// IsSeeded проверяет маркер завершенного посева.
func (s *Store) IsSeeded(ctx context.Context) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM seed_marker WHERE id = 1)`).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("postgres: seed marker check: %w", err)
	}
	return exists, nil
}

// WriteSeed пишет весь набор демо-данных и маркер одной транзакцией.
// Набор приходит с явными ID (база пустая), поэтому после вставки
// двигаем sequences, чтобы следующие INSERT не conflict-овали.
func (s *Store) WriteSeed(ctx context.Context, data *sim.SeedData) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin seed tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, u := range data.Users {
		if _, err := tx.Exec(ctx,
			`INSERT INTO users (id, username, password_hash, role, created_at) VALUES ($1, $2, $3, $4, $5)`,
			u.ID, u.Username, u.PasswordHash, u.Role, u.CreatedAt); err != nil {
			return fmt.Errorf("postgres: seed users: %w", err)
		}
	}

	for _, p := range data.Profiles {
		if _, err := tx.Exec(ctx,
			`INSERT INTO profiles (id, name, mode, latency_modifier, error_modifier, throughput_modifier, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.ID, p.Name, p.Mode, p.LatencyModifier, p.ErrorModifier, p.ThroughputModifier, p.CreatedAt); err != nil {
			return fmt.Errorf("postgres: seed profiles: %w", err)
		}
	}

	for _, a := range data.Agents {
		if _, err := tx.Exec(ctx,
			`INSERT INTO agents (id, name, status, last_seen, current_profile_id, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			a.ID, a.Name, a.Status, a.LastSeen, a.CurrentProfileID, a.CreatedAt); err != nil {
			return fmt.Errorf("postgres: seed agents: %w", err)
		}
	}

	for _, e := range data.Audit {
		if _, err := tx.Exec(ctx,
			`INSERT INTO audit_events (id, ts, user_id, username, action, target_type, target_id, details)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			e.ID, e.TS, e.UserID, e.Username, e.Action, e.TargetType, e.TargetID, e.Details); err != nil {
			return fmt.Errorf("postgres: seed audit: %w", err)
		}
	}

	// Телеметрии много (60 минут * флот) — пакетная вставка через COPY
	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"telemetry"},
		[]string{"id", "ts", "agent_id", "bytes_in", "bytes_out", "latency_ms", "errors", "profile_id", "scenario"},
		pgx.CopyFromSlice(len(data.Telemetry), func(i int) ([]interface{}, error) {
			t := data.Telemetry[i]
			return []interface{}{t.ID, t.TS, t.AgentID, t.BytesIn, t.BytesOut, t.LatencyMS, t.Errors, t.ProfileID, t.Scenario}, nil
		}))
	if err != nil {
		return fmt.Errorf("postgres: seed telemetry: %w", err)
	}

	for _, r := range data.TestRuns {
		if _, err := tx.Exec(ctx,
			`INSERT INTO test_runs (id, ts, profile_id, status, duration_ms) VALUES ($1, $2, $3, $4, $5)`,
			r.ID, r.TS, r.ProfileID, r.Status, r.DurationMS); err != nil {
			return fmt.Errorf("postgres: seed test runs: %w", err)
		}
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"test_checks"},
		[]string{"id", "test_run_id", "check_name", "status", "message"},
		pgx.CopyFromSlice(len(data.TestChecks), func(i int) ([]interface{}, error) {
			c := data.TestChecks[i]
			return []interface{}{c.ID, c.TestRunID, c.CheckName, c.Status, c.Message}, nil
		}))
	if err != nil {
		return fmt.Errorf("postgres: seed test checks: %w", err)
	}

	// Продвигаем sequences за явно вставленные ID
	for _, table := range []string{"users", "profiles", "agents", "audit_events", "telemetry", "test_runs", "test_checks"} {
		if _, err := tx.Exec(ctx, fmt.Sprintf(
			`SELECT setval(pg_get_serial_sequence('%s', 'id'), (SELECT COALESCE(MAX(id), 1) FROM %s))`,
			table, table)); err != nil {
			return fmt.Errorf("postgres: advance %s sequence: %w", table, err)
		}
	}

	if _, err := tx.Exec(ctx, `INSERT INTO seed_marker (id) VALUES (1)`); err != nil {
		return fmt.Errorf("postgres: seed marker: %w", err)
	}

	return tx.Commit(ctx)
}
