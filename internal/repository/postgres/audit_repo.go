package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/xela07ax/fleetsim-console/internal/domain"
)

func scanAuditEvents(rows pgx.Rows) ([]domain.AuditEvent, error) {
	defer rows.Close()
	var result []domain.AuditEvent
	for rows.Next() {
		var e domain.AuditEvent
		if err := rows.Scan(&e.ID, &e.TS, &e.UserID, &e.Username, &e.Action, &e.TargetType, &e.TargetID, &e.Details); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// AuditEventsSince — события окна для разбивки по действиям.
func (s *Store) AuditEventsSince(ctx context.Context, since time.Time) ([]domain.AuditEvent, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, ts, user_id, username, action, target_type, target_id, details
		FROM audit_events WHERE ts >= $1 ORDER BY ts`, since)
	if err != nil {
		return nil, fmt.Errorf("postgres: audit since: %w", err)
	}
	return scanAuditEvents(rows)
}

// CountAuditAction — счетчик точного действия за окно (deployments_24h).
func (s *Store) CountAuditAction(ctx context.Context, action string, since time.Time) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM audit_events WHERE action = $1 AND ts >= $2`, action, since).
		Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("postgres: count audit action: %w", err)
	}
	return count, nil
}

// FindAuditEvents — страница журнала аудита с фильтрами, новые первыми.
func (s *Store) FindAuditEvents(ctx context.Context, f domain.AuditFilter) ([]domain.AuditEvent, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 200
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, ts, user_id, username, action, target_type, target_id, details
		FROM audit_events
		WHERE ($1 = '' OR username ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR action ILIKE '%' || $2 || '%')
		  AND ($3::timestamptz IS NULL OR ts >= $3)
		  AND ($4::timestamptz IS NULL OR ts <= $4)
		ORDER BY ts DESC
		LIMIT $5`, f.Username, f.Action, f.From, f.To, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: find audit events: %w", err)
	}
	return scanAuditEvents(rows)
}

// LatestAuditEvents — хвост журнала для ленты активности.
func (s *Store) LatestAuditEvents(ctx context.Context, limit int) ([]domain.AuditEvent, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, ts, user_id, username, action, target_type, target_id, details
		FROM audit_events ORDER BY ts DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: latest audit events: %w", err)
	}
	return scanAuditEvents(rows)
}
