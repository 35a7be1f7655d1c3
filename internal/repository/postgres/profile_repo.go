package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/xela07ax/fleetsim-console/internal/domain"
)

func scanProfiles(rows pgx.Rows) ([]domain.Profile, error) {
	defer rows.Close()
	var result []domain.Profile
	for rows.Next() {
		var p domain.Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.Mode, &p.LatencyModifier, &p.ErrorModifier, &p.ThroughputModifier, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// ListProfiles — полный список, для heartbeat-цикла и маппинга имен.
func (s *Store) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, mode, latency_modifier, error_modifier, throughput_modifier, created_at
		FROM profiles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list profiles: %w", err)
	}
	return scanProfiles(rows)
}

// FindProfiles — листинг страницы профилей с поиском и сортировкой.
func (s *Store) FindProfiles(ctx context.Context, f domain.ProfileFilter) ([]domain.Profile, error) {
	query := `
		SELECT id, name, mode, latency_modifier, error_modifier, throughput_modifier, created_at
		FROM profiles
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')`
	if f.SortByCreated {
		query += ` ORDER BY created_at DESC`
	} else {
		query += ` ORDER BY name`
	}

	rows, err := s.pool.Query(ctx, query, f.Search)
	if err != nil {
		return nil, fmt.Errorf("postgres: find profiles: %w", err)
	}
	return scanProfiles(rows)
}

// GetProfile возвращает (nil, nil) при отсутствии.
func (s *Store) GetProfile(ctx context.Context, id int64) (*domain.Profile, error) {
	p := &domain.Profile{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, mode, latency_modifier, error_modifier, throughput_modifier, created_at
		FROM profiles WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Mode, &p.LatencyModifier, &p.ErrorModifier, &p.ThroughputModifier, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres: get profile: %w", err)
	}
	return p, nil
}
