package postgres

import (
	"context"
	"fmt"

	"github.com/xela07ax/fleetsim-console/internal/domain"
)

// LatestRuns — последние прогоны, новые первыми.
func (s *Store) LatestRuns(ctx context.Context, limit int) ([]domain.TestRun, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, ts, profile_id, status, duration_ms
		FROM test_runs ORDER BY ts DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: latest runs: %w", err)
	}
	defer rows.Close()

	var result []domain.TestRun
	for rows.Next() {
		var r domain.TestRun
		if err := rows.Scan(&r.ID, &r.TS, &r.ProfileID, &r.Status, &r.DurationMS); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// ChecksForRuns — проверки для пачки прогонов одним запросом.
func (s *Store) ChecksForRuns(ctx context.Context, runIDs []int64) ([]domain.TestCheck, error) {
	if len(runIDs) == 0 {
		return nil, nil
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, test_run_id, check_name, status, message
		FROM test_checks WHERE test_run_id = ANY($1) ORDER BY test_run_id, id`, runIDs)
	if err != nil {
		return nil, fmt.Errorf("postgres: checks for runs: %w", err)
	}
	defer rows.Close()

	var result []domain.TestCheck
	for rows.Next() {
		var c domain.TestCheck
		if err := rows.Scan(&c.ID, &c.TestRunID, &c.CheckName, &c.Status, &c.Message); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
