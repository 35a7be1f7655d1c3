package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xela07ax/fleetsim-console/internal/domain"
)

// TestRunProvider — контракт чтения истории тест-прогонов.
type TestRunProvider interface {
	LatestRuns(ctx context.Context, limit int) ([]domain.TestRun, error)
	ChecksForRuns(ctx context.Context, runIDs []int64) ([]domain.TestCheck, error)
}

type TestService struct {
	repo TestRunProvider
}

func NewTestService(repo TestRunProvider) *TestService {
	return &TestService{repo: repo}
}

// RunsPage собирает последние 30 прогонов с проверками и точки графика.
func (s *TestService) RunsPage(ctx context.Context) (*domain.TestRunsPage, error) {
	runs, err := s.repo.LatestRuns(ctx, 30)
	if err != nil {
		return nil, fmt.Errorf("test_service: failed to fetch runs: %w", err)
	}

	page := &domain.TestRunsPage{
		Runs:  make([]domain.TestRunView, 0, len(runs)),
		Chart: make([]domain.RunChartPoint, 0, len(runs)),
	}
	if len(runs) == 0 {
		return page, nil
	}

	runIDs := make([]int64, 0, len(runs))
	for _, r := range runs {
		runIDs = append(runIDs, r.ID)
	}

	checks, err := s.repo.ChecksForRuns(ctx, runIDs)
	if err != nil {
		return nil, fmt.Errorf("test_service: failed to fetch checks: %w", err)
	}
	byRun := make(map[int64][]domain.TestCheck, len(runs))
	for _, c := range checks {
		byRun[c.TestRunID] = append(byRun[c.TestRunID], c)
	}

	for _, r := range runs {
		page.Runs = append(page.Runs, domain.TestRunView{TestRun: r, Checks: byRun[r.ID]})
		page.Chart = append(page.Chart, domain.RunChartPoint{
			TS:     r.TS.Format(time.RFC3339),
			Status: r.Status,
		})
	}
	return page, nil
}
