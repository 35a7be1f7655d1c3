package service

import (
	"context"
	"testing"
	"time"

	"github.com/xela07ax/fleetsim-console/internal/domain"
)

type mockTestRunRepo struct {
	runs   []domain.TestRun
	checks []domain.TestCheck

	gotLimit int
	gotIDs   []int64
}

func (m *mockTestRunRepo) LatestRuns(ctx context.Context, limit int) ([]domain.TestRun, error) {
	m.gotLimit = limit
	if len(m.runs) > limit {
		return m.runs[:limit], nil
	}
	return m.runs, nil
}

func (m *mockTestRunRepo) ChecksForRuns(ctx context.Context, runIDs []int64) ([]domain.TestCheck, error) {
	m.gotIDs = runIDs
	return m.checks, nil
}

func TestRunsPageGroupsChecks(t *testing.T) {
	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	repo := &mockTestRunRepo{
		runs: []domain.TestRun{
			{ID: 2, TS: base.Add(time.Hour), Status: domain.RunFailed, DurationMS: 1200},
			{ID: 1, TS: base, Status: domain.RunPassed, DurationMS: 900},
		},
		checks: []domain.TestCheck{
			{ID: 1, TestRunID: 1, CheckName: "connectivity", Status: domain.RunPassed, Message: "ok"},
			{ID: 2, TestRunID: 2, CheckName: "connectivity", Status: domain.RunFailed, Message: "threshold exceeded"},
			{ID: 3, TestRunID: 2, CheckName: "handshake", Status: domain.RunPassed, Message: "ok"},
		},
	}
	svc := NewTestService(repo)

	page, err := svc.RunsPage(context.Background())
	if err != nil {
		t.Fatalf("RunsPage: %v", err)
	}
	if repo.gotLimit != 30 {
		t.Fatalf("want page limit 30, got %d", repo.gotLimit)
	}
	if len(page.Runs) != 2 {
		t.Fatalf("want 2 runs, got %d", len(page.Runs))
	}
	if len(page.Runs[0].Checks) != 2 || page.Runs[0].ID != 2 {
		t.Fatalf("checks not grouped with their run: %+v", page.Runs[0])
	}
	if len(page.Runs[1].Checks) != 1 {
		t.Fatalf("run 1 must carry 1 check, got %d", len(page.Runs[1].Checks))
	}
	if len(page.Chart) != 2 {
		t.Fatalf("want 2 chart points, got %d", len(page.Chart))
	}
	if page.Chart[0].TS != base.Add(time.Hour).Format(time.RFC3339) || page.Chart[0].Status != domain.RunFailed {
		t.Fatalf("unexpected chart point: %+v", page.Chart[0])
	}
}

func TestRunsPageEmpty(t *testing.T) {
	svc := NewTestService(&mockTestRunRepo{})

	page, err := svc.RunsPage(context.Background())
	if err != nil {
		t.Fatalf("RunsPage: %v", err)
	}
	if page.Runs == nil || page.Chart == nil {
		t.Fatal("empty page must serialize as [], not null")
	}
	if len(page.Runs) != 0 {
		t.Fatalf("want no runs, got %d", len(page.Runs))
	}
}
