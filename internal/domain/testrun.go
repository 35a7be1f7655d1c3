package domain

import "time"

type RunStatus string

const (
	RunPassed RunStatus = "passed"
	RunFailed RunStatus = "failed"
)

// TestRun — синтетический прогон проверок против профиля.
type TestRun struct {
	ID         int64     `json:"id"`
	TS         time.Time `json:"ts"`
	ProfileID  *int64    `json:"profile_id"`
	Status     RunStatus `json:"status"`
	DurationMS int       `json:"duration_ms"`
}

// TestRunView — прогон вместе с его проверками, для страницы тестов.
type TestRunView struct {
	TestRun
	Checks []TestCheck `json:"checks"`
}

// RunChartPoint — точка статусного графика прогонов.
type RunChartPoint struct {
	TS     string    `json:"ts"` // RFC3339
	Status RunStatus `json:"status"`
}

// TestRunsPage — payload страницы тестов.
type TestRunsPage struct {
	Runs  []TestRunView   `json:"runs"`
	Chart []RunChartPoint `json:"chart"`
}

// TestCheck — одна проверка внутри прогона. Жизненный цикл привязан к
// родительскому TestRun: создаются вместе, по отдельности не обновляются.
type TestCheck struct {
	ID        int64     `json:"id"`
	TestRunID int64     `json:"test_run_id"`
	CheckName string    `json:"check_name"`
	Status    RunStatus `json:"status"`
	Message   string    `json:"message"`
}
