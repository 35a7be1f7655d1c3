package sim

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/xela07ax/fleetsim-console/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type fakeSeedStore struct {
	seeded     bool
	markerErr  error
	writeErr   error
	writeCalls int
	written    *SeedData
}

func (f *fakeSeedStore) IsSeeded(ctx context.Context) (bool, error) {
	return f.seeded, f.markerErr
}

func (f *fakeSeedStore) WriteSeed(ctx context.Context, data *SeedData) error {
	f.writeCalls++
	f.written = data
	return f.writeErr
}

func TestBuildSeedDataRoster(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	data, err := BuildSeedData(rng, now)
	if err != nil {
		t.Fatalf("BuildSeedData: %v", err)
	}

	if len(data.Users) != 3 {
		t.Fatalf("want 3 users, got %d", len(data.Users))
	}
	if len(data.Profiles) != 5 {
		t.Fatalf("want 5 profiles, got %d", len(data.Profiles))
	}
	if len(data.Agents) != 7 {
		t.Fatalf("want 7 agents, got %d", len(data.Agents))
	}
	if len(data.Audit) != len(data.Agents) {
		t.Fatalf("want one audit event per agent, got %d for %d agents", len(data.Audit), len(data.Agents))
	}

	// ID идут подряд с единицы — хранилище двигает sequences за последним
	for i, u := range data.Users {
		if u.ID != int64(i+1) {
			t.Fatalf("user %d: want id %d, got %d", i, i+1, u.ID)
		}
	}
	for i, a := range data.Agents {
		if a.ID != int64(i+1) {
			t.Fatalf("agent %d: want id %d, got %d", i, i+1, a.ID)
		}
		if a.LastSeen.After(now) {
			t.Fatalf("agent %d: last_seen in the future", i)
		}
	}

	// Демо-пароль совпадает с логином
	if err := bcrypt.CompareHashAndPassword([]byte(data.Users[0].PasswordHash), []byte("admin")); err != nil {
		t.Fatalf("admin password hash mismatch: %v", err)
	}

	for _, e := range data.Audit {
		if e.Action != domain.ActionSeedCreateAgent {
			t.Fatalf("unexpected audit action %q", e.Action)
		}
		if e.Username != "admin" {
			t.Fatalf("seed audit must be attributed to admin, got %q", e.Username)
		}
	}
}

func TestBuildSeedDataTestRuns(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	data, err := BuildSeedData(rng, now)
	if err != nil {
		t.Fatalf("BuildSeedData: %v", err)
	}

	// 15 дней по 3-8 прогонов
	if len(data.TestRuns) < 45 || len(data.TestRuns) > 120 {
		t.Fatalf("test run count out of range: %d", len(data.TestRuns))
	}
	if len(data.TestChecks) != len(data.TestRuns)*len(seedCheckNames) {
		t.Fatalf("want %d checks per run, got %d checks for %d runs",
			len(seedCheckNames), len(data.TestChecks), len(data.TestRuns))
	}

	statusByRun := make(map[int64]domain.RunStatus, len(data.TestRuns))
	for _, r := range data.TestRuns {
		if r.DurationMS < 500 || r.DurationMS > 4000 {
			t.Fatalf("run %d: duration out of range: %d", r.ID, r.DurationMS)
		}
		statusByRun[r.ID] = r.Status
	}

	for _, c := range data.TestChecks {
		// Проверки падают только внутри упавших прогонов
		if c.Status == domain.RunFailed && statusByRun[c.TestRunID] != domain.RunFailed {
			t.Fatalf("check %d failed under passed run %d", c.ID, c.TestRunID)
		}
		if c.Status == domain.RunFailed && c.Message != "threshold exceeded" {
			t.Fatalf("check %d: unexpected failure message %q", c.ID, c.Message)
		}
		if c.Status == domain.RunPassed && c.Message != "ok" {
			t.Fatalf("check %d: unexpected pass message %q", c.ID, c.Message)
		}
	}
}

func TestBuildSeedDataTelemetryBackfill(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	data, err := BuildSeedData(rng, now)
	if err != nil {
		t.Fatalf("BuildSeedData: %v", err)
	}

	online := 0
	for _, a := range data.Agents {
		if a.Status == domain.StatusOnline {
			online++
		}
	}

	// Онлайн-агенты дают ровно 60 точек, оффлайн — заметно меньше
	perAgent := make(map[int64]int)
	for _, s := range data.Telemetry {
		perAgent[s.AgentID]++
		if s.TS.Before(now.Add(-61*time.Minute)) || s.TS.After(now) {
			t.Fatalf("telemetry ts outside backfill window: %v", s.TS)
		}
	}
	for _, a := range data.Agents {
		if a.Status == domain.StatusOnline && perAgent[a.ID] != 60 {
			t.Fatalf("online agent %d: want 60 samples, got %d", a.ID, perAgent[a.ID])
		}
		if a.Status == domain.StatusOffline && perAgent[a.ID] >= 60 {
			t.Fatalf("offline agent %d: expected gaps, got %d samples", a.ID, perAgent[a.ID])
		}
	}
	if len(data.Telemetry) < online*60 {
		t.Fatalf("telemetry too small: %d for %d online agents", len(data.Telemetry), online)
	}
}

func TestSeedIfEmptySkipsWhenMarkerPresent(t *testing.T) {
	store := &fakeSeedStore{seeded: true}
	rng := rand.New(rand.NewSource(4))

	if err := SeedIfEmpty(context.Background(), store, rng, time.Now().UTC(), zap.NewNop()); err != nil {
		t.Fatalf("SeedIfEmpty: %v", err)
	}
	if store.writeCalls != 0 {
		t.Fatalf("seeded store must not be written, got %d writes", store.writeCalls)
	}
}

func TestSeedIfEmptyWritesOnce(t *testing.T) {
	store := &fakeSeedStore{}
	rng := rand.New(rand.NewSource(5))

	if err := SeedIfEmpty(context.Background(), store, rng, time.Now().UTC(), zap.NewNop()); err != nil {
		t.Fatalf("SeedIfEmpty: %v", err)
	}
	if store.writeCalls != 1 {
		t.Fatalf("want exactly one write, got %d", store.writeCalls)
	}
	if store.written == nil || len(store.written.Agents) != 7 {
		t.Fatalf("written data incomplete")
	}
}

func TestSeedIfEmptyPropagatesErrors(t *testing.T) {
	markerErr := errors.New("db down")
	store := &fakeSeedStore{markerErr: markerErr}
	rng := rand.New(rand.NewSource(6))

	err := SeedIfEmpty(context.Background(), store, rng, time.Now().UTC(), zap.NewNop())
	if !errors.Is(err, markerErr) {
		t.Fatalf("want marker error, got %v", err)
	}
}
