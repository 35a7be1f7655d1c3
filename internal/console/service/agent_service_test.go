package service

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/xela07ax/fleetsim-console/internal/domain"
	"go.uber.org/zap"
)

// mockAgentRepo — хранилище агентов в памяти, фиксирует коммиты действий.
type mockAgentRepo struct {
	agents   map[int64]domain.Agent
	profiles map[int64]domain.Profile
	users    map[string]domain.User

	commits []struct {
		AgentID   int64
		ProfileID *int64
		Sample    domain.Telemetry
		Event     domain.AuditEvent
	}
	commitErr error
}

func (m *mockAgentRepo) ListAgents(ctx context.Context, f domain.AgentFilter) ([]domain.Agent, error) {
	var out []domain.Agent
	for _, a := range m.agents {
		out = append(out, a)
	}
	return out, nil
}

func (m *mockAgentRepo) GetAgent(ctx context.Context, id int64) (*domain.Agent, error) {
	if a, ok := m.agents[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (m *mockAgentRepo) GetProfile(ctx context.Context, id int64) (*domain.Profile, error) {
	if p, ok := m.profiles[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (m *mockAgentRepo) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	if u, ok := m.users[username]; ok {
		return &u, nil
	}
	return nil, nil
}

func (m *mockAgentRepo) AgentTelemetry(ctx context.Context, agentID int64, limit int) ([]domain.Telemetry, error) {
	return nil, nil
}

func (m *mockAgentRepo) CommitProfileAction(ctx context.Context, agentID int64, profileID *int64, sample domain.Telemetry, event domain.AuditEvent) error {
	if m.commitErr != nil {
		return m.commitErr
	}
	m.commits = append(m.commits, struct {
		AgentID   int64
		ProfileID *int64
		Sample    domain.Telemetry
		Event     domain.AuditEvent
	}{agentID, profileID, sample, event})
	return nil
}

func newMockAgentRepo() *mockAgentRepo {
	return &mockAgentRepo{
		agents: map[int64]domain.Agent{
			1: {ID: 1, Name: "edge-node-1", Status: domain.StatusOnline},
		},
		profiles: map[int64]domain.Profile{
			2: {ID: 2, Name: "Low Latency", LatencyModifier: -15, ErrorModifier: 1, ThroughputModifier: 20},
		},
		users: map[string]domain.User{
			"admin":    {ID: 1, Username: "admin", Role: domain.RoleAdmin},
			"operator": {ID: 2, Username: "operator", Role: domain.RoleOperator},
			"viewer":   {ID: 3, Username: "viewer", Role: domain.RoleViewer},
		},
	}
}

// deadRedis — клиент с недостижимым адресом: publish всегда падает,
// а действие обязано завершаться успехом все равно.
func deadRedis() *redis.Client {
	return redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond})
}

func newTestAgentService(repo AgentRepository) *AgentService {
	s := NewAgentService(repo, deadRedis(), rand.New(rand.NewSource(13)), zap.NewNop())
	s.now = func() time.Time { return time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestApplyProfileCommitsTriplet(t *testing.T) {
	repo := newMockAgentRepo()
	svc := newTestAgentService(repo)

	if err := svc.ApplyProfile(context.Background(), "operator", 1, 2); err != nil {
		t.Fatalf("ApplyProfile: %v", err)
	}
	if len(repo.commits) != 1 {
		t.Fatalf("want exactly one commit, got %d", len(repo.commits))
	}

	c := repo.commits[0]
	if c.AgentID != 1 || c.ProfileID == nil || *c.ProfileID != 2 {
		t.Fatalf("unexpected commit target: %+v", c)
	}
	if c.Sample.Scenario != domain.ScenarioApplyProfile {
		t.Fatalf("sample scenario: want apply, got %q", c.Sample.Scenario)
	}
	if c.Sample.ProfileID == nil || *c.Sample.ProfileID != 2 {
		t.Fatalf("sample must carry the new profile id")
	}
	if c.Event.Action != domain.ActionApplyProfile {
		t.Fatalf("audit action: want apply, got %q", c.Event.Action)
	}
	if c.Event.Username != "operator" || c.Event.Details != "profile=2" {
		t.Fatalf("unexpected audit event: %+v", c.Event)
	}
	if c.Event.TargetID == nil || *c.Event.TargetID != 1 {
		t.Fatalf("audit target must be the agent")
	}
}

func TestStopProfileClearsProfile(t *testing.T) {
	repo := newMockAgentRepo()
	svc := newTestAgentService(repo)

	if err := svc.StopProfile(context.Background(), "admin", 1); err != nil {
		t.Fatalf("StopProfile: %v", err)
	}
	if len(repo.commits) != 1 {
		t.Fatalf("want exactly one commit, got %d", len(repo.commits))
	}
	c := repo.commits[0]
	if c.ProfileID != nil {
		t.Fatalf("stop must clear profile id, got %v", *c.ProfileID)
	}
	if c.Sample.Scenario != domain.ScenarioStopProfile || c.Event.Action != domain.ActionStopProfile {
		t.Fatalf("unexpected scenario/action: %q/%q", c.Sample.Scenario, c.Event.Action)
	}
	if c.Event.Details != "" {
		t.Fatalf("stop event details must be empty, got %q", c.Event.Details)
	}
}

func TestApplyProfileViewerForbidden(t *testing.T) {
	repo := newMockAgentRepo()
	svc := newTestAgentService(repo)

	err := svc.ApplyProfile(context.Background(), "viewer", 1, 2)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
	if len(repo.commits) != 0 {
		t.Fatalf("forbidden action must not write, got %d commits", len(repo.commits))
	}
}

func TestApplyProfileUnknownProfile(t *testing.T) {
	repo := newMockAgentRepo()
	svc := newTestAgentService(repo)

	err := svc.ApplyProfile(context.Background(), "operator", 1, 99)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if len(repo.commits) != 0 {
		t.Fatalf("missing profile must not write, got %d commits", len(repo.commits))
	}
}

func TestApplyProfileUnknownAgent(t *testing.T) {
	repo := newMockAgentRepo()
	svc := newTestAgentService(repo)

	err := svc.ApplyProfile(context.Background(), "operator", 42, 2)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestApplyProfileCommitFailure(t *testing.T) {
	repo := newMockAgentRepo()
	repo.commitErr = errors.New("tx aborted")
	svc := newTestAgentService(repo)

	if err := svc.ApplyProfile(context.Background(), "operator", 1, 2); err == nil {
		t.Fatal("want commit error to propagate")
	}
}

func TestGetAgentNotFound(t *testing.T) {
	repo := newMockAgentRepo()
	svc := newTestAgentService(repo)

	if _, err := svc.GetAgent(context.Background(), 404); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestListAgentsNeverNil(t *testing.T) {
	repo := &mockAgentRepo{}
	svc := newTestAgentService(repo)

	agents, err := svc.ListAgents(context.Background(), domain.AgentFilter{})
	if err != nil {
		t.Fatalf("ListAgents: %v", err)
	}
	if agents == nil {
		t.Fatal("empty listing must be [], not nil")
	}
}
