package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/xela07ax/fleetsim-console/internal/domain"
	"github.com/xela07ax/fleetsim-console/internal/infra"
	"github.com/xela07ax/fleetsim-console/internal/sim"
	"go.uber.org/zap"
)

// AgentRepository описывает требования к хранилищу данных об агентах.
// CommitProfileAction обязан зафиксировать триплет (мутация агента,
// телеметрия действия, запись аудита) атомарно.
type AgentRepository interface {
	ListAgents(ctx context.Context, f domain.AgentFilter) ([]domain.Agent, error)
	GetAgent(ctx context.Context, id int64) (*domain.Agent, error)
	GetProfile(ctx context.Context, id int64) (*domain.Profile, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	AgentTelemetry(ctx context.Context, agentID int64, limit int) ([]domain.Telemetry, error)
	CommitProfileAction(ctx context.Context, agentID int64, profileID *int64, sample domain.Telemetry, event domain.AuditEvent) error
}

type AgentService struct {
	repo   AgentRepository
	rdb    *redis.Client
	logger *zap.Logger

	// rng защищен мьютексом: сэмплы действий приходят из конкурентных запросов
	mu  sync.Mutex
	rng *rand.Rand

	now func() time.Time
}

func NewAgentService(repo AgentRepository, rdb *redis.Client, rng *rand.Rand, logger *zap.Logger) *AgentService {
	return &AgentService{
		repo:   repo,
		rdb:    rdb,
		rng:    rng,
		logger: logger.Named("agent-service"),
		now:    time.Now,
	}
}

// ListAgents возвращает агентов по фильтру страницы.
// Фронтенд всегда получает пустой массив [], а не null.
func (s *AgentService) ListAgents(ctx context.Context, f domain.AgentFilter) ([]domain.Agent, error) {
	agents, err := s.repo.ListAgents(ctx, f)
	if err != nil {
		s.logger.Error("failed to list agents from repository", zap.Error(err))
		return nil, fmt.Errorf("service: could not fetch agents: %w", err)
	}
	if agents == nil {
		return []domain.Agent{}, nil
	}
	return agents, nil
}

func (s *AgentService) GetAgent(ctx context.Context, id int64) (*domain.Agent, error) {
	agent, err := s.repo.GetAgent(ctx, id)
	if err != nil {
		s.logger.Error("failed to fetch agent details", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	if agent == nil {
		return nil, fmt.Errorf("agent %d: %w", id, domain.ErrNotFound)
	}
	return agent, nil
}

func (s *AgentService) AgentTelemetry(ctx context.Context, agentID int64, limit int) ([]domain.Telemetry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.repo.AgentTelemetry(ctx, agentID, limit)
	if err != nil {
		return nil, fmt.Errorf("service: could not fetch telemetry: %w", err)
	}
	if rows == nil {
		return []domain.Telemetry{}, nil
	}
	return rows, nil
}

// ApplyProfile назначает агенту профиль от имени username.
func (s *AgentService) ApplyProfile(ctx context.Context, username string, agentID, profileID int64) error {
	profile, err := s.repo.GetProfile(ctx, profileID)
	if err != nil {
		return fmt.Errorf("service: profile lookup: %w", err)
	}
	if profile == nil {
		return fmt.Errorf("profile %d: %w", profileID, domain.ErrNotFound)
	}

	return s.commitAction(ctx, username, agentID, &profileID, profile,
		domain.ScenarioApplyProfile, domain.ActionApplyProfile,
		fmt.Sprintf("profile=%d", profileID), fmt.Sprintf("%d", profileID))
}

// StopProfile снимает профиль с агента.
func (s *AgentService) StopProfile(ctx context.Context, username string, agentID int64) error {
	return s.commitAction(ctx, username, agentID, nil, nil,
		domain.ScenarioStopProfile, domain.ActionStopProfile, "", "none")
}

// commitAction — унифицированный механизм control-plane действия:
// RBAC -> синтез телеметрии -> атомарный коммит триплета -> Redis-сигнал.
func (s *AgentService) commitAction(
	ctx context.Context,
	username string,
	agentID int64,
	profileID *int64,
	profile *domain.Profile,
	scenario string,
	actionName string,
	details string,
	signalValue string,
) error {
	// 1. Действующий пользователь и его право на запись
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("service: operator lookup: %w", err)
	}
	if user == nil {
		return fmt.Errorf("operator %q: %w", username, domain.ErrNotFound)
	}
	if !user.CanWrite() {
		s.logger.Info("write action denied",
			zap.String("username", username),
			zap.String("action", actionName))
		return fmt.Errorf("role %s: %w", user.Role, domain.ErrForbidden)
	}

	// 2. Целевой агент
	agent, err := s.repo.GetAgent(ctx, agentID)
	if err != nil {
		return fmt.Errorf("service: agent lookup: %w", err)
	}
	if agent == nil {
		return fmt.Errorf("agent %d: %w", agentID, domain.ErrNotFound)
	}

	// 3. Телеметрия действия — снимок профиля на момент выборки
	now := s.now()
	agent.CurrentProfileID = profileID
	s.mu.Lock()
	sample := sim.ActionSample(s.rng, agent, profile, scenario, now)
	s.mu.Unlock()

	targetID := agent.ID
	event := domain.AuditEvent{
		TS:         now,
		UserID:     user.ID,
		Username:   user.Username,
		Action:     actionName,
		TargetType: "agent",
		TargetID:   &targetID,
		Details:    details,
	}

	// 4. Persistence Layer: либо весь триплет, либо ничего
	if err := s.repo.CommitProfileAction(ctx, agentID, profileID, sample, event); err != nil {
		s.logger.Error("failed to commit profile action",
			zap.Int64("agent_id", agentID),
			zap.String("action", actionName),
			zap.Error(err))
		return err
	}

	// 5. Real-time Signaling: сбой доставки не валит запрос
	payload := fmt.Sprintf("%d:%s", agentID, signalValue)
	if err := s.rdb.Publish(ctx, infra.RedisChanProfileSignal, payload).Err(); err != nil {
		s.logger.Warn("runtime signal delivery failed",
			zap.String("action", actionName),
			zap.String("channel", infra.RedisChanProfileSignal),
			zap.Error(err))
	} else {
		s.logger.Info("agent profile updated",
			zap.Int64("agent_id", agentID),
			zap.String("action", actionName),
			zap.String("signal", signalValue))
	}

	return nil
}
