package sim

import (
	"context"
	"math/rand"
	"time"

	"github.com/sony/gobreaker"
	"github.com/xela07ax/fleetsim-console/internal/domain"
	"go.uber.org/zap"
)

// SimulatorStore — контракт хранилища для heartbeat-цикла.
// WriteHeartbeats обязан вставить выборки и продвинуть last_seen
// их агентов одной транзакцией.
type SimulatorStore interface {
	ListProfiles(ctx context.Context) ([]domain.Profile, error)
	ListAgentsByStatus(ctx context.Context, status domain.AgentStatus) ([]domain.Agent, error)
	WriteHeartbeats(ctx context.Context, ts time.Time, samples []domain.Telemetry) error
}

// Simulator — фоновый генератор heartbeat-телеметрии.
// Живет одной горутиной на процесс, останавливается отменой контекста.
// Потеря цикла из-за недоступной базы — штатная ситуация: цикл
// пропускается, петля живет дальше.
type Simulator struct {
	store    SimulatorStore
	interval time.Duration
	rng      *rand.Rand
	metrics  *Metrics
	logger   *zap.Logger
	cb       *gobreaker.CircuitBreaker
	now      func() time.Time
}

func NewSimulator(store SimulatorStore, interval time.Duration, rng *rand.Rand, metrics *Metrics, logger *zap.Logger) *Simulator {
	// Предохранитель вокруг работы с хранилищем: пока база лежит,
	// не долбим ее каждый тик — открытый CB считается потерянным циклом
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     "heartbeat-store",
		Interval: 30 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})

	return &Simulator{
		store:    store,
		interval: interval,
		rng:      rng,
		metrics:  metrics,
		logger:   logger.Named("heartbeat-sim"),
		cb:       cb,
		now:      time.Now,
	}
}

// Run крутит циклы до отмены контекста. Ошибки цикла не фатальны.
func (s *Simulator) Run(ctx context.Context) {
	s.logger.Info("heartbeat simulator started", zap.Duration("interval", s.interval))
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if err := s.runCycle(ctx); err != nil {
			s.metrics.SkippedCycles.Inc()
			s.logger.Warn("heartbeat cycle lost", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			s.logger.Info("heartbeat simulator stopped")
			return
		case <-ticker.C:
		}
	}
}

// runCycle — один проход: профили -> онлайн-агенты -> выборки -> коммит.
func (s *Simulator) runCycle(ctx context.Context) error {
	start := time.Now()

	written, err := s.cb.Execute(func() (interface{}, error) {
		profiles, err := s.store.ListProfiles(ctx)
		if err != nil {
			return nil, err
		}
		profileByID := make(map[int64]*domain.Profile, len(profiles))
		for i := range profiles {
			profileByID[profiles[i].ID] = &profiles[i]
		}

		agents, err := s.store.ListAgentsByStatus(ctx, domain.StatusOnline)
		if err != nil {
			return nil, err
		}

		now := s.now()
		samples := make([]domain.Telemetry, 0, len(agents))
		for i := range agents {
			agent := &agents[i]
			var profile *domain.Profile
			if agent.CurrentProfileID != nil {
				profile = profileByID[*agent.CurrentProfileID]
			}
			samples = append(samples, HeartbeatSample(s.rng, agent, profile, now))
		}

		if err := s.store.WriteHeartbeats(ctx, now, samples); err != nil {
			return nil, err
		}
		return len(samples), nil
	})
	if err != nil {
		return err
	}

	s.metrics.CyclesTotal.Inc()
	s.metrics.SamplesTotal.Add(float64(written.(int)))
	s.metrics.CycleDuration.Observe(time.Since(start).Seconds())
	return nil
}
