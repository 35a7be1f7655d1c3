package sim

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/xela07ax/fleetsim-console/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Демо-ростеры. Фиксированные списки, не настраиваются в рантайме.
var (
	seedUsers = []struct {
		Username string
		Role     domain.Role
		Password string
	}{
		{"admin", domain.RoleAdmin, "admin"},
		{"operator", domain.RoleOperator, "operator"},
		{"viewer", domain.RoleViewer, "viewer"},
	}

	seedProfiles = []struct {
		Name string
		Mode string
		Lat  int
		Err  int
		Thr  int
	}{
		{"Balanced", "balanced", 0, 0, 0},
		{"Low Latency", "performance", -15, 1, 20},
		{"Stable", "reliability", 15, -2, -10},
		{"Throughput", "throughput", 5, 2, 35},
		{"Diagnostics", "diagnostic", 30, 3, -20},
	}

	seedAgentNames = []string{
		"edge-node-1",
		"edge-node-2",
		"core-proxy-1",
		"core-proxy-2",
		"staging-gw-1",
		"mobile-relay-1",
		"sandbox-agent",
	}

	seedCheckNames = []string{"connectivity", "handshake", "latency-budget", "error-budget"}
)

// SeedData — полный набор строк одного прохода сидирования.
// ID проставлены явно начиная с 1: набор пишется только в пустую базу,
// хранилище после вставки двигает sequences за последний ID.
type SeedData struct {
	Users      []domain.User
	Profiles   []domain.Profile
	Agents     []domain.Agent
	Audit      []domain.AuditEvent
	Telemetry  []domain.Telemetry
	TestRuns   []domain.TestRun
	TestChecks []domain.TestCheck
}

// SeedStore — контракт хранилища для сидера. WriteSeed обязан записать весь
// набор плюс маркер завершения в одной транзакции.
type SeedStore interface {
	IsSeeded(ctx context.Context) (bool, error)
	WriteSeed(ctx context.Context, data *SeedData) error
}

// SeedIfEmpty выполняет одноразовый bootstrap демо-данных.
// Источник правды "уже посеяно" — маркер в самом хранилище, записанный
// в той же транзакции, что и данные: частичный посев маркера не оставит.
func SeedIfEmpty(ctx context.Context, store SeedStore, rng *rand.Rand, now time.Time, logger *zap.Logger) error {
	seeded, err := store.IsSeeded(ctx)
	if err != nil {
		return fmt.Errorf("seed: marker check failed: %w", err)
	}
	if seeded {
		logger.Debug("seed marker present, skipping bootstrap")
		return nil
	}

	data, err := BuildSeedData(rng, now)
	if err != nil {
		return fmt.Errorf("seed: generation failed: %w", err)
	}

	if err := store.WriteSeed(ctx, data); err != nil {
		return fmt.Errorf("seed: write failed: %w", err)
	}

	logger.Info("demo data seeded",
		zap.Int("users", len(data.Users)),
		zap.Int("profiles", len(data.Profiles)),
		zap.Int("agents", len(data.Agents)),
		zap.Int("telemetry", len(data.Telemetry)),
		zap.Int("test_runs", len(data.TestRuns)))
	return nil
}

// BuildSeedData — чистая генерация набора. Вся случайность приходит через rng.
func BuildSeedData(rng *rand.Rand, now time.Time) (*SeedData, error) {
	data := &SeedData{}

	// 1. Пользователи с фиксированными ролями и демо-паролями
	for i, u := range seedUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", u.Username, err)
		}
		data.Users = append(data.Users, domain.User{
			ID:           int64(i + 1),
			Username:     u.Username,
			PasswordHash: string(hash),
			Role:         u.Role,
			CreatedAt:    now,
		})
	}

	// 2. Профили с фиксированными модификаторами
	for i, p := range seedProfiles {
		data.Profiles = append(data.Profiles, domain.Profile{
			ID:                 int64(i + 1),
			Name:               p.Name,
			Mode:               p.Mode,
			LatencyModifier:    p.Lat,
			ErrorModifier:      p.Err,
			ThroughputModifier: p.Thr,
			CreatedAt:          now,
		})
	}

	// 3. Агенты: равномерный выбор из {5 профилей, без профиля},
	// статус со взвешиванием 2:1 в пользу online, last_seen в прошлом
	for i, name := range seedAgentNames {
		var profileID *int64
		if idx := rng.Intn(len(data.Profiles) + 1); idx < len(data.Profiles) {
			id := data.Profiles[idx].ID
			profileID = &id
		}
		status := domain.StatusOnline
		if rng.Intn(3) == 2 {
			status = domain.StatusOffline
		}
		data.Agents = append(data.Agents, domain.Agent{
			ID:               int64(i + 1),
			Name:             name,
			Status:           status,
			LastSeen:         now.Add(-time.Duration(rng.Intn(21)) * time.Minute),
			CurrentProfileID: profileID,
			CreatedAt:        now,
		})
	}

	// 4. По одной записи аудита на агента, от имени admin
	admin := data.Users[0]
	for i := range data.Agents {
		targetID := data.Agents[i].ID
		data.Audit = append(data.Audit, domain.AuditEvent{
			ID:         int64(i + 1),
			TS:         now,
			UserID:     admin.ID,
			Username:   admin.Username,
			Action:     domain.ActionSeedCreateAgent,
			TargetType: "agent",
			TargetID:   &targetID,
			Details:    "Initial seed",
		})
	}

	profileByID := make(map[int64]*domain.Profile, len(data.Profiles))
	for i := range data.Profiles {
		profileByID[data.Profiles[i].ID] = &data.Profiles[i]
	}

	// 5. Бэкфил 60 минут телеметрии. Оффлайн-агенты пропускают минуту
	// с вероятностью 0.7 — моделируем перемежающееся молчание.
	var telemetryID int64
	for minute := 60; minute >= 1; minute-- {
		ts := now.Add(-time.Duration(minute) * time.Minute)
		for i := range data.Agents {
			agent := &data.Agents[i]
			if agent.Status == domain.StatusOffline && rng.Float64() < 0.7 {
				continue
			}
			var profile *domain.Profile
			if agent.CurrentProfileID != nil {
				profile = profileByID[*agent.CurrentProfileID]
			}
			sample := SeedSample(rng, agent, profile, ts)
			telemetryID++
			sample.ID = telemetryID
			data.Telemetry = append(data.Telemetry, sample)
		}
	}

	// 6. 15 дней истории тест-прогонов, 3–8 в день, по 4 проверки на прогон
	var runID, checkID int64
	for day := 14; day >= 0; day-- {
		dateBase := now.AddDate(0, 0, -day)
		runs := 3 + rng.Intn(6)
		for r := 0; r < runs; r++ {
			status := domain.RunPassed
			if rng.Intn(3) == 2 {
				status = domain.RunFailed
			}
			runID++
			profileID := data.Profiles[rng.Intn(len(data.Profiles))].ID
			data.TestRuns = append(data.TestRuns, domain.TestRun{
				ID:         runID,
				TS:         dateBase.Add(time.Duration(rng.Intn(1201)) * time.Minute),
				ProfileID:  &profileID,
				Status:     status,
				DurationMS: 500 + rng.Intn(3501),
			})
			for _, name := range seedCheckNames {
				cStatus := domain.RunPassed
				if status != domain.RunPassed && rng.Float64() <= 0.2 {
					cStatus = domain.RunFailed
				}
				message := "ok"
				if cStatus == domain.RunFailed {
					message = "threshold exceeded"
				}
				checkID++
				data.TestChecks = append(data.TestChecks, domain.TestCheck{
					ID:        checkID,
					TestRunID: runID,
					CheckName: name,
					Status:    cStatus,
					Message:   message,
				})
			}
		}
	}

	return data, nil
}
