package sim

import (
	"math/rand"
	"time"

	"github.com/xela07ax/fleetsim-console/internal/domain"
)

/*
Файл sampling.go — общая модель синтеза телеметрии для всех трех
производителей выборок (Seed Generator, Heartbeat Simulator, Action Writer).

Два режима генерации, их нельзя смешивать:
 1. Гауссовый (seed/heartbeat): устойчивый трафик вокруг базовой пропускной
    способности профиля, ошибки — бернуллиевский флаг 0/1.
 2. Равномерный (apply/stop): короткий control-plane всплеск в [50, 200] байт,
    ошибки без вероятностного масштабирования.
*/

// regime — параметры распределений, зависящие от точки вызова.
type regime struct {
	latencyBase     int
	latencyStd      float64
	latencyFloor    int
	errorDivisor    float64
	throughputBase  float64
	throughputScale float64 // множитель throughput_modifier профиля
	bytesOutScale   float64
	bytesInStd      float64
	bytesOutStd     float64
}

var (
	seedRegime = regime{
		latencyBase: 70, latencyStd: 10, latencyFloor: 20,
		errorDivisor:   20,
		throughputBase: 800, throughputScale: 12,
		bytesOutScale: 0.8, bytesInStd: 130, bytesOutStd: 120,
	}
	heartbeatRegime = regime{
		latencyBase: 65, latencyStd: 12, latencyFloor: 15,
		errorDivisor:   30,
		throughputBase: 900, throughputScale: 8,
		bytesOutScale: 0.75, bytesInStd: 140, bytesOutStd: 120,
	}
)

// modifiers профиля; nil-профиль означает "все модификаторы = 0".
func profileMods(p *domain.Profile) (lat, errMod, thr int) {
	if p == nil {
		return 0, 0, 0
	}
	return p.LatencyModifier, p.ErrorModifier, p.ThroughputModifier
}

func gaussianSample(rng *rand.Rand, p *domain.Profile, reg regime) (bytesIn, bytesOut int64, latency, errs int) {
	latMod, errMod, thrMod := profileMods(p)

	latencyBase := float64(reg.latencyBase + latMod)
	latency = int(rng.NormFloat64()*reg.latencyStd + latencyBase)
	if latency < reg.latencyFloor {
		latency = reg.latencyFloor
	}

	// errors — флаг 0/1, не счетчик; так считает и KPI error rate
	errBase := float64(1 + errMod)
	if errBase < 0 {
		errBase = 0
	}
	if rng.Float64() < errBase/reg.errorDivisor {
		errs = 1
	}

	throughput := reg.throughputBase + float64(thrMod)*reg.throughputScale
	bytesIn = int64(rng.NormFloat64()*reg.bytesInStd + throughput)
	if bytesIn < 100 {
		bytesIn = 100
	}
	bytesOut = int64(rng.NormFloat64()*reg.bytesOutStd + throughput*reg.bytesOutScale)
	if bytesOut < 100 {
		bytesOut = 100
	}
	return bytesIn, bytesOut, latency, errs
}

// HeartbeatSample синтезирует одну heartbeat-выборку для онлайн-агента.
func HeartbeatSample(rng *rand.Rand, agent *domain.Agent, p *domain.Profile, ts time.Time) domain.Telemetry {
	bytesIn, bytesOut, latency, errs := gaussianSample(rng, p, heartbeatRegime)
	return domain.Telemetry{
		TS:        ts,
		AgentID:   agent.ID,
		BytesIn:   bytesIn,
		BytesOut:  bytesOut,
		LatencyMS: latency,
		Errors:    errs,
		ProfileID: agent.CurrentProfileID,
		Scenario:  domain.ScenarioHeartbeat,
	}
}

// SeedSample синтезирует одну историческую выборку для бэкфила.
func SeedSample(rng *rand.Rand, agent *domain.Agent, p *domain.Profile, ts time.Time) domain.Telemetry {
	bytesIn, bytesOut, latency, errs := gaussianSample(rng, p, seedRegime)
	return domain.Telemetry{
		TS:        ts,
		AgentID:   agent.ID,
		BytesIn:   bytesIn,
		BytesOut:  bytesOut,
		LatencyMS: latency,
		Errors:    errs,
		ProfileID: agent.CurrentProfileID,
		Scenario:  domain.ScenarioHeartbeat,
	}
}

// ActionSample синтезирует выборку control-plane действия (apply/stop).
// Равномерный режим: это всплеск служебного трафика, а не поток данных.
func ActionSample(rng *rand.Rand, agent *domain.Agent, p *domain.Profile, scenario string, ts time.Time) domain.Telemetry {
	latMod, errMod, _ := profileMods(p)

	latency := 70 + latMod + rng.Intn(21) - 10
	if latency < 20 {
		latency = 20
	}
	errs := rng.Intn(2) + errMod
	if errs < 0 {
		errs = 0
	}

	return domain.Telemetry{
		TS:        ts,
		AgentID:   agent.ID,
		BytesIn:   int64(50 + rng.Intn(151)),
		BytesOut:  int64(50 + rng.Intn(151)),
		LatencyMS: latency,
		Errors:    errs,
		ProfileID: agent.CurrentProfileID,
		Scenario:  scenario,
	}
}
