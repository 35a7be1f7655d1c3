package domain

import "time"

// Сценарии происхождения телеметрии.
const (
	ScenarioHeartbeat    = "heartbeat"     // Фоновый цикл симулятора
	ScenarioApplyProfile = "apply_profile" // Control-plane действие оператора
	ScenarioStopProfile  = "stop_profile"
)

// Telemetry — одна синтетическая выборка. Append-only: строка никогда не
// изменяется и не удаляется после вставки. ProfileID — снимок профиля агента
// на момент выборки; смена профиля задним числом историю не переписывает.
type Telemetry struct {
	ID        int64     `json:"id"`
	TS        time.Time `json:"ts"`
	AgentID   int64     `json:"agent_id"`
	BytesIn   int64     `json:"bytes_in"`
	BytesOut  int64     `json:"bytes_out"`
	LatencyMS int       `json:"latency_ms"`
	Errors    int       `json:"errors"`
	ProfileID *int64    `json:"profile_id"`
	Scenario  string    `json:"scenario"`
}
