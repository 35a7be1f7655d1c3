package domain

import "time"

// KPI — сводка для верхней панели дашборда.
// Deployments24h всегда считается за фиксированные 24 часа,
// независимо от выбранного окна (так задумано: это SLA-счетчик, не график).
type KPI struct {
	OnlineAgents     int     `json:"online_agents"`
	TotalAgents      int     `json:"total_agents"`
	Deployments24h   int     `json:"deployments_24h"`
	ErrorRatePer1000 float64 `json:"error_rate_per_1000"`
	AvgLatency       float64 `json:"avg_latency"`
}

// TrafficPoint — минутный бакет трафика. LatencyTotal/Count сохраняются,
// чтобы из того же прохода выводить ряд задержек.
type TrafficPoint struct {
	TS           string `json:"ts"` // "2006-01-02 15:04", усечение до минуты
	BytesIn      int64  `json:"bytes_in"`
	BytesOut     int64  `json:"bytes_out"`
	LatencyTotal int64  `json:"latency_total"`
	Count        int    `json:"count"`
}

type LatencyPoint struct {
	TS        string  `json:"ts"`
	LatencyMS float64 `json:"latency_ms"`
}

// ActionsBreakdown — счетчики действий аудита. PING — префиксное совпадение,
// независимое от точных, поэтому бакеты не взаимоисключающие.
type ActionsBreakdown struct {
	Ping  int `json:"PING"`
	Apply int `json:"APPLY"`
	Stop  int `json:"STOP"`
}

// DistributionEntry — элемент распределения применений профилей.
type DistributionEntry struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

// AgentErrors — суммарные ошибки одного агента за окно.
type AgentErrors struct {
	Agent  string `json:"agent"`
	Errors int64  `json:"errors"`
}

// ActivityItem — строка объединенной ленты (аудит + телеметрия).
type ActivityItem struct {
	TS      time.Time `json:"ts"`
	Type    string    `json:"type"` // "audit" | "telemetry"
	Action  string    `json:"action"`
	Details string    `json:"details"`
}

// Dashboard — payload главной страницы: KPI за 24ч + последняя телеметрия.
type Dashboard struct {
	KPI    KPI         `json:"kpi"`
	Latest []Telemetry `json:"latest"`
}
