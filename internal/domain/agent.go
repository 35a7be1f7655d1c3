package domain

import "time"

type AgentStatus string

const (
	StatusOnline  AgentStatus = "online"  // Агент шлет heartbeat
	StatusOffline AgentStatus = "offline" // Агент молчит, телеметрия не генерируется
)

// Agent — симулируемый сетевой узел флота.
// Единственное изменяемое поле в нормальной работе — CurrentProfileID
// (выставляется операциями apply/stop); LastSeen двигает Heartbeat Simulator.
type Agent struct {
	ID               int64       `json:"id"`
	Name             string      `json:"name"` // Уникальное человекочитаемое имя ("edge-node-1")
	Status           AgentStatus `json:"status"`
	LastSeen         time.Time   `json:"last_seen"`
	CurrentProfileID *int64      `json:"current_profile_id"` // nil = профиль не назначен
	CreatedAt        time.Time   `json:"created_at"`
}
