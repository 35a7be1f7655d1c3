package domain

import "time"

// Profile — поведенческий профиль агента. Модификаторы сдвигают распределения
// синтетической телеметрии (см. internal/sim). Профиль неизменяем после того,
// как на него сослалась историческая телеметрия: update-пути не существует.
type Profile struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"` // Уникальное имя ("Low Latency")
	Mode               string    `json:"mode"` // Метка режима ("performance", "reliability", ...)
	LatencyModifier    int       `json:"latency_modifier"`
	ErrorModifier      int       `json:"error_modifier"`
	ThroughputModifier int       `json:"throughput_modifier"`
	CreatedAt          time.Time `json:"created_at"`
}
