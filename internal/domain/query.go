package domain

import "time"

// AgentFilter — параметры листинга агентов.
type AgentFilter struct {
	Search   string // подстрока имени
	Status   string // "online" | "offline" | все остальное = без фильтра
	SortDesc bool   // сортировка по last_seen
}

// ProfileFilter — параметры листинга профилей.
type ProfileFilter struct {
	Search        string
	SortByCreated bool // иначе по имени
}

// AuditFilter — параметры выборки журнала аудита.
type AuditFilter struct {
	Username string // подстрока
	Action   string // подстрока
	From     *time.Time
	To       *time.Time
	Limit    int
}

// ProfileApplyCount — сырая строка GROUP BY по profile_id.
type ProfileApplyCount struct {
	ProfileID *int64
	Count     int64
}

// AgentErrorTotal — сырая строка GROUP BY по agent_id.
// AgentName == nil, когда агент уже не существует.
type AgentErrorTotal struct {
	AgentID   int64
	AgentName *string
	Errors    int64
}
