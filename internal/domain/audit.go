package domain

import "time"

// Имена привилегированных действий в журнале аудита.
const (
	ActionApplyProfile    = "APPLY_PROFILE"
	ActionStopProfile     = "STOP_PROFILE"
	ActionSeedCreateAgent = "SEED_CREATE_AGENT"
)

// AuditEvent — запись журнала аудита. Append-only, как и телеметрия.
// Username дублируется из User намеренно (снимок на момент действия):
// переименование пользователя не должно переписывать историю.
type AuditEvent struct {
	ID         int64     `json:"id"`
	TS         time.Time `json:"ts"`
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username"`
	Action     string    `json:"action"`
	TargetType string    `json:"target_type"` // Пока всегда "agent"
	TargetID   *int64    `json:"target_id"`
	Details    string    `json:"details"`
}
