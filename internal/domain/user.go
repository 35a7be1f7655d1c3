package domain

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
	RoleViewer   Role = "viewer" // Только чтение
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Никогда не отправляем на фронт
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// CanWrite сообщает, разрешены ли пользователю state-changing операции.
// Роль — единственный источник правды для авторизации записи.
func (u *User) CanWrite() bool {
	return u.Role == RoleAdmin || u.Role == RoleOperator
}
