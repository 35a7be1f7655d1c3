package domain

import "time"

// TimeRange — перечислимый токен временного окна для агрегаций.
// Нераспознанный ввод молча подменяется дефолтом Range24h: это
// документированное поведение консоли, а не ошибка валидации.
type TimeRange string

const (
	Range1h  TimeRange = "1h"
	Range24h TimeRange = "24h"
	Range7d  TimeRange = "7d"
)

// ParseRange приводит произвольную строку к валидному токену.
func ParseRange(s string) TimeRange {
	switch TimeRange(s) {
	case Range1h, Range24h, Range7d:
		return TimeRange(s)
	default:
		return Range24h
	}
}

// Duration возвращает длину окна.
func (r TimeRange) Duration() time.Duration {
	switch r {
	case Range1h:
		return time.Hour
	case Range7d:
		return 7 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// Start возвращает начало окна относительно now.
func (r TimeRange) Start(now time.Time) time.Time {
	return now.Add(-r.Duration())
}
