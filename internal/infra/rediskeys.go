package infra

const (
	// RedisNamespace — базовый префикс для изоляции данных проекта в Redis
	RedisNamespace = "fleetsim"
)

// Каналы Pub/Sub (события control-plane).
// Консоль — единственный publisher; подписчики (внешние визуализаторы,
// будущие живые агенты) вычитывают сигналы в формате "agent_id:profile_id".
const (
	// RedisChanProfileSignal — трансляция apply/stop профиля
	RedisChanProfileSignal = RedisNamespace + ":agents:profile-signal"
)
