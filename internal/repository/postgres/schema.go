package postgres

// Схема демо-консоли. Идемпотентная (IF NOT EXISTS), применяется при старте.
// telemetry и audit_events — append-only журналы: UPDATE/DELETE по ним
// в коде не существует.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'viewer',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS profiles (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	mode TEXT NOT NULL DEFAULT 'balanced',
	latency_modifier INT NOT NULL DEFAULT 0,
	error_modifier INT NOT NULL DEFAULT 0,
	throughput_modifier INT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS agents (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	status TEXT NOT NULL DEFAULT 'online',
	last_seen TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	current_profile_id BIGINT REFERENCES profiles(id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_agents_status ON agents(status);
CREATE INDEX IF NOT EXISTS idx_agents_last_seen ON agents(last_seen);

CREATE TABLE IF NOT EXISTS audit_events (
	id BIGSERIAL PRIMARY KEY,
	ts TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	user_id BIGINT NOT NULL REFERENCES users(id),
	username TEXT NOT NULL,
	action TEXT NOT NULL,
	target_type TEXT NOT NULL DEFAULT 'agent',
	target_id BIGINT,
	details TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_audit_events_ts ON audit_events(ts);
CREATE INDEX IF NOT EXISTS idx_audit_events_action ON audit_events(action);

CREATE TABLE IF NOT EXISTS telemetry (
	id BIGSERIAL PRIMARY KEY,
	ts TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	agent_id BIGINT NOT NULL REFERENCES agents(id),
	bytes_in BIGINT NOT NULL DEFAULT 0,
	bytes_out BIGINT NOT NULL DEFAULT 0,
	latency_ms INT NOT NULL DEFAULT 0,
	errors INT NOT NULL DEFAULT 0,
	profile_id BIGINT REFERENCES profiles(id),
	scenario TEXT NOT NULL DEFAULT 'heartbeat'
);
CREATE INDEX IF NOT EXISTS idx_telemetry_ts ON telemetry(ts);
CREATE INDEX IF NOT EXISTS idx_telemetry_agent ON telemetry(agent_id);
CREATE INDEX IF NOT EXISTS idx_telemetry_scenario ON telemetry(scenario);

CREATE TABLE IF NOT EXISTS test_runs (
	id BIGSERIAL PRIMARY KEY,
	ts TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	profile_id BIGINT REFERENCES profiles(id),
	status TEXT NOT NULL DEFAULT 'passed',
	duration_ms INT NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_test_runs_ts ON test_runs(ts);

CREATE TABLE IF NOT EXISTS test_checks (
	id BIGSERIAL PRIMARY KEY,
	test_run_id BIGINT NOT NULL REFERENCES test_runs(id),
	check_name TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'passed',
	message TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_test_checks_run ON test_checks(test_run_id);

-- Маркер завершенного посева. Пишется в той же транзакции, что и данные:
-- частично упавший посев маркера не оставляет и будет повторен при старте.
CREATE TABLE IF NOT EXISTS seed_marker (
	id INT PRIMARY KEY CHECK (id = 1),
	seeded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
