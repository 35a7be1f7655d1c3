package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xela07ax/fleetsim-console/internal/infra"
	"go.uber.org/zap"
)

// Store — единственная точка доступа к PostgreSQL. Конструируется в main
// и передается вниз по ссылке (никакого ambient-глобального состояния):
// каждый тест может поднять свой изолированный экземпляр.
type Store struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewStore открывает пул, дожидается доступности базы (стартовый retry
// с экспоненциальным бэкоффом) и прогоняет миграцию схемы.
func NewStore(ctx context.Context, cfg infra.DatabaseConfig, logger *zap.Logger) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}

	s := &Store{pool: pool, logger: logger.Named("postgres")}

	// База может подниматься параллельно с консолью (docker compose),
	// поэтому первый Ping — с ретраями
	err = retry.New(
		retry.Context(ctx),
		retry.Attempts(5),
		retry.Delay(500*time.Millisecond),
	).Do(func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		return pool.Ping(pingCtx)
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: database unreachable: %w", err)
	}

	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: migration failed: %w", err)
	}

	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() {
	s.pool.Close()
}
