package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xela07ax/fleetsim-console/internal/console/handler"
	"github.com/xela07ax/fleetsim-console/internal/console/server"
	"github.com/xela07ax/fleetsim-console/internal/console/service"
	"github.com/xela07ax/fleetsim-console/internal/infra"
	"github.com/xela07ax/fleetsim-console/internal/infra/auth"
	"github.com/xela07ax/fleetsim-console/internal/repository/postgres"
	"github.com/xela07ax/fleetsim-console/internal/sim"
)

func main() {
	// 1. Конфигурация и логгер
	cfg, err := infra.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := infra.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	// 2. Ключи RS256: приватный — подписывать токены, публичный — проверять
	privateKey, err := auth.ParseRSAPrivateKey(cfg.Auth.PrivateKey)
	if err != nil {
		logger.Fatal("auth private key", zap.Error(err))
	}
	publicKey, err := auth.ParseRSAPublicKey(cfg.Auth.PublicKey)
	if err != nil {
		logger.Fatal("auth public key", zap.Error(err))
	}
	validator := auth.NewBaseValidator(publicKey)

	// Контекст жизненного цикла фоновых горутин: SIGTERM останавливает
	// симулятор раньше, чем начнется shutdown HTTP-сервера
	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Инфраструктура и ресурсы
	store, err := postgres.NewStore(appCtx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("store init", zap.Error(err))
	}
	defer store.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	// Метрики процесса
	promReg := prometheus.NewRegistry()
	simMetrics := sim.NewMetrics(promReg)

	// 4. Одноразовый посев демо-данных (маркер — источник правды)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	seedCtx, seedCancel := context.WithTimeout(appCtx, 60*time.Second)
	if err := sim.SeedIfEmpty(seedCtx, store, rng, time.Now().UTC(), logger); err != nil {
		seedCancel()
		logger.Fatal("seed", zap.Error(err))
	}
	seedCancel()

	// 5. Фоновый heartbeat-симулятор
	simulator := sim.NewSimulator(store, cfg.Sim.HeartbeatInterval,
		rand.New(rand.NewSource(time.Now().UnixNano()+1)), simMetrics, logger)
	go simulator.Run(appCtx)

	// 6. Инициализация слоев (Dependency Injection)
	authService := service.NewAuthService(store, privateKey, cfg.Auth.TokenTTL)
	agentService := service.NewAgentService(store, rdb,
		rand.New(rand.NewSource(time.Now().UnixNano()+2)), logger)
	metricsService := service.NewMetricsService(store, logger)
	auditService := service.NewAuditService(store)
	profileService := service.NewProfileService(store)
	testService := service.NewTestService(store)

	srvHandler := server.NewConsoleServer(
		cfg, logger, validator, promReg,
		handler.NewAuthHandler(authService),
		handler.NewAgentHandler(agentService),
		handler.NewProfileHandler(profileService),
		handler.NewMetricsHandler(metricsService),
		handler.NewAuditHandler(auditService),
		handler.NewTestHandler(testService),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      srvHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 7. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("console started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	<-stop // Ждем сигнал
	logger.Info("console stopping...")
	cancel() // Останавливаем симулятор

	// Даем 5 секунд на завершение запросов
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server shutdown failed", zap.Error(err))
	}
	logger.Info("console exited properly")
}
