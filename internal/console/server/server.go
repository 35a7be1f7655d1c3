package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xela07ax/fleetsim-console/internal/console/handler"
	"github.com/xela07ax/fleetsim-console/internal/infra"
	"github.com/xela07ax/fleetsim-console/internal/infra/auth"
	"go.uber.org/zap"
)

type ConsoleServer struct {
	router *chi.Mux
	logger *zap.Logger
	cfg    *infra.Config

	// Интерфейс для проверки токенов (RS256)
	authValidator auth.TokenValidator

	// Обработчики бизнес-доменов
	authHandler    *handler.AuthHandler    // /auth/token
	agentHandler   *handler.AgentHandler   // /v1/agents
	profileHandler *handler.ProfileHandler // /v1/profiles
	metricsHandler *handler.MetricsHandler // /api/v1/metrics + dashboard
	auditHandler   *handler.AuditHandler   // /v1/audit
	testHandler    *handler.TestHandler    // /v1/tests
}

// NewConsoleServer инициализирует сервер консоли со всеми зависимостями
func NewConsoleServer(
	cfg *infra.Config,
	logger *zap.Logger,
	validator auth.TokenValidator,
	promReg *prometheus.Registry,
	authH *handler.AuthHandler,
	agentH *handler.AgentHandler,
	profileH *handler.ProfileHandler,
	metricsH *handler.MetricsHandler,
	auditH *handler.AuditHandler,
	testH *handler.TestHandler,
) *ConsoleServer {
	s := &ConsoleServer{
		router:         chi.NewRouter(),
		logger:         logger.Named("console-api"),
		cfg:            cfg,
		authValidator:  validator,
		authHandler:    authH,
		agentHandler:   agentH,
		profileHandler: profileH,
		metricsHandler: metricsH,
		auditHandler:   auditH,
		testHandler:    testH,
	}

	s.routes(promReg)
	return s
}

func (s *ConsoleServer) routes(promReg *prometheus.Registry) {
	r := s.router

	// --- 1. Глобальные инфраструктурные Middleware (для всех) ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(TracingMiddleware)

	// --- 2. ПУБЛИЧНЫЕ РОУТЫ ---
	r.Group(func(r chi.Router) {
		// Логин должен быть доступен без токена
		r.Post("/auth/token", s.authHandler.Login)

		// Healthcheck для мониторинга
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		// Метрики процесса (prometheus)
		r.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
	})

	// --- 3. ЗАЩИЩЕННЫЙ ПЕРИМЕТР (Требуют RS256 токен) ---
	r.Group(func(r chi.Router) {
		r.Use(auth.NewMiddleware(s.authValidator, s.logger))

		// Dashboard & Аналитика
		r.Get("/api/v1/dashboard", s.metricsHandler.Dashboard)
		r.Get("/api/v1/activity", s.metricsHandler.Activity)
		r.Route("/api/v1/metrics", func(r chi.Router) {
			r.Get("/kpi", s.metricsHandler.KPI)
			r.Get("/traffic", s.metricsHandler.Traffic)
			r.Get("/latency", s.metricsHandler.Latency)
			r.Get("/actions", s.metricsHandler.Actions)
			r.Get("/profile-distribution", s.metricsHandler.ProfileDistribution)
			r.Get("/top-errors", s.metricsHandler.TopErrors)
		})

		// Управление агентами
		r.Route("/v1/agents", func(r chi.Router) {
			r.Get("/", s.agentHandler.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.agentHandler.Get)
				r.Get("/telemetry", s.agentHandler.Telemetry)

				// Мутации — под лимитером
				r.Group(func(r chi.Router) {
					r.Use(WriteRateLimiter(s.cfg.Server.WriteRate, s.cfg.Server.WriteBurst))
					r.Post("/apply", s.agentHandler.Apply)
					r.Post("/stop", s.agentHandler.Stop)
				})
			})
		})

		// Профили (read-only: update-пути не существует)
		r.Get("/v1/profiles", s.profileHandler.List)

		// Аудит и тест-прогоны
		r.Get("/v1/audit", s.auditHandler.List)
		r.Get("/v1/tests", s.testHandler.List)
	})
}

// ServeHTTP позволяет использовать ConsoleServer как стандартный http.Handler
func (s *ConsoleServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
