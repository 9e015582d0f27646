package app

import (
	"fmt"

	"github.com/avc/payments-admin-console/internal/config"
	"github.com/avc/payments-admin-console/internal/domain"
	"github.com/avc/payments-admin-console/internal/gateway"
	"github.com/avc/payments-admin-console/internal/handlers"
	"github.com/avc/payments-admin-console/internal/service"
	"github.com/avc/payments-admin-console/internal/session"
	"github.com/avc/payments-admin-console/internal/utils/jwt"
	"github.com/avc/payments-admin-console/internal/web"
	"github.com/avc/payments-admin-console/internal/worker"
	"go.uber.org/zap"
)

// services содержит все сервисы приложения
type services struct {
	auth      domain.AuthService
	payments  domain.PaymentsService
	dashboard domain.DashboardService
}

// handlerSet содержит все хендлеры приложения
type handlerSet struct {
	auth      *handlers.AuthHandler
	payments  *handlers.PaymentsHandler
	dashboard *handlers.DashboardHandler
	health    *handlers.HealthHandler
}

// dependencies содержит все зависимости приложения
type dependencies struct {
	sessionStore *session.Store
	services     *services
	handlers     *handlerSet
	errors       *handlers.ErrorHandler
	jwtManager   *jwt.Manager
	renderer     *web.Renderer
	sweeper      *worker.Sweeper
}

// initDependencies создает все зависимости приложения
func initDependencies(cfg *config.Config, kv domain.KV, logger *zap.Logger) (*dependencies, error) {
	// Создание хранилища сессии и утилит
	sessionStore := session.NewStore(kv, logger)
	jwtManager := jwt.NewManager(cfg.SessionSecret, cfg.SessionTTL)

	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to init renderer: %w", err)
	}

	// Клиент платежного бэкенда подставляет токен из хранилища сессии
	gatewayClient := gateway.NewClient(cfg.APIBaseURL, cfg.RequestTimeout, sessionStore)

	// Создание сервисов
	svcs := &services{
		auth:      service.NewAuthService(sessionStore, gatewayClient, logger),
		payments:  service.NewPaymentsService(gatewayClient, cfg.ExportBasename, logger),
		dashboard: service.NewDashboardService(gatewayClient, logger),
	}

	errorHandler := handlers.NewErrorHandler(svcs.auth, sessionStore, renderer, logger)

	// Создание handlers
	hdlrs := &handlerSet{
		auth:      handlers.NewAuthHandler(svcs.auth, sessionStore, jwtManager, renderer, logger),
		payments:  handlers.NewPaymentsHandler(svcs.payments, svcs.auth, sessionStore, renderer, logger),
		dashboard: handlers.NewDashboardHandler(svcs.dashboard, svcs.auth, sessionStore, renderer, logger),
		health:    handlers.NewHealthHandler(kv, logger),
	}

	// Создание фонового чистильщика протухшей сессии
	sweeper := worker.NewSweeper(sessionStore, cfg.SessionTTL, cfg.SweepInterval, logger)

	return &dependencies{
		sessionStore: sessionStore,
		services:     svcs,
		handlers:     hdlrs,
		errors:       errorHandler,
		jwtManager:   jwtManager,
		renderer:     renderer,
		sweeper:      sweeper,
	}, nil
}
