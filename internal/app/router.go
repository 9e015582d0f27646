package app

import (
	"github.com/avc/payments-admin-console/internal/handlers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// setupRouter создает и настраивает роутер
func setupRouter(deps *dependencies, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Глобальные middleware
	setupMiddleware(r, logger)

	// Маршруты
	setupRoutes(r, deps, logger)

	return r
}

// setupMiddleware настраивает middleware для роутера
func setupMiddleware(r *chi.Mux, logger *zap.Logger) {
	r.Use(handlers.RequestIDMiddleware())
	r.Use(handlers.LoggingMiddleware(logger))
	r.Use(handlers.RecoveryMiddleware(logger))
	r.Use(middleware.Compress(5))
}

// setupRoutes настраивает маршруты приложения
func setupRoutes(r *chi.Mux, deps *dependencies, logger *zap.Logger) {
	wrap := deps.errors.Wrap

	// Health check эндпоинты
	r.Get("/health", deps.handlers.health.Health)
	r.Get("/ready", deps.handlers.health.Ready)

	// Публичные эндпоинты
	r.Get("/login", wrap(deps.handlers.auth.LoginPage))
	r.Post("/login", wrap(deps.handlers.auth.Login))

	// Защищенные эндпоинты
	r.Group(func(r chi.Router) {
		r.Use(handlers.RouteGuard(deps.services.auth, deps.jwtManager, deps.renderer, logger))
		r.Get("/", wrap(deps.handlers.dashboard.Index))
		r.Get("/payments", wrap(deps.handlers.payments.List))
		r.Get("/payments/export", wrap(deps.handlers.payments.Export))
		r.Get("/payments/{paymentID}", wrap(deps.handlers.payments.Detail))
		r.Post("/payments/{paymentID}/refund", wrap(deps.handlers.payments.Refund))
		r.Post("/logout", wrap(deps.handlers.auth.Logout))
		r.Post("/theme", wrap(deps.handlers.auth.Theme))
	})
}
