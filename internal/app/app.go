package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/avc/payments-admin-console/internal/config"
	"github.com/avc/payments-admin-console/internal/repository/boltkv"
	"github.com/avc/payments-admin-console/internal/worker"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App представляет приложение
type App struct {
	config  *config.Config
	logger  *zap.Logger
	storage *boltkv.Store
	router  *chi.Mux
	sweeper *worker.Sweeper
	server  *http.Server
}

// NewApp создает новое приложение
func NewApp() (*App, error) {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Инициализация логгера
	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	// Инициализация хранилища состояния
	storage, err := initStorage(cfg.StatePath)
	if err != nil {
		return nil, err
	}
	logger.Info("state storage opened", zap.String("path", cfg.StatePath))

	// Инициализация зависимостей
	deps, err := initDependencies(cfg, storage, logger)
	if err != nil {
		return nil, err
	}

	// Восстановление сессии до приема трафика
	deps.services.auth.Startup()

	// Настройка роутера
	router := setupRouter(deps, logger)

	// Создание HTTP сервера
	server := createServer(cfg.RunAddress, router)

	return &App{
		config:  cfg,
		logger:  logger,
		storage: storage,
		router:  router,
		sweeper: deps.sweeper,
		server:  server,
	}, nil
}

// Run запускает приложение
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запуск чистильщика протухшей сессии
	a.sweeper.Start(ctx)
	a.logger.Info("session sweeper started")

	// Запуск HTTP сервера и ожидание сигнала завершения
	if err := a.runServer(ctx); err != nil {
		return err
	}

	// Graceful shutdown
	a.shutdown(cancel)

	return nil
}
