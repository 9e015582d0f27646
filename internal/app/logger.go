package app

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// initLogger создает и настраивает логгер.
// Значение "production" включает продакшен-конфигурацию zap, любое
// другое трактуется как уровень логирования (debug, info, warn, error)
// поверх development-конфигурации. Нераспознанный уровень дает info.
func initLogger(logLevel string) (*zap.Logger, error) {
	if logLevel == "production" {
		logger, err := zap.NewProduction()
		if err != nil {
			return nil, fmt.Errorf("failed to init logger: %w", err)
		}
		return logger, nil
	}

	level, parseErr := zapcore.ParseLevel(logLevel)
	if parseErr != nil {
		level = zapcore.InfoLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}
	return logger, nil
}
