package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/avc/payments-admin-console/internal/domain"
)

// Config содержит конфигурацию консоли.
// Читается один раз при старте и далее не меняется.
type Config struct {
	RunAddress  string             // Адрес и порт запуска консоли
	APIBaseURL  string             // Базовый URL платежного бэкенда
	GatewayMode domain.GatewayMode // Режим работы шлюза (test|live)
	LogLevel    string             // Уровень логирования

	RequestTimeout time.Duration // Таймаут исходящих запросов к бэкенду
	StatePath      string        // Путь к файлу локального хранилища сессии

	SessionSecret string        // Секретный ключ подписи сессионной cookie
	SessionTTL    time.Duration // Время жизни сессии оператора
	SweepInterval time.Duration // Интервал проверки протухшей сессии

	ExportBasename string // Базовое имя файла CSV-экспорта
}

// Load загружает конфигурацию из переменных окружения и флагов
// Приоритет: env переменные > флаги > дефолтные значения
func Load() (*Config, error) {
	cfg := &Config{
		GatewayMode:    domain.GatewayModeTest,
		LogLevel:       "info",
		RequestTimeout: 30 * time.Second,
		SessionTTL:     24 * time.Hour,
		SweepInterval:  10 * time.Minute,
		ExportBasename: "payments",
	}

	// Определяем флаги
	flag.StringVar(&cfg.RunAddress, "a", ":8080", "address and port to run console")
	flag.StringVar(&cfg.APIBaseURL, "b", "", "payments backend base URL")
	mode := flag.String("m", string(domain.GatewayModeTest), "gateway mode (test|live)")
	flag.StringVar(&cfg.StatePath, "s", "admin-console.db", "session state file path")
	flag.Parse()
	cfg.GatewayMode = domain.GatewayMode(*mode)

	// Переменные окружения имеют приоритет над флагами
	if envRunAddr, ok := os.LookupEnv("RUN_ADDRESS"); ok {
		cfg.RunAddress = envRunAddr
	}

	if envBaseURL, ok := os.LookupEnv("API_BASE_URL"); ok {
		cfg.APIBaseURL = envBaseURL
	}

	if envMode, ok := os.LookupEnv("GATEWAY_MODE"); ok {
		cfg.GatewayMode = domain.GatewayMode(envMode)
	}

	if envStatePath, ok := os.LookupEnv("STATE_PATH"); ok {
		cfg.StatePath = envStatePath
	}

	// Секрет cookie (только из env, не из флагов для безопасности)
	if envSecret, ok := os.LookupEnv("SESSION_SECRET"); ok {
		cfg.SessionSecret = envSecret
	} else {
		cfg.SessionSecret = "default-secret-key-change-in-production"
	}

	// Уровень логирования
	if envLogLevel, ok := os.LookupEnv("LOG_LEVEL"); ok {
		cfg.LogLevel = envLogLevel
	}

	if envTimeout, ok := os.LookupEnv("REQUEST_TIMEOUT"); ok {
		if timeout, err := time.ParseDuration(envTimeout); err == nil && timeout > 0 {
			cfg.RequestTimeout = timeout
		}
	}

	if envTTL, ok := os.LookupEnv("SESSION_TTL"); ok {
		if ttl, err := time.ParseDuration(envTTL); err == nil && ttl > 0 {
			cfg.SessionTTL = ttl
		}
	}

	if envSweep, ok := os.LookupEnv("SWEEP_INTERVAL"); ok {
		if interval, err := time.ParseDuration(envSweep); err == nil && interval > 0 {
			cfg.SweepInterval = interval
		}
	}

	if envBasename, ok := os.LookupEnv("EXPORT_BASENAME"); ok {
		cfg.ExportBasename = envBasename
	}

	// Валидация обязательных параметров
	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("API base URL is required (use -b flag or API_BASE_URL env)")
	}

	if cfg.GatewayMode != domain.GatewayModeTest && cfg.GatewayMode != domain.GatewayModeLive {
		return nil, fmt.Errorf("invalid gateway mode %q (expected test or live)", cfg.GatewayMode)
	}

	return cfg, nil
}
