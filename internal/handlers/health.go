package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/avc/payments-admin-console/internal/domain"
	"go.uber.org/zap"
)

// healthProbeKey читается для проверки доступности хранилища
const healthProbeKey = "health-probe"

// HealthHandler обрабатывает health check запросы
type HealthHandler struct {
	kv     domain.KV
	logger *zap.Logger
}

// NewHealthHandler создает новый HealthHandler
func NewHealthHandler(kv domain.KV, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		kv:     kv,
		logger: logger,
	}
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}

// Health возвращает статус приложения
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:  "ok",
		Storage: "ok",
	}

	if _, _, err := h.kv.Get(healthProbeKey); err != nil {
		response.Status = "degraded"
		response.Storage = "unavailable"
		h.logger.Warn("health check: storage unavailable", zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	if response.Status != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("failed to encode health response", zap.Error(err))
	}
}

// Ready возвращает готовность приложения принимать трафик
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if _, _, err := h.kv.Get(healthProbeKey); err != nil {
		h.logger.Warn("readiness check failed: storage unavailable", zap.Error(err))
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
