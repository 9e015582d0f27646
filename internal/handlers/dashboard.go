package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/avc/payments-admin-console/internal/domain"
	"github.com/avc/payments-admin-console/internal/session"
	"github.com/avc/payments-admin-console/internal/web"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboard domain.DashboardService
	auth      domain.AuthService
	store     *session.Store
	renderer  *web.Renderer
	logger    *zap.Logger
}

func NewDashboardHandler(dashboard domain.DashboardService, auth domain.AuthService, store *session.Store, renderer *web.Renderer, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
		auth:      auth,
		store:     store,
		renderer:  renderer,
		logger:    logger,
	}
}

type dashboardPageData struct {
	Theme      string
	AdminName  string
	Stats      *domain.DashboardStats
	Revenue    []domain.RevenuePoint
	Period     domain.RevenuePeriod
	Sample     []domain.Payment
	StatusDist domain.StatusDistribution
	MethodDist []domain.MethodCount
}

// Index рендерит дашборд.
// Обычный заход перезагружает агрегаты и выборку: дашборд показывает
// свежий снимок, а не закешированный с прошлого визита. Смена периода
// в query-параметре перезапрашивает только временной ряд выручки,
// агрегаты и выборка при этом не трогаются.
func (h *DashboardHandler) Index(w http.ResponseWriter, r *http.Request) error {
	raw := r.URL.Query().Get("period")
	if raw == "" || !h.dashboard.Snapshot().Loaded {
		if err := h.dashboard.Load(r.Context()); err != nil {
			return fmt.Errorf("dashboard: %w", err)
		}
	}

	if raw != "" {
		err := h.dashboard.SetPeriod(r.Context(), domain.RevenuePeriod(raw))
		switch {
		case errors.Is(err, domain.ErrInvalidPeriod):
			// Неизвестный период игнорируется, дашборд остается на текущем
			h.logger.Warn("unknown revenue period ignored", zap.String("period", raw))
		case err != nil:
			return fmt.Errorf("dashboard: %w", err)
		}
	}

	snapshot := h.dashboard.Snapshot()
	data := dashboardPageData{
		Theme:      h.store.LoadTheme(),
		AdminName:  adminName(h.auth),
		Stats:      snapshot.Stats,
		Revenue:    snapshot.Revenue,
		Period:     snapshot.Period,
		Sample:     snapshot.Sample,
		StatusDist: h.dashboard.StatusDistribution(),
		MethodDist: h.dashboard.MethodDistribution(),
	}
	return h.renderer.Render(w, "dashboard.html", data)
}
