package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/avc/payments-admin-console/internal/domain"
	"github.com/avc/payments-admin-console/internal/gateway"
	"github.com/avc/payments-admin-console/internal/repository/memkv"
	"github.com/avc/payments-admin-console/internal/session"
	"github.com/avc/payments-admin-console/internal/utils/jwt"
	"github.com/avc/payments-admin-console/internal/web"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	auth      *fakeAuthService
	payments  *fakePaymentsService
	dashboard *fakeDashboardService
	kv        *memkv.Store
	store     *session.Store
	cookies   *jwt.Manager
	renderer  *web.Renderer
	errors    *ErrorHandler
	logger    *zap.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := zap.NewNop()
	renderer, err := web.NewRenderer()
	require.NoError(t, err)

	kv := memkv.New()
	store := session.NewStore(kv, logger)
	cookies := jwt.NewManager("test-secret", time.Hour)

	auth := &fakeAuthService{
		state:    domain.StateAuthenticated,
		admin:    domain.Admin{ID: "admin_1", Email: "ops@example.com", Name: "Ops Admin"},
		hasAdmin: true,
	}
	payments := &fakePaymentsService{filters: domain.DefaultFilters()}
	dashboard := &fakeDashboardService{
		snapshot: domain.DashboardSnapshot{Period: domain.RevenuePeriodDaily},
	}

	return &testEnv{
		auth:      auth,
		payments:  payments,
		dashboard: dashboard,
		kv:        kv,
		store:     store,
		cookies:   cookies,
		renderer:  renderer,
		errors:    NewErrorHandler(auth, store, renderer, logger),
		logger:    logger,
	}
}

func (e *testEnv) authHandler() *AuthHandler {
	return NewAuthHandler(e.auth, e.store, e.cookies, e.renderer, e.logger)
}

func (e *testEnv) paymentsHandler() *PaymentsHandler {
	return NewPaymentsHandler(e.payments, e.auth, e.store, e.renderer, e.logger)
}

func (e *testEnv) dashboardHandler() *DashboardHandler {
	return NewDashboardHandler(e.dashboard, e.auth, e.store, e.renderer, e.logger)
}

// withSessionCookie добавляет к запросу валидную сессионную cookie
func (e *testEnv) withSessionCookie(t *testing.T, req *http.Request) *http.Request {
	t.Helper()
	token, err := e.cookies.Generate("admin_1")
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	return req
}

func formRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestAuthHandler_LoginPage(t *testing.T) {
	t.Run("Renders form for unauthenticated operator", func(t *testing.T) {
		env := newTestEnv(t)
		env.auth.state = domain.StateUnauthenticated
		env.auth.hasAdmin = false

		req := httptest.NewRequest(http.MethodGet, "/login?next=%2Fpayments", nil)
		w := httptest.NewRecorder()

		env.errors.Wrap(env.authHandler().LoginPage)(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `name="email"`)
		assert.Contains(t, w.Body.String(), `value="/payments"`)
	})

	t.Run("Redirects authenticated operator to dashboard", func(t *testing.T) {
		env := newTestEnv(t)

		req := env.withSessionCookie(t, httptest.NewRequest(http.MethodGet, "/login", nil))
		w := httptest.NewRecorder()

		env.errors.Wrap(env.authHandler().LoginPage)(w, req)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
	})

	t.Run("External next is dropped", func(t *testing.T) {
		env := newTestEnv(t)
		env.auth.state = domain.StateUnauthenticated

		req := httptest.NewRequest(http.MethodGet, "/login?next=https%3A%2F%2Fevil.example", nil)
		w := httptest.NewRecorder()

		env.errors.Wrap(env.authHandler().LoginPage)(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "evil.example")
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("Success sets cookie and redirects", func(t *testing.T) {
		env := newTestEnv(t)
		env.auth.state = domain.StateUnauthenticated

		form := url.Values{"email": {"ops@example.com"}, "password": {"secret"}}
		w := httptest.NewRecorder()

		env.errors.Wrap(env.authHandler().Login)(w, formRequest("/login", form))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
		assert.Equal(t, 1, env.auth.loginCalls)
		assert.Equal(t, "ops@example.com", env.auth.loginEmail)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, sessionCookieName, cookies[0].Name)
		assert.NotEmpty(t, cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("Success honors next", func(t *testing.T) {
		env := newTestEnv(t)
		env.auth.state = domain.StateUnauthenticated

		form := url.Values{
			"email":    {"ops@example.com"},
			"password": {"secret"},
			"next":     {"/payments?status=captured"},
		}
		w := httptest.NewRecorder()

		env.errors.Wrap(env.authHandler().Login)(w, formRequest("/login", form))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/payments?status=captured", w.Header().Get("Location"))
	})

	t.Run("Invalid credentials render inline error", func(t *testing.T) {
		env := newTestEnv(t)
		env.auth.state = domain.StateUnauthenticated
		env.auth.loginErr = fmt.Errorf("auth: login rejected: %w", domain.ErrUnauthorized)

		form := url.Values{"email": {"ops@example.com"}, "password": {"wrong"}}
		w := httptest.NewRecorder()

		env.errors.Wrap(env.authHandler().Login)(w, formRequest("/login", form))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid email or password")
		assert.Contains(t, w.Body.String(), `value="ops@example.com"`)
		// Отказ на странице логина не трогает глобальный обработчик сессии
		assert.Equal(t, 0, env.auth.unauthorizedCalls)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("Backend failure renders error page", func(t *testing.T) {
		env := newTestEnv(t)
		env.auth.state = domain.StateUnauthenticated
		env.auth.loginErr = fmt.Errorf("gateway: connection refused")

		form := url.Values{"email": {"ops@example.com"}, "password": {"secret"}}
		w := httptest.NewRecorder()

		env.errors.Wrap(env.authHandler().Login)(w, formRequest("/login", form))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Something went wrong")
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	env := newTestEnv(t)

	w := httptest.NewRecorder()
	env.errors.Wrap(env.authHandler().Logout)(w, formRequest("/logout", url.Values{}))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Equal(t, 1, env.auth.logoutCalls)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookieName, cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestAuthHandler_Theme(t *testing.T) {
	env := newTestEnv(t)

	form := url.Values{"theme": {"dark"}}
	req := formRequest("/theme", form)
	req.Header.Set("Referer", "/payments")
	w := httptest.NewRecorder()

	env.errors.Wrap(env.authHandler().Theme)(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/payments", w.Header().Get("Location"))
	assert.Equal(t, "dark", env.store.LoadTheme())

	t.Run("Unknown value falls back to light", func(t *testing.T) {
		w := httptest.NewRecorder()
		env.errors.Wrap(env.authHandler().Theme)(w, formRequest("/theme", url.Values{"theme": {"neon"}}))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "light", env.store.LoadTheme())
	})
}

func TestPaymentsHandler_List(t *testing.T) {
	t.Run("Renders view and forwards filters", func(t *testing.T) {
		env := newTestEnv(t)
		env.payments.view = domain.PaymentView{
			Items: []domain.Payment{
				{ID: "pay_1", Amount: 10000, Currency: "INR", Status: domain.PaymentStatusCaptured, Method: domain.PaymentMethodUPI, Mode: domain.GatewayModeTest, Email: "a@b.c", CreatedAt: 1705314600},
			},
			Filtered:   40,
			Fetched:    100,
			Page:       1,
			TotalPages: 4,
		}

		req := httptest.NewRequest(http.MethodGet, "/payments?status=captured&mode=test&start=2024-01-01", nil)
		w := httptest.NewRecorder()

		env.errors.Wrap(env.paymentsHandler().List)(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Showing 40 of 100 payments")
		assert.Contains(t, w.Body.String(), "₹100.00")

		assert.Equal(t, "captured", env.payments.filters.Status)
		assert.Equal(t, "test", env.payments.filters.Mode)
		assert.Equal(t, domain.FilterAll, env.payments.filters.Method)
		assert.Equal(t, "2024-01-01", env.payments.filters.StartDate)
	})

	t.Run("Page parameter is applied", func(t *testing.T) {
		env := newTestEnv(t)
		env.payments.view = domain.PaymentView{Page: 3, TotalPages: 4, Filtered: 40, Fetched: 100}

		req := httptest.NewRequest(http.MethodGet, "/payments?page=3", nil)
		w := httptest.NewRecorder()

		env.errors.Wrap(env.paymentsHandler().List)(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 3, env.payments.page)
	})

	t.Run("Backend 401 clears session and redirects", func(t *testing.T) {
		env := newTestEnv(t)
		env.payments.setFiltersErr = fmt.Errorf("gateway: GET /payments: %w", domain.ErrUnauthorized)

		req := httptest.NewRequest(http.MethodGet, "/payments", nil)
		w := httptest.NewRecorder()

		env.errors.Wrap(env.paymentsHandler().List)(w, req)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
		assert.Equal(t, 1, env.auth.unauthorizedCalls)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Less(t, cookies[0].MaxAge, 0)
	})

	t.Run("Backend rejection renders error page", func(t *testing.T) {
		env := newTestEnv(t)
		env.payments.setFiltersErr = fmt.Errorf("payments: %w", &gateway.StatusError{Code: 503, Message: "unavailable"})

		req := httptest.NewRequest(http.MethodGet, "/payments", nil)
		w := httptest.NewRecorder()

		env.errors.Wrap(env.paymentsHandler().List)(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "Something went wrong")
	})
}

func TestPaymentsHandler_Detail(t *testing.T) {
	router := func(env *testEnv) *chi.Mux {
		r := chi.NewRouter()
		r.Get("/payments/{paymentID}", env.errors.Wrap(env.paymentsHandler().Detail))
		return r
	}

	t.Run("Renders payment card", func(t *testing.T) {
		env := newTestEnv(t)
		bank := "HDFC"
		env.payments.payment = &domain.Payment{
			ID:       "pay_detail_1",
			Amount:   250000,
			Currency: "INR",
			Status:   domain.PaymentStatusCaptured,
			Method:   domain.PaymentMethodNetbanking,
			Bank:     &bank,
			Mode:     domain.GatewayModeLive,
			Fee:      2500,
			Tax:      450,
		}

		req := httptest.NewRequest(http.MethodGet, "/payments/pay_detail_1", nil)
		w := httptest.NewRecorder()
		router(env).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "pay_detail_1")
		assert.Contains(t, w.Body.String(), "HDFC")
		assert.Contains(t, w.Body.String(), "Gateway Fee")
		// Успешный платеж без возвратов можно вернуть
		assert.Contains(t, w.Body.String(), "/payments/pay_detail_1/refund")
	})

	t.Run("Failed payment shows error details", func(t *testing.T) {
		env := newTestEnv(t)
		desc := "Card declined by issuing bank"
		env.payments.payment = &domain.Payment{
			ID:               "pay_failed",
			Amount:           5000,
			Currency:         "INR",
			Status:           domain.PaymentStatusFailed,
			Method:           domain.PaymentMethodCard,
			Mode:             domain.GatewayModeTest,
			ErrorDescription: &desc,
		}

		req := httptest.NewRequest(http.MethodGet, "/payments/pay_failed", nil)
		w := httptest.NewRecorder()
		router(env).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Card declined by issuing bank")
		assert.NotContains(t, w.Body.String(), "/payments/pay_failed/refund")
	})

	t.Run("Unknown payment renders 404", func(t *testing.T) {
		env := newTestEnv(t)
		env.payments.paymentErr = fmt.Errorf("payments: %w", domain.ErrPaymentNotFound)

		req := httptest.NewRequest(http.MethodGet, "/payments/pay_missing", nil)
		w := httptest.NewRecorder()
		router(env).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "does not exist")
	})
}

func TestPaymentsHandler_Export(t *testing.T) {
	env := newTestEnv(t)
	env.payments.exportName = "payments_2024-01-15.csv"
	env.payments.exportData = []byte("\"Payment ID\",\"Order ID\"\n")

	req := httptest.NewRequest(http.MethodGet, "/payments/export?status=captured", nil)
	w := httptest.NewRecorder()

	env.errors.Wrap(env.paymentsHandler().Export)(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="payments_2024-01-15.csv"`)
	assert.Equal(t, string(env.payments.exportData), w.Body.String())
	assert.Equal(t, "captured", env.payments.filters.Status)
}

func TestPaymentsHandler_Refund(t *testing.T) {
	router := func(env *testEnv) *chi.Mux {
		r := chi.NewRouter()
		r.Post("/payments/{paymentID}/refund", env.errors.Wrap(env.paymentsHandler().Refund))
		return r
	}

	t.Run("Full refund omits amount", func(t *testing.T) {
		env := newTestEnv(t)
		env.payments.refunded = &domain.Payment{ID: "pay_1"}

		w := httptest.NewRecorder()
		router(env).ServeHTTP(w, formRequest("/payments/pay_1/refund", url.Values{}))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/payments/pay_1", w.Header().Get("Location"))
		assert.Equal(t, 1, env.payments.refundCalls)
		assert.Equal(t, "pay_1", env.payments.refundID)
		assert.Nil(t, env.payments.refundAmount)
	})

	t.Run("Partial refund forwards amount", func(t *testing.T) {
		env := newTestEnv(t)
		env.payments.refunded = &domain.Payment{ID: "pay_1"}

		form := url.Values{"amount": {"5000"}}
		w := httptest.NewRecorder()
		router(env).ServeHTTP(w, formRequest("/payments/pay_1/refund", form))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		require.NotNil(t, env.payments.refundAmount)
		assert.Equal(t, int64(5000), *env.payments.refundAmount)
	})

	t.Run("Backend validation error surfaces backend message", func(t *testing.T) {
		env := newTestEnv(t)
		env.payments.refundErr = fmt.Errorf("payments: %w",
			&gateway.StatusError{Code: 400, Message: "Refund amount exceeds captured amount"})

		form := url.Values{"amount": {"999999"}}
		w := httptest.NewRecorder()
		router(env).ServeHTTP(w, formRequest("/payments/pay_1/refund", form))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Refund amount exceeds captured amount")
	})

	t.Run("Invalid amount is rejected locally", func(t *testing.T) {
		env := newTestEnv(t)

		form := url.Values{"amount": {"-100"}}
		w := httptest.NewRecorder()
		router(env).ServeHTTP(w, formRequest("/payments/pay_1/refund", form))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, 0, env.payments.refundCalls)
	})
}

func TestDashboardHandler_Index(t *testing.T) {
	stats := &domain.DashboardStats{
		TotalUsers:         1200,
		TotalOrganizations: 85,
		TotalRevenue:       123456789,
		PendingPayments:    45000,
		SuccessfulPayments: 900,
		FailedPayments:     42,
		RazorpayMode:       domain.GatewayModeTest,
	}

	t.Run("First visit loads data", func(t *testing.T) {
		env := newTestEnv(t)
		env.dashboard.nextStats = stats

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()

		env.errors.Wrap(env.dashboardHandler().Index)(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, env.dashboard.loadCalls)
		assert.Contains(t, w.Body.String(), "₹12,34,567.89")
	})

	t.Run("Every plain visit shows a fresh snapshot", func(t *testing.T) {
		env := newTestEnv(t)
		env.dashboard.nextStats = stats

		handler := env.errors.Wrap(env.dashboardHandler().Index)

		w := httptest.NewRecorder()
		handler(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Contains(t, w.Body.String(), "1,200")

		// Бэкенд обновил агрегаты, следующий заход показывает их
		fresh := *stats
		fresh.TotalUsers = 2500
		env.dashboard.nextStats = &fresh

		w = httptest.NewRecorder()
		handler(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 2, env.dashboard.loadCalls)
		assert.Contains(t, w.Body.String(), "2,500")
		assert.NotContains(t, w.Body.String(), "1,200")
	})

	t.Run("Period parameter switches revenue series without reload", func(t *testing.T) {
		env := newTestEnv(t)
		env.dashboard.snapshot.Stats = stats
		env.dashboard.snapshot.Loaded = true

		req := httptest.NewRequest(http.MethodGet, "/?period=monthly", nil)
		w := httptest.NewRecorder()

		env.errors.Wrap(env.dashboardHandler().Index)(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		// Смена периода не трогает агрегаты и выборку
		assert.Equal(t, 0, env.dashboard.loadCalls)
		require.Len(t, env.dashboard.periods, 1)
		assert.Equal(t, domain.RevenuePeriodMonthly, env.dashboard.periods[0])
	})

	t.Run("Period on a cold dashboard loads first", func(t *testing.T) {
		env := newTestEnv(t)
		env.dashboard.nextStats = stats

		req := httptest.NewRequest(http.MethodGet, "/?period=monthly", nil)
		w := httptest.NewRecorder()

		env.errors.Wrap(env.dashboardHandler().Index)(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, env.dashboard.loadCalls)
		require.Len(t, env.dashboard.periods, 1)
	})

	t.Run("Unknown period is ignored", func(t *testing.T) {
		env := newTestEnv(t)
		env.dashboard.snapshot.Stats = stats
		env.dashboard.snapshot.Loaded = true
		env.dashboard.setPeriodErr = domain.ErrInvalidPeriod

		req := httptest.NewRequest(http.MethodGet, "/?period=weekly", nil)
		w := httptest.NewRecorder()

		env.errors.Wrap(env.dashboardHandler().Index)(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, domain.RevenuePeriodDaily, env.dashboard.snapshot.Period)
	})

	t.Run("Load failure renders error page", func(t *testing.T) {
		env := newTestEnv(t)
		env.dashboard.loadErr = fmt.Errorf("gateway: connection refused")

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()

		env.errors.Wrap(env.dashboardHandler().Index)(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Something went wrong")
	})
}

func TestHealthHandler(t *testing.T) {
	t.Run("Healthy storage", func(t *testing.T) {
		kv := memkv.New()
		handler := NewHealthHandler(kv, zap.NewNop())

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()

		handler.Health(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"ok"`)
	})

	t.Run("Degraded storage", func(t *testing.T) {
		kv := memkv.New()
		kv.FailGet = fmt.Errorf("storage unavailable")
		handler := NewHealthHandler(kv, zap.NewNop())

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()

		handler.Health(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `"storage":"unavailable"`)
	})

	t.Run("Readiness", func(t *testing.T) {
		handler := NewHealthHandler(memkv.New(), zap.NewNop())

		req := httptest.NewRequest(http.MethodGet, "/ready", nil)
		w := httptest.NewRecorder()

		handler.Ready(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
