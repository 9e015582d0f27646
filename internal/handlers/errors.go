package handlers

import (
	"errors"
	"net/http"

	"github.com/avc/payments-admin-console/internal/domain"
	"github.com/avc/payments-admin-console/internal/gateway"
	"github.com/avc/payments-admin-console/internal/session"
	"github.com/avc/payments-admin-console/internal/web"
	"go.uber.org/zap"
)

// appHandler обрабатывает запрос и возвращает ошибку вместо того,
// чтобы писать ответ об ошибке самостоятельно
type appHandler func(w http.ResponseWriter, r *http.Request) error

// ErrorHandler переводит ошибки хендлеров в HTTP-ответы.
// Это единственное место, где ответ бэкенда 401 приводит к сбросу
// сессии: отдельные хендлеры не дублируют эту логику.
type ErrorHandler struct {
	auth     domain.AuthService
	store    *session.Store
	renderer *web.Renderer
	logger   *zap.Logger
}

// NewErrorHandler создает новый ErrorHandler
func NewErrorHandler(auth domain.AuthService, store *session.Store, renderer *web.Renderer, logger *zap.Logger) *ErrorHandler {
	return &ErrorHandler{
		auth:     auth,
		store:    store,
		renderer: renderer,
		logger:   logger,
	}
}

// Wrap оборачивает appHandler в стандартный http.HandlerFunc
func (e *ErrorHandler) Wrap(h appHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}

		requestID, _ := r.Context().Value(RequestIDKey).(string)

		if errors.Is(err, domain.ErrUnauthorized) {
			e.logger.Info("session rejected by backend",
				zap.String("request_id", requestID),
				zap.String("path", r.URL.Path),
			)
			e.auth.HandleUnauthorized()
			clearSessionCookie(w)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		if errors.Is(err, domain.ErrPaymentNotFound) {
			e.renderErrorPage(w, r, http.StatusNotFound,
				"The payment you are looking for does not exist.")
			return
		}

		var statusErr *gateway.StatusError
		if errors.As(err, &statusErr) {
			e.logger.Error("backend rejected request",
				zap.String("request_id", requestID),
				zap.String("path", r.URL.Path),
				zap.Int("status", statusErr.Code),
				zap.Error(err),
			)
			// Ответ 4xx это отказ по существу запроса, оператору
			// показывается текст бэкенда с тем же статусом. Остальные
			// статусы считаются сбоем бэкенда.
			if statusErr.Code >= 400 && statusErr.Code < 500 && statusErr.Message != "" {
				e.renderErrorPage(w, r, statusErr.Code, statusErr.Message)
				return
			}
			e.renderErrorPage(w, r, http.StatusBadGateway,
				"The payments backend could not process the request. Please try again.")
			return
		}

		e.logger.Error("request failed",
			zap.String("request_id", requestID),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		e.renderErrorPage(w, r, http.StatusInternalServerError,
			"Could not reach the payments backend. Check your connection and try again.")
	}
}

type errorPageData struct {
	Theme    string
	Message  string
	RetryURL string
}

func (e *ErrorHandler) renderErrorPage(w http.ResponseWriter, r *http.Request, status int, message string) {
	w.WriteHeader(status)
	data := errorPageData{
		Theme:    e.store.LoadTheme(),
		Message:  message,
		RetryURL: r.URL.RequestURI(),
	}
	if err := e.renderer.Render(w, "error.html", data); err != nil {
		e.logger.Error("failed to render error page", zap.Error(err))
	}
}
