package handlers

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/avc/payments-admin-console/internal/domain"
	"github.com/avc/payments-admin-console/internal/utils/jwt"
	"github.com/avc/payments-admin-console/internal/web"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const (
	RequestIDKey contextKey = "request_id"
)

// RequestIDMiddleware генерирует уникальный request ID
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.New().String()
			ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
			w.Header().Set("X-Request-ID", requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoggingMiddleware логирует HTTP запросы
func LoggingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Используем chi middleware wrapper для получения статуса
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				requestID, _ := r.Context().Value(RequestIDKey).(string)
				logger.Info("HTTP request",
					zap.String("request_id", requestID),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Duration("duration", time.Since(start)),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// RecoveryMiddleware обрабатывает паники
func RecoveryMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					requestID, _ := r.Context().Value(RequestIDKey).(string)
					logger.Error("panic recovered",
						zap.String("request_id", requestID),
						zap.Any("panic", rec),
					)
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// RouteGuard закрывает маршруты консоли от неаутентифицированных операторов.
// Пока сессия восстанавливается, рендерится нейтральная заглушка без
// редиректа: преждевременный редирект выкинул бы оператора с валидной
// сессией. Неаутентифицированный запрос уводится на страницу логина с
// сохранением исходного пути в параметре next.
func RouteGuard(auth domain.AuthService, cookies *jwt.Manager, renderer *web.Renderer, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch auth.State() {
			case domain.StateLoading:
				if err := renderer.Render(w, "loading.html", loadingPageData{Theme: "light"}); err != nil {
					logger.Error("failed to render loading page", zap.Error(err))
				}
				return
			case domain.StateUnauthenticated:
				redirectToLogin(w, r)
				return
			}

			token, ok := sessionCookie(r)
			if !ok {
				redirectToLogin(w, r)
				return
			}

			if _, err := cookies.Validate(token); err != nil {
				logger.Info("invalid session cookie", zap.Error(err))
				clearSessionCookie(w)
				redirectToLogin(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type loadingPageData struct {
	Theme string
}

// redirectToLogin уводит на страницу логина, запоминая исходный путь
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := "/login"
	if uri := r.URL.RequestURI(); uri != "/" && uri != "" {
		target += "?next=" + url.QueryEscape(uri)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
