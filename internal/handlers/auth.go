package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/avc/payments-admin-console/internal/domain"
	"github.com/avc/payments-admin-console/internal/session"
	"github.com/avc/payments-admin-console/internal/utils/jwt"
	"github.com/avc/payments-admin-console/internal/web"
	"go.uber.org/zap"
)

type AuthHandler struct {
	auth     domain.AuthService
	store    *session.Store
	cookies  *jwt.Manager
	renderer *web.Renderer
	logger   *zap.Logger
}

func NewAuthHandler(auth domain.AuthService, store *session.Store, cookies *jwt.Manager, renderer *web.Renderer, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		store:    store,
		cookies:  cookies,
		renderer: renderer,
		logger:   logger,
	}
}

type loginPageData struct {
	Theme string
	Error string
	Email string
	Next  string
}

// LoginPage рендерит страницу логина.
// Аутентифицированный оператор сразу уводится на дашборд.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) error {
	if h.authenticated(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return nil
	}

	data := loginPageData{
		Theme: h.store.LoadTheme(),
		Next:  safeNext(r.URL.Query().Get("next")),
	}
	return h.renderer.Render(w, "login.html", data)
}

// Login обрабатывает отправку формы логина.
// Отказ бэкенда в учетных данных обрабатывается прямо здесь: на странице
// логина 401 означает неверный пароль, а не протухшую сессию, глобальный
// сброс сессии к нему не применяется.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("login: failed to parse form: %w", err)
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	next := safeNext(r.PostFormValue("next"))

	if err := h.auth.Login(r.Context(), email, password); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			w.WriteHeader(http.StatusUnauthorized)
			data := loginPageData{
				Theme: h.store.LoadTheme(),
				Error: "Invalid email or password",
				Email: email,
				Next:  next,
			}
			return h.renderer.Render(w, "login.html", data)
		}
		return fmt.Errorf("login: %w", err)
	}

	admin, ok := h.auth.CurrentAdmin()
	if !ok {
		return fmt.Errorf("login: no admin profile after successful login")
	}

	cookieToken, err := h.cookies.Generate(admin.ID)
	if err != nil {
		return fmt.Errorf("login: failed to issue session cookie: %w", err)
	}
	setSessionCookie(w, cookieToken, h.cookies.TTL())

	h.logger.Info("operator logged in", zap.String("admin_id", admin.ID))

	if next == "" {
		next = "/"
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
	return nil
}

// Logout завершает сессию оператора.
// Чисто локальная операция, запрос на бэкенд не уходит.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) error {
	h.auth.Logout()
	clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
	return nil
}

// Theme переключает и персистит тему оформления
func (h *AuthHandler) Theme(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("theme: failed to parse form: %w", err)
	}

	theme := r.PostFormValue("theme")
	if theme != "dark" {
		theme = "light"
	}
	if err := h.store.SaveTheme(theme); err != nil {
		h.logger.Warn("failed to save theme preference", zap.Error(err))
	}

	back := r.Referer()
	if back == "" {
		back = "/"
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
	return nil
}

// authenticated проверяет состояние сервиса и валидность cookie
func (h *AuthHandler) authenticated(r *http.Request) bool {
	if h.auth.State() != domain.StateAuthenticated {
		return false
	}
	token, ok := sessionCookie(r)
	if !ok {
		return false
	}
	_, err := h.cookies.Validate(token)
	return err == nil
}

// safeNext отбрасывает внешние адреса в параметре next
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return ""
	}
	if _, err := url.Parse(next); err != nil {
		return ""
	}
	return next
}
