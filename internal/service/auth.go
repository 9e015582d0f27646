package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/avc/payments-admin-console/internal/domain"
	"github.com/avc/payments-admin-console/internal/session"
	"go.uber.org/zap"
)

// AuthService реализует domain.AuthService.
// Держит состояние аутентификации в памяти и синхронизирует его
// с session.Store при старте и на каждом переходе.
type AuthService struct {
	store   *session.Store
	gateway domain.GatewayClient
	logger  *zap.Logger

	mu    sync.RWMutex
	state domain.AuthState
	admin domain.Admin
}

// NewAuthService создает новый AuthService в состоянии loading
func NewAuthService(store *session.Store, gateway domain.GatewayClient, logger *zap.Logger) *AuthService {
	return &AuthService{
		store:   store,
		gateway: gateway,
		logger:  logger,
		state:   domain.StateLoading,
	}
}

// Startup восстанавливает сессию из хранилища.
// Должен завершиться до первого решения route guard, иначе
// аутентифицированный оператор увидит экран логина. Не ошибается:
// любой сбой чтения деградирует в "не аутентифицирован".
func (s *AuthService) Startup() {
	token, admin, ok := s.store.Load()

	s.mu.Lock()
	defer s.mu.Unlock()

	if ok && token != "" {
		s.state = domain.StateAuthenticated
		s.admin = admin
		s.logger.Info("session restored", zap.String("admin_id", admin.ID))
		return
	}

	s.state = domain.StateUnauthenticated
	s.admin = domain.Admin{}
}

// State возвращает текущее состояние аутентификации
func (s *AuthService) State() domain.AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// CurrentAdmin возвращает профиль аутентифицированного оператора
func (s *AuthService) CurrentAdmin() (domain.Admin, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.admin, s.state == domain.StateAuthenticated
}

// Login аутентифицирует оператора на бэкенде.
// Успех персистит пару токен+профиль и переводит в authenticated,
// ошибка переводит в unauthenticated и отдается вызывающему.
func (s *AuthService) Login(ctx context.Context, email, password string) error {
	s.mu.Lock()
	s.state = domain.StateLoading
	s.mu.Unlock()

	resp, err := s.gateway.Login(ctx, domain.Credentials{Email: email, Password: password})
	if err != nil {
		s.setUnauthenticated()
		return fmt.Errorf("auth service: login failed for %q: %w", email, err)
	}

	if err := s.store.Save(resp.Token, resp.Admin); err != nil {
		s.setUnauthenticated()
		return fmt.Errorf("auth service: failed to persist session: %w", err)
	}

	s.mu.Lock()
	s.state = domain.StateAuthenticated
	s.admin = resp.Admin
	s.mu.Unlock()

	s.logger.Info("operator logged in", zap.String("admin_id", resp.Admin.ID))
	return nil
}

// Logout очищает сессию и переводит в unauthenticated.
// Чисто локальная операция, бэкенд не вызывается.
func (s *AuthService) Logout() {
	s.store.Clear()
	s.setUnauthenticated()
	s.logger.Info("operator logged out")
}

// HandleUnauthorized реакция на 401 от бэкенда: сессия очищается.
// Вызывается единственным глобальным обработчиком, не per-call кодом.
func (s *AuthService) HandleUnauthorized() {
	s.store.Clear()
	s.setUnauthenticated()
	s.logger.Warn("backend rejected token, session cleared")
}

func (s *AuthService) setUnauthenticated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = domain.StateUnauthenticated
	s.admin = domain.Admin{}
}
