package session

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/avc/payments-admin-console/internal/domain"
	"go.uber.org/zap"
)

// Ключи локального хранилища. Значения перезаписываются целиком,
// без версионирования.
const (
	keyToken    = "token"
	keyOperator = "operator-profile"
	keyTheme    = "theme-preference"
	keyUpdated  = "session-updated"
)

// Store персистит сессию оператора в локальном key-value хранилище.
// Инвариант: токен и профиль оператора либо присутствуют оба,
// либо отсутствуют оба.
type Store struct {
	kv     domain.KV
	logger *zap.Logger
}

// NewStore создает новый Store поверх локального хранилища
func NewStore(kv domain.KV, logger *zap.Logger) *Store {
	return &Store{
		kv:     kv,
		logger: logger,
	}
}

// Save персистит токен и профиль оператора.
// При ошибке записи частичное состояние очищается.
func (s *Store) Save(token string, admin domain.Admin) error {
	profile, err := json.Marshal(admin)
	if err != nil {
		return fmt.Errorf("session store: failed to encode operator profile: %w", err)
	}

	if err := s.kv.Set(keyToken, []byte(token)); err != nil {
		return fmt.Errorf("session store: failed to save token: %w", err)
	}

	if err := s.kv.Set(keyOperator, profile); err != nil {
		// Токен без профиля нарушает инвариант, откатываем запись
		s.Clear()
		return fmt.Errorf("session store: failed to save operator profile: %w", err)
	}

	updated := strconv.FormatInt(time.Now().Unix(), 10)
	if err := s.kv.Set(keyUpdated, []byte(updated)); err != nil {
		s.logger.Warn("failed to save session timestamp", zap.Error(err))
	}

	return nil
}

// Load возвращает сохраненную пару токен+профиль.
// Частичная или поврежденная запись считается отсутствием сессии:
// остатки проактивно очищаются, ошибка наружу не отдается.
func (s *Store) Load() (string, domain.Admin, bool) {
	token, tokenOK, err := s.kv.Get(keyToken)
	if err != nil {
		s.logger.Warn("failed to read token from storage", zap.Error(err))
		return "", domain.Admin{}, false
	}

	profile, profileOK, err := s.kv.Get(keyOperator)
	if err != nil {
		s.logger.Warn("failed to read operator profile from storage", zap.Error(err))
		return "", domain.Admin{}, false
	}

	if !tokenOK || !profileOK || len(token) == 0 {
		if tokenOK || profileOK {
			// Токен без профиля (или наоборот) означает поврежденную запись
			s.logger.Warn("partial session record discarded")
			s.Clear()
		}
		return "", domain.Admin{}, false
	}

	var admin domain.Admin
	if err := json.Unmarshal(profile, &admin); err != nil {
		s.logger.Warn("corrupt operator profile discarded", zap.Error(err))
		s.Clear()
		return "", domain.Admin{}, false
	}

	return string(token), admin, true
}

// Clear безусловно удаляет токен и профиль оператора.
// Идемпотентна, настройка темы не затрагивается.
func (s *Store) Clear() {
	if err := s.kv.Delete(keyToken, keyOperator, keyUpdated); err != nil {
		s.logger.Warn("failed to clear session", zap.Error(err))
	}
}

// Token возвращает сохраненный токен для подстановки в исходящие запросы
func (s *Store) Token() (string, bool) {
	token, ok, err := s.kv.Get(keyToken)
	if err != nil || !ok || len(token) == 0 {
		return "", false
	}
	return string(token), true
}

// UpdatedAt возвращает время последнего сохранения сессии
func (s *Store) UpdatedAt() (time.Time, bool) {
	raw, ok, err := s.kv.Get(keyUpdated)
	if err != nil || !ok {
		return time.Time{}, false
	}

	unix, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), true
}

// SaveTheme персистит настройку темы оператора
func (s *Store) SaveTheme(theme string) error {
	if err := s.kv.Set(keyTheme, []byte(theme)); err != nil {
		return fmt.Errorf("session store: failed to save theme: %w", err)
	}
	return nil
}

// LoadTheme возвращает сохраненную тему, по умолчанию "light"
func (s *Store) LoadTheme() string {
	theme, ok, err := s.kv.Get(keyTheme)
	if err != nil || !ok || len(theme) == 0 {
		return "light"
	}
	return string(theme)
}
