package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims представляет claims сессионной cookie консоли
type Claims struct {
	AdminID   string `json:"admin_id"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// Manager управляет подписью и валидацией сессионной cookie
type Manager struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewManager создает новый менеджер сессионной cookie
func NewManager(secretKey string, tokenTTL time.Duration) *Manager {
	return &Manager{
		secretKey: secretKey,
		tokenTTL:  tokenTTL,
	}
}

// Generate генерирует подписанную cookie для оператора
func (m *Manager) Generate(adminID string) (string, error) {
	claims := Claims{
		AdminID:   adminID,
		SessionID: uuid.New().String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(m.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign session cookie: %w", err)
	}

	return signedToken, nil
}

// Validate валидирует cookie и возвращает ID оператора
func (m *Manager) Validate(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Проверяем метод подписи
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secretKey), nil
	})

	if err != nil {
		return "", fmt.Errorf("failed to parse session cookie: %w", err)
	}

	if !token.Valid {
		return "", fmt.Errorf("invalid session cookie")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return "", fmt.Errorf("invalid session cookie claims")
	}

	return claims.AdminID, nil
}

// TTL возвращает время жизни cookie
func (m *Manager) TTL() time.Duration {
	return m.tokenTTL
}
