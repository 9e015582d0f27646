package domain

import "errors"

// Ошибки аутентификации и сессии
var (
	ErrUnauthorized = errors.New("unauthorized")
)

// Ошибки платежей и дашборда
var (
	ErrPaymentNotFound = errors.New("payment not found")
	ErrInvalidPeriod   = errors.New("invalid revenue period")
	ErrNotLoaded       = errors.New("dashboard is not loaded yet")
)
