package gateway

import (
	"errors"
	"fmt"
)

// StatusError представляет не-2xx ответ бэкенда кроме 401.
// Такие ошибки обрабатываются локально инициировавшим контроллером.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gateway: backend returned %d: %s", e.Code, e.Message)
}

// AsStatusError распаковывает StatusError из цепочки ошибок
func AsStatusError(err error, target **StatusError) bool {
	return errors.As(err, target)
}
