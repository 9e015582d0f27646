package app

import (
	"fmt"

	"github.com/avc/payments-admin-console/internal/repository/boltkv"
)

// initStorage открывает файловое key-value хранилище сессии
func initStorage(path string) (*boltkv.Store, error) {
	store, err := boltkv.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state storage: %w", err)
	}
	return store, nil
}
