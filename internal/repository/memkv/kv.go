package memkv

import "sync"

// Store реализует domain.KV в памяти.
// Используется в тестах как замена boltkv и поддерживает
// инъекцию ошибок для проверки деградации вызывающего кода.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte

	// FailGet, FailSet, FailDelete возвращаются из соответствующих
	// методов если не nil
	FailGet    error
	FailSet    error
	FailDelete error
}

// New создает пустое хранилище
func New() *Store {
	return &Store{
		data: make(map[string][]byte),
	}
}

// Get возвращает значение по ключу, ok=false если ключа нет
func (s *Store) Get(key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.FailGet != nil {
		return nil, false, s.FailGet
	}

	value, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

// Set записывает значение по ключу
func (s *Store) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailSet != nil {
		return s.FailSet
	}

	s.data[key] = append([]byte(nil), value...)
	return nil
}

// Delete удаляет ключи
func (s *Store) Delete(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailDelete != nil {
		return s.FailDelete
	}

	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

// Len возвращает количество сохраненных ключей
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
