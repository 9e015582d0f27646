package boltkv

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// bucketName имя единственного bucket локального хранилища
var bucketName = []byte("console")

// Store реализует domain.KV поверх bbolt-файла.
// Это локальное durable key-value хранилище консоли, аналог
// browser local storage: значения перезаписываются целиком.
type Store struct {
	db *bolt.DB
}

// Open открывает файл хранилища и создает bucket при необходимости
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("boltkv: failed to open %q: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("boltkv: failed to create bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Get возвращает значение по ключу, ok=false если ключа нет
func (s *Store) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		stored := tx.Bucket(bucketName).Get([]byte(key))
		if stored != nil {
			// bbolt переиспользует страницы, копируем значение
			value = append([]byte(nil), stored...)
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("boltkv: failed to get %q: %w", key, err)
	}
	return value, value != nil, nil
}

// Set записывает значение по ключу, перезаписывая существующее
func (s *Store) Set(key string, value []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("boltkv: failed to set %q: %w", key, err)
	}
	return nil
}

// Delete удаляет ключи, отсутствующие ключи игнорируются
func (s *Store) Delete(keys ...string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		for _, key := range keys {
			if err := bucket.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("boltkv: failed to delete keys: %w", err)
	}
	return nil
}

// Close закрывает файл хранилища
func (s *Store) Close() error {
	return s.db.Close()
}
