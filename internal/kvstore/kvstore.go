// Package kvstore is the local persisted state of the application: a
// namespaced key-value table backed by the main SQLite database.
// Namespaces combine a data kind with an owner id ("library:42",
// "progress:42") so that unrelated state never collides.
package kvstore

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/openshelf/openshelf/internal/entities"
)

var ErrNotFound = errors.New("key not found")

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Namespace builds a namespace string from a data kind and an owner id.
func Namespace(kind string, userID uint) string {
	return fmt.Sprintf("%s:%d", kind, userID)
}

// Get returns the raw value stored under (namespace, key).
func (s *Store) Get(namespace, key string) (string, error) {
	var rec entities.KVRecord
	err := s.db.Where("namespace = ? AND key = ?", namespace, key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return rec.Value, nil
}

// Put upserts a value under (namespace, key).
func (s *Store) Put(namespace, key, value string) error {
	var existing entities.KVRecord
	err := s.db.Where("namespace = ? AND key = ?", namespace, key).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		rec := entities.KVRecord{Namespace: namespace, Key: key, Value: value}
		return s.db.Create(&rec).Error
	}
	if err != nil {
		return err
	}
	return s.db.Model(&existing).Update("value", value).Error
}

// Delete removes a single key. Deleting an absent key is not an error.
func (s *Store) Delete(namespace, key string) error {
	return s.db.Where("namespace = ? AND key = ?", namespace, key).
		Delete(&entities.KVRecord{}).Error
}

// List returns all records in a namespace in insertion order.
func (s *Store) List(namespace string) ([]entities.KVRecord, error) {
	var recs []entities.KVRecord
	err := s.db.Where("namespace = ?", namespace).Order("id ASC").Find(&recs).Error
	return recs, err
}

// Count returns the number of keys in a namespace.
func (s *Store) Count(namespace string) (int64, error) {
	var n int64
	err := s.db.Model(&entities.KVRecord{}).Where("namespace = ?", namespace).Count(&n).Error
	return n, err
}

// NamespaceOwners returns the owner ids of every non-empty namespace
// of the given kind.
func (s *Store) NamespaceOwners(kind string) ([]uint, error) {
	var namespaces []string
	err := s.db.Model(&entities.KVRecord{}).
		Distinct("namespace").
		Where("namespace LIKE ?", kind+":%").
		Pluck("namespace", &namespaces).Error
	if err != nil {
		return nil, err
	}

	owners := make([]uint, 0, len(namespaces))
	for _, ns := range namespaces {
		var id uint
		if _, err := fmt.Sscanf(ns, kind+":%d", &id); err != nil {
			continue
		}
		owners = append(owners, id)
	}
	return owners, nil
}

// DeleteNamespace removes every key in a namespace.
func (s *Store) DeleteNamespace(namespace string) error {
	return s.db.Where("namespace = ?", namespace).Delete(&entities.KVRecord{}).Error
}

// GetJSON unmarshals the value stored under (namespace, key) into out.
func (s *Store) GetJSON(namespace, key string, out any) error {
	raw, err := s.Get(namespace, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decode %s/%s: %w", namespace, key, err)
	}
	return nil
}

// PutJSON marshals v and stores it under (namespace, key).
func (s *Store) PutJSON(namespace, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", namespace, key, err)
	}
	return s.Put(namespace, key, string(raw))
}
