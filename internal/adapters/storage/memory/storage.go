package memory

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"livestock-records/internal/domain/records"
)

// Storage guarda los payloads en un map. Es el backend de los tests y del
// modo dev (STORAGE_DRIVER=memory); no sobrevive al proceso.
type Storage struct {
	mu    sync.RWMutex
	byKey map[string][]byte
}

func NewStorage() *Storage {
	return &Storage{
		byKey: make(map[string][]byte),
	}
}

func (s *Storage) Load(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payload, ok := s.byKey[key]
	if !ok {
		return nil, records.ErrKeyNotFound
	}
	return slices.Clone(payload), nil
}

func (s *Storage) Save(ctx context.Context, key string, payload []byte) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("storage key required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.byKey[key] = slices.Clone(payload)
	return nil
}

// SaveBatch escribe todas las entries bajo un mismo lock.
func (s *Storage) SaveBatch(ctx context.Context, entries []records.Entry) error {
	for _, e := range entries {
		if strings.TrimSpace(e.Key) == "" {
			return errors.New("storage key required")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		s.byKey[e.Key] = slices.Clone(e.Payload)
	}
	return nil
}

// Keys devuelve las keys escritas, ordenadas.
func (s *Storage) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.byKey))
	for k := range s.byKey {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (s *Storage) Close() error { return nil }
