package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"trainloop/core/models"
)

// MemoryStore is an in-memory Store implementation. Used in tests and in
// deployments that run without a database.
type MemoryStore struct {
	mu     sync.RWMutex
	models map[string]models.ModelMetadata
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{models: make(map[string]models.ModelMetadata)}
}

func storeKey(name, version string) string {
	return name + "\x00" + version
}

// List returns models matching the filter, newest first
func (s *MemoryStore) List(_ context.Context, filter models.ModelFilter) ([]models.ModelMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.ModelMetadata
	for _, m := range s.models {
		if filter.Name != "" && !strings.Contains(strings.ToLower(m.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.Framework != "" && !strings.EqualFold(m.Framework, filter.Framework) {
			continue
		}
		if filter.TaskType != "" && !strings.EqualFold(m.TaskType, filter.TaskType) {
			continue
		}
		out = append(out, m)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if filter.Offset >= len(out) {
		return nil, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

// Get returns one model version
func (s *MemoryStore) Get(_ context.Context, name, version string) (*models.ModelMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.models[storeKey(name, version)]
	if !ok {
		return nil, fmt.Errorf("%w: %s v%s", ErrNotFound, name, version)
	}
	return &m, nil
}

// Add registers a model version
func (s *MemoryStore) Add(_ context.Context, m *models.ModelMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := storeKey(m.Name, m.Version)
	if _, exists := s.models[key]; exists {
		return fmt.Errorf("model %s version %s already exists", m.Name, m.Version)
	}
	s.models[key] = *m
	return nil
}

// Remove deletes a model version
func (s *MemoryStore) Remove(_ context.Context, name, version string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := storeKey(name, version)
	if _, ok := s.models[key]; !ok {
		return fmt.Errorf("%w: %s v%s", ErrNotFound, name, version)
	}
	delete(s.models, key)
	return nil
}
