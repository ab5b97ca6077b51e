package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"champion-quiz/internal/domain"
)

// KV is an in-memory implementation of app.KV. A positive capacity bounds
// the summed size of keys and values, emulating a browser storage quota.
type KV struct {
	mu       sync.RWMutex
	capacity int
	used     int
	data     map[string]string
}

func NewKV(capacity int) *KV {
	return &KV{
		capacity: capacity,
		data:     make(map[string]string),
	}
}

func (s *KV) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *KV) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	used := s.used + len(key) + len(value)
	if old, ok := s.data[key]; ok {
		used -= len(key) + len(old)
	}
	if s.capacity > 0 && used > s.capacity {
		return domain.ErrQuotaExceeded
	}
	s.data[key] = value
	s.used = used
	return nil
}

func (s *KV) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.data[key]; ok {
		s.used -= len(key) + len(old)
		delete(s.data, key)
	}
	return nil
}

func (s *KV) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0)
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Used reports the bytes currently accounted against the capacity.
func (s *KV) Used() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.used
}
