// Package file persists profile data on local disk, the CLI's equivalent
// of browser storage.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"champion-quiz/internal/domain"
)

// KV keeps all entries in one JSON object on disk, rewritten atomically on
// every change. A positive capacity bounds the summed key and value sizes.
type KV struct {
	path     string
	capacity int

	mu   sync.Mutex
	data map[string]string
	used int
}

// Open loads path if it exists. A malformed file is treated as empty.
func Open(path string, capacity int) (*KV, error) {
	kv := &KV{path: path, capacity: capacity, data: make(map[string]string)}
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return kv, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &kv.data); err != nil || kv.data == nil {
		kv.data = make(map[string]string)
	}
	for k, v := range kv.data {
		kv.used += len(k) + len(v)
	}
	return kv, nil
}

func (s *KV) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *KV) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, had := s.data[key]
	used := s.used + len(key) + len(value)
	if had {
		used -= len(key) + len(old)
	}
	if s.capacity > 0 && used > s.capacity {
		return domain.ErrQuotaExceeded
	}
	s.data[key] = value
	if err := s.flushLocked(); err != nil {
		if had {
			s.data[key] = old
		} else {
			delete(s.data, key)
		}
		return err
	}
	s.used = used
	return nil
}

func (s *KV) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.data[key]
	if !ok {
		return nil
	}
	delete(s.data, key)
	if err := s.flushLocked(); err != nil {
		s.data[key] = old
		return err
	}
	s.used -= len(key) + len(old)
	return nil
}

func (s *KV) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0)
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *KV) flushLocked() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(s.path, data)
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
