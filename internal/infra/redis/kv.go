package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"champion-quiz/internal/domain"
	"github.com/redis/go-redis/v9"
)

// KV stores profile data as plain Redis strings under a namespace, e.g.
// champion:<profile>:season-1:song:state.
type KV struct {
	client    *redis.Client
	namespace string
}

func NewKV(client *redis.Client, namespace string) *KV {
	if namespace != "" && !strings.HasSuffix(namespace, ":") {
		namespace += ":"
	}
	return &KV{client: client, namespace: namespace}
}

func (s *KV) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.namespace+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *KV) Set(ctx context.Context, key, value string) error {
	return mapQuota(s.client.Set(ctx, s.namespace+key, value, 0).Err())
}

func (s *KV) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.namespace+key).Err()
}

func (s *KV) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, s.namespace+escapeGlob(prefix)+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), s.namespace))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

// mapQuota turns a maxmemory rejection into domain.ErrQuotaExceeded.
func mapQuota(err error) error {
	if err == nil {
		return nil
	}
	if strings.HasPrefix(err.Error(), "OOM") {
		return fmt.Errorf("%w: %v", domain.ErrQuotaExceeded, err)
	}
	return err
}

func escapeGlob(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)
	return r.Replace(s)
}
