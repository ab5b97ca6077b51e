package redis

import (
	"context"
	"errors"
	"testing"

	"champion-quiz/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
)

func TestKVNamespacesKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	kv := NewKV(newClient(mr), "champion:p1")

	if err := kv.Set(ctx, "profile", `{"name":"Ann"}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Set(ctx, "card:preview:season-1", "data:image/png;base64,AA=="); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("champion:p1:profile") {
		t.Fatalf("expected namespaced key in redis")
	}

	v, ok, err := kv.Get(ctx, "profile")
	if err != nil || !ok || v != `{"name":"Ann"}` {
		t.Fatalf("unexpected get: %q %v %v", v, ok, err)
	}
	if _, ok, err := kv.Get(ctx, "missing"); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	keys, err := kv.Keys(ctx, "card:preview:")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 1 || keys[0] != "card:preview:season-1" {
		t.Fatalf("unexpected keys %v", keys)
	}

	if err := kv.Delete(ctx, "profile"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if mr.Exists("champion:p1:profile") {
		t.Fatalf("expected key removed")
	}
}

func TestKVMapsOOMToQuota(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	kv := NewKV(newClient(mr), "")
	mr.SetError("OOM command not allowed when used memory > 'maxmemory'.")

	err = kv.Set(context.Background(), "profile", "{}")
	if !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("expected quota error, got %v", err)
	}
}
