package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"champion-quiz/internal/domain"
)

func TestKVPersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "profile", "store.json")

	kv, err := Open(path, 0)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := kv.Set(ctx, "profile", `{"name":"Ann"}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Set(ctx, "season-1:song:state", `{"phase":"in_progress"}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Delete(ctx, "season-1:song:state"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	reopened, err := Open(path, 0)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if v, ok, _ := reopened.Get(ctx, "profile"); !ok || v != `{"name":"Ann"}` {
		t.Fatalf("expected profile to survive reopen, got %q %v", v, ok)
	}
	if _, ok, _ := reopened.Get(ctx, "season-1:song:state"); ok {
		t.Fatalf("expected deleted key to stay deleted")
	}
}

func TestKVQuotaAndCorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	kv, err := Open(path, 32)
	if err != nil {
		t.Fatalf("open corrupt file: %v", err)
	}
	if err := kv.Set(ctx, "a", strings.Repeat("x", 20)); err != nil {
		t.Fatalf("set: %v", err)
	}
	err = kv.Set(ctx, "card:preview:season-1", strings.Repeat("x", 20))
	if !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("expected quota error, got %v", err)
	}
}

func TestCookieStoreRoundTripAndExpiry(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cookies.txt")
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	store := NewCookieStore(path, time.Hour)
	store.now = func() time.Time { return now }

	if err := store.Set(ctx, "device_id", "4f1c2d3e-aaaa-bbbb-cccc-0123456789ab"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := store.Get(ctx, "device_id")
	if err != nil || !ok || v != "4f1c2d3e-aaaa-bbbb-cccc-0123456789ab" {
		t.Fatalf("unexpected get %q %v %v", v, ok, err)
	}

	raw, _ := os.ReadFile(path)
	if !strings.HasPrefix(string(raw), "device_id=") {
		t.Fatalf("expected Set-Cookie line, got %q", raw)
	}

	now = now.Add(2 * time.Hour)
	if _, ok, _ := store.Get(ctx, "device_id"); ok {
		t.Fatalf("expected cookie to expire")
	}
}
