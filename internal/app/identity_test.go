package app_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"champion-quiz/internal/app"
	"champion-quiz/internal/domain"
	"champion-quiz/internal/infra/memory"
)

type fakeAuth struct {
	calls   atomic.Int32
	delay   time.Duration
	session domain.AuthSession
	err     error
}

func (a *fakeAuth) SignInAnonymously(ctx context.Context) (domain.AuthSession, error) {
	a.calls.Add(1)
	if a.delay > 0 {
		time.Sleep(a.delay)
	}
	if err := ctx.Err(); err != nil {
		return domain.AuthSession{}, err
	}
	return a.session, a.err
}

func TestResolveSurvivesFirstCallerCancel(t *testing.T) {
	auth := &fakeAuth{delay: 50 * time.Millisecond, session: domain.AuthSession{UserID: "user-1", AccessToken: "tok"}}
	resolver := app.NewIdentityResolver(auth, app.NewStore(memory.NewKV(0)), memory.NewKV(0), memory.NewKV(0))

	first, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	ids := make([]string, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		ids[0] = resolver.Resolve(first)
	}()
	time.Sleep(10 * time.Millisecond)
	go func() {
		defer wg.Done()
		ids[1] = resolver.Resolve(context.Background())
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()
	wg.Wait()

	if ids[1] != "user-1" {
		t.Fatalf("waiting caller must get the shared session, got %v", ids)
	}
	if session, ok := resolver.Session(); !ok || session.UserID != "user-1" {
		t.Fatalf("expected session to be kept, got %+v ok=%v", session, ok)
	}
	if n := auth.calls.Load(); n != 1 {
		t.Fatalf("expected a single sign-in, got %d", n)
	}
}

func TestResolveSharesOneSignIn(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{delay: 50 * time.Millisecond, session: domain.AuthSession{UserID: "user-1", AccessToken: "tok"}}
	cookie, secondary := memory.NewKV(0), memory.NewKV(0)
	resolver := app.NewIdentityResolver(auth, app.NewStore(memory.NewKV(0)), cookie, secondary)

	var wg sync.WaitGroup
	ids := make([]string, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = resolver.Resolve(ctx)
		}(i)
	}
	wg.Wait()

	if n := auth.calls.Load(); n != 1 {
		t.Fatalf("expected a single sign-in, got %d", n)
	}
	for _, id := range ids {
		if id != "user-1" {
			t.Fatalf("expected every caller to get user-1, got %v", ids)
		}
	}
	if session, ok := resolver.Session(); !ok || session.AccessToken != "tok" {
		t.Fatalf("expected cached session, got %+v ok=%v", session, ok)
	}
	for name, kv := range map[string]*memory.KV{"cookie": cookie, "secondary": secondary} {
		if v, ok, _ := kv.Get(ctx, domain.DeviceIDKey); !ok || v != "user-1" {
			t.Fatalf("expected identity mirrored into %s, got %q", name, v)
		}
	}
}

func TestResolveFallsBackToCachedIdentity(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{err: errors.New("offline")}
	primaryKV, cookie, secondary := memory.NewKV(0), memory.NewKV(0), memory.NewKV(0)
	_ = cookie.Set(ctx, domain.DeviceIDKey, "cookie-id")
	_ = secondary.Set(ctx, domain.DeviceIDKey, "secondary-id")

	resolver := app.NewIdentityResolver(auth, app.NewStore(primaryKV), cookie, secondary)
	if id := resolver.Resolve(ctx); id != "cookie-id" {
		t.Fatalf("expected cookie identity, got %q", id)
	}
	if v, _, _ := primaryKV.Get(ctx, domain.DeviceIDKey); v != "cookie-id" {
		t.Fatalf("expected primary store to be repopulated, got %q", v)
	}
	if v, _, _ := secondary.Get(ctx, domain.DeviceIDKey); v != "cookie-id" {
		t.Fatalf("expected secondary store to be overwritten, got %q", v)
	}
	if _, ok := resolver.Session(); ok {
		t.Fatalf("failed sign-in must not leave a session")
	}
}

func TestResolveGeneratesStableIdentity(t *testing.T) {
	ctx := context.Background()
	primaryKV := memory.NewKV(0)
	resolver := app.NewIdentityResolver(nil, app.NewStore(primaryKV), nil, nil)

	first := resolver.Resolve(ctx)
	if first == "" {
		t.Fatalf("expected a generated identity")
	}
	if second := resolver.Resolve(ctx); second != first {
		t.Fatalf("expected %q to be reused, got %q", first, second)
	}

	// A new resolver over the same store finds the same identity.
	again := app.NewIdentityResolver(nil, app.NewStore(primaryKV), nil, nil)
	if got := again.Cached(ctx); got != first {
		t.Fatalf("expected cached %q, got %q", first, got)
	}
}

func TestResolveIgnoresEmptySignIn(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{session: domain.AuthSession{}}
	primaryKV := memory.NewKV(0)
	_ = primaryKV.Set(ctx, domain.DeviceIDKey, "local-id")

	resolver := app.NewIdentityResolver(auth, app.NewStore(primaryKV), nil, nil)
	if id := resolver.Resolve(ctx); id != "local-id" {
		t.Fatalf("expected local identity when sign-in yields no user, got %q", id)
	}
}
