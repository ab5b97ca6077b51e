package app

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"champion-quiz/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

var errEmptySession = errors.New("sign-in returned no user id")

// Authenticator performs the remote anonymous sign-in.
type Authenticator interface {
	SignInAnonymously(ctx context.Context) (domain.AuthSession, error)
}

// IdentityResolver yields a stable per-profile identity. Preference order:
// anonymous auth, then the primary store, the cookie mirror and the
// secondary store, then a fresh random id. The winner is mirrored into all
// three caches.
type IdentityResolver struct {
	auth      Authenticator
	primary   *Store
	cookie    KV
	secondary KV
	newID     func() string

	sf      singleflight.Group
	mu      sync.Mutex
	session *domain.AuthSession
}

// NewIdentityResolver wires the caches; auth, cookie and secondary may be nil.
func NewIdentityResolver(auth Authenticator, primary *Store, cookie, secondary KV) *IdentityResolver {
	return &IdentityResolver{
		auth:      auth,
		primary:   primary,
		cookie:    cookie,
		secondary: secondary,
		newID:     uuid.NewString,
	}
}

// Resolve returns the identity, never failing: every remote or cache error
// falls through to the next source.
func (r *IdentityResolver) Resolve(ctx context.Context) string {
	id := ""
	if session, ok := r.signIn(ctx); ok {
		id = session.UserID
	}
	if id == "" {
		id = r.cached(ctx)
	}
	if id == "" {
		id = r.newID()
	}
	r.mirror(ctx, id)
	return id
}

// Cached returns the locally cached identity without contacting the remote.
func (r *IdentityResolver) Cached(ctx context.Context) string {
	return r.cached(ctx)
}

// Session returns the signed-in session, if any.
func (r *IdentityResolver) Session() (domain.AuthSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return domain.AuthSession{}, false
	}
	return *r.session, true
}

// signIn shares one in-flight sign-in between concurrent callers and keeps
// the first successful session for the resolver's lifetime.
func (r *IdentityResolver) signIn(ctx context.Context) (domain.AuthSession, bool) {
	if session, ok := r.Session(); ok {
		return session, true
	}
	if r.auth == nil {
		return domain.AuthSession{}, false
	}
	result, err, _ := r.sf.Do("anonymous", func() (interface{}, error) {
		if session, ok := r.Session(); ok {
			return session, nil
		}
		// Other callers may be waiting on this flight, so the first
		// caller's cancellation must not abort it.
		session, err := r.auth.SignInAnonymously(context.WithoutCancel(ctx))
		if err != nil {
			return domain.AuthSession{}, err
		}
		if session.UserID == "" {
			return domain.AuthSession{}, errEmptySession
		}
		r.mu.Lock()
		r.session = &session
		r.mu.Unlock()
		return session, nil
	})
	if err != nil {
		log.Printf("identity: anonymous sign-in failed: %v", err)
		return domain.AuthSession{}, false
	}
	return result.(domain.AuthSession), true
}

func (r *IdentityResolver) cached(ctx context.Context) string {
	if r.primary != nil {
		if v, ok := r.primary.Get(ctx, domain.DeviceIDKey); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	for _, kv := range []KV{r.cookie, r.secondary} {
		if kv == nil {
			continue
		}
		if v, ok, err := kv.Get(ctx, domain.DeviceIDKey); err == nil && ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func (r *IdentityResolver) mirror(ctx context.Context, id string) {
	if r.primary != nil {
		r.primary.Put(ctx, domain.DeviceIDKey, id)
	}
	for _, kv := range []KV{r.cookie, r.secondary} {
		if kv == nil {
			continue
		}
		if err := kv.Set(ctx, domain.DeviceIDKey, id); err != nil {
			log.Printf("identity: mirror device id: %v", err)
		}
	}
}
