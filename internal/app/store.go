package app

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"champion-quiz/internal/domain"
)

// KV abstracts the durable key-value store (file, in-memory, Redis, etc).
// Set may fail with domain.ErrQuotaExceeded when the store is full.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Store wraps a KV with tolerant reads and quota-recovering writes.
type Store struct {
	kv            KV
	evictPrefixes []string
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv, evictPrefixes: []string{domain.CardPreviewPrefix}}
}

// KV exposes the underlying store, e.g. to mirror identities into it.
func (s *Store) KV() KV {
	return s.kv
}

// Get returns the raw value, treating read errors as absence.
func (s *Store) Get(ctx context.Context, key string) (string, bool) {
	v, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		log.Printf("store: read %s: %v", key, err)
		return "", false
	}
	return v, ok
}

// Put writes value. On failure it evicts cached previews and retries once;
// a second failure is logged and reported as durable=false, never returned.
func (s *Store) Put(ctx context.Context, key, value string) bool {
	err := s.kv.Set(ctx, key, value)
	if err == nil {
		return true
	}
	evicted := s.evict(ctx, key)
	if err = s.kv.Set(ctx, key, value); err == nil {
		return true
	}
	log.Printf("store: write %s failed after evicting %d entries: %v", key, evicted, err)
	return false
}

// PutJSON marshals v and writes it through Put.
func (s *Store) PutJSON(ctx context.Context, key string, v any) bool {
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("store: encode %s: %v", key, err)
		return false
	}
	return s.Put(ctx, key, string(b))
}

// Delete removes key, logging failures.
func (s *Store) Delete(ctx context.Context, key string) {
	if err := s.kv.Delete(ctx, key); err != nil {
		log.Printf("store: delete %s: %v", key, err)
	}
}

func (s *Store) evict(ctx context.Context, keep string) int {
	evicted := 0
	for _, prefix := range s.evictPrefixes {
		keys, err := s.kv.Keys(ctx, prefix)
		if err != nil {
			continue
		}
		for _, k := range keys {
			if k == keep {
				continue
			}
			if s.kv.Delete(ctx, k) == nil {
				evicted++
			}
		}
	}
	return evicted
}

// Profile loads the stored profile, defaulting to empty.
func (s *Store) Profile(ctx context.Context) domain.Profile {
	raw, ok := s.Get(ctx, domain.ProfileKey)
	if !ok {
		return domain.Profile{}
	}
	return domain.DecodeProfile(raw)
}

// SaveProfile persists p.
func (s *Store) SaveProfile(ctx context.Context, p domain.Profile) bool {
	p.DisplayName = strings.TrimSpace(p.DisplayName)
	return s.PutJSON(ctx, domain.ProfileKey, p)
}

// LoadState resolves the session record for a quiz of n questions. The
// unified record wins; otherwise the legacy done/result/progress keys are
// decoded. migrated reports that the state came from the legacy layout.
func (s *Store) LoadState(ctx context.Context, seasonID, quizID string, n int) (state domain.SessionState, migrated bool) {
	if raw, ok := s.Get(ctx, domain.StateKey(seasonID, quizID)); ok {
		if st, ok := domain.DecodeSessionState(raw, n); ok {
			if st.Phase == domain.PhaseCompleted && st.Result == nil {
				st.Result = s.reconstruct(ctx, seasonID, quizID, n, nil)
			}
			return st, false
		}
	}

	progress, hasProgress := s.legacyProgress(ctx, seasonID, quizID, n)
	if flag, ok := s.Get(ctx, domain.LegacyDoneKey(seasonID, quizID)); ok && flag == domain.LegacyDoneFlag {
		if raw, ok := s.Get(ctx, domain.LegacyResultKey(seasonID, quizID)); ok {
			if r, ok := domain.DecodeResult(raw); ok {
				return domain.Completed(r), true
			}
		}
		var p *domain.LegacyProgress
		if hasProgress {
			p = &progress
		}
		return domain.SessionState{Phase: domain.PhaseCompleted, Result: s.reconstruct(ctx, seasonID, quizID, n, p)}, true
	}
	if hasProgress {
		return domain.InProgress(progress.Index, progress.Correct, progress.Answers), true
	}
	return domain.NotStarted(), false
}

func (s *Store) legacyProgress(ctx context.Context, seasonID, quizID string, n int) (domain.LegacyProgress, bool) {
	raw, ok := s.Get(ctx, domain.LegacyProgressKey(seasonID, quizID))
	if !ok {
		return domain.LegacyProgress{}, false
	}
	return domain.DecodeLegacyProgress(raw, n)
}

// reconstruct builds a best-effort result when completion is recorded but
// the result itself was lost.
func (s *Store) reconstruct(ctx context.Context, seasonID, quizID string, n int, p *domain.LegacyProgress) *domain.Result {
	if p == nil {
		if lp, ok := s.legacyProgress(ctx, seasonID, quizID, n); ok {
			p = &lp
		}
	}
	correct := 0
	var answers []domain.AnswerRecord
	if p != nil {
		correct = p.Correct
		answers = p.Answers
	}
	if correct > n {
		correct = n
	}
	r := domain.NewResult(n, correct, s.Profile(ctx).DisplayName, "", time.Time{}, answers)
	r.Missing = true
	return &r
}
