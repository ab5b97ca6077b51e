package app

import (
	"context"
	"sync"
	"time"

	"champion-quiz/internal/domain"
)

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// QuizService drives a player through each quiz exactly once.
type QuizService struct {
	store     *Store
	quizzes   QuizRepository
	catalog   domain.Catalog
	now       func() time.Time
	newSerial func() string

	// pending holds states whose last write failed, keyed by state key.
	// An entry is dropped as soon as a write for that quiz succeeds.
	mu      sync.Mutex
	pending map[string]domain.SessionState
}

func NewQuizService(store *Store, quizzes QuizRepository, catalog domain.Catalog) *QuizService {
	return NewQuizServiceWithClock(store, quizzes, catalog, time.Now)
}

// NewQuizServiceWithClock is test-only for deterministic timestamps.
func NewQuizServiceWithClock(store *Store, quizzes QuizRepository, catalog domain.Catalog, now func() time.Time) *QuizService {
	return &QuizService{
		store:     store,
		quizzes:   quizzes,
		catalog:   catalog,
		now:       now,
		newSerial: NewSerial,
		pending:   make(map[string]domain.SessionState),
	}
}

// SessionView is what the UI renders for the current state.
type SessionView struct {
	SeasonID string           `json:"season"`
	QuizID   string           `json:"quiz"`
	Phase    domain.Phase     `json:"phase"`
	Index    int              `json:"index"`
	Total    int              `json:"total"`
	Score    int              `json:"score"`
	Question *domain.Question `json:"question,omitempty"`
	Result   *domain.Result   `json:"result,omitempty"`
	// Durable is false when the last write could not be persisted.
	Durable bool `json:"durable"`
}

type quizContext struct {
	seasonID string
	ref      domain.QuizRef
	quiz     domain.Quiz
}

func (s *QuizService) load(ctx context.Context, seasonID, quizID string) (quizContext, error) {
	_, ref, err := s.catalog.Lookup(seasonID, quizID)
	if err != nil {
		return quizContext{}, err
	}
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return quizContext{}, err
	}
	if len(quiz.Questions) == 0 {
		return quizContext{}, domain.ErrEmptyQuiz
	}
	return quizContext{seasonID: seasonID, ref: ref, quiz: quiz}, nil
}

// Enter starts, resumes or replays a quiz. A completed quiz always replays
// its stored result; question 1 is never presented again.
func (s *QuizService) Enter(ctx context.Context, seasonID, quizID string) (SessionView, error) {
	qc, err := s.load(ctx, seasonID, quizID)
	if err != nil {
		return SessionView{}, err
	}
	n := len(qc.quiz.Questions)
	state, migrated, pending := s.loadState(ctx, qc)

	switch state.Phase {
	case domain.PhaseCompleted:
		if !migrated && !pending && state.Result.ResultID != "" {
			return s.view(qc, state, true), nil
		}
		// Legacy or reconstructed results are pinned to the unified record.
		if state.Result.ResultID == "" {
			state.Result.ResultID = FormatResultID(qc.ref.Prefix, s.newSerial())
		}
		durable := s.persist(ctx, qc, state)
		return s.view(qc, state, durable), nil
	case domain.PhaseInProgress:
		state.Index = domain.ClampIndex(state.Index, n)
	default:
		state = domain.InProgress(0, 0, nil)
	}

	durable := s.persist(ctx, qc, state)
	return s.view(qc, state, durable), nil
}

// Answer records the selected option for the current question and advances.
// Scoring is index equality only.
func (s *QuizService) Answer(ctx context.Context, seasonID, quizID string, selected int) (SessionView, error) {
	qc, err := s.load(ctx, seasonID, quizID)
	if err != nil {
		return SessionView{}, err
	}
	n := len(qc.quiz.Questions)
	state, _, pending := s.loadState(ctx, qc)

	switch state.Phase {
	case domain.PhaseCompleted:
		return s.view(qc, state, !pending), domain.ErrQuizCompleted
	case domain.PhaseNotStarted:
		return SessionView{}, domain.ErrSessionNotFound
	}

	idx := domain.ClampIndex(state.Index, n)
	q := qc.quiz.Questions[idx]
	if selected < 0 || selected >= len(q.Options) {
		return s.view(qc, state, !pending), domain.ErrOptionNotFound
	}

	answers := append(append([]domain.AnswerRecord(nil), state.Answers...), domain.AnswerRecord{
		Question: q.Prompt,
		Options:  append([]string(nil), q.Options...),
		Selected: selected,
		Correct:  q.Correct,
	})
	score := state.Score
	if selected == q.Correct {
		score++
	}

	if idx < n-1 {
		next := domain.InProgress(idx+1, score, answers)
		durable := s.persist(ctx, qc, next)
		return s.view(qc, next, durable), nil
	}

	profile := s.store.Profile(ctx)
	result := domain.NewResult(n, score, profile.DisplayName, "", s.now().UTC(), answers)
	saved, durable := s.saveResult(ctx, qc, result)
	return s.view(qc, domain.Completed(saved), durable), nil
}

// SaveResult writes result as the quiz's completed state. An id already
// stored for the quiz is reused, so repeated saves never change it.
func (s *QuizService) SaveResult(ctx context.Context, seasonID, quizID string, result domain.Result) (domain.Result, bool, error) {
	qc, err := s.load(ctx, seasonID, quizID)
	if err != nil {
		return domain.Result{}, false, err
	}
	saved, durable := s.saveResult(ctx, qc, result)
	return saved, durable, nil
}

// Result returns the stored result for a completed quiz.
func (s *QuizService) Result(ctx context.Context, seasonID, quizID string) (domain.Result, bool, error) {
	_, ref, err := s.catalog.Lookup(seasonID, quizID)
	if err != nil {
		return domain.Result{}, false, err
	}
	state, ok := s.pendingState(domain.StateKey(seasonID, quizID))
	if !ok {
		state, _ = s.store.LoadState(ctx, seasonID, quizID, ref.Questions)
	}
	if state.Phase != domain.PhaseCompleted {
		return domain.Result{}, false, nil
	}
	return *state.Result, true, nil
}

func (s *QuizService) saveResult(ctx context.Context, qc quizContext, result domain.Result) (domain.Result, bool) {
	result.AccuracyPercent = domain.Accuracy(result.CorrectCount, result.TotalQuestions)
	if id := s.existingResultID(ctx, qc); id != "" {
		result.ResultID = id
	} else if result.ResultID == "" {
		result.ResultID = FormatResultID(qc.ref.Prefix, s.newSerial())
	}
	durable := s.persist(ctx, qc, domain.Completed(result))
	return result, durable
}

func (s *QuizService) existingResultID(ctx context.Context, qc quizContext) string {
	state, _, _ := s.loadState(ctx, qc)
	if state.Phase == domain.PhaseCompleted && state.Result != nil {
		return state.Result.ResultID
	}
	return ""
}

// loadState prefers a state that could not be written over the stored one,
// so play continues from what the player was last shown.
func (s *QuizService) loadState(ctx context.Context, qc quizContext) (state domain.SessionState, migrated, pending bool) {
	if st, ok := s.pendingState(domain.StateKey(qc.seasonID, qc.quiz.ID)); ok {
		return st, false, true
	}
	state, migrated = s.store.LoadState(ctx, qc.seasonID, qc.quiz.ID, len(qc.quiz.Questions))
	return state, migrated, false
}

func (s *QuizService) pendingState(key string) (domain.SessionState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.pending[key]
	return st, ok
}

func (s *QuizService) persist(ctx context.Context, qc quizContext, state domain.SessionState) bool {
	state.UpdatedAt = s.now().UTC()
	raw, err := state.Encode()
	if err != nil {
		return false
	}
	key := domain.StateKey(qc.seasonID, qc.quiz.ID)
	durable := s.store.Put(ctx, key, raw)
	s.mu.Lock()
	if durable {
		delete(s.pending, key)
	} else {
		s.pending[key] = state
	}
	s.mu.Unlock()
	if durable && state.Phase == domain.PhaseCompleted {
		// The done flag is left in place; only the superseded snapshot goes.
		s.store.Delete(ctx, domain.LegacyProgressKey(qc.seasonID, qc.quiz.ID))
	}
	return durable
}

func (s *QuizService) view(qc quizContext, state domain.SessionState, durable bool) SessionView {
	v := SessionView{
		SeasonID: qc.seasonID,
		QuizID:   qc.quiz.ID,
		Phase:    state.Phase,
		Total:    len(qc.quiz.Questions),
		Durable:  durable,
	}
	switch state.Phase {
	case domain.PhaseCompleted:
		v.Index = v.Total
		v.Score = state.Result.CorrectCount
		v.Result = state.Result
	case domain.PhaseInProgress:
		v.Index = state.Index
		v.Score = state.Score
		q := qc.quiz.Questions[state.Index]
		v.Question = &q
	}
	return v
}
