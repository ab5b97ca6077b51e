package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Phase tags which variant of SessionState is populated.
type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseInProgress Phase = "in_progress"
	PhaseCompleted  Phase = "completed"
)

// SessionState is the single persisted record of a quiz attempt.
//
//	NotStarted: no other field is meaningful
//	InProgress: Index, Score and Answers
//	Completed:  Result
type SessionState struct {
	Phase     Phase          `json:"phase"`
	Index     int            `json:"idx,omitempty"`
	Score     int            `json:"score,omitempty"`
	Answers   []AnswerRecord `json:"answers,omitempty"`
	Result    *Result        `json:"result,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NotStarted returns the initial state.
func NotStarted() SessionState {
	return SessionState{Phase: PhaseNotStarted}
}

// InProgress returns a state positioned at idx.
func InProgress(idx, score int, answers []AnswerRecord) SessionState {
	return SessionState{Phase: PhaseInProgress, Index: idx, Score: score, Answers: answers}
}

// Completed returns the terminal state holding result.
func Completed(result Result) SessionState {
	return SessionState{Phase: PhaseCompleted, Result: &result}
}

// Encode serializes the state for storage.
func (s SessionState) Encode() (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeSessionState validates a stored record for a quiz of n questions.
// Malformed or unknown records report ok=false so callers fall back to a
// safe default. A completed record without its result is kept as Completed
// with a nil Result; the caller decides how to reconstruct it.
func DecodeSessionState(raw string, n int) (SessionState, bool) {
	if strings.TrimSpace(raw) == "" {
		return SessionState{}, false
	}
	var s SessionState
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return SessionState{}, false
	}
	switch s.Phase {
	case PhaseNotStarted:
		return NotStarted(), true
	case PhaseInProgress:
		s.Index = ClampIndex(s.Index, n)
		if s.Score < 0 {
			s.Score = 0
		}
		s.Result = nil
		return s, true
	case PhaseCompleted:
		s.Index, s.Score, s.Answers = 0, 0, nil
		if s.Result != nil {
			normalizeResult(s.Result)
		}
		return s, true
	default:
		return SessionState{}, false
	}
}

// ClampIndex keeps idx inside [0, n-1].
func ClampIndex(idx, n int) int {
	if idx < 0 || n <= 0 {
		return 0
	}
	if idx > n-1 {
		return n - 1
	}
	return idx
}

// LegacyProgress is the in-progress snapshot written by the two-key layout.
type LegacyProgress struct {
	Index   int            `json:"idx"`
	Correct int            `json:"correct"`
	Answers []AnswerRecord `json:"answers"`
}

// DecodeLegacyProgress parses a legacy snapshot, clamping the index.
func DecodeLegacyProgress(raw string, n int) (LegacyProgress, bool) {
	if strings.TrimSpace(raw) == "" {
		return LegacyProgress{}, false
	}
	var p LegacyProgress
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return LegacyProgress{}, false
	}
	p.Index = ClampIndex(p.Index, n)
	if p.Correct < 0 {
		p.Correct = 0
	}
	return p, true
}

// DecodeResult parses a stored result, recomputing accuracy from the counts.
func DecodeResult(raw string) (Result, bool) {
	if strings.TrimSpace(raw) == "" {
		return Result{}, false
	}
	var r Result
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return Result{}, false
	}
	normalizeResult(&r)
	return r, true
}

// normalizeResult clamps the counts and derives accuracy from them; a stored
// accuracy is never trusted.
func normalizeResult(r *Result) {
	if r.TotalQuestions < 0 {
		r.TotalQuestions = 0
	}
	if r.CorrectCount < 0 {
		r.CorrectCount = 0
	}
	if r.TotalQuestions > 0 && r.CorrectCount > r.TotalQuestions {
		r.CorrectCount = r.TotalQuestions
	}
	r.AccuracyPercent = Accuracy(r.CorrectCount, r.TotalQuestions)
}

// DecodeProfile parses a stored profile; malformed input yields an empty profile.
func DecodeProfile(raw string) Profile {
	var p Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Profile{}
	}
	p.DisplayName = strings.TrimSpace(p.DisplayName)
	return p
}
