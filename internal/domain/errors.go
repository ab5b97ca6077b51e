package domain

import "errors"

var (
	// ErrSessionNotFound is returned when answering a quiz that was never entered.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrSeasonNotFound indicates an unknown season id.
	ErrSeasonNotFound = errors.New("season not found")
	// ErrEmptyQuiz indicates quiz content without questions.
	ErrEmptyQuiz = errors.New("quiz has no questions")
	// ErrOptionNotFound indicates a selected option index is out of range.
	ErrOptionNotFound = errors.New("option not found")
	// ErrQuizCompleted is returned when answering a quiz that already has a result.
	ErrQuizCompleted = errors.New("quiz already completed")
	// ErrDisplayNameRequired is returned when publishing without a profile name.
	ErrDisplayNameRequired = errors.New("set a display name before publishing")
	// ErrQuotaExceeded is returned by stores that ran out of capacity.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	// ErrRateLimited is returned when the remote endpoint keeps throttling after the retry.
	ErrRateLimited = errors.New("remote rate limit exceeded")
)
