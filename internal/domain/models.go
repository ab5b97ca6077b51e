package domain

import (
	"fmt"
	"math"
	"time"
)

// Profile is the locally owned player identity shown on cards and the leaderboard.
type Profile struct {
	DisplayName string `json:"name"`
	AvatarImage string `json:"avatar"` // data URI or URL
}

// Question is a single multiple-choice question. Correct indexes into Options.
type Question struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Correct int      `json:"correct"`
	Media   string   `json:"media,omitempty"`
}

// Quiz is a fixed ordered list of questions.
type Quiz struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// AnswerRecord is appended once per confirmed answer and never modified.
type AnswerRecord struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Selected int      `json:"selected"`
	Correct  int      `json:"correct"`
}

// IsCorrect reports whether the selected option matched the correct one.
func (a AnswerRecord) IsCorrect() bool {
	return a.Selected == a.Correct
}

// Result is the immutable outcome of one completed quiz.
type Result struct {
	TotalQuestions  int            `json:"total"`
	CorrectCount    int            `json:"correct"`
	AccuracyPercent int            `json:"accuracy"`
	PlayerName      string         `json:"player"`
	ResultID        string         `json:"result_id"`
	CompletedAt     time.Time      `json:"completed_at"`
	Answers         []AnswerRecord `json:"answers"`
	// Missing marks a result rebuilt from a partial snapshot after the
	// original record was lost.
	Missing bool `json:"missing,omitempty"`
}

// NewResult builds a Result with the accuracy derived from the counts.
func NewResult(total, correct int, player, resultID string, completedAt time.Time, answers []AnswerRecord) Result {
	return Result{
		TotalQuestions:  total,
		CorrectCount:    correct,
		AccuracyPercent: Accuracy(correct, total),
		PlayerName:      player,
		ResultID:        resultID,
		CompletedAt:     completedAt,
		Answers:         answers,
	}
}

// Accuracy returns round(correct/total*100), or 0 for an empty quiz.
func Accuracy(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// SeasonTotals is derived on demand and never stored.
type SeasonTotals struct {
	Score int `json:"score"`
	Total int `json:"total"`
}

// AuthSession is the outcome of an anonymous sign-in.
type AuthSession struct {
	UserID      string `json:"user_id"`
	AccessToken string `json:"access_token"`
}

// Submission is the payload posted to the remote score endpoint.
type Submission struct {
	DeviceID  string `json:"device_id"`
	Nickname  string `json:"nickname"`
	Season    string `json:"season"`
	ChampURL  string `json:"champ_url"`
	Score     int    `json:"score"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// SubmissionReceipt summarizes what a successful submission published.
type SubmissionReceipt struct {
	DeviceID  string       `json:"device_id"`
	Season    string       `json:"season"`
	ChampURL  string       `json:"champ_url"`
	AvatarURL string       `json:"avatar_url,omitempty"`
	Totals    SeasonTotals `json:"totals"`
}

// Validate checks that every question has options and a correct index
// pointing at one of them.
func (q Quiz) Validate() error {
	if len(q.Questions) == 0 {
		return ErrEmptyQuiz
	}
	for i, question := range q.Questions {
		if len(question.Options) < 2 {
			return fmt.Errorf("quiz %s question %d: %w", q.ID, i, ErrOptionNotFound)
		}
		if question.Correct < 0 || question.Correct >= len(question.Options) {
			return fmt.Errorf("quiz %s question %d: correct index %d: %w", q.ID, i, question.Correct, ErrOptionNotFound)
		}
	}
	return nil
}
