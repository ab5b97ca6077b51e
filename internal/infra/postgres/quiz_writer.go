package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"champion-quiz/internal/domain"
	"github.com/uptrace/bun"
)

// SeedQuizzes upserts quizzes into the question bank.
func SeedQuizzes(ctx context.Context, db *bun.DB, quizzes []domain.Quiz) error {
	for _, quiz := range quizzes {
		if err := quiz.Validate(); err != nil {
			return err
		}
		data, err := json.Marshal(quiz)
		if err != nil {
			return fmt.Errorf("marshal quiz %s: %w", quiz.ID, err)
		}
		_, err = db.ExecContext(ctx,
			`INSERT INTO quizzes (id, data) VALUES (?, ?::jsonb)
			 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
			quiz.ID, string(data))
		if err != nil {
			return fmt.Errorf("seed quiz %s: %w", quiz.ID, err)
		}
	}
	return nil
}
