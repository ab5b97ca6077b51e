package app

import (
	"context"

	"champion-quiz/internal/domain"
)

// Aggregator derives season totals from stored results. Totals are never
// persisted, so they cannot go stale.
type Aggregator struct {
	store   *Store
	catalog domain.Catalog
}

func NewAggregator(store *Store, catalog domain.Catalog) *Aggregator {
	return &Aggregator{store: store, catalog: catalog}
}

// SeasonTotals sums correct answers across the season's quizzes. Quizzes
// without a result contribute 0; the total is always the season's full
// question count.
func (a *Aggregator) SeasonTotals(ctx context.Context, seasonID string) (domain.SeasonTotals, error) {
	season, err := a.catalog.Season(seasonID)
	if err != nil {
		return domain.SeasonTotals{}, err
	}
	totals := domain.SeasonTotals{Total: season.Total()}
	for _, ref := range season.Quizzes {
		totals.Score += a.quizScore(ctx, season.ID, ref)
	}
	return totals, nil
}

func (a *Aggregator) quizScore(ctx context.Context, seasonID string, ref domain.QuizRef) int {
	state, _ := a.store.LoadState(ctx, seasonID, ref.ID, ref.Questions)
	if state.Phase != domain.PhaseCompleted || state.Result == nil {
		return 0
	}
	correct := state.Result.CorrectCount
	if correct < 0 {
		return 0
	}
	if correct > ref.Questions {
		return ref.Questions
	}
	return correct
}
