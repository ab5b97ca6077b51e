package domain

// QuizRef places a quiz inside a season.
type QuizRef struct {
	ID        string `json:"id" yaml:"id"`
	Prefix    string `json:"prefix" yaml:"prefix"` // result id prefix, e.g. SONG
	Questions int    `json:"questions" yaml:"questions"`
}

// Season is a themed bundle of quizzes sharing one leaderboard score.
type Season struct {
	ID      string    `json:"id" yaml:"id"`
	ShortID string    `json:"short_id" yaml:"short_id"` // used in storage paths and row columns
	Name    string    `json:"name" yaml:"name"`
	Quizzes []QuizRef `json:"quizzes" yaml:"quizzes"`
}

// Total is the season's fixed denominator.
func (s Season) Total() int {
	total := 0
	for _, q := range s.Quizzes {
		total += q.Questions
	}
	return total
}

// Quiz finds a quiz reference by id.
func (s Season) Quiz(quizID string) (QuizRef, bool) {
	for _, q := range s.Quizzes {
		if q.ID == quizID {
			return q, true
		}
	}
	return QuizRef{}, false
}

// Catalog is the ordered set of seasons known to the client.
type Catalog []Season

// Season finds a season by id.
func (c Catalog) Season(seasonID string) (Season, error) {
	for _, s := range c {
		if s.ID == seasonID {
			return s, nil
		}
	}
	return Season{}, ErrSeasonNotFound
}

// Lookup resolves a season/quiz pair.
func (c Catalog) Lookup(seasonID, quizID string) (Season, QuizRef, error) {
	season, err := c.Season(seasonID)
	if err != nil {
		return Season{}, QuizRef{}, err
	}
	ref, ok := season.Quiz(quizID)
	if !ok {
		return Season{}, QuizRef{}, ErrQuizNotFound
	}
	return season, ref, nil
}

// DefaultCatalog is used when the configuration does not declare seasons.
func DefaultCatalog() Catalog {
	return Catalog{
		{
			ID:      "season-1",
			ShortID: "s1",
			Name:    "Season 1",
			Quizzes: []QuizRef{
				{ID: "song", Prefix: "SONG", Questions: 10},
				{ID: "movie", Prefix: "MOVIE", Questions: 10},
				{ID: "trivia", Prefix: "TRIVIA", Questions: 10},
			},
		},
		{
			ID:      "season-2",
			ShortID: "s2",
			Name:    "Season 2",
			Quizzes: []QuizRef{
				{ID: "song2", Prefix: "SONG2", Questions: 10},
				{ID: "movie2", Prefix: "MOVIE2", Questions: 10},
				{ID: "trivia2", Prefix: "TRIVIA2", Questions: 10},
				{ID: "truefalse", Prefix: "TF", Questions: 10},
				{ID: "silhouette", Prefix: "SIL", Questions: 10},
				{ID: "emoji", Prefix: "EMOJI", Questions: 10},
			},
		},
	}
}
