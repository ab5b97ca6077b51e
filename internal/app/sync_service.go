package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"champion-quiz/internal/domain"
	"champion-quiz/internal/imaging"
)

// RemoteClient is the hosted leaderboard backend.
type RemoteClient interface {
	Upload(ctx context.Context, path string, png []byte, token string) (string, error)
	FetchImage(ctx context.Context, imageURL string) ([]byte, error)
	SubmitScore(ctx context.Context, sub domain.Submission, token string) error
	FetchLeaderboard(ctx context.Context, limit int, token string) ([]domain.LeaderboardRow, error)
}

// LeaderboardCache is an optional, non-authoritative cache of fetched rows.
type LeaderboardCache interface {
	GetRows(ctx context.Context, limit int) ([]domain.LeaderboardRow, bool)
	SetRows(ctx context.Context, limit int, rows []domain.LeaderboardRow, ttl time.Duration)
	Invalidate(ctx context.Context)
}

// SyncService publishes local results and reads the shared standings.
type SyncService struct {
	store      *Store
	aggregator *Aggregator
	identity   *IdentityResolver
	remote     RemoteClient
	catalog    domain.Catalog
	cache      LeaderboardCache
	cacheTTL   time.Duration
}

func NewSyncService(store *Store, aggregator *Aggregator, identity *IdentityResolver, remote RemoteClient, catalog domain.Catalog) *SyncService {
	return &SyncService{
		store:      store,
		aggregator: aggregator,
		identity:   identity,
		remote:     remote,
		catalog:    catalog,
	}
}

// WithLeaderboardCache enables the read-through cache for FetchLeaderboard.
func (s *SyncService) WithLeaderboardCache(cache LeaderboardCache, ttl time.Duration) *SyncService {
	if cache != nil && ttl > 0 {
		s.cache = cache
		s.cacheTTL = ttl
	}
	return s
}

func avatarPath(id string) string {
	return "avatars/" + id + ".png"
}

func cardPath(season domain.Season, id string) string {
	return season.ShortID + "/" + id + ".png"
}

// SubmitSeasonResult uploads the avatar and champion card and posts the
// season score under the resolved identity.
func (s *SyncService) SubmitSeasonResult(ctx context.Context, seasonID string, card []byte) (domain.SubmissionReceipt, error) {
	season, err := s.catalog.Season(seasonID)
	if err != nil {
		return domain.SubmissionReceipt{}, err
	}
	profile := s.store.Profile(ctx)
	if profile.DisplayName == "" {
		return domain.SubmissionReceipt{}, domain.ErrDisplayNameRequired
	}

	id := s.identity.Resolve(ctx)
	token := ""
	if session, ok := s.identity.Session(); ok {
		token = session.AccessToken
	}

	avatarURL, err := s.publishAvatar(ctx, &profile, id, token)
	if err != nil {
		return domain.SubmissionReceipt{}, err
	}

	cardPNG, err := imaging.EnsurePNG(card)
	if err != nil {
		return domain.SubmissionReceipt{}, fmt.Errorf("champion card: %w", err)
	}
	s.store.Put(ctx, domain.CardPreviewKey(season.ID), imaging.DataURI(cardPNG))
	champURL, err := s.remote.Upload(ctx, cardPath(season, id), cardPNG, token)
	if err != nil {
		return domain.SubmissionReceipt{}, err
	}

	totals, err := s.aggregator.SeasonTotals(ctx, season.ID)
	if err != nil {
		return domain.SubmissionReceipt{}, err
	}

	sub := domain.Submission{
		DeviceID:  id,
		Nickname:  profile.DisplayName,
		Season:    season.ID,
		ChampURL:  champURL,
		Score:     totals.Score,
		AvatarURL: avatarURL,
	}
	if err := s.remote.SubmitScore(ctx, sub, token); err != nil {
		return domain.SubmissionReceipt{}, err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	return domain.SubmissionReceipt{
		DeviceID:  id,
		Season:    season.ID,
		ChampURL:  champURL,
		AvatarURL: avatarURL,
		Totals:    totals,
	}, nil
}

// publishAvatar returns the URL to submit for the profile avatar. Inline
// avatars are uploaded once and the profile is rewritten to point at the
// upload. Foreign URLs are re-hosted under this identity, falling back to a
// placeholder when they cannot be fetched or decoded.
func (s *SyncService) publishAvatar(ctx context.Context, profile *domain.Profile, id, token string) (string, error) {
	avatar := strings.TrimSpace(profile.AvatarImage)
	switch {
	case avatar == "":
		return "", nil
	case imaging.IsDataURI(avatar):
		raw, _, err := imaging.ParseDataURI(avatar)
		if err == nil {
			raw, err = imaging.EnsurePNG(raw)
		}
		if err != nil {
			log.Printf("sync: inline avatar unusable, using placeholder: %v", err)
			raw = imaging.Placeholder()
		}
		return s.uploadAvatar(ctx, profile, id, token, raw)
	case strings.Contains(avatar, avatarPath(id)):
		return avatar, nil
	default:
		raw, err := s.remote.FetchImage(ctx, avatar)
		if err == nil {
			raw, err = imaging.EnsurePNG(raw)
		}
		if err != nil {
			log.Printf("sync: avatar %s unusable, using placeholder: %v", avatar, err)
			raw = imaging.Placeholder()
		}
		return s.uploadAvatar(ctx, profile, id, token, raw)
	}
}

func (s *SyncService) uploadAvatar(ctx context.Context, profile *domain.Profile, id, token string, png []byte) (string, error) {
	u, err := s.remote.Upload(ctx, avatarPath(id), png, token)
	if err != nil {
		return "", err
	}
	profile.AvatarImage = u
	s.store.SaveProfile(ctx, *profile)
	return u, nil
}

// FetchLeaderboard returns up to limit rows ordered by total score.
func (s *SyncService) FetchLeaderboard(ctx context.Context, limit int) ([]domain.LeaderboardRow, error) {
	if s.cache != nil {
		if rows, ok := s.cache.GetRows(ctx, limit); ok {
			return rows, nil
		}
	}
	token := ""
	if session, ok := s.identity.Session(); ok {
		token = session.AccessToken
	}
	rows, err := s.remote.FetchLeaderboard(ctx, limit, token)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetRows(ctx, limit, rows, s.cacheTTL)
	}
	return rows, nil
}

// Leaderboard fetches rows and builds the view for the local identity.
func (s *SyncService) Leaderboard(ctx context.Context, limit int, showAll bool) (LeaderboardView, error) {
	rows, err := s.FetchLeaderboard(ctx, limit)
	if err != nil {
		return LeaderboardView{}, err
	}
	return BuildLeaderboard(rows, s.identity.Cached(ctx), showAll), nil
}
