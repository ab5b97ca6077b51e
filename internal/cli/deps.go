package cli

import (
	"context"
	"fmt"
	"time"

	"champion-quiz/internal/app"
	"champion-quiz/internal/config"
	"champion-quiz/internal/domain"
	"champion-quiz/internal/infra/file"
	"champion-quiz/internal/infra/memory"
	pgloader "champion-quiz/internal/infra/postgres"
	redisinfra "champion-quiz/internal/infra/redis"
	"champion-quiz/internal/remote"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
)

// deps is the explicitly constructed object graph shared by every command.
type deps struct {
	cfg      config.Config
	catalog  domain.Catalog
	store    *app.Store
	quizzes  *app.QuizService
	totals   *app.Aggregator
	identity *app.IdentityResolver
	sync     *app.SyncService // nil without a remote backend
	closers  []func()
}

func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

func (d *deps) requireSync() (*app.SyncService, error) {
	if d.sync == nil {
		return nil, fmt.Errorf("remote.base_url not configured")
	}
	return d.sync, nil
}

func buildDeps(ctx context.Context, cfg config.Config) (*deps, error) {
	d := &deps{cfg: cfg, catalog: cfg.Catalog()}
	ok := false
	defer func() {
		if !ok {
			d.Close()
		}
	}()

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		d.closers = append(d.closers, func() { _ = redisClient.Close() })
	}

	kv, err := openStore(cfg, redisClient)
	if err != nil {
		return nil, err
	}
	d.store = app.NewStore(kv)

	var loader memory.QuizLoader = memory.NewStaticQuizLoader(memory.DefaultBank())
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, pool.Close)
		loader = pgloader.NewQuizLoader(pool)
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var quizRepo app.QuizRepository
	if redisClient != nil {
		quizRepo = redisinfra.NewQuizRepository(redisClient, loader, quizTTL)
	} else {
		quizRepo = memory.NewQuizRepository(loader, quizTTL)
	}

	d.quizzes = app.NewQuizService(d.store, quizRepo, d.catalog)
	d.totals = app.NewAggregator(d.store, d.catalog)

	var cookie, secondary app.KV
	if cfg.Identity.CookiePath != "" {
		cookie = file.NewCookieStore(cfg.Identity.CookiePath, 0)
	}
	switch {
	case redisClient != nil:
		secondary = redisinfra.NewKV(redisClient, cfg.Store.Namespace+"-identity")
	case cfg.Identity.SecondaryPath != "":
		skv, err := file.Open(cfg.Identity.SecondaryPath, 0)
		if err != nil {
			return nil, err
		}
		secondary = skv
	}

	var auth app.Authenticator
	var client *remote.Client
	if cfg.Remote.BaseURL != "" {
		client = remote.NewClient(remote.Config{
			BaseURL:        cfg.Remote.BaseURL,
			APIKey:         cfg.Remote.APIKey,
			Bucket:         cfg.Remote.Bucket,
			SubmitFunction: cfg.Remote.SubmitFunction,
			Cooldown:       config.TTLDuration(cfg.Remote.Cooldown, remote.DefaultCooldown),
			Timeout:        config.TTLDuration(cfg.Remote.Timeout, 0),
		})
		auth = client
	}
	d.identity = app.NewIdentityResolver(auth, d.store, cookie, secondary)

	if client != nil {
		d.sync = app.NewSyncService(d.store, d.totals, d.identity, client, d.catalog)
		if ttl := config.TTLDuration(cfg.Remote.LeaderboardTTL, 0); redisClient != nil && ttl > 0 {
			d.sync.WithLeaderboardCache(redisinfra.NewLeaderboardCache(redisClient, true), ttl)
		}
	}

	ok = true
	return d, nil
}

func openStore(cfg config.Config, redisClient *redis.Client) (app.KV, error) {
	switch cfg.Store.Driver {
	case "memory":
		return memory.NewKV(cfg.Store.Capacity), nil
	case "redis":
		if redisClient == nil {
			return nil, fmt.Errorf("store driver redis needs redis.addr")
		}
		return redisinfra.NewKV(redisClient, cfg.Store.Namespace), nil
	case "", "file":
		return file.Open(cfg.Store.Path, cfg.Store.Capacity)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
