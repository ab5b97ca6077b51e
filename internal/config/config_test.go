package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
store:
  driver: redis
redis:
  addr: localhost:6379
remote:
  base_url: https://example.supabase.co
  cooldown: 45s
seasons:
  - id: spring
    short_id: sp
    name: Spring
    quizzes:
      - {id: song, prefix: SONG, questions: 10}
      - {id: movie, prefix: MOVIE, questions: 12}
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.Driver != "redis" || cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("unexpected store config %+v %+v", cfg.Store, cfg.Redis)
	}
	if cfg.Server.Port != "8080" || cfg.Identity.CookiePath == "" {
		t.Fatalf("expected defaults to survive, got port=%q cookie=%q", cfg.Server.Port, cfg.Identity.CookiePath)
	}
	if got := TTLDuration(cfg.Remote.Cooldown, time.Second); got != 45*time.Second {
		t.Fatalf("expected 45s cooldown, got %s", got)
	}

	season, err := cfg.Catalog().Season("spring")
	if err != nil {
		t.Fatalf("season: %v", err)
	}
	if season.Total() != 22 {
		t.Fatalf("expected total 22, got %d", season.Total())
	}
}

func TestCatalogFallsBackToDefault(t *testing.T) {
	cfg := Default()
	if _, err := cfg.Catalog().Season("season-1"); err != nil {
		t.Fatalf("expected default catalog, got %v", err)
	}
}

func TestTTLDurationFallback(t *testing.T) {
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for empty, got %s", got)
	}
	if got := TTLDuration("soon", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for garbage, got %s", got)
	}
}
