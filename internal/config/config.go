package config

import (
	"os"
	"time"

	"champion-quiz/internal/domain"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Store struct {
		// Driver is file (default), memory or redis.
		Driver    string `yaml:"driver"`
		Path      string `yaml:"path"`
		Capacity  int    `yaml:"capacity"`
		Namespace string `yaml:"namespace"`
	} `yaml:"store"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		TTL string `yaml:"ttl"`
	} `yaml:"quiz"`
	Remote struct {
		BaseURL        string `yaml:"base_url"`
		APIKey         string `yaml:"api_key"`
		Bucket         string `yaml:"bucket"`
		SubmitFunction string `yaml:"submit_function"`
		Cooldown       string `yaml:"cooldown"`
		Timeout        string `yaml:"timeout"`
		LeaderboardTTL string `yaml:"leaderboard_ttl"`
	} `yaml:"remote"`
	Identity struct {
		CookiePath    string `yaml:"cookie_path"`
		SecondaryPath string `yaml:"secondary_path"`
	} `yaml:"identity"`
	Seasons []domain.Season `yaml:"seasons"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Store.Driver = "file"
	cfg.Store.Path = ".champion/store.json"
	cfg.Store.Capacity = 5 << 20
	cfg.Store.Namespace = "champion"
	cfg.Quiz.TTL = "10m"
	cfg.Remote.Cooldown = "10s"
	cfg.Identity.CookiePath = ".champion/cookies.txt"
	cfg.Identity.SecondaryPath = ".champion/identity.json"
	return cfg
}

// Load reads YAML config from path on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Catalog returns the configured seasons, or the built-in catalog.
func (c Config) Catalog() domain.Catalog {
	if len(c.Seasons) == 0 {
		return domain.DefaultCatalog()
	}
	return domain.Catalog(c.Seasons)
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
