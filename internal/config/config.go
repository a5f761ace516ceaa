// Package config holds the runtime configuration for planscout.
//
// Everything has a sensible default; overrides come from SCOUT_*
// environment variables, optionally seeded from a .env file in the
// working directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full runtime configuration.
type Config struct {
	// MaxTriggers is the per-session ceiling on successful
	// auto-research invocations within the TTL window.
	MaxTriggers int
	// TTL is the window after which a session's counter is forgotten.
	TTL time.Duration
	// ConfidenceThreshold is the percentage below which auto-research
	// is offered.
	ConfidenceThreshold int
	// Timeout is the maximum wait for research calls before giving up.
	Timeout time.Duration

	// DocsAPIKey authenticates the documentation provider. Empty
	// disables it (the provider fails per-call and is isolated).
	DocsAPIKey string
	// DocsBaseURL overrides the documentation API root (tests).
	DocsBaseURL string
	// SearchBaseURL overrides the web search endpoint (tests).
	SearchBaseURL string
	// UserAgent identifies outgoing research requests.
	UserAgent string

	// DataDir is where the research history database lives.
	DataDir string
	// Debug enables verbose logging.
	Debug bool
}

// Default returns the built-in configuration.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		MaxTriggers:         10,
		TTL:                 24 * time.Hour,
		ConfidenceThreshold: 90,
		Timeout:             30 * time.Second,
		UserAgent:           "planscout ResearchAgent (+https://github.com/planscout/planscout)",
		DataDir:             filepath.Join(home, ".planscout"),
	}
}

// Load builds the configuration from defaults plus SCOUT_* environment
// overrides. A .env file in the working directory is read first if
// present (missing is not an error).
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	var err error
	if cfg.MaxTriggers, err = intEnv("SCOUT_MAX_TRIGGERS", cfg.MaxTriggers); err != nil {
		return cfg, err
	}
	if cfg.ConfidenceThreshold, err = intEnv("SCOUT_CONFIDENCE_THRESHOLD", cfg.ConfidenceThreshold); err != nil {
		return cfg, err
	}
	if cfg.TTL, err = durationEnv("SCOUT_RATE_LIMIT_TTL", cfg.TTL); err != nil {
		return cfg, err
	}
	if cfg.Timeout, err = durationEnv("SCOUT_RESEARCH_TIMEOUT", cfg.Timeout); err != nil {
		return cfg, err
	}

	if v := os.Getenv("SCOUT_DOCS_API_KEY"); v != "" {
		cfg.DocsAPIKey = v
	}
	if v := os.Getenv("SCOUT_DOCS_BASE_URL"); v != "" {
		cfg.DocsBaseURL = v
	}
	if v := os.Getenv("SCOUT_SEARCH_BASE_URL"); v != "" {
		cfg.SearchBaseURL = v
	}
	if v := os.Getenv("SCOUT_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	cfg.Debug = os.Getenv("SCOUT_DEBUG") == "1" || os.Getenv("SCOUT_DEBUG") == "true"

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.MaxTriggers <= 0 {
		return fmt.Errorf("config: max triggers must be positive, got %d", c.MaxTriggers)
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 100 {
		return fmt.Errorf("config: confidence threshold must be within [0,100], got %d", c.ConfidenceThreshold)
	}
	if c.TTL <= 0 {
		return fmt.Errorf("config: rate limit TTL must be positive, got %s", c.TTL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config: research timeout must be positive, got %s", c.Timeout)
	}
	return nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not an integer", key, v)
	}
	return n, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a duration (try 30s, 24h)", key, v)
	}
	return d, nil
}
