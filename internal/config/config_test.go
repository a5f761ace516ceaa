package config

import (
	"testing"
	"time"
)

func TestDefault_Knobs(t *testing.T) {
	cfg := Default()

	if cfg.MaxTriggers != 10 {
		t.Errorf("MaxTriggers = %d, want 10", cfg.MaxTriggers)
	}
	if cfg.TTL != 24*time.Hour {
		t.Errorf("TTL = %s, want 24h", cfg.TTL)
	}
	if cfg.ConfidenceThreshold != 90 {
		t.Errorf("ConfidenceThreshold = %d, want 90", cfg.ConfidenceThreshold)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %s, want 30s", cfg.Timeout)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SCOUT_MAX_TRIGGERS", "3")
	t.Setenv("SCOUT_RATE_LIMIT_TTL", "1h")
	t.Setenv("SCOUT_RESEARCH_TIMEOUT", "5s")
	t.Setenv("SCOUT_CONFIDENCE_THRESHOLD", "80")
	t.Setenv("SCOUT_DOCS_API_KEY", "k123")
	t.Setenv("SCOUT_DEBUG", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.MaxTriggers != 3 {
		t.Errorf("MaxTriggers = %d, want 3", cfg.MaxTriggers)
	}
	if cfg.TTL != time.Hour {
		t.Errorf("TTL = %s, want 1h", cfg.TTL)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %s, want 5s", cfg.Timeout)
	}
	if cfg.ConfidenceThreshold != 80 {
		t.Errorf("ConfidenceThreshold = %d, want 80", cfg.ConfidenceThreshold)
	}
	if cfg.DocsAPIKey != "k123" {
		t.Errorf("DocsAPIKey = %q, want k123", cfg.DocsAPIKey)
	}
	if !cfg.Debug {
		t.Error("Debug = false, want true")
	}
}

func TestLoad_RejectsMalformedValues(t *testing.T) {
	t.Setenv("SCOUT_MAX_TRIGGERS", "many")

	if _, err := Load(); err == nil {
		t.Error("Load with non-integer SCOUT_MAX_TRIGGERS = nil error, want error")
	}
}

func TestLoad_RejectsInvalidRanges(t *testing.T) {
	t.Setenv("SCOUT_CONFIDENCE_THRESHOLD", "150")

	if _, err := Load(); err == nil {
		t.Error("Load with threshold 150 = nil error, want error")
	}
}
