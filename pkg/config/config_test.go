package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.GitHub.BaseURL != "https://api.github.com" {
		t.Errorf("Expected default base URL to be https://api.github.com, got %s", config.GitHub.BaseURL)
	}

	if config.GitHub.Timeout != 10*time.Second {
		t.Errorf("Expected default timeout to be 10s, got %v", config.GitHub.Timeout)
	}

	if config.Search.Location != "Sydney" || config.Search.MinFollowers != 100 {
		t.Errorf("Expected default query Sydney/100, got %s/%d", config.Search.Location, config.Search.MinFollowers)
	}

	if config.Repos.MaxRepos != 500 {
		t.Errorf("Expected default max repos to be 500, got %d", config.Repos.MaxRepos)
	}

	if config.Retry.TransientDelay != 5*time.Second {
		t.Errorf("Expected default transient delay to be 5s, got %v", config.Retry.TransientDelay)
	}

	if config.RateLimit.RequestsPerMinute != 0 {
		t.Errorf("Expected pacing to be disabled by default, got %d", config.RateLimit.RequestsPerMinute)
	}

	if err := config.Validate(); err != nil {
		t.Errorf("Expected default config to be valid, got %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "generic-token")
	t.Setenv("GHSCRAPER_TOKEN", "prefixed-token")
	t.Setenv("GHSCRAPER_LOCATION", "Melbourne")
	t.Setenv("GHSCRAPER_MIN_FOLLOWERS", "250")
	t.Setenv("GHSCRAPER_MAX_REPOS", "50")
	t.Setenv("GHSCRAPER_OUTPUT_DIR", "/tmp/out")
	t.Setenv("GHSCRAPER_LOG_LEVEL", "debug")

	config := DefaultConfig()
	if err := config.LoadFromEnv(); err != nil {
		t.Fatalf("Failed to load from environment: %v", err)
	}

	if config.GitHub.Token != "prefixed-token" {
		t.Errorf("Expected prefixed token to win, got %s", config.GitHub.Token)
	}
	if config.Search.Location != "Melbourne" {
		t.Errorf("Expected location Melbourne, got %s", config.Search.Location)
	}
	if config.Search.MinFollowers != 250 {
		t.Errorf("Expected min followers 250, got %d", config.Search.MinFollowers)
	}
	if config.Repos.MaxRepos != 50 {
		t.Errorf("Expected max repos 50, got %d", config.Repos.MaxRepos)
	}
	if config.Output.Directory != "/tmp/out" {
		t.Errorf("Expected output dir /tmp/out, got %s", config.Output.Directory)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("Expected log level debug, got %s", config.Logging.Level)
	}
}

func TestLoadFromEnvInvalidNumber(t *testing.T) {
	t.Setenv("GHSCRAPER_MIN_FOLLOWERS", "lots")

	config := DefaultConfig()
	err := config.LoadFromEnv()
	if err == nil {
		t.Fatal("Expected error for non-numeric GHSCRAPER_MIN_FOLLOWERS")
	}
	if !strings.Contains(err.Error(), "GHSCRAPER_MIN_FOLLOWERS") {
		t.Errorf("Expected error to name the variable, got %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `github:
  token: file-token
  timeout: 15s
search:
  location: Berlin
  min_followers: 42
  skip_missing_profiles: true
retry:
  transient_delay: 2s
output:
  directory: ./data
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	config := DefaultConfig()
	if err := config.LoadFromFile(path); err != nil {
		t.Fatalf("Failed to load config file: %v", err)
	}

	if config.GitHub.Token != "file-token" {
		t.Errorf("Expected token from file, got %s", config.GitHub.Token)
	}
	if config.GitHub.Timeout != 15*time.Second {
		t.Errorf("Expected timeout 15s, got %v", config.GitHub.Timeout)
	}
	if config.Search.Location != "Berlin" || config.Search.MinFollowers != 42 {
		t.Errorf("Expected Berlin/42, got %s/%d", config.Search.Location, config.Search.MinFollowers)
	}
	if !config.Search.SkipMissingProfiles {
		t.Error("Expected skip_missing_profiles to be true")
	}
	if config.Retry.TransientDelay != 2*time.Second {
		t.Errorf("Expected transient delay 2s, got %v", config.Retry.TransientDelay)
	}
	// Values absent from the file keep their defaults
	if config.Repos.MaxRepos != 500 {
		t.Errorf("Expected max repos default 500, got %d", config.Repos.MaxRepos)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	config := DefaultConfig()
	if err := config.LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"empty location", func(c *Config) { c.Search.Location = "  " }, "search location is required"},
		{"negative followers", func(c *Config) { c.Search.MinFollowers = -1 }, "minimum followers cannot be negative"},
		{"page too large", func(c *Config) { c.Repos.PerPage = 101 }, "repository page size"},
		{"zero max repos", func(c *Config) { c.Repos.MaxRepos = 0 }, "max repos must be positive"},
		{"zero timeout", func(c *Config) { c.GitHub.Timeout = 0 }, "request timeout must be positive"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "invalid log level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "invalid log format"},
		{"pacing without burst", func(c *Config) {
			c.RateLimit.RequestsPerMinute = 30
			c.RateLimit.BurstSize = 0
		}, "burst size must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(config)
			err := config.Validate()
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	config := DefaultConfig()
	config.MergeCommandLineFlags(map[string]interface{}{
		"token":         "flag-token",
		"location":      "Tokyo",
		"min-followers": 0,
		"max-repos":     10,
		"output":        "./out",
		"log-level":     "warn",
	})

	if config.GitHub.Token != "flag-token" {
		t.Errorf("Expected flag token, got %s", config.GitHub.Token)
	}
	if config.Search.Location != "Tokyo" {
		t.Errorf("Expected Tokyo, got %s", config.Search.Location)
	}
	if config.Search.MinFollowers != 0 {
		t.Errorf("Expected min followers 0, got %d", config.Search.MinFollowers)
	}
	if config.Repos.MaxRepos != 10 {
		t.Errorf("Expected max repos 10, got %d", config.Repos.MaxRepos)
	}
	if config.Output.Directory != "./out" {
		t.Errorf("Expected ./out, got %s", config.Output.Directory)
	}
	if config.Logging.Level != "warn" {
		t.Errorf("Expected warn, got %s", config.Logging.Level)
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	original := DefaultConfig()
	original.Search.Location = "Lagos"
	if err := original.Save(path); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	reloaded := DefaultConfig()
	if err := reloaded.LoadFromFile(path); err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}
	if reloaded.Search.Location != "Lagos" {
		t.Errorf("Expected Lagos after reload, got %s", reloaded.Search.Location)
	}
	if reloaded.Retry.TransientDelay != 5*time.Second {
		t.Errorf("Expected duration to survive round trip, got %v", reloaded.Retry.TransientDelay)
	}
}

func TestRedacted(t *testing.T) {
	config := DefaultConfig()
	config.GitHub.Token = "ghp_abcdefghijklmnop"

	redacted := config.Redacted()
	if redacted.GitHub.Token != "ghp_...mnop" {
		t.Errorf("Expected masked token, got %s", redacted.GitHub.Token)
	}
	if config.GitHub.Token != "ghp_abcdefghijklmnop" {
		t.Error("Redacted must not modify the original")
	}
	if MaskSecret("short") != "********" {
		t.Error("Expected short secrets to be fully masked")
	}
}
