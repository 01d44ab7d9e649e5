package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the GitHub scraper
type Config struct {
	// GitHub API access
	GitHub GitHubConfig `yaml:"github" json:"github"`

	// User search query
	Search SearchConfig `yaml:"search" json:"search"`

	// Repository listing
	Repos ReposConfig `yaml:"repos" json:"repos"`

	// Retry delays for the request layer
	Retry RetryConfig `yaml:"retry" json:"retry"`

	// Client-side request pacing
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// GitHubConfig holds GitHub API configuration
type GitHubConfig struct {
	Token     string        `yaml:"token" json:"token"`
	BaseURL   string        `yaml:"base_url" json:"base_url"`
	Accept    string        `yaml:"accept" json:"accept"`
	UserAgent string        `yaml:"user_agent" json:"user_agent"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
}

// SearchConfig holds the user search filter
type SearchConfig struct {
	Location     string `yaml:"location" json:"location"`
	MinFollowers int    `yaml:"min_followers" json:"min_followers"`
	PerPage      int    `yaml:"per_page" json:"per_page"`
	// SkipMissingProfiles turns a 404 on a profile fetch into a logged skip
	// instead of aborting the run.
	SkipMissingProfiles bool `yaml:"skip_missing_profiles" json:"skip_missing_profiles"`
}

// ReposConfig holds repository listing configuration
type ReposConfig struct {
	MaxRepos int `yaml:"max_repos" json:"max_repos"`
	PerPage  int `yaml:"per_page" json:"per_page"`
}

// RetryConfig holds the delays used by the request retry loop
type RetryConfig struct {
	TransientDelay   time.Duration `yaml:"transient_delay" json:"transient_delay"`
	RateLimitPadding time.Duration `yaml:"rate_limit_padding" json:"rate_limit_padding"`
}

// RateLimitConfig holds client-side pacing configuration
type RateLimitConfig struct {
	// RequestsPerMinute paces outgoing requests; 0 disables pacing
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
	BurstSize         int `yaml:"burst_size" json:"burst_size"`
}

// OutputConfig holds output file configuration
type OutputConfig struct {
	Directory        string `yaml:"directory" json:"directory"`
	UsersFile        string `yaml:"users_file" json:"users_file"`
	RepositoriesFile string `yaml:"repositories_file" json:"repositories_file"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	File   string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			BaseURL:   "https://api.github.com",
			Accept:    "application/vnd.github.v3+json",
			UserAgent: "ghscraper",
			Timeout:   10 * time.Second,
		},
		Search: SearchConfig{
			Location:     "Sydney",
			MinFollowers: 100,
			PerPage:      100,
		},
		Repos: ReposConfig{
			MaxRepos: 500,
			PerPage:  100,
		},
		Retry: RetryConfig{
			TransientDelay:   5 * time.Second,
			RateLimitPadding: time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 0,
			BurstSize:         1,
		},
		Output: OutputConfig{
			Directory:        ".",
			UsersFile:        "users.csv",
			RepositoriesFile: "repositories.csv",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	// GITHUB_TOKEN is what most tooling exports; the prefixed name wins
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		c.GitHub.Token = token
	}
	if token := os.Getenv("GHSCRAPER_TOKEN"); token != "" {
		c.GitHub.Token = token
	}
	if baseURL := os.Getenv("GHSCRAPER_BASE_URL"); baseURL != "" {
		c.GitHub.BaseURL = baseURL
	}

	if location := os.Getenv("GHSCRAPER_LOCATION"); location != "" {
		c.Search.Location = location
	}

	var errs []error
	if v := os.Getenv("GHSCRAPER_MIN_FOLLOWERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("GHSCRAPER_MIN_FOLLOWERS: %w", err))
		} else {
			c.Search.MinFollowers = n
		}
	}
	if v := os.Getenv("GHSCRAPER_MAX_REPOS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("GHSCRAPER_MAX_REPOS: %w", err))
		} else {
			c.Repos.MaxRepos = n
		}
	}
	if v := os.Getenv("GHSCRAPER_REQUESTS_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("GHSCRAPER_REQUESTS_PER_MINUTE: %w", err))
		} else {
			c.RateLimit.RequestsPerMinute = n
		}
	}

	if outputDir := os.Getenv("GHSCRAPER_OUTPUT_DIR"); outputDir != "" {
		c.Output.Directory = outputDir
	}
	if logLevel := os.Getenv("GHSCRAPER_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = FindConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// FindConfigFile returns the first existing config file in the standard
// locations, or "" when there is none
func FindConfigFile() string {
	home, _ := os.UserHomeDir()

	// Check in order of precedence
	locations := []string{
		".ghscraper.yaml",
		".ghscraper.yml",
		filepath.Join(home, ".config", "ghscraper", "config.yaml"),
		filepath.Join(home, ".config", "ghscraper", "config.yml"),
		filepath.Join(home, ".ghscraper.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid. The token is not checked
// here because it may still be supplied interactively.
func (c *Config) Validate() error {
	var errs []error

	if c.GitHub.BaseURL == "" {
		errs = append(errs, errors.New("GitHub base URL is required"))
	}
	if c.GitHub.Timeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	if strings.TrimSpace(c.Search.Location) == "" {
		errs = append(errs, errors.New("search location is required"))
	}
	if c.Search.MinFollowers < 0 {
		errs = append(errs, errors.New("minimum followers cannot be negative"))
	}
	if c.Search.PerPage <= 0 || c.Search.PerPage > 100 {
		errs = append(errs, errors.New("search page size must be between 1 and 100"))
	}

	if c.Repos.MaxRepos <= 0 {
		errs = append(errs, errors.New("max repos must be positive"))
	}
	if c.Repos.PerPage <= 0 || c.Repos.PerPage > 100 {
		errs = append(errs, errors.New("repository page size must be between 1 and 100"))
	}

	if c.Retry.TransientDelay < 0 || c.Retry.RateLimitPadding < 0 {
		errs = append(errs, errors.New("retry delays cannot be negative"))
	}

	if c.RateLimit.RequestsPerMinute < 0 {
		errs = append(errs, errors.New("requests per minute cannot be negative"))
	}
	if c.RateLimit.RequestsPerMinute > 0 && c.RateLimit.BurstSize <= 0 {
		errs = append(errs, errors.New("burst size must be positive"))
	}

	if c.Output.UsersFile == "" || c.Output.RepositoriesFile == "" {
		errs = append(errs, errors.New("output file names are required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}
	validFormats := map[string]bool{"console": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, errors.New("invalid log format"))
	}

	return errors.Join(errs...)
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Redacted returns a copy of the configuration with the token masked
func (c *Config) Redacted() *Config {
	cp := *c
	if cp.GitHub.Token != "" {
		cp.GitHub.Token = MaskSecret(cp.GitHub.Token)
	}
	return &cp
}

// MaskSecret masks all but the first 4 and last 4 characters of a string
func MaskSecret(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if token, ok := flags["token"].(string); ok && token != "" {
		c.GitHub.Token = token
	}
	if location, ok := flags["location"].(string); ok && location != "" {
		c.Search.Location = location
	}
	if minFollowers, ok := flags["min-followers"].(int); ok && minFollowers >= 0 {
		c.Search.MinFollowers = minFollowers
	}
	if maxRepos, ok := flags["max-repos"].(int); ok && maxRepos > 0 {
		c.Repos.MaxRepos = maxRepos
	}
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.Directory = outputDir
	}
	if skip, ok := flags["skip-missing-profiles"].(bool); ok {
		c.Search.SkipMissingProfiles = skip
	}
	if rpm, ok := flags["requests-per-minute"].(int); ok && rpm >= 0 {
		c.RateLimit.RequestsPerMinute = rpm
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	if home, err := os.UserHomeDir(); err == nil {
		_ = godotenv.Load(filepath.Join(home, ".ghscraper.env"))
	}

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
