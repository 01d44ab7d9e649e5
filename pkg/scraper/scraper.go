package scraper

import (
	"context"
	"fmt"
	"time"

	"ghscraper/pkg/config"
	"ghscraper/pkg/github"
	"ghscraper/pkg/logger"
	"ghscraper/pkg/models"
	"ghscraper/pkg/ratelimit"
	"ghscraper/pkg/retry"
	"ghscraper/pkg/storage"
)

// Scraper orchestrates user search, repository listing and CSV output
type Scraper struct {
	client  GitHubClient
	storage TableWriter
	config  *config.Config
	logger  logger.Logger
	clock   retry.Clock
	onRetry func(attempt int, state retry.State, delay time.Duration)
}

// Result summarises a completed run
type Result struct {
	Users        int
	Repositories int
	// Written is false when the search found nobody and no files were saved
	Written bool
}

// Option configures a Scraper
type Option func(*Scraper)

// WithClient replaces the GitHub client
func WithClient(client GitHubClient) Option {
	return func(s *Scraper) {
		s.client = client
	}
}

// WithStorage replaces the table writer
func WithStorage(w TableWriter) Option {
	return func(s *Scraper) {
		s.storage = w
	}
}

// WithClock makes the default GitHub client sleep on clock
func WithClock(clock retry.Clock) Option {
	return func(s *Scraper) {
		s.clock = clock
	}
}

// WithRetryObserver is called before every retry sleep of the default
// GitHub client
func WithRetryObserver(fn func(attempt int, state retry.State, delay time.Duration)) Option {
	return func(s *Scraper) {
		s.onRetry = fn
	}
}

// New creates a Scraper from cfg. Components not supplied through options
// are built from the configuration.
func New(cfg *config.Config, log logger.Logger, opts ...Option) (*Scraper, error) {
	s := &Scraper{
		config: cfg,
		logger: logger.OrNop(log),
		clock:  retry.SystemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		s.client = s.newGitHubClient()
	}

	if s.storage == nil {
		manager, err := storage.NewManager(cfg.Output.Directory, s.logger)
		if err != nil {
			s.logger.WithError(err).Error("Failed to create storage manager")
			return nil, fmt.Errorf("failed to create storage manager: %w", err)
		}
		s.storage = manager
	}

	return s, nil
}

func (s *Scraper) newGitHubClient() *github.Client {
	cfg, log := s.config, s.logger
	retryCfg := &retry.Config{
		Clock:            s.clock,
		TransientDelay:   cfg.Retry.TransientDelay,
		RateLimitPadding: cfg.Retry.RateLimitPadding,
		OnRetry:          s.onRetry,
		Logger:           log,
	}
	opts := []github.Option{github.WithRetryConfig(retryCfg)}

	if cfg.RateLimit.RequestsPerMinute > 0 {
		opts = append(opts, github.WithLimiter(ratelimit.New(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.BurstSize)))
		log.DebugWithFields("Client-side pacing enabled", map[string]interface{}{
			"requests_per_minute": cfg.RateLimit.RequestsPerMinute,
			"burst":               cfg.RateLimit.BurstSize,
		})
	}

	return github.NewClient(&cfg.GitHub, log, opts...)
}

// Run performs a full scrape with the configured query and writes the users
// and repositories tables
func (s *Scraper) Run(ctx context.Context) (*Result, error) {
	query := models.SearchQuery{
		Location:     s.config.Search.Location,
		MinFollowers: s.config.Search.MinFollowers,
	}

	s.logger.InfoWithFields("Starting scrape", map[string]interface{}{
		"location":      query.Location,
		"min_followers": query.MinFollowers,
		"max_repos":     s.config.Repos.MaxRepos,
	})

	users, err := s.SearchUsers(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("user search failed: %w", err)
	}

	if len(users) == 0 {
		s.logger.Warn("No users found matching the criteria.")
		return &Result{}, nil
	}

	if err := s.storage.Save(s.config.Output.UsersFile, models.UserTable(users)); err != nil {
		return nil, fmt.Errorf("failed to save users: %w", err)
	}

	var repos []models.RepositoryRecord
	for _, user := range users {
		userRepos, err := s.GetUserRepositories(ctx, user.Login, s.config.Repos.MaxRepos)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch repositories for %s: %w", user.Login, err)
		}
		repos = append(repos, userRepos...)
	}

	if err := s.storage.Save(s.config.Output.RepositoriesFile, models.RepositoryTable(repos)); err != nil {
		return nil, fmt.Errorf("failed to save repositories: %w", err)
	}

	s.logger.InfoWithFields(fmt.Sprintf("Scraped %d users and %d repositories", len(users), len(repos)), map[string]interface{}{
		"users":        len(users),
		"repositories": len(repos),
	})

	return &Result{
		Users:        len(users),
		Repositories: len(repos),
		Written:      true,
	}, nil
}
