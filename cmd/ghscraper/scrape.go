package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ghscraper/pkg/auth"
	"ghscraper/pkg/config"
	"ghscraper/pkg/logger"
	"ghscraper/pkg/retry"
	"ghscraper/pkg/scraper"
	"ghscraper/pkg/ui"
)

var (
	// Scrape command flags
	token               string
	location            string
	minFollowers        int
	maxRepos            int
	outputDir           string
	requestsPerMinute   int
	skipMissingProfiles bool
	noPrompt            bool
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Search users and fetch their repositories",
	Long: `Search GitHub users by location and follower count, then fetch each user's
repositories and write users.csv and repositories.csv.

The token is taken from, in order:
  - --token, GHSCRAPER_TOKEN or GITHUB_TOKEN (or the config file)
  - the stored token (see 'ghscraper auth login')
  - an interactive prompt`,
	Example: `  # Defaults: Sydney, at least 100 followers, 500 repositories per user
  ghscraper scrape

  # Another city, written to ./out
  ghscraper scrape --location Berlin --min-followers 500 --output ./out

  # Stay well under the hourly quota
  ghscraper scrape --requests-per-minute 60`,
	Args: cobra.NoArgs,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
	addScrapeFlags(scrapeCmd)
}

// addScrapeFlags registers the scrape flags on cmd; the root command carries
// them too so a bare invocation scrapes
func addScrapeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&token, "token", "", "GitHub token (prefer GHSCRAPER_TOKEN or 'auth login')")
	cmd.Flags().StringVarP(&location, "location", "l", "", "location to search (default Sydney)")
	cmd.Flags().IntVar(&minFollowers, "min-followers", 0, "minimum followers (default 100)")
	cmd.Flags().IntVar(&maxRepos, "max-repos", 0, "maximum repositories per user (default 500)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (default current directory)")
	cmd.Flags().IntVar(&requestsPerMinute, "requests-per-minute", 0, "client-side request pacing, 0 disables it")
	cmd.Flags().BoolVar(&skipMissingProfiles, "skip-missing-profiles", false, "skip users whose profile returns 404 instead of aborting")
	cmd.Flags().BoolVar(&noPrompt, "no-prompt", false, "never prompt for a token")
}

// scrapeFlags collects the flags the user actually set
func scrapeFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	changed := cmd.Flags().Changed

	if changed("token") {
		flags["token"] = token
	}
	if changed("location") {
		flags["location"] = location
	}
	if changed("min-followers") {
		flags["min-followers"] = minFollowers
	}
	if changed("max-repos") {
		flags["max-repos"] = maxRepos
	}
	if changed("output") {
		flags["output"] = outputDir
	}
	if changed("requests-per-minute") {
		flags["requests-per-minute"] = requestsPerMinute
	}
	if changed("skip-missing-profiles") {
		flags["skip-missing-profiles"] = skipMissingProfiles
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}
	return flags
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, scrapeFlags(cmd))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log = log.WithField("version", version)

	resolver := &auth.Resolver{}
	if manager, err := auth.NewManager(); err == nil {
		resolver.Manager = manager
	} else {
		log.WithError(err).Debug("Credential store unavailable")
	}
	if !noPrompt {
		resolver.Prompter = auth.NewPrompter()
	}

	tok, source, err := resolver.Resolve(cfg.GitHub.Token)
	if errors.Is(err, auth.ErrNoToken) {
		ui.Println("Token is required. Exiting...")
		return nil
	}
	if err != nil {
		return err
	}
	cfg.GitHub.Token = tok
	log.WithField("source", source).Debug("Using GitHub token")

	ui.PrintInfo("Query", fmt.Sprintf("location:%s followers:>=%d", cfg.Search.Location, cfg.Search.MinFollowers))

	tracker := ui.NewStatusTracker()
	s, err := scraper.New(cfg, log, scraper.WithRetryObserver(func(attempt int, state retry.State, delay time.Duration) {
		if state == retry.StateRateLimited {
			tracker.RecordRateLimit(delay)
		} else {
			tracker.RecordTransient(delay)
		}
	}))
	if err != nil {
		return fmt.Errorf("failed to initialize scraper: %w", err)
	}

	result, err := s.Run(cmd.Context())
	if err != nil {
		log.WithError(err).Error("Scrape failed")
		return err
	}

	if !result.Written {
		ui.PrintWarning("No users found matching the criteria.")
		return nil
	}

	ui.PrintSummary(tracker.Snapshot(result.Users, result.Repositories))
	return nil
}
