package scraper

import (
	"context"
	"encoding/json"

	"ghscraper/pkg/github"
	"ghscraper/pkg/models"
)

// GitHubClient defines the GitHub API operations the scraper needs
type GitHubClient interface {
	FetchSearchPage(ctx context.Context, query string, page, perPage int) (*github.SearchResponse, error)
	FetchUser(ctx context.Context, login string) (json.RawMessage, error)
	FetchUserReposPage(ctx context.Context, login string, page, perPage int) ([]json.RawMessage, error)
}

// TableWriter persists a table under a file name
type TableWriter interface {
	Save(filename string, table models.Table) error
}
