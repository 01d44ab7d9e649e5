package scraper

import (
	"context"
	"fmt"

	"ghscraper/pkg/github"
	"ghscraper/pkg/models"
)

// GetUserRepositories returns up to maxRepos of username's repositories,
// most recently pushed first. Paging stops at the cap, on an empty page or
// on a short page.
func (s *Scraper) GetUserRepositories(ctx context.Context, username string, maxRepos int) ([]models.RepositoryRecord, error) {
	perPage := s.config.Repos.PerPage
	if perPage <= 0 || perPage > github.MaxPerPage {
		perPage = github.MaxPerPage
	}

	var repos []models.RepositoryRecord
	for page := 1; len(repos) < maxRepos; page++ {
		raws, err := s.client.FetchUserReposPage(ctx, username, page, perPage)
		if err != nil {
			return nil, fmt.Errorf("repositories page %d: %w", page, err)
		}
		if len(raws) == 0 {
			break
		}

		for _, raw := range raws {
			repo, err := models.ExtractRepository(username, raw)
			if err != nil {
				return nil, fmt.Errorf("extract repository of %s: %w", username, err)
			}
			repos = append(repos, repo)
		}

		if len(raws) < perPage {
			break
		}
	}

	if len(repos) > maxRepos {
		repos = repos[:maxRepos]
	}

	s.logger.DebugWithFields("Fetched repositories", map[string]interface{}{
		"login":        username,
		"repositories": len(repos),
	})
	return repos, nil
}
