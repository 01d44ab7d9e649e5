package scraper

import (
	"context"
	"fmt"
	"net/http"

	"ghscraper/pkg/errors"
	"ghscraper/pkg/github"
	"ghscraper/pkg/models"
)

// SearchUsers returns the full profile of every user matching query, in
// search order. Pages are requested until one comes back empty.
func (s *Scraper) SearchUsers(ctx context.Context, query models.SearchQuery) ([]models.UserRecord, error) {
	q := github.SearchQuery(query.Location, query.MinFollowers)
	perPage := s.config.Search.PerPage

	var users []models.UserRecord
	for page := 1; ; page++ {
		resp, err := s.client.FetchSearchPage(ctx, q, page, perPage)
		if err != nil {
			return nil, fmt.Errorf("search page %d: %w", page, err)
		}
		if len(resp.Items) == 0 {
			break
		}

		for _, item := range resp.Items {
			user, ok, err := s.fetchUser(ctx, item.Login)
			if err != nil {
				return nil, err
			}
			if ok {
				users = append(users, user)
			}
		}
	}

	s.logger.InfoWithFields(fmt.Sprintf("Found %d users", len(users)), map[string]interface{}{
		"query": q,
		"users": len(users),
	})
	return users, nil
}

// fetchUser fetches and extracts one profile. ok is false when the profile
// is skipped.
func (s *Scraper) fetchUser(ctx context.Context, login string) (models.UserRecord, bool, error) {
	raw, err := s.client.FetchUser(ctx, login)
	if err != nil {
		if s.config.Search.SkipMissingProfiles && errors.IsStatus(err, http.StatusNotFound) {
			s.logger.WarnWithFields("Profile not found, skipping", map[string]interface{}{
				"login": login,
			})
			return models.UserRecord{}, false, nil
		}
		return models.UserRecord{}, false, fmt.Errorf("fetch profile %s: %w", login, err)
	}

	if raw == nil {
		s.logger.DebugWithFields("Empty profile, skipping", map[string]interface{}{
			"login": login,
		})
		return models.UserRecord{}, false, nil
	}

	user, err := models.ExtractUser(raw)
	if err != nil {
		return models.UserRecord{}, false, fmt.Errorf("extract profile %s: %w", login, err)
	}
	return user, true, nil
}
