// Package scraper collects GitHub users matching a location and follower
// filter together with their repositories, and writes both as CSV tables.
//
// A run has two phases. SearchUsers pages through search/users until an
// empty page and fetches every hit's full profile. GetUserRepositories
// then pages through each user's repositories, most recently pushed first,
// up to a per-user cap. Requests are strictly sequential; all waiting on
// rate limits happens inside the GitHub client.
//
// Usage:
//
//	s, err := scraper.New(cfg, log)
//	if err != nil {
//	    return err
//	}
//	result, err := s.Run(ctx)
//
// If the search finds nobody, Run logs a warning and writes no files. A
// users file already written stays on disk when the repository phase
// fails.
package scraper
