// Package github is a small client for the parts of the GitHub REST API
// the scraper needs: user search, user profiles and a user's repositories.
//
// Every request goes through Client.Get, which sets the auth and media-type
// headers and runs the attempt inside the retry state machine from
// pkg/retry. A 403 is treated as a rate limit and waited out until the
// advertised reset; transport failures are retried on a fixed delay. Both
// loops are unbounded. Any other non-200 status is returned as a fatal
// *errors.Error.
//
// Example usage:
//
//	client := github.NewClient(&cfg.GitHub, log)
//
//	page, err := client.FetchSearchPage(ctx, "location:Sydney followers:>=100", 1, 100)
//	if err != nil {
//	    return err
//	}
//	for _, item := range page.Items {
//	    raw, err := client.FetchUser(ctx, item.Login)
//	    // raw is nil when GitHub answered with JSON null
//	}
package github
