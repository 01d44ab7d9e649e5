package github

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// BaseURL is the public GitHub REST API
	BaseURL = "https://api.github.com"

	// SearchUsersEndpoint is the user search endpoint
	SearchUsersEndpoint = "search/users"

	// MaxPerPage is the largest page size GitHub accepts
	MaxPerPage = 100
)

// UserEndpoint returns the profile endpoint for login
func UserEndpoint(login string) string {
	return "users/" + url.PathEscape(login)
}

// UserReposEndpoint returns the repository listing endpoint for login
func UserReposEndpoint(login string) string {
	return UserEndpoint(login) + "/repos"
}

// SearchQuery renders the search filter GitHub expects in the q parameter
func SearchQuery(location string, minFollowers int) string {
	return fmt.Sprintf("location:%s followers:>=%d", location, minFollowers)
}

// SearchParams builds the query parameters for one page of user search
func SearchParams(query string, page, perPage int) url.Values {
	params := url.Values{}
	params.Set("q", query)
	params.Set("per_page", strconv.Itoa(clampPerPage(perPage)))
	params.Set("page", strconv.Itoa(page))
	return params
}

// ReposParams builds the query parameters for one page of a repository
// listing, most recently pushed first
func ReposParams(page, perPage int) url.Values {
	params := url.Values{}
	params.Set("sort", "pushed")
	params.Set("direction", "desc")
	params.Set("per_page", strconv.Itoa(clampPerPage(perPage)))
	params.Set("page", strconv.Itoa(page))
	return params
}

// BuildURL joins base, endpoint and params
func BuildURL(base, endpoint string, params url.Values) string {
	u := strings.TrimRight(base, "/") + "/" + strings.TrimLeft(endpoint, "/")
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

func clampPerPage(perPage int) int {
	if perPage <= 0 || perPage > MaxPerPage {
		return MaxPerPage
	}
	return perPage
}
