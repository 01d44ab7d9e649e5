package github

// SearchResponse is one page of search/users
type SearchResponse struct {
	TotalCount        int          `json:"total_count"`
	IncompleteResults bool         `json:"incomplete_results"`
	Items             []SearchItem `json:"items"`
}

// SearchItem is a user hit in a search page. Only the login is used; the
// full profile is fetched separately.
type SearchItem struct {
	Login string `json:"login"`
}
