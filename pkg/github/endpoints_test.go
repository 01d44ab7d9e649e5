package github

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchQuery(t *testing.T) {
	assert.Equal(t, "location:Sydney followers:>=100", SearchQuery("Sydney", 100))
	assert.Equal(t, "location:Berlin followers:>=0", SearchQuery("Berlin", 0))
}

func TestUserEndpoints(t *testing.T) {
	assert.Equal(t, "users/octocat", UserEndpoint("octocat"))
	assert.Equal(t, "users/octocat/repos", UserReposEndpoint("octocat"))
	assert.Equal(t, "users/a%2Fb", UserEndpoint("a/b"))
}

func TestSearchParams(t *testing.T) {
	params := SearchParams("location:Sydney followers:>=100", 1, 100)

	assert.Equal(t, "location:Sydney followers:>=100", params.Get("q"))
	assert.Equal(t, "1", params.Get("page"))
	assert.Equal(t, "100", params.Get("per_page"))
}

func TestPerPageIsClamped(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "100"},
		{-5, "100"},
		{250, "100"},
		{30, "30"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ReposParams(1, tt.in).Get("per_page"), "perPage=%d", tt.in)
	}
}

func TestBuildURL(t *testing.T) {
	assert.Equal(t, "https://api.github.com/search/users", BuildURL("https://api.github.com/", "/search/users", nil))
	assert.Equal(t,
		"http://localhost:8080/users/x/repos?page=2",
		BuildURL("http://localhost:8080", "users/x/repos", map[string][]string{"page": {"2"}}),
	)
}
