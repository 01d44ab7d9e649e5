package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ghscraper/pkg/config"
	"ghscraper/pkg/errors"
	"ghscraper/pkg/github"
	"ghscraper/pkg/logger"
	"ghscraper/pkg/models"
	"ghscraper/pkg/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient serves canned pages and counts calls
type fakeClient struct {
	searchPages  map[int][]string
	profiles     map[string]string
	reposPerPage func(login string, page int) int

	searchCalls int
	userCalls   int
	repoCalls   int
}

func (f *fakeClient) FetchSearchPage(ctx context.Context, query string, page, perPage int) (*github.SearchResponse, error) {
	f.searchCalls++
	resp := &github.SearchResponse{}
	for _, login := range f.searchPages[page] {
		resp.Items = append(resp.Items, github.SearchItem{Login: login})
	}
	return resp, nil
}

func (f *fakeClient) FetchUser(ctx context.Context, login string) (json.RawMessage, error) {
	f.userCalls++
	if body, ok := f.profiles[login]; ok {
		if body == "null" {
			return nil, nil
		}
		return json.RawMessage(body), nil
	}
	if f.profiles != nil {
		return nil, errors.NewStatusError(http.StatusNotFound, "users/"+login)
	}
	return json.RawMessage(fmt.Sprintf(`{"login":%q}`, login)), nil
}

func (f *fakeClient) FetchUserReposPage(ctx context.Context, login string, page, perPage int) ([]json.RawMessage, error) {
	f.repoCalls++
	n := 0
	if f.reposPerPage != nil {
		n = f.reposPerPage(login, page)
	}
	out := make([]json.RawMessage, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, json.RawMessage(fmt.Sprintf(
			`{"full_name":"%s/repo-%d-%d","created_at":"2020-01-01T00:00:00Z","stargazers_count":%d,"watchers_count":%d,"language":null,"license":null}`,
			login, page, i, i, i)))
	}
	return out, nil
}

// memoryWriter keeps saved tables in memory
type memoryWriter struct {
	mu     sync.Mutex
	tables map[string]models.Table
}

func (m *memoryWriter) Save(filename string, table models.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tables == nil {
		m.tables = make(map[string]models.Table)
	}
	m.tables[filename] = table
	return nil
}

func logins(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return out
}

func newTestScraper(t *testing.T, client GitHubClient, mutate func(*config.Config)) (*Scraper, *memoryWriter, *logger.TestLogger) {
	t.Helper()
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	w := &memoryWriter{}
	log := logger.NewTestLogger()
	s, err := New(cfg, log, WithClient(client), WithStorage(w))
	require.NoError(t, err)
	return s, w, log
}

func TestSearchUsersPaginatesUntilEmptyPage(t *testing.T) {
	client := &fakeClient{searchPages: map[int][]string{
		1: logins("a", 100),
		2: logins("b", 100),
	}}
	s, _, log := newTestScraper(t, client, nil)

	users, err := s.SearchUsers(context.Background(), models.SearchQuery{Location: "Sydney", MinFollowers: 100})
	require.NoError(t, err)

	assert.Len(t, users, 200)
	assert.Equal(t, 3, client.searchCalls)
	assert.Equal(t, 200, client.userCalls)
	assert.Equal(t, "a0", users[0].Login)
	assert.Equal(t, "b99", users[199].Login)
	assert.True(t, log.HasMessage("Found 200 users"))
}

func TestSearchUsersKeepsDuplicates(t *testing.T) {
	client := &fakeClient{searchPages: map[int][]string{
		1: {"dup"},
		2: {"dup"},
	}}
	s, _, _ := newTestScraper(t, client, nil)

	users, err := s.SearchUsers(context.Background(), models.SearchQuery{Location: "Sydney"})
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestSearchUsersSkipsNullProfile(t *testing.T) {
	client := &fakeClient{
		searchPages: map[int][]string{1: {"alice", "ghost", "bob"}},
		profiles: map[string]string{
			"alice": `{"login":"alice","company":" @Acme "}`,
			"ghost": `null`,
			"bob":   `{"login":"bob"}`,
		},
	}
	s, _, _ := newTestScraper(t, client, nil)

	users, err := s.SearchUsers(context.Background(), models.SearchQuery{})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "ACME", users[0].Company)
	assert.Equal(t, "bob", users[1].Login)
}

func TestSearchUsersMissingProfile(t *testing.T) {
	newClient := func() *fakeClient {
		return &fakeClient{
			searchPages: map[int][]string{1: {"alice", "gone"}},
			profiles:    map[string]string{"alice": `{"login":"alice"}`},
		}
	}

	t.Run("aborts by default", func(t *testing.T) {
		s, _, _ := newTestScraper(t, newClient(), nil)

		_, err := s.SearchUsers(context.Background(), models.SearchQuery{})
		require.Error(t, err)
		assert.True(t, errors.IsStatus(err, http.StatusNotFound))
	})

	t.Run("skipped when enabled", func(t *testing.T) {
		s, _, log := newTestScraper(t, newClient(), func(c *config.Config) {
			c.Search.SkipMissingProfiles = true
		})

		users, err := s.SearchUsers(context.Background(), models.SearchQuery{})
		require.NoError(t, err)
		assert.Len(t, users, 1)
		assert.True(t, log.HasMessage("Profile not found"))
	})
}

func TestSearchUsersExtractionErrorIsFatal(t *testing.T) {
	client := &fakeClient{
		searchPages: map[int][]string{1: {"broken"}},
		profiles:    map[string]string{"broken": `{"name":"no login"}`},
	}
	s, _, _ := newTestScraper(t, client, nil)

	_, err := s.SearchUsers(context.Background(), models.SearchQuery{})
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeExtraction, errors.TypeOf(err))
}

func TestGetUserRepositoriesTruncates(t *testing.T) {
	client := &fakeClient{reposPerPage: func(string, int) int { return 100 }}
	s, _, _ := newTestScraper(t, client, nil)

	repos, err := s.GetUserRepositories(context.Background(), "octocat", 150)
	require.NoError(t, err)

	assert.Len(t, repos, 150)
	assert.Equal(t, 2, client.repoCalls)
	for _, r := range repos {
		assert.Equal(t, "octocat", r.Login)
	}
	assert.Equal(t, "octocat/repo-2-49", repos[149].FullName)
}

func TestGetUserRepositoriesStopsOnShortPage(t *testing.T) {
	client := &fakeClient{reposPerPage: func(string, int) int { return 30 }}
	s, _, _ := newTestScraper(t, client, nil)

	repos, err := s.GetUserRepositories(context.Background(), "octocat", 500)
	require.NoError(t, err)

	assert.Len(t, repos, 30)
	assert.Equal(t, 1, client.repoCalls)
}

func TestGetUserRepositoriesStopsOnEmptyPage(t *testing.T) {
	client := &fakeClient{reposPerPage: func(_ string, page int) int {
		if page == 1 {
			return 100
		}
		return 0
	}}
	s, _, _ := newTestScraper(t, client, nil)

	repos, err := s.GetUserRepositories(context.Background(), "octocat", 500)
	require.NoError(t, err)

	assert.Len(t, repos, 100)
	assert.Equal(t, 2, client.repoCalls)
}

func TestGetUserRepositoriesExactMultiple(t *testing.T) {
	client := &fakeClient{reposPerPage: func(string, int) int { return 100 }}
	s, _, _ := newTestScraper(t, client, nil)

	repos, err := s.GetUserRepositories(context.Background(), "octocat", 500)
	require.NoError(t, err)

	assert.Len(t, repos, 500)
	assert.Equal(t, 5, client.repoCalls)
}

func TestRunNoUsersWritesNothing(t *testing.T) {
	client := &fakeClient{}
	s, w, log := newTestScraper(t, client, nil)

	result, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, result.Written)
	assert.Empty(t, w.tables)
	assert.Equal(t, 0, client.repoCalls)
	assert.True(t, log.HasMessage("No users found matching the criteria."))
}

func TestRunWritesBothTables(t *testing.T) {
	client := &fakeClient{
		searchPages:  map[int][]string{1: {"alice", "bob"}},
		reposPerPage: func(login string, _ int) int { return len(login) },
	}
	s, w, log := newTestScraper(t, client, nil)

	result, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, &Result{Users: 2, Repositories: 8, Written: true}, result)
	require.Contains(t, w.tables, "users.csv")
	require.Contains(t, w.tables, "repositories.csv")
	assert.Len(t, w.tables["users.csv"].Rows(), 2)

	repoRows := w.tables["repositories.csv"].Rows()
	require.Len(t, repoRows, 8)
	userLogins := map[string]bool{"alice": true, "bob": true}
	for _, row := range repoRows {
		assert.True(t, userLogins[row[0]], "repository owner %s has no user row", row[0])
	}
	assert.True(t, log.HasMessage("Scraped 2 users and 8 repositories"))
}

// githubServer fakes the three GitHub endpoints over HTTP
type githubServer struct {
	*httptest.Server
	calls         int32
	rateLimitOnce int32
}

func newGitHubServer(t *testing.T, now time.Time) *githubServer {
	g := &githubServer{}
	mux := http.NewServeMux()

	mux.HandleFunc("/search/users", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&g.calls, 1)
		if r.URL.Query().Get("page") != "1" {
			fmt.Fprint(w, `{"total_count":2,"items":[]}`)
			return
		}
		fmt.Fprint(w, `{"total_count":2,"items":[{"login":"alice"},{"login":"bob"}]}`)
	})
	mux.HandleFunc("/users/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&g.calls, 1)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		login := parts[1]

		if len(parts) == 3 && parts[2] == "repos" {
			// First repository request is rate limited
			if atomic.CompareAndSwapInt32(&g.rateLimitOnce, 0, 1) {
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(now.Add(5*time.Second).Unix(), 10))
				w.WriteHeader(http.StatusForbidden)
				return
			}
			fmt.Fprintf(w, `[{"full_name":"%s/one","created_at":"2021-05-01T00:00:00Z","stargazers_count":3,"watchers_count":3,"language":"Go","has_wiki":true,"license":{"key":"mit"}}]`, login)
			return
		}

		fmt.Fprintf(w, `{"login":%q,"company":"@Widgets","followers":150,"hireable":null}`, login)
	})

	g.Server = httptest.NewServer(mux)
	t.Cleanup(g.Close)
	return g
}

func TestRunEndToEnd(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	srv := newGitHubServer(t, now)
	clock := retry.NewFakeClock(now)
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.GitHub.Token = "secret"
	cfg.GitHub.BaseURL = srv.URL
	cfg.Output.Directory = dir

	var retried []retry.State
	s, err := New(cfg, logger.NewTestLogger(), WithClock(clock),
		WithRetryObserver(func(attempt int, state retry.State, delay time.Duration) {
			retried = append(retried, state)
		}))
	require.NoError(t, err)

	result, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []retry.State{retry.StateRateLimited}, retried)
	assert.Equal(t, 2, result.Users)
	assert.Equal(t, 2, result.Repositories)

	// search x2, profile x2, repos x2 plus one rate-limited retry
	assert.Equal(t, int32(7), atomic.LoadInt32(&srv.calls))
	require.Len(t, clock.Sleeps(), 1)
	assert.Equal(t, 6*time.Second, clock.Sleeps()[0])

	users, err := os.ReadFile(filepath.Join(dir, "users.csv"))
	require.NoError(t, err)
	assert.Equal(t,
		"login,name,company,location,email,hireable,bio,public_repos,followers,following,created_at\n"+
			"alice,,WIDGETS,,,false,,0,150,0,\n"+
			"bob,,WIDGETS,,,false,,0,150,0,\n",
		string(users))

	repos, err := os.ReadFile(filepath.Join(dir, "repositories.csv"))
	require.NoError(t, err)
	assert.Equal(t,
		"login,full_name,created_at,stargazers_count,watchers_count,language,has_projects,has_wiki,license_name\n"+
			"alice,alice/one,2021-05-01T00:00:00Z,3,3,Go,false,true,mit\n"+
			"bob,bob/one,2021-05-01T00:00:00Z,3,3,Go,false,true,mit\n",
		string(repos))
}

func TestRunRepositoryFailureKeepsUsersFile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/users", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			fmt.Fprint(w, `{"items":[{"login":"alice"}]}`)
			return
		}
		fmt.Fprint(w, `{"items":[]}`)
	})
	mux.HandleFunc("/users/alice", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"login":"alice"}`)
	})
	mux.HandleFunc("/users/alice/repos", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.GitHub.BaseURL = srv.URL
	cfg.Output.Directory = dir

	s, err := New(cfg, nil, WithClock(retry.NewFakeClock(time.Now())))
	require.NoError(t, err)

	_, err = s.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsStatus(err, http.StatusBadGateway))

	assert.FileExists(t, filepath.Join(dir, "users.csv"))
	assert.NoFileExists(t, filepath.Join(dir, "repositories.csv"))
}
