package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ghscraper/pkg/config"
	"ghscraper/pkg/errors"
	"ghscraper/pkg/logger"
	"ghscraper/pkg/ratelimit"
	"ghscraper/pkg/retry"
)

// Version is reported in the User-Agent header. Overridden at build time.
var Version = "dev"

// Client represents a GitHub REST API client
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	logger     logger.Logger
	retrier    *retry.Retrier
	limiter    ratelimit.Limiter
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRetryConfig replaces the retry delays and clock
func WithRetryConfig(cfg *retry.Config) Option {
	return func(c *Client) {
		c.retrier = retry.NewRetrier(cfg)
	}
}

// WithLimiter paces every attempt through l
func WithLimiter(l ratelimit.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// NewClient creates a new GitHub API client
func NewClient(cfg *config.GitHubConfig, log logger.Logger, opts ...Option) *Client {
	log = logger.OrNop(log)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = BaseURL
	}
	accept := cfg.Accept
	if accept == "" {
		accept = "application/vnd.github.v3+json"
	}

	retryCfg := retry.DefaultConfig()
	retryCfg.Logger = log

	c := &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{
			"Authorization": "Bearer " + cfg.Token,
			"Accept":        accept,
			"User-Agent":    userAgent(cfg.UserAgent),
		},
		baseURL: baseURL,
		logger:  log,
		retrier: retry.NewRetrier(retryCfg),
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

func userAgent(ua string) string {
	if ua == "" {
		ua = "ghscraper"
	}
	if strings.Contains(ua, "/") {
		return ua
	}
	return ua + "/" + Version
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// Get performs a GET on endpoint with params and decodes a 200 body into
// target. Rate limits and transport failures are retried until they clear
// or ctx is cancelled; any other status is returned as a fatal error.
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values, target interface{}) error {
	reqURL := BuildURL(c.baseURL, endpoint, params)

	return c.retrier.Do(ctx, func(ctx context.Context) error {
		return c.attempt(ctx, reqURL, params, target)
	})
}

// attempt performs a single request and maps its outcome to an error whose
// type drives the retry state machine
func (c *Client) attempt(ctx context.Context, reqURL string, params url.Values, target interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &errors.Error{
			Type:    errors.ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to create request: %v", err),
			Err:     err,
		}
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.DebugWithFields("HTTP request failed", map[string]interface{}{
			"url":      reqURL,
			"error":    err.Error(),
			"duration": duration,
		})
		return errors.NewNetworkError(err)
	}
	defer resp.Body.Close()

	c.logger.InfoWithFields("GitHub request", map[string]interface{}{
		"url":      reqURL,
		"params":   params.Encode(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusForbidden:
		return errors.NewRateLimitError(parseReset(resp.Header.Get("X-RateLimit-Reset")))
	default:
		c.logger.ErrorWithFields("unexpected API status", map[string]interface{}{
			"url":    reqURL,
			"status": resp.StatusCode,
		})
		return errors.NewStatusError(resp.StatusCode, reqURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return errors.NewNetworkError(fmt.Errorf("failed to read response body: %w", err))
	}

	if err := json.Unmarshal(body, target); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          reqURL,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return errors.NewParsingError(err)
	}

	return nil
}

// parseReset converts an X-RateLimit-Reset header (unix seconds) to a time.
// Missing or unparsable values give the zero time.
func parseReset(header string) time.Time {
	secs, err := strconv.ParseInt(strings.TrimSpace(header), 10, 64)
	if err != nil || secs <= 0 {
		return time.Time{}
	}
	return time.Unix(secs, 0)
}

// FetchSearchPage fetches one page of users matching query
func (c *Client) FetchSearchPage(ctx context.Context, query string, page, perPage int) (*SearchResponse, error) {
	var response SearchResponse
	if err := c.Get(ctx, SearchUsersEndpoint, SearchParams(query, page, perPage), &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// FetchUser fetches the raw profile of login. A JSON null body yields a nil
// message and no error.
func (c *Client) FetchUser(ctx context.Context, login string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.Get(ctx, UserEndpoint(login), nil, &raw); err != nil {
		return nil, err
	}
	if isNull(raw) {
		return nil, nil
	}
	return raw, nil
}

// FetchUserReposPage fetches one page of login's repositories as raw objects
func (c *Client) FetchUserReposPage(ctx context.Context, login string, page, perPage int) ([]json.RawMessage, error) {
	var repos []json.RawMessage
	if err := c.Get(ctx, UserReposEndpoint(login), ReposParams(page, perPage), &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
