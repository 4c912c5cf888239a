// Package github is a minimal client for the pieces of the GitHub API the
// verification pipeline depends on: public profiles, a well-known repository's
// root files, public gists, and the contribution count GraphQL query.
//
// The client carries an outbound rate limiter and a circuit breaker so one
// wedged upstream cannot exhaust the fan-out's timeout budget, and fetches
// raw content URLs through an SSRF-guarded HTTP client because those URLs
// originate in API responses rather than our own configuration.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/doyensec/safeurl"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"mentorgate/internal/sentinel"
	"mentorgate/internal/verification/models"
	"mentorgate/pkg/circuit"
)

// maxContentBytes bounds raw file downloads; challenge codes live in small
// text files, so anything larger is truncated rather than streamed in full.
const maxContentBytes = 1 << 20

// Client talks to the GitHub REST and GraphQL APIs.
type Client struct {
	apiBase    string
	graphqlURL string
	token      string

	api     *http.Client
	raw     *http.Client
	limiter *rate.Limiter
	breaker *circuit.Breaker
	logger  *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithHTTPClient overrides the API HTTP client (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.api = hc }
}

// WithRawContentClient overrides the SSRF-guarded raw content client (tests).
func WithRawContentClient(hc *http.Client) Option {
	return func(c *Client) { c.raw = hc }
}

// WithBreaker overrides the circuit breaker (tests).
func WithBreaker(b *circuit.Breaker) Option {
	return func(c *Client) {
		if b != nil {
			c.breaker = b
		}
	}
}

// WithRateLimit sets the outbound request rate in requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), int(rps)+1)
		}
	}
}

// New creates a GitHub client. token may be empty for unauthenticated access
// (lower rate limits apply upstream).
func New(apiBase, graphqlURL, token string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}

	safeCfg := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes("https", "http").
		SetAllowedPorts(80, 443).
		Build()

	c := &Client{
		apiBase:    apiBase,
		graphqlURL: graphqlURL,
		token:      token,
		api:        &http.Client{Timeout: timeout},
		raw:        safeurl.Client(safeCfg).Client,
		limiter:    rate.NewLimiter(rate.Limit(5), 6),
		breaker:    circuit.New("github"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// User fetches a public profile. Returns sentinel.ErrNotFound for unknown handles.
func (c *Client) User(ctx context.Context, handle string) (*User, error) {
	var user User
	if err := c.getJSON(ctx, fmt.Sprintf("%s/users/%s", c.apiBase, handle), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Repository fetches repository metadata. Returns sentinel.ErrNotFound when
// the repository does not exist or is private.
func (c *Client) Repository(ctx context.Context, owner, repo string) (*Repository, error) {
	var repository Repository
	if err := c.getJSON(ctx, fmt.Sprintf("%s/repos/%s/%s", c.apiBase, owner, repo), &repository); err != nil {
		return nil, err
	}
	return &repository, nil
}

// RepositoryContents lists the root-level entries of a repository.
func (c *Client) RepositoryContents(ctx context.Context, owner, repo string) ([]ContentEntry, error) {
	var entries []ContentEntry
	if err := c.getJSON(ctx, fmt.Sprintf("%s/repos/%s/%s/contents/", c.apiBase, owner, repo), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Gists lists a user's public gists.
func (c *Client) Gists(ctx context.Context, handle string) ([]Gist, error) {
	var gists []Gist
	if err := c.getJSON(ctx, fmt.Sprintf("%s/users/%s/gists", c.apiBase, handle), &gists); err != nil {
		return nil, err
	}
	return gists, nil
}

// RawContent downloads file content from a URL taken out of an API response.
// The download is SSRF-guarded and size-bounded.
func (c *Client) RawContent(ctx context.Context, url string) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build raw content request: %w", err)
	}

	resp, err := c.raw.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch raw content: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode == http.StatusNotFound {
		return "", sentinel.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch raw content: %w: status %d", sentinel.ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxContentBytes))
	if err != nil {
		return "", fmt.Errorf("read raw content: %w", err)
	}
	return string(body), nil
}

// ContributionCount queries total contributions for the handle via GraphQL.
func (c *Client) ContributionCount(ctx context.Context, handle string) (int, error) {
	if err := c.wait(ctx); err != nil {
		return 0, err
	}
	if !c.breaker.Allow() {
		return 0, fmt.Errorf("github circuit open: %w", sentinel.ErrUnavailable)
	}

	const query = `query($login: String!) {
		user(login: $login) {
			contributionsCollection {
				contributionCalendar { totalContributions }
			}
		}
	}`

	payload, err := json.Marshal(graphQLRequest{
		Query:     query,
		Variables: map[string]any{"login": handle},
	})
	if err != nil {
		return 0, fmt.Errorf("marshal graphql query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("build graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.api.Do(req)
	if err != nil {
		c.recordFailure()
		return 0, fmt.Errorf("graphql request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		c.recordFailure()
		return 0, fmt.Errorf("graphql request: %w: status %d", sentinel.ErrUnavailable, resp.StatusCode)
	}
	c.breaker.RecordSuccess()

	var decoded contributionsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxContentBytes)).Decode(&decoded); err != nil {
		return 0, fmt.Errorf("decode graphql response: %w", err)
	}
	if len(decoded.Errors) > 0 {
		return 0, fmt.Errorf("graphql: %s: %w", decoded.Errors[0].Message, sentinel.ErrNotFound)
	}
	return decoded.Data.User.ContributionsCollection.ContributionCalendar.TotalContributions, nil
}

// Signals fetches all quantitative reputation signals for the handle.
// The REST profile and the GraphQL contribution query run concurrently.
// Signals are always fetched fresh; callers must not cache them.
func (c *Client) Signals(ctx context.Context, handle string) (models.ProfileSignals, error) {
	var (
		user          *User
		contributions int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := c.User(gctx, handle)
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	g.Go(func() error {
		n, err := c.ContributionCount(gctx, handle)
		if err != nil {
			return err
		}
		contributions = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return models.ProfileSignals{}, err
	}

	ageDays := 0
	if created, err := time.Parse(time.RFC3339, user.CreatedAt); err == nil {
		ageDays = int(time.Since(created).Hours() / 24)
	}

	return models.ProfileSignals{
		AccountAgeDays:    ageDays,
		PublicRepoCount:   user.PublicRepos,
		ContributionCount: contributions,
		FollowerCount:     user.Followers,
	}, nil
}

// getJSON performs a rate-limited, breaker-protected GET and decodes the body.
func (c *Client) getJSON(ctx context.Context, url string, dst any) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	if !c.breaker.Allow() {
		return fmt.Errorf("github circuit open: %w", sentinel.ErrUnavailable)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	c.authorize(req)

	resp, err := c.api.Do(req)
	if err != nil {
		c.recordFailure()
		return fmt.Errorf("github request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusNotFound:
		c.breaker.RecordSuccess()
		return sentinel.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		c.recordFailure()
		return fmt.Errorf("github request: %w: status %d", sentinel.ErrUnavailable, resp.StatusCode)
	}
	c.breaker.RecordSuccess()

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxContentBytes)).Decode(dst); err != nil {
		return fmt.Errorf("decode github response: %w", err)
	}
	return nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func (c *Client) recordFailure() {
	if opened, change := c.breaker.RecordFailure(); opened && change.Opened && c.logger != nil {
		c.logger.Warn("github circuit opened", "breaker", c.breaker.Name())
	}
}
