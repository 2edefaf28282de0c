package gh

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v71/github"
	"golang.org/x/oauth2"
)

const perPage = 100

// Client is a thin GitHub client scoped to the calls missionci makes.
type Client struct {
	api *github.Client
	// download follows asset redirects; presigned storage URLs must not
	// carry the token.
	download *http.Client
	logger   *slog.Logger
}

// Option configures the Client during construction.
type Option func(*clientConfig) error

type clientConfig struct {
	httpClient *http.Client
	logger     *slog.Logger
	timeout    time.Duration
	baseURL    string
}

// New creates a Client authenticating with token. An empty token yields an
// anonymous client.
func New(token string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	base := cfg.httpClient
	if base == nil {
		base = &http.Client{}
	}
	httpClient := &http.Client{
		Transport:     base.Transport,
		CheckRedirect: base.CheckRedirect,
		Jar:           base.Jar,
		Timeout:       base.Timeout,
	}
	if token != "" {
		httpClient.Transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   base.Transport,
		}
	}
	if cfg.timeout > 0 {
		httpClient.Timeout = cfg.timeout
	}

	api := github.NewClient(httpClient)
	if cfg.baseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(cfg.baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("gh: parse base URL: %w", err)
		}
		api.BaseURL = u
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	download := &http.Client{Transport: base.Transport, Timeout: httpClient.Timeout}
	return &Client{api: api, download: download, logger: logger}, nil
}

// WithHTTPClient overrides the underlying HTTP client. The token transport
// wraps its Transport.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *clientConfig) error {
		cfg.httpClient = c
		return nil
	}
}

// WithLogger configures structured logging.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *clientConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithTimeout sets a timeout on the HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(cfg *clientConfig) error {
		cfg.timeout = d
		return nil
	}
}

// WithBaseURL points the client at a different API root, e.g. GitHub
// Enterprise or a test server.
func WithBaseURL(u string) Option {
	return func(cfg *clientConfig) error {
		if u == "" {
			return errors.New("gh: base URL must not be empty")
		}
		cfg.baseURL = u
		return nil
	}
}

// CompareFiles returns the files changed between base and head.
func (c *Client) CompareFiles(ctx context.Context, owner, repo, base, head string) ([]*github.CommitFile, error) {
	const op = "compare commits"
	c.logger.InfoContext(ctx, "API request", "operation", op, "base", base, "head", head)

	var files []*github.CommitFile
	opts := &github.ListOptions{PerPage: perPage}
	for {
		cmp, resp, err := c.api.Repositories.CompareCommits(ctx, owner, repo, base, head, opts)
		if err != nil {
			return nil, wrap(op, err)
		}
		files = append(files, cmp.Files...)
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return files, nil
}

// ListReviews returns every review on a pull request, oldest first.
func (c *Client) ListReviews(ctx context.Context, owner, repo string, number int) ([]*github.PullRequestReview, error) {
	const op = "list reviews"
	c.logger.InfoContext(ctx, "API request", "operation", op, "pull_number", number)

	var all []*github.PullRequestReview
	opts := &github.ListOptions{PerPage: perPage}
	for {
		page, resp, err := c.api.PullRequests.ListReviews(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, wrap(op, err)
		}
		all = append(all, page...)
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// CreateReview submits a review on a pull request.
func (c *Client) CreateReview(ctx context.Context, owner, repo string, number int, req *github.PullRequestReviewRequest) (*github.PullRequestReview, error) {
	const op = "create review"
	c.logger.InfoContext(ctx, "API request", "operation", op, "pull_number", number, "event", req.GetEvent())

	rev, _, err := c.api.PullRequests.CreateReview(ctx, owner, repo, number, req)
	if err != nil {
		return nil, wrap(op, err)
	}
	return rev, nil
}

// ListReleases returns the first page of releases, newest first.
func (c *Client) ListReleases(ctx context.Context, owner, repo string) ([]*github.RepositoryRelease, error) {
	const op = "list releases"
	c.logger.InfoContext(ctx, "API request", "operation", op, "repo", owner+"/"+repo)

	releases, _, err := c.api.Repositories.ListReleases(ctx, owner, repo, &github.ListOptions{PerPage: perPage})
	if err != nil {
		return nil, wrap(op, err)
	}
	return releases, nil
}

// DownloadReleaseAsset streams a release asset. The caller closes the reader.
func (c *Client) DownloadReleaseAsset(ctx context.Context, owner, repo string, id int64) (io.ReadCloser, error) {
	const op = "download release asset"
	c.logger.InfoContext(ctx, "API request", "operation", op, "asset_id", id)

	rc, _, err := c.api.Repositories.DownloadReleaseAsset(ctx, owner, repo, id, c.download)
	if err != nil {
		return nil, wrap(op, err)
	}
	if rc == nil {
		return nil, fmt.Errorf("%s: empty response", op)
	}
	return rc, nil
}
