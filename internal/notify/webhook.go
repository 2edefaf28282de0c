// Package notify announces unattended approvals to a chat webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"missionci/internal/review"
)

// Payload is the JSON body posted to the webhook.
type Payload struct {
	Content     string `json:"content"`
	Repository  string `json:"repository"`
	PullRequest int    `json:"pull_request"`
	URL         string `json:"url"`
}

// Webhook posts approval notices. A Webhook with an empty URL does nothing.
type Webhook struct {
	url        string
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

// Option configures a Webhook.
type Option func(*Webhook)

// WithHTTPClient sets the HTTP client used for posting.
func WithHTTPClient(c *http.Client) Option {
	return func(w *Webhook) { w.httpClient = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Webhook) { w.logger = l }
}

// WithTimeout sets the request timeout. It applies to the client chosen by
// WithHTTPClient regardless of option order.
func WithTimeout(d time.Duration) Option {
	return func(w *Webhook) { w.timeout = d }
}

// NewWebhook returns a notifier posting to url.
func NewWebhook(url string, opts ...Option) *Webhook {
	w := &Webhook{
		url:        url,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default(),
	}
	for _, o := range opts {
		o(w)
	}
	if w.timeout > 0 {
		c := *w.httpClient
		c.Timeout = w.timeout
		w.httpClient = &c
	}
	return w
}

// Enabled reports whether a URL is configured.
func (w *Webhook) Enabled() bool { return w.url != "" }

// Notify posts an approval notice for the pull request in opts.
func (w *Webhook) Notify(ctx context.Context, opts review.Options) error {
	if !w.Enabled() {
		w.logger.DebugContext(ctx, "webhook not configured, skipping notification")
		return nil
	}

	repo := opts.Owner + "/" + opts.Repo
	prURL := fmt.Sprintf("https://github.com/%s/pull/%d", repo, opts.PullNumber)
	body, err := json.Marshal(Payload{
		Content:     fmt.Sprintf("Automatically approved %s#%d: %s", repo, opts.PullNumber, prURL),
		Repository:  repo,
		PullRequest: opts.PullNumber,
		URL:         prURL,
	})
	if err != nil {
		return fmt.Errorf("notify: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notify: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("notify: webhook returned %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}
	w.logger.InfoContext(ctx, "approval notification sent", "repository", repo, "pull_request", opts.PullNumber)
	return nil
}
