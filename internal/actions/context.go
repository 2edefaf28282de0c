// Package actions reads the GitHub Actions runtime environment: triggering
// event, repository, token input and step summary.
package actions

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/go-github/v71/github"
	"github.com/sethvargo/go-githubactions"
)

// Trigger event names the checker understands.
const (
	EventPullRequest = "pull_request"
	EventPush        = "push"
)

// TokenInput is the action input carrying the API token.
const TokenInput = "GITHUB_TOKEN"

// ErrMissingToken is returned by RequireToken when no token was supplied.
var ErrMissingToken = errors.New("input required and not supplied: " + TokenInput)

// Context is the per-run view of the Actions environment.
type Context struct {
	EventName string
	Owner     string
	Repo      string
	// Payload is the raw event JSON; nil when no event file is present.
	Payload []byte
	Token   string

	action *githubactions.Action
}

// Load collects the run context from the action's environment.
func Load(a *githubactions.Action) (*Context, error) {
	gc, err := a.Context()
	if err != nil {
		return nil, fmt.Errorf("actions: read context: %w", err)
	}

	c := &Context{EventName: gc.EventName, action: a}
	if gc.Repository != "" {
		owner, repo, ok := strings.Cut(gc.Repository, "/")
		if !ok {
			return nil, fmt.Errorf("actions: malformed repository %q", gc.Repository)
		}
		c.Owner, c.Repo = owner, repo
	}
	if gc.EventPath != "" {
		data, err := os.ReadFile(gc.EventPath)
		if err != nil {
			return nil, fmt.Errorf("actions: read event payload: %w", err)
		}
		c.Payload = data
	}

	c.Token = a.GetInput(TokenInput)
	if c.Token == "" {
		c.Token = a.Getenv("GITHUB_TOKEN")
	}
	return c, nil
}

// RequireToken returns the token or ErrMissingToken.
func (c *Context) RequireToken() (string, error) {
	if c.Token == "" {
		return "", ErrMissingToken
	}
	return c.Token, nil
}

// PullRequestNumber returns the pull request number carried by the event
// payload, if any.
func (c *Context) PullRequestNumber() (int, bool) {
	if len(c.Payload) == 0 {
		return 0, false
	}
	var ev github.PullRequestEvent
	if err := json.Unmarshal(c.Payload, &ev); err != nil {
		return 0, false
	}
	n := ev.GetPullRequest().GetNumber()
	return n, n != 0
}

// StepSummary appends markdown to the job summary when running under Actions.
func (c *Context) StepSummary(markdown string) {
	if c.action == nil || c.action.Getenv("GITHUB_STEP_SUMMARY") == "" {
		return
	}
	c.action.AddStepSummary(markdown)
}
