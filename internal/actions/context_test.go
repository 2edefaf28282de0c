package actions

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sethvargo/go-githubactions"
)

func newAction(t *testing.T, env map[string]string) *githubactions.Action {
	t.Helper()
	return githubactions.New(
		githubactions.WithGetenv(func(k string) string { return env[k] }),
		githubactions.WithWriter(&discard{}),
	)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func writeEvent(t *testing.T, payload string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "event.json")
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_PullRequest(t *testing.T) {
	env := map[string]string{
		"GITHUB_EVENT_NAME":  "pull_request",
		"GITHUB_EVENT_PATH":  writeEvent(t, `{"number": 12, "pull_request": {"number": 12}}`),
		"GITHUB_REPOSITORY":  "SynixeContractors/Missions",
		"INPUT_GITHUB_TOKEN": "tok",
	}

	c, err := Load(newAction(t, env))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.EventName != EventPullRequest {
		t.Errorf("EventName = %q", c.EventName)
	}
	if c.Owner != "SynixeContractors" || c.Repo != "Missions" {
		t.Errorf("repo = %s/%s", c.Owner, c.Repo)
	}
	n, ok := c.PullRequestNumber()
	if !ok || n != 12 {
		t.Errorf("PullRequestNumber = %d, %v", n, ok)
	}
	if tok, err := c.RequireToken(); err != nil || tok != "tok" {
		t.Errorf("RequireToken = %q, %v", tok, err)
	}
}

func TestLoad_PushHasNoPullRequest(t *testing.T) {
	env := map[string]string{
		"GITHUB_EVENT_NAME": "push",
		"GITHUB_EVENT_PATH": writeEvent(t, `{"before": "a", "after": "b"}`),
		"GITHUB_REPOSITORY": "o/r",
		"GITHUB_TOKEN":      "fallback",
	}

	c, err := Load(newAction(t, env))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := c.PullRequestNumber(); ok {
		t.Error("push event should not carry a pull request")
	}
	if c.Token != "fallback" {
		t.Errorf("Token = %q, want fallback from GITHUB_TOKEN", c.Token)
	}
}

func TestRequireToken_Missing(t *testing.T) {
	c, err := Load(newAction(t, map[string]string{}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := c.RequireToken(); !errors.Is(err, ErrMissingToken) {
		t.Errorf("expected ErrMissingToken, got %v", err)
	}
}

func TestLoad_MalformedRepository(t *testing.T) {
	_, err := Load(newAction(t, map[string]string{"GITHUB_REPOSITORY": "no-slash"}))
	if err == nil {
		t.Fatal("expected error for malformed repository")
	}
}
