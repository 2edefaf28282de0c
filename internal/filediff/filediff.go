// Package filediff resolves the commit range of the triggering event and
// lists the files a change added or modified.
package filediff

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/go-github/v71/github"
)

// ErrUnsupportedEvent is returned for triggers other than pull_request and push.
var ErrUnsupportedEvent = errors.New("action must be used within a pull_request or push event")

// Range is a base..head commit range.
type Range struct {
	Base string
	Head string
}

// ResolveRange extracts the commit range from an event payload. A push that
// creates a branch has an all-zero "before" SHA; the base then falls back to
// base_ref or the repository default branch.
func ResolveRange(eventName string, payload []byte) (Range, error) {
	switch eventName {
	case "pull_request", "push":
	default:
		return Range{}, fmt.Errorf("%w (got %q)", ErrUnsupportedEvent, eventName)
	}

	ev, err := github.ParseWebHook(eventName, payload)
	if err != nil {
		return Range{}, fmt.Errorf("parse %s payload: %w", eventName, err)
	}

	switch e := ev.(type) {
	case *github.PullRequestEvent:
		pr := e.GetPullRequest()
		return Range{Base: pr.GetBase().GetSHA(), Head: pr.GetHead().GetSHA()}, nil
	case *github.PushEvent:
		r := Range{Base: e.GetBefore(), Head: e.GetAfter()}
		if isZeroSHA(r.Base) {
			r.Base = e.GetBaseRef()
			if r.Base == "" {
				r.Base = e.GetRepo().GetDefaultBranch()
			}
		}
		return r, nil
	}
	return Range{}, fmt.Errorf("%w (got %q)", ErrUnsupportedEvent, eventName)
}

func isZeroSHA(sha string) bool {
	return sha == "" || strings.Trim(sha, "0") == ""
}

// Comparer lists the files between two commits.
type Comparer interface {
	CompareFiles(ctx context.Context, owner, repo, base, head string) ([]*github.CommitFile, error)
}

// Service answers which files a change touched.
type Service struct {
	comparer Comparer
	owner    string
	repo     string
	logger   *slog.Logger
}

// NewService returns a Service for owner/repo. A nil logger discards output.
func NewService(c Comparer, owner, repo string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{comparer: c, owner: owner, repo: repo, logger: logger}
}

// ChangedFiles returns the paths added or modified in r, in API order.
func (s *Service) ChangedFiles(ctx context.Context, r Range) ([]string, error) {
	s.logger.Info("comparing commits", "head", r.Head, "base", r.Base)

	files, err := s.comparer.CompareFiles(ctx, s.owner, s.repo, r.Base, r.Head)
	if err != nil {
		return nil, fmt.Errorf("changed files: %w", err)
	}

	var out []string
	for _, f := range files {
		switch f.GetStatus() {
		case "added", "modified":
			out = append(out, f.GetFilename())
		}
	}
	s.logger.Info("found changed files", "count", len(out))
	return out, nil
}
