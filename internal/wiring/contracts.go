// Package wiring composes the run flows: validate or execute, collect
// changed files, decide and submit one review.
package wiring

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"missionci/internal/filediff"
	"missionci/internal/gh"
	"missionci/internal/mission"
	"missionci/internal/review"
)

// ErrChecksFailed is returned when errors were found but no review was posted
// to carry them, so the job itself must fail.
var ErrChecksFailed = errors.New("contract checks failed")

// ErrTokenPermission is returned when GitHub rejects the workflow token. The
// job needs contents: read and pull-requests: write.
var ErrTokenPermission = errors.New("token lacks permission")

// ChangeLister returns the paths added or modified in a commit range.
type ChangeLister interface {
	ChangedFiles(ctx context.Context, r filediff.Range) ([]string, error)
}

// Submitter posts a review outcome on a pull request.
type Submitter interface {
	Submit(ctx context.Context, owner, repo string, number int, out review.Outcome) (review.Submission, error)
}

// Target is the repository and pull request a run reports on.
type Target struct {
	EventName string
	Payload   []byte
	Owner     string
	Repo      string
	// PullNumber is zero outside pull_request events.
	PullNumber int
}

// ContractDeps are the collaborators of ReviewContracts.
type ContractDeps struct {
	Target    Target
	Checker   *mission.Checker
	Changes   ChangeLister
	Submitter Submitter
	Logger    *slog.Logger
}

// ContractResult is what a contract review run produced.
type ContractResult struct {
	Reports    []*mission.Report
	Changed    []string
	Outcome    review.Outcome
	Submission *review.Submission
}

// ReviewContracts resolves the changed files, validates every contract,
// decides from the in-PR ones and, on a pull request, submits the review.
func ReviewContracts(ctx context.Context, deps ContractDeps) (*ContractResult, error) {
	log := deps.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	changed, err := changedFiles(ctx, deps.Target, deps.Changes)
	if err != nil {
		return nil, err
	}

	names, err := mission.Discover(deps.Checker.Root())
	if err != nil {
		return nil, err
	}
	reports, err := deps.Checker.CheckAll(ctx, names)
	if err != nil {
		return nil, err
	}
	mission.MarkChanged(reports, deps.Checker.Root(), changed)

	res := &ContractResult{
		Reports: reports,
		Changed: changed,
		Outcome: review.Decide(review.ContractSections(reports), review.LayoutContracts),
	}
	log.InfoContext(ctx, "contracts checked",
		"contracts", len(reports), "changed_files", len(changed), "decision", string(res.Outcome.Event))

	return res, submit(ctx, deps.Target, deps.Submitter, res.Outcome, log, &res.Submission)
}

// changedFiles resolves the event's commit range and lists its files. An
// event other than pull_request or push is an environment error.
func changedFiles(ctx context.Context, t Target, c ChangeLister) ([]string, error) {
	r, err := filediff.ResolveRange(t.EventName, t.Payload)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}
	files, err := c.ChangedFiles(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("list changed files: %w", permission(err))
	}
	return files, nil
}

func submit(ctx context.Context, t Target, s Submitter, out review.Outcome, log *slog.Logger, dst **review.Submission) error {
	if t.PullNumber == 0 || s == nil {
		log.InfoContext(ctx, "no pull request, review not submitted", "event", t.EventName)
		if out.Event == review.EventRequestChanges {
			return ErrChecksFailed
		}
		return nil
	}
	sub, err := s.Submit(ctx, t.Owner, t.Repo, t.PullNumber, out)
	if err != nil {
		return permission(err)
	}
	*dst = &sub
	return nil
}

// permission turns a 401 or 403 from GitHub into ErrTokenPermission naming
// the call that was refused. Other errors pass through.
func permission(err error) error {
	var apiErr *gh.APIError
	if !errors.As(err, &apiErr) || !(gh.IsUnauthorized(err) || gh.IsForbidden(err)) {
		return err
	}
	return fmt.Errorf("%w: %s returned HTTP %d: %s: %w",
		ErrTokenPermission, apiErr.Operation(), apiErr.StatusCode(), apiErr.Message(), err)
}
