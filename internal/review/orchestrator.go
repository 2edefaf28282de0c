package review

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/go-github/v71/github"
)

// Client is the pull request review API the orchestrator needs.
type Client interface {
	ListReviews(ctx context.Context, owner, repo string, number int) ([]*github.PullRequestReview, error)
	CreateReview(ctx context.Context, owner, repo string, number int, req *github.PullRequestReviewRequest) (*github.PullRequestReview, error)
}

// Notifier is told about approvals that were posted without a trusted reviewer.
type Notifier interface {
	Notify(ctx context.Context, opts Options) error
}

// Submission records what Submit did.
type Submission struct {
	Options    Options
	Posted     bool
	Suppressed bool
	Notified   bool
}

// Orchestrator posts one review per run.
type Orchestrator struct {
	client   Client
	gate     Gate
	notifier Notifier
	log      *slog.Logger
}

// NewOrchestrator wires an Orchestrator. notifier and logger may be nil.
func NewOrchestrator(c Client, gate Gate, notifier Notifier, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Orchestrator{client: c, gate: gate, notifier: notifier, log: logger}
}

// Submit posts the outcome on the pull request. REQUEST_CHANGES is always
// posted. APPROVE is suppressed when the gate trusts an earlier approval;
// otherwise it is posted and the notifier is told. A notifier failure is
// logged and does not fail the submission.
func (o *Orchestrator) Submit(ctx context.Context, owner, repo string, number int, out Outcome) (Submission, error) {
	sub := Submission{Options: Options{
		Owner:      owner,
		Repo:       repo,
		PullNumber: number,
		Body:       out.Body,
		Event:      out.Event,
	}}

	if out.Event == EventApprove && o.gate.Policy != PolicyOff {
		reviews, err := o.client.ListReviews(ctx, owner, repo, number)
		if err != nil {
			return sub, fmt.Errorf("submit review: %w", err)
		}
		if o.gate.Trusted(reviews) {
			o.log.Info("trusted reviewer already approved, skipping review",
				"reviewer", o.gate.Reviewer, "pull_number", number)
			sub.Suppressed = true
			return sub, nil
		}
	}

	req := &github.PullRequestReviewRequest{Event: github.Ptr(string(out.Event))}
	if out.Body != "" {
		req.Body = github.Ptr(out.Body)
	}
	if _, err := o.client.CreateReview(ctx, owner, repo, number, req); err != nil {
		return sub, fmt.Errorf("submit review: %w", err)
	}
	sub.Posted = true
	o.log.Info("review posted", "event", string(out.Event), "pull_number", number)

	if out.Event == EventApprove && o.notifier != nil {
		if err := o.notifier.Notify(ctx, sub.Options); err != nil {
			o.log.Warn("approval notification failed", "error", err)
		} else {
			sub.Notified = true
		}
	}
	return sub, nil
}
