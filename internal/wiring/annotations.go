package wiring

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/sethvargo/go-githubactions"

	"missionci/internal/annotation"
	"missionci/internal/missionreviewer"
	"missionci/internal/review"
)

// Binary provides and runs the external reviewer.
type Binary interface {
	Fetch(ctx context.Context) (string, error)
	Run(ctx context.Context, path string) error
}

// ReleaseBinary fetches the reviewer from a GitHub release and runs it in WorkDir.
type ReleaseBinary struct {
	Source  missionreviewer.ReleaseSource
	Owner   string
	Repo    string
	Dir     string
	GOOS    string
	Args    []string
	WorkDir string
	Logger  *slog.Logger
}

// Fetch downloads the platform asset.
func (b *ReleaseBinary) Fetch(ctx context.Context) (string, error) {
	return missionreviewer.Fetch(ctx, b.Source, b.Owner, b.Repo, b.Dir, b.GOOS, b.Logger)
}

// Run executes the downloaded binary.
func (b *ReleaseBinary) Run(ctx context.Context, path string) error {
	_, err := missionreviewer.Run(ctx, path, b.Args, b.WorkDir, b.Logger)
	return err
}

// AnnotationDeps are the collaborators of ReviewAnnotations.
type AnnotationDeps struct {
	Target    Target
	Binary    Binary
	LogPath   string
	Changes   ChangeLister
	Submitter Submitter
	// Action receives workflow annotations; nil disables emission.
	Action *githubactions.Action
	Dedupe bool
	Logger *slog.Logger
}

// AnnotationResult is what an annotation review run produced.
type AnnotationResult struct {
	Annotations []annotation.Annotation
	Changed     []string
	Sections    []review.Section
	Outcome     review.Outcome
	Submission  *review.Submission
}

// ReviewAnnotations fetches and runs the reviewer binary, emits its
// annotations and, on a pull request, reviews the changed files it flagged.
// A run that leaves no log ends quietly without a review.
func ReviewAnnotations(ctx context.Context, deps AnnotationDeps) (*AnnotationResult, error) {
	log := deps.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	bin, err := deps.Binary.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	res := &AnnotationResult{}
	if deps.Target.PullNumber != 0 {
		if res.Changed, err = changedFiles(ctx, deps.Target, deps.Changes); err != nil {
			return nil, err
		}
	}

	if err := deps.Binary.Run(ctx, bin); err != nil {
		return nil, fmt.Errorf("missionreviewer: %w", err)
	}

	anns, err := annotation.ReadLog(deps.LogPath, log)
	if errors.Is(err, annotation.ErrNoLog) {
		log.InfoContext(ctx, "No annotations file found.")
		return res, nil
	}
	if err != nil {
		return nil, err
	}
	res.Annotations = anns
	log.InfoContext(ctx, fmt.Sprintf("Found %d annotations.", len(anns)))

	if deps.Action != nil {
		for _, a := range anns {
			annotation.Emit(deps.Action, a)
		}
	}

	res.Sections = annotation.Group(anns, res.Changed, deps.Dedupe)
	res.Outcome = review.Decide(res.Sections, review.LayoutFiles)

	return res, submit(ctx, deps.Target, deps.Submitter, res.Outcome, log, &res.Submission)
}
