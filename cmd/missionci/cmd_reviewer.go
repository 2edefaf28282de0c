package main

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/sethvargo/go-githubactions"
	"github.com/spf13/cobra"

	"missionci/internal/display"
	"missionci/internal/filediff"
	"missionci/internal/logging"
	"missionci/internal/wiring"
)

var reviewerFlags struct {
	binary string
}

var reviewerCmd = &cobra.Command{
	Use:   "reviewer",
	Short: "Run the missionreviewer binary and review the pull request with its annotations",
	RunE:  runReviewer,
}

func init() {
	reviewerCmd.Flags().StringVar(&reviewerFlags.binary, "binary", "", "Use this missionreviewer binary instead of downloading a release")
}

// localBinary runs a binary already on disk.
type localBinary struct {
	*wiring.ReleaseBinary
	path string
}

func (b localBinary) Fetch(_ context.Context) (string, error) { return b.path, nil }

func runReviewer(cmd *cobra.Command, _ []string) error {
	action := githubactions.New()
	actx, client, err := loadRun(action)
	if err != nil {
		return err
	}
	orch, err := newOrchestrator(client)
	if err != nil {
		return err
	}

	log := logging.New("missionreviewer")
	release := &wiring.ReleaseBinary{
		Source: client,
		Owner:  cfg.Reviewer.Owner,
		Repo:   cfg.Reviewer.Repo,
		Dir:    cfg.Reviewer.Dir,
		GOOS:   runtime.GOOS,
		Args:   cfg.Reviewer.Args,
		Logger: log,
	}
	var bin wiring.Binary = release
	if reviewerFlags.binary != "" {
		bin = localBinary{ReleaseBinary: release, path: reviewerFlags.binary}
	}

	res, err := wiring.ReviewAnnotations(cmd.Context(), wiring.AnnotationDeps{
		Target:    target(actx),
		Binary:    bin,
		LogPath:   filepath.Clean(cfg.Reviewer.LogFile),
		Changes:   filediff.NewService(client, actx.Owner, actx.Repo, logging.New("filediff")),
		Submitter: orch,
		Action:    action,
		Dedupe:    cfg.Review.DedupeMessages,
		Logger:    log,
	})
	if err != nil {
		return err
	}
	if len(res.Annotations) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Decision: %s\n", display.Event(res.Outcome.Event))
	}
	return nil
}
