package main

import (
	"fmt"

	"github.com/sethvargo/go-githubactions"
	"github.com/spf13/cobra"

	"missionci/internal/display"
	"missionci/internal/filediff"
	"missionci/internal/format"
	"missionci/internal/logging"
	"missionci/internal/wiring"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Validate contracts touched by the triggering event and review the pull request",
	RunE:  runReview,
}

func runReview(cmd *cobra.Command, _ []string) error {
	action := githubactions.New()
	actx, client, err := loadRun(action)
	if err != nil {
		return err
	}
	orch, err := newOrchestrator(client)
	if err != nil {
		return err
	}

	res, runErr := wiring.ReviewContracts(cmd.Context(), wiring.ContractDeps{
		Target:    target(actx),
		Checker:   newChecker(cfg.ContractsDir, cfg.Parallel),
		Changes:   filediff.NewService(client, actx.Owner, actx.Repo, logging.New("filediff")),
		Submitter: orch,
		Logger:    logging.New("review"),
	})
	if res != nil {
		actx.StepSummary(format.StepSummary(res.Reports))
		fmt.Fprintf(cmd.OutOrStdout(), "Decision: %s\n", display.Event(res.Outcome.Event))
		if s := res.Submission; s != nil && s.Suppressed {
			fmt.Fprintf(cmd.OutOrStdout(), "Already approved by %s, review skipped\n", cfg.Review.TrustedReviewer)
		}
	}
	return runErr
}
