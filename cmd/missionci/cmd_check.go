package main

import (
	"fmt"
	"io"

	"github.com/sethvargo/go-githubactions"
	"github.com/spf13/cobra"

	"missionci/internal/actions"
	"missionci/internal/display"
	"missionci/internal/format"
	"missionci/internal/mission"
	"missionci/internal/review"
)

var checkFlags struct {
	dir      string
	changed  []string
	parallel int
	markdown bool
	summary  bool
}

var checkCmd = &cobra.Command{
	Use:   "check [contract...]",
	Short: "Validate contracts locally and print a report",
	Long: "Validate the named contracts, or every contract under the contracts\n" +
		"directory. With --changed, only contracts containing a changed path\n" +
		"decide the outcome, exactly as a pull request review would.",
	RunE: runCheck,
}

func init() {
	f := checkCmd.Flags()
	f.StringVar(&checkFlags.dir, "dir", "", "Contracts directory (default from config)")
	f.StringSliceVar(&checkFlags.changed, "changed", nil, "Changed file paths, as listed by the pull request")
	f.IntVar(&checkFlags.parallel, "parallel", 0, "Contracts validated concurrently (default from config)")
	f.BoolVar(&checkFlags.markdown, "markdown", false, "Print the summary table as Markdown")
	f.BoolVar(&checkFlags.summary, "summary", false, "Append the summary to the workflow step summary")
}

func runCheck(cmd *cobra.Command, args []string) error {
	dir := checkFlags.dir
	if dir == "" {
		dir = cfg.ContractsDir
	}
	parallel := checkFlags.parallel
	if parallel < 1 {
		parallel = cfg.Parallel
	}

	names := args
	if len(names) == 0 {
		var err error
		if names, err = mission.Discover(dir); err != nil {
			return err
		}
	}
	reports, err := newChecker(dir, parallel).CheckAll(cmd.Context(), names)
	if err != nil {
		return err
	}

	inPROnly := len(checkFlags.changed) > 0
	if inPROnly {
		mission.MarkChanged(reports, dir, checkFlags.changed)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, display.Reports(reports))
	fmt.Fprintln(w)
	mode := format.ASCII
	if checkFlags.markdown {
		mode = format.Markdown
	}
	fmt.Fprintln(w, format.Summary(reports, mode))

	failed := countFailed(reports, inPROnly)
	if inPROnly {
		printOutcome(w, review.Decide(review.ContractSections(reports), review.LayoutContracts))
	}

	if checkFlags.summary {
		if actx, err := actions.Load(githubactions.New()); err == nil {
			actx.StepSummary(format.StepSummary(reports))
		} else {
			fmt.Fprintln(cmd.ErrOrStderr(), "step summary:", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d contracts failed", failed, len(reports))
	}
	return nil
}

func countFailed(reports []*mission.Report, inPROnly bool) int {
	n := 0
	for _, r := range reports {
		if r.HasErrors() && (!inPROnly || r.InPR) {
			n++
		}
	}
	return n
}

func printOutcome(w io.Writer, out review.Outcome) {
	fmt.Fprintf(w, "\nDecision: %s\n", display.Event(out.Event))
	if out.Body != "" {
		fmt.Fprintln(w, out.Body)
	}
}
