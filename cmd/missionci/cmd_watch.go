package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"missionci/internal/display"
	"missionci/internal/format"
	"missionci/internal/logging"
	"missionci/internal/mission"
	"missionci/internal/watch"
)

var watchFlags struct {
	dir      string
	debounce time.Duration
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-validate contracts whenever their files change",
	RunE:  runWatch,
}

func init() {
	f := watchCmd.Flags()
	f.StringVar(&watchFlags.dir, "dir", "", "Contracts directory (default from config)")
	f.DurationVar(&watchFlags.debounce, "debounce", watch.DefaultDebounce, "Quiet period before re-validating")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	dir := watchFlags.dir
	if dir == "" {
		dir = cfg.ContractsDir
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logging.New("watch")
	checker := newChecker(dir, cfg.Parallel)
	w := cmd.OutOrStdout()

	names, err := mission.Discover(dir)
	if err != nil {
		return err
	}
	if err := recheck(ctx, w, checker, names); err != nil {
		return err
	}

	watcher, err := watch.New(dir, watchFlags.debounce, log)
	if err != nil {
		return err
	}
	log.Info("watching contracts", "dir", dir)
	return watcher.Run(ctx, func(ctx context.Context, changed []string) {
		affected := affectedContracts(dir, changed)
		if len(affected) == 0 {
			return
		}
		if err := recheck(ctx, w, checker, affected); err != nil {
			log.Error("re-validation failed", "error", err)
		}
	})
}

func recheck(ctx context.Context, w io.Writer, checker *mission.Checker, names []string) error {
	start := time.Now()
	reports, err := checker.CheckAll(ctx, names)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, display.Reports(reports))
	fmt.Fprintln(w, format.Summary(reports, format.ASCII))
	fmt.Fprintf(w, "checked %d contracts in %s\n\n", len(reports), format.FmtDuration(time.Since(start)))
	return nil
}

// affectedContracts maps changed paths to the contract folders that contain
// them, skipping removed folders.
func affectedContracts(root string, changed []string) []string {
	var out []string
	for _, p := range changed {
		rel, err := filepath.Rel(root, p)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		name, _, _ := strings.Cut(filepath.ToSlash(rel), "/")
		if !slices.Contains(out, name) && isDir(filepath.Join(root, name)) {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}
