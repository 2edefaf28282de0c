package main

import (
	"fmt"
	"os"

	"github.com/sethvargo/go-githubactions"

	"missionci/internal/actions"
	"missionci/internal/gh"
	"missionci/internal/logging"
	"missionci/internal/mission"
	"missionci/internal/notify"
	"missionci/internal/review"
	"missionci/internal/wiring"
)

func newChecker(root string, parallel int) *mission.Checker {
	return mission.NewChecker(root, mission.Options{
		TemplateURL: cfg.TemplateURL,
		MissionsURL: cfg.MissionsURL,
		Prefixes:    cfg.Prefixes,
		Parallel:    parallel,
		Logger:      logging.New("mission"),
	})
}

// loadRun reads the Actions context and builds an authenticated API client.
func loadRun(action *githubactions.Action) (*actions.Context, *gh.Client, error) {
	actx, err := actions.Load(action)
	if err != nil {
		return nil, nil, err
	}
	token, err := actx.RequireToken()
	if err != nil {
		return nil, nil, err
	}
	client, err := gh.New(token, gh.WithTimeout(cfg.HTTPTimeout), gh.WithLogger(logging.New("github")))
	if err != nil {
		return nil, nil, fmt.Errorf("create GitHub client: %w", err)
	}
	return actx, client, nil
}

func newOrchestrator(client review.Client) (*review.Orchestrator, error) {
	policy, err := review.ParsePolicy(cfg.Review.ApprovalGate)
	if err != nil {
		return nil, err
	}
	webhook := notify.NewWebhook(cfg.WebhookURL,
		notify.WithTimeout(cfg.HTTPTimeout),
		notify.WithLogger(logging.New("notify")))
	gate := review.Gate{Reviewer: cfg.Review.TrustedReviewer, Policy: policy}
	return review.NewOrchestrator(client, gate, webhook, logging.New("review")), nil
}

func target(actx *actions.Context) wiring.Target {
	n, _ := actx.PullRequestNumber()
	return wiring.Target{
		EventName:  actx.EventName,
		Payload:    actx.Payload,
		Owner:      actx.Owner,
		Repo:       actx.Repo,
		PullNumber: n,
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
