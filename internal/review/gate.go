package review

import (
	"fmt"

	"github.com/google/go-github/v71/github"
)

// Policy decides when a trusted reviewer's earlier approval counts.
type Policy string

const (
	// PolicyLatest trusts the reviewer's most recent review only.
	PolicyLatest Policy = "latest"
	// PolicyAny trusts any approval the reviewer ever left.
	PolicyAny Policy = "any"
	// PolicyOff never trusts; every approval is posted.
	PolicyOff Policy = "off"
)

const stateApproved = "APPROVED"

// ParsePolicy validates a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicyLatest, PolicyAny, PolicyOff:
		return p, nil
	}
	return "", fmt.Errorf("unknown approval gate policy %q", s)
}

// Gate checks for a trusted reviewer's prior approval.
type Gate struct {
	Reviewer string
	Policy   Policy
}

// Trusted reports whether reviews (oldest first) contain an approval from
// the gate's reviewer under its policy.
func (g Gate) Trusted(reviews []*github.PullRequestReview) bool {
	if g.Policy == PolicyOff || g.Reviewer == "" {
		return false
	}
	var states []string
	for _, r := range reviews {
		if r.GetUser().GetLogin() == g.Reviewer {
			states = append(states, r.GetState())
		}
	}
	if len(states) == 0 {
		return false
	}
	if g.Policy == PolicyAny {
		for _, s := range states {
			if s == stateApproved {
				return true
			}
		}
		return false
	}
	// Comments do not revoke an approval; only a newer non-comment state does.
	for i := len(states) - 1; i >= 0; i-- {
		switch states[i] {
		case "COMMENTED", "PENDING":
			continue
		case stateApproved:
			return true
		default:
			return false
		}
	}
	return false
}
