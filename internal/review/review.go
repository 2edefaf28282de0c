// Package review turns validation results into exactly one pull request
// review per run.
package review

import (
	"fmt"
	"strings"

	"missionci/internal/mission"
)

// Event is the review action submitted to the pull request.
type Event string

const (
	EventComment        Event = "COMMENT"
	EventApprove        Event = "APPROVE"
	EventRequestChanges Event = "REQUEST_CHANGES"
)

// Options is the outbound review request.
type Options struct {
	Owner      string
	Repo       string
	PullNumber int
	Body       string
	Event      Event
}

// Section is one in-scope unit of the review body: a contract or a file.
type Section struct {
	Title    string
	Messages []string
	// Failed marks a section carrying at least one error.
	Failed bool
}

// Outcome is the decision for a run.
type Outcome struct {
	Event Event
	Body  string
}

// Layout selects how sections are rendered into the body.
type Layout int

const (
	// LayoutContracts renders "**name**" headers with "- error" lines.
	LayoutContracts Layout = iota
	// LayoutFiles renders a nested bullet list under a fixed heading.
	LayoutFiles
)

// Decide returns REQUEST_CHANGES when any section failed, APPROVE otherwise.
func Decide(sections []Section, layout Layout) Outcome {
	failed := false
	for _, s := range sections {
		if s.Failed {
			failed = true
			break
		}
	}
	if !failed {
		return Outcome{Event: EventApprove}
	}
	return Outcome{Event: EventRequestChanges, Body: render(sections, layout)}
}

func render(sections []Section, layout Layout) string {
	var b strings.Builder
	switch layout {
	case LayoutFiles:
		b.WriteString("Found issues with the following files:\n")
		for _, s := range sections {
			fmt.Fprintf(&b, "* %s\n", s.Title)
			for _, m := range s.Messages {
				fmt.Fprintf(&b, "  * %s\n", m)
			}
		}
	default:
		for _, s := range sections {
			if !s.Failed {
				continue
			}
			fmt.Fprintf(&b, "**%s**\n", s.Title)
			for _, m := range s.Messages {
				fmt.Fprintf(&b, "- %s\n", m)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// ContractSections converts in-PR reports into sections. Contracts outside
// the change set are validated and logged elsewhere but never reviewed.
func ContractSections(reports []*mission.Report) []Section {
	var out []Section
	for _, r := range reports {
		if !r.InPR {
			continue
		}
		out = append(out, Section{
			Title:    r.Name,
			Messages: r.Errors(),
			Failed:   r.HasErrors(),
		})
	}
	return out
}

// Dedupe removes repeated messages from each section, keeping first occurrences.
func Dedupe(sections []Section) []Section {
	out := make([]Section, len(sections))
	for i, s := range sections {
		seen := make(map[string]bool, len(s.Messages))
		var msgs []string
		for _, m := range s.Messages {
			if seen[m] {
				continue
			}
			seen[m] = true
			msgs = append(msgs, m)
		}
		s.Messages = msgs
		out[i] = s
	}
	return out
}
