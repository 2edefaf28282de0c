package mission

import "fmt"

// Severity of a finding. Only errors influence the review decision.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Kind groups findings by the part of the contract they concern.
type Kind string

const (
	KindLayout      Kind = "layout"
	KindVersion     Kind = "version"
	KindDescription Kind = "description"
	KindMission     Kind = "mission"
	KindBriefing    Kind = "briefing"
)

// Finding is one detected problem.
type Finding struct {
	Severity Severity
	Kind     Kind
	Message  string
	// Link points at the documentation for the rule; may be empty.
	Link string
}

// Display renders the finding as a markdown string.
func (f Finding) Display() string {
	if f.Link == "" {
		return f.Message
	}
	return fmt.Sprintf("[%s](%s)", f.Message, f.Link)
}

// Report is the validation result for one contract.
type Report struct {
	Name     string
	Version  Version
	Findings []Finding
	// InPR is set when a changed file lies inside the contract folder.
	InPR bool
}

func (r *Report) add(sev Severity, kind Kind, msg, link string) {
	r.Findings = append(r.Findings, Finding{Severity: sev, Kind: kind, Message: msg, Link: link})
}

func (r *Report) errorf(kind Kind, link, format string, args ...any) {
	r.add(SeverityError, kind, fmt.Sprintf(format, args...), link)
}

func (r *Report) warnf(kind Kind, link, format string, args ...any) {
	r.add(SeverityWarning, kind, fmt.Sprintf(format, args...), link)
}

// Errors returns the display strings of all error findings, in order.
func (r *Report) Errors() []string { return r.display(SeverityError) }

// Warnings returns the display strings of all warning findings, in order.
func (r *Report) Warnings() []string { return r.display(SeverityWarning) }

// HasErrors reports whether any finding is an error.
func (r *Report) HasErrors() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (r *Report) display(sev Severity) []string {
	var out []string
	for _, f := range r.Findings {
		if f.Severity == sev {
			out = append(out, f.Display())
		}
	}
	return out
}
