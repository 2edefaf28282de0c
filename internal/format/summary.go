package format

import (
	"strconv"

	"missionci/internal/display"
	"missionci/internal/mission"
)

// Summary renders one row per contract: pass mark, name, template version,
// whether it is part of the change set, and error/warning counts.
func Summary(reports []*mission.Report, m Mode) string {
	tb := NewTable(m)
	tb.Header("", "Contract", "Template", "In PR", "Errors", "Warnings")

	var errs, warns, failed int
	for _, r := range reports {
		e, w := len(r.Errors()), len(r.Warnings())
		errs += e
		warns += w
		if e > 0 {
			failed++
		}
		tb.Row(BoolMark(e == 0), r.Name, display.Version(r.Version), inPR(r.InPR), e, w)
	}
	tb.Footer("", strconv.Itoa(len(reports))+" contracts", "", strconv.Itoa(failed)+" failing", errs, warns)
	tb.Columns(
		ColumnConfig{Number: 5, Align: AlignRight},
		ColumnConfig{Number: 6, Align: AlignRight},
	)
	return tb.String()
}

// Findings renders every finding of the failing or warned contracts. Long
// messages wrap at 80 columns. Clean reports render as "".
func Findings(reports []*mission.Report, m Mode) string {
	tb := NewTable(m)
	tb.Header("Contract", "Severity", "Check", "Message")
	rows := 0
	for _, r := range reports {
		for _, f := range r.Findings {
			tb.Row(r.Name, f.Severity.String(), display.Kind(f.Kind), f.Message)
			rows++
		}
	}
	if rows == 0 {
		return ""
	}
	tb.Columns(
		ColumnConfig{Number: 2, Align: AlignCenter},
		ColumnConfig{Number: 4, Align: AlignLeft, MaxWidth: 80},
	)
	return tb.String()
}

// StepSummary is the Markdown written to the workflow step summary: the
// per-contract table followed by the findings table when there is one.
func StepSummary(reports []*mission.Report) string {
	out := Summary(reports, Markdown)
	if f := Findings(reports, Markdown); f != "" {
		out += "\n\n" + f
	}
	return out
}

func inPR(v bool) string {
	if v {
		return "yes"
	}
	return ""
}
