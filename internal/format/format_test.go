package format_test

import (
	"strings"
	"testing"
	"time"

	"missionci/internal/format"
	"missionci/internal/mission"
)

func TestASCII_BasicTable(t *testing.T) {
	tb := format.NewTable(format.ASCII)
	tb.Header("Contract", "Errors")
	tb.Row("CO_Alpha", 2)
	out := tb.String()

	if !strings.Contains(out, "CO_Alpha") {
		t.Errorf("expected row in output:\n%s", out)
	}
	if !strings.Contains(out, "───") {
		t.Errorf("expected box-drawing characters in ASCII output:\n%s", out)
	}
}

func TestMarkdown_WithFooter(t *testing.T) {
	tb := format.NewTable(format.Markdown)
	tb.Header("Contract", "Errors")
	tb.Row("CO_Alpha", 1)
	tb.Footer("TOTAL", 1)
	out := tb.String()

	if !strings.Contains(out, "| Contract") {
		t.Errorf("expected markdown header:\n%s", out)
	}
	if !strings.Contains(out, "TOTAL") {
		t.Errorf("expected footer:\n%s", out)
	}
}

func reports() []*mission.Report {
	return []*mission.Report{
		{Name: "CO_Alpha", Version: mission.V3, InPR: true, Findings: []mission.Finding{
			{Severity: mission.SeverityError, Kind: mission.KindMission, Message: "Respawn not found"},
		}},
		{Name: "SCO_Bravo", Version: mission.V2, Findings: []mission.Finding{
			{Severity: mission.SeverityWarning, Kind: mission.KindVersion, Message: "`Using old template: v2`"},
		}},
	}
}

func TestSummary(t *testing.T) {
	out := format.Summary(reports(), format.Markdown)

	for _, want := range []string{"CO_Alpha", "SCO_Bravo", "v3", "v2", "yes", "2 contracts", "1 failing", "✗", "✓"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in summary:\n%s", want, out)
		}
	}
}

func TestFindings(t *testing.T) {
	out := format.Findings(reports(), format.ASCII)
	if !strings.Contains(out, "Respawn not found") || !strings.Contains(out, "Mission file") {
		t.Errorf("unexpected findings table:\n%s", out)
	}
	if got := format.Findings([]*mission.Report{{Name: "clean"}}, format.ASCII); got != "" {
		t.Errorf("expected empty output for clean reports, got:\n%s", got)
	}
}

func TestFindings_WrapsLongMessages(t *testing.T) {
	long := strings.Repeat("word ", 40)
	reps := []*mission.Report{{Name: "CO_Alpha", Findings: []mission.Finding{
		{Severity: mission.SeverityError, Kind: mission.KindMission, Message: long},
	}}}
	out := format.Findings(reps, format.ASCII)
	for _, line := range strings.Split(out, "\n") {
		if n := len([]rune(line)); n > 140 {
			t.Errorf("line of %d runes, expected the message column to wrap:\n%s", n, out)
		}
	}
	if strings.Count(out, "word") != 40 {
		t.Errorf("wrapping must keep every word:\n%s", out)
	}
}

func TestStepSummary(t *testing.T) {
	out := format.StepSummary(reports())
	if !strings.Contains(out, "CO_Alpha") || !strings.Contains(out, "Respawn not found") {
		t.Errorf("expected summary and findings tables:\n%s", out)
	}
	clean := format.StepSummary([]*mission.Report{{Name: "clean"}})
	if strings.Contains(strings.ToLower(clean), "severity") {
		t.Errorf("clean run should not render a findings table:\n%s", clean)
	}
}

func TestFmtDuration(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{250 * time.Millisecond, "250ms"},
		{5 * time.Second, "5s"},
		{125 * time.Second, "2m 5s"},
	}
	for _, tc := range cases {
		if got := format.FmtDuration(tc.d); got != tc.want {
			t.Errorf("FmtDuration(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

