package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"missionci/internal/mission"
)

var (
	passStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4CAF50"))
	failStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5C07B"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	nameStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
)

// Report renders one contract report for the terminal.
func Report(r *mission.Report) string {
	var head string
	if r.HasErrors() {
		head = failStyle.Render("FAIL")
	} else {
		head = passStyle.Render("PASS")
	}
	meta := Version(r.Version)
	if r.InPR {
		meta += ", in PR"
	}
	lines := []string{fmt.Sprintf("%s %s %s", head, nameStyle.Render(r.Name), mutedStyle.Render("("+meta+")"))}

	for _, f := range r.Findings {
		label := Kind(f.Kind) + ": " + f.Message
		switch f.Severity {
		case mission.SeverityError:
			lines = append(lines, "  "+failStyle.Render("✗")+" "+label)
		default:
			lines = append(lines, "  "+warnStyle.Render("! "+label))
		}
		if f.Link != "" {
			lines = append(lines, "    "+mutedStyle.Render(f.Link))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// Reports renders every report, separated by blank lines.
func Reports(reports []*mission.Report) string {
	parts := make([]string, len(reports))
	for i, r := range reports {
		parts[i] = Report(r)
	}
	return strings.Join(parts, "\n\n")
}
