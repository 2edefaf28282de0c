package annotation

import (
	"strings"

	"github.com/sethvargo/go-githubactions"

	"missionci/internal/review"
)

// Emit writes the annotation as a workflow command on the runner.
func Emit(action *githubactions.Action, a Annotation) {
	act := action.WithFieldsMap(a.Properties())
	switch a.Level {
	case LevelError:
		act.Errorf("%s", a.Message)
	case LevelWarning:
		act.Warningf("%s", a.Message)
	default:
		act.Noticef("%s", a.Message)
	}
}

// Group turns annotations into review sections keyed by path, in first-seen
// order. Only paths referenced by a changed file count: errors block and add
// their message, warnings only add their message. Notices are ignored.
func Group(annotations []Annotation, changed []string, dedupe bool) []review.Section {
	var sections []review.Section
	index := make(map[string]int)
	for _, a := range annotations {
		if a.Level == LevelNotice || !touched(a.Path, changed) {
			continue
		}
		i, ok := index[a.Path]
		if !ok {
			i = len(sections)
			index[a.Path] = i
			sections = append(sections, review.Section{Title: a.Path})
		}
		sections[i].Messages = append(sections[i].Messages, a.Message)
		if a.Level == LevelError {
			sections[i].Failed = true
		}
	}
	if dedupe {
		sections = review.Dedupe(sections)
	}
	return sections
}

func touched(path string, changed []string) bool {
	if path == "" {
		return false
	}
	for _, f := range changed {
		if strings.Contains(f, path) {
			return true
		}
	}
	return false
}
