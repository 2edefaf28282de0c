// Package display provides human-readable names for machine codes and a
// styled terminal rendering of contract reports.
//
// Code is for machines, words are for humans: keep raw values for logs and
// comparisons, use these in CLI output.
package display

import (
	"missionci/internal/mission"
	"missionci/internal/review"
)

var kinds = map[mission.Kind]string{
	mission.KindLayout:      "Layout",
	mission.KindVersion:     "Template version",
	mission.KindDescription: "Description",
	mission.KindMission:     "Mission file",
	mission.KindBriefing:    "Briefing",
}

// Kind returns the human-readable name for a finding kind.
// Unknown kinds are returned as-is.
func Kind(k mission.Kind) string {
	if name, ok := kinds[k]; ok {
		return name
	}
	return string(k)
}

// Version returns "v2", "v3" or "unknown" for the zero value.
func Version(v mission.Version) string {
	if v == 0 {
		return "unknown"
	}
	return v.String()
}

var events = map[review.Event]string{
	review.EventApprove:        "Approve",
	review.EventRequestChanges: "Request changes",
	review.EventComment:        "Comment",
}

// Event returns the human-readable review action.
func Event(e review.Event) string {
	if name, ok := events[e]; ok {
		return name
	}
	return string(e)
}
