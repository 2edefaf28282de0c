package mission

import (
	"regexp"
	"strings"
)

// ruleSet is the version-specific part of a check.
type ruleSet struct {
	name    *regexp.Regexp
	summary *regexp.Regexp
	author  *regexp.Regexp
	markers []marker
	// briefings enables the briefing fragment checks.
	briefings bool
	// punctuation enables the summary style warnings.
	punctuation bool
}

// marker is a substring mission.sqm must contain.
type marker struct {
	needle  string
	message string
	anchor  string
}

const (
	placeholderName    = "MISSION NAME"
	placeholderSummary = "MISSION SUMMARY"
	// placeholderAuthor is a prefix; the template reads "YOUR NAME (...)".
	placeholderAuthor = "YOUR NAME"
)

var (
	spectatorMarker  = marker{`type="synixe_spectator_screen"`, "Spectator Screen not found", "#setup-base"}
	respawnMarker    = marker{`name="respawn"`, "Respawn not found", "#setup-base"}
	contractorMarker = marker{`description="Contractor"`, `No "Contractor" units found`, "#setup-the-players"}
	unitMarker       = marker{`type="synixe_contractors_Unit_I_Contractor"`, `No "synixe_contractors_Unit_I_Contractor" units found`, "#setup-the-players"}
	playableMarker   = marker{`isPlayable=1`, "No playable units found", "#setup-the-players"}
)

var rules = map[Version]ruleSet{
	V2: {
		name:    regexp.MustCompile(`OnLoadName = "(.+?)";`),
		summary: regexp.MustCompile(`OnLoadMission = "(.+?)";`),
		author:  regexp.MustCompile(`author = "(.+?)";`),
		markers: []marker{
			spectatorMarker,
			{`property="persistent_gear_shop_arsenal_attribute_shop"`, "Shop not found", "#setup-shops"},
			respawnMarker,
			contractorMarker,
			unitMarker,
			playableMarker,
		},
	},
	V3: {
		name:    regexp.MustCompile(`(?m)^OnLoadName = "(.+?)";$`),
		summary: regexp.MustCompile(`(?m)^OnLoadMission = "(.+?)";$`),
		author:  regexp.MustCompile(`(?m)^author = "(.+?)";$`),
		markers: []marker{
			spectatorMarker,
			{`property="crate_client_gear_attribute_shop"`, "Shop not found", "#setup-shops"},
			respawnMarker,
			contractorMarker,
			unitMarker,
			playableMarker,
		},
		briefings:   true,
		punctuation: true,
	},
}

// field returns the first capture of re in s.
func field(re *regexp.Regexp, s string) (string, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// isBinarized reports whether mission.sqm was saved in binary form.
func isBinarized(mission string) bool {
	return !strings.HasPrefix(mission, "version")
}
