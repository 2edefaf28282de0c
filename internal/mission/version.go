package mission

import (
	"regexp"
	"strconv"
)

// Version is a supported template version.
type Version int

const (
	V2 Version = 2
	V3 Version = 3
)

// DefaultVersion is assumed when the description declares none.
const DefaultVersion = V2

func (v Version) String() string { return "v" + strconv.Itoa(int(v)) }

// UnsupportedVersionError reports a declared template version without a rule set.
// Declared is -1 when Raw does not fit an int.
type UnsupportedVersionError struct {
	Declared int
	Raw      string
}

func (e *UnsupportedVersionError) Error() string {
	return "Unknown version: " + e.Raw
}

var templateVersionRe = regexp.MustCompile(`(?m)^synixe_template = (\d+);`)

// ParseVersion extracts the template version from description content.
// Missing declarations yield DefaultVersion.
func ParseVersion(description string) (Version, error) {
	m := templateVersionRe.FindStringSubmatch(description)
	if m == nil {
		return DefaultVersion, nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, &UnsupportedVersionError{Declared: -1, Raw: m[1]}
	}
	switch v := Version(n); v {
	case V2, V3:
		return v, nil
	}
	return 0, &UnsupportedVersionError{Declared: n, Raw: m[1]}
}
