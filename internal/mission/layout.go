package mission

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Paths inside a contract folder.
const (
	versionDescription = "do_not_edit/description.ext"
	editDescription    = "edit_me/description.ext"
	missionFile        = "mission.sqm"
	briefingDir        = "edit_me/briefing"
)

// Briefing fragments checked by the v3 rule set, in reporting order.
var briefings = []struct {
	title    string
	optional bool
}{
	{"employer", false},
	{"mission", false},
	{"objectives", false},
	{"situation", false},
	{"restrictions", true},
}

// Discover lists contract folder names under root, sorted by name.
func Discover(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("discover contracts: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// MarkChanged sets InPR on every report whose folder contains a changed path.
func MarkChanged(reports []*Report, root string, changed []string) {
	for _, r := range reports {
		prefix := filepath.ToSlash(filepath.Join(root, r.Name)) + "/"
		for _, f := range changed {
			if strings.HasPrefix(filepath.ToSlash(f), prefix) {
				r.InPR = true
				break
			}
		}
	}
}

// readText returns the file content with CRLF normalised. ok is false when
// the file does not exist.
func readText(path string) (content string, ok bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return strings.ReplaceAll(string(data), "\r\n", "\n"), true, nil
}
