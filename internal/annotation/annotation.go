// Package annotation decodes the line-oriented diagnostics written by the
// missionreviewer binary and relays them as workflow annotations and review
// sections.
package annotation

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// LogFile is the name of the log the binary writes next to the working directory.
const LogFile = "missionreviewer.log"

const (
	delimiter  = "||"
	fieldCount = 8
)

// ErrNoLog is returned by ReadLog when the binary produced no log.
var ErrNoLog = errors.New("no annotations file found")

// Level is the severity of an annotation.
type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelNotice  Level = "notice"
)

// Annotation is one diagnostic line.
type Annotation struct {
	StartLine   int
	EndLine     int
	StartColumn int
	EndColumn   int
	Level       Level
	Title       string
	Message     string
	Path        string
}

// Parse decodes start_line||end_line||start_col||end_col||level||title||message||path.
// The delimiter cannot be escaped.
func Parse(line string) (Annotation, error) {
	parts := strings.Split(line, delimiter)
	if len(parts) != fieldCount {
		return Annotation{}, fmt.Errorf("parse annotation: want %d fields, got %d", fieldCount, len(parts))
	}

	var nums [4]int
	for i := range 4 {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return Annotation{}, fmt.Errorf("parse annotation: field %d: %w", i+1, err)
		}
		nums[i] = n
	}

	lvl := Level(parts[4])
	switch lvl {
	case LevelError, LevelWarning, LevelNotice:
	default:
		return Annotation{}, fmt.Errorf("parse annotation: unknown level %q", parts[4])
	}

	return Annotation{
		StartLine:   nums[0],
		EndLine:     nums[1],
		StartColumn: nums[2],
		EndColumn:   nums[3],
		Level:       lvl,
		Title:       parts[5],
		Message:     parts[6],
		Path:        parts[7],
	}, nil
}

// Properties returns the workflow-command fields for the annotation.
// Columns are only meaningful on a single line and are omitted otherwise.
func (a Annotation) Properties() map[string]string {
	props := map[string]string{
		"file":    a.Path,
		"title":   a.Title,
		"line":    strconv.Itoa(a.StartLine),
		"endLine": strconv.Itoa(a.EndLine),
	}
	if a.StartLine == a.EndLine {
		props["col"] = strconv.Itoa(a.StartColumn)
		props["endColumn"] = strconv.Itoa(a.EndColumn)
	}
	return props
}

// ReadLog parses every non-empty line of the log at path. Malformed lines
// are logged and skipped.
func ReadLog(path string, logger *slog.Logger) ([]Annotation, error) {
	if logger == nil {
		logger = slog.Default()
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoLog
	}
	if err != nil {
		return nil, fmt.Errorf("read annotations: %w", err)
	}
	defer f.Close()

	var out []Annotation
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		a, err := Parse(line)
		if err != nil {
			logger.Warn("skipping malformed annotation", "line", lineNo, "error", err)
			continue
		}
		out = append(out, a)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read annotations: %w", err)
	}
	logger.Info("annotations loaded", "count", len(out))
	return out, nil
}
