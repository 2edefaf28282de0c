// Package mission validates contract folders against the mission template.
//
// Each contract declares a template version in do_not_edit/description.ext;
// the matching rule set checks the editable description, mission.sqm and,
// from v3 on, the briefing fragments. Problems are collected as Findings and
// never abort the scan of other contracts.
package mission

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Options configures a Checker.
type Options struct {
	// TemplateURL and MissionsURL prefix the documentation links of findings.
	TemplateURL string
	MissionsURL string
	// Prefixes are the accepted contract name prefixes; empty disables the check.
	Prefixes []string
	// Parallel > 1 validates contracts concurrently.
	Parallel int
	Logger   *slog.Logger
}

// Checker validates contracts under a root directory.
type Checker struct {
	root string
	opts Options
	log  *slog.Logger
}

// NewChecker returns a Checker for contracts under root.
func NewChecker(root string, opts Options) *Checker {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Parallel < 1 {
		opts.Parallel = 1
	}
	return &Checker{root: root, opts: opts, log: log}
}

// Root returns the contracts directory.
func (c *Checker) Root() string { return c.root }

// CheckAll validates every named contract. Reports come back in input order
// regardless of Parallel. Only context cancellation returns an error.
func (c *Checker) CheckAll(ctx context.Context, names []string) ([]*Report, error) {
	reports := make([]*Report, len(names))
	if c.opts.Parallel > 1 {
		g, gCtx := errgroup.WithContext(ctx)
		g.SetLimit(c.opts.Parallel)
		for i, name := range names {
			g.Go(func() error {
				if err := gCtx.Err(); err != nil {
					return err
				}
				reports[i] = c.Check(name)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return reports, nil
	}
	for i, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		reports[i] = c.Check(name)
	}
	return reports, nil
}

// Check validates a single contract.
func (c *Checker) Check(name string) *Report {
	rep := &Report{Name: name}
	c.check(rep, filepath.Join(c.root, name))
	c.logReport(rep)
	return rep
}

func (c *Checker) check(rep *Report, dir string) {
	desc, ok, err := readText(filepath.Join(dir, versionDescription))
	if err != nil {
		rep.errorf(KindLayout, "", "%s unreadable: %v", versionDescription, err)
		return
	}
	if !ok {
		rep.errorf(KindLayout, c.opts.TemplateURL, "Not using template")
		return
	}

	v, err := ParseVersion(desc)
	if err != nil {
		var unsupported *UnsupportedVersionError
		if errors.As(err, &unsupported) {
			rep.add(SeverityError, KindVersion, unsupported.Error(), "")
			return
		}
		rep.errorf(KindVersion, "", "%v", err)
		return
	}
	rep.Version = v
	c.log.Info("using template", "contract", rep.Name, "version", v.String())

	if !c.checkDescription(rep, dir, rules[v]) {
		return
	}
	c.checkPrefix(rep)
	c.checkMission(rep, dir, rules[v])
	if rules[v].briefings {
		c.checkBriefings(rep, dir)
	}
	if v == V2 {
		rep.warnf(KindVersion, "", "`Using old template: v2`")
	}
}

// checkDescription returns false when the editable description is missing,
// which ends the check for this contract.
func (c *Checker) checkDescription(rep *Report, dir string, rs ruleSet) bool {
	desc, ok, err := readText(filepath.Join(dir, editDescription))
	if err != nil {
		rep.errorf(KindDescription, "", "%s unreadable: %v", editDescription, err)
		return false
	}
	if !ok {
		rep.errorf(KindLayout, c.opts.TemplateURL, "Not using template")
		return false
	}
	details := c.opts.TemplateURL + "#mission-details"

	if name, ok := field(rs.name, desc); !ok || name == placeholderName {
		rep.errorf(KindDescription, details, "description.ext: Name not set (OnLoadName)")
	}

	if summary, ok := field(rs.summary, desc); !ok || summary == placeholderSummary {
		rep.errorf(KindDescription, details, "description.ext: Summary not set (OnLoadMission)")
	} else if rs.punctuation {
		switch {
		case strings.HasSuffix(summary, "."):
			rep.warnf(KindDescription, details, "description.ext: Summary ends with a period")
		case strings.Contains(summary, ". "):
			rep.warnf(KindDescription, details, "description.ext: Summary should be a single sentence")
		}
	}

	if author, ok := field(rs.author, desc); !ok || strings.HasPrefix(author, placeholderAuthor) {
		rep.errorf(KindDescription, details, "description.ext: Author not set (author)")
	}
	return true
}

func (c *Checker) checkPrefix(rep *Report) {
	if len(c.opts.Prefixes) == 0 {
		return
	}
	for _, p := range c.opts.Prefixes {
		if strings.HasPrefix(rep.Name, p) {
			return
		}
	}
	rep.warnf(KindLayout, c.opts.MissionsURL+"#create-a-new-mission",
		"Folder name should start with one of %s", strings.Join(c.opts.Prefixes, ", "))
}

func (c *Checker) checkMission(rep *Report, dir string, rs ruleSet) {
	mission, ok, err := readText(filepath.Join(dir, missionFile))
	if err != nil {
		rep.errorf(KindMission, "", "mission.sqm unreadable: %v", err)
		return
	}
	if !ok {
		rep.errorf(KindMission, c.opts.MissionsURL+"#create-a-new-mission", "mission.sqm not found")
		return
	}
	if isBinarized(mission) {
		rep.errorf(KindMission, c.opts.MissionsURL+"#create-a-new-mission", "mission.sqm: Binarized")
		return
	}
	for _, m := range rs.markers {
		if !strings.Contains(mission, m.needle) {
			rep.errorf(KindMission, c.opts.TemplateURL+m.anchor, "%s", m.message)
		}
	}
}

func (c *Checker) checkBriefings(rep *Report, dir string) {
	for _, b := range briefings {
		file := b.title + ".html"
		text, ok, err := readText(filepath.Join(dir, briefingDir, file))
		if err != nil {
			rep.errorf(KindBriefing, "", "%s unreadable: %v", file, err)
			continue
		}
		if !ok {
			if !b.optional {
				rep.errorf(KindBriefing, "", "%s not found", file)
			}
			continue
		}
		if strings.Contains(text, "INSERT") {
			rep.errorf(KindBriefing, "", "%s: Not edited", file)
		}
	}
}

func (c *Checker) logReport(rep *Report) {
	for _, f := range rep.Findings {
		attrs := []any{"contract", rep.Name, "kind", string(f.Kind)}
		if f.Severity == SeverityError {
			c.log.Error(f.Message, attrs...)
		} else {
			c.log.Warn(f.Message, attrs...)
		}
	}
	if !rep.HasErrors() {
		c.log.Info("contract passed", "contract", rep.Name)
	}
}

// String summarises the report on one line.
func (r *Report) String() string {
	return fmt.Sprintf("%s: %d error(s), %d warning(s)", r.Name, len(r.Errors()), len(r.Warnings()))
}
