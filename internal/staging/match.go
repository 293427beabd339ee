package staging

import (
	"fmt"
	"path"
	"strings"

	"github.com/gobwas/glob"
)

// Matcher tests slash-separated relative paths against a glob list.
//
// A pattern without a slash matches the file's basename or the whole path.
// A pattern with a slash matches the whole path, with '*' confined to one
// segment and '**' spanning any number of them; a leading "**/" also matches
// files at the top level.
type Matcher struct {
	patterns []string
	globs    []compiledPattern
}

type compiledPattern struct {
	whole    glob.Glob
	topLevel glob.Glob
	basename bool
}

// CompileMatcher compiles patterns. Blank patterns are ignored.
func CompileMatcher(patterns []string) (*Matcher, error) {
	m := &Matcher{}
	for _, raw := range patterns {
		p := strings.TrimPrefix(strings.TrimSpace(raw), "./")
		if p == "" {
			continue
		}
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", raw, err)
		}
		cp := compiledPattern{whole: g, basename: !strings.Contains(p, "/")}
		if rest, ok := strings.CutPrefix(p, "**/"); ok {
			if cp.topLevel, err = glob.Compile(rest, '/'); err != nil {
				return nil, fmt.Errorf("invalid glob %q: %w", raw, err)
			}
		}
		m.patterns = append(m.patterns, p)
		m.globs = append(m.globs, cp)
	}
	return m, nil
}

// MustCompileMatcher is CompileMatcher for fixed pattern sets.
func MustCompileMatcher(patterns []string) *Matcher {
	m, err := CompileMatcher(patterns)
	if err != nil {
		panic(err)
	}
	return m
}

// Empty reports whether the matcher holds no patterns.
func (m *Matcher) Empty() bool { return m == nil || len(m.globs) == 0 }

// Patterns returns the normalized patterns.
func (m *Matcher) Patterns() []string { return m.patterns }

// Match reports whether p matches any pattern.
func (m *Matcher) Match(p string) bool {
	if m == nil {
		return false
	}
	base := path.Base(p)
	for _, g := range m.globs {
		if g.whole.Match(p) {
			return true
		}
		if g.basename && g.whole.Match(base) {
			return true
		}
		if g.topLevel != nil && g.topLevel.Match(p) {
			return true
		}
	}
	return false
}

// Filter returns the paths that match (keep=true) or do not match
// (keep=false) the matcher, preserving order.
func (m *Matcher) Filter(paths []string, keep bool) []string {
	out := []string{}
	for _, p := range paths {
		if m.Match(p) == keep {
			out = append(out, p)
		}
	}
	return out
}
