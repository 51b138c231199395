// Package globmatch implements the GlobMatcher: per-file merge/delete policy
// resolution from template-declared glob lists.
package globmatch

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// Kind names a policy list a pathname can be tested against.
type Kind string

const (
	Merge  Kind = "merge"
	Delete Kind = "delete"
)

// Policy is the raw glob lists as declared by a single template.
type Policy struct {
	Merge  []string
	Delete []string
}

// Matcher resolves per-file policy from one or more Policy declarations,
// unioned together. Absent keys behave as empty lists.
type Matcher struct {
	merge  []glob.Glob
	delete []glob.Glob
}

// New compiles matchers from the union of every given Policy's glob lists.
// Policies are typically the main template's plus every activated extend
// template's, in any order — union is order-independent.
func New(policies ...Policy) (*Matcher, error) {
	m := &Matcher{}
	for _, p := range policies {
		for _, pattern := range withTopLevel(p.Merge) {
			g, err := glob.Compile(pattern, '/')
			if err != nil {
				return nil, fmt.Errorf("globmatch: invalid merge pattern %q: %w", pattern, err)
			}
			m.merge = append(m.merge, g)
		}
		for _, pattern := range withTopLevel(p.Delete) {
			g, err := glob.Compile(pattern, '/')
			if err != nil {
				return nil, fmt.Errorf("globmatch: invalid delete pattern %q: %w", pattern, err)
			}
			m.delete = append(m.delete, g)
		}
	}
	return m, nil
}

// withTopLevel returns patterns plus, for each one starting with "**/", the
// same pattern without that prefix, so "**/*.tmp" also matches "x.tmp".
func withTopLevel(patterns []string) []string {
	out := append([]string(nil), patterns...)
	for _, p := range patterns {
		if strings.HasPrefix(p, "**/") {
			out = append(out, strings.TrimPrefix(p, "**/"))
		}
	}
	return out
}

// Match reports whether pathname matches any glob declared for kind.
func (m *Matcher) Match(pathname string, kind Kind) bool {
	var globs []glob.Glob
	switch kind {
	case Merge:
		globs = m.merge
	case Delete:
		globs = m.delete
	default:
		return false
	}
	for _, g := range globs {
		if g.Match(pathname) {
			return true
		}
	}
	return false
}
