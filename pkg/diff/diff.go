// Package diff implements the LineDiffer: it reduces two texts to an
// ordered list of line-level Changes anchored against the baseline text.
package diff

import (
	"github.com/pmezard/go-difflib/difflib"
)

// Change is exactly one line of content plus flags describing how it
// relates to the baseline, and the baseline line number it is anchored to.
//
// For Added changes, LineNumber is the last baseline line seen before the
// insertion, i.e. the line the insertion follows (-1 when it precedes the
// first baseline line). For Removed or common changes, it is the baseline
// line the change refers to.
type Change struct {
	Value      string
	Added      bool
	Removed    bool
	LineNumber int

	// Conflicted and ConflictGroup are set by the Merger (package merge);
	// the differ never sets them.
	Conflicted    bool
	ConflictGroup string
}

// ChangeList is an ordered sequence of Change, representing one file
// version relative to the baseline.
type ChangeList []Change

// Diff computes the line-level change list of current against baseline.
// If current is omitted, it returns the self-diff of baseline — a sequence
// of commons only, one per line.
func Diff(baseline string, current ...string) ChangeList {
	cur := baseline
	if len(current) > 0 {
		cur = current[0]
	}

	baseLines := splitLines(baseline)
	curLines := splitLines(cur)

	if len(baseLines) == 0 && len(curLines) == 0 {
		return ChangeList{}
	}

	matcher := difflib.NewMatcher(baseLines, curLines)
	opcodes := matcher.GetOpCodes()

	changes := make(ChangeList, 0, len(baseLines)+len(curLines))
	counter := 0

	emitCommonOrRemoved := func(value string, removed bool) {
		changes = append(changes, Change{
			Value:      value,
			Removed:    removed,
			LineNumber: counter,
		})
		counter++
	}
	emitAdded := func(value string) {
		changes = append(changes, Change{
			Value:      value,
			Added:      true,
			LineNumber: counter - 1,
		})
	}

	for _, op := range opcodes {
		switch op.Tag {
		case 'e':
			for _, line := range baseLines[op.I1:op.I2] {
				emitCommonOrRemoved(line, false)
			}
		case 'd':
			for _, line := range baseLines[op.I1:op.I2] {
				emitCommonOrRemoved(line, true)
			}
		case 'i':
			for _, line := range curLines[op.J1:op.J2] {
				emitAdded(line)
			}
		case 'r':
			for _, line := range baseLines[op.I1:op.I2] {
				emitCommonOrRemoved(line, true)
			}
			for _, line := range curLines[op.J1:op.J2] {
				emitAdded(line)
			}
		}
	}

	return changes
}

// splitLines splits s into lines, each retaining its trailing "\n" except
// a final line that had none in the source text. Unlike a naive
// strings.Split, it never fabricates an empty trailing element for a
// string that ends in "\n".
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i+1])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

// Text reconstitutes the text represented by a ChangeList: the
// concatenation of the value of every non-removed change, in order. This
// is the operation MergeBlock reconstitution and the Merger's baseline
// lookup both rely on.
func (cl ChangeList) Text() string {
	var out []byte
	for _, c := range cl {
		if c.Removed {
			continue
		}
		out = append(out, c.Value...)
	}
	return string(out)
}
