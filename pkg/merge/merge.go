// Package merge implements the Merger: it combines a baseline ChangeList
// with N overlay ChangeLists into a single ChangeList, flagging any baseline
// anchor that more than one overlay inserts at as conflicted.
package merge

import (
	"github.com/arthur-debert/overlayforge/pkg/diff"
)

type patchEntry struct {
	changes     []diff.Change
	modifyCount int
}

// Merge combines baseline with the given overlays, in the order supplied
// (main first, then extends in enqueue order). Returns an empty ChangeList
// if baseline is empty. Returns baseline unchanged if overlays is empty.
// Overlay changes whose LineNumber falls outside the baseline range are
// silently dropped.
func Merge(baseline diff.ChangeList, overlays []diff.ChangeList) diff.ChangeList {
	if len(baseline) == 0 {
		return diff.ChangeList{}
	}
	if len(overlays) == 0 {
		return baseline
	}

	// Work on a mutable copy of the baseline so overlay "removed" changes
	// can flip the Removed flag without touching the caller's data.
	out := make(diff.ChangeList, len(baseline))
	copy(out, baseline)

	byLine := make(map[int]int, len(out)) // baseline LineNumber -> index in out
	for i, c := range out {
		byLine[c.LineNumber] = i
	}
	minLine, maxLine := out[0].LineNumber, out[len(out)-1].LineNumber

	patchTable := make(map[int]*patchEntry)
	inRange := func(line int) bool {
		return line == -1 || (line >= minLine && line <= maxLine)
	}

	for _, overlay := range overlays {
		seenAnchors := make(map[int]bool)
		for _, c := range overlay {
			switch {
			case c.Added:
				if !inRange(c.LineNumber) {
					continue
				}
				entry := patchTable[c.LineNumber]
				if entry == nil {
					entry = &patchEntry{}
					patchTable[c.LineNumber] = entry
				}
				entry.changes = append(entry.changes, c)
				if !seenAnchors[c.LineNumber] {
					seenAnchors[c.LineNumber] = true
					entry.modifyCount++
				}
			case c.Removed:
				idx, ok := byLine[c.LineNumber]
				if !ok {
					continue
				}
				out[idx].Removed = true
			}
		}
	}

	for _, entry := range patchTable {
		if entry.modifyCount > 1 {
			for i := range entry.changes {
				entry.changes[i].Conflicted = true
				entry.changes[i].ConflictGroup = "current"
			}
		}
	}

	return assemble(out, patchTable)
}

// assemble interleaves baseline lines and patch insertions: the virtual
// anchor -1 (insertions before baseline's first line) is emitted first,
// then each baseline line followed immediately by any insertions anchored
// at it.
func assemble(baseline diff.ChangeList, patchTable map[int]*patchEntry) diff.ChangeList {
	out := make(diff.ChangeList, 0, len(baseline))

	if entry, ok := patchTable[-1]; ok {
		out = append(out, entry.changes...)
	}

	for _, c := range baseline {
		out = append(out, c)
		if entry, ok := patchTable[c.LineNumber]; ok {
			out = append(out, entry.changes...)
		}
	}

	return out
}

