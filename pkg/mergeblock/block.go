// Package mergeblock implements the BlockParser: converting a merged
// ChangeList to and from a sequence of OK/CONFLICT merge blocks, and
// serializing blocks to conflict-fenced text.
package mergeblock

import (
	"strings"

	"github.com/arthur-debert/overlayforge/pkg/diff"
)

// Kind distinguishes the two MergeBlock shapes.
type Kind int

const (
	OK Kind = iota
	Conflict
)

// Block is a contiguous run of output lines, either a non-conflicting OK
// run or a CONFLICT with two alternative line groups.
type Block struct {
	Kind    Kind
	Lines   []string // OK
	Former  []string // CONFLICT
	Current []string // CONFLICT
	Ignored bool     // CONFLICT
}

// Blocks is an ordered sequence of Block. Adjacent blocks never share a
// kind except that consecutive OK runs are coalesced during construction.
type Blocks []Block

// ToBlocks walks a merged ChangeList and groups it into OK/CONFLICT blocks.
// Removed changes are skipped entirely. A conflicted change is appended to
// the tail CONFLICT block's group named by its ConflictGroup (opening one
// if the tail isn't a CONFLICT); any other change is appended to the tail
// OK block's Lines (opening one if the tail is a CONFLICT or the list is
// empty).
func ToBlocks(cl diff.ChangeList) Blocks {
	var blocks Blocks

	for _, c := range cl {
		if c.Removed {
			continue
		}

		if c.Conflicted {
			if len(blocks) == 0 || blocks[len(blocks)-1].Kind != Conflict {
				blocks = append(blocks, Block{Kind: Conflict})
			}
			tail := &blocks[len(blocks)-1]
			group := c.ConflictGroup
			if group == "" {
				group = "current"
			}
			switch group {
			case "former":
				tail.Former = append(tail.Former, c.Value)
			default:
				tail.Current = append(tail.Current, c.Value)
			}
			continue
		}

		if len(blocks) == 0 || blocks[len(blocks)-1].Kind != OK {
			blocks = append(blocks, Block{Kind: OK})
		}
		tail := &blocks[len(blocks)-1]
		tail.Lines = append(tail.Lines, c.Value)
	}

	return blocks
}

// ToText serializes blocks back to text. OK blocks are simply
// concatenated; CONFLICT blocks render as a fence with both groups'
// literal text, each marker on its own line.
func ToText(blocks Blocks) string {
	var b strings.Builder
	for _, blk := range blocks {
		switch blk.Kind {
		case OK:
			for _, l := range blk.Lines {
				b.WriteString(l)
			}
		case Conflict:
			if blk.Ignored {
				// Still counted by HasConflictBlock, excluded from
				// PendingConflicts; renders as plain text, current group wins.
				for _, l := range blk.Current {
					b.WriteString(l)
				}
				continue
			}
			b.WriteString("<<<<<<< former\n")
			for _, l := range blk.Former {
				b.WriteString(l)
			}
			b.WriteString("=======\n")
			for _, l := range blk.Current {
				b.WriteString(l)
			}
			b.WriteString(">>>>>>> current\n")
		}
	}
	return b.String()
}

// FromText is equivalent to ToBlocks(Diff(content)) — a plain, conflict-free
// rendering of content as a single OK block (or none, if content is empty).
func FromText(content string) Blocks {
	return ToBlocks(diff.Diff(content))
}

// HasConflictBlock reports whether blocks contains any CONFLICT block,
// including ignored ones — an ignored conflict is still reported in the
// Orchestrator's conflicts list even though it renders resolved text.
func HasConflictBlock(blocks Blocks) bool {
	for _, b := range blocks {
		if b.Kind == Conflict {
			return true
		}
	}
	return false
}

// PendingConflicts returns the indices of blocks that are CONFLICT and not
// yet ignored — the set the ResolverLoop still has work to do on.
func PendingConflicts(blocks Blocks) []int {
	var idx []int
	for i, b := range blocks {
		if b.Kind == Conflict && !b.Ignored {
			idx = append(idx, i)
		}
	}
	return idx
}
