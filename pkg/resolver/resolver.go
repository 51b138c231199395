// Package resolver implements the ResolverLoop: it drains every unresolved
// CONFLICT block in a MergeTable through a user-supplied solver callback.
package resolver

import (
	"context"

	"github.com/arthur-debert/overlayforge/pkg/mergeblock"
	"github.com/arthur-debert/overlayforge/pkg/mergetable"
)

// Verdict names what a ConflictSolver decided for one work item.
type Verdict int

const (
	// Defer requeues the item at the head of the work list; the caller
	// isn't ready to decide yet.
	Defer Verdict = iota
	// Ignored marks the block ignored: it remains in the conflicts report
	// but renders its Current group in the output text.
	Ignored
	// Resolved overwrites the block with Resolution, forcing it to OK.
	Resolved
)

// Item is a single unresolved conflict passed to a ConflictSolver.
type Item struct {
	Pathname     string
	Total        int
	Index        int
	CurrentIndex int
	Block        mergeblock.Block
	Content      string
}

// ConflictSolver decides the fate of one conflict block. Resolution is only
// consulted when the returned Verdict is Resolved.
type ConflictSolver func(ctx context.Context, item Item) (Verdict, mergeblock.Block, error)

// workItem is an internal queue entry: a pathname/blockIndex pair plus its
// fixed position in discovery order.
type workItem struct {
	pathname   string
	blockIndex int
	discovered int
}

// Solve builds the work list of every non-ignored CONFLICT block in table,
// in pathname insertion order then block index, and drains it through
// solve. A Defer verdict requeues the item at the head of the (remaining)
// list, so the same item is offered again next and the other items wait
// until it gets a non-Defer verdict. If solve is nil, Solve is a no-op and
// every conflict remains unresolved.
func Solve(ctx context.Context, table *mergetable.Table, solve ConflictSolver) error {
	if solve == nil {
		return nil
	}

	queue := buildQueue(table)
	total := len(queue)
	attempt := 0

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		work := queue[0]
		queue = queue[1:]

		blocks, ok := table.Get(work.pathname)
		if !ok || work.blockIndex >= len(blocks) {
			continue
		}
		block := blocks[work.blockIndex]
		if block.Kind != mergeblock.Conflict || block.Ignored {
			continue
		}

		attempt++
		item := Item{
			Pathname:     work.pathname,
			Total:        total,
			Index:        work.discovered,
			CurrentIndex: attempt,
			Block:        block,
			Content:      mergeblock.ToText(blocks),
		}

		verdict, resolution, err := solve(ctx, item)
		if err != nil {
			return err
		}

		switch verdict {
		case Defer:
			queue = append([]workItem{work}, queue...)
			continue
		case Ignored:
			block.Ignored = true
			blocks[work.blockIndex] = block
			table.Set(work.pathname, blocks)
		case Resolved:
			resolution.Kind = mergeblock.OK
			blocks[work.blockIndex] = resolution
			table.Set(work.pathname, blocks)
		}
	}

	return nil
}

func buildQueue(table *mergetable.Table) []workItem {
	var queue []workItem
	discovered := 0
	for _, pathname := range table.Pathnames() {
		blocks, _ := table.Get(pathname)
		for i, block := range blocks {
			if block.Kind == mergeblock.Conflict && !block.Ignored {
				queue = append(queue, workItem{pathname: pathname, blockIndex: i, discovered: discovered})
				discovered++
			}
		}
	}
	return queue
}
