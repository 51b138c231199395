package resolver_test

import (
	"context"
	"errors"
	"testing"

	"github.com/arthur-debert/overlayforge/pkg/mergeblock"
	"github.com/arthur-debert/overlayforge/pkg/mergetable"
	"github.com/arthur-debert/overlayforge/pkg/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func conflictBlocks() mergeblock.Blocks {
	return mergeblock.Blocks{
		{Kind: mergeblock.OK, Lines: []string{"A\n"}},
		{Kind: mergeblock.Conflict, Former: []string{"X\n"}, Current: []string{"Y\n"}},
		{Kind: mergeblock.OK, Lines: []string{"B\n"}},
	}
}

func TestSolveNilSolverIsNoop(t *testing.T) {
	table := mergetable.New()
	table.Set("f.txt", conflictBlocks())

	err := resolver.Solve(context.Background(), table, nil)
	require.NoError(t, err)

	blocks, _ := table.Get("f.txt")
	assert.False(t, blocks[1].Ignored)
}

func TestSolveResolvedOverwritesBlock(t *testing.T) {
	table := mergetable.New()
	table.Set("f.txt", conflictBlocks())

	err := resolver.Solve(context.Background(), table, func(ctx context.Context, item resolver.Item) (resolver.Verdict, mergeblock.Block, error) {
		return resolver.Resolved, mergeblock.Block{Lines: []string{"Z\n"}}, nil
	})
	require.NoError(t, err)

	blocks, _ := table.Get("f.txt")
	assert.Equal(t, mergeblock.OK, blocks[1].Kind)
	assert.Equal(t, "A\nZ\nB\n", mergeblock.ToText(blocks))
	assert.Empty(t, mergeblock.PendingConflicts(blocks))
}

func TestSolveIgnoredMarksBlockButKeepsConflictKind(t *testing.T) {
	table := mergetable.New()
	table.Set("f.txt", conflictBlocks())

	err := resolver.Solve(context.Background(), table, func(ctx context.Context, item resolver.Item) (resolver.Verdict, mergeblock.Block, error) {
		return resolver.Ignored, mergeblock.Block{}, nil
	})
	require.NoError(t, err)

	blocks, _ := table.Get("f.txt")
	assert.True(t, blocks[1].Ignored)
	assert.True(t, mergeblock.HasConflictBlock(blocks))
	assert.Empty(t, mergeblock.PendingConflicts(blocks))
	assert.Equal(t, "A\nY\nB\n", mergeblock.ToText(blocks))
}

func TestSolveDeferEventuallyResolves(t *testing.T) {
	table := mergetable.New()
	table.Set("f.txt", conflictBlocks())

	calls := 0
	err := resolver.Solve(context.Background(), table, func(ctx context.Context, item resolver.Item) (resolver.Verdict, mergeblock.Block, error) {
		calls++
		if calls < 3 {
			return resolver.Defer, mergeblock.Block{}, nil
		}
		return resolver.Resolved, mergeblock.Block{Lines: []string{"Z\n"}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	blocks, _ := table.Get("f.txt")
	assert.Empty(t, mergeblock.PendingConflicts(blocks))
}

func TestSolvePropagatesCallbackError(t *testing.T) {
	table := mergetable.New()
	table.Set("f.txt", conflictBlocks())

	sentinel := errors.New("boom")
	err := resolver.Solve(context.Background(), table, func(ctx context.Context, item resolver.Item) (resolver.Verdict, mergeblock.Block, error) {
		return resolver.Resolved, mergeblock.Block{}, sentinel
	})
	assert.ErrorIs(t, err, sentinel)
}

func TestSolveVisitsPathnamesInInsertionOrder(t *testing.T) {
	table := mergetable.New()
	table.Set("b.txt", conflictBlocks())
	table.Set("a.txt", conflictBlocks())

	var order []string
	err := resolver.Solve(context.Background(), table, func(ctx context.Context, item resolver.Item) (resolver.Verdict, mergeblock.Block, error) {
		order = append(order, item.Pathname)
		return resolver.Resolved, mergeblock.Block{Lines: []string{"Z\n"}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"b.txt", "a.txt"}, order)
}
