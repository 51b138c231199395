package diff_test

import (
	"testing"

	"github.com/arthur-debert/overlayforge/pkg/diff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffSelfDiffIsAllCommons(t *testing.T) {
	cl := diff.Diff("1\n2\n3\n")

	require.Len(t, cl, 3)
	for i, c := range cl {
		assert.False(t, c.Added, "line %d should not be added", i)
		assert.False(t, c.Removed, "line %d should not be removed", i)
		assert.Equal(t, i, c.LineNumber)
	}
	assert.Equal(t, "1\n2\n3\n", cl.Text())
}

func TestDiffEmptyBaselineNoCurrent(t *testing.T) {
	cl := diff.Diff("")
	assert.Empty(t, cl)
}

func TestDiffIdenticalCurrentIsAllCommons(t *testing.T) {
	cl := diff.Diff("a\nb\n", "a\nb\n")
	for _, c := range cl {
		assert.False(t, c.Added)
		assert.False(t, c.Removed)
	}
}

func TestDiffInsertion(t *testing.T) {
	cl := diff.Diff("1\n2\n3\n", "1\n1.5\n2\n3\n")

	var added []diff.Change
	for _, c := range cl {
		if c.Added {
			added = append(added, c)
		}
	}
	require.Len(t, added, 1)
	assert.Equal(t, "1.5\n", added[0].Value)
	assert.Equal(t, 0, added[0].LineNumber, "insertion anchors at the last-seen baseline line")
	assert.Equal(t, "1\n1.5\n2\n3\n", cl.Text())
}

func TestDiffRemoval(t *testing.T) {
	cl := diff.Diff("1\n2\n3\n", "1\n3\n")

	var removedCount int
	for _, c := range cl {
		if c.Removed {
			removedCount++
			assert.Equal(t, "2\n", c.Value)
		}
	}
	assert.Equal(t, 1, removedCount)
	assert.Equal(t, "1\n3\n", cl.Text())
}

func TestDiffPreservesMissingTrailingNewline(t *testing.T) {
	cl := diff.Diff("a\nb", "a\nb")
	assert.Equal(t, "a\nb", cl.Text())
}

func TestDiffInvariantReconstructsCurrent(t *testing.T) {
	cases := []struct{ baseline, current string }{
		{"1\n2\n3\n", "1\n2\n3\n"},
		{"1\n2\n3\n", "1\n1.5\n2\n3\n"},
		{"1\n2\n3\n", "1\n3\n"},
		{"A\nB\n", "X\nA\nB\n"},
		{"", "hello\n"},
	}
	for _, tc := range cases {
		cl := diff.Diff(tc.baseline, tc.current)
		assert.Equal(t, tc.current, cl.Text())
	}
}
