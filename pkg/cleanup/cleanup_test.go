package cleanup_test

import (
	"errors"
	"testing"

	"github.com/arthur-debert/overlayforge/pkg/cleanup"
	"github.com/arthur-debert/overlayforge/pkg/mergeblock"
	"github.com/arthur-debert/overlayforge/pkg/mergetable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseTables() (*mergetable.Table, mergetable.BinaryTable) {
	table := mergetable.New()
	table.Set("a.txt", mergeblock.FromText("hello\n"))
	bin := mergetable.BinaryTable{"logo.png": {0x89, 0x50}}
	return table, bin
}

func TestRunAddFileInsertsWhenAbsent(t *testing.T) {
	table, bin := baseTables()

	outTable, _, err := cleanup.Run(table, bin, []cleanup.Callback{
		func(s *cleanup.Session) error {
			s.AddFile("new.txt", "fresh\n")
			return nil
		},
	})
	require.NoError(t, err)

	blocks, ok := outTable.Get("new.txt")
	require.True(t, ok)
	assert.Equal(t, "fresh\n", mergeblock.ToText(blocks))
}

func TestRunAddFileNoopWhenAlreadyExists(t *testing.T) {
	table, bin := baseTables()

	outTable, _, err := cleanup.Run(table, bin, []cleanup.Callback{
		func(s *cleanup.Session) error {
			s.AddFile("a.txt", "should not overwrite\n")
			return nil
		},
	})
	require.NoError(t, err)

	blocks, _ := outTable.Get("a.txt")
	assert.Equal(t, "hello\n", mergeblock.ToText(blocks))
}

func TestRunDeleteFilesRemovesFromCommittedResult(t *testing.T) {
	table, bin := baseTables()

	outTable, outBin, err := cleanup.Run(table, bin, []cleanup.Callback{
		func(s *cleanup.Session) error {
			s.DeleteFiles([]string{"a.txt", "logo.png"})
			return nil
		},
	})
	require.NoError(t, err)

	_, ok := outTable.Get("a.txt")
	assert.False(t, ok)
	_, ok = outBin["logo.png"]
	assert.False(t, ok)
}

func TestRunExistsReflectsOriginalNotClone(t *testing.T) {
	table, bin := baseTables()

	var existedBeforeDelete, existedAfterDeleteCall bool
	_, _, err := cleanup.Run(table, bin, []cleanup.Callback{
		func(s *cleanup.Session) error {
			existedBeforeDelete = s.Exists("a.txt")
			s.DeleteFiles([]string{"a.txt"})
			existedAfterDeleteCall = s.Exists("a.txt")
			return nil
		},
	})
	require.NoError(t, err)
	assert.True(t, existedBeforeDelete)
	assert.True(t, existedAfterDeleteCall, "Exists reads the original table, unaffected by clone mutation")
}

func TestRunGetTextFileContentAndBinaryBuffer(t *testing.T) {
	table, bin := baseTables()

	var text string
	var textOK bool
	var binary []byte
	var binOK bool
	_, _, err := cleanup.Run(table, bin, []cleanup.Callback{
		func(s *cleanup.Session) error {
			text, textOK = s.GetTextFileContent("a.txt")
			binary, binOK = s.GetBinaryFileBuffer("logo.png")
			return nil
		},
	})
	require.NoError(t, err)
	assert.True(t, textOK)
	assert.Equal(t, "hello\n", text)
	assert.True(t, binOK)
	assert.Equal(t, []byte{0x89, 0x50}, binary)
}

func TestRunPropagatesCallbackError(t *testing.T) {
	table, bin := baseTables()
	sentinel := errors.New("cleanup failed")

	_, _, err := cleanup.Run(table, bin, []cleanup.Callback{
		func(s *cleanup.Session) error { return sentinel },
	})
	assert.ErrorIs(t, err, sentinel)
}

func TestRunDoesNotMutateOriginalTables(t *testing.T) {
	table, bin := baseTables()

	_, _, err := cleanup.Run(table, bin, []cleanup.Callback{
		func(s *cleanup.Session) error {
			s.DeleteFiles([]string{"a.txt"})
			s.AddFile("new.txt", "x\n")
			return nil
		},
	})
	require.NoError(t, err)

	_, ok := table.Get("a.txt")
	assert.True(t, ok, "original table untouched")
	_, ok = table.Get("new.txt")
	assert.False(t, ok, "original table untouched")
}
