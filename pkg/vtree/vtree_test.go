package vtree_test

import (
	"testing"

	"github.com/arthur-debert/overlayforge/pkg/vtree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileThenReadFile(t *testing.T) {
	tree := vtree.New()
	path := vtree.MainPrefix + "/README.md"

	require.NoError(t, tree.WriteFile(path, []byte("hello\n")))

	got, err := tree.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(got))

	exists, err := tree.Exists(path)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestExistsFalseForMissingPath(t *testing.T) {
	tree := vtree.New()
	exists, err := tree.Exists(vtree.MainPrefix + "/nope")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestIsFileDistinguishesDirectories(t *testing.T) {
	tree := vtree.New()
	require.NoError(t, tree.WriteFile(vtree.MainPrefix+"/a/b.txt", []byte("x")))

	isFile, err := tree.IsFile(vtree.MainPrefix + "/a/b.txt")
	require.NoError(t, err)
	assert.True(t, isFile)

	isFile, err = tree.IsFile(vtree.MainPrefix + "/a")
	require.NoError(t, err)
	assert.False(t, isFile)
}

func TestWalkEnumeratesFilesWithRelativeDir(t *testing.T) {
	tree := vtree.New()
	require.NoError(t, tree.WriteFile(vtree.MainPrefix+"/README.md", []byte("root\n")))
	require.NoError(t, tree.WriteFile(vtree.MainPrefix+"/nested/file.txt", []byte("nested\n")))

	entities, err := tree.Walk(vtree.MainPrefix)
	require.NoError(t, err)

	var names []string
	for _, e := range entities {
		if !e.IsDirectory {
			names = append(names, e.Name)
		}
	}
	assert.ElementsMatch(t, []string{"README.md", "file.txt"}, names)

	for _, e := range entities {
		if e.Name == "file.txt" {
			assert.Equal(t, "nested", e.RelativeDirectoryPath)
		}
		if e.Name == "README.md" {
			assert.Equal(t, "", e.RelativeDirectoryPath)
		}
	}
}

func TestWalkMissingRootReturnsEmpty(t *testing.T) {
	tree := vtree.New()
	entities, err := tree.Walk(vtree.MainPrefix)
	require.NoError(t, err)
	assert.Empty(t, entities)
}

func TestWalkDetectsBinaryContentViaNulByte(t *testing.T) {
	tree := vtree.New()
	require.NoError(t, tree.WriteFile(vtree.MainPrefix+"/logo.png", []byte{0x89, 0x50, 0x00, 0x47}))
	require.NoError(t, tree.WriteFile(vtree.MainPrefix+"/text.txt", []byte("plain text\n")))

	entities, err := tree.Walk(vtree.MainPrefix)
	require.NoError(t, err)

	binary := map[string]bool{}
	for _, e := range entities {
		binary[e.Name] = e.IsBinary
	}
	assert.True(t, binary["logo.png"])
	assert.False(t, binary["text.txt"])
}

func TestExtendPrefixNamespacesById(t *testing.T) {
	assert.Equal(t, "/template/extends/foo", vtree.ExtendPrefix("foo"))
}
