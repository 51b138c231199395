// Package vtree implements the VirtualTree: an in-memory hierarchical file
// system holding decompressed template archives under well-known prefixes
// for the duration of a single orchestrator run.
package vtree

import (
	"bytes"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

const (
	// MainPrefix is the subtree the main template is unpacked into.
	MainPrefix = "/template/main"
	// ExtendsPrefix is the parent of every extend template's subtree.
	ExtendsPrefix = "/template/extends"
)

// binarySniffLen bounds how much of a file's leading region is scanned for
// NUL bytes when classifying it as binary.
const binarySniffLen = 8000

// Tree is an in-memory directory tree backed by afero.MemMapFs.
type Tree struct {
	fs afero.Fs
}

// New returns an empty Tree.
func New() *Tree {
	return &Tree{fs: afero.NewMemMapFs()}
}

// ExtendPrefix returns the subtree path an extend template with the given
// id is unpacked into.
func ExtendPrefix(id string) string {
	return path.Join(ExtendsPrefix, id)
}

func (t *Tree) Mkdir(dirPath string) error {
	return t.fs.MkdirAll(dirPath, 0o755)
}

func (t *Tree) WriteFile(filePath string, data []byte) error {
	if err := t.fs.MkdirAll(path.Dir(filePath), 0o755); err != nil {
		return err
	}
	return afero.WriteFile(t.fs, filePath, data, 0o644)
}

func (t *Tree) ReadFile(filePath string) ([]byte, error) {
	return afero.ReadFile(t.fs, filePath)
}

func (t *Tree) Exists(filePath string) (bool, error) {
	return afero.Exists(t.fs, filePath)
}

func (t *Tree) IsFile(filePath string) (bool, error) {
	info, err := t.fs.Stat(filePath)
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}

// Entity describes one non-root node encountered during a Walk.
type Entity struct {
	AbsolutePath         string
	Name                 string
	IsDirectory          bool
	IsBinary             bool
	RelativeDirectoryPath string
}

// Walk recursively enumerates every entity under root (root itself excluded),
// in a stable, lexicographically-sorted order. Non-existent roots yield an
// empty, non-error result.
func (t *Tree) Walk(root string) ([]Entity, error) {
	exists, err := afero.DirExists(t.fs, root)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	var entities []Entity
	err = afero.Walk(t.fs, root, func(walkPath string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if walkPath == root {
			return nil
		}

		rel := strings.TrimPrefix(strings.TrimPrefix(walkPath, root), "/")
		relDir := path.Dir(rel)
		if relDir == "." {
			relDir = ""
		}

		entity := Entity{
			AbsolutePath:         walkPath,
			Name:                 info.Name(),
			IsDirectory:          info.IsDir(),
			RelativeDirectoryPath: relDir,
		}

		if !entity.IsDirectory {
			content, readErr := afero.ReadFile(t.fs, walkPath)
			if readErr != nil {
				return readErr
			}
			entity.IsBinary = looksBinary(content)
		}

		entities = append(entities, entity)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entities, func(i, j int) bool {
		return entities[i].AbsolutePath < entities[j].AbsolutePath
	})
	return entities, nil
}

// looksBinary applies the NUL-byte-in-leading-region heuristic.
func looksBinary(content []byte) bool {
	if len(content) > binarySniffLen {
		content = content[:binarySniffLen]
	}
	return bytes.IndexByte(content, 0) != -1
}
