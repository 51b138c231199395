// Package cleanup implements the CleanupRunner: post-processing callbacks,
// gathered from the main template and every activated extend template, that
// may add, delete or inspect merged files before the run is emitted.
package cleanup

import (
	"github.com/arthur-debert/overlayforge/pkg/mergeblock"
	"github.com/arthur-debert/overlayforge/pkg/mergetable"
)

// Callback is one cleanup function collected from a template config. It
// receives a Session scoped to the run's tables.
type Callback func(session *Session) error

// Session is the mutable view a Callback operates against: a clone of the
// live tables, plus read access to the tables as they stood when the
// session was opened.
type Session struct {
	clone       *mergetable.Table
	binClone    mergetable.BinaryTable
	original    *mergetable.Table
	binOriginal mergetable.BinaryTable
}

func newSession(table *mergetable.Table, binTable mergetable.BinaryTable) *Session {
	return &Session{
		clone:       table.Clone(),
		binClone:    binTable.Clone(),
		original:    table,
		binOriginal: binTable,
	}
}

// AddFile inserts path as a fresh single-OK-block text file in the clone.
// No-op if path already exists in the clone (as text or binary).
func (s *Session) AddFile(path, text string) {
	s.AddTextFile(path, text)
}

// AddTextFile is an alias for AddFile.
func (s *Session) AddTextFile(path, text string) {
	if s.existsInClone(path) {
		return
	}
	s.clone.Set(path, mergeblock.FromText(text))
}

// AddBinaryFile inserts path as binary content in the clone. No-op if path
// already exists in the clone.
func (s *Session) AddBinaryFile(path string, data []byte) {
	if s.existsInClone(path) {
		return
	}
	s.binClone[path] = data
}

// DeleteFiles marks every given path for removal from the committed clone.
func (s *Session) DeleteFiles(paths []string) {
	for _, path := range paths {
		s.clone.Delete(path)
		delete(s.binClone, path)
	}
}

// Exists reports whether path is present in the original (pre-cleanup)
// tables.
func (s *Session) Exists(path string) bool {
	if _, ok := s.original.Get(path); ok {
		return true
	}
	_, ok := s.binOriginal[path]
	return ok
}

// GetTextFileContent serializes path's original MergeTable entry, if any.
func (s *Session) GetTextFileContent(path string) (string, bool) {
	blocks, ok := s.original.Get(path)
	if !ok {
		return "", false
	}
	return mergeblock.ToText(blocks), true
}

// GetBinaryFileBuffer returns path's original BinaryTable bytes, if any.
func (s *Session) GetBinaryFileBuffer(path string) ([]byte, bool) {
	data, ok := s.binOriginal[path]
	return data, ok
}

func (s *Session) existsInClone(path string) bool {
	if _, ok := s.clone.Get(path); ok {
		return true
	}
	_, ok := s.binClone[path]
	return ok
}

// Run invokes every callback in order against a single Session cloned from
// table/binTable, then commits the clone (dropping deleted entries) back
// as the returned tables.
func Run(table *mergetable.Table, binTable mergetable.BinaryTable, callbacks []Callback) (*mergetable.Table, mergetable.BinaryTable, error) {
	session := newSession(table, binTable)

	for _, cb := range callbacks {
		if cb == nil {
			continue
		}
		if err := cb(session); err != nil {
			return nil, nil, err
		}
	}

	return session.clone, session.binClone, nil
}
