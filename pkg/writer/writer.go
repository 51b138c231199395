// Package writer commits an orchestrator.Result to a real filesystem
// location using synthfs: a pipeline of create-directory and create-file
// operations executed atomically, with dry-run support for previewing a
// run before anything touches disk.
package writer

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"time"

	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/core"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/arthur-debert/synthfs/pkg/synthfs/operations"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/overlayforge/pkg/logging"
	"github.com/arthur-debert/overlayforge/pkg/orchestrator"
)

// Writer commits Result.Files to a destination directory.
type Writer struct {
	logger     zerolog.Logger
	dryRun     bool
	filesystem synthfs.FileSystem
}

// New creates a Writer rooted at dest. When dryRun is true, Write logs what
// it would do without touching the filesystem.
func New(dest string, dryRun bool) *Writer {
	return &Writer{
		logger:     logging.GetLogger("writer"),
		dryRun:     dryRun,
		filesystem: filesystem.NewOSFileSystem(dest),
	}
}

// Write materializes every file in result.Files under the Writer's
// destination, creating parent directories as needed. File order is
// sorted so directory-creation operations land in a pipeline before the
// files they contain.
func (w *Writer) Write(ctx context.Context, result orchestrator.Result) error {
	pathnames := make([]string, 0, len(result.Files))
	for pathname := range result.Files {
		pathnames = append(pathnames, pathname)
	}
	sort.Strings(pathnames)

	if w.dryRun {
		for _, pathname := range pathnames {
			w.logger.Info().Str("pathname", pathname).Msg("would write file")
		}
		return nil
	}

	seenDirs := make(map[string]bool)
	pipeline := synthfs.NewMemPipeline()

	for _, pathname := range pathnames {
		dir := filepath.Dir(pathname)
		for _, parent := range parents(dir) {
			if parent == "." || seenDirs[parent] {
				continue
			}
			seenDirs[parent] = true
			opID := core.OperationID(fmt.Sprintf("mkdir-%s", parent))
			dirOp := operations.NewCreateDirectoryOperation(opID, parent)
			dirOp.SetItem(&directoryItem{path: parent, mode: 0755})
			if err := pipeline.Add(synthfs.NewOperationsPackageAdapter(dirOp)); err != nil {
				return fmt.Errorf("writer: queue mkdir %s: %w", parent, err)
			}
		}

		file := result.Files[pathname]
		content := file.Data
		if !file.Binary {
			content = []byte(file.Text)
		}

		opID := core.OperationID(fmt.Sprintf("write-%s", pathname))
		fileOp := operations.NewCreateFileOperation(opID, pathname)
		fileOp.SetItem(&fileItem{path: pathname, content: content, mode: 0644})
		if err := pipeline.Add(synthfs.NewOperationsPackageAdapter(fileOp)); err != nil {
			return fmt.Errorf("writer: queue write %s: %w", pathname, err)
		}
	}

	executor := synthfs.NewExecutor()
	res := executor.Run(ctx, pipeline, w.filesystem)
	if err := res.GetError(); err != nil {
		return fmt.Errorf("writer: execute pipeline: %w", err)
	}

	w.logger.Info().Int("fileCount", len(pathnames)).Msg("wrote generated project")
	return nil
}

// parents returns every ancestor directory of dir, shallowest first, e.g.
// "a/b/c" -> ["a", "a/b", "a/b/c"].
func parents(dir string) []string {
	if dir == "." || dir == "" {
		return nil
	}
	var out []string
	cur := ""
	for _, part := range splitPath(dir) {
		if cur == "" {
			cur = part
		} else {
			cur = cur + "/" + part
		}
		out = append(out, cur)
	}
	return out
}

func splitPath(dir string) []string {
	dir = filepath.ToSlash(filepath.Clean(dir))
	if dir == "." || dir == "" {
		return nil
	}
	var parts []string
	for _, p := range filepathSplit(dir) {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func filepathSplit(dir string) []string {
	var out []string
	start := 0
	for i := 0; i < len(dir); i++ {
		if dir[i] == '/' {
			out = append(out, dir[start:i])
			start = i + 1
		}
	}
	out = append(out, dir[start:])
	return out
}

type fileItem struct {
	path    string
	content []byte
	mode    fs.FileMode
}

func (f *fileItem) Path() string       { return f.path }
func (f *fileItem) Type() string       { return "file" }
func (f *fileItem) Content() []byte    { return f.content }
func (f *fileItem) Mode() fs.FileMode  { return f.mode }
func (f *fileItem) IsDir() bool        { return false }
func (f *fileItem) ModTime() time.Time { return time.Now() }
func (f *fileItem) Size() int64        { return int64(len(f.content)) }

type directoryItem struct {
	path string
	mode fs.FileMode
}

func (d *directoryItem) Path() string       { return d.path }
func (d *directoryItem) Type() string       { return "directory" }
func (d *directoryItem) Mode() fs.FileMode  { return d.mode }
func (d *directoryItem) IsDir() bool        { return true }
func (d *directoryItem) ModTime() time.Time { return time.Now() }
func (d *directoryItem) Size() int64        { return 0 }
