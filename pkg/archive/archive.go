// Package archive decompresses template archives (tar.gz or zip) directly
// into a VirtualTree subtree.
package archive

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/arthur-debert/overlayforge/pkg/vtree"
)

// Format names a supported archive container.
type Format int

const (
	// FormatUnknown is returned by Detect when the magic bytes don't match
	// a known container.
	FormatUnknown Format = iota
	FormatTarGz
	FormatZip
)

// Detect sniffs an archive's format from its leading bytes.
func Detect(data []byte) Format {
	if len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b {
		return FormatTarGz
	}
	if len(data) >= 4 && data[0] == 'P' && data[1] == 'K' && data[2] == 0x03 && data[3] == 0x04 {
		return FormatZip
	}
	return FormatUnknown
}

// Extract decompresses data (auto-detecting its format) and writes every
// regular file it contains under destPrefix in tree. Directory entries and
// path components equal to "." are skipped; entries whose cleaned relative
// path would escape destPrefix are rejected.
func Extract(data []byte, tree *vtree.Tree, destPrefix string) error {
	switch Detect(data) {
	case FormatTarGz:
		return extractTarGz(data, tree, destPrefix)
	case FormatZip:
		return extractZip(data, tree, destPrefix)
	default:
		return fmt.Errorf("archive: unrecognized format")
	}
}

func extractTarGz(data []byte, tree *vtree.Tree, destPrefix string) error {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("archive: open gzip stream: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("archive: read tar entry: %w", err)
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}

		destPath, err := joinSafe(destPrefix, header.Name)
		if err != nil {
			return err
		}

		content, err := io.ReadAll(tr)
		if err != nil {
			return fmt.Errorf("archive: read %q: %w", header.Name, err)
		}
		if err := tree.WriteFile(destPath, content); err != nil {
			return fmt.Errorf("archive: write %q: %w", destPath, err)
		}
	}
}

func extractZip(data []byte, tree *vtree.Tree, destPrefix string) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("archive: open zip stream: %w", err)
	}

	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() {
			continue
		}

		destPath, err := joinSafe(destPrefix, entry.Name)
		if err != nil {
			return err
		}

		rc, err := entry.Open()
		if err != nil {
			return fmt.Errorf("archive: open %q: %w", entry.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return fmt.Errorf("archive: read %q: %w", entry.Name, err)
		}
		if err := tree.WriteFile(destPath, content); err != nil {
			return fmt.Errorf("archive: write %q: %w", destPath, err)
		}
	}
	return nil
}

// joinSafe joins name onto prefix after cleaning it, rejecting any entry
// that would escape prefix via ".." traversal.
func joinSafe(prefix, name string) (string, error) {
	cleaned := strings.TrimPrefix(path.Clean(strings.ReplaceAll(name, "\\", "/")), "/")
	if cleaned == "" || cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("archive: unsafe entry path %q", name)
	}
	return path.Join(prefix, cleaned), nil
}
