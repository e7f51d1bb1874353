// Package discovery locates period files on disk for batch scoring and checks
// single period paths before they are loaded.
package discovery

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPatterns are the glob patterns batch scoring uses when none are given.
var DefaultPatterns = []string{"**/*.period.yaml", "**/*.period.yml", "**/*.period.json"}

// MaxFileSize bounds a period file. Six districts of three programs fit in a
// few kilobytes; anything near this limit is not a period file.
const MaxFileSize = 1 << 20

// Format is the encoding of a period file.
type Format int

const (
	FormatUnknown Format = iota
	FormatYAML
	FormatJSON
)

// String returns the human-readable name of the format.
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// DetectFormat determines the encoding of a period file from its extension.
func DetectFormat(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case "":
		return FormatUnknown, fmt.Errorf("unsupported file: %s has no extension. Period files are .yaml, .yml or .json", filepath.Base(path))
	default:
		return FormatUnknown, fmt.Errorf("unsupported file type: %s. Period files are .yaml, .yml or .json", ext)
	}
}

// LabelFromPath derives a period label from a file name:
// "2025/09.period.yaml" gives "09", "2025-09.json" gives "2025-09".
func LabelFromPath(path string) string {
	base := filepath.Base(filepath.ToSlash(path))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimSuffix(base, ".period")
}

// File represents a period file
type File struct {
	Path    string
	RelPath string
	Size    int64
	Format  Format
}

// ValidateFilePath checks a period path given on the command line: it must
// exist, be a regular file (symlinks are resolved), be non-empty, no larger
// than MaxFileSize, carry a period file extension and hold text.
func ValidateFilePath(path string) (File, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return File{}, fmt.Errorf("invalid path %q: %w", path, err)
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return File{}, fmt.Errorf("file not found: %s", absPath)
	case errors.Is(err, fs.ErrPermission):
		return File{}, fmt.Errorf("permission denied: %s", absPath)
	case err != nil:
		return File{}, fmt.Errorf("cannot access file: %s: %w", absPath, err)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return File{}, fmt.Errorf("cannot access file: %s: %w", resolved, err)
	}
	switch {
	case info.IsDir():
		return File{}, fmt.Errorf("path is a directory, not a file: %s", absPath)
	case info.Size() == 0:
		return File{}, fmt.Errorf("file is empty: %s", absPath)
	case info.Size() > MaxFileSize:
		return File{}, fmt.Errorf("file is too large for a period file (%d bytes): %s", info.Size(), absPath)
	}

	format, err := DetectFormat(resolved)
	if err != nil {
		return File{}, err
	}
	if err := checkText(resolved); err != nil {
		return File{}, err
	}

	return File{Path: resolved, RelPath: filepath.ToSlash(path), Size: info.Size(), Format: format}, nil
}

// checkText rejects files whose first block contains a NUL byte.
func checkText(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot read file: %s: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("cannot read file: %s: %w", path, err)
	}
	if bytes.IndexByte(head[:n], 0) >= 0 {
		return fmt.Errorf("file appears to be binary, not text: %s", path)
	}
	return nil
}

// FileDiscovery finds period files below a root directory.
type FileDiscovery struct {
	rootPath       string
	realRoot       string
	followSymlinks bool
}

// NewFileDiscovery creates a FileDiscovery rooted at rootPath. Symlinks are
// followed only when followSymlinks is set and only to targets inside the
// root.
func NewFileDiscovery(rootPath string, followSymlinks bool) *FileDiscovery {
	realRoot, err := filepath.EvalSymlinks(rootPath)
	if err != nil {
		realRoot = rootPath
	}
	if abs, err := filepath.Abs(realRoot); err == nil {
		realRoot = abs
	}
	return &FileDiscovery{
		rootPath:       rootPath,
		realRoot:       realRoot,
		followSymlinks: followSymlinks,
	}
}

// Discover finds period files matching any of patterns, relative to the
// root. Results are de-duplicated and sorted by relative path so batch
// output is stable.
func (fd *FileDiscovery) Discover(patterns ...string) ([]File, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}

	fsys := os.DirFS(fd.rootPath)
	found := make(map[string]File)
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid pattern %q", pattern)
		}
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("error evaluating pattern %s: %w", pattern, err)
		}
		for _, match := range matches {
			if _, dup := found[match]; dup {
				continue
			}
			if f, ok := fd.candidate(match); ok {
				found[match] = f
			}
		}
	}

	files := make([]File, 0, len(found))
	for _, f := range found {
		files = append(files, f)
	}
	slices.SortFunc(files, func(a, b File) int {
		return strings.Compare(a.RelPath, b.RelPath)
	})
	return files, nil
}

// candidate turns a glob match into a File. Directories, unknown extensions
// and symlinks that are not followed are skipped.
func (fd *FileDiscovery) candidate(match string) (File, bool) {
	format, err := DetectFormat(match)
	if err != nil {
		return File{}, false
	}

	path := filepath.Join(fd.rootPath, match)
	info, err := os.Lstat(path)
	if err != nil {
		return File{}, false
	}
	if info.Mode()&os.ModeSymlink != 0 {
		if path, info, err = fd.follow(path); err != nil {
			return File{}, false
		}
	}
	if !info.Mode().IsRegular() {
		return File{}, false
	}

	return File{Path: path, RelPath: filepath.ToSlash(match), Size: info.Size(), Format: format}, true
}

var errSkipLink = errors.New("symlink skipped")

// follow resolves a symlink that stays inside the discovery root.
func (fd *FileDiscovery) follow(link string) (string, os.FileInfo, error) {
	if !fd.followSymlinks {
		return "", nil, errSkipLink
	}
	target, err := filepath.EvalSymlinks(link)
	if err != nil {
		return "", nil, err
	}
	if target, err = filepath.Abs(target); err != nil {
		return "", nil, err
	}
	if rel, err := filepath.Rel(fd.realRoot, target); err != nil || strings.HasPrefix(rel, "..") {
		return "", nil, errSkipLink
	}
	info, err := os.Stat(target)
	if err != nil {
		return "", nil, err
	}
	return target, info, nil
}
