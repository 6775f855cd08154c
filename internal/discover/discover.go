// Package discover finds the Rust source files of a Cargo project.
package discover

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/Dhir0808/cargo-rust-unused/internal/lang"
)

const (
	// ManifestName is the file that marks a Cargo project root.
	ManifestName = "Cargo.toml"
	// SourceDir is the directory, relative to the root, that is scanned.
	SourceDir = "src"
)

var (
	// ErrNoManifest is returned when the root has no Cargo.toml.
	ErrNoManifest = errors.New("not a Cargo project: no Cargo.toml found")
	// ErrNoSourceDir is returned when the root has no src directory.
	ErrNoSourceDir = errors.New("no src directory found")
)

// FileEntry represents a discovered source file.
type FileEntry struct {
	Path     string // Relative to project root
	FullPath string // Root joined with Path
}

// Options tunes discovery.
type Options struct {
	// Exclude holds gitignore-style patterns matched against root-relative paths.
	Exclude []string
}

var skipDirs = map[string]struct{}{
	"target": {},
	"tests":  {},
}

// Files discovers the Rust sources under root/src, following symlinks and
// skipping hidden entries, build output and tests.
func Files(root string, opts Options) ([]FileEntry, error) {
	if _, err := os.Stat(filepath.Join(root, ManifestName)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", root, ErrNoManifest)
		}
		return nil, fmt.Errorf("checking manifest: %w", err)
	}

	srcDir := filepath.Join(root, SourceDir)
	info, err := os.Stat(srcDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", root, ErrNoSourceDir)
		}
		return nil, fmt.Errorf("checking source directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", srcDir, ErrNoSourceDir)
	}

	var gi *ignore.GitIgnore
	if len(opts.Exclude) > 0 {
		gi = ignore.CompileIgnoreLines(opts.Exclude...)
	}

	var results []FileEntry
	visit := func(rel string) {
		if lang.ForExtension(filepath.Ext(rel)) != "rust" || IsTestFile(rel) {
			return
		}
		if gi != nil && gi.MatchesPath(filepath.ToSlash(rel)) {
			return
		}
		results = append(results, FileEntry{Path: rel, FullPath: filepath.Join(root, rel)})
	}

	w := &walker{visited: make(map[string]struct{}), visit: visit}
	if err := w.walk(srcDir, SourceDir); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})

	return results, nil
}

// Locator adapts Files to a "given a root, return paths" capability.
type Locator struct {
	Options Options
}

// Locate returns the full paths of the project's source files in path order.
func (l Locator) Locate(root string) ([]string, error) {
	entries, err := Files(root, l.Options)
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.FullPath
	}
	return paths, nil
}

// walker walks directories, descending through symlinked directories once
// per resolved location.
type walker struct {
	visited map[string]struct{}
	visit   func(rel string)
}

// enter resolves dir and marks it visited. It returns "" when the resolved
// directory was already walked.
func (w *walker) enter(dir string) (string, error) {
	real, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}
	if _, seen := w.visited[real]; seen {
		return "", nil
	}
	w.visited[real] = struct{}{}
	return real, nil
}

// walk descends into dir, which may itself be a symlink. Entries are
// reported relative to rel, the link's own location in the project.
func (w *walker) walk(dir, rel string) error {
	real, err := w.enter(dir)
	if err != nil || real == "" {
		return err
	}

	// WalkDir does not follow a symlinked root, so walk the resolved path.
	return filepath.WalkDir(real, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to read directory entry: %w", err)
		}
		if path == real {
			return nil
		}

		name := d.Name()
		sub, err := filepath.Rel(real, path)
		if err != nil {
			return err
		}
		relPath := filepath.Join(rel, sub)

		if strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("following symlink %s: %w", path, err)
			}
			if !target.IsDir() {
				w.visit(relPath)
				return nil
			}
			if _, skip := skipDirs[name]; skip {
				return nil
			}
			return w.walk(path, relPath)
		}

		if d.IsDir() {
			if _, skip := skipDirs[name]; skip {
				return filepath.SkipDir
			}
			resolved, err := w.enter(path)
			if err != nil {
				return err
			}
			if resolved == "" {
				return filepath.SkipDir
			}
			return nil
		}

		w.visit(relPath)
		return nil
	})
}

// IsTestFile reports whether a relative path is test code: any "tests"
// directory component, or a file name ending in _test.rs.
func IsTestFile(path string) bool {
	parts := strings.Split(filepath.ToSlash(path), "/")
	for _, p := range parts[:len(parts)-1] {
		if p == "tests" {
			return true
		}
	}
	return strings.HasSuffix(parts[len(parts)-1], "_test.rs")
}
