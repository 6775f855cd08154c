package discover

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "Cargo.toml", "[package]\nname = \"demo\"\n")
	return dir
}

func TestDiscoverRustFiles(t *testing.T) {
	t.Parallel()

	dir := newProject(t)
	writeFile(t, dir, "src/main.rs", "fn main() {}")
	writeFile(t, dir, "src/net/client.rs", "pub fn connect() {}")
	// Non-Rust file should be ignored
	writeFile(t, dir, "src/readme.txt", "hello")
	// Files outside src are not scanned
	writeFile(t, dir, "build.rs", "fn main() {}")
	writeFile(t, dir, "examples/demo.rs", "fn main() {}")

	entries, err := Files(dir, Options{})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}

	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %v", len(entries), paths)
	}

	// Should be sorted
	if entries[0].Path != filepath.Join("src", "main.rs") {
		t.Errorf("entry 0: got %q", entries[0].Path)
	}
	if entries[1].Path != filepath.Join("src", "net", "client.rs") {
		t.Errorf("entry 1: got %q", entries[1].Path)
	}
	if entries[0].FullPath != filepath.Join(dir, "src", "main.rs") {
		t.Errorf("full path: got %q", entries[0].FullPath)
	}
}

func TestDiscoverSkipDirs(t *testing.T) {
	t.Parallel()

	dir := newProject(t)
	writeFile(t, dir, "src/lib.rs", "")
	writeFile(t, dir, "src/target/generated.rs", "")
	writeFile(t, dir, "src/tests/helpers.rs", "")
	writeFile(t, dir, "src/.hidden/secret.rs", "")
	writeFile(t, dir, "src/.hidden.rs", "")
	writeFile(t, dir, "src/parser_test.rs", "")

	entries, err := Files(dir, Options{})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d: %+v", len(entries), entries)
	}
	if entries[0].Path != filepath.Join("src", "lib.rs") {
		t.Errorf("expected src/lib.rs, got %q", entries[0].Path)
	}
}

func TestDiscoverExclude(t *testing.T) {
	t.Parallel()

	dir := newProject(t)
	writeFile(t, dir, "src/lib.rs", "")
	writeFile(t, dir, "src/generated/bindings.rs", "")
	writeFile(t, dir, "src/proto.rs", "")

	entries, err := Files(dir, Options{Exclude: []string{"src/generated/", "proto.rs"}})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d: %+v", len(entries), entries)
	}
	if entries[0].Path != filepath.Join("src", "lib.rs") {
		t.Errorf("expected src/lib.rs, got %q", entries[0].Path)
	}
}

func TestDiscoverNoManifest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "src/main.rs", "fn main() {}")

	_, err := Files(dir, Options{})
	if !errors.Is(err, ErrNoManifest) {
		t.Fatalf("expected ErrNoManifest, got %v", err)
	}
}

func TestDiscoverNoSourceDir(t *testing.T) {
	t.Parallel()

	dir := newProject(t)

	_, err := Files(dir, Options{})
	if !errors.Is(err, ErrNoSourceDir) {
		t.Fatalf("expected ErrNoSourceDir, got %v", err)
	}
}

func TestDiscoverFollowsSymlinks(t *testing.T) {
	t.Parallel()

	dir := newProject(t)
	writeFile(t, dir, "src/lib.rs", "")
	writeFile(t, dir, "shared/util.rs", "")
	writeFile(t, dir, "other.rs", "")

	if err := os.Symlink(filepath.Join(dir, "shared"), filepath.Join(dir, "src", "shared")); err != nil {
		t.Skip("symlinks not supported")
	}
	if err := os.Symlink(filepath.Join(dir, "other.rs"), filepath.Join(dir, "src", "linked.rs")); err != nil {
		t.Skip("symlinks not supported")
	}

	entries, err := Files(dir, Options{})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}

	want := []string{
		filepath.Join("src", "lib.rs"),
		filepath.Join("src", "linked.rs"),
		filepath.Join("src", "shared", "util.rs"),
	}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %+v", len(want), entries)
	}
	for i, w := range want {
		if entries[i].Path != w {
			t.Errorf("entry %d: got %q, want %q", i, entries[i].Path, w)
		}
	}
}

func TestDiscoverRelativeSymlinkDir(t *testing.T) {
	t.Parallel()

	dir := newProject(t)
	writeFile(t, dir, "src/main.rs", "fn main() {}")
	writeFile(t, dir, "vendored/helpers.rs", "pub fn help() {}")

	if err := os.Symlink(filepath.Join("..", "vendored"), filepath.Join(dir, "src", "helpers")); err != nil {
		t.Skip("symlinks not supported")
	}

	entries, err := Files(dir, Options{})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(entries) != 2 || entries[0].Path != filepath.Join("src", "helpers", "helpers.rs") {
		t.Fatalf("expected src/helpers/helpers.rs and src/main.rs, got %+v", entries)
	}
}

func TestDiscoverSymlinkCycle(t *testing.T) {
	t.Parallel()

	dir := newProject(t)
	writeFile(t, dir, "src/lib.rs", "")
	writeFile(t, dir, "shared/util.rs", "")

	// src/shared -> shared, and shared/back -> shared closes a loop that is
	// only reachable through the first link.
	if err := os.Symlink(filepath.Join(dir, "shared"), filepath.Join(dir, "src", "shared")); err != nil {
		t.Skip("symlinks not supported")
	}
	if err := os.Symlink(filepath.Join(dir, "shared"), filepath.Join(dir, "shared", "back")); err != nil {
		t.Skip("symlinks not supported")
	}

	entries, err := Files(dir, Options{})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}

	want := []string{
		filepath.Join("src", "lib.rs"),
		filepath.Join("src", "shared", "util.rs"),
	}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %+v", len(want), entries)
	}
	for i, w := range want {
		if entries[i].Path != w {
			t.Errorf("entry %d: got %q, want %q", i, entries[i].Path, w)
		}
	}
}

func TestDiscoverSymlinkToAncestor(t *testing.T) {
	t.Parallel()

	dir := newProject(t)
	writeFile(t, dir, "src/a/mod.rs", "")

	if err := os.Symlink(filepath.Join(dir, "src"), filepath.Join(dir, "src", "a", "loop")); err != nil {
		t.Skip("symlinks not supported")
	}

	entries, err := Files(dir, Options{})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(entries) != 1 || entries[0].Path != filepath.Join("src", "a", "mod.rs") {
		t.Fatalf("expected only src/a/mod.rs, got %+v", entries)
	}
}

func TestDiscoverSymlinkedSourceDir(t *testing.T) {
	t.Parallel()

	dir := newProject(t)
	writeFile(t, dir, "code/main.rs", "fn main() {}")
	writeFile(t, dir, "code/net/client.rs", "")

	if err := os.Symlink(filepath.Join(dir, "code"), filepath.Join(dir, "src")); err != nil {
		t.Skip("symlinks not supported")
	}

	entries, err := Files(dir, Options{})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}

	want := []string{
		filepath.Join("src", "main.rs"),
		filepath.Join("src", "net", "client.rs"),
	}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %+v", len(want), entries)
	}
	for i, w := range want {
		if entries[i].Path != w {
			t.Errorf("entry %d: got %q, want %q", i, entries[i].Path, w)
		}
		if entries[i].FullPath != filepath.Join(dir, w) {
			t.Errorf("entry %d full path: got %q", i, entries[i].FullPath)
		}
	}
}

func TestDiscoverBrokenSymlink(t *testing.T) {
	t.Parallel()

	dir := newProject(t)
	writeFile(t, dir, "src/lib.rs", "")
	if err := os.Symlink(filepath.Join(dir, "missing.rs"), filepath.Join(dir, "src", "dangling.rs")); err != nil {
		t.Skip("symlinks not supported")
	}

	if _, err := Files(dir, Options{}); err == nil {
		t.Fatal("expected error for dangling symlink")
	}
}

func TestLocatorReturnsFullPaths(t *testing.T) {
	t.Parallel()

	dir := newProject(t)
	writeFile(t, dir, "src/main.rs", "fn main() {}")

	paths, err := Locator{}.Locate(dir)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if len(paths) != 1 || paths[0] != filepath.Join(dir, "src", "main.rs") {
		t.Errorf("paths = %v", paths)
	}
}

func TestIsTestFile(t *testing.T) {
	t.Parallel()
	cases := []struct {
		path string
		want bool
	}{
		{"src/tests/helpers.rs", true},
		{"src/net/tests/mock.rs", true},
		{"src/parser_test.rs", true},
		{"src/lib.rs", false},
		{"src/tests.rs", false},
		{"src/integration_tests/mod.rs", false},
		{"src/testing.rs", false},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			t.Parallel()
			got := IsTestFile(filepath.FromSlash(tc.path))
			if got != tc.want {
				t.Errorf("IsTestFile(%q) = %v, want %v", tc.path, got, tc.want)
			}
		})
	}
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
