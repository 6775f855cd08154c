// Package manifest lists the direct dependencies of a Cargo project's root
// package.
package manifest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
)

// FileName is the Cargo manifest file name.
const FileName = "Cargo.toml"

// ErrNoRootPackage is returned when a manifest declares no package of its
// own, e.g. a virtual workspace manifest.
var ErrNoRootPackage = errors.New("failed to find root package")

// Error reports a manifest that could not be read, parsed or resolved.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("manifest %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// dependencyTable is the value side of a [dependencies] entry: either a
// version string or an inline/detailed table.
type dependencyTable map[string]any

type platformTables struct {
	Dependencies            dependencyTable `toml:"dependencies"`
	DevDependencies         dependencyTable `toml:"dev-dependencies"`
	LegacyDevDependencies   dependencyTable `toml:"dev_dependencies"`
	BuildDependencies       dependencyTable `toml:"build-dependencies"`
	LegacyBuildDependencies dependencyTable `toml:"build_dependencies"`
}

type cargoManifest struct {
	Package                 map[string]any            `toml:"package"`
	Workspace               map[string]any            `toml:"workspace"`
	Target                  map[string]platformTables `toml:"target"`
	Dependencies            dependencyTable           `toml:"dependencies"`
	DevDependencies         dependencyTable           `toml:"dev-dependencies"`
	LegacyDevDependencies   dependencyTable           `toml:"dev_dependencies"`
	BuildDependencies       dependencyTable           `toml:"build-dependencies"`
	LegacyBuildDependencies dependencyTable           `toml:"build_dependencies"`
}

// TOMLLister reads dependencies straight from Cargo.toml.
type TOMLLister struct {
	logger *log.Logger
}

// NewTOMLLister creates a lister that parses Cargo.toml itself.
func NewTOMLLister(logger *log.Logger) *TOMLLister {
	return &TOMLLister{logger: logger}
}

// Dependencies returns the sorted direct dependency names of the package
// rooted at root.
func (l *TOMLLister) Dependencies(_ context.Context, root string) ([]string, error) {
	path := filepath.Join(root, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}

	deps, err := Parse(data)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	if l.logger != nil {
		l.logger.Debug("Read manifest", "path", path, "dependencies", len(deps))
	}
	return deps, nil
}

// Parse extracts the dependency names of the root package from manifest
// text. Every dependency kind and every target-specific table is included.
// A `package = "..."` key names the real package, as cargo metadata reports
// it.
func Parse(data []byte) ([]string, error) {
	var m cargoManifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if m.Package == nil {
		if m.Workspace != nil {
			return nil, fmt.Errorf("%w: virtual workspace manifest", ErrNoRootPackage)
		}
		return nil, ErrNoRootPackage
	}

	names := make(map[string]struct{})
	platformTables{
		Dependencies:            m.Dependencies,
		DevDependencies:         m.DevDependencies,
		LegacyDevDependencies:   m.LegacyDevDependencies,
		BuildDependencies:       m.BuildDependencies,
		LegacyBuildDependencies: m.LegacyBuildDependencies,
	}.collect(names)
	for _, t := range m.Target {
		t.collect(names)
	}

	deps := make([]string, 0, len(names))
	for name := range names {
		deps = append(deps, name)
	}
	sort.Strings(deps)
	return deps, nil
}

func (p platformTables) collect(names map[string]struct{}) {
	for _, table := range []dependencyTable{
		p.Dependencies,
		p.DevDependencies,
		p.LegacyDevDependencies,
		p.BuildDependencies,
		p.LegacyBuildDependencies,
	} {
		for key, value := range table {
			names[packageName(key, value)] = struct{}{}
		}
	}
}

func packageName(key string, value any) string {
	if detail, ok := value.(map[string]any); ok {
		if pkg, ok := detail["package"].(string); ok && pkg != "" {
			return pkg
		}
	}
	return key
}
