// Package analyzer reconciles the functions and modules a Cargo project
// declares with the calls and imports it makes, and reports what is unused.
//
// The project-wide namespace is flat: a call to `helper` anywhere marks every
// function named `helper` as used, and a `use serde::...` anywhere marks the
// `serde` dependency as used. Functions that are only referenced as values,
// reached through trait dispatch, or consumed by derive-generated code are
// reported as unused.
package analyzer

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/Dhir0808/cargo-rust-unused/internal/index"
	"github.com/Dhir0808/cargo-rust-unused/internal/model"
)

// Analyzer runs one analysis at a time over a project. Files are processed
// strictly one after another and the first error aborts the run.
type Analyzer struct {
	locator   SourceLocator
	lister    DependencyLister
	extractor TagExtractor
	fs        afero.Fs
	logger    *log.Logger
	sites     *index.Index
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithFs sets the filesystem source files are read from. Defaults to the OS
// filesystem.
func WithFs(fs afero.Fs) Option {
	return func(a *Analyzer) { a.fs = fs }
}

// WithLogger sets the logger used for progress output.
func WithLogger(logger *log.Logger) Option {
	return func(a *Analyzer) { a.logger = logger }
}

// WithIndex records declaration sites into ix while files are processed.
// Paths are stored relative to the project root.
func WithIndex(ix *index.Index) Option {
	return func(a *Analyzer) { a.sites = ix }
}

// New creates an Analyzer over the given collaborators.
func New(locator SourceLocator, lister DependencyLister, extractor TagExtractor, opts ...Option) *Analyzer {
	a := &Analyzer{
		locator:   locator,
		lister:    lister,
		extractor: extractor,
		fs:        afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = log.New(io.Discard)
	}
	return a
}

// accumulator holds the project-wide sets. It only ever grows.
type accumulator struct {
	declared         Set
	used             Set
	dependencies     Set
	usedDependencies Set
}

func newAccumulator() *accumulator {
	return &accumulator{
		declared:         NewSet(),
		used:             NewSet(),
		dependencies:     NewSet(),
		usedDependencies: NewSet(),
	}
}

func (acc *accumulator) fold(tags []model.Tag) {
	for i := range tags {
		tag := &tags[i]
		switch {
		case tag.Kind == model.Definition:
			acc.declared.Add(tag.Key())
		case tag.SymbolKind == model.Dependency:
			acc.usedDependencies.Add(tag.Name)
		default:
			acc.used.Add(tag.Key())
		}
	}
}

// Analyze lists the project's dependencies, scans every located source
// file, and reconciles the result. Any failure aborts the whole run and no
// report is returned.
func (a *Analyzer) Analyze(ctx context.Context, root string) (*model.Report, error) {
	acc := newAccumulator()

	deps, err := a.lister.Dependencies(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("listing dependencies: %w", err)
	}
	acc.dependencies.Add(deps...)
	a.logger.Debug("Listed dependencies", "count", len(deps))

	files, err := a.locator.Locate(root)
	if err != nil {
		return nil, fmt.Errorf("locating sources: %w", err)
	}
	a.logger.Debug("Located sources", "files", len(files))

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := a.analyzeFile(ctx, acc, root, path); err != nil {
			return nil, err
		}
	}

	report := Reconcile(acc.declared, acc.used, acc.dependencies, acc.usedDependencies)
	a.logger.Debug("Reconciled",
		"declared", len(acc.declared),
		"used", len(acc.used),
		"used_dependencies", len(acc.usedDependencies),
		"sites", a.sites.Len(),
	)
	return report, nil
}

func (a *Analyzer) analyzeFile(ctx context.Context, acc *accumulator, root, path string) error {
	source, err := afero.ReadFile(a.fs, path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}

	tags, err := a.extractor.Extract(ctx, path, source)
	if err != nil {
		return err
	}
	a.logger.Debug("Scanned", "path", path, "tags", len(tags))

	acc.fold(tags)
	if a.sites != nil {
		a.sites.Add(relativeTo(root, path), tags)
	}
	return nil
}

func relativeTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}
