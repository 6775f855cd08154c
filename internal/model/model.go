// Package model defines core data structures for cargo-rust-unused.
package model

import "strings"

// TagKind indicates whether a tag is a definition or a reference.
type TagKind string

const (
	Definition TagKind = "def"
	Reference  TagKind = "ref"
)

// SymbolKind indicates the syntactic kind of a symbol. Function and Module
// double as the key prefix of a declaration ("fn foo", "mod bar").
type SymbolKind string

const (
	Function   SymbolKind = "fn"
	Module     SymbolKind = "mod"
	Dependency SymbolKind = "dep"
)

// Tag represents a single symbol occurrence extracted from source code.
type Tag struct {
	Name       string
	Kind       TagKind
	SymbolKind SymbolKind
	Line       int
	File       string
}

// Key returns the string a tag is reconciled under. Functions and modules
// share one namespace keyed by kind prefix; dependencies are keyed by their
// bare name.
func (t Tag) Key() string {
	if t.SymbolKind == Dependency {
		return t.Name
	}
	return Declaration{Kind: t.SymbolKind, Name: t.Name}.Key()
}

// Declaration is a (kind, identifier) pair. Scope, visibility and generic
// parameters are deliberately not part of it.
type Declaration struct {
	Kind SymbolKind
	Name string
}

// Key returns the kind-prefixed key, e.g. "fn unused_function".
func (d Declaration) Key() string {
	return string(d.Kind) + " " + d.Name
}

// ParseKey splits a kind-prefixed key back into a Declaration.
func ParseKey(key string) (Declaration, bool) {
	kind, name, ok := strings.Cut(key, " ")
	if !ok || name == "" {
		return Declaration{}, false
	}
	switch SymbolKind(kind) {
	case Function, Module:
		return Declaration{Kind: SymbolKind(kind), Name: name}, true
	}
	return Declaration{}, false
}

// Site is a file/line location of a declaration.
type Site struct {
	File string `json:"file" yaml:"file"`
	Line int    `json:"line" yaml:"line"`
}

// Report is the result of one analysis run. Every list is sorted ascending.
type Report struct {
	UnusedDependencies []string `json:"unused_dependencies" yaml:"unused_dependencies"`
	UnusedFunctions    []string `json:"unused_functions" yaml:"unused_functions"`
	UnusedModules      []string `json:"unused_modules" yaml:"unused_modules"`
}

// NewReport returns a report with empty, non-nil lists so that structured
// encoders emit [] rather than null.
func NewReport() *Report {
	return &Report{
		UnusedDependencies: []string{},
		UnusedFunctions:    []string{},
		UnusedModules:      []string{},
	}
}

// Empty reports whether nothing unused was found.
func (r *Report) Empty() bool {
	return len(r.UnusedDependencies) == 0 && len(r.UnusedFunctions) == 0 && len(r.UnusedModules) == 0
}
