// Package index records where declarations live so that reports can point
// at them.
package index

import (
	"sort"

	"github.com/Dhir0808/cargo-rust-unused/internal/model"
)

// Index maps declaration keys ("fn foo", "mod bar") to the sites that
// declare them. The zero value is not usable; call New.
type Index struct {
	defines map[string]map[model.Site]struct{}
}

// New returns an empty index.
func New() *Index {
	return &Index{defines: make(map[string]map[model.Site]struct{})}
}

// Add records every definition tag in tags under file. Reference tags are
// ignored.
func (ix *Index) Add(file string, tags []model.Tag) {
	for i := range tags {
		tag := &tags[i]
		if tag.Kind != model.Definition {
			continue
		}
		key := tag.Key()
		if ix.defines[key] == nil {
			ix.defines[key] = make(map[model.Site]struct{})
		}
		ix.defines[key][model.Site{File: file, Line: tag.Line}] = struct{}{}
	}
}

// Sites returns the declaration sites of key ordered by file then line.
func (ix *Index) Sites(key string) []model.Site {
	if ix == nil {
		return nil
	}
	set := ix.defines[key]
	if len(set) == 0 {
		return nil
	}
	sites := make([]model.Site, 0, len(set))
	for s := range set {
		sites = append(sites, s)
	}
	sort.Slice(sites, func(i, j int) bool {
		if sites[i].File != sites[j].File {
			return sites[i].File < sites[j].File
		}
		return sites[i].Line < sites[j].Line
	})
	return sites
}

// Len returns the number of distinct declaration keys.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.defines)
}
