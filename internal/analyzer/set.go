package analyzer

import (
	"maps"
	"slices"
)

// Set is an unordered collection of strings.
type Set map[string]struct{}

// NewSet returns a set holding items.
func NewSet(items ...string) Set {
	s := make(Set, len(items))
	s.Add(items...)
	return s
}

// Add inserts items; duplicates are absorbed.
func (s Set) Add(items ...string) {
	for _, item := range items {
		s[item] = struct{}{}
	}
}

// Has reports whether item is in the set.
func (s Set) Has(item string) bool {
	_, ok := s[item]
	return ok
}

// Sorted returns the members in ascending order. An empty set yields an
// empty, non-nil slice.
func (s Set) Sorted() []string {
	out := slices.AppendSeq(make([]string, 0, len(s)), maps.Keys(s))
	slices.Sort(out)
	return out
}
