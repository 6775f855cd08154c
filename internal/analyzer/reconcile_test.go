package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconcile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		declared         Set
		used             Set
		dependencies     Set
		usedDependencies Set
		wantDeps         []string
		wantFns          []string
		wantMods         []string
	}{
		{
			name:             "empty",
			declared:         NewSet(),
			used:             NewSet(),
			dependencies:     NewSet(),
			usedDependencies: NewSet(),
			wantDeps:         []string{},
			wantFns:          []string{},
			wantMods:         []string{},
		},
		{
			name:             "everything used",
			declared:         NewSet("fn a", "fn b"),
			used:             NewSet("fn a", "fn b"),
			dependencies:     NewSet("serde"),
			usedDependencies: NewSet("serde"),
			wantDeps:         []string{},
			wantFns:          []string{},
			wantMods:         []string{},
		},
		{
			name:             "unused split by kind",
			declared:         NewSet("fn used", "fn idle", "mod net", "mod db"),
			used:             NewSet("fn used"),
			dependencies:     NewSet("serde", "log", "anyhow"),
			usedDependencies: NewSet("serde"),
			wantDeps:         []string{"anyhow", "log"},
			wantFns:          []string{"fn idle"},
			wantMods:         []string{"mod db", "mod net"},
		},
		{
			name:             "usages of undeclared names are ignored",
			declared:         NewSet(),
			used:             NewSet("fn println", "fn new"),
			dependencies:     NewSet(),
			usedDependencies: NewSet("std", "crate", "tokio"),
			wantDeps:         []string{},
			wantFns:          []string{},
			wantMods:         []string{},
		},
		{
			name:             "dependency names match exactly",
			declared:         NewSet(),
			used:             NewSet(),
			dependencies:     NewSet("serde_json", "once-cell"),
			usedDependencies: NewSet("serde_json", "once_cell"),
			wantDeps:         []string{"once-cell"},
			wantFns:          []string{},
			wantMods:         []string{},
		},
		{
			name:             "function usage does not mark a module",
			declared:         NewSet("mod util", "fn util"),
			used:             NewSet("fn util"),
			dependencies:     NewSet(),
			usedDependencies: NewSet(),
			wantDeps:         []string{},
			wantFns:          []string{},
			wantMods:         []string{"mod util"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := Reconcile(tt.declared, tt.used, tt.dependencies, tt.usedDependencies)
			assert.Equal(t, tt.wantDeps, r.UnusedDependencies)
			assert.Equal(t, tt.wantFns, r.UnusedFunctions)
			assert.Equal(t, tt.wantMods, r.UnusedModules)
		})
	}
}

func TestReconcileDoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	declared := NewSet("fn a")
	used := NewSet()
	deps := NewSet("x")
	usedDeps := NewSet()

	first := Reconcile(declared, used, deps, usedDeps)
	second := Reconcile(declared, used, deps, usedDeps)

	assert.Equal(t, first, second)
	assert.Len(t, declared, 1)
	assert.Empty(t, used)
	assert.Len(t, deps, 1)
	assert.Empty(t, usedDeps)
}

func TestSet(t *testing.T) {
	t.Parallel()

	s := NewSet("b", "a", "b")
	s.Add("c", "a")
	assert.Len(t, s, 3)
	assert.True(t, s.Has("a"))
	assert.False(t, s.Has("z"))
	assert.Equal(t, []string{"a", "b", "c"}, s.Sorted())
}

func TestSetSortedEmpty(t *testing.T) {
	t.Parallel()

	sorted := NewSet().Sorted()
	assert.NotNil(t, sorted)
	assert.Empty(t, sorted)
}
