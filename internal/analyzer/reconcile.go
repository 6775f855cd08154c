package analyzer

import (
	"github.com/Dhir0808/cargo-rust-unused/internal/model"
)

// Reconcile turns the accumulated sets into a report. Declarations are
// matched against usages by kind-prefixed key alone: the file, module path,
// arity and generic instantiation of either side play no part. Dependencies
// are matched by exact name.
//
// Reconcile knows nothing about syntax trees; it only needs the four sets.
func Reconcile(declared, used, dependencies, usedDependencies Set) *model.Report {
	unusedDeps := NewSet()
	for dep := range dependencies {
		if !usedDependencies.Has(dep) {
			unusedDeps.Add(dep)
		}
	}

	unusedFuncs, unusedMods := NewSet(), NewSet()
	for key := range declared {
		if used.Has(key) {
			continue
		}
		decl, ok := model.ParseKey(key)
		if !ok {
			continue
		}
		switch decl.Kind {
		case model.Function:
			unusedFuncs.Add(key)
		case model.Module:
			unusedMods.Add(key)
		}
	}

	report := model.NewReport()
	report.UnusedDependencies = unusedDeps.Sorted()
	report.UnusedFunctions = unusedFuncs.Sorted()
	report.UnusedModules = unusedMods.Sorted()
	return report
}
