// Package examples selects the example targets that can be built with a
// given set of enabled features.
package examples

import (
	"slices"

	"github.com/matzehuels/cargoprint/pkg/features"
	"github.com/matzehuels/cargoprint/pkg/metadata"
)

// Select returns the names of pkg's example targets whose required features
// are all enabled. Names are deduplicated and sorted.
func Select(pkg *metadata.Package, enabled features.Set) []string {
	var names []string
	for _, t := range pkg.Targets {
		if !t.HasKind(metadata.KindExample) || !buildable(t, enabled) {
			continue
		}
		if !slices.Contains(names, t.Name) {
			names = append(names, t.Name)
		}
	}
	slices.Sort(names)
	return names
}

func buildable(t metadata.Target, enabled features.Set) bool {
	for _, f := range t.RequiredFeatures {
		if !enabled.Has(f) {
			return false
		}
	}
	return true
}
