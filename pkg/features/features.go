// Package features resolves the set of enabled Cargo features for a package.
//
// A package's feature graph maps each feature to the features it implies.
// Besides the features declared in [features], every optional dependency is
// an implicit feature named after the dependency (its rename, if any) that
// implies nothing. A declared feature with the same name takes precedence.
//
// Resolution validates the requested names against the graph, picks a seed
// set from the request flags, and expands it to its transitive closure. The
// graph may contain cycles; expansion terminates because every name is
// inserted at most once.
package features

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/cargoprint/pkg/errors"
	"github.com/matzehuels/cargoprint/pkg/metadata"
)

// DefaultFeature is the feature enabled unless --no-default-features is given.
const DefaultFeature = "default"

// Graph maps a feature name to the feature names it implies.
type Graph map[string][]string

// Request is the user's feature selection.
type Request struct {
	Features          []string
	NoDefaultFeatures bool
	AllFeatures       bool
}

// Set is a set of feature names.
type Set map[string]struct{}

// Has reports whether name is in the set.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the members of the set in lexicographic order.
func (s Set) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

// BuildGraph assembles the feature graph of pkg. Optional dependencies are
// added first and declared features overlaid on top, so a declaration
// always wins over the implicit dependency feature.
func BuildGraph(pkg *metadata.Package) Graph {
	g := make(Graph, len(pkg.Features)+len(pkg.Dependencies))
	for _, dep := range pkg.Dependencies {
		if dep.Optional {
			g[dep.EffectiveName()] = nil
		}
	}
	for name, implied := range pkg.Features {
		g[name] = implied
	}
	return g
}

// Has reports whether name is a node of the graph.
func (g Graph) Has(name string) bool {
	_, ok := g[name]
	return ok
}

// Names returns every node of the graph in lexicographic order.
func (g Graph) Names() []string {
	return slices.Sorted(maps.Keys(g))
}

// Validate fails with an INVALID_FEATURE error naming every requested
// feature that is not a node of the graph.
func (g Graph) Validate(requested []string) error {
	var invalid []string
	for _, name := range requested {
		if !g.Has(name) && !slices.Contains(invalid, name) {
			invalid = append(invalid, name)
		}
	}
	if len(invalid) == 0 {
		return nil
	}
	slices.Sort(invalid)

	quoted := make([]string, len(invalid))
	for i, name := range invalid {
		quoted[i] = strconv.Quote(name)
	}
	noun := "feature"
	if len(invalid) > 1 {
		noun = "features"
	}
	return errors.New(errors.ErrCodeInvalidFeature, "invalid %s %s", noun, strings.Join(quoted, ", "))
}

// Seed returns the starting set for closure. With AllFeatures every node is
// enabled and the other flags are ignored. Otherwise the requested features
// are used, plus "default" when it exists and NoDefaultFeatures is false.
func (g Graph) Seed(req Request) Set {
	seed := make(Set)
	if req.AllFeatures {
		for name := range g {
			seed[name] = struct{}{}
		}
		return seed
	}
	for _, name := range req.Features {
		seed[name] = struct{}{}
	}
	if !req.NoDefaultFeatures && g.Has(DefaultFeature) {
		seed[DefaultFeature] = struct{}{}
	}
	return seed
}

// Closure expands seed with everything it transitively implies. Implied
// names that are not nodes (such as "dep:name" or "crate/feature") are
// included as written but imply nothing further.
func (g Graph) Closure(seed Set) Set {
	enabled := make(Set, len(seed))
	queue := make([]string, 0, len(seed))
	for name := range seed {
		enabled[name] = struct{}{}
		queue = append(queue, name)
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, next := range g[curr] {
			if !enabled.Has(next) {
				enabled[next] = struct{}{}
				queue = append(queue, next)
			}
		}
	}
	return enabled
}

// Resolve builds the feature graph of pkg, validates the request and
// returns the closed set of enabled features.
func Resolve(pkg *metadata.Package, req Request) (Set, error) {
	g := BuildGraph(pkg)
	if err := g.Validate(req.Features); err != nil {
		return nil, err
	}
	return g.Closure(g.Seed(req)), nil
}

// SplitList splits --features values on ASCII space, dropping empty
// fragments and duplicates while preserving first-seen order.
func SplitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, name := range strings.Split(v, " ") {
			if name != "" && !slices.Contains(out, name) {
				out = append(out, name)
			}
		}
	}
	return out
}
