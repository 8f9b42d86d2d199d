package metadata

import (
	"context"
	"slices"
)

// Dependency kinds as reported by cargo metadata. Normal dependencies are
// reported with a null kind; Decode normalizes that to DepKindNormal.
const (
	DepKindNormal = "normal"
	DepKindDev    = "dev"
	DepKindBuild  = "build"
)

// Target kinds the tool cares about.
const (
	KindLib     = "lib"
	KindBin     = "bin"
	KindExample = "example"
	KindTest    = "test"
	KindBench   = "bench"
)

// ManifestName is the file name of a package manifest.
const ManifestName = "Cargo.toml"

// Snapshot is a read-only description of the packages visible from a
// directory: every package the provider reported plus the ids of the
// workspace members among them.
type Snapshot struct {
	Packages         []Package
	WorkspaceMembers []string
	WorkspaceRoot    string
}

// Package is one package as described by its manifest.
type Package struct {
	ID           string
	Name         string
	Version      string
	ManifestPath string              // absolute path to Cargo.toml
	Features     map[string][]string // feature -> implied features
	Dependencies []Dependency
	Targets      []Target
}

// Dependency is a declared dependency of a package.
type Dependency struct {
	Name     string // name of the depended-on package
	Rename   string // key used in the manifest when `package = "..."` renames it
	Optional bool
	Kind     string
}

// EffectiveName returns the name the dependency is known by inside the
// depending package: the rename if present, otherwise its name. Optional
// dependencies are exposed as implicit features under this name.
func (d Dependency) EffectiveName() string {
	if d.Rename != "" {
		return d.Rename
	}
	return d.Name
}

// Target is a build artifact declared by a package.
type Target struct {
	Name             string
	Kind             []string
	RequiredFeatures []string
	SrcPath          string
}

// HasKind reports whether the target carries the given kind tag.
func (t Target) HasKind(kind string) bool {
	return slices.Contains(t.Kind, kind)
}

// FeatureSelection is the feature hint forwarded to the provider. It mirrors
// the --no-default-features, --features and --all-features flags.
type FeatureSelection struct {
	NoDefaultFeatures bool
	Features          []string
	AllFeatures       bool
}

// Provider produces a Snapshot for the package or workspace containing dir.
type Provider interface {
	// Name returns the provider identifier (e.g., "cargo").
	Name() string
	// Load describes the package or workspace containing dir.
	Load(ctx context.Context, dir string, sel FeatureSelection) (*Snapshot, error)
}

// Package returns the package with the given id.
func (s *Snapshot) Package(id string) (*Package, bool) {
	for i := range s.Packages {
		if s.Packages[i].ID == id {
			return &s.Packages[i], true
		}
	}
	return nil, false
}

// Members returns the workspace member packages in the order the provider
// listed them. Member ids without a matching package are skipped.
func (s *Snapshot) Members() []*Package {
	members := make([]*Package, 0, len(s.WorkspaceMembers))
	for _, id := range s.WorkspaceMembers {
		if p, ok := s.Package(id); ok {
			members = append(members, p)
		}
	}
	return members
}

// Static is a Provider that always returns the same snapshot. It is useful
// for tests and for feeding a snapshot decoded elsewhere back into the CLI.
type Static struct {
	Snapshot *Snapshot
	Err      error
}

// Name returns "static".
func (s *Static) Name() string { return "static" }

// Load returns the configured snapshot or error.
func (s *Static) Load(context.Context, string, FeatureSelection) (*Snapshot, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Snapshot, nil
}
