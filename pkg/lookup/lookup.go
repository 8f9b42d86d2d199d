// Package lookup answers the two questions scripts ask about a workspace
// snapshot: which package owns the current directory, and where a named
// member lives.
//
// Both lookups require a unique match. A snapshot that reports two packages
// with the same manifest path or the same name violates Cargo's own
// guarantees, so that case is reported as an invariant violation rather
// than silently picking one.
package lookup

import (
	"path/filepath"

	"github.com/matzehuels/cargoprint/pkg/errors"
	"github.com/matzehuels/cargoprint/pkg/metadata"
)

// ByManifest returns the package whose manifest is cwd/Cargo.toml.
// Paths are compared after cleaning; cwd is expected to be absolute.
func ByManifest(snap *metadata.Snapshot, cwd string) (*metadata.Package, error) {
	current := filepath.Join(cwd, metadata.ManifestName)

	var found []*metadata.Package
	for i := range snap.Packages {
		if filepath.Clean(snap.Packages[i].ManifestPath) == current {
			found = append(found, &snap.Packages[i])
		}
	}

	switch len(found) {
	case 0:
		return nil, errors.New(errors.ErrCodeNotInPackage, "no package manifest at %s", current)
	case 1:
		return found[0], nil
	default:
		return nil, errors.New(errors.ErrCodeInvariant, "%d packages share the manifest %s", len(found), current)
	}
}

// ByName returns the package called name.
func ByName(snap *metadata.Snapshot, name string) (*metadata.Package, error) {
	var found []*metadata.Package
	for i := range snap.Packages {
		if snap.Packages[i].Name == name {
			found = append(found, &snap.Packages[i])
		}
	}

	switch len(found) {
	case 0:
		return nil, errors.New(errors.ErrCodePackageNotFound, "package %q not found", name)
	case 1:
		return found[0], nil
	default:
		return nil, errors.New(errors.ErrCodeInvariant, "%d packages are named %q", len(found), name)
	}
}

// Directory returns the directory containing the manifest of the package
// called name.
func Directory(snap *metadata.Snapshot, name string) (string, error) {
	pkg, err := ByName(snap, name)
	if err != nil {
		return "", err
	}
	return filepath.Dir(filepath.Clean(pkg.ManifestPath)), nil
}
