package metadata

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/matzehuels/cargoprint/pkg/errors"
)

// Manifest is a Provider that reads Cargo.toml files directly instead of
// asking cargo. Feature hints are ignored: they only influence cargo's
// dependency resolution, which this provider does not perform.
type Manifest struct{}

// NewManifest creates a Manifest provider.
func NewManifest() *Manifest { return &Manifest{} }

// Name returns "manifest".
func (m *Manifest) Name() string { return "manifest" }

// Load locates the package manifest for dir, the workspace it belongs to,
// and parses every workspace member.
func (m *Manifest) Load(ctx context.Context, dir string, _ FeatureSelection) (*Snapshot, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeProvider, err, "resolve %s", dir)
	}

	current, err := findManifest(dir)
	if err != nil {
		return nil, err
	}
	currentFile, err := readManifest(current)
	if err != nil {
		return nil, err
	}

	rootPath, rootFile := current, currentFile
	if currentFile.Workspace == nil {
		if p, f, ok := findWorkspaceRoot(filepath.Dir(current)); ok && f.includes(filepath.Dir(p), filepath.Dir(current)) {
			rootPath, rootFile = p, f
		}
	}

	members := []string{rootPath}
	if rootFile.Workspace != nil {
		members, err = rootFile.memberManifests(filepath.Dir(rootPath))
		if err != nil {
			return nil, err
		}
	}

	parsed := map[string]*manifestFile{current: currentFile, rootPath: rootFile}
	snap := &Snapshot{WorkspaceRoot: filepath.Dir(rootPath)}
	for _, path := range members {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, ok := parsed[path]
		if !ok {
			if f, err = readManifest(path); err != nil {
				return nil, err
			}
		}
		if f.Package == nil {
			continue
		}
		pkg, err := f.toPackage(path, rootFile.Workspace)
		if err != nil {
			return nil, err
		}
		snap.Packages = append(snap.Packages, pkg)
		snap.WorkspaceMembers = append(snap.WorkspaceMembers, pkg.ID)
	}
	return snap, nil
}

// findManifest walks up from dir to the first directory holding a Cargo.toml.
func findManifest(dir string) (string, error) {
	for d := dir; ; d = filepath.Dir(d) {
		path := filepath.Join(d, ManifestName)
		if fileExists(path) {
			return path, nil
		}
		if filepath.Dir(d) == d {
			return "", errors.New(errors.ErrCodeProvider,
				"could not find `%s` in `%s` or any parent directory", ManifestName, dir)
		}
	}
}

// findWorkspaceRoot walks up from dir (exclusive) to the first manifest that
// declares a [workspace] table.
func findWorkspaceRoot(dir string) (string, *manifestFile, bool) {
	for d := filepath.Dir(dir); ; d = filepath.Dir(d) {
		path := filepath.Join(d, ManifestName)
		if fileExists(path) {
			if f, err := readManifest(path); err == nil && f.Workspace != nil {
				return path, f, true
			}
		}
		if filepath.Dir(d) == d {
			return "", nil, false
		}
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func readManifest(path string) (*manifestFile, error) {
	var f manifestFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse %s", path)
	}
	return &f, nil
}

type manifestFile struct {
	Package           *manifestPackage            `toml:"package"`
	Workspace         *manifestWorkspace          `toml:"workspace"`
	Features          map[string][]string         `toml:"features"`
	Dependencies      map[string]any              `toml:"dependencies"`
	DevDependencies   map[string]any              `toml:"dev-dependencies"`
	BuildDependencies map[string]any              `toml:"build-dependencies"`
	Target            map[string]manifestPlatform `toml:"target"`
	Lib               *manifestTarget             `toml:"lib"`
	Bin               []manifestTarget            `toml:"bin"`
	Example           []manifestTarget            `toml:"example"`
	Test              []manifestTarget            `toml:"test"`
	Bench             []manifestTarget            `toml:"bench"`
}

type manifestPackage struct {
	Name         string `toml:"name"`
	Version      any    `toml:"version"`
	Autobins     *bool  `toml:"autobins"`
	Autoexamples *bool  `toml:"autoexamples"`
	Autotests    *bool  `toml:"autotests"`
	Autobenches  *bool  `toml:"autobenches"`
}

type manifestWorkspace struct {
	Members      []string       `toml:"members"`
	Exclude      []string       `toml:"exclude"`
	Dependencies map[string]any `toml:"dependencies"`
	Package      map[string]any `toml:"package"`
}

type manifestPlatform struct {
	Dependencies      map[string]any `toml:"dependencies"`
	DevDependencies   map[string]any `toml:"dev-dependencies"`
	BuildDependencies map[string]any `toml:"build-dependencies"`
}

type depTable struct {
	kind string
	deps map[string]any
}

type manifestTarget struct {
	Name             string   `toml:"name"`
	Path             string   `toml:"path"`
	RequiredFeatures []string `toml:"required-features"`
	CrateType        []string `toml:"crate-type"`
}

// memberManifests expands workspace.members globs relative to root, drops
// workspace.exclude entries, and adds the root itself when it is a package.
// Patterns follow Cargo's glob rules, where "**" spans any number of
// directories, including none.
func (f *manifestFile) memberManifests(root string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			paths = append(paths, path)
		}
	}

	if f.Package != nil {
		add(filepath.Join(root, ManifestName))
	}
	for _, pattern := range f.Workspace.Members {
		dirs, err := doublestar.FilepathGlob(filepath.Join(root, filepath.FromSlash(pattern)))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "workspace member pattern %q", pattern)
		}
		for _, d := range dirs {
			if f.excludes(root, d) {
				continue
			}
			if path := filepath.Join(d, ManifestName); fileExists(path) {
				add(path)
			}
		}
	}
	return paths, nil
}

// excludes reports whether dir falls under a workspace.exclude entry. An
// entry excludes the directory it names and everything below it; entries
// containing glob characters are matched against the root-relative path.
func (f *manifestFile) excludes(root, dir string) bool {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, ex := range f.Workspace.Exclude {
		ex = filepath.ToSlash(filepath.Clean(filepath.FromSlash(ex)))
		if rel == ex || strings.HasPrefix(rel, ex+"/") {
			return true
		}
		if ok, err := doublestar.Match(ex, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// includes reports whether the workspace rooted at root lists dir as a member.
func (f *manifestFile) includes(root, dir string) bool {
	paths, err := f.memberManifests(root)
	if err != nil {
		return false
	}
	return slices.Contains(paths, filepath.Join(dir, ManifestName))
}

func (f *manifestFile) toPackage(path string, ws *manifestWorkspace) (Package, error) {
	if f.Package.Name == "" {
		return Package{}, errors.New(errors.ErrCodeInvalidManifest, "%s: missing package.name", path)
	}
	dir := filepath.Dir(path)
	version := f.version(ws)

	pkg := Package{
		ID:           fmt.Sprintf("path+file://%s#%s@%s", filepath.ToSlash(dir), f.Package.Name, version),
		Name:         f.Package.Name,
		Version:      version,
		ManifestPath: path,
		Features:     f.Features,
	}
	if pkg.Features == nil {
		pkg.Features = map[string][]string{}
	}

	tables := []depTable{
		{DepKindNormal, f.Dependencies},
		{DepKindDev, f.DevDependencies},
		{DepKindBuild, f.BuildDependencies},
	}
	for _, cfg := range sortedKeys(f.Target) {
		platform := f.Target[cfg]
		tables = append(tables,
			depTable{DepKindNormal, platform.Dependencies},
			depTable{DepKindDev, platform.DevDependencies},
			depTable{DepKindBuild, platform.BuildDependencies},
		)
	}
	for _, table := range tables {
		for _, key := range sortedKeys(table.deps) {
			pkg.Dependencies = append(pkg.Dependencies, parseDependency(key, table.deps[key], table.kind, ws))
		}
	}

	pkg.Targets = f.targets(dir)
	return pkg, nil
}

func (f *manifestFile) version(ws *manifestWorkspace) string {
	switch v := f.Package.Version.(type) {
	case string:
		return v
	case map[string]any:
		if inherit, _ := v["workspace"].(bool); inherit && ws != nil {
			if s, ok := ws.Package["version"].(string); ok {
				return s
			}
		}
	}
	return "0.0.0"
}

// parseDependency reads one dependency entry. Entries are either a version
// string or a table that may rename the package, mark it optional, or
// inherit its definition from [workspace.dependencies].
func parseDependency(key string, value any, kind string, ws *manifestWorkspace) Dependency {
	dep := Dependency{Name: key, Kind: kind}
	spec, ok := value.(map[string]any)
	if !ok {
		return dep
	}
	if optional, ok := spec["optional"].(bool); ok {
		dep.Optional = optional
	}
	pkgName, _ := spec["package"].(string)
	if inherit, _ := spec["workspace"].(bool); inherit && ws != nil && pkgName == "" {
		if wsSpec, ok := ws.Dependencies[key].(map[string]any); ok {
			pkgName, _ = wsSpec["package"].(string)
		}
	}
	if pkgName != "" && pkgName != key {
		dep.Name = pkgName
		dep.Rename = key
	}
	return dep
}

// targets combines explicitly declared targets with the ones Cargo infers
// from the conventional directory layout. An explicit target overrides an
// inferred one with the same name and kind.
func (f *manifestFile) targets(dir string) []Target {
	var targets []Target

	libPath := filepath.Join(dir, "src", "lib.rs")
	if f.Lib != nil || fileExists(libPath) {
		lib := Target{Name: strings.ReplaceAll(f.Package.Name, "-", "_"), Kind: []string{KindLib}, SrcPath: libPath}
		if f.Lib != nil {
			if f.Lib.Name != "" {
				lib.Name = f.Lib.Name
			}
			if len(f.Lib.CrateType) > 0 {
				lib.Kind = f.Lib.CrateType
			}
			if f.Lib.Path != "" {
				lib.SrcPath = filepath.Join(dir, filepath.FromSlash(f.Lib.Path))
			}
			lib.RequiredFeatures = f.Lib.RequiredFeatures
		}
		targets = append(targets, lib)
	}

	var inferredBins []Target
	if enabled(f.Package.Autobins) {
		if main := filepath.Join(dir, "src", "main.rs"); fileExists(main) {
			inferredBins = append(inferredBins, Target{Name: f.Package.Name, Kind: []string{KindBin}, SrcPath: main})
		}
		inferredBins = append(inferredBins, inferTargets(filepath.Join(dir, "src", "bin"), KindBin)...)
	}
	targets = append(targets, mergeTargets(dir, KindBin, "src/bin", f.Bin, inferredBins)...)

	sections := []struct {
		kind     string
		subdir   string
		auto     *bool
		explicit []manifestTarget
	}{
		{KindExample, "examples", f.Package.Autoexamples, f.Example},
		{KindTest, "tests", f.Package.Autotests, f.Test},
		{KindBench, "benches", f.Package.Autobenches, f.Bench},
	}
	for _, s := range sections {
		var inferred []Target
		if enabled(s.auto) {
			inferred = inferTargets(filepath.Join(dir, s.subdir), s.kind)
		}
		targets = append(targets, mergeTargets(dir, s.kind, s.subdir, s.explicit, inferred)...)
	}
	return targets
}

func enabled(flag *bool) bool { return flag == nil || *flag }

// inferTargets lists <dir>/*.rs and <dir>/*/main.rs as targets of kind.
func inferTargets(dir, kind string) []Target {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var targets []Target
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		switch {
		case !e.IsDir() && strings.HasSuffix(e.Name(), ".rs"):
			targets = append(targets, Target{Name: strings.TrimSuffix(e.Name(), ".rs"), Kind: []string{kind}, SrcPath: path})
		case e.IsDir() && fileExists(filepath.Join(path, "main.rs")):
			targets = append(targets, Target{Name: e.Name(), Kind: []string{kind}, SrcPath: filepath.Join(path, "main.rs")})
		}
	}
	return targets
}

func mergeTargets(dir, kind, subdir string, explicit []manifestTarget, inferred []Target) []Target {
	var targets []Target
	declared := make(map[string]bool, len(explicit))
	for _, e := range explicit {
		if e.Name == "" {
			continue
		}
		declared[e.Name] = true
		// cargo reports examples as kind "example" whatever their crate-type.
		t := Target{Name: e.Name, Kind: []string{kind}, RequiredFeatures: e.RequiredFeatures}
		switch {
		case e.Path != "":
			t.SrcPath = filepath.Join(dir, filepath.FromSlash(e.Path))
		default:
			t.SrcPath = filepath.Join(dir, filepath.FromSlash(subdir), e.Name+".rs")
			for _, inf := range inferred {
				if inf.Name == e.Name {
					t.SrcPath = inf.SrcPath
				}
			}
		}
		targets = append(targets, t)
	}
	for _, inf := range inferred {
		if !declared[inf.Name] {
			targets = append(targets, inf)
		}
	}
	return targets
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
