package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"strings"

	"github.com/matzehuels/cargoprint/pkg/errors"
)

// Runner executes name with args in dir and returns its standard output.
// A non-nil error must describe why the command failed.
type Runner func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

// Cargo is a Provider backed by `cargo metadata`.
type Cargo struct {
	// Binary is the cargo executable. Defaults to $CARGO (set by cargo for
	// its subcommands) or "cargo" from PATH.
	Binary string
	// Run executes the command. Defaults to ExecRunner.
	Run Runner
}

// NewCargo creates a Cargo provider using the cargo binary that invoked
// this process, falling back to "cargo" from PATH.
func NewCargo() *Cargo {
	bin := os.Getenv("CARGO")
	if bin == "" {
		bin = "cargo"
	}
	return &Cargo{Binary: bin, Run: ExecRunner}
}

// Name returns "cargo".
func (c *Cargo) Name() string { return "cargo" }

// Args returns the cargo arguments used for sel. Feature hints are passed
// through as selected; --features is omitted when the list is empty.
func (c *Cargo) Args(sel FeatureSelection) []string {
	args := []string{"metadata", "--format-version", "1", "--no-deps"}
	if sel.NoDefaultFeatures {
		args = append(args, "--no-default-features")
	}
	if len(sel.Features) > 0 {
		args = append(args, "--features", strings.Join(sel.Features, " "))
	}
	if sel.AllFeatures {
		args = append(args, "--all-features")
	}
	return args
}

// Load runs cargo metadata in dir and decodes its output.
func (c *Cargo) Load(ctx context.Context, dir string, sel FeatureSelection) (*Snapshot, error) {
	bin, run := c.Binary, c.Run
	if bin == "" {
		bin = "cargo"
	}
	if run == nil {
		run = ExecRunner
	}

	out, err := run(ctx, dir, bin, c.Args(sel)...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeProvider, err, "`%s metadata` failed", bin)
	}
	return Decode(out)
}

// ExecRunner runs the command as a child process inheriting the current
// environment. Standard error of the child is folded into the returned error.
func ExecRunner(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, &commandError{err: err, stderr: msg}
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}

type commandError struct {
	err    error
	stderr string
}

func (e *commandError) Error() string { return e.err.Error() + "\n" + e.stderr }
func (e *commandError) Unwrap() error { return e.err }

// Decode parses the JSON document printed by `cargo metadata --format-version 1`.
func Decode(data []byte) (*Snapshot, error) {
	var raw cargoMetadata
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeProvider, err, "decode cargo metadata")
	}

	snap := &Snapshot{
		Packages:         make([]Package, 0, len(raw.Packages)),
		WorkspaceMembers: raw.WorkspaceMembers,
		WorkspaceRoot:    raw.WorkspaceRoot,
	}
	for _, p := range raw.Packages {
		snap.Packages = append(snap.Packages, p.toPackage())
	}
	return snap, nil
}

type cargoMetadata struct {
	Packages         []cargoPackage `json:"packages"`
	WorkspaceMembers []string       `json:"workspace_members"`
	WorkspaceRoot    string         `json:"workspace_root"`
}

type cargoPackage struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Version      string              `json:"version"`
	ManifestPath string              `json:"manifest_path"`
	Features     map[string][]string `json:"features"`
	Dependencies []cargoDependency   `json:"dependencies"`
	Targets      []cargoTarget       `json:"targets"`
}

type cargoDependency struct {
	Name     string  `json:"name"`
	Rename   *string `json:"rename"`
	Optional bool    `json:"optional"`
	Kind     *string `json:"kind"`
}

type cargoTarget struct {
	Name             string   `json:"name"`
	Kind             []string `json:"kind"`
	RequiredFeatures []string `json:"required-features"`
	SrcPath          string   `json:"src_path"`
}

func (p cargoPackage) toPackage() Package {
	pkg := Package{
		ID:           p.ID,
		Name:         p.Name,
		Version:      p.Version,
		ManifestPath: p.ManifestPath,
		Features:     p.Features,
		Dependencies: make([]Dependency, 0, len(p.Dependencies)),
		Targets:      make([]Target, 0, len(p.Targets)),
	}
	if pkg.Features == nil {
		pkg.Features = map[string][]string{}
	}
	for _, d := range p.Dependencies {
		dep := Dependency{Name: d.Name, Optional: d.Optional, Kind: DepKindNormal}
		if d.Rename != nil {
			dep.Rename = *d.Rename
		}
		if d.Kind != nil && *d.Kind != "" {
			dep.Kind = *d.Kind
		}
		pkg.Dependencies = append(pkg.Dependencies, dep)
	}
	for _, t := range p.Targets {
		pkg.Targets = append(pkg.Targets, Target{
			Name:             t.Name,
			Kind:             t.Kind,
			RequiredFeatures: t.RequiredFeatures,
			SrcPath:          t.SrcPath,
		})
	}
	return pkg
}
