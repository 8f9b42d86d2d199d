// Package metadata describes Cargo packages and workspaces.
//
// A [Provider] turns a directory into a [Snapshot]: the packages visible from
// that directory, their features, dependencies and build targets, and the ids
// of the workspace members. Two providers are available:
//
//   - [Cargo] runs `cargo metadata --format-version 1 --no-deps` and decodes
//     its JSON output. This is the authoritative source and the default.
//   - [Manifest] reads Cargo.toml files directly. It understands workspace
//     member globs, renamed and optional dependencies, dependency inheritance
//     from [workspace.dependencies], and Cargo's target auto-discovery
//     (src/main.rs, src/bin, examples, tests, benches). It is meant for hosts
//     where cargo is unavailable.
//
// Snapshots are built once per invocation and treated as read-only.
//
// # Usage
//
//	p := metadata.NewCargo()
//	snap, err := p.Load(ctx, dir, metadata.FeatureSelection{})
//	if err != nil {
//	    return err
//	}
//	for _, pkg := range snap.Members() {
//	    fmt.Println(pkg.Name)
//	}
package metadata
