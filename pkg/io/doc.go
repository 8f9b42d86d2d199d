// Package io serializes the workspace dependency graph as JSON.
//
// # JSON Format
//
// The document carries the graph metadata and two arrays. Nodes are
// workspace members sorted by name, each listing the members it depends on
// and the members that depend on it; edges point from a dependent to its
// dependency and are sorted by (from, to):
//
//	{
//	  "meta": {"workspace_root": "/ws"},
//	  "nodes": [
//	    {"id": "app", "meta": {"manifest_path": "/ws/app/Cargo.toml", "version": "0.2.0"}, "dependencies": ["core"]},
//	    {"id": "core", "meta": {"manifest_path": "/ws/core/Cargo.toml", "version": "0.1.0"}, "dependents": ["app"]}
//	  ],
//	  "edges": [
//	    {"from": "app", "to": "core", "kind": "normal"}
//	  ]
//	}
//
// Empty meta, dependencies and dependents are omitted. Edge kind is the
// Cargo dependency kind ("normal", "dev" or "build"); a member named in
// several dependency tables gets "normal" if any of them is normal.
package io
