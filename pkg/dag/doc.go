// Package dag provides the directed dependency graph used to reason about
// workspace members.
//
// # Overview
//
// Each node is a package; an edge From → To means From declares a dependency
// on To. The publish planner eliminates nodes with no remaining outgoing
// edges, and the graph command renders the structure as DOT.
//
// # Basic Usage
//
// Create a new graph with [New], add nodes with [DAG.AddNode], and edges with
// [DAG.AddEdge]:
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "app"})
//	g.AddNode(dag.Node{ID: "core"})
//	g.AddEdge(dag.Edge{From: "app", To: "core"})
//
// Query the graph structure with [DAG.Children], [DAG.Parents], [DAG.Sinks],
// and related methods. [DAG.FindCycle] reports a concrete cycle when the
// graph is not acyclic.
//
// # Determinism
//
// [DAG.Nodes], [DAG.Sources] and [DAG.Sinks] return nodes sorted by ID, so
// every traversal built on them produces reproducible output.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. Callers must synchronize access
// if multiple goroutines read or modify the same graph.
package dag
