// Package publish plans the order in which workspace members must be
// published so that every member comes after the members it depends on.
//
// The plan is a Kahn-style elimination over the intra-workspace dependency
// graph: repeatedly take a member with no unpublished workspace
// dependencies, emit it, and remove it from the graph. When several members
// are ready the lexicographically smallest is taken, which makes the output
// reproducible. A cycle leaves no ready member and fails the plan.
package publish

import (
	"strings"

	"github.com/matzehuels/cargoprint/pkg/dag"
	"github.com/matzehuels/cargoprint/pkg/errors"
	"github.com/matzehuels/cargoprint/pkg/metadata"
)

// Graph builds the intra-workspace dependency graph of snap. There is one
// node per member, named after the package; an edge m → n exists when m
// declares a dependency (of any kind) on the package named n. When m names n
// in several tables the edge is tagged "normal" if any of them is normal.
func Graph(snap *metadata.Snapshot) (*dag.DAG, error) {
	members := snap.Members()
	g := dag.New(dag.Metadata{"workspace_root": snap.WorkspaceRoot})

	for _, p := range members {
		err := g.AddNode(dag.Node{ID: p.Name, Meta: dag.Metadata{
			"version":       p.Version,
			"manifest_path": p.ManifestPath,
		}})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvariant, err, "workspace member %q", p.Name)
		}
	}

	for _, p := range members {
		kinds := make(map[string]string)
		var targets []string
		for _, d := range p.Dependencies {
			if _, ok := g.Node(d.Name); !ok {
				continue
			}
			kind, seen := kinds[d.Name]
			if !seen {
				targets = append(targets, d.Name)
			}
			if !seen || (!isNormal(kind) && isNormal(d.Kind)) {
				kinds[d.Name] = d.Kind
			}
		}
		for _, to := range targets {
			if err := g.AddEdge(dag.Edge{From: p.Name, To: to, Meta: dag.Metadata{"kind": kinds[to]}}); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "edge %s -> %s", p.Name, to)
			}
		}
	}
	return g, nil
}

func isNormal(kind string) bool { return kind == "" || kind == metadata.DepKindNormal }

// Plan emits the members of g in publish order. emit is called as soon as a
// member is known to be ready, so callers can stream output; if a cycle is
// found later, the members emitted so far remain emitted and Plan returns a
// CYCLE error. g itself is not modified.
func Plan(g *dag.DAG, emit func(name string) error) error {
	pending := g.Clone()
	for pending.NodeCount() > 0 {
		ready := pending.Sinks()
		if len(ready) == 0 {
			return cycleError(pending)
		}
		next := ready[0].ID
		if err := emit(next); err != nil {
			return err
		}
		pending.RemoveNode(next)
	}
	return nil
}

// Order returns the full publish order of g, or the CYCLE error from Plan.
func Order(g *dag.DAG) ([]string, error) {
	order := make([]string, 0, g.NodeCount())
	err := Plan(g, func(name string) error {
		order = append(order, name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func cycleError(pending *dag.DAG) error {
	remaining := dag.NodeIDs(pending.Nodes())
	msg := "circular dependencies among " + strings.Join(remaining, ", ")
	if cycle := pending.FindCycle(); cycle != nil {
		msg += " (" + strings.Join(cycle, " -> ") + ")"
	}
	return errors.New(errors.ErrCodeCycle, "%s", msg)
}
