package io

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/matzehuels/cargoprint/pkg/dag"
)

type graph struct {
	Meta  dag.Metadata `json:"meta,omitempty"`
	Nodes []node       `json:"nodes"`
	Edges []edge       `json:"edges"`
}

type node struct {
	ID           string       `json:"id"`
	Meta         dag.Metadata `json:"meta,omitempty"`
	Dependencies []string     `json:"dependencies,omitempty"`
	Dependents   []string     `json:"dependents,omitempty"`
}

type edge struct {
	From string `json:"from"`
	To   string `json:"to"`
	Kind string `json:"kind,omitempty"`
}

// WriteJSON encodes g as indented JSON and writes it to w. Each node lists
// the members it depends on and the members depending on it, sorted.
func WriteJSON(g *dag.DAG, w io.Writer) error {
	out := graph{
		Meta:  g.Meta(),
		Nodes: make([]node, 0, g.NodeCount()),
		Edges: make([]edge, 0, g.EdgeCount()),
	}

	for _, n := range g.Nodes() {
		out.Nodes = append(out.Nodes, node{
			ID:           n.ID,
			Meta:         n.Meta,
			Dependencies: sortedIDs(g.Children(n.ID)),
			Dependents:   sortedIDs(g.Parents(n.ID)),
		})
	}
	for _, e := range g.Edges() {
		kind, _ := e.Meta["kind"].(string)
		out.Edges = append(out.Edges, edge{From: e.From, To: e.To, Kind: kind})
	}
	slices.SortFunc(out.Edges, func(a, b edge) int {
		return cmp.Or(cmp.Compare(a.From, b.From), cmp.Compare(a.To, b.To))
	})

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func sortedIDs(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	return slices.Sorted(slices.Values(ids))
}
