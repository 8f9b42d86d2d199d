// Package dot renders the intra-workspace dependency graph as Graphviz DOT
// and, through goccy/go-graphviz, as SVG.
//
// Nodes are workspace members, emitted in name order; each edge points from
// a dependent to its dependency, the same direction [dag.Edge] uses. Edge
// order is sorted as well so the DOT text is stable across runs.
//
//	dotText := dot.ToDOT(g, dot.Options{})
//	svg, err := dot.RenderSVG(ctx, dotText)
package dot

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/cargoprint/pkg/dag"
)

// Options configures DOT generation.
type Options struct {
	// Detailed adds node metadata (version, manifest path) and the number
	// of dependencies and dependents to labels.
	Detailed bool
}

// ToDOT converts g to Graphviz DOT source.
func ToDOT(g *dag.DAG, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph workspace {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(*n, fmtLabel(g, *n, opts.Detailed)), ", "))
	}

	edges := g.Edges()
	slices.SortFunc(edges, func(a, b dag.Edge) int {
		return cmp.Or(cmp.Compare(a.From, b.From), cmp.Compare(a.To, b.To))
	})

	buf.WriteString("\n")
	for _, e := range edges {
		if kind, ok := e.Meta["kind"].(string); ok && kind != "" && kind != "normal" {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed, label=%q];\n", e.From, e.To, kind)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(g *dag.DAG, n dag.Node, detailed bool) string {
	if !detailed {
		return n.ID
	}

	parts := make([]string, 0, len(n.Meta)+2)
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		if v := fmt.Sprint(n.Meta[k]); v != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", k, v))
		}
	}
	parts = append(parts,
		fmt.Sprintf("dependencies: %d", g.OutDegree(n.ID)),
		fmt.Sprintf("dependents: %d", g.InDegree(n.ID)),
	)
	return n.ID + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n dag.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if v, ok := n.Meta["version"].(string); ok && v != "" {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", n.ID+" "+v))
	}
	return attrs
}

// RenderSVG renders DOT source to SVG using the embedded Graphviz engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-based svg header with a plain
// viewBox anchored at the origin so the image scales in browsers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
