package dot_test

import (
	"fmt"

	"github.com/matzehuels/cargoprint/pkg/dag"
	"github.com/matzehuels/cargoprint/pkg/render/dot"
)

func ExampleToDOT() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "app"})
	_ = g.AddNode(dag.Node{ID: "core"})
	_ = g.AddEdge(dag.Edge{From: "app", To: "core"})

	fmt.Print(dot.ToDOT(g, dot.Options{}))
	// Output:
	// digraph workspace {
	//   rankdir=TB;
	//   bgcolor="transparent";
	//   node [shape=box, style="rounded,filled", fillcolor=white, fontsize=14, margin="0.2,0.1"];
	//   ranksep=0.5;
	//   nodesep=0.3;
	//
	//   "app" [label="app"];
	//   "core" [label="core"];
	//
	//   "app" -> "core";
	// }
}
