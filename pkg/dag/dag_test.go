package dag

import (
	"errors"
	"slices"
	"testing"
)

func newGraph(t *testing.T, ids []string, edges [][2]string) *DAG {
	t.Helper()
	g := New(nil)
	for _, id := range ids {
		if err := g.AddNode(Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%q): %v", id, err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatalf("AddEdge(%q, %q): %v", e[0], e[1], err)
		}
	}
	return g
}

func TestAddNode_Errors(t *testing.T) {
	g := New(nil)
	if err := g.AddNode(Node{}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("AddNode(empty) = %v, want %v", err, ErrInvalidNodeID)
	}
	if err := g.AddNode(Node{ID: "a"}); err != nil {
		t.Fatalf("AddNode(a): %v", err)
	}
	if err := g.AddNode(Node{ID: "a"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("AddNode(dup) = %v, want %v", err, ErrDuplicateNodeID)
	}
	n, _ := g.Node("a")
	if n.Meta == nil {
		t.Error("Meta should be initialized")
	}
}

func TestAddEdge_Errors(t *testing.T) {
	g := newGraph(t, []string{"a"}, nil)
	if err := g.AddEdge(Edge{From: "x", To: "a"}); !errors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("AddEdge(unknown from) = %v, want %v", err, ErrUnknownSourceNode)
	}
	if err := g.AddEdge(Edge{From: "a", To: "x"}); !errors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("AddEdge(unknown to) = %v, want %v", err, ErrUnknownTargetNode)
	}
}

func TestAddEdge_Duplicate(t *testing.T) {
	g := newGraph(t, []string{"a", "b"}, [][2]string{{"a", "b"}, {"a", "b"}})
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	if g.InDegree("b") != 1 {
		t.Errorf("InDegree(b) = %d, want 1", g.InDegree("b"))
	}
}

func TestRemoveNode(t *testing.T) {
	g := newGraph(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}, {"a", "c"}})

	g.RemoveNode("b")

	if _, ok := g.Node("b"); ok {
		t.Error("node b should be gone")
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	if got := g.Children("a"); !slices.Equal(got, []string{"c"}) {
		t.Errorf("Children(a) = %v, want [c]", got)
	}
	if got := g.Parents("c"); !slices.Equal(got, []string{"a"}) {
		t.Errorf("Parents(c) = %v, want [a]", got)
	}

	g.RemoveNode("missing")
	if g.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2", g.NodeCount())
	}
}

func TestClone_Independent(t *testing.T) {
	g := newGraph(t, []string{"a", "b"}, [][2]string{{"a", "b"}})
	c := g.Clone()
	c.RemoveNode("b")

	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Errorf("clone source modified: nodes=%d edges=%d", g.NodeCount(), g.EdgeCount())
	}
	if c.NodeCount() != 1 || c.EdgeCount() != 0 {
		t.Errorf("clone: nodes=%d edges=%d, want 1 0", c.NodeCount(), c.EdgeCount())
	}
}

func TestNodes_Sorted(t *testing.T) {
	g := newGraph(t, []string{"zeta", "alpha", "mid"}, nil)
	want := []string{"alpha", "mid", "zeta"}
	if got := NodeIDs(g.Nodes()); !slices.Equal(got, want) {
		t.Errorf("Nodes() = %v, want %v", got, want)
	}
}

func TestSourcesAndSinks(t *testing.T) {
	g := newGraph(t, []string{"app", "cli", "core", "util"},
		[][2]string{{"app", "core"}, {"cli", "core"}, {"core", "util"}})

	if got := NodeIDs(g.Sources()); !slices.Equal(got, []string{"app", "cli"}) {
		t.Errorf("Sources() = %v, want [app cli]", got)
	}
	if got := NodeIDs(g.Sinks()); !slices.Equal(got, []string{"util"}) {
		t.Errorf("Sinks() = %v, want [util]", got)
	}
}

func TestFindCycle(t *testing.T) {
	tests := []struct {
		name  string
		ids   []string
		edges [][2]string
		want  []string
	}{
		{
			name:  "acyclic chain",
			ids:   []string{"a", "b", "c"},
			edges: [][2]string{{"a", "b"}, {"b", "c"}},
			want:  nil,
		},
		{
			name:  "two node cycle",
			ids:   []string{"a", "b"},
			edges: [][2]string{{"a", "b"}, {"b", "a"}},
			want:  []string{"a", "b", "a"},
		},
		{
			name:  "self loop",
			ids:   []string{"a"},
			edges: [][2]string{{"a", "a"}},
			want:  []string{"a", "a"},
		},
		{
			name:  "cycle behind a tail",
			ids:   []string{"a", "b", "c", "d"},
			edges: [][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"d", "b"}},
			want:  []string{"b", "c", "d", "b"},
		},
		{
			name:  "diamond is acyclic",
			ids:   []string{"a", "b", "c", "d"},
			edges: [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGraph(t, tt.ids, tt.edges)
			got := g.FindCycle()
			if !slices.Equal(got, tt.want) {
				t.Errorf("FindCycle() = %v, want %v", got, tt.want)
			}
		})
	}
}
