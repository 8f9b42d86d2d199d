package publish

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/cargoprint/pkg/dag"
	"github.com/matzehuels/cargoprint/pkg/errors"
	"github.com/matzehuels/cargoprint/pkg/metadata"
)

// workspace builds a snapshot whose members are named by the keys of deps
// and depend on the listed names.
func workspace(deps map[string][]string) *metadata.Snapshot {
	snap := &metadata.Snapshot{WorkspaceRoot: "/ws"}
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		p := metadata.Package{
			ID:           "id-" + name,
			Name:         name,
			ManifestPath: "/ws/" + name + "/Cargo.toml",
		}
		for _, d := range deps[name] {
			p.Dependencies = append(p.Dependencies, metadata.Dependency{Name: d, Kind: metadata.DepKindNormal})
		}
		snap.Packages = append(snap.Packages, p)
		snap.WorkspaceMembers = append(snap.WorkspaceMembers, p.ID)
	}
	return snap
}

func mustGraph(t *testing.T, snap *metadata.Snapshot) *dag.DAG {
	t.Helper()
	g, err := Graph(snap)
	if err != nil {
		t.Fatalf("Graph() error: %v", err)
	}
	return g
}

func TestOrder_Chain(t *testing.T) {
	g := mustGraph(t, workspace(map[string][]string{
		"A": {"B", "C"},
		"B": {"C"},
		"C": nil,
	}))

	order, err := Order(g)
	if err != nil {
		t.Fatalf("Order() error: %v", err)
	}
	if want := []string{"C", "B", "A"}; !slices.Equal(order, want) {
		t.Errorf("Order() = %v, want %v", order, want)
	}
}

func TestOrder_TieBreakIsLexicographic(t *testing.T) {
	g := mustGraph(t, workspace(map[string][]string{
		"zeta":  nil,
		"alpha": nil,
		"mid":   {"zeta"},
	}))

	order, err := Order(g)
	if err != nil {
		t.Fatalf("Order() error: %v", err)
	}
	if want := []string{"alpha", "zeta", "mid"}; !slices.Equal(order, want) {
		t.Errorf("Order() = %v, want %v", order, want)
	}
}

func TestPlan_CycleEmitsNothing(t *testing.T) {
	g := mustGraph(t, workspace(map[string][]string{
		"A": {"B"},
		"B": {"A"},
	}))

	var emitted []string
	err := Plan(g, func(name string) error {
		emitted = append(emitted, name)
		return nil
	})
	if !errors.Is(err, errors.ErrCodeCycle) {
		t.Fatalf("Plan() error = %v, want CYCLE", err)
	}
	if len(emitted) != 0 {
		t.Errorf("emitted %v before detecting the cycle, want none", emitted)
	}
	if msg := errors.UserMessage(err); !strings.Contains(msg, "circular dependencies") {
		t.Errorf("message = %q, want mention of circular dependencies", msg)
	}
}

func TestPlan_CycleAfterPartialOutput(t *testing.T) {
	g := mustGraph(t, workspace(map[string][]string{
		"base": nil,
		"x":    {"base", "y"},
		"y":    {"x"},
	}))

	var emitted []string
	err := Plan(g, func(name string) error {
		emitted = append(emitted, name)
		return nil
	})
	if !errors.Is(err, errors.ErrCodeCycle) {
		t.Fatalf("Plan() error = %v, want CYCLE", err)
	}
	if !slices.Equal(emitted, []string{"base"}) {
		t.Errorf("emitted = %v, want [base]", emitted)
	}
	if msg := errors.UserMessage(err); !strings.Contains(msg, "x -> y -> x") {
		t.Errorf("message = %q, want the cycle path", msg)
	}
}

func TestPlan_SelfDependencyIsCycle(t *testing.T) {
	g := mustGraph(t, workspace(map[string][]string{"solo": {"solo"}}))

	if _, err := Order(g); !errors.Is(err, errors.ErrCodeCycle) {
		t.Errorf("Order() error = %v, want CYCLE", err)
	}
}

func TestPlan_EmitErrorStops(t *testing.T) {
	g := mustGraph(t, workspace(map[string][]string{"a": nil, "b": nil}))
	stop := fmt.Errorf("write failed")

	calls := 0
	err := Plan(g, func(string) error {
		calls++
		return stop
	})
	if err != stop || calls != 1 {
		t.Errorf("Plan() = %v after %d calls, want %v after 1", err, calls, stop)
	}
}

func TestPlan_DoesNotModifyGraph(t *testing.T) {
	g := mustGraph(t, workspace(map[string][]string{"a": {"b"}, "b": nil}))
	if _, err := Order(g); err != nil {
		t.Fatal(err)
	}
	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Errorf("graph modified: nodes=%d edges=%d", g.NodeCount(), g.EdgeCount())
	}
}

func TestGraph_IgnoresExternalAndDuplicateDeps(t *testing.T) {
	snap := workspace(map[string][]string{
		"app":  {"core", "serde", "core"},
		"core": {"log"},
	})
	// A renamed dependency still refers to the package by its real name.
	snap.Packages[0].Dependencies = append(snap.Packages[0].Dependencies,
		metadata.Dependency{Name: "core", Rename: "core_alias", Kind: metadata.DepKindDev})

	g := mustGraph(t, snap)

	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	if got := g.Children("app"); !slices.Equal(got, []string{"core"}) {
		t.Errorf("Children(app) = %v, want [core]", got)
	}
	n, _ := g.Node("core")
	if n.Meta["manifest_path"] != "/ws/core/Cargo.toml" {
		t.Errorf("core manifest_path = %v", n.Meta["manifest_path"])
	}
}

func TestGraph_NonMembersExcluded(t *testing.T) {
	snap := workspace(map[string][]string{"app": {"dep"}})
	snap.Packages = append(snap.Packages, metadata.Package{ID: "id-dep", Name: "dep"})

	g := mustGraph(t, snap)
	if g.NodeCount() != 1 || g.EdgeCount() != 0 {
		t.Errorf("nodes=%d edges=%d, want 1 0", g.NodeCount(), g.EdgeCount())
	}
}

func TestGraph_DuplicateMemberName(t *testing.T) {
	snap := workspace(map[string][]string{"app": nil})
	snap.Packages = append(snap.Packages, metadata.Package{ID: "id-app-2", Name: "app"})
	snap.WorkspaceMembers = append(snap.WorkspaceMembers, "id-app-2")

	if _, err := Graph(snap); !errors.Is(err, errors.ErrCodeInvariant) {
		t.Errorf("Graph() error = %v, want INVARIANT_VIOLATION", err)
	}
}

func TestOrder_Properties(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))

	for i := range 300 {
		n := 1 + r.IntN(10)
		deps := make(map[string][]string, n)
		for j := range n {
			name := fmt.Sprintf("m%d", j)
			deps[name] = nil
			for range r.IntN(3) {
				deps[name] = append(deps[name], fmt.Sprintf("m%d", r.IntN(n)))
			}
		}
		g := mustGraph(t, workspace(deps))
		cyclic := g.FindCycle() != nil

		order, err := Order(g)
		if cyclic {
			if !errors.Is(err, errors.ErrCodeCycle) {
				t.Fatalf("case %d: cyclic graph %v gave %v, %v", i, deps, order, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("case %d: acyclic graph %v failed: %v", i, deps, err)
		}

		sorted := slices.Clone(order)
		slices.Sort(sorted)
		if want := dag.NodeIDs(g.Nodes()); !slices.Equal(sorted, want) {
			t.Fatalf("case %d: order %v is not a permutation of %v", i, order, want)
		}
		pos := make(map[string]int, len(order))
		for idx, name := range order {
			pos[name] = idx
		}
		for _, e := range g.Edges() {
			if pos[e.To] >= pos[e.From] {
				t.Fatalf("case %d: %s published before its dependency %s in %v", i, e.From, e.To, order)
			}
		}
	}
}

func TestGraph_NormalKindWinsOverDev(t *testing.T) {
	for _, kinds := range [][]string{
		{metadata.DepKindDev, metadata.DepKindNormal},
		{metadata.DepKindNormal, metadata.DepKindDev},
		{metadata.DepKindBuild, metadata.DepKindDev, metadata.DepKindNormal},
	} {
		snap := workspace(map[string][]string{"app": nil, "core": nil})
		for _, k := range kinds {
			snap.Packages[0].Dependencies = append(snap.Packages[0].Dependencies, metadata.Dependency{Name: "core", Kind: k})
		}

		g := mustGraph(t, snap)
		edges := g.Edges()
		if len(edges) != 1 {
			t.Fatalf("kinds %v: %d edges, want 1", kinds, len(edges))
		}
		if got := edges[0].Meta["kind"]; got != metadata.DepKindNormal {
			t.Errorf("kinds %v: edge kind = %v, want normal", kinds, got)
		}
	}
}

func TestGraph_DevOnlyEdgeKeepsKind(t *testing.T) {
	snap := workspace(map[string][]string{"app": nil, "core": nil})
	snap.Packages[0].Dependencies = []metadata.Dependency{
		{Name: "core", Kind: metadata.DepKindDev},
		{Name: "core", Kind: metadata.DepKindBuild},
	}

	edges := mustGraph(t, snap).Edges()
	if len(edges) != 1 || edges[0].Meta["kind"] != metadata.DepKindDev {
		t.Errorf("edges = %+v, want one dev edge", edges)
	}
}
