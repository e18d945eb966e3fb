package transform

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/sankey/pkg/dag"
)

type id string

func (i id) String() string { return string(i) }

func graphOf(t *testing.T, n int, edges [][2]int) *dag.Graph[id, struct{}] {
	t.Helper()
	g := dag.New[id, struct{}]()
	for i := range n {
		if _, err := g.AddNode(id(rune('a'+i)), dag.NodeAttrs{}); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range edges {
		if _, err := g.AddEdge(dag.NodeID(e[0]), dag.NodeID(e[1]), 1, struct{}{}, dag.EdgeAttrs{}); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestAssignLayers(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		edges [][2]int
		want  []int
	}{
		{"Empty", 0, nil, []int{}},
		{"Isolated", 3, nil, []int{0, 0, 0}},
		{"Chain", 3, [][2]int{{0, 1}, {1, 2}}, []int{0, 1, 2}},
		{"Diamond", 4, [][2]int{{0, 1}, {0, 2}, {1, 3}, {2, 3}}, []int{0, 1, 1, 2}},
		{"LongestPathWins", 4, [][2]int{{0, 3}, {0, 1}, {1, 2}, {2, 3}}, []int{0, 1, 2, 3}},
		{"ReverseHandles", 3, [][2]int{{2, 1}, {1, 0}}, []int{2, 1, 0}},
		{"ParallelEdges", 2, [][2]int{{0, 1}, {0, 1}}, []int{0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graphOf(t, tt.n, tt.edges)
			if err := AssignLayers(g); err != nil {
				t.Fatalf("AssignLayers() error = %v", err)
			}
			for i, want := range tt.want {
				if got := g.NodeLayer(dag.NodeID(i)); got != want {
					t.Errorf("layer(%d) = %d, want %d", i, got, want)
				}
			}
		})
	}
}

func TestAssignLayers_Cycle(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		edges   [][2]int
		onCycle map[int]bool
	}{
		{"SelfLoop", 2, [][2]int{{0, 1}, {1, 1}}, map[int]bool{1: true}},
		{"TwoCycle", 2, [][2]int{{0, 1}, {1, 0}}, map[int]bool{0: true, 1: true}},
		{"Triangle", 4, [][2]int{{3, 0}, {0, 1}, {1, 2}, {2, 0}}, map[int]bool{0: true, 1: true, 2: true}},
		{"DownstreamOfCycle", 4, [][2]int{{0, 1}, {1, 0}, {1, 2}, {2, 3}}, map[int]bool{0: true, 1: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graphOf(t, tt.n, tt.edges)
			err := AssignLayers(g)
			if !errors.Is(err, dag.ErrGraphNotAcyclic) {
				t.Fatalf("AssignLayers() error = %v, want ErrGraphNotAcyclic", err)
			}
			var ce *CycleError
			if !errors.As(err, &ce) {
				t.Fatalf("error %T is not *CycleError", err)
			}
			if !tt.onCycle[int(ce.Node)] {
				t.Errorf("CycleError.Node = %d, not on the cycle", ce.Node)
			}
			if ce.Path[0] != ce.Path[len(ce.Path)-1] {
				t.Errorf("Path %v is not closed", ce.Path)
			}
			for i := 0; i+1 < len(ce.Path); i++ {
				if !hasEdge(g, ce.Path[i], ce.Path[i+1]) {
					t.Errorf("Path %v: no edge %d -> %d", ce.Path, ce.Path[i], ce.Path[i+1])
				}
			}
			if g.Layered() {
				t.Error("cyclic graph was partially layered")
			}
			for i := range tt.n {
				if l := g.NodeLayer(dag.NodeID(i)); l != dag.NoLayer {
					t.Errorf("layer(%d) = %d, want NoLayer", i, l)
				}
			}
		})
	}
}

func TestFindCycle(t *testing.T) {
	if err := FindCycle(graphOf(t, 3, [][2]int{{0, 1}, {1, 2}})); err != nil {
		t.Errorf("FindCycle() on DAG = %v, want nil", err)
	}
	if err := FindCycle(graphOf(t, 3, [][2]int{{0, 1}, {1, 2}, {2, 1}})); err == nil {
		t.Error("FindCycle() on cyclic graph = nil")
	}
}

// Every edge must point strictly downward and layer 0 must be populated.
func TestAssignLayers_RandomDAGs(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for round := range 50 {
		n := 2 + rng.IntN(20)
		var edges [][2]int
		for range rng.IntN(3 * n) {
			a, b := rng.IntN(n), rng.IntN(n)
			if a == b {
				continue
			}
			// low handle to high keeps the graph acyclic
			edges = append(edges, [2]int{min(a, b), max(a, b)})
		}
		g := graphOf(t, n, edges)
		if err := AssignLayers(g); err != nil {
			t.Fatalf("round %d: AssignLayers() error = %v", round, err)
		}
		zero := false
		for i := range n {
			nid := dag.NodeID(i)
			l := g.NodeLayer(nid)
			if l == 0 {
				zero = true
				if len(g.Incoming(nid)) != 0 {
					t.Errorf("round %d: node %d in layer 0 has incoming edges", round, i)
				}
			}
			for _, e := range g.Incoming(nid) {
				from, _ := g.EdgeEnds(e)
				if g.NodeLayer(from) >= l {
					t.Errorf("round %d: edge %d->%d does not descend (%d >= %d)", round, from, i, g.NodeLayer(from), l)
				}
			}
		}
		if !zero {
			t.Errorf("round %d: no node in layer 0", round)
		}
	}
}

func hasEdge(g *dag.Graph[id, struct{}], from, to dag.NodeID) bool {
	for _, e := range g.Outgoing(from) {
		if _, end := g.EdgeEnds(e); end == to {
			return true
		}
	}
	return false
}
