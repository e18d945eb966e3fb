package transform

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/sankey/pkg/dag"
)

// Layerable is a graph that can receive a layer partition.
type Layerable interface {
	dag.View
	SetLayers(layers []int) error
}

// CycleError reports that layering could not complete. Node lies on the
// cycle and Path lists the cycle in edge direction, starting and ending at
// Node.
type CycleError struct {
	Node  dag.NodeID
	Path  []dag.NodeID
	Names []string
}

func (e *CycleError) Error() string {
	if len(e.Names) == 0 {
		return fmt.Sprintf("graph contains a cycle through node %d", e.Node)
	}
	return fmt.Sprintf("graph contains a cycle: %s", strings.Join(e.Names, " -> "))
}

// Unwrap returns [dag.ErrGraphNotAcyclic].
func (e *CycleError) Unwrap() error { return dag.ErrGraphNotAcyclic }

// AssignLayers places every node one layer below its deepest predecessor.
//
// AssignLayers uses a longest-path algorithm via topological sort (Kahn's
// algorithm), seeding the queue in handle order. Each node lands at one plus
// the maximum layer of any of its predecessors, so that:
//   - Nodes without incoming edges are in layer 0
//   - Every edge points to a strictly higher layer
//   - Edges may span several layers; no intermediate nodes are inserted
//
// # Cycles
//
// If some node never reaches zero in-degree the graph has a cycle. The
// function then returns a *CycleError naming a node on the cycle and writes
// nothing to g: a cyclic graph is never partially layered.
//
// Time complexity is O(V + E).
func AssignLayers(g Layerable) error {
	layers, blocked := longestPath(g)
	if blocked != nil {
		return cycleFrom(g, blocked)
	}
	return g.SetLayers(layers)
}

// FindCycle returns a *CycleError describing one cycle of g, or nil if g is
// acyclic.
func FindCycle(g dag.View) error {
	if _, blocked := longestPath(g); blocked != nil {
		return cycleFrom(g, blocked)
	}
	return nil
}

// longestPath runs Kahn's algorithm. When some nodes were never released it
// returns their remaining in-degrees (non-zero entries mark blocked nodes).
func longestPath(g dag.View) (layers, blocked []int) {
	n := g.NodeCount()
	inDegree := make([]int, n)
	layers = make([]int, n)
	queue := make([]dag.NodeID, 0, n)

	for i := range n {
		inDegree[i] = len(g.Incoming(dag.NodeID(i)))
		if inDegree[i] == 0 {
			queue = append(queue, dag.NodeID(i))
		}
	}

	processed := 0
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		processed++

		for _, e := range g.Outgoing(curr) {
			_, child := g.EdgeEnds(e)
			if l := layers[curr] + 1; l > layers[child] {
				layers[child] = l
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	if processed < n {
		return nil, inDegree
	}
	return layers, nil
}

// cycleFrom walks backwards from a blocked node. Every blocked node has at
// least one blocked predecessor, so the walk must revisit a node; the
// revisited stretch is a cycle.
func cycleFrom(g dag.View, inDegree []int) error {
	start := slices.IndexFunc(inDegree, func(d int) bool { return d > 0 })
	if start < 0 {
		return dag.ErrGraphNotAcyclic
	}

	seen := make(map[dag.NodeID]int)
	var walk []dag.NodeID
	curr := dag.NodeID(start)
	for {
		if at, ok := seen[curr]; ok {
			walk = walk[at:]
			break
		}
		seen[curr] = len(walk)
		walk = append(walk, curr)
		for _, e := range g.Incoming(curr) {
			from, _ := g.EdgeEnds(e)
			if inDegree[from] > 0 {
				curr = from
				break
			}
		}
	}

	// walk follows edges backwards; flip it and close the loop.
	slices.Reverse(walk)
	path := append(walk, walk[0])
	names := make([]string, len(path))
	for i, id := range path {
		names[i] = g.NodeName(id)
	}
	return &CycleError{Node: path[0], Path: path, Names: names}
}
