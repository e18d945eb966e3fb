// Package crossing decides whether ribbon projections intersect and turns
// that into a cost for comparing layer orderings.
//
// Every edge is reduced to a straight segment between its source and target
// anchors ([Slots]). [Intersects] applies the determinant test to a pair of
// segments and [Score] aggregates it over all unordered pairs.
package crossing

import (
	"fmt"
	"math"

	"github.com/matzehuels/sankey/pkg/dag"
)

// Epsilon is the determinant magnitude below which two segments are
// treated as parallel.
const Epsilon = 1e-9

// Point is a 2D point.
type Point struct {
	X, Y float64
}

// Segment is a directed segment From → To.
type Segment struct {
	From, To Point
}

// Intersects reports whether a and b intersect. Parallel (and collinear)
// segments never intersect. Touching endpoints count as an intersection.
func Intersects(a, b Segment) bool {
	d1 := Point{a.To.X - a.From.X, a.To.Y - a.From.Y}
	d2 := Point{b.To.X - b.From.X, b.To.Y - b.From.Y}
	det := d1.X*d2.Y - d1.Y*d2.X
	if math.Abs(det) < Epsilon {
		return false
	}

	r := Point{b.From.X - a.From.X, b.From.Y - a.From.Y}
	lambda := (r.X*d2.Y - r.Y*d2.X) / det
	gamma := (r.X*d1.Y - r.Y*d1.X) / det

	return lambda >= 0 && lambda <= 1 && gamma >= 0 && gamma <= 1
}

// Objective selects how pair outcomes are folded into a cost.
type Objective int

const (
	// ObjectiveCount adds 1 per intersecting pair. Lower is better.
	ObjectiveCount Objective = iota
	// ObjectiveSigned adds 1 per intersecting pair and subtracts 1 per
	// disjoint pair.
	ObjectiveSigned
)

func (o Objective) String() string {
	switch o {
	case ObjectiveCount:
		return "count"
	case ObjectiveSigned:
		return "signed"
	default:
		return fmt.Sprintf("Objective(%d)", int(o))
	}
}

// ParseObjective maps "count" (or "") and "signed" to an Objective.
func ParseObjective(s string) (Objective, error) {
	switch s {
	case "", "count":
		return ObjectiveCount, nil
	case "signed":
		return ObjectiveSigned, nil
	default:
		return 0, fmt.Errorf("unknown crossing objective %q", s)
	}
}

// Slots holds the provisional segment of each edge.
type Slots map[dag.EdgeID]Segment

// Pair is an unordered pair of edges.
type Pair [2]dag.EdgeID

// Result is the outcome of scoring a set of edges.
type Result struct {
	Cost       int    // objective value
	Crossings  int    // intersecting pairs
	Pairs      int    // pairs evaluated
	Unresolved []Pair // pairs skipped for missing geometry
}

// Score evaluates every unordered pair of edges. A pair where either edge
// has no entry in slots is skipped and listed in Result.Unresolved.
func Score(edges []dag.EdgeID, slots Slots, obj Objective) Result {
	var res Result
	for i := 0; i < len(edges); i++ {
		a, okA := slots[edges[i]]
		for j := i + 1; j < len(edges); j++ {
			b, okB := slots[edges[j]]
			if !okA || !okB {
				res.Unresolved = append(res.Unresolved, Pair{edges[i], edges[j]})
				continue
			}
			res.Pairs++
			if Intersects(a, b) {
				res.Crossings++
				res.Cost++
			} else if obj == ObjectiveSigned {
				res.Cost--
			}
		}
	}
	return res
}
