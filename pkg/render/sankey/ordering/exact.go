package ordering

import (
	"context"

	"github.com/matzehuels/sankey/pkg/dag"
	"github.com/matzehuels/sankey/pkg/dag/perm"
	"github.com/matzehuels/sankey/pkg/render/sankey/crossing"
)

const (
	// DefaultMaxLayerSize is the largest layer Exact enumerates by default
	// (8! = 40320 candidates).
	DefaultMaxLayerSize = 8
	// HardLayerLimit caps MaxLayerSize regardless of configuration.
	HardLayerLimit = 9
)

// LayerReport describes what Exact did with one layer.
type LayerReport struct {
	Layer         int
	Size          int
	Exhaustive    bool // false when the layer exceeded the size bound
	Candidates    int  // permutations scored
	HeuristicCost int
	Cost          int
	Unresolved    int // pairs skipped for missing slot geometry
}

// Exact refines a heuristic ordering layer by layer. Each layer is first
// ordered by Fallback against the final order of the layer before it. When
// it has at most MaxLayerSize nodes every permutation is then scored with
// the crossing evaluator against the layers already placed and the
// cheapest is kept. Larger layers keep the heuristic order.
//
// The search is local: layer i is optimized against the final orders of
// layers 0..i-1 and is not revisited. The heuristic order is always the
// first candidate and ties keep the earlier candidate, so the result is
// never worse than the heuristic under the chosen objective.
type Exact struct {
	MaxLayerSize int                // 0 means DefaultMaxLayerSize; clamped to HardLayerLimit
	Fallback     LayerOrderer       // per-layer heuristic; nil means Barycenter
	Objective    crossing.Objective // default ObjectiveCount
	Report       func(LayerReport)  // optional per-layer callback
}

// OrderLayers implements Orderer.
func (x Exact) OrderLayers(ctx context.Context, g dag.View) ([][]dag.NodeID, error) {
	fallback := x.Fallback
	if fallback == nil {
		fallback = Barycenter{}
	}

	limit := x.MaxLayerSize
	if limit <= 0 {
		limit = DefaultMaxLayerSize
	}
	limit = min(limit, HardLayerLimit)

	orders := make([][]dag.NodeID, g.LayerCount())
	pos := make([]int, g.NodeCount())
	if len(orders) > 0 {
		orders[0] = g.Layer(0)
		place(pos, orders[0])
	}

	for i := 1; i < len(orders); i++ {
		layer, err := fallback.OrderLayer(ctx, g, i, g.Layer(i), pos)
		if err != nil {
			return nil, err
		}
		orders[i] = layer
		rep := LayerReport{Layer: i, Size: len(layer)}

		edges := incomingEdges(g, layer)
		if len(layer) > limit || len(layer) < 2 || len(edges) < 2 {
			rep.Exhaustive = len(layer) <= limit
			place(pos, layer)
			x.report(rep)
			continue
		}
		rep.Exhaustive = true

		best := layer
		bestCost := 0
		candidate := orders[:i+1]
		for p := range perm.All(len(layer)) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			candidate[i] = perm.Apply(layer, p)
			res := crossing.Score(edges, crossing.BuildSlots(g, candidate, edges), x.Objective)
			if rep.Candidates == 0 {
				rep.HeuristicCost = res.Cost
				rep.Unresolved = len(res.Unresolved)
				bestCost = res.Cost
			} else if res.Cost < bestCost {
				best, bestCost = candidate[i], res.Cost
			}
			rep.Candidates++
		}
		rep.Cost = bestCost
		orders[i] = best
		place(pos, best)
		x.report(rep)
	}
	return orders, nil
}

func (x Exact) report(r LayerReport) {
	if x.Report != nil {
		x.Report(r)
	}
}

// incomingEdges returns the edges entering nodes of layer. Their relative
// geometry is what a permutation of the layer changes.
func incomingEdges(g dag.View, layer []dag.NodeID) []dag.EdgeID {
	var edges []dag.EdgeID
	for _, id := range layer {
		edges = append(edges, g.Incoming(id)...)
	}
	return edges
}
