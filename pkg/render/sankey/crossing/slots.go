package crossing

import "github.com/matzehuels/sankey/pkg/dag"

// BuildSlots lays out provisional geometry for edges given the orders of
// the layers placed so far.
//
// The geometry works in flow units rather than pixels: x is the layer index,
// each layer is a stack of its nodes' flows centered against the tallest
// layer, and an edge attaches at the middle of its band. Bands are stacked
// on a node in [dag.OutBands]/[dag.InBands] order, the same order the final
// layout uses. Node separation and the global scale are left out.
//
// Edges with an endpoint missing from orders get no slot.
func BuildSlots(g dag.View, orders [][]dag.NodeID, edges []dag.EdgeID) Slots {
	pos := dag.Positions(g.NodeCount(), orders)

	totals := make([]float64, len(orders))
	tallest := 0.0
	for i, layer := range orders {
		for _, id := range layer {
			totals[i] += g.NodeFlow(id)
		}
		tallest = max(tallest, totals[i])
	}
	tops := make(map[dag.NodeID]float64)
	for i, layer := range orders {
		y := (tallest - totals[i]) / 2
		for _, id := range layer {
			tops[id] = y
			y += g.NodeFlow(id)
		}
	}

	out := make(map[dag.EdgeID]float64)
	in := make(map[dag.EdgeID]float64)
	doneOut := make(map[dag.NodeID]bool)
	doneIn := make(map[dag.NodeID]bool)
	stack := func(node dag.NodeID, bands []dag.EdgeID, into map[dag.EdgeID]float64) {
		cursor := tops[node]
		for _, e := range bands {
			v := g.EdgeValue(e)
			into[e] = cursor + v/2
			cursor += v
		}
	}

	slots := make(Slots, len(edges))
	for _, e := range edges {
		from, to := g.EdgeEnds(e)
		if pos[from] < 0 || pos[to] < 0 {
			continue
		}
		if !doneOut[from] {
			stack(from, dag.OutBands(g, from, pos), out)
			doneOut[from] = true
		}
		if !doneIn[to] {
			stack(to, dag.InBands(g, to, pos), in)
			doneIn[to] = true
		}
		slots[e] = Segment{
			From: Point{X: float64(g.NodeLayer(from)), Y: out[e]},
			To:   Point{X: float64(g.NodeLayer(to)), Y: in[e]},
		}
	}
	return slots
}
