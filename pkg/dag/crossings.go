package dag

import "slices"

// CountCrossings returns the combinatorial crossing count of the given
// orders, summed over every pair of adjacent layers. Only edges joining
// adjacent layers are considered; longer edges are ignored.
func CountCrossings(g View, orders [][]NodeID) int {
	crossings := 0
	for i := 0; i+1 < len(orders); i++ {
		crossings += CountLayerCrossings(g, orders[i], orders[i+1])
	}
	return crossings
}

// CountLayerCrossings counts edge crossings between two adjacent layers
// using a Fenwick tree in O(E log V).
//
// Two edges (u1,v1) and (u2,v2) cross if and only if:
//
//	pos(u1) < pos(u2) AND pos(v1) > pos(v2)
//
// so the count equals the number of inversions among target positions when
// edges are sorted by source position. Parallel edges between the same pair
// of nodes never cross each other.
func CountLayerCrossings(g View, upper, lower []NodeID) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}

	lowerPos := make(map[NodeID]int, len(lower))
	for i, id := range lower {
		lowerPos[id] = i
	}

	type span struct{ upper, lower int }
	spans := make([]span, 0, len(upper)*2)
	for i, id := range upper {
		for _, e := range g.Outgoing(id) {
			_, to := g.EdgeEnds(e)
			if p, ok := lowerPos[to]; ok {
				spans = append(spans, span{i, p})
			}
		}
	}
	if len(spans) < 2 {
		return 0
	}

	slices.SortFunc(spans, func(a, b span) int {
		if a.upper != b.upper {
			return a.upper - b.upper
		}
		return a.lower - b.lower
	})

	fenwick := make([]int, len(lower)+1)
	crossings, total := 0, 0
	for _, s := range spans {
		lessOrEqual := 0
		for q := s.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += total - lessOrEqual

		total++
		for idx := s.lower + 1; idx < len(fenwick); idx += idx & (-idx) {
			fenwick[idx]++
		}
	}
	return crossings
}
