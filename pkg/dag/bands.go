package dag

import (
	"cmp"
	"slices"
)

// OutBands returns the outgoing edges of id in ribbon stacking order: by the
// target's layer, then the target's position, then edge handle. Targets
// whose position is unknown (pos < 0) sort after every placed target.
//
// pos is indexed by NodeID, as returned by [Positions].
func OutBands(g View, id NodeID, pos []int) []EdgeID {
	return bands(g, g.Outgoing(id), pos, func(e EdgeID) NodeID {
		_, to := g.EdgeEnds(e)
		return to
	})
}

// InBands returns the incoming edges of id in ribbon stacking order, keyed
// on the source end. See [OutBands].
func InBands(g View, id NodeID, pos []int) []EdgeID {
	return bands(g, g.Incoming(id), pos, func(e EdgeID) NodeID {
		from, _ := g.EdgeEnds(e)
		return from
	})
}

func bands(g View, edges []EdgeID, pos []int, other func(EdgeID) NodeID) []EdgeID {
	sorted := slices.Clone(edges)
	slices.SortStableFunc(sorted, func(a, b EdgeID) int {
		na, nb := other(a), other(b)
		pa, pb := pos[na], pos[nb]
		if (pa < 0) != (pb < 0) {
			if pa < 0 {
				return 1
			}
			return -1
		}
		if c := cmp.Compare(g.NodeLayer(na), g.NodeLayer(nb)); c != 0 {
			return c
		}
		if c := cmp.Compare(pa, pb); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return sorted
}
