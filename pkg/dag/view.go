package dag

// View is the payload-agnostic, read-only face of a layered graph. Ordering,
// crossing evaluation and rendering helpers take a View so they do not need
// to know the node and edge payload types. *Graph implements View.
type View interface {
	NodeCount() int
	EdgeCount() int
	Outgoing(id NodeID) []EdgeID
	Incoming(id NodeID) []EdgeID
	EdgeEnds(e EdgeID) (from, to NodeID)
	EdgeValue(e EdgeID) float64
	NodeFlow(id NodeID) float64
	NodeLayer(id NodeID) int
	NodeName(id NodeID) string
	LayerCount() int
	Layer(i int) []NodeID
}

var _ View = (*Graph[nopStringer, struct{}])(nil)

type nopStringer struct{}

func (nopStringer) String() string { return "" }

// Positions maps every node in orders to its index within its layer. Nodes
// not present in orders map to -1. The result is indexed by NodeID.
func Positions(n int, orders [][]NodeID) []int {
	pos := make([]int, n)
	for i := range pos {
		pos[i] = -1
	}
	for _, layer := range orders {
		for i, id := range layer {
			pos[id] = i
		}
	}
	return pos
}
