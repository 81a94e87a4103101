package redstone

import (
	"github.com/brentp/intintmap"

	"github.com/mchprs-go/mchprs/server/block/cube"
)

// posBias shifts a signed axis coordinate into the non-negative range the
// packed position key needs. 2^20 comfortably bounds any coordinate inside
// a single compiled plot, leaving 21 bits per axis to pack into one int64.
const posBias = 1 << 20

// packPos folds a position into the single int64 key the graph's position
// index is hashed on.
func packPos(pos cube.Pos) int64 {
	x := int64(pos.X()+posBias) & 0x1FFFFF
	y := int64(pos.Y()+posBias) & 0x1FFFFF
	z := int64(pos.Z()+posBias) & 0x1FFFFF
	return x<<42 | y<<21 | z
}

// Graph is a compiled circuit: every node extracted from a selection plus
// the links between them. Indices into Nodes double as NodeIDs.
type Graph struct {
	Nodes []Node

	// posIndex maps a compiled node's packed position to its NodeID.
	// Position lookups happen on every player interaction and neighbor
	// dispatch, so this uses a packed-int64 hash map rather than hashing
	// cube.Pos's three fields on every lookup.
	posIndex *intintmap.Map
}

// NewGraph returns an empty graph ready for Append.
func NewGraph() *Graph {
	return &Graph{posIndex: intintmap.New(64, 0.75)}
}

// Append adds n to the graph, assigning it the next NodeID, and returns
// that id.
func (g *Graph) Append(n Node) NodeID {
	id := NodeID(len(g.Nodes))
	n.ID = id
	g.Nodes = append(g.Nodes, n)
	g.posIndex.Put(packPos(n.Pos), int64(id))
	return id
}

// NodeByPos looks up the node occupying pos, if compiled.
func (g *Graph) NodeByPos(pos cube.Pos) (NodeID, bool) {
	v, ok := g.posIndex.Get(packPos(pos))
	if !ok {
		return 0, false
	}
	return NodeID(v), true
}

// Node returns a pointer to the node's live, mutable state.
func (g *Graph) Node(id NodeID) *Node {
	return &g.Nodes[id]
}

// Len reports the number of compiled nodes.
func (g *Graph) Len() int { return len(g.Nodes) }
