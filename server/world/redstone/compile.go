package redstone

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/mchprs-go/mchprs/server/block"
	"github.com/mchprs-go/mchprs/server/block/cube"
	"github.com/mchprs-go/mchprs/server/tick"
)

// Build extracts a compile graph from the AABB [min, max] (inclusive) of w.
// It creates one node per redstone-relevant block, then for each node walks
// its outgoing power along redstone wire, collapsing wire cells into
// accumulated attenuation so that only diode/consumer/source nodes ever
// appear as link endpoints - a wire carries no state of its own in the
// backend.
//
// Wire is only followed horizontally between compiled nodes; vertical wire
// climbing over solid blocks is not modeled (see DESIGN.md).
func Build(w tick.World, min, max cube.Pos) *Graph {
	g := NewGraph()

	for x := min.X(); x <= max.X(); x++ {
		for y := min.Y(); y <= max.Y(); y++ {
			for z := min.Z(); z <= max.Z(); z++ {
				pos := cube.Pos{x, y, z}
				if n, ok := nodeFromBlock(pos, w.GetBlock(pos)); ok {
					if n.Kind == KindComparator {
						if be, ok := w.GetBlockEntity(pos); ok {
							if c, ok := be.(block.Comparator); ok {
								n.OutputPower = c.OutputStrength
							}
						}
					}
					g.Append(n)
				}
			}
		}
	}

	for i := range g.Nodes {
		linkNode(g, w, &g.Nodes[i])
	}
	for i := range g.Nodes {
		if g.Nodes[i].Kind == KindRepeater {
			behind := w.GetBlock(g.Nodes[i].Pos.Side(g.Nodes[i].outFace.Opposite()))
			g.Nodes[i].FacingDiode = block.IsDiode(behind)
		}
	}
	return g
}

// nodeFromBlock returns the compiled node for b at pos, or ok=false if b is
// not redstone-relevant (including wire, which is never compiled).
func nodeFromBlock(pos cube.Pos, b block.Block) (Node, bool) {
	n := Node{Pos: pos}
	switch v := b.(type) {
	case block.RedstoneBlock:
		n.Kind = KindConstant
		n.OutputPower = 15
		n.Powered = true
	case block.Lever:
		n.Kind = KindLever
		n.IsIO = true
		n.Powered = v.Powered
		if v.Powered {
			n.OutputPower = 15
		}
	case block.StoneButton:
		n.Kind = KindButton
		n.IsIO = true
		n.Powered = v.Powered
		if v.Powered {
			n.OutputPower = 15
		}
	case block.StonePressurePlate:
		n.Kind = KindPressurePlate
		n.IsIO = true
		n.Powered = v.Powered
		if v.Powered {
			n.OutputPower = 15
		}
	case block.RedstoneTorch:
		n.Kind = KindTorch
		n.Powered = v.Lit
		if v.Lit {
			n.OutputPower = 15
		}
	case block.RedstoneWallTorch:
		n.Kind = KindTorch
		n.Powered = v.Lit
		n.outFace = v.Facing.Face() // torch points away from the wall it's mounted on
		if v.Lit {
			n.OutputPower = 15
		}
	case block.RedstoneRepeater:
		n.Kind = KindRepeater
		n.Delay = v.Delay
		n.Locked = v.Locked
		n.Powered = v.Powered
		n.outFace = v.Facing.Opposite().Face() // a diode's facing side is its back input
		if v.Powered {
			n.OutputPower = 15
		}
	case block.RedstoneComparator:
		n.Kind = KindComparator
		n.Mode = v.Mode
		n.Powered = v.Powered
		n.outFace = v.Facing.Opposite().Face()
		if v.Powered {
			n.OutputPower = 15
		}
	case block.RedstoneLamp:
		n.Kind = KindLamp
		n.IsIO = true
		n.Powered = v.Lit
	case block.IronTrapdoor:
		n.Kind = KindTrapdoor
		n.IsIO = true
		n.Powered = v.Powered
	case block.Observer:
		n.Kind = KindObserver
		n.Powered = v.Powered
		n.outFace = v.Facing
		if v.Powered {
			n.OutputPower = 15
		}
	case block.NoteBlock:
		n.Kind = KindNoteBlock
		n.IsIO = true
		n.Instrument = v.Instrument
		n.Note = v.Note
		n.Powered = v.Powered
	default:
		return Node{}, false
	}
	return n, true
}

// sourceFaces returns the faces a node emits power into.
func sourceFaces(n *Node) []cube.Face {
	switch n.Kind {
	case KindRepeater, KindComparator, KindObserver:
		return []cube.Face{n.outFace}
	case KindTorch:
		faces := make([]cube.Face, 0, 5)
		for _, f := range cube.Faces() {
			if f == cube.FaceDown {
				continue
			}
			faces = append(faces, f)
		}
		return faces
	case KindLamp, KindTrapdoor, KindNoteBlock:
		return nil // pure consumers, never sources
	default:
		return cube.Faces()
	}
}

// linkNode walks n's output faces, following wire networks and recording a
// Link into n.Updates for every diode/consumer/source node it reaches.
func linkNode(g *Graph, w tick.World, n *Node) {
	for _, f := range sourceFaces(n) {
		visited := map[cube.Pos]bool{n.Pos: true}
		exploreFrom(g, w, n, n.Pos, f, 0, visited)
	}
}

// exploreFrom walks outward from (at, face) at the given accumulated
// attenuation, descending into wire cells and terminating at compiled
// nodes.
func exploreFrom(g *Graph, w tick.World, source *Node, at cube.Pos, face cube.Face, attenuation uint8, visited map[cube.Pos]bool) {
	next := at.Side(face)
	if visited[next] {
		return
	}
	b := w.GetBlock(next)
	if wire, ok := b.(block.RedstoneWire); ok {
		if !wireAccepts(wire, face) {
			return
		}
		visited[next] = true
		nextAtt := attenuation + 1
		if nextAtt > 15 {
			nextAtt = 15
		}
		for _, wf := range cube.Faces() {
			if wf == face.Opposite() {
				continue
			}
			if wf.Horizontal() {
				exploreFrom(g, w, source, next, wf, nextAtt, visited)
			}
		}
		return
	}

	targetID, ok := g.NodeByPos(next)
	if !ok {
		return
	}
	target := g.Node(targetID)
	side, accept := inputKind(target, face.Opposite())
	if !accept {
		return
	}
	source.Updates = append(source.Updates, Link{Target: targetID, Attenuation: attenuation, Side: side})
}

// wireAccepts reports whether a wire cell can be entered from face:
// horizontal connections are required on the entry side; vertical entry
// (from above or below) is not modeled.
func wireAccepts(w block.RedstoneWire, face cube.Face) bool {
	if !face.Horizontal() {
		return false
	}
	var c block.ConnectionType
	switch face.Opposite().Direction() {
	case cube.North:
		c = w.North
	case cube.South:
		c = w.South
	case cube.East:
		c = w.East
	case cube.West:
		c = w.West
	}
	return c != block.ConnectionNone
}

// Signature hashes a compiled graph's node positions and kinds into a single
// value cheap enough to compare on every `/redpiler inspect`, so a caller
// can tell whether a recompile actually changed the circuit's shape without
// diffing every node.
func Signature(g *Graph) uint64 {
	h := xxhash.New()
	var buf [13]byte
	for _, n := range g.Nodes {
		binary.LittleEndian.PutUint32(buf[0:4], uint32(n.Pos.X()))
		binary.LittleEndian.PutUint32(buf[4:8], uint32(n.Pos.Y()))
		binary.LittleEndian.PutUint32(buf[8:12], uint32(n.Pos.Z()))
		buf[12] = byte(n.Kind)
		h.Write(buf[:])
	}
	return h.Sum64()
}

// inputKind decides whether a signal entering target from direction
// enterFrom (the face of target the signal arrives at) is the node's
// default (back) input or a side input, and whether it is accepted at all
// (entering a diode from its own output face is not an input).
func inputKind(target *Node, enterFrom cube.Face) (side bool, accept bool) {
	switch target.Kind {
	case KindRepeater, KindComparator:
		switch {
		case enterFrom == target.outFace:
			return false, false
		case enterFrom == target.outFace.Opposite():
			return false, true
		default:
			return true, true
		}
	case KindObserver:
		return false, false // observers do not take signal-strength input
	default:
		return false, true
	}
}
