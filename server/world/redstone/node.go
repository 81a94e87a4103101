// Package redstone implements the compile-graph IR and the direct
// (tick-wheel) backend that together make up redpiler, the compiled
// redstone accelerator: a circuit subgraph is extracted from the voxel
// world into a directed node graph with weighted links, then executed by a
// bucketed priority scheduler instead of walking the interpreted per-block
// rules every tick.
package redstone

import (
	"github.com/mchprs-go/mchprs/server/block"
	"github.com/mchprs-go/mchprs/server/block/cube"
)

// NodeID indexes a Node within a Graph's Nodes slice.
type NodeID uint32

// Kind identifies the behaviour of a compiled node. Wire never becomes a
// node: it is collapsed into links during compilation, carrying no state of
// its own in the backend.
type Kind uint8

const (
	KindConstant Kind = iota
	KindLever
	KindButton
	KindPressurePlate
	KindTorch
	KindRepeater
	KindComparator
	KindLamp
	KindTrapdoor
	KindObserver
	KindNoteBlock
)

func (k Kind) String() string {
	switch k {
	case KindConstant:
		return "constant"
	case KindLever:
		return "lever"
	case KindButton:
		return "button"
	case KindPressurePlate:
		return "pressure_plate"
	case KindTorch:
		return "torch"
	case KindRepeater:
		return "repeater"
	case KindComparator:
		return "comparator"
	case KindLamp:
		return "lamp"
	case KindTrapdoor:
		return "trapdoor"
	case KindObserver:
		return "observer"
	case KindNoteBlock:
		return "note_block"
	default:
		return "unknown"
	}
}

// Link is a packed outgoing connection from one node to another.
// Attenuation is the signal strength lost along the link (0..=15; 15 means
// no signal ever reaches the target). Side distinguishes an input that
// feeds a repeater's lock / a comparator's side input from a default
// (back) input.
type Link struct {
	Target      NodeID
	Attenuation uint8
	Side        bool
}

// Node is one compiled circuit component. Pos is retained so the backend
// can write state back into the world on flush/reset.
type Node struct {
	ID   NodeID
	Kind Kind
	Pos  cube.Pos

	// outFace is the direction this node emits power into, for kinds with a
	// single directional output (repeater, comparator, wall torch, observer).
	outFace cube.Face

	// Repeater
	Delay       int  // 1..=4
	FacingDiode bool // true if the repeater's default input is itself a diode

	// Comparator
	Mode     block.ComparatorMode
	FarInput bool // has a measurement-mode (container/cauldron) far input

	// NoteBlock
	Instrument block.Instrument
	Note       uint8

	Powered     bool
	Locked      bool
	Changed     bool
	PendingTick bool
	IsIO        bool
	OutputPower uint8

	DefaultInputs Histogram
	SideInputs    Histogram

	Updates []Link
}
