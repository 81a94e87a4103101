package redstone

import (
	"log/slog"
	"math"

	"github.com/mchprs-go/mchprs/server/block"
	"github.com/mchprs-go/mchprs/server/block/cube"
	"github.com/mchprs-go/mchprs/server/tick"
)

const (
	numPriorities = 4
	numBuckets    = 16
)

// tickWheel is a bucketed ring scheduler of fixed depth numBuckets, each
// slot holding one queue per priority. It is the backend's own clock,
// distinct from (and much cheaper than) the interpreted per-block
// scheduledTickQueue: delay is bounded to 1..=numBuckets and only a node id
// is stored per entry.
type tickWheel struct {
	buckets [numBuckets][numPriorities][]NodeID
	pos     int
}

// schedule enqueues node to tick after delay ticks (clamped to 1..=numBuckets).
func (w *tickWheel) schedule(node NodeID, delay int, prio tick.Priority) {
	if delay < 1 {
		delay = 1
	} else if delay > numBuckets {
		delay = numBuckets
	}
	slot := (w.pos + delay) % numBuckets
	w.buckets[slot][prio] = append(w.buckets[slot][prio], node)
}

// advance moves the ring forward one tick and returns every node due this
// tick, strictly ordered Highest, Higher, High, Normal.
func (w *tickWheel) advance() []NodeID {
	w.pos = (w.pos + 1) % numBuckets
	bucket := &w.buckets[w.pos]
	var due []NodeID
	for _, prio := range tick.Priorities {
		due = append(due, bucket[prio]...)
		bucket[prio] = bucket[prio][:0]
	}
	return due
}

// hasPending reports whether any bucket holds a node.
func (w *tickWheel) hasPending() bool {
	for _, bucket := range w.buckets {
		for _, q := range bucket {
			if len(q) > 0 {
				return true
			}
		}
	}
	return false
}

// drainToWorld empties every bucket into the world's own tick queue,
// translating ring offset back into a positive delay, for a backend reset.
func (w *tickWheel) drainToWorld(g *Graph, world tick.World, log *slog.Logger) {
	for offset, bucket := range w.buckets {
		delay := offset - w.pos
		if delay <= 0 {
			delay += numBuckets
		}
		for _, prio := range tick.Priorities {
			for _, id := range bucket[prio] {
				n := g.Node(id)
				world.ScheduleTick(n.Pos, delay, prio)
			}
			bucket[prio] = nil
		}
	}
	_ = log
}

// Backend is the direct (non-codegen) compiled redstone backend: it
// operates on the compiled Graph directly rather than generating code, and
// drives every node's tick/update logic through the tickWheel.
type Backend struct {
	Graph *Graph

	wheel  tickWheel
	events []func(tick.World)

	log     *slog.Logger
	Metrics *Metrics
}

// NewBackend wraps a compiled graph for execution.
func NewBackend(g *Graph, metrics *Metrics, log *slog.Logger) *Backend {
	if log == nil {
		log = slog.Default()
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	metrics.RecordCompile(g.Len(), Signature(g))
	return &Backend{Graph: g, log: log, Metrics: metrics}
}

// Schedule queues node's pending tick.
func (b *Backend) Schedule(node NodeID, delay int, prio tick.Priority) {
	n := b.Graph.Node(node)
	n.PendingTick = true
	b.wheel.schedule(node, delay, prio)
}

// HasPendingTicks reports whether the backend still has queued work.
func (b *Backend) HasPendingTicks() bool { return b.wheel.hasPending() }

// updateAll re-dispatches update(target) for every node that follows node's
// output links (used after a property change that is not itself a power
// change, e.g. a repeater's lock toggling).
func (b *Backend) updateAll(node NodeID) {
	n := b.Graph.Node(node)
	for _, l := range n.Updates {
		b.update(l.Target)
	}
}

// setNodeLocked flips a repeater's lock state and re-dispatches its
// dependents, without touching output power.
func (b *Backend) setNodeLocked(node NodeID, locked bool) {
	n := b.Graph.Node(node)
	n.Locked = locked
	n.Changed = true
	b.updateAll(node)
}

// setNodePower is the core propagation routine: it installs new output
// power on node and, for every outgoing link, adjusts the target's input
// histogram and re-dispatches update(target) exactly when the edge's
// effective signal actually changed for that target, implementing the
// level-triggered semantics described for the compiled backend.
func (b *Backend) setNodePower(node NodeID, powered bool, newPower uint8) {
	n := b.Graph.Node(node)
	old := n.OutputPower
	n.Changed = true
	n.Powered = powered
	n.OutputPower = newPower

	for _, l := range n.Updates {
		target := b.Graph.Node(l.Target)
		inputs := &target.DefaultInputs
		if l.Side {
			inputs = &target.SideInputs
		}

		oldK := saturatingSub(old, l.Attenuation)
		newK := saturatingSub(newPower, l.Attenuation)
		if oldK == newK {
			continue
		}

		observer := target.Kind == KindObserver
		oldMaxSS := uint8(0)
		if observer {
			oldMaxSS = inputs.LastIndexPositive()
		}

		inputs.Remove(oldK)
		inputs.Add(newK)

		perform := true
		if observer {
			perform = inputs.LastIndexPositive() != oldMaxSS
		}
		if perform {
			b.update(l.Target)
		}
	}
}

func saturatingSub(a, b uint8) uint8 {
	if b >= a {
		return 0
	}
	return a - b
}

// getBoolInput reports whether node's default input is carrying any signal.
func getBoolInput(n *Node) bool { return n.DefaultInputs.Bool() }
func getBoolSide(n *Node) bool  { return n.SideInputs.Bool() }

func getAllInput(n *Node) (input, side uint8) {
	return n.DefaultInputs.LastIndexPositive(), n.SideInputs.LastIndexPositive()
}

// calculateComparatorOutput implements the comparator's output function for
// input strengths in 0..=15.
func calculateComparatorOutput(mode block.ComparatorMode, inputStrength, powerOnSides uint8) uint8 {
	if inputStrength < powerOnSides {
		return 0
	}
	switch mode {
	case block.ComparatorSubtract:
		return inputStrength - powerOnSides
	default:
		return inputStrength
	}
}

// update is the level-triggered "does this node need to react" dispatch,
// called whenever an input histogram bucket changes.
func (b *Backend) update(id NodeID) {
	n := b.Graph.Node(id)
	switch n.Kind {
	case KindTorch:
		shouldBeOff := getBoolInput(n)
		if n.Powered == shouldBeOff && !n.PendingTick {
			b.Schedule(id, 1, tick.Normal)
		}
	case KindRepeater:
		b.updateRepeaterLockAndInput(id, n)
	case KindComparator:
		b.updateComparator(id, n)
	case KindLamp:
		shouldLight := getBoolInput(n)
		if n.Powered && !shouldLight {
			if !n.PendingTick {
				b.Schedule(id, 2, tick.Normal)
			}
		} else if !n.Powered && shouldLight {
			b.setNodePower(id, true, 0)
		}
	case KindTrapdoor:
		shouldOpen := getBoolInput(n)
		if n.Powered != shouldOpen {
			b.setNodePower(id, shouldOpen, 0)
		}
	case KindObserver:
		if !n.PendingTick {
			b.Schedule(id, 1, tick.Normal)
		}
	}
}

func (b *Backend) updateRepeaterLockAndInput(id NodeID, n *Node) {
	wantLocked := getBoolSide(n)
	if wantLocked != n.Locked {
		n.Locked = wantLocked
		n.Changed = true
		return
	}
	if n.Locked {
		return
	}
	shouldBePowered := getBoolInput(n)
	if shouldBePowered == n.Powered {
		return
	}
	prio := tick.High
	if !shouldBePowered && n.FacingDiode {
		prio = tick.Higher
	}
	if !n.PendingTick {
		b.Schedule(id, n.Delay, prio)
	}
}

func (b *Backend) updateComparator(id NodeID, n *Node) {
	input, side := getAllInput(n)
	newOutput := calculateComparatorOutput(n.Mode, input, side)
	if newOutput != n.OutputPower && !n.PendingTick {
		b.Schedule(id, 1, tick.High)
	}
}

// tickNode is the per-tick action table: it runs exactly once per node
// drained from the wheel this tick.
func (b *Backend) tickNode(id NodeID) {
	n := b.Graph.Node(id)
	n.PendingTick = false
	switch n.Kind {
	case KindRepeater:
		if n.Locked {
			return
		}
		newPowered := getBoolInput(n)
		if newPowered == n.Powered {
			return
		}
		power := uint8(0)
		if newPowered {
			power = 15
		}
		b.setNodePower(id, newPowered, power)
	case KindTorch:
		newLit := !getBoolInput(n)
		if newLit == n.Powered {
			return
		}
		power := uint8(0)
		if newLit {
			power = 15
		}
		b.setNodePower(id, newLit, power)
	case KindComparator:
		input, side := getAllInput(n)
		out := calculateComparatorOutput(n.Mode, input, side)
		b.setNodePower(id, out > 0, out)
	case KindLamp:
		if n.Powered {
			b.setNodePower(id, false, 0)
		}
	case KindObserver:
		if n.Powered {
			b.setNodePower(id, false, 0)
		} else {
			b.setNodePower(id, true, 15)
			b.Schedule(id, 1, tick.Normal)
		}
	case KindButton:
		if n.Powered {
			b.setNodePower(id, false, 0)
		}
	case KindNoteBlock:
		pos, instrument, note := n.Pos, n.Instrument, n.Note
		b.events = append(b.events, func(w tick.World) {
			w.PlaySound(pos, instrumentSoundID(instrument), "records", 1, noteblockPitch(note))
		})
	}
}

// Tick drains this tick's bucket and runs every due node's tick action.
func (b *Backend) Tick() {
	for _, id := range b.wheel.advance() {
		b.tickNode(id)
		b.Metrics.RecordTick(id)
	}
}

// OnUseBlock handles a player right-click on a lever or button compiled
// into the backend.
func (b *Backend) OnUseBlock(pos cube.Pos) {
	id, ok := b.Graph.NodeByPos(pos)
	if !ok {
		return
	}
	n := b.Graph.Node(id)
	switch n.Kind {
	case KindButton:
		if n.Powered {
			return
		}
		b.Schedule(id, 10, tick.Normal)
		b.setNodePower(id, true, 15)
	case KindLever:
		b.setNodePower(id, !n.Powered, boolPower(!n.Powered))
	default:
		b.log.Warn("use on non-interactive redpiler node", "kind", n.Kind.String())
	}
}

// SetPressurePlate updates a compiled pressure plate's powered state.
func (b *Backend) SetPressurePlate(pos cube.Pos, powered bool) {
	id, ok := b.Graph.NodeByPos(pos)
	if !ok {
		return
	}
	n := b.Graph.Node(id)
	if n.Kind != KindPressurePlate {
		b.log.Warn("set_pressure_plate on non-plate node", "kind", n.Kind.String())
		return
	}
	b.setNodePower(id, powered, boolPower(powered))
}

// OnObserveTrigger schedules an observer's pulse in response to a block
// change in its facing direction.
func (b *Backend) OnObserveTrigger(pos cube.Pos) {
	id, ok := b.Graph.NodeByPos(pos)
	if !ok {
		return
	}
	n := b.Graph.Node(id)
	if n.Kind != KindObserver {
		b.log.Warn("observe trigger on non-observer node", "kind", n.Kind.String())
		return
	}
	if n.Powered || n.PendingTick {
		return
	}
	b.Schedule(id, 1, tick.Normal)
}

// Flush writes every changed node's state back into the world. When
// ioOnly is set, only nodes flagged IsIO are written (levers, buttons,
// lamps, trapdoors, pressure plates, note blocks).
func (b *Backend) Flush(w tick.World, ioOnly bool) {
	for _, ev := range b.events {
		ev(w)
	}
	b.events = b.events[:0]

	for i := range b.Graph.Nodes {
		n := &b.Graph.Nodes[i]
		if !n.Changed || (ioOnly && !n.IsIO) {
			continue
		}
		writeBack(w, n)
		n.Changed = false
	}
}

// Reset drains the wheel back into the world's tick queue, writes back
// every node's final block state (comparator output strengths included),
// and leaves the backend empty.
func (b *Backend) Reset(w tick.World, ioOnly bool) {
	b.wheel.drainToWorld(b.Graph, w, b.log)
	for i := range b.Graph.Nodes {
		n := &b.Graph.Nodes[i]
		if n.Kind == KindComparator {
			w.SetBlockEntity(n.Pos, block.Comparator{OutputStrength: n.OutputPower})
		}
		if !ioOnly || n.IsIO {
			writeBack(w, n)
		}
	}
	b.Metrics.RecordReset()
	b.Graph = NewGraph()
	b.events = nil
}

func boolPower(on bool) uint8 {
	if on {
		return 15
	}
	return 0
}

// instrumentSoundID maps a note block's instrument to its vanilla sound
// event id.
func instrumentSoundID(i block.Instrument) string {
	switch i {
	case block.InstrumentBass:
		return "block.note_block.bass"
	case block.InstrumentBassDrum:
		return "block.note_block.basedrum"
	case block.InstrumentSnare:
		return "block.note_block.snare"
	case block.InstrumentHat:
		return "block.note_block.hat"
	case block.InstrumentGuitar:
		return "block.note_block.guitar"
	case block.InstrumentFlute:
		return "block.note_block.flute"
	case block.InstrumentBell:
		return "block.note_block.bell"
	case block.InstrumentChime:
		return "block.note_block.chime"
	case block.InstrumentXylophone:
		return "block.note_block.xylophone"
	case block.InstrumentIronXylophone:
		return "block.note_block.iron_xylophone"
	case block.InstrumentCowBell:
		return "block.note_block.cow_bell"
	case block.InstrumentDidgeridoo:
		return "block.note_block.didgeridoo"
	case block.InstrumentBit:
		return "block.note_block.bit"
	case block.InstrumentBanjo:
		return "block.note_block.banjo"
	case block.InstrumentPling:
		return "block.note_block.pling"
	default:
		return "block.note_block.harp"
	}
}

// noteblockPitch converts a note (0..=24, middle at 12) to the playback
// pitch multiplier vanilla note blocks use: two octaves centered on 1.0.
func noteblockPitch(note uint8) float32 {
	return float32(math.Pow(2, (float64(note)-12.0)/12.0))
}

// writeBack encodes a node's current simulation state into the block form
// stored in the world, so a flush or reset leaves the voxel world
// consistent with the graph's ground truth.
func writeBack(w tick.World, n *Node) {
	switch n.Kind {
	case KindLever:
		w.SetBlock(n.Pos, block.WithPowered(w.GetBlock(n.Pos), n.Powered))
	case KindButton:
		w.SetBlock(n.Pos, block.WithPowered(w.GetBlock(n.Pos), n.Powered))
	case KindPressurePlate:
		w.SetBlock(n.Pos, block.StonePressurePlate{Powered: n.Powered})
	case KindTorch:
		switch v := w.GetBlock(n.Pos).(type) {
		case block.RedstoneTorch:
			w.SetBlock(n.Pos, block.RedstoneTorch{Lit: n.Powered})
		case block.RedstoneWallTorch:
			w.SetBlock(n.Pos, block.RedstoneWallTorch{Lit: n.Powered, Facing: v.Facing})
		}
	case KindRepeater:
		if v, ok := w.GetBlock(n.Pos).(block.RedstoneRepeater); ok {
			w.SetBlock(n.Pos, block.RedstoneRepeater{
				Delay: v.Delay, Facing: v.Facing, Locked: n.Locked, Powered: n.Powered,
			})
		}
	case KindComparator:
		if v, ok := w.GetBlock(n.Pos).(block.RedstoneComparator); ok {
			w.SetBlock(n.Pos, block.RedstoneComparator{
				Facing: v.Facing, Mode: v.Mode, Powered: n.Powered,
			})
		}
	case KindLamp:
		w.SetBlock(n.Pos, block.RedstoneLamp{Lit: n.Powered})
	case KindTrapdoor:
		if v, ok := w.GetBlock(n.Pos).(block.IronTrapdoor); ok {
			w.SetBlock(n.Pos, block.IronTrapdoor{
				Facing: v.Facing, Half: v.Half, Powered: n.Powered, Open: n.Powered,
			})
		}
	case KindObserver:
		if v, ok := w.GetBlock(n.Pos).(block.Observer); ok {
			w.SetBlock(n.Pos, block.Observer{Facing: v.Facing, Powered: n.Powered})
		}
	case KindNoteBlock:
		if v, ok := w.GetBlock(n.Pos).(block.NoteBlock); ok {
			w.SetBlock(n.Pos, block.NoteBlock{Instrument: v.Instrument, Note: v.Note, Powered: n.Powered})
		}
	}
}
