// Package world implements the plot-local voxel world: a fixed-size grid of
// chunks addressed by plot-relative chunk coordinates, the pending
// scheduled-tick queue, and the block-change coalescing that feeds outbound
// packet sinks.
package world

import (
	"github.com/mchprs-go/mchprs/server/block"
	"github.com/mchprs-go/mchprs/server/block/cube"
	"github.com/mchprs-go/mchprs/server/tick"
	"github.com/mchprs-go/mchprs/server/world/chunk"
)

// PlotScale is the log2 width of a plot, measured in chunks.
const PlotScale = 5

// PlotWidth is the width of a plot in chunks (2^PlotScale).
const PlotWidth = 1 << PlotScale

// PlotBlockWidth is the width of a plot in blocks.
const PlotBlockWidth = PlotWidth * 16

// PlotSections is the world height in 16-block sections.
const PlotSections = 24

// PlotBlockHeight is the world height in blocks.
const PlotBlockHeight = PlotSections * 16

// Sink receives outbound notifications of world state changes, to be
// forwarded to whichever players are watching this plot. The plot runtime
// supplies the concrete packet-sending implementation; World only needs the
// narrow write-side contract.
type Sink interface {
	SendMultiBlockChange(sectionX, sectionY, sectionZ int, positions []chunk.Pos3, ids []uint32)
	SendBlockEntity(pos cube.Pos, be block.Entity)
	SendSound(pos cube.Pos, id string, category string, volume, pitch float32)
}

// PlotWorld is the concrete tick.World for one plot: a PlotWidth x PlotWidth
// grid of chunks, the plot's own scheduled-tick queue, and the sinks that
// receive flushed block changes.
type PlotWorld struct {
	X, Z int

	chunks map[int]*chunk.Chunk
	ticks  *scheduledTickQueue
	sinks  []Sink
}

// NewPlotWorld returns an empty plot world at plot coordinates (x, z).
func NewPlotWorld(x, z int) *PlotWorld {
	return &PlotWorld{
		X: x, Z: z,
		chunks: make(map[int]*chunk.Chunk),
		ticks:  newScheduledTickQueue(),
	}
}

// AddSink registers a packet sink to receive future flushed changes.
func (w *PlotWorld) AddSink(s Sink) { w.sinks = append(w.sinks, s) }

// RemoveSink unregisters a previously added sink.
func (w *PlotWorld) RemoveSink(s Sink) {
	for i, existing := range w.sinks {
		if existing == s {
			w.sinks = append(w.sinks[:i], w.sinks[i+1:]...)
			return
		}
	}
}

// chunkIndexForChunk maps a chunk position, given in plot-relative chunk
// coordinates already (0..PlotWidth), to its flat index. The legacy
// reference implementation computed this with an absolute value over a
// signed difference, silently aliasing negative offsets onto valid
// indices; this implementation instead rejects out-of-range coordinates
// outright rather than replicate that bug.
func chunkIndexForChunk(localX, localZ int) (int, bool) {
	if localX < 0 || localX >= PlotWidth || localZ < 0 || localZ >= PlotWidth {
		return 0, false
	}
	return localX<<PlotScale | localZ, true
}

// chunkIndexForBlock maps an absolute block x/z to its containing chunk's
// flat index within this plot.
func (w *PlotWorld) chunkIndexForBlock(x, z int) (int, bool) {
	localX := (x - w.X*PlotBlockWidth) >> 4
	localZ := (z - w.Z*PlotBlockWidth) >> 4
	return chunkIndexForChunk(localX, localZ)
}

func (w *PlotWorld) chunkAt(idx int) *chunk.Chunk {
	if c, ok := w.chunks[idx]; ok {
		return c
	}
	localX, localZ := idx>>PlotScale, idx&(PlotWidth-1)
	c := chunk.NewChunk(chunk.Pos{X: w.X*PlotWidth + localX, Z: w.Z*PlotWidth + localZ})
	w.chunks[idx] = c
	return c
}

// local reduces an absolute coordinate to its 0..15 position within a
// chunk; Go's two's-complement & already yields a non-negative result for
// any n, so no separate wrap-around case is needed.
func local(n int) int { return n & 0xF }

// GetBlockRaw returns the numeric block-state id at pos, or 0 if pos falls
// outside this plot's bounds.
func (w *PlotWorld) GetBlockRaw(pos cube.Pos) uint32 {
	idx, ok := w.chunkIndexForBlock(pos.X(), pos.Z())
	if !ok || pos.Y() < 0 || pos.Y() >= PlotBlockHeight {
		return 0
	}
	c := w.chunkAt(idx)
	return c.Section(pos.Y()>>4).Get(local(pos.X()), pos.Y()&0xF, local(pos.Z()))
}

// SetBlockRaw stores id at pos and reports whether the id actually changed.
// Out-of-bounds positions are silently ignored and report no change.
func (w *PlotWorld) SetBlockRaw(pos cube.Pos, id uint32) bool {
	idx, ok := w.chunkIndexForBlock(pos.X(), pos.Z())
	if !ok || pos.Y() < 0 || pos.Y() >= PlotBlockHeight {
		return false
	}
	c := w.chunkAt(idx)
	lx, ly, lz := local(pos.X()), pos.Y()&0xF, local(pos.Z())
	changed := c.Section(pos.Y()>>4).Set(lx, ly, lz, id)
	if changed {
		c.RecordDelta(chunk.Pos3{X: lx, Y: pos.Y(), Z: lz})
	}
	return changed
}

// GetBlock decodes the block at pos.
func (w *PlotWorld) GetBlock(pos cube.Pos) block.Block {
	return block.FromID(w.GetBlockRaw(pos))
}

// SetBlock encodes and stores b at pos.
func (w *PlotWorld) SetBlock(pos cube.Pos, b block.Block) {
	w.SetBlockRaw(pos, block.ID(b))
}

// GetBlockEntity returns the block entity at pos, if any.
func (w *PlotWorld) GetBlockEntity(pos cube.Pos) (block.Entity, bool) {
	idx, ok := w.chunkIndexForBlock(pos.X(), pos.Z())
	if !ok {
		return nil, false
	}
	c := w.chunkAt(idx)
	v, ok := c.BlockEntity(chunk.Pos3{X: local(pos.X()), Y: pos.Y(), Z: local(pos.Z())})
	if !ok {
		return nil, false
	}
	be, ok := v.(block.Entity)
	return be, ok
}

// SetBlockEntity installs be at pos and notifies every registered sink.
func (w *PlotWorld) SetBlockEntity(pos cube.Pos, be block.Entity) {
	idx, ok := w.chunkIndexForBlock(pos.X(), pos.Z())
	if !ok {
		return
	}
	c := w.chunkAt(idx)
	c.SetBlockEntity(chunk.Pos3{X: local(pos.X()), Y: pos.Y(), Z: local(pos.Z())}, be)
	for _, s := range w.sinks {
		s.SendBlockEntity(pos, be)
	}
}

// DeleteBlockEntity removes the block entity at pos, if any.
func (w *PlotWorld) DeleteBlockEntity(pos cube.Pos) {
	idx, ok := w.chunkIndexForBlock(pos.X(), pos.Z())
	if !ok {
		return
	}
	w.chunkAt(idx).DeleteBlockEntity(chunk.Pos3{X: local(pos.X()), Y: pos.Y(), Z: local(pos.Z())})
}

// ScheduleTick enqueues a delayed tick for pos.
func (w *PlotWorld) ScheduleTick(pos cube.Pos, delay int, priority tick.Priority) {
	w.ticks.Schedule(pos, delay, priority)
}

// PendingTickAt reports whether pos already has a tick scheduled.
func (w *PlotWorld) PendingTickAt(pos cube.Pos) bool { return w.ticks.PendingAt(pos) }

// PlaySound forwards a sound event to every registered sink.
func (w *PlotWorld) PlaySound(pos cube.Pos, id string, category string, volume, pitch float32) {
	for _, s := range w.sinks {
		s.SendSound(pos, id, category, volume, pitch)
	}
}

// AdvanceTicks drains and returns every scheduled tick due this tick,
// advancing the queue's clock by one.
func (w *PlotWorld) AdvanceTicks() []tick.Entry { return w.ticks.Advance() }

// PendingTickCount returns the number of ticks still queued.
func (w *PlotWorld) PendingTickCount() int { return w.ticks.Len() }

// SnapshotTicks returns every still-pending tick, for persistence.
func (w *PlotWorld) SnapshotTicks() []tick.Entry { return w.ticks.Snapshot() }

// RestoreTicks replaces the pending-tick queue's contents, for load.
func (w *PlotWorld) RestoreTicks(entries []tick.Entry) { w.ticks.Restore(entries) }

// FlushBlockChanges drains every chunk's recorded deltas and forwards one
// multi-block-change notification per modified section to every sink,
// matching the per-tick batching spec.md requires to avoid per-block packet
// floods at high tick rates.
func (w *PlotWorld) FlushBlockChanges() {
	for _, c := range w.chunks {
		bySection := c.FlushDeltas()
		for sectionY, positions := range bySection {
			ids := make([]uint32, len(positions))
			for i, p := range positions {
				ids[i] = c.Section(sectionY).Get(p.X, p.Y&0xF, p.Z)
			}
			for _, s := range w.sinks {
				s.SendMultiBlockChange(c.Pos.X, sectionY, c.Pos.Z, positions, ids)
			}
		}
	}
}

// Chunks returns every currently loaded chunk, keyed by its flat chunk
// index (see chunkIndexForChunk), for persistence.
func (w *PlotWorld) Chunks() map[int]*chunk.Chunk { return w.chunks }

// LoadChunk installs c into the world at its own recorded position,
// recomputing the flat index persistence addressed it by. Used when
// restoring a plot from storage.
func (w *PlotWorld) LoadChunk(c *chunk.Chunk) {
	localX, localZ := c.Pos.X-w.X*PlotWidth, c.Pos.Z-w.Z*PlotWidth
	idx, ok := chunkIndexForChunk(localX, localZ)
	if !ok {
		return
	}
	w.chunks[idx] = c
}

// Bounds returns the inclusive block-position AABB this plot covers.
func (w *PlotWorld) Bounds() (cube.Pos, cube.Pos) {
	min := cube.Pos{w.X * PlotBlockWidth, 0, w.Z * PlotBlockWidth}
	max := cube.Pos{(w.X+1)*PlotBlockWidth - 1, PlotBlockHeight - 1, (w.Z+1)*PlotBlockWidth - 1}
	return min, max
}

var _ tick.World = (*PlotWorld)(nil)
