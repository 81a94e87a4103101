package world

import (
	"testing"

	"github.com/mchprs-go/mchprs/server/block"
	"github.com/mchprs-go/mchprs/server/block/cube"
	"github.com/mchprs-go/mchprs/server/tick"
	"github.com/mchprs-go/mchprs/server/world/chunk"
)

func TestSetGetBlockRoundTrips(t *testing.T) {
	w := NewPlotWorld(0, 0)
	pos := cube.Pos{3, 70, 12}
	w.SetBlock(pos, block.RedstoneBlock{})

	got := w.GetBlock(pos)
	if _, ok := got.(block.RedstoneBlock); !ok {
		t.Fatalf("expected RedstoneBlock back, got %#v", got)
	}
}

func TestSetBlockRawReportsChange(t *testing.T) {
	w := NewPlotWorld(0, 0)
	pos := cube.Pos{0, 0, 0}
	if !w.SetBlockRaw(pos, 5) {
		t.Fatal("first write to a position must report a change")
	}
	if w.SetBlockRaw(pos, 5) {
		t.Fatal("writing the same id again must report no change")
	}
	if !w.SetBlockRaw(pos, 6) {
		t.Fatal("writing a different id must report a change")
	}
}

func TestOutOfBoundsPositionsAreRejected(t *testing.T) {
	w := NewPlotWorld(0, 0)
	outside := cube.Pos{PlotBlockWidth * 2, 0, 0}
	if w.SetBlockRaw(outside, 5) {
		t.Fatal("a position outside this plot's chunk grid must not be written")
	}
	if id := w.GetBlockRaw(outside); id != 0 {
		t.Fatalf("reading outside the plot should return 0, got %d", id)
	}

	aboveHeight := cube.Pos{0, PlotBlockHeight, 0}
	if w.SetBlockRaw(aboveHeight, 5) {
		t.Fatal("a position above the height limit must not be written")
	}
}

func TestChunkIndexForChunkRejectsNegativeRatherThanAliasing(t *testing.T) {
	if _, ok := chunkIndexForChunk(-1, 0); ok {
		t.Fatal("a negative local chunk coordinate must be rejected, not aliased via abs()")
	}
	if _, ok := chunkIndexForChunk(PlotWidth, 0); ok {
		t.Fatal("a local chunk coordinate at/past the plot width must be rejected")
	}
	idx, ok := chunkIndexForChunk(1, 2)
	if !ok || idx != 1<<PlotScale|2 {
		t.Fatalf("got (%d, %v), want (%d, true)", idx, ok, 1<<PlotScale|2)
	}
}

func TestScheduleTickAndAdvance(t *testing.T) {
	w := NewPlotWorld(0, 0)
	pos := cube.Pos{1, 1, 1}
	w.ScheduleTick(pos, 2, tick.Normal)
	if !w.PendingTickAt(pos) {
		t.Fatal("expected a pending tick immediately after scheduling")
	}

	if due := w.AdvanceTicks(); len(due) != 0 {
		t.Fatalf("tick 1: expected nothing due yet, got %v", due)
	}
	due := w.AdvanceTicks()
	if len(due) != 1 || due[0].Pos != pos {
		t.Fatalf("tick 2: expected the scheduled tick to fire, got %v", due)
	}
	if w.PendingTickAt(pos) {
		t.Fatal("tick should no longer be pending after firing")
	}
}

func TestBlockEntityRoundTrips(t *testing.T) {
	w := NewPlotWorld(0, 0)
	pos := cube.Pos{2, 5, 2}
	w.SetBlockEntity(pos, block.Comparator{OutputStrength: 9})

	got, ok := w.GetBlockEntity(pos)
	if !ok {
		t.Fatal("expected a block entity to be present")
	}
	c, ok := got.(block.Comparator)
	if !ok || c.OutputStrength != 9 {
		t.Fatalf("got %#v, want Comparator{OutputStrength: 9}", got)
	}

	w.DeleteBlockEntity(pos)
	if _, ok := w.GetBlockEntity(pos); ok {
		t.Fatal("expected block entity to be gone after delete")
	}
}

type recordingSink struct {
	sounds int
}

func (s *recordingSink) SendMultiBlockChange(int, int, int, []chunk.Pos3, []uint32) {}
func (s *recordingSink) SendBlockEntity(cube.Pos, block.Entity)                     {}
func (s *recordingSink) SendSound(cube.Pos, string, string, float32, float32) {
	s.sounds++
}

func TestPlaySoundReachesRegisteredSinks(t *testing.T) {
	w := NewPlotWorld(0, 0)
	sink := &recordingSink{}
	w.AddSink(sink)
	w.PlaySound(cube.Pos{0, 0, 0}, "block.note_block.harp", "record", 1, 1)
	if sink.sounds != 1 {
		t.Fatalf("expected 1 sound delivered, got %d", sink.sounds)
	}
	w.RemoveSink(sink)
	w.PlaySound(cube.Pos{0, 0, 0}, "block.note_block.harp", "record", 1, 1)
	if sink.sounds != 1 {
		t.Fatal("sink should not receive sounds after being removed")
	}
}
