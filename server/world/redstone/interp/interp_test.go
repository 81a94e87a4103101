package interp

import (
	"testing"

	"github.com/mchprs-go/mchprs/server/block"
	"github.com/mchprs-go/mchprs/server/block/cube"
	"github.com/mchprs-go/mchprs/server/tick"
)

// fakeWorld is a minimal in-memory tick.World, mirroring the redstone
// package's own test double: interp cannot import that package's
// unexported type, and the real plot world would bring chunk storage and
// tick scheduling into these rule-level tests.
type fakeWorld struct {
	blocks    map[cube.Pos]block.Block
	entities  map[cube.Pos]block.Entity
	scheduled map[cube.Pos]bool
	sounds    []sound
}

type sound struct {
	pos           cube.Pos
	id, category  string
	volume, pitch float32
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		blocks:    make(map[cube.Pos]block.Block),
		entities:  make(map[cube.Pos]block.Entity),
		scheduled: make(map[cube.Pos]bool),
	}
}

func (w *fakeWorld) GetBlockRaw(pos cube.Pos) uint32 { return block.ID(w.GetBlock(pos)) }
func (w *fakeWorld) SetBlockRaw(pos cube.Pos, id uint32) bool {
	w.SetBlock(pos, block.FromID(id))
	return true
}
func (w *fakeWorld) GetBlock(pos cube.Pos) block.Block {
	if b, ok := w.blocks[pos]; ok {
		return b
	}
	return block.Air{}
}
func (w *fakeWorld) SetBlock(pos cube.Pos, b block.Block)            { w.blocks[pos] = b }
func (w *fakeWorld) GetBlockEntity(pos cube.Pos) (block.Entity, bool) {
	be, ok := w.entities[pos]
	return be, ok
}
func (w *fakeWorld) SetBlockEntity(pos cube.Pos, be block.Entity) { w.entities[pos] = be }
func (w *fakeWorld) DeleteBlockEntity(pos cube.Pos)               { delete(w.entities, pos) }
func (w *fakeWorld) ScheduleTick(pos cube.Pos, delay int, priority tick.Priority) {
	w.scheduled[pos] = true
}
func (w *fakeWorld) PendingTickAt(pos cube.Pos) bool { return w.scheduled[pos] }
func (w *fakeWorld) PlaySound(pos cube.Pos, id string, category string, volume, pitch float32) {
	w.sounds = append(w.sounds, sound{pos, id, category, volume, pitch})
}

var _ tick.World = (*fakeWorld)(nil)

func TestComparatorOutputMatchesWorkedExample(t *testing.T) {
	w := newFakeWorld()
	comparatorPos := cube.Pos{1, 0, 0}
	wirePos := cube.Pos{0, 0, 0}
	sidePos := cube.Pos{1, 0, 1}

	w.SetBlock(wirePos, block.RedstoneWire{Power: 15, East: block.ConnectionSide})
	w.SetBlock(sidePos, block.RedstoneWire{Power: 7, West: block.ConnectionSide})
	comparator := block.RedstoneComparator{Facing: cube.West, Mode: block.ComparatorSubtract}
	w.SetBlock(comparatorPos, comparator)

	got := comparatorOutput(w, comparatorPos, comparator)
	if got != 8 {
		t.Fatalf("comparator output = %d, want 8 (15-7)", got)
	}

	w.SetBlock(sidePos, block.RedstoneWire{Power: 0, West: block.ConnectionSide})
	got = comparatorOutput(w, comparatorPos, comparator)
	if got != 15 {
		t.Fatalf("comparator output after cutting side input = %d, want 15", got)
	}
}

func TestTorchShouldBeOffWhenBaseIsPowered(t *testing.T) {
	w := newFakeWorld()
	torchPos := cube.Pos{0, 1, 0}
	basePos := cube.Pos{0, 0, 0}

	w.SetBlock(basePos, block.NewSimple("stone"))
	if torchShouldBeOff(w, torchPos) {
		t.Fatal("an unpowered base should leave the torch lit")
	}

	w.SetBlock(basePos, block.RedstoneBlock{})
	if !torchShouldBeOff(w, torchPos) {
		t.Fatal("a redstone-block base should turn the torch off")
	}
}

func TestWireConnectsToAdjacentRepeaterSide(t *testing.T) {
	w := newFakeWorld()
	wirePos := cube.Pos{0, 0, 0}
	w.SetBlock(wirePos.Side(cube.FaceEast), block.RedstoneRepeater{Facing: cube.North})

	updated := recomputeConnections(w, wirePos, block.RedstoneWire{})
	if connectionOnSide(updated, cube.East) != block.ConnectionSide {
		t.Fatal("wire should connect to an adjacent repeater as a side neighbor")
	}
}

func TestOnUseRepeaterCyclesDelay(t *testing.T) {
	w := newFakeWorld()
	pos := cube.Pos{0, 0, 0}
	w.SetBlock(pos, block.RedstoneRepeater{Delay: 4, Facing: cube.North})

	if !OnUse(w, pos) {
		t.Fatal("expected repeater interaction to be handled")
	}
	got := w.GetBlock(pos).(block.RedstoneRepeater)
	if got.Delay != 1 {
		t.Fatalf("delay after cycling past 4 = %d, want 1", got.Delay)
	}
}

func TestOnUseLeverTogglesAndNotifiesNeighbors(t *testing.T) {
	w := newFakeWorld()
	pos := cube.Pos{0, 0, 0}
	w.SetBlock(pos, block.Lever{Face: block.MountFloor, Powered: false})
	w.SetBlock(pos.Side(cube.FaceEast), block.RedstoneWire{West: block.ConnectionSide})

	if !OnUse(w, pos) {
		t.Fatal("expected lever interaction to be handled")
	}
	got := w.GetBlock(pos).(block.Lever)
	if !got.Powered {
		t.Fatal("expected lever to flip to powered")
	}
}
