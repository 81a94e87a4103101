package redstone

import (
	"testing"

	"github.com/mchprs-go/mchprs/server/block"
	"github.com/mchprs-go/mchprs/server/block/cube"
	"github.com/mchprs-go/mchprs/server/tick"
)

// fakeWorld is a minimal in-memory tick.World for exercising Build without
// pulling in the plot world package.
type fakeWorld struct {
	blocks   map[cube.Pos]block.Block
	entities map[cube.Pos]block.Entity
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{blocks: make(map[cube.Pos]block.Block), entities: make(map[cube.Pos]block.Entity)}
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
func (w *fakeWorld) SetBlock(pos cube.Pos, b block.Block) { w.blocks[pos] = b }
func (w *fakeWorld) GetBlockEntity(pos cube.Pos) (block.Entity, bool) {
	be, ok := w.entities[pos]
	return be, ok
}
func (w *fakeWorld) SetBlockEntity(pos cube.Pos, be block.Entity) { w.entities[pos] = be }
func (w *fakeWorld) DeleteBlockEntity(pos cube.Pos)          { delete(w.entities, pos) }
func (w *fakeWorld) ScheduleTick(cube.Pos, int, tick.Priority) {}
func (w *fakeWorld) PendingTickAt(cube.Pos) bool             { return false }
func (w *fakeWorld) PlaySound(cube.Pos, string, string, float32, float32) {}

var _ tick.World = (*fakeWorld)(nil)

func TestBuildLinksLeverDirectlyIntoRepeaterDefaultInput(t *testing.T) {
	w := newFakeWorld()
	leverPos := cube.Pos{0, 0, 0}
	repeaterPos := cube.Pos{1, 0, 0} // east of the lever

	w.SetBlock(leverPos, block.Lever{Face: block.MountWall, Facing: cube.West, Powered: true})
	w.SetBlock(repeaterPos, block.RedstoneRepeater{Delay: 1, Facing: cube.West, Locked: false, Powered: false})

	g := Build(w, cube.Pos{0, 0, 0}, cube.Pos{2, 0, 0})

	leverID, ok := g.NodeByPos(leverPos)
	if !ok {
		t.Fatal("expected lever to compile to a node")
	}
	repeaterID, ok := g.NodeByPos(repeaterPos)
	if !ok {
		t.Fatal("expected repeater to compile to a node")
	}

	lever := g.Node(leverID)
	if len(lever.Updates) != 1 {
		t.Fatalf("expected lever to link to exactly one node, got %d", len(lever.Updates))
	}
	link := lever.Updates[0]
	if link.Target != repeaterID {
		t.Fatalf("expected lever's link to target the repeater")
	}
	if link.Side {
		t.Fatal("a lever on a repeater's facing side (its back input) must be a default input, not a side input")
	}
	if link.Attenuation != 0 {
		t.Fatalf("direct adjacency should not attenuate, got %d", link.Attenuation)
	}
}

func TestBuildRejectsLinkIntoRepeaterOutputFace(t *testing.T) {
	w := newFakeWorld()
	leverPos := cube.Pos{2, 0, 0} // in front of (east of) the repeater's output face
	repeaterPos := cube.Pos{1, 0, 0}

	w.SetBlock(leverPos, block.Lever{Face: block.MountWall, Facing: cube.East, Powered: true})
	w.SetBlock(repeaterPos, block.RedstoneRepeater{Delay: 1, Facing: cube.West, Locked: false, Powered: false})

	g := Build(w, cube.Pos{0, 0, 0}, cube.Pos{2, 0, 0})
	leverID, _ := g.NodeByPos(leverPos)
	lever := g.Node(leverID)
	if len(lever.Updates) != 0 {
		t.Fatalf("a lever facing into a repeater's output side must not become an input link, got %d links", len(lever.Updates))
	}
}
