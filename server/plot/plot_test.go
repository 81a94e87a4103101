package plot

import (
	"testing"

	"github.com/mchprs-go/mchprs/server/block"
	"github.com/mchprs-go/mchprs/server/block/cube"
	"github.com/mchprs-go/mchprs/server/plotconf"
)

func openTestPlot(t *testing.T) *Plot {
	t.Helper()
	p, err := Open(t.TempDir(), 0, 0, plotconf.Default(), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := p.store.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	})
	return p
}

func TestTickNAfterLeverUseKeepsLamp(t *testing.T) {
	p := openTestPlot(t)
	leverPos := cube.Pos{1, 1, 1}
	lampPos := cube.Pos{2, 1, 1}
	p.World.SetBlock(leverPos, block.Lever{Facing: cube.North})
	p.World.SetBlock(lampPos, block.RedstoneLamp{})

	p.UseBlock(leverPos)
	p.TickN(4)

	if _, ok := p.World.GetBlock(lampPos).(block.RedstoneLamp); !ok {
		t.Fatalf("expected a redstone lamp still at %v, got %#v", lampPos, p.World.GetBlock(lampPos))
	}
}

func TestStartStopRedpilerRoundTrips(t *testing.T) {
	p := openTestPlot(t)
	pos := cube.Pos{5, 5, 5}
	p.World.SetBlock(pos, block.RedstoneBlock{})

	p.StartRedpiler()
	if !p.Redpiler() {
		t.Fatal("expected redpiler active after StartRedpiler")
	}
	p.StopRedpiler()
	if p.Redpiler() {
		t.Fatal("expected redpiler inactive after StopRedpiler")
	}
	if _, ok := p.World.GetBlock(pos).(block.RedstoneBlock); !ok {
		t.Fatal("expected the redstone block to survive a compile/reset round trip")
	}
}

func TestSaveAndReloadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	p, err := Open(dir, 1, 2, plotconf.Default(), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	pos := cube.Pos{515, 10, 1027} // block (3, 10, 3) of plot (1, 2), whose corner is (512, 0, 1024)
	p.World.SetBlock(pos, block.RedstoneBlock{})
	p.World.SetBlockEntity(pos, block.Comparator{OutputStrength: 4})
	if err := p.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := p.store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(dir, 1, 2, plotconf.Default(), nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.store.Close()

	if _, ok := reopened.World.GetBlock(pos).(block.RedstoneBlock); !ok {
		t.Fatalf("expected the redstone block to persist, got %#v", reopened.World.GetBlock(pos))
	}
	be, ok := reopened.World.GetBlockEntity(pos)
	if !ok {
		t.Fatal("expected the comparator block entity to persist")
	}
	if c, ok := be.(block.Comparator); !ok || c.OutputStrength != 4 {
		t.Fatalf("got %#v, want Comparator{OutputStrength: 4}", be)
	}
}
