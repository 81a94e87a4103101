package block

import (
	"testing"

	"github.com/mchprs-go/mchprs/server/block/cube"
)

func TestRoundTripKnownVariants(t *testing.T) {
	cases := []Block{
		Air{},
		RedstoneBlock{},
		RedstoneWire{North: ConnectionSide, South: ConnectionUp, East: ConnectionNone, West: ConnectionSide, Power: 9},
		RedstoneTorch{Lit: true},
		RedstoneWallTorch{Lit: false, Facing: cube.East},
		RedstoneRepeater{Delay: 3, Facing: cube.West, Locked: true, Powered: false},
		RedstoneComparator{Facing: cube.West, Mode: ComparatorSubtract, Powered: false},
		Lever{Face: MountWall, Facing: cube.South, Powered: true},
		StoneButton{Face: MountFloor, Facing: cube.North, Powered: false},
		StonePressurePlate{Powered: true},
		RedstoneLamp{Lit: true},
		IronTrapdoor{Facing: cube.East, Half: HalfTop, Powered: true, Open: false},
		Observer{Facing: cube.FaceUp, Powered: true},
		NoteBlock{Instrument: InstrumentBanjo, Note: 13, Powered: false},
		Simple{name: "stone"},
	}
	for _, b := range cases {
		id := ID(b)
		got := FromID(id)
		if got != b {
			t.Errorf("round trip mismatch for %#v: id=%d decoded=%#v", b, id, got)
		}
	}
}

func TestUnknownIDRoundTrips(t *testing.T) {
	const weird = 999999
	b := FromID(weird)
	u, ok := b.(Unknown)
	if !ok {
		t.Fatalf("expected Unknown, got %#v", b)
	}
	if ID(u) != weird {
		t.Fatalf("ID(FromID(%d)) = %d, want %d", weird, ID(u), weird)
	}
}

func TestDocumentedIDVectors(t *testing.T) {
	repeater := RedstoneRepeater{Delay: 3, Facing: cube.West, Locked: true, Powered: false}
	if got := ID(repeater); got != 4141 {
		t.Errorf("repeater id = %d, want 4141", got)
	}
	comparator := RedstoneComparator{Facing: cube.West, Mode: ComparatorSubtract, Powered: false}
	if got := ID(comparator); got != 6895 {
		t.Errorf("comparator id = %d, want 6895", got)
	}
}

func TestIsDiode(t *testing.T) {
	if !IsDiode(RedstoneRepeater{}) || !IsDiode(RedstoneComparator{}) {
		t.Fatalf("expected repeater and comparator to be diodes")
	}
	if IsDiode(RedstoneWire{}) {
		t.Fatalf("wire must not be a diode")
	}
}
