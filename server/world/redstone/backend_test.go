package redstone

import (
	"testing"

	"github.com/mchprs-go/mchprs/server/block"
	"github.com/mchprs-go/mchprs/server/tick"
)

func TestCalculateComparatorOutput(t *testing.T) {
	for input := uint8(0); input <= 15; input++ {
		for side := uint8(0); side <= 15; side++ {
			wantCompare := uint8(0)
			if input >= side {
				wantCompare = input
			}
			if got := calculateComparatorOutput(block.ComparatorCompare, input, side); got != wantCompare {
				t.Errorf("compare(%d,%d) = %d, want %d", input, side, got, wantCompare)
			}

			wantSubtract := uint8(0)
			if input > side {
				wantSubtract = input - side
			}
			if got := calculateComparatorOutput(block.ComparatorSubtract, input, side); got != wantSubtract {
				t.Errorf("subtract(%d,%d) = %d, want %d", input, side, got, wantSubtract)
			}
		}
	}
}

// buildComparatorLampGraph wires: wire(default, att=0) -> comparator -> lamp
// matching the "comparator subtract" worked example in spec.md: a Subtract
// comparator with a strength-15 default input and a strength-7 side input
// driving a lamp through its output.
func buildComparatorLampGraph() (g *Graph, comparator, lamp NodeID) {
	g = NewGraph()
	comparator = g.Append(Node{Kind: KindComparator, Mode: block.ComparatorSubtract})
	lamp = g.Append(Node{Kind: KindLamp, IsIO: true})
	g.Node(comparator).Updates = append(g.Node(comparator).Updates, Link{Target: lamp})
	return g, comparator, lamp
}

func TestBackendComparatorSubtractDrivesLamp(t *testing.T) {
	g, comparator, lamp := buildComparatorLampGraph()
	b := NewBackend(g, nil, nil)

	// Default input 15, side input 7: inject directly into the histograms
	// the way setNodePower would via upstream links, then run the
	// level-triggered update the way an incoming power change would.
	cn := g.Node(comparator)
	cn.DefaultInputs.Add(15)
	cn.SideInputs.Add(7)
	b.update(comparator)
	if !cn.PendingTick {
		t.Fatal("expected comparator to schedule a tick after its input changed")
	}
	b.tickNode(comparator)

	if cn.OutputPower != 8 {
		t.Fatalf("comparator output = %d, want 8 (15-7)", cn.OutputPower)
	}
	ln := g.Node(lamp)
	if !ln.Powered {
		t.Fatal("expected lamp to be powered by the comparator's output")
	}

	// Cut the side input to 0: output should rise to 15, lamp stays lit.
	cn.SideInputs.Remove(7)
	cn.SideInputs.Add(0)
	b.update(comparator)
	b.tickNode(comparator)
	if cn.OutputPower != 15 {
		t.Fatalf("comparator output after cutting side input = %d, want 15", cn.OutputPower)
	}
	if !ln.Powered {
		t.Fatal("expected lamp to remain lit at full strength")
	}
}

func TestBackendSetNodePowerPropagatesThroughAttenuation(t *testing.T) {
	g := NewGraph()
	source := g.Append(Node{Kind: KindLever, IsIO: true})
	target := g.Append(Node{Kind: KindLamp, IsIO: true})
	g.Node(source).Updates = append(g.Node(source).Updates, Link{Target: target, Attenuation: 3})

	b := NewBackend(g, nil, nil)
	b.setNodePower(source, true, 15)

	tn := g.Node(target)
	if got := tn.DefaultInputs.LastIndexPositive(); got != 12 {
		t.Fatalf("target input after attenuation = %d, want 12 (15-3)", got)
	}
}

func TestTickWheelOrdersByPriority(t *testing.T) {
	var w tickWheel
	w.schedule(NodeID(1), 2, tick.Normal)
	w.schedule(NodeID(2), 2, tick.Highest)
	w.schedule(NodeID(3), 1, tick.Highest) // different bucket, fires one tick earlier

	due := w.advance()
	if len(due) != 1 || due[0] != NodeID(3) {
		t.Fatalf("tick 1 (delay 1 from start) should fire node 3 only, got %v", due)
	}

	due = w.advance()
	if len(due) != 2 {
		t.Fatalf("tick 2 should fire both delay-2 nodes, got %v", due)
	}
	if due[0] != NodeID(2) || due[1] != NodeID(1) {
		t.Fatalf("expected Highest-priority node 2 before Normal-priority node 1, got %v", due)
	}
}

func TestTickWheelHasPendingTicks(t *testing.T) {
	var w tickWheel
	if w.hasPending() {
		t.Fatal("empty wheel must report no pending ticks")
	}
	w.schedule(NodeID(1), 5, tick.Normal)
	if !w.hasPending() {
		t.Fatal("expected pending ticks after scheduling")
	}
}
