package world

import (
	"testing"

	"github.com/mchprs-go/mchprs/server/block/cube"
	"github.com/mchprs-go/mchprs/server/tick"
)

func TestScheduledTickQueueOrdersByDelayThenPriority(t *testing.T) {
	q := newScheduledTickQueue()
	posA := cube.Pos{0, 0, 0}
	posB := cube.Pos{1, 0, 0}

	q.Schedule(posA, 3, tick.Normal)
	q.Schedule(posB, 2, tick.High)
	q.Schedule(posA, 2, tick.Highest)

	if due := q.Advance(); len(due) != 0 {
		t.Fatalf("tick 1: expected nothing due yet (shortest delay is 2), got %d", len(due))
	}
	due := q.Advance()
	if len(due) != 2 {
		t.Fatalf("tick 2: expected 2 entries due, got %d", len(due))
	}
	if due[0].Priority != tick.Highest || due[0].Pos != posA {
		t.Errorf("expected Highest-priority posA first, got %+v", due[0])
	}
	if due[1].Priority != tick.High || due[1].Pos != posB {
		t.Errorf("expected High-priority posB second, got %+v", due[1])
	}

	due = q.Advance()
	if len(due) != 1 || due[0].Pos != posA {
		t.Fatalf("tick 3: expected posA's delay-3 entry, got %+v", due)
	}
}

func TestScheduledTickQueuePendingAt(t *testing.T) {
	q := newScheduledTickQueue()
	pos := cube.Pos{5, 5, 5}
	if q.PendingAt(pos) {
		t.Fatal("expected no pending tick before scheduling")
	}
	q.Schedule(pos, 3, tick.Normal)
	if !q.PendingAt(pos) {
		t.Fatal("expected pending tick after scheduling")
	}
	q.Advance()
	q.Advance()
	q.Advance()
	if q.PendingAt(pos) {
		t.Fatal("expected no pending tick after it fired")
	}
}

func TestScheduledTickQueueSnapshotRestore(t *testing.T) {
	q := newScheduledTickQueue()
	pos := cube.Pos{1, 2, 3}
	q.Schedule(pos, 5, tick.High)
	snap := q.Snapshot()
	if len(snap) != 1 || snap[0].TicksLeft != 5 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	q2 := newScheduledTickQueue()
	q2.Restore(snap)
	if !q2.PendingAt(pos) {
		t.Fatal("expected restored queue to have the entry pending")
	}
	for i := 0; i < 4; i++ {
		if due := q2.Advance(); len(due) != 0 {
			t.Fatalf("tick %d: expected nothing due yet, got %d", i+1, len(due))
		}
	}
	due := q2.Advance()
	if len(due) != 1 || due[0].Pos != pos {
		t.Fatalf("tick 5: expected restored entry due, got %+v", due)
	}
}
