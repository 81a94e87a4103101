package world

import (
	"sort"

	"github.com/mchprs-go/mchprs/server/block/cube"
	"github.com/mchprs-go/mchprs/server/tick"
)

// scheduledTickQueue is the pending-tick queue owned by a PlotWorld: a
// priority-ordered multiset of delayed block updates, drained in
// (ticksLeft, priority) ascending order with insertion order as the
// tie-break, per the interpreted scheduler's contract.
type scheduledTickQueue struct {
	entries []queuedTick
	pending map[cube.Pos]int // count of pending entries per position
	nextSeq uint64
	now     int64
}

type queuedTick struct {
	pos      cube.Pos
	priority tick.Priority
	fireAt   int64
	seq      uint64
}

func newScheduledTickQueue() *scheduledTickQueue {
	return &scheduledTickQueue{pending: make(map[cube.Pos]int)}
}

// Schedule enqueues a tick at pos to fire after delay ticks (delay < 0 is
// clamped to 0, firing on the next Advance).
func (q *scheduledTickQueue) Schedule(pos cube.Pos, delay int, priority tick.Priority) {
	if delay < 0 {
		delay = 0
	}
	q.entries = append(q.entries, queuedTick{
		pos: pos, priority: priority,
		fireAt: q.now + int64(delay), seq: q.nextSeq,
	})
	q.nextSeq++
	q.pending[pos]++
}

// PendingAt reports whether pos has at least one scheduled tick.
func (q *scheduledTickQueue) PendingAt(pos cube.Pos) bool {
	return q.pending[pos] > 0
}

// Advance moves the queue's clock forward by one tick and returns every
// entry now due, ordered by priority then insertion order.
func (q *scheduledTickQueue) Advance() []tick.Entry {
	q.now++
	return q.drainDue()
}

func (q *scheduledTickQueue) drainDue() []tick.Entry {
	type due struct {
		queuedTick
	}
	var firing []due
	remaining := q.entries[:0]
	for _, e := range q.entries {
		if e.fireAt <= q.now {
			firing = append(firing, due{e})
			q.pending[e.pos]--
			if q.pending[e.pos] <= 0 {
				delete(q.pending, e.pos)
			}
		} else {
			remaining = append(remaining, e)
		}
	}
	q.entries = remaining
	sort.SliceStable(firing, func(i, j int) bool {
		if firing[i].fireAt != firing[j].fireAt {
			return firing[i].fireAt < firing[j].fireAt
		}
		if firing[i].priority != firing[j].priority {
			return firing[i].priority < firing[j].priority
		}
		return firing[i].seq < firing[j].seq
	})
	out := make([]tick.Entry, len(firing))
	for i, e := range firing {
		out[i] = tick.Entry{Pos: e.pos, TicksLeft: 0, Priority: e.priority}
	}
	return out
}

// Snapshot returns every pending entry with TicksLeft recomputed relative to
// the current clock, sorted by (ticksLeft, priority, insertion order). Used
// to hand the queue off to a compiled backend, or to persist a plot.
func (q *scheduledTickQueue) Snapshot() []tick.Entry {
	sorted := make([]queuedTick, len(q.entries))
	copy(sorted, q.entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].fireAt != sorted[j].fireAt {
			return sorted[i].fireAt < sorted[j].fireAt
		}
		if sorted[i].priority != sorted[j].priority {
			return sorted[i].priority < sorted[j].priority
		}
		return sorted[i].seq < sorted[j].seq
	})
	out := make([]tick.Entry, len(sorted))
	for i, e := range sorted {
		left := int(e.fireAt - q.now)
		if left < 0 {
			left = 0
		}
		out[i] = tick.Entry{Pos: e.pos, TicksLeft: left, Priority: e.priority}
	}
	return out
}

// Restore replaces the queue's contents with entries read back from a
// persisted plot or handed back by a compiled backend's reset, scheduling
// each relative to the current clock.
func (q *scheduledTickQueue) Restore(entries []tick.Entry) {
	q.entries = q.entries[:0]
	q.pending = make(map[cube.Pos]int)
	for _, e := range entries {
		q.Schedule(e.Pos, e.TicksLeft, e.Priority)
	}
}

// Len reports the number of entries currently pending.
func (q *scheduledTickQueue) Len() int { return len(q.entries) }
