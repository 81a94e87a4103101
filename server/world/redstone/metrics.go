package redstone

import (
	"sync"

	"github.com/segmentio/fasthash/fnv1a"
)

// tickShards is the width of the per-node tick-count histogram. Sharding by
// node id rather than keeping one counter per node avoids an unbounded
// metrics allocation for large compiled circuits while still surfacing
// which part of a plot's graph is ticking hottest.
const tickShards = 16

// shardFor buckets a node id into 0..tickShards via fnv1a, spreading
// sequential ids (compile order, which tends to cluster spatially) across
// shards instead of letting them pile into a handful of buckets.
func shardFor(id NodeID) int {
	return int(fnv1a.HashUint32(uint32(id)) % tickShards)
}

// Metrics tracks counters for a plot's redstone backend, surfaced through
// the `/redpiler` command.
type Metrics struct {
	mu sync.Mutex

	nodesCompiled  uint64
	graphSignature uint64
	ticksRun       uint64
	compileCount   uint64
	resetCount     uint64
	tickShardHits  [tickShards]uint64
}

// NewMetrics creates an empty metrics registry.
func NewMetrics() *Metrics { return &Metrics{} }

// RecordCompile records a fresh compile of n nodes with the given graph
// signature (see Signature).
func (m *Metrics) RecordCompile(n int, signature uint64) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.nodesCompiled = uint64(n)
	m.graphSignature = signature
	m.compileCount++
	m.mu.Unlock()
}

// RecordTick increments the executed-tick counter and the shard bucket for
// node.
func (m *Metrics) RecordTick(node NodeID) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.ticksRun++
	m.tickShardHits[shardFor(node)]++
	m.mu.Unlock()
}

// RecordReset increments the reset counter.
func (m *Metrics) RecordReset() {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.resetCount++
	m.mu.Unlock()
}

// Snapshot is a point-in-time copy of the metrics, safe to read without
// holding the registry's lock.
type Snapshot struct {
	NodesCompiled  uint64
	GraphSignature uint64
	TicksRun       uint64
	CompileCount   uint64
	ResetCount     uint64
	TickShardHits  [tickShards]uint64
}

// Snapshot returns the current counters.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		NodesCompiled:  m.nodesCompiled,
		GraphSignature: m.graphSignature,
		TicksRun:       m.ticksRun,
		CompileCount:   m.compileCount,
		ResetCount:     m.resetCount,
		TickShardHits:  m.tickShardHits,
	}
}
