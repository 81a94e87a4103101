// Package plot implements the per-plot runtime: one goroutine owning one
// plot's world, its redstone simulation (interpreted or compiled), and the
// leveldb-backed persistence that survives it across restarts.
package plot

import (
	"context"
	"log/slog"
	"time"

	"github.com/mchprs-go/mchprs/server/block"
	"github.com/mchprs-go/mchprs/server/block/cube"
	"github.com/mchprs-go/mchprs/server/plotconf"
	"github.com/mchprs-go/mchprs/server/world"
	"github.com/mchprs-go/mchprs/server/world/redstone"
	"github.com/mchprs-go/mchprs/server/world/redstone/interp"
)

// maxTicksPerBatch bounds how much a single Update call will try to catch
// up in one go after a long stall (e.g. the process having been paused),
// so a sleeping plot doesn't come back and attempt to replay hours of
// simulation in one unresponsive burst.
const maxTicksPerBatch = 50000

// Plot owns one plot's world, its on-disk store, and whichever redstone
// backend - interpreted or compiled - currently drives its tick loop. Each
// Plot is meant to be driven by exactly one goroutine; there is no internal
// locking because nothing about it is safe to touch concurrently, matching
// the per-plot goroutine-and-channel concurrency model the rest of the
// runtime assumes.
type Plot struct {
	X, Z int

	World *world.PlotWorld
	store *Store

	backend *redstone.Backend
	metrics *redstone.Metrics

	conf plotconf.Config
	log  *slog.Logger

	lastTickDuration time.Duration
	lagNanos         int64
}

// Open loads (or creates) the plot at (x, z) from its on-disk store.
func Open(dataDir string, x, z int, conf plotconf.Config, log *slog.Logger) (*Plot, error) {
	if log == nil {
		log = slog.Default()
	}
	store, err := OpenStore(dataDir, x, z)
	if err != nil {
		return nil, err
	}
	w, err := store.Load(x, z)
	if err != nil {
		store.Close()
		return nil, err
	}
	return &Plot{
		X: x, Z: z,
		World:   w,
		store:   store,
		metrics: redstone.NewMetrics(),
		conf:    conf,
		log:     log.With("plot_x", x, "plot_z", z),
	}, nil
}

// Redpiler reports whether the plot currently runs on the compiled
// backend rather than the interpreted rules.
func (p *Plot) Redpiler() bool { return p.backend != nil }

// Metrics returns the plot's redstone backend metrics registry (valid
// whether or not a backend is currently active; RecordCompile is only ever
// called once one exists).
func (p *Plot) Metrics() *redstone.Metrics { return p.metrics }

// StartRedpiler compiles the plot's full bounds into the backend, a no-op
// if already compiled.
func (p *Plot) StartRedpiler() {
	if p.backend != nil {
		return
	}
	min, max := p.World.Bounds()
	g := redstone.Build(p.World, min, max)
	p.backend = redstone.NewBackend(g, p.metrics, p.log)
	p.log.Info("redpiler compiled", "nodes", g.Len())
}

// StopRedpiler writes the compiled backend's state back into the world and
// returns to interpreted ticking, a no-op if not compiled.
func (p *Plot) StopRedpiler() {
	if p.backend == nil {
		return
	}
	p.backend.Reset(p.World, false)
	p.backend = nil
	p.log.Info("redpiler reset")
}

// Tick advances the plot's simulation by exactly one tick, without
// flushing block changes (see TickN, which batches the flush).
func (p *Plot) Tick() {
	if p.backend != nil {
		p.backend.Tick()
		p.backend.Flush(p.World, false)
		return
	}
	for _, e := range p.World.AdvanceTicks() {
		interp.Tick(p.World, e.Pos)
	}
}

// TickN advances the plot n ticks, flushing accumulated block changes once
// at the end rather than after every tick - batching the outbound
// multi-block-change packets the world_send_rate setting throttles.
func (p *Plot) TickN(n int) {
	for i := 0; i < n; i++ {
		p.Tick()
	}
	p.World.FlushBlockChanges()
}

// UseBlock dispatches a player's right-click at pos to whichever backend is
// currently driving the plot.
func (p *Plot) UseBlock(pos cube.Pos) {
	if p.backend != nil {
		p.backend.OnUseBlock(pos)
		return
	}
	interp.OnUse(p.World, pos)
}

// SetPressurePlate updates a pressure plate's powered state, routed to
// whichever backend is active.
func (p *Plot) SetPressurePlate(pos cube.Pos, powered bool) {
	if p.backend != nil {
		p.backend.SetPressurePlate(pos, powered)
		return
	}
	p.World.SetBlock(pos, block.StonePressurePlate{Powered: powered})
	interp.Update(p.World, pos)
}

// isRunningBehind reports whether the last tick batch took longer than its
// share of real time at the configured tps, the trigger auto_redpiler
// watches for.
func (p *Plot) isRunningBehind() bool {
	if p.conf.Tps <= 0 {
		return false
	}
	budget := time.Second / time.Duration(p.conf.Tps)
	return p.lastTickDuration > budget
}

// Update runs however many ticks fit in the elapsed wall-clock time since
// the last call, accumulating any fractional remainder as lag so a plot
// that falls behind catches back up over subsequent calls rather than
// losing ticks outright. A zero or negative configured tps means
// unlimited: the caller's own pacing (see Run) decides how often Update is
// invoked, and every call runs exactly one tick.
func (p *Plot) Update(elapsed time.Duration) {
	var batch int
	if p.conf.Tps <= 0 {
		batch = 1
	} else {
		tickNanos := int64(time.Second) / int64(p.conf.Tps)
		p.lagNanos += elapsed.Nanoseconds()
		batch = int(p.lagNanos / tickNanos)
		p.lagNanos -= int64(batch) * tickNanos
	}
	if batch <= 0 {
		return
	}
	if batch > maxTicksPerBatch {
		p.log.Warn("plot fell behind past the catch-up cap", "wanted", batch, "ran", maxTicksPerBatch)
		batch = maxTicksPerBatch
	}

	start := time.Now()
	p.TickN(batch)
	p.lastTickDuration = time.Since(start) / time.Duration(batch)

	if p.conf.AutoRedpiler && p.backend == nil && p.isRunningBehind() {
		p.StartRedpiler()
	}
}

// Conf returns the plot's current configuration.
func (p *Plot) Conf() plotconf.Config { return p.conf }

// SetTps changes the target ticks per second the running plot's Update loop
// paces itself against, taking effect on the next Update call.
func (p *Plot) SetTps(tps int) { p.conf.Tps = tps }

// SetWorldSendRateMs changes the interval, in milliseconds, at which Run
// wakes to flush block changes. It takes effect the next time Run restarts
// its ticker, since a live time.Ticker's period cannot be changed in place.
func (p *Plot) SetWorldSendRateMs(ms int) { p.conf.WorldSendRateMs = ms }

// Save persists the plot's current state to its store.
func (p *Plot) Save() error { return p.store.Save(p.World) }

// Run drives the plot's tick loop until ctx is cancelled, saving and
// closing the store on the way out. The loop wakes at world_send_rate
// intervals (the cadence at which block changes are flushed to sinks
// regardless of simulation tps) and lets Update decide how many ticks that
// interval is worth.
func (p *Plot) Run(ctx context.Context) error {
	p.log.Info("plot starting", "tps", p.conf.Tps, "auto_redpiler", p.conf.AutoRedpiler)
	defer func() {
		p.StopRedpiler()
		if err := p.Save(); err != nil {
			p.log.Error("save on shutdown failed", "err", err)
		}
		if err := p.store.Close(); err != nil {
			p.log.Error("store close failed", "err", err)
		}
		p.log.Info("plot stopped")
	}()

	sendInterval := time.Duration(p.conf.WorldSendRateMs) * time.Millisecond
	if sendInterval <= 0 {
		sendInterval = 50 * time.Millisecond
	}
	ticker := time.NewTicker(sendInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			p.Update(now.Sub(last))
			last = now
		}
	}
}
