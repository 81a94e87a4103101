// Package tick defines the scheduling vocabulary and the World contract
// shared by the interpreted redstone rules and the compiled backend. It
// sits below server/world on purpose: the plot world depends on it, the
// redstone interpreter and backend depend on it, and neither of the latter
// two needs to know about the plot world's concrete storage.
package tick

import (
	"github.com/mchprs-go/mchprs/server/block"
	"github.com/mchprs-go/mchprs/server/block/cube"
)

// Priority orders ticks that fire within the same tick bucket. Lower values
// fire first: Highest, then Higher, then High, then Normal.
type Priority uint8

const (
	Highest Priority = iota
	Higher
	High
	Normal
)

func (p Priority) String() string {
	switch p {
	case Highest:
		return "highest"
	case Higher:
		return "higher"
	case High:
		return "high"
	case Normal:
		return "normal"
	default:
		return "unknown"
	}
}

// Priorities lists every Priority in firing order.
var Priorities = [...]Priority{Highest, Higher, High, Normal}

// Entry is a scheduled, delayed block update.
type Entry struct {
	Pos       cube.Pos
	TicksLeft int
	Priority  Priority
}

// World is the contract the interpreted rules and the compiled backend both
// program against, so neither needs the plot world's concrete type.
type World interface {
	GetBlockRaw(pos cube.Pos) uint32
	SetBlockRaw(pos cube.Pos, id uint32) bool

	GetBlock(pos cube.Pos) block.Block
	SetBlock(pos cube.Pos, b block.Block)

	GetBlockEntity(pos cube.Pos) (block.Entity, bool)
	SetBlockEntity(pos cube.Pos, be block.Entity)
	DeleteBlockEntity(pos cube.Pos)

	ScheduleTick(pos cube.Pos, delay int, priority Priority)
	PendingTickAt(pos cube.Pos) bool

	PlaySound(pos cube.Pos, id string, category string, volume, pitch float32)
}
