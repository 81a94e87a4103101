package interp

import (
	"github.com/mchprs-go/mchprs/server/block"
	"github.com/mchprs-go/mchprs/server/block/cube"
	"github.com/mchprs-go/mchprs/server/tick"
)

func torchShouldBeOff(w tick.World, pos cube.Pos) bool {
	below := pos.Side(cube.FaceDown)
	return getRedstonePowerNoDust(w, w.GetBlock(below), below, cube.FaceUp) > 0
}

func wallTorchShouldBeOff(w tick.World, pos cube.Pos, facing cube.Direction) bool {
	wallFace := facing.Opposite().Face()
	wallPos := pos.Side(wallFace)
	return getRedstonePowerNoDust(w, w.GetBlock(wallPos), wallPos, wallFace) > 0
}

func redstoneLampShouldBeLit(w tick.World, pos cube.Pos) bool {
	for _, face := range cube.Faces() {
		np := pos.Side(face)
		if getRedstonePowerNoDust(w, w.GetBlock(np), np, face) > 0 {
			return true
		}
	}
	return false
}

// diodeInputStrength is the signal a repeater/comparator reads from its
// back (default) input: redstone power, falling back to a directly
// adjacent wire's own stored power when the power query comes back zero
// (a diode reads a bordering wire's value even though the wire doesn't
// "project" power onto its own cell).
func diodeInputStrength(w tick.World, pos cube.Pos, facing cube.Direction) uint8 {
	inputPos := pos.Side(facing.Face())
	inputBlock := w.GetBlock(inputPos)
	power := getRedstonePowerNoDust(w, inputBlock, inputPos, facing.Face())
	if power == 0 {
		if wire, ok := inputBlock.(block.RedstoneWire); ok {
			power = wire.Power
		}
	}
	return power
}

func sideInputStrength(w tick.World, pos cube.Pos, side cube.Direction) uint8 {
	sidePos := pos.Side(side.Face())
	sideBlock := w.GetBlock(sidePos)
	if wire, ok := sideBlock.(block.RedstoneWire); ok {
		return wire.Power
	}
	return getRedstonePowerNoDust(w, sideBlock, sidePos, side.Face())
}

// Update implements the level-triggered "neighbor changed" reaction for a
// redstone-relevant block: it either schedules a delayed tick (diodes,
// torches) or, where vanilla has no delay, writes the new state immediately.
func Update(w tick.World, pos cube.Pos) {
	switch v := w.GetBlock(pos).(type) {
	case block.RedstoneWire:
		OnNeighborUpdated(w, pos, v)
	case block.RedstoneTorch:
		if v.Lit == torchShouldBeOff(w, pos) && !w.PendingTickAt(pos) {
			w.ScheduleTick(pos, 1, tick.Normal)
		}
	case block.RedstoneWallTorch:
		if v.Lit == wallTorchShouldBeOff(w, pos, v.Facing) && !w.PendingTickAt(pos) {
			w.ScheduleTick(pos, 1, tick.Normal)
		}
	case block.RedstoneRepeater:
		updateRepeater(w, pos, v)
	case block.RedstoneComparator:
		updateComparator(w, pos, v)
	case block.RedstoneLamp:
		shouldBeLit := redstoneLampShouldBeLit(w, pos)
		switch {
		case v.Lit && !shouldBeLit:
			w.ScheduleTick(pos, 2, tick.Normal)
		case !v.Lit && shouldBeLit:
			v.Lit = true
			w.SetBlock(pos, v)
		}
	case block.IronTrapdoor:
		shouldBePowered := redstoneLampShouldBeLit(w, pos)
		if v.Powered != shouldBePowered {
			v.Powered = shouldBePowered
			w.SetBlock(pos, v)
		}
	case block.NoteBlock:
		updateNoteBlock(w, pos, v)
	}
}

func updateRepeater(w tick.World, pos cube.Pos, v block.RedstoneRepeater) {
	shouldLock := repeaterShouldLock(w, pos, v)
	if shouldLock != v.Locked {
		v.Locked = shouldLock
		w.SetBlock(pos, v)
		return
	}
	if v.Locked {
		return
	}
	shouldBePowered := diodeInputStrength(w, pos, v.Facing) > 0
	if shouldBePowered != v.Powered && !w.PendingTickAt(pos) {
		priority := tick.High
		if !shouldBePowered && block.IsDiode(w.GetBlock(pos.Side(v.Facing.Face()))) {
			priority = tick.Higher
		}
		w.ScheduleTick(pos, v.Delay, priority)
	}
}

// repeaterShouldLock implements repeater-locking: a powered diode whose
// output points into one of the repeater's two side faces locks it.
func repeaterShouldLock(w tick.World, pos cube.Pos, v block.RedstoneRepeater) bool {
	left := v.Facing.RotateLeft()
	right := v.Facing.RotateRight()
	return diodeLocksFrom(w, pos, left) || diodeLocksFrom(w, pos, right)
}

func diodeLocksFrom(w tick.World, pos cube.Pos, side cube.Direction) bool {
	sidePos := pos.Side(side.Face())
	switch v := w.GetBlock(sidePos).(type) {
	case block.RedstoneRepeater:
		return v.Facing == side && v.Powered
	case block.RedstoneComparator:
		return v.Facing == side && v.Powered
	}
	return false
}

func tickRepeater(w tick.World, pos cube.Pos, v block.RedstoneRepeater) {
	if v.Locked {
		return
	}
	shouldBePowered := diodeInputStrength(w, pos, v.Facing) > 0
	if shouldBePowered != v.Powered {
		v.Powered = shouldBePowered
		w.SetBlock(pos, v)
		updateSurroundingBlocks(w, pos)
	}
}

func updateComparator(w tick.World, pos cube.Pos, v block.RedstoneComparator) {
	newOutput := comparatorOutput(w, pos, v)
	current := uint8(0)
	if be, ok := w.GetBlockEntity(pos); ok {
		if c, ok := be.(block.Comparator); ok {
			current = c.OutputStrength
		}
	}
	if newOutput == current {
		return
	}
	priority := tick.High
	if comparatorFeedsRepeaterSide(w, pos, v) {
		priority = tick.Higher
	}
	if !w.PendingTickAt(pos) {
		w.ScheduleTick(pos, 1, priority)
	}
}

func comparatorFeedsRepeaterSide(w tick.World, pos cube.Pos, v block.RedstoneComparator) bool {
	for _, side := range []cube.Direction{v.Facing.RotateLeft(), v.Facing.RotateRight()} {
		sidePos := pos.Side(side.Face())
		if r, ok := w.GetBlock(sidePos).(block.RedstoneRepeater); ok && r.Facing.Opposite() == side {
			return true
		}
	}
	return false
}

func comparatorOutput(w tick.World, pos cube.Pos, v block.RedstoneComparator) uint8 {
	input := diodeInputStrength(w, pos, v.Facing)
	left := sideInputStrength(w, pos, v.Facing.RotateLeft())
	right := sideInputStrength(w, pos, v.Facing.RotateRight())
	side := left
	if right > side {
		side = right
	}
	return calculateComparatorOutput(v.Mode, input, side)
}

// calculateComparatorOutput computes the comparator's output signal from its
// back input strength and the strongest of its two side inputs.
func calculateComparatorOutput(mode block.ComparatorMode, inputStrength, powerOnSides uint8) uint8 {
	if mode == block.ComparatorSubtract {
		if inputStrength > powerOnSides {
			return inputStrength - powerOnSides
		}
		return 0
	}
	if inputStrength >= powerOnSides {
		return inputStrength
	}
	return 0
}

func tickComparator(w tick.World, pos cube.Pos, v block.RedstoneComparator) {
	newOutput := comparatorOutput(w, pos, v)
	current := uint8(0)
	if be, ok := w.GetBlockEntity(pos); ok {
		if c, ok := be.(block.Comparator); ok {
			current = c.OutputStrength
		}
	}
	if newOutput == current {
		return
	}
	w.SetBlockEntity(pos, block.Comparator{OutputStrength: newOutput})
	v.Powered = newOutput > 0
	w.SetBlock(pos, v)
	updateSurroundingBlocks(w, pos)
}

func tickTorch(w tick.World, pos cube.Pos, v block.RedstoneTorch) {
	shouldBeOff := torchShouldBeOff(w, pos)
	switch {
	case v.Lit && shouldBeOff:
		v.Lit = false
		w.SetBlock(pos, v)
		updateSurroundingBlocks(w, pos)
	case !v.Lit && !shouldBeOff:
		v.Lit = true
		w.SetBlock(pos, v)
		updateSurroundingBlocks(w, pos)
	}
}

func tickWallTorch(w tick.World, pos cube.Pos, v block.RedstoneWallTorch) {
	shouldBeOff := wallTorchShouldBeOff(w, pos, v.Facing)
	switch {
	case v.Lit && shouldBeOff:
		v.Lit = false
		w.SetBlock(pos, v)
		updateSurroundingBlocks(w, pos)
	case !v.Lit && !shouldBeOff:
		v.Lit = true
		w.SetBlock(pos, v)
		updateSurroundingBlocks(w, pos)
	}
}

func tickLamp(w tick.World, pos cube.Pos, v block.RedstoneLamp) {
	if v.Lit && !redstoneLampShouldBeLit(w, pos) {
		v.Lit = false
		w.SetBlock(pos, v)
	}
}

func tickButton(w tick.World, pos cube.Pos, v block.StoneButton) {
	if !v.Powered {
		return
	}
	v.Powered = false
	w.SetBlock(pos, v)
	updateSurroundingBlocks(w, pos)
	updateButtonMountNeighbor(w, pos, v)
}

func updateButtonMountNeighbor(w tick.World, pos cube.Pos, v block.StoneButton) {
	switch v.Face {
	case block.MountCeiling:
		updateSurroundingBlocks(w, pos.Side(cube.FaceUp))
	case block.MountFloor:
		updateSurroundingBlocks(w, pos.Side(cube.FaceDown))
	case block.MountWall:
		updateSurroundingBlocks(w, pos.Side(v.Facing.Opposite().Face()))
	}
}

// Tick executes a previously scheduled delayed tick for the block at pos.
func Tick(w tick.World, pos cube.Pos) {
	switch v := w.GetBlock(pos).(type) {
	case block.RedstoneRepeater:
		tickRepeater(w, pos, v)
	case block.RedstoneComparator:
		tickComparator(w, pos, v)
	case block.RedstoneTorch:
		tickTorch(w, pos, v)
	case block.RedstoneWallTorch:
		tickWallTorch(w, pos, v)
	case block.RedstoneLamp:
		tickLamp(w, pos, v)
	case block.StoneButton:
		tickButton(w, pos, v)
	case block.Observer:
		tickObserver(w, pos, v)
	}
}

// updateWireNeighbors reacts every immediate neighbor of pos plus their
// own neighbors - the wider blast radius a wire's own state change needs,
// since two wires apart can still be load-bearing for diode locking.
func updateWireNeighbors(w tick.World, pos cube.Pos) {
	for _, face := range cube.Faces() {
		np := pos.Side(face)
		Update(w, np)
		for _, nf := range cube.Faces() {
			nnp := np.Side(nf)
			Update(w, nnp)
		}
	}
}

// updateSurroundingBlocks reacts every immediate neighbor of pos, plus the
// block directly above and below each neighbor (the diagonal blocks a
// vertical wire climb or a repeater mounted one block up/down might need).
func updateSurroundingBlocks(w tick.World, pos cube.Pos) {
	for _, face := range cube.Faces() {
		np := pos.Side(face)
		Update(w, np)
		Update(w, np.Side(cube.FaceUp))
		Update(w, np.Side(cube.FaceDown))
	}
}

// TriggerObserver reacts to a block-id change in an observer's facing
// direction by scheduling its one-tick pulse, mirroring the compiled
// backend's OnObserveTrigger for the interpreted path.
func TriggerObserver(w tick.World, pos cube.Pos) {
	v, ok := w.GetBlock(pos).(block.Observer)
	if !ok || v.Powered || w.PendingTickAt(pos) {
		return
	}
	w.ScheduleTick(pos, 1, tick.Normal)
}

func tickObserver(w tick.World, pos cube.Pos, v block.Observer) {
	if v.Powered {
		v.Powered = false
		w.SetBlock(pos, v)
		return
	}
	v.Powered = true
	w.SetBlock(pos, v)
	w.ScheduleTick(pos, 1, tick.Normal)
	updateSurroundingBlocks(w, pos)
}

// OnUse implements a direct player interaction with a redstone component
// (right-click): repeaters cycle delay, comparators toggle mode, levers and
// buttons flip, wire dots/crosses toggle shape, note blocks cycle pitch. It
// reports whether the interaction was handled.
func OnUse(w tick.World, pos cube.Pos) bool {
	switch v := w.GetBlock(pos).(type) {
	case block.RedstoneRepeater:
		v.Delay++
		if v.Delay > 4 {
			v.Delay -= 4
		}
		w.SetBlock(pos, v)
		return true
	case block.RedstoneComparator:
		v.Mode = v.Mode.Toggle()
		w.SetBlock(pos, v)
		tickComparator(w, pos, v)
		return true
	case block.Lever:
		v.Powered = !v.Powered
		w.SetBlock(pos, v)
		updateSurroundingBlocks(w, pos)
		updateLeverMountNeighbor(w, pos, v)
		return true
	case block.StoneButton:
		if v.Powered {
			return true
		}
		v.Powered = true
		w.SetBlock(pos, v)
		w.ScheduleTick(pos, 10, tick.Normal)
		updateSurroundingBlocks(w, pos)
		updateButtonMountNeighbor(w, pos, v)
		return true
	case block.RedstoneWire:
		return toggleWireShape(w, pos, v)
	case block.NoteBlock:
		v.Note = (v.Note + 1) % 25
		instrument := noteBlockInstrument(w, pos)
		v.Instrument = instrument
		w.SetBlock(pos, v)
		if noteBlockUnblocked(w, pos) {
			PlayNote(w, pos, instrument, v.Note)
		}
		return true
	}
	return false
}

func updateLeverMountNeighbor(w tick.World, pos cube.Pos, v block.Lever) {
	switch v.Face {
	case block.MountCeiling:
		updateSurroundingBlocks(w, pos.Side(cube.FaceUp))
	case block.MountFloor:
		updateSurroundingBlocks(w, pos.Side(cube.FaceDown))
	case block.MountWall:
		updateSurroundingBlocks(w, pos.Side(v.Facing.Opposite().Face()))
	}
}

// toggleWireShape cycles a wire between its "dot" (all-none) and "cross"
// (all-side) shapes when a player right-clicks it directly, the same
// escape hatch vanilla gives players to force a particular visual shape.
func toggleWireShape(w tick.World, pos cube.Pos, v block.RedstoneWire) bool {
	if !isWireDot(v) && !isWireCross(v) {
		return false
	}
	var next block.RedstoneWire
	if isWireCross(v) {
		next = block.RedstoneWire{}
	} else {
		next = crossWire()
	}
	next.Power = v.Power
	next = recomputeConnections(w, pos, next)
	if next == v {
		return false
	}
	w.SetBlock(pos, next)
	updateWireNeighbors(w, pos)
	return true
}

func isWireDot(v block.RedstoneWire) bool {
	return v.North == block.ConnectionNone && v.South == block.ConnectionNone &&
		v.East == block.ConnectionNone && v.West == block.ConnectionNone
}

func isWireCross(v block.RedstoneWire) bool {
	return v.North == block.ConnectionSide && v.South == block.ConnectionSide &&
		v.East == block.ConnectionSide && v.West == block.ConnectionSide
}

func crossWire() block.RedstoneWire {
	return block.RedstoneWire{
		North: block.ConnectionSide,
		South: block.ConnectionSide,
		East:  block.ConnectionSide,
		West:  block.ConnectionSide,
	}
}
