package interp

import (
	"github.com/mchprs-go/mchprs/server/block"
	"github.com/mchprs-go/mchprs/server/block/cube"
	"github.com/mchprs-go/mchprs/server/tick"
)

func connectionOnSide(w block.RedstoneWire, d cube.Direction) block.ConnectionType {
	switch d {
	case cube.North:
		return w.North
	case cube.South:
		return w.South
	case cube.East:
		return w.East
	case cube.West:
		return w.West
	}
	return block.ConnectionNone
}

func withConnection(w block.RedstoneWire, d cube.Direction, c block.ConnectionType) block.RedstoneWire {
	switch d {
	case cube.North:
		w.North = c
	case cube.South:
		w.South = c
	case cube.East:
		w.East = c
	case cube.West:
		w.West = c
	}
	return w
}

// recomputeConnections decides, for each horizontal side, whether wire at
// pos connects as Side (a wire or diode sits beside it, or a wire sits one
// block down past a non-solid side block), Up (it climbs a block on that
// side), or None.
func recomputeConnections(w tick.World, pos cube.Pos, wire block.RedstoneWire) block.RedstoneWire {
	for _, d := range cube.Directions() {
		face := d.Face()
		side := pos.Side(face)
		sideBlock := w.GetBlock(side)

		switch sideBlock.(type) {
		case block.RedstoneWire:
			wire = withConnection(wire, d, block.ConnectionSide)
			continue
		case block.RedstoneRepeater, block.RedstoneComparator:
			wire = withConnection(wire, d, block.ConnectionSide)
			continue
		}

		if !isSolid(sideBlock) {
			below := side.Side(cube.FaceDown)
			if _, ok := w.GetBlock(below).(block.RedstoneWire); ok {
				wire = withConnection(wire, d, block.ConnectionSide)
				continue
			}
		}

		above := side.Side(cube.FaceUp)
		if _, ok := w.GetBlock(above).(block.RedstoneWire); ok && !isSolid(w.GetBlock(pos.Side(cube.FaceUp))) {
			wire = withConnection(wire, d, block.ConnectionUp)
			continue
		}

		wire = withConnection(wire, d, block.ConnectionNone)
	}
	return wire
}

// recomputePower computes wire's power as the strongest signal reachable:
// the maximum over every connected neighbor's (signal - 1) and any strong
// power conducted into pos from above or below.
func recomputePower(w tick.World, pos cube.Pos, wire block.RedstoneWire) uint8 {
	var power uint8
	if p := getRedstonePowerNoDust(w, w.GetBlock(pos.Side(cube.FaceDown)), pos.Side(cube.FaceDown), cube.FaceUp); p > power {
		power = p
	}
	if p := getRedstonePowerNoDust(w, w.GetBlock(pos.Side(cube.FaceUp)), pos.Side(cube.FaceUp), cube.FaceDown); p > power {
		power = p
	}

	for _, d := range cube.Directions() {
		if connectionOnSide(wire, d) == block.ConnectionNone {
			continue
		}
		face := d.Face()
		side := pos.Side(face)
		neighborPower := GetRedstonePower(w, w.GetBlock(side), side, face.Opposite())
		if neighborPower > 0 {
			attenuated := neighborPower - 1
			if attenuated > power {
				power = attenuated
			}
		}
		if nw, ok := w.GetBlock(side).(block.RedstoneWire); ok && nw.Power > 0 {
			if nw.Power-1 > power {
				power = nw.Power - 1
			}
		}
	}
	return power
}

// OnNeighborUpdated recomputes wire's connections and power in response to
// any neighbor change, writing back only if something actually changed.
func OnNeighborUpdated(w tick.World, pos cube.Pos, wire block.RedstoneWire) {
	updated := recomputeConnections(w, pos, wire)
	updated.Power = recomputePower(w, pos, updated)
	if updated != wire {
		w.SetBlock(pos, updated)
	}
}
