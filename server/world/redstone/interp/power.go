// Package interp implements the interpreted (non-compiled) baseline for
// vanilla 1-tick redstone: a set of pure functions over the tick.World
// contract, used whenever a region hasn't (or can't) be compiled into the
// redstone package's graph backend. It favors accuracy over speed, exactly
// mirroring the role the reference implementation gives its non-accelerated
// simulation path.
package interp

import (
	"github.com/mchprs-go/mchprs/server/block"
	"github.com/mchprs-go/mchprs/server/block/cube"
	"github.com/mchprs-go/mchprs/server/tick"
)

// BoolToSS converts a boolean into vanilla's two-value signal strength.
func BoolToSS(b bool) uint8 {
	if b {
		return 15
	}
	return 0
}

// getWeakPower returns the power b supplies to a neighbor standing on the
// given side of pos, not counting power routed through solid block
// conduction (that is getStrongPower's job).
func getWeakPower(w tick.World, b block.Block, pos cube.Pos, side cube.Face, dustPower bool) uint8 {
	switch v := b.(type) {
	case block.RedstoneTorch:
		if v.Lit && side != cube.FaceUp {
			return 15
		}
	case block.RedstoneWallTorch:
		if v.Lit && v.Facing.Face() != side {
			return 15
		}
	case block.RedstoneBlock:
		return 15
	case block.StonePressurePlate:
		if v.Powered {
			return 15
		}
	case block.Lever:
		if v.Powered {
			return 15
		}
	case block.StoneButton:
		if v.Powered {
			return 15
		}
	case block.RedstoneRepeater:
		if v.Facing.Face() == side && v.Powered {
			return 15
		}
	case block.RedstoneComparator:
		if v.Facing.Face() == side {
			if be, ok := w.GetBlockEntity(pos); ok {
				if c, ok := be.(block.Comparator); ok {
					return c.OutputStrength
				}
			}
		}
	case block.RedstoneWire:
		if dustPower {
			return wireSidePower(w, pos, v, side)
		}
	}
	return 0
}

// wireSidePower implements the "does this side of the wire actually route
// power to the querying neighbor" check: up always sees the wire's own
// power, down never does, and horizontal sides only see it if that side is
// still connected.
func wireSidePower(w tick.World, pos cube.Pos, wire block.RedstoneWire, side cube.Face) uint8 {
	switch side {
	case cube.FaceUp:
		return wire.Power
	case cube.FaceDown:
		return 0
	default:
		if connectionOnSide(wire, side.Opposite().Direction()) == block.ConnectionNone {
			return 0
		}
		return wire.Power
	}
}

// getStrongPower returns the power b supplies into the solid block standing
// on the given side of pos (i.e. power that continues to conduct through
// that block), as opposed to getWeakPower's direct neighbor-only power.
func getStrongPower(w tick.World, b block.Block, pos cube.Pos, side cube.Face, dustPower bool) uint8 {
	switch v := b.(type) {
	case block.RedstoneTorch:
		if v.Lit && side == cube.FaceDown {
			return 15
		}
		return 0
	case block.RedstoneWallTorch:
		if v.Lit && side == cube.FaceDown {
			return 15
		}
		return 0
	case block.Lever:
		return BoolToSS(v.Powered && leverFacesSide(v, side))
	case block.StoneButton:
		return BoolToSS(v.Powered && buttonFacesSide(v, side))
	case block.StonePressurePlate:
		if v.Powered && side == cube.FaceUp {
			return 15
		}
		return 0
	case block.RedstoneWire, block.RedstoneRepeater, block.RedstoneComparator:
		return getWeakPower(w, b, pos, side, dustPower)
	}
	return 0
}

func leverFacesSide(v block.Lever, side cube.Face) bool {
	switch side {
	case cube.FaceUp:
		return v.Face == block.MountFloor
	case cube.FaceDown:
		return v.Face == block.MountCeiling
	default:
		return v.Face == block.MountWall && v.Facing.Face() == side
	}
}

func buttonFacesSide(v block.StoneButton, side cube.Face) bool {
	switch side {
	case cube.FaceUp:
		return v.Face == block.MountFloor
	case cube.FaceDown:
		return v.Face == block.MountCeiling
	default:
		return v.Face == block.MountWall && v.Facing.Face() == side
	}
}

// getMaxStrongPower returns the strongest strong power delivered into pos
// from any of its six neighbors.
func getMaxStrongPower(w tick.World, pos cube.Pos, dustPower bool) uint8 {
	var max uint8
	for _, face := range cube.Faces() {
		np := pos.Side(face)
		if p := getStrongPower(w, w.GetBlock(np), np, face.Opposite(), dustPower); p > max {
			max = p
		}
	}
	return max
}

// GetRedstonePower returns the power a solid pos receives (via strong power
// conduction through every neighbor) or, for a non-solid block, the direct
// weak power b itself supplies toward facing.
func GetRedstonePower(w tick.World, b block.Block, pos cube.Pos, facing cube.Face) uint8 {
	if isSolid(b) {
		return getMaxStrongPower(w, pos, true)
	}
	return getWeakPower(w, b, pos, facing, true)
}

func getRedstonePowerNoDust(w tick.World, b block.Block, pos cube.Pos, facing cube.Face) uint8 {
	if isSolid(b) {
		return getMaxStrongPower(w, pos, false)
	}
	return getWeakPower(w, b, pos, facing, false)
}

func isSolid(b block.Block) bool {
	if s, ok := b.(block.Simple); ok {
		return s.Solid()
	}
	switch b.(type) {
	case block.Air, block.RedstoneWire, block.RedstoneTorch, block.RedstoneWallTorch,
		block.Lever, block.StoneButton, block.StonePressurePlate, block.RedstoneRepeater,
		block.RedstoneComparator, block.NoteBlock, block.RedstoneBlock:
		return false
	}
	return true
}
