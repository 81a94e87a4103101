package block

import "github.com/mchprs-go/mchprs/server/block/cube"

// Axis names one of the three world axes, used by Flip.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Rotate returns b rotated turns*90 degrees clockwise about the vertical
// axis (seen from above), matching WorldEdit's /rotate. Blocks with no
// horizontal facing are returned unchanged.
func Rotate(b Block, turns int) Block {
	turns = ((turns % 4) + 4) % 4
	switch v := b.(type) {
	case RedstoneWallTorch:
		v.Facing = rotateDir(v.Facing, turns)
		return v
	case RedstoneRepeater:
		v.Facing = rotateDir(v.Facing, turns)
		return v
	case RedstoneComparator:
		v.Facing = rotateDir(v.Facing, turns)
		return v
	case Lever:
		v.Facing = rotateDir(v.Facing, turns)
		return v
	case StoneButton:
		v.Facing = rotateDir(v.Facing, turns)
		return v
	case IronTrapdoor:
		v.Facing = rotateDir(v.Facing, turns)
		return v
	case Observer:
		if v.Facing.Horizontal() {
			v.Facing = rotateDir(v.Facing.Direction(), turns).Face()
		}
		return v
	default:
		return b
	}
}

func rotateDir(d cube.Direction, turns int) cube.Direction {
	for ; turns > 0; turns-- {
		d = d.RotateRight()
	}
	return d
}

// Flip mirrors b's facing across axis, matching WorldEdit's //flip.
// Flipping along the vertical axis returns b unchanged: an observer facing
// up or down, a lever or button mounted on the floor or ceiling, and an
// iron trapdoor's top/bottom half are not mirrored.
func Flip(b Block, axis Axis) Block {
	if axis == AxisY {
		return b
	}
	switch v := b.(type) {
	case RedstoneWallTorch:
		v.Facing = flipDir(v.Facing, axis)
		return v
	case RedstoneRepeater:
		v.Facing = flipDir(v.Facing, axis)
		return v
	case RedstoneComparator:
		v.Facing = flipDir(v.Facing, axis)
		return v
	case Lever:
		v.Facing = flipDir(v.Facing, axis)
		return v
	case StoneButton:
		v.Facing = flipDir(v.Facing, axis)
		return v
	case IronTrapdoor:
		v.Facing = flipDir(v.Facing, axis)
		return v
	case Observer:
		if v.Facing.Horizontal() {
			v.Facing = flipDir(v.Facing.Direction(), axis).Face()
		}
		return v
	default:
		return b
	}
}

func flipDir(d cube.Direction, axis Axis) cube.Direction {
	switch axis {
	case AxisX: // mirrors across a plane perpendicular to X: east/west swap
		if d == cube.East || d == cube.West {
			return d.Opposite()
		}
	case AxisZ: // mirrors across a plane perpendicular to Z: north/south swap
		if d == cube.North || d == cube.South {
			return d.Opposite()
		}
	}
	return d
}
