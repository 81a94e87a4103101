package worldedit

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/mchprs-go/mchprs/server/block"
)

// Rotate returns a new clipboard with c's contents rotated degrees
// clockwise about the vertical axis (seen from above). degrees must be a
// multiple of 90; any other value is a usage error a command handler
// should report back to its caller rather than silently round.
func Rotate(c *Clipboard, degrees int) (*Clipboard, error) {
	degrees = ((degrees % 360) + 360) % 360
	if degrees%90 != 0 {
		return nil, fmt.Errorf("worldedit: rotate amount must be a multiple of 90, got %d", degrees)
	}
	turns := degrees / 90
	if turns == 0 {
		return c, nil
	}

	sx, sz := c.SizeX, c.SizeZ
	if turns%2 != 0 {
		sx, sz = sz, sx
	}
	out := NewClipboard(sx, c.SizeY, sz)

	rot := mgl64.Rotate3DY(-float64(degrees) * math.Pi / 180)
	for x := 0; x < c.SizeX; x++ {
		for y := 0; y < c.SizeY; y++ {
			for z := 0; z < c.SizeZ; z++ {
				rx, rz := rotatedCell(rot, c.SizeX, c.SizeZ, x, z)
				out.Set(rx, y, rz, block.ID(block.Rotate(block.FromID(c.Get(x, y, z)), turns)))
				if be, ok := c.BlockEntity(x, y, z); ok {
					out.SetBlockEntity(rx, y, rz, be)
				}
			}
		}
	}
	out.OffsetX, out.OffsetY, out.OffsetZ = rotateOffset(rot, c.SizeX, c.SizeZ, c.OffsetX, c.OffsetZ, c.OffsetY)
	return out, nil
}

// rotatedCell maps a source cell's (x, z) local coordinate through rot,
// centered on the clipboard's footprint, landing back on an integer grid
// cell since every supported rotation is an exact multiple of 90 degrees.
func rotatedCell(rot mgl64.Mat3, sx, sz, x, z int) (int, int) {
	v := rot.Mul3x1(mgl64.Vec3{float64(x), 0, float64(z)})
	minX, minZ := math.Inf(1), math.Inf(1)
	for _, corner := range [][2]int{{0, 0}, {sx - 1, 0}, {0, sz - 1}, {sx - 1, sz - 1}} {
		cv := rot.Mul3x1(mgl64.Vec3{float64(corner[0]), 0, float64(corner[1])})
		minX, minZ = math.Min(minX, cv[0]), math.Min(minZ, cv[2])
	}
	return int(math.Round(v[0] - minX)), int(math.Round(v[2] - minZ))
}

func rotateOffset(rot mgl64.Mat3, sx, sz, offX, offZ, offY int) (int, int, int) {
	rx, rz := rotatedCell(rot, sx, sz, offX, offZ)
	return rx, offY, rz
}

// Flip returns a new clipboard mirrored across the given axis.
func Flip(c *Clipboard, axis block.Axis) *Clipboard {
	out := NewClipboard(c.SizeX, c.SizeY, c.SizeZ)
	for x := 0; x < c.SizeX; x++ {
		for y := 0; y < c.SizeY; y++ {
			for z := 0; z < c.SizeZ; z++ {
				fx, fy, fz := flipCell(axis, c.SizeX, c.SizeY, c.SizeZ, x, y, z)
				out.Set(fx, fy, fz, block.ID(block.Flip(block.FromID(c.Get(x, y, z)), axis)))
				if be, ok := c.BlockEntity(x, y, z); ok {
					out.SetBlockEntity(fx, fy, fz, be)
				}
			}
		}
	}
	out.OffsetX, out.OffsetY, out.OffsetZ = flipCell(axis, c.SizeX, c.SizeY, c.SizeZ, c.OffsetX, c.OffsetY, c.OffsetZ)
	return out
}

func flipCell(axis block.Axis, sx, sy, sz, x, y, z int) (int, int, int) {
	switch axis {
	case block.AxisX:
		return sx - 1 - x, y, z
	case block.AxisY:
		return x, sy - 1 - y, z
	case block.AxisZ:
		return x, y, sz - 1 - z
	default:
		return x, y, z
	}
}
