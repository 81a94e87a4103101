package worldedit

import (
	"github.com/mchprs-go/mchprs/server/block"
	"github.com/mchprs-go/mchprs/server/block/cube"
	"github.com/mchprs-go/mchprs/server/tick"
)

// Clipboard is a captured rectangular region of blocks and block entities,
// stored relative to its own (0, 0, 0) corner. OffsetX/Y/Z records how far
// the clipboard's origin corner sits from the position it was captured
// relative to (the first selection corner marked, by convention), so a
// later paste can reproduce the same relative placement a player would
// expect from //copy followed by //paste.
type Clipboard struct {
	OffsetX, OffsetY, OffsetZ int
	SizeX, SizeY, SizeZ       int

	blocks        []uint32
	blockEntities map[cube.Pos]block.Entity
}

// NewClipboard allocates an empty clipboard of the given size, filled with
// air.
func NewClipboard(sx, sy, sz int) *Clipboard {
	return &Clipboard{
		SizeX: sx, SizeY: sy, SizeZ: sz,
		blocks:        make([]uint32, sx*sy*sz),
		blockEntities: make(map[cube.Pos]block.Entity),
	}
}

func (c *Clipboard) index(x, y, z int) int {
	return y*c.SizeZ*c.SizeX + z*c.SizeX + x
}

// Get returns the raw block id stored at local coordinates (x, y, z).
func (c *Clipboard) Get(x, y, z int) uint32 { return c.blocks[c.index(x, y, z)] }

// Set stores id at local coordinates (x, y, z).
func (c *Clipboard) Set(x, y, z int, id uint32) { c.blocks[c.index(x, y, z)] = id }

// BlockEntity returns the block entity at local coordinates, if any.
func (c *Clipboard) BlockEntity(x, y, z int) (block.Entity, bool) {
	be, ok := c.blockEntities[cube.Pos{x, y, z}]
	return be, ok
}

// SetBlockEntity installs a block entity at local coordinates.
func (c *Clipboard) SetBlockEntity(x, y, z int, be block.Entity) {
	c.blockEntities[cube.Pos{x, y, z}] = be
}

// boundsAt returns the world-space AABB this clipboard occupies if pasted
// with its origin at pos.
func (c *Clipboard) boundsAt(pos cube.Pos) (max cube.Pos) {
	return cube.Pos{pos.X() + c.SizeX - 1, pos.Y() + c.SizeY - 1, pos.Z() + c.SizeZ - 1}
}

// BoundsAt is boundsAt exported for callers outside the package, e.g. a
// //paste command capturing an undo snapshot before it writes the clipboard
// into the world.
func (c *Clipboard) BoundsAt(pos cube.Pos) (max cube.Pos) { return c.boundsAt(pos) }

// Capture copies the raw blocks and block entities in [min, max] out of w
// into a fresh Clipboard, with origin set to min. The clipboard's offset is
// recorded relative to origin, so capturing with origin == min yields a
// zero offset; CaptureRelative lets a caller anchor the offset elsewhere
// (e.g. a player's own position) to match WorldEdit's //copy semantics.
func Capture(w tick.World, min, max cube.Pos) *Clipboard {
	return CaptureRelative(w, min, max, min)
}

// CaptureRelative behaves like Capture but records the clipboard's offset
// as origin - min, so a later PasteIgnoringAir at a target position
// reproduces the same relative placement origin had to min at capture time.
func CaptureRelative(w tick.World, min, max, origin cube.Pos) *Clipboard {
	sx := max.X() - min.X() + 1
	sy := max.Y() - min.Y() + 1
	sz := max.Z() - min.Z() + 1
	c := NewClipboard(sx, sy, sz)
	c.OffsetX = origin.X() - min.X()
	c.OffsetY = origin.Y() - min.Y()
	c.OffsetZ = origin.Z() - min.Z()

	for x := 0; x < sx; x++ {
		for y := 0; y < sy; y++ {
			for z := 0; z < sz; z++ {
				pos := cube.Pos{min.X() + x, min.Y() + y, min.Z() + z}
				c.Set(x, y, z, w.GetBlockRaw(pos))
				if be, ok := w.GetBlockEntity(pos); ok {
					c.SetBlockEntity(x, y, z, be)
				}
			}
		}
	}
	return c
}

// Paste writes c into w with its origin corner at pos, honoring the
// recorded offset, skipping air cells when ignoreAir is set, and returns
// the number of blocks actually changed.
func Paste(w tick.World, c *Clipboard, pos cube.Pos, ignoreAir bool) int {
	return PasteIgnoringAir(w, c, pos, ignoreAir)
}

// PasteIgnoringAir is Paste's implementation, named separately so undo/redo
// (which always wants every cell restored, air included) can call it
// directly without the ignoreAir naming reading oddly at the call site.
func PasteIgnoringAir(w tick.World, c *Clipboard, pos cube.Pos, ignoreAir bool) int {
	origin := cube.Pos{pos.X() - c.OffsetX, pos.Y() - c.OffsetY, pos.Z() - c.OffsetZ}
	changed := 0
	for x := 0; x < c.SizeX; x++ {
		for y := 0; y < c.SizeY; y++ {
			for z := 0; z < c.SizeZ; z++ {
				id := c.Get(x, y, z)
				if ignoreAir && id == block.ID(block.Air{}) {
					continue
				}
				p := cube.Pos{origin.X() + x, origin.Y() + y, origin.Z() + z}
				if w.SetBlockRaw(p, id) {
					changed++
				}
				if be, ok := c.BlockEntity(x, y, z); ok {
					w.SetBlockEntity(p, be)
				} else {
					w.DeleteBlockEntity(p)
				}
			}
		}
	}
	return changed
}
