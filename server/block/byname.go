package block

import "github.com/mchprs-go/mchprs/server/block/cube"

// byName returns the default (zero-property) state for every block variant
// this package models by its plain Name(), for parsing WorldEdit patterns
// ("//set stone") and Sponge schematic palettes, both of which
// address blocks by name rather than numeric id.
var byName = map[string]func() Block{
	"air":                 func() Block { return Air{} },
	"redstone_block":      func() Block { return RedstoneBlock{} },
	"redstone_wire":       func() Block { return RedstoneWire{} },
	"redstone_torch":      func() Block { return RedstoneTorch{Lit: true} },
	"redstone_wall_torch": func() Block { return RedstoneWallTorch{Lit: true, Facing: cube.North} },
	"redstone_repeater":   func() Block { return RedstoneRepeater{Delay: 1, Facing: cube.North} },
	"redstone_comparator": func() Block { return RedstoneComparator{Facing: cube.North} },
	"lever":               func() Block { return Lever{Facing: cube.North} },
	"stone_button":        func() Block { return StoneButton{Facing: cube.North} },
	"stone_pressure_plate": func() Block { return StonePressurePlate{} },
	"redstone_lamp":       func() Block { return RedstoneLamp{} },
	"iron_trapdoor":       func() Block { return IronTrapdoor{Facing: cube.North} },
	"observer":            func() Block { return Observer{Facing: cube.FaceNorth} },
	"note_block":          func() Block { return NoteBlock{} },
}

// FromName returns the default state of the block variant named name, or
// ok=false if name is not recognised. Simple (stateless) blocks are
// resolved through NewSimple.
func FromName(name string) (Block, bool) {
	if ctor, ok := byName[name]; ok {
		return ctor(), true
	}
	if _, ok := simpleIDs[name]; ok {
		return NewSimple(name), true
	}
	return nil, false
}
