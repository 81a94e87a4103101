package block

// Simple is a block with no state beyond its identity: the common case for
// the large majority of vanilla blocks that redstone logic only ever needs
// to query for solidity/transparency, never to simulate. Each entry in
// simpleNames below gets its own single-state id via init.
type Simple struct {
	name string
}

func (s Simple) ID() uint32   { return simpleIDs[s.name] }
func (s Simple) Name() string { return s.name }

// Solid reports whether the block occupies its full voxel for the purposes
// of strong-power delivery and wire-above support.
func (s Simple) Solid() bool {
	switch s.name {
	case "air", "glass", "water", "lava", "torch", "tall_grass", "snow_layer":
		return false
	default:
		return true
	}
}

const simpleBase = 1

// simpleNames enumerates every plain block the world model recognises by
// name. Order is fixed at init time and determines each block's id; it must
// never be reordered once persisted plots rely on it.
var simpleNames = []string{
	"stone", "granite", "diorite", "andesite", "deepslate",
	"dirt", "grass_block", "podzol", "coarse_dirt", "mycelium",
	"sand", "red_sand", "gravel", "clay",
	"cobblestone", "mossy_cobblestone", "bedrock",
	"oak_planks", "spruce_planks", "birch_planks", "dark_oak_planks",
	"oak_log", "spruce_log", "birch_log", "oak_leaves",
	"glass", "glass_pane", "white_stainless_glass",
	"glowstone", "sea_lantern", "jack_o_lantern",
	"quartz_block", "smooth_stone", "sandstone", "red_sandstone",
	"white_wool", "orange_wool", "black_wool", "red_wool",
	"white_concrete", "gray_concrete", "black_concrete",
	"obsidian", "netherrack", "soul_sand", "soul_soil",
	"water", "lava", "ice", "packed_ice",
	"piston", "sticky_piston", "piston_head", "slime_block", "honey_block",
	"target", "tnt", "hopper", "dropper", "dispenser",
	"crafting_table", "furnace", "barrel", "chest", "ender_chest",
	"iron_block", "gold_block", "diamond_block", "emerald_block",
	"snow_layer", "tall_grass", "fern", "dead_bush",
	"barrier", "structure_void", "end_portal_frame", "bookshelf",
}

var simpleIDs = map[string]uint32{}

func init() {
	for i, name := range simpleNames {
		simpleIDs[name] = simpleBase + uint32(i)
	}
	register(kind{
		name: "simple", base: simpleBase, count: uint32(len(simpleNames)),
		matches: func(b Block) bool { _, ok := b.(Simple); return ok },
		encode:  func(b Block) uint32 { return simpleIDs[b.(Simple).name] - simpleBase },
		decode:  func(idx uint32) Block { return Simple{name: simpleNames[idx]} },
	})
}

// NewSimple returns the Simple block for name, or Unknown if name is not
// recognised.
func NewSimple(name string) Block {
	if _, ok := simpleIDs[name]; ok {
		return Simple{name: name}
	}
	return Unknown{RawID: 0}
}
