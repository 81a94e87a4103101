package interp

import (
	"math"

	"github.com/mchprs-go/mchprs/server/block"
	"github.com/mchprs-go/mchprs/server/block/cube"
	"github.com/mchprs-go/mchprs/server/tick"
)

// instrumentByBelowName maps the block a note block rests on to the
// instrument it plays, mirroring vanilla's below-block lookup table.
var instrumentByBelowName = map[string]block.Instrument{
	"gold_block":      block.InstrumentBell,
	"clay":            block.InstrumentFlute,
	"packed_ice":      block.InstrumentChime,
	"white_wool":      block.InstrumentGuitar,
	"orange_wool":     block.InstrumentGuitar,
	"black_wool":      block.InstrumentGuitar,
	"red_wool":        block.InstrumentGuitar,
	"gravel":          block.InstrumentSnare,
	"soul_sand":       block.InstrumentDidgeridoo,
	"soul_soil":       block.InstrumentDidgeridoo,
	"iron_block":      block.InstrumentIronXylophone,
	"emerald_block":   block.InstrumentBit,
	"glowstone":       block.InstrumentPling,
	"oak_planks":      block.InstrumentBass,
	"spruce_planks":   block.InstrumentBass,
	"birch_planks":    block.InstrumentBass,
	"dark_oak_planks": block.InstrumentBass,
}

// noteBlockInstrument derives the instrument from the block directly below
// pos; anything not in the lookup table defaults to harp, vanilla's
// catch-all for stone-like and otherwise unlisted blocks.
func noteBlockInstrument(w tick.World, pos cube.Pos) block.Instrument {
	below := w.GetBlock(pos.Side(cube.FaceDown))
	if s, ok := below.(block.Simple); ok {
		if inst, ok := instrumentByBelowName[s.Name()]; ok {
			return inst
		}
	}
	return block.InstrumentHarp
}

// noteBlockUnblocked reports whether the block immediately above pos leaves
// enough room for the note to actually sound.
func noteBlockUnblocked(w tick.World, pos cube.Pos) bool {
	return !isSolid(w.GetBlock(pos.Side(cube.FaceUp)))
}

func updateNoteBlock(w tick.World, pos cube.Pos, v block.NoteBlock) {
	shouldBePowered := redstoneLampShouldBeLit(w, pos)
	if v.Powered == shouldBePowered {
		return
	}
	instrument := v.Instrument
	if shouldBePowered {
		instrument = noteBlockInstrument(w, pos)
		if noteBlockUnblocked(w, pos) {
			PlayNote(w, pos, instrument, v.Note)
		}
	}
	v.Instrument = instrument
	v.Powered = shouldBePowered
	w.SetBlock(pos, v)
}

// PlayNote emits the note block's sound event into the world's sink. Pitch
// follows vanilla's equal-temperament mapping: two octaves of 12 semitones
// each, centered so note 12 is the unshifted pitch 1.0.
func PlayNote(w tick.World, pos cube.Pos, instrument block.Instrument, note uint8) {
	w.PlaySound(pos, instrumentSoundID(instrument), "record", 3.0, noteBlockPitch(note))
}

func noteBlockPitch(note uint8) float32 {
	return float32(math.Pow(2, (float64(note)-12.0)/12.0))
}

func instrumentSoundID(i block.Instrument) string {
	switch i {
	case block.InstrumentHarp:
		return "block.note_block.harp"
	case block.InstrumentBass:
		return "block.note_block.bass"
	case block.InstrumentBassDrum:
		return "block.note_block.basedrum"
	case block.InstrumentSnare:
		return "block.note_block.snare"
	case block.InstrumentHat:
		return "block.note_block.hat"
	case block.InstrumentGuitar:
		return "block.note_block.guitar"
	case block.InstrumentFlute:
		return "block.note_block.flute"
	case block.InstrumentBell:
		return "block.note_block.bell"
	case block.InstrumentChime:
		return "block.note_block.chime"
	case block.InstrumentXylophone:
		return "block.note_block.xylophone"
	case block.InstrumentIronXylophone:
		return "block.note_block.iron_xylophone"
	case block.InstrumentCowBell:
		return "block.note_block.cow_bell"
	case block.InstrumentDidgeridoo:
		return "block.note_block.didgeridoo"
	case block.InstrumentBit:
		return "block.note_block.bit"
	case block.InstrumentBanjo:
		return "block.note_block.banjo"
	case block.InstrumentPling:
		return "block.note_block.pling"
	default:
		return "block.note_block.harp"
	}
}
