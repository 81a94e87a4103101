// Package chunk implements the paletted bit buffer and chunk section layout
// shared by the redstone world and the WorldEdit clipboard. The buffer's bit
// layout intentionally mirrors the on-wire chunk section container so that a
// flushed section can, in principle, be emitted to a packet sink without a
// re-pack: entries are packed low-to-high inside each 64-bit word and an
// entry never straddles two words.
package chunk

// maxPaletteBPE is the largest bits-per-entry at which a PalettedBuffer
// still indexes through a palette rather than storing raw ids directly.
const maxPaletteBPE = 8

// directBPE is the bits-per-entry used once a buffer's palette would
// overflow maxPaletteBPE: ids are stored directly, 15 bits per entry, with
// no palette indirection.
const directBPE = 15

// PalettedBuffer is a fixed-capacity packed array of N entries, each
// storing an arbitrary-width unsigned value via either a palette-indexed or
// direct encoding.
type PalettedBuffer struct {
	entries int

	bitsPerEntry int
	usePalette   bool

	palette      []uint32
	paletteIndex map[uint32]int

	longs []uint64
}

// NewPalettedBuffer returns a buffer of the given entry count. initialBPE
// chooses the starting width; 0 means every entry starts at a single shared
// value (0), growing lazily as distinct values are written.
func NewPalettedBuffer(entries, initialBPE int) *PalettedBuffer {
	if entries < 0 {
		panic("chunk: negative entry count")
	}
	p := &PalettedBuffer{entries: entries}
	p.reshape(initialBPE, initialBPE > 0 && initialBPE <= maxPaletteBPE)
	if initialBPE == 0 {
		p.palette = []uint32{0}
		p.paletteIndex = map[uint32]int{0: 0}
		p.usePalette = true
	} else if p.usePalette {
		p.palette = []uint32{}
		p.paletteIndex = map[uint32]int{}
	}
	return p
}

func entriesPerLong(bpe int) int {
	if bpe == 0 {
		return 1 << 30 // unbounded: bpe 0 never indexes into longs
	}
	return 64 / bpe
}

// reshape resizes the backing longs array for the given bpe, without
// touching existing data. Callers are responsible for repacking values.
func (p *PalettedBuffer) reshape(bpe int, usePalette bool) {
	p.bitsPerEntry = bpe
	p.usePalette = usePalette
	if bpe == 0 {
		p.longs = nil
		return
	}
	epl := entriesPerLong(bpe)
	numLongs := (p.entries + epl - 1) / epl
	p.longs = make([]uint64, numLongs)
}

// Get returns the value stored at index i.
func (p *PalettedBuffer) Get(i int) uint32 {
	p.checkBounds(i)
	if p.bitsPerEntry == 0 {
		return p.palette[0]
	}
	raw := p.getRaw(i)
	if p.usePalette {
		return p.palette[raw]
	}
	return raw
}

func (p *PalettedBuffer) getRaw(i int) uint32 {
	epl := entriesPerLong(p.bitsPerEntry)
	longIdx := i / epl
	localIdx := i % epl
	bitOffset := uint(localIdx) * uint(p.bitsPerEntry)
	mask := uint64(1)<<uint(p.bitsPerEntry) - 1
	return uint32((p.longs[longIdx] >> bitOffset) & mask)
}

func (p *PalettedBuffer) setRaw(i int, v uint32) {
	epl := entriesPerLong(p.bitsPerEntry)
	longIdx := i / epl
	localIdx := i % epl
	bitOffset := uint(localIdx) * uint(p.bitsPerEntry)
	mask := uint64(1)<<uint(p.bitsPerEntry) - 1
	p.longs[longIdx] = (p.longs[longIdx] &^ (mask << bitOffset)) | (uint64(v)&mask)<<bitOffset
}

// Set stores v at index i, growing bits-per-entry (and, past 8 bits,
// promoting to a direct 15-bit encoding) if the palette would otherwise
// overflow. bpe never shrinks during a buffer's life.
func (p *PalettedBuffer) Set(i int, v uint32) {
	p.checkBounds(i)

	if p.bitsPerEntry == 0 {
		if p.palette[0] == v {
			return
		}
		p.growTo(1, true)
	}

	if !p.usePalette {
		p.setRaw(i, v)
		return
	}

	idx, ok := p.paletteIndex[v]
	if !ok {
		if len(p.palette) >= 1<<p.bitsPerEntry {
			if p.bitsPerEntry+1 <= maxPaletteBPE {
				p.growTo(p.bitsPerEntry+1, true)
			} else {
				p.growTo(directBPE, false)
				p.setRaw(i, v)
				return
			}
		}
		idx = len(p.palette)
		p.palette = append(p.palette, v)
		p.paletteIndex[v] = idx
	}
	p.setRaw(i, uint32(idx))
}

// growTo rewrites every entry at a new bits-per-entry / encoding, preserving
// decoded values. usePalette selects palette-indexed vs. direct storage at
// the new width.
func (p *PalettedBuffer) growTo(newBPE int, usePalette bool) {
	decoded := make([]uint32, p.entries)
	for i := 0; i < p.entries; i++ {
		decoded[i] = p.Get(i)
	}
	p.reshape(newBPE, usePalette)
	if usePalette {
		p.palette = p.palette[:0]
		p.paletteIndex = make(map[uint32]int, len(decoded))
		for i, v := range decoded {
			idx, ok := p.paletteIndex[v]
			if !ok {
				idx = len(p.palette)
				p.palette = append(p.palette, v)
				p.paletteIndex[v] = idx
			}
			p.setRaw(i, uint32(idx))
		}
	} else {
		p.palette = nil
		p.paletteIndex = nil
		for i, v := range decoded {
			p.setRaw(i, v)
		}
	}
}

func (p *PalettedBuffer) checkBounds(i int) {
	if i < 0 || i >= p.entries {
		panic("chunk: paletted buffer index out of range")
	}
}

// Len returns the number of entries in the buffer.
func (p *PalettedBuffer) Len() int { return p.entries }

// BitsPerEntry returns the buffer's current bit width, for callers that need
// to emit the raw layout (e.g. a zero-copy packet encoder).
func (p *PalettedBuffer) BitsPerEntry() int { return p.bitsPerEntry }

// Longs returns the buffer's backing word array.
func (p *PalettedBuffer) Longs() []uint64 { return p.longs }

// Palette returns the buffer's palette, or nil if it is using a direct or
// single-value encoding.
func (p *PalettedBuffer) Palette() []uint32 {
	if p.bitsPerEntry == 0 || !p.usePalette {
		return nil
	}
	return p.palette
}
