package chunk

import "testing"

func TestPalettedBufferReadsBackLastWrite(t *testing.T) {
	p := NewPalettedBuffer(64, 0)
	writes := map[int]uint32{0: 5, 1: 5, 2: 900, 10: 7, 63: 12345}
	for i, v := range writes {
		p.Set(i, v)
	}
	// Overwrite index 2 to make sure the last write wins.
	p.Set(2, 42)
	writes[2] = 42

	for i, want := range writes {
		if got := p.Get(i); got != want {
			t.Errorf("Get(%d) = %d, want %d", i, got, want)
		}
	}
	for i := 0; i < 64; i++ {
		if _, written := writes[i]; !written {
			if got := p.Get(i); got != 0 {
				t.Errorf("untouched index %d = %d, want 0", i, got)
			}
		}
	}
}

func TestPalettedBufferGrowsAndPromotesToDirect(t *testing.T) {
	const n = 600
	p := NewPalettedBuffer(n, 0)
	for i := 0; i < n; i++ {
		p.Set(i, uint32(i))
	}
	if p.BitsPerEntry() != directBPE {
		t.Fatalf("expected promotion to direct %d-bit storage once the palette overflowed 256 entries, got bpe=%d", directBPE, p.BitsPerEntry())
	}
	for i := 0; i < n; i++ {
		if got := p.Get(i); got != uint32(i) {
			t.Errorf("Get(%d) = %d, want %d", i, got, i)
		}
	}
}

func TestPalettedBufferBPENeverShrinks(t *testing.T) {
	p := NewPalettedBuffer(16, 0)
	for i := 0; i < 16; i++ {
		p.Set(i, uint32(i))
	}
	bpe := p.BitsPerEntry()
	// Overwrite everything back down to a single repeated value; bpe must
	// not shrink even though the live value set collapsed.
	for i := 0; i < 16; i++ {
		p.Set(i, 0)
	}
	if p.BitsPerEntry() < bpe {
		t.Fatalf("bits per entry shrank from %d to %d", bpe, p.BitsPerEntry())
	}
}

func TestPalettedBufferOutOfRangePanics(t *testing.T) {
	p := NewPalettedBuffer(4, 4)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on out-of-range Set")
		}
	}()
	p.Set(4, 1)
}
