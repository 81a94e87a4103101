package worldedit

import (
	"compress/gzip"
	"fmt"
	"io"
	"regexp"

	"github.com/cespare/xxhash/v2"
	"github.com/sandertv/gophertunnel/minecraft/nbt"

	"github.com/mchprs-go/mchprs/server/block"
	"github.com/mchprs-go/mchprs/server/block/cube"
)

// schematicVersion is the Sponge Schematic format version this codec reads
// and writes; version 2 stores the block palette as a varint-indexed byte
// array rather than version 1's plain section array.
const schematicVersion = 2

// schematicDataVersion is stamped into every saved schematic for tooling
// that cares which Java Edition data version produced it. It is informational
// only: this package's own loader ignores it.
const schematicDataVersion = 3700

type schematicRoot struct {
	Width, Length, Height int16
	Palette               map[string]int32
	PaletteMax            int32
	BlockData             []byte
	Metadata              schematicMetadata
	BlockEntities         []schematicBlockEntity `nbt:"BlockEntities"`
	Version               int32
	DataVersion           int32 `nbt:"DataVersion"`
}

type schematicMetadata struct {
	WEOffsetX int32 `nbt:"WEOffsetX"`
	WEOffsetY int32 `nbt:"WEOffsetY"`
	WEOffsetZ int32 `nbt:"WEOffsetZ"`
}

// schematicBlockEntity covers every block.Entity variant this package
// models; unused fields are simply omitted by the concrete entity's zero
// value and round-trip as absent on decode.
type schematicBlockEntity struct {
	Pos                []int32  `nbt:"Pos"`
	Id                 string   `nbt:"Id"`
	FrontRows          []string `nbt:"FrontRows,omitempty"`
	BackRows           []string `nbt:"BackRows,omitempty"`
	OutputStrength     byte     `nbt:"OutputStrength,omitempty"`
	ContainerKind      byte     `nbt:"ContainerKind,omitempty"`
	ComparatorOverride byte     `nbt:"ComparatorOverride,omitempty"`
	ItemNames          []string `nbt:"ItemNames,omitempty"`
	ItemCounts         []int32  `nbt:"ItemCounts,omitempty"`
}

var paletteKeyRe = regexp.MustCompile(`^(?:minecraft:)?([a-z_]+)(?:\[[a-z=,0-9]*\])?$`)

// SaveSchematic gzip-encodes c as a Sponge Schematic v2 NBT document.
func SaveSchematic(w io.Writer, c *Clipboard) error {
	names := make([]string, 0, 16)
	index := make(map[uint64]int32, 16)

	data := make([]byte, 0, c.SizeX*c.SizeY*c.SizeZ)
	for y := 0; y < c.SizeY; y++ {
		for z := 0; z < c.SizeZ; z++ {
			for x := 0; x < c.SizeX; x++ {
				b := block.FromID(c.Get(x, y, z))
				name := "minecraft:" + b.Name()
				idx := paletteIndex(index, &names, name)
				data = appendVarInt(data, idx)
			}
		}
	}

	palette := make(map[string]int32, len(names))
	for i, n := range names {
		palette[n] = int32(i)
	}

	root := schematicRoot{
		Width: int16(c.SizeX), Length: int16(c.SizeZ), Height: int16(c.SizeY),
		Palette:     palette,
		PaletteMax:  int32(len(names)),
		BlockData:   data,
		Metadata:    schematicMetadata{WEOffsetX: -int32(c.OffsetX), WEOffsetY: -int32(c.OffsetY), WEOffsetZ: -int32(c.OffsetZ)},
		Version:     schematicVersion,
		DataVersion: schematicDataVersion,
	}
	for pos, be := range c.blockEntities {
		root.BlockEntities = append(root.BlockEntities, encodeBlockEntity(pos, be))
	}

	gz := gzip.NewWriter(w)
	if err := nbt.NewEncoderWithEncoding(gz, nbt.BigEndian).Encode(root); err != nil {
		return fmt.Errorf("worldedit: encode schematic: %w", err)
	}
	return gz.Close()
}

// LoadSchematic decodes a gzip Sponge Schematic (v1 or v2) into a Clipboard.
func LoadSchematic(r io.Reader) (*Clipboard, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("worldedit: schematic is not gzip: %w", err)
	}
	defer gz.Close()

	var root schematicRoot
	if err := nbt.NewDecoderWithEncoding(gz, nbt.BigEndian).Decode(&root); err != nil {
		return nil, fmt.Errorf("worldedit: decode schematic: %w", err)
	}

	blockByIndex := make(map[int32]block.Block, len(root.Palette))
	for name, idx := range root.Palette {
		m := paletteKeyRe.FindStringSubmatch(name)
		if m == nil {
			blockByIndex[idx] = block.Unknown{}
			continue
		}
		b, ok := block.FromName(m[1])
		if !ok {
			b = block.Unknown{}
		}
		blockByIndex[idx] = b
	}

	sx, sy, sz := int(root.Width), int(root.Height), int(root.Length)
	c := NewClipboard(sx, sy, sz)
	c.OffsetX, c.OffsetY, c.OffsetZ = -int(root.Metadata.WEOffsetX), -int(root.Metadata.WEOffsetY), -int(root.Metadata.WEOffsetZ)

	cursor := 0
	for y := 0; y < sy; y++ {
		for z := 0; z < sz; z++ {
			for x := 0; x < sx; x++ {
				idx, n := readVarInt(root.BlockData, cursor)
				cursor += n
				c.Set(x, y, z, block.ID(blockByIndex[idx]))
			}
		}
	}

	for _, be := range root.BlockEntities {
		if len(be.Pos) != 3 {
			continue
		}
		if decoded, ok := decodeBlockEntity(be); ok {
			c.SetBlockEntity(int(be.Pos[0]), int(be.Pos[1]), int(be.Pos[2]), decoded)
		}
	}
	return c, nil
}

// paletteIndex interns name into the palette, hashing it with xxhash so
// repeated cells (the overwhelming majority of any redstone build's volume
// is air or wire) look up their index without re-comparing full name
// strings on every one of the region's cells.
func paletteIndex(index map[uint64]int32, names *[]string, name string) int32 {
	h := xxhash.Sum64String(name)
	if idx, ok := index[h]; ok {
		return idx
	}
	idx := int32(len(*names))
	*names = append(*names, name)
	index[h] = idx
	return idx
}

// appendVarInt appends v encoded as an unsigned LEB128 varint (matching the
// Sponge Schematic BlockData encoding: 7 low bits plus a continuation bit,
// at most 5 bytes for a 32-bit value).
func appendVarInt(buf []byte, v int32) []byte {
	u := uint32(v)
	for {
		b := byte(u & 0x7F)
		u >>= 7
		if u != 0 {
			buf = append(buf, b|0x80)
		} else {
			buf = append(buf, b)
			return buf
		}
	}
}

// readVarInt decodes one varint starting at offset, returning its value and
// the number of bytes consumed.
func readVarInt(buf []byte, offset int) (int32, int) {
	var result uint32
	var shift uint
	n := 0
	for {
		b := buf[offset+n]
		n++
		result |= uint32(b&0x7F) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
	}
	return int32(result), n
}

func encodeBlockEntity(pos cube.Pos, be block.Entity) schematicBlockEntity {
	out := schematicBlockEntity{Pos: []int32{int32(pos.X()), int32(pos.Y()), int32(pos.Z())}}
	switch v := be.(type) {
	case block.Sign:
		out.Id = "minecraft:sign"
		out.FrontRows = v.FrontRows[:]
		out.BackRows = v.BackRows[:]
	case block.Comparator:
		out.Id = "minecraft:comparator"
		out.OutputStrength = v.OutputStrength
	case block.Container:
		out.Id = "minecraft:container"
		out.ContainerKind = byte(v.Kind)
		out.ComparatorOverride = v.ComparatorOverride
		for _, item := range v.Inventory {
			out.ItemNames = append(out.ItemNames, item.Name)
			out.ItemCounts = append(out.ItemCounts, int32(item.Count))
		}
	}
	return out
}

func decodeBlockEntity(be schematicBlockEntity) (block.Entity, bool) {
	switch be.Id {
	case "minecraft:sign":
		var s block.Sign
		copy(s.FrontRows[:], be.FrontRows)
		copy(s.BackRows[:], be.BackRows)
		return s, true
	case "minecraft:comparator":
		return block.Comparator{OutputStrength: be.OutputStrength}, true
	case "minecraft:container":
		c := block.Container{Kind: block.ContainerKind(be.ContainerKind), ComparatorOverride: be.ComparatorOverride}
		for i := range be.ItemNames {
			c.Inventory = append(c.Inventory, block.ItemStack{Name: be.ItemNames[i], Count: int(be.ItemCounts[i])})
		}
		return c, true
	default:
		return nil, false
	}
}
