package plot

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"path/filepath"

	"github.com/df-mc/goleveldb/leveldb"
	"github.com/df-mc/goleveldb/leveldb/opt"
	"github.com/df-mc/goleveldb/leveldb/util"

	"github.com/mchprs-go/mchprs/server/block"
	"github.com/mchprs-go/mchprs/server/tick"
	"github.com/mchprs-go/mchprs/server/world"
	"github.com/mchprs-go/mchprs/server/world/chunk"
)

func init() {
	gob.Register(block.Sign{})
	gob.Register(block.Comparator{})
	gob.Register(block.Container{})
}

// Store is one plot's on-disk database: its chunk sections, block entities
// and pending scheduled ticks, each in their own leveldb key range.
type Store struct {
	db *leveldb.DB
}

// OpenStore opens (creating if absent) the leveldb database for plot
// (plotX, plotZ) under dataDir.
func OpenStore(dataDir string, plotX, plotZ int) (*Store, error) {
	dir := filepath.Join(dataDir, fmt.Sprintf("p_%d_%d", plotX, plotZ))
	db, err := leveldb.OpenFile(dir, &opt.Options{})
	if err != nil {
		return nil, fmt.Errorf("plot: open store %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

const (
	sectionPrefix = 's'
	entityPrefix  = 'e'
	ticksKey      = "ticks"
)

func sectionKey(localX, sectionY, localZ int) []byte {
	buf := make([]byte, 13)
	buf[0] = sectionPrefix
	binary.BigEndian.PutUint32(buf[1:5], uint32(int32(localX)))
	binary.BigEndian.PutUint32(buf[5:9], uint32(int32(sectionY)))
	binary.BigEndian.PutUint32(buf[9:13], uint32(int32(localZ)))
	return buf
}

func entityKey(localX, y, localZ int) []byte {
	buf := make([]byte, 13)
	buf[0] = entityPrefix
	binary.BigEndian.PutUint32(buf[1:5], uint32(int32(localX)))
	binary.BigEndian.PutUint32(buf[5:9], uint32(int32(y)))
	binary.BigEndian.PutUint32(buf[9:13], uint32(int32(localZ)))
	return buf
}

func decodeKeyCoords(key []byte) (a, b, c int) {
	return int(int32(binary.BigEndian.Uint32(key[1:5]))),
		int(int32(binary.BigEndian.Uint32(key[5:9]))),
		int(int32(binary.BigEndian.Uint32(key[9:13])))
}

// Save persists every loaded chunk, block entity and pending tick of w.
func (s *Store) Save(w *world.PlotWorld) error {
	batch := new(leveldb.Batch)
	for _, c := range w.Chunks() {
		localX, localZ := c.Pos.X-w.X*world.PlotWidth, c.Pos.Z-w.Z*world.PlotWidth
		for _, sy := range c.Sections() {
			sec, _ := c.SectionIfPresent(sy)
			buf := make([]byte, chunk.SectionHeight*chunk.SectionHeight*chunk.SectionHeight*4)
			i := 0
			for ly := 0; ly < chunk.SectionHeight; ly++ {
				for lz := 0; lz < chunk.SectionHeight; lz++ {
					for lx := 0; lx < chunk.SectionHeight; lx++ {
						binary.LittleEndian.PutUint32(buf[i:i+4], sec.Get(lx, ly, lz))
						i += 4
					}
				}
			}
			batch.Put(sectionKey(localX, sy, localZ), buf)
		}
		for pos, be := range c.Entities() {
			var enc bytes.Buffer
			if err := gob.NewEncoder(&enc).Encode(&be); err != nil {
				return fmt.Errorf("plot: encode block entity at %v: %w", pos, err)
			}
			batch.Put(entityKey(localX*chunk.SectionHeight+pos.X, pos.Y, localZ*chunk.SectionHeight+pos.Z), enc.Bytes())
		}
	}

	var ticksBuf bytes.Buffer
	entries := w.SnapshotTicks()
	if err := gob.NewEncoder(&ticksBuf).Encode(entries); err != nil {
		return fmt.Errorf("plot: encode pending ticks: %w", err)
	}
	batch.Put([]byte(ticksKey), ticksBuf.Bytes())

	if err := s.db.Write(batch, nil); err != nil {
		return fmt.Errorf("plot: write batch: %w", err)
	}
	return nil
}

// Load reconstructs a PlotWorld for (plotX, plotZ) from the store's
// contents. An empty store yields an empty, freshly initialized world.
func (s *Store) Load(plotX, plotZ int) (*world.PlotWorld, error) {
	w := world.NewPlotWorld(plotX, plotZ)
	chunks := make(map[[2]int]*chunk.Chunk)

	chunkFor := func(localX, localZ int) *chunk.Chunk {
		key := [2]int{localX, localZ}
		if c, ok := chunks[key]; ok {
			return c
		}
		c := chunk.NewChunk(chunk.Pos{X: plotX*world.PlotWidth + localX, Z: plotZ*world.PlotWidth + localZ})
		chunks[key] = c
		return c
	}

	secIter := s.db.NewIterator(util.BytesPrefix([]byte{sectionPrefix}), nil)
	for secIter.Next() {
		localX, sy, localZ := decodeKeyCoords(secIter.Key())
		c := chunkFor(localX, localZ)
		sec := c.Section(sy)
		val := secIter.Value()
		i := 0
		for ly := 0; ly < chunk.SectionHeight; ly++ {
			for lz := 0; lz < chunk.SectionHeight; lz++ {
				for lx := 0; lx < chunk.SectionHeight; lx++ {
					sec.Set(lx, ly, lz, binary.LittleEndian.Uint32(val[i:i+4]))
					i += 4
				}
			}
		}
	}
	secIter.Release()
	if err := secIter.Error(); err != nil {
		return nil, fmt.Errorf("plot: read sections: %w", err)
	}

	entIter := s.db.NewIterator(util.BytesPrefix([]byte{entityPrefix}), nil)
	for entIter.Next() {
		bx, y, bz := decodeKeyCoords(entIter.Key())
		c := chunkFor(bx/chunk.SectionHeight, bz/chunk.SectionHeight)
		var be block.Entity
		if err := gob.NewDecoder(bytes.NewReader(entIter.Value())).Decode(&be); err != nil {
			entIter.Release()
			return nil, fmt.Errorf("plot: decode block entity: %w", err)
		}
		c.SetBlockEntity(chunk.Pos3{X: bx % chunk.SectionHeight, Y: y, Z: bz % chunk.SectionHeight}, be)
	}
	entIter.Release()
	if err := entIter.Error(); err != nil {
		return nil, fmt.Errorf("plot: read block entities: %w", err)
	}

	for _, c := range chunks {
		w.LoadChunk(c)
	}

	if raw, err := s.db.Get([]byte(ticksKey), nil); err == nil {
		var entries []tick.Entry
		if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&entries); err != nil {
			return nil, fmt.Errorf("plot: decode pending ticks: %w", err)
		}
		w.RestoreTicks(entries)
	} else if err != leveldb.ErrNotFound {
		return nil, fmt.Errorf("plot: read pending ticks: %w", err)
	}

	return w, nil
}
