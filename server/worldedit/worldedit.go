// Package worldedit implements the in-plot region-editing toolkit: a
// two-point selection, a weighted block pattern parser, clipboard
// copy/paste, and an undo/redo history, all driven entirely from commands
// rather than any client-side brush/editor UI.
package worldedit

import (
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mchprs-go/mchprs/server/block"
	"github.com/mchprs-go/mchprs/server/block/cube"
	"github.com/mchprs-go/mchprs/server/tick"
)

var lower = cases.Lower(language.Und)

// Selection is a two-point region marked by //pos1 and //pos2.
type Selection struct {
	pos1, pos2 *cube.Pos
}

// SetPos1 marks the first corner.
func (s *Selection) SetPos1(p cube.Pos) { s.pos1 = &p }

// SetPos2 marks the second corner.
func (s *Selection) SetPos2(p cube.Pos) { s.pos2 = &p }

// Bounds returns the selection's inclusive AABB, normalized so min <= max on
// every axis. ok is false until both corners are set.
func (s *Selection) Bounds() (min, max cube.Pos, ok bool) {
	if s.pos1 == nil || s.pos2 == nil {
		return cube.Pos{}, cube.Pos{}, false
	}
	a, b := *s.pos1, *s.pos2
	min = cube.Pos{minInt(a.X(), b.X()), minInt(a.Y(), b.Y()), minInt(a.Z(), b.Z())}
	max = cube.Pos{maxInt(a.X(), b.X()), maxInt(a.Y(), b.Y()), maxInt(a.Z(), b.Z())}
	return min, max, true
}

// Volume reports the number of blocks the selection spans, or 0 if
// incomplete.
func (s *Selection) Volume() int {
	min, max, ok := s.Bounds()
	if !ok {
		return 0
	}
	return (max.X() - min.X() + 1) * (max.Y() - min.Y() + 1) * (max.Z() - min.Z() + 1)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// patternPart is one weighted alternative of a Pattern.
type patternPart struct {
	weight float64
	block  block.Block
}

// Pattern is a weighted set of block alternatives, as accepted by //set and
// the replacement side of //replace (e.g. "80%redstone_wire,20%air").
type Pattern struct {
	parts []patternPart
	total float64
}

var patternPartRe = regexp.MustCompile(`^(?:(\d+(?:\.\d+)?)%)?(?:minecraft:)?([a-z_]+)$`)

// ParsePattern parses a comma-separated pattern string into a Pattern ready
// for Pick. An unweighted part has weight 1, the same as writing "1%".
func ParsePattern(s string) (*Pattern, error) {
	parts := strings.Split(lower.String(strings.TrimSpace(s)), ",")
	p := &Pattern{}
	for _, raw := range parts {
		m := patternPartRe.FindStringSubmatch(strings.TrimSpace(raw))
		if m == nil {
			return nil, fmt.Errorf("worldedit: invalid pattern part %q", raw)
		}
		weight := 1.0
		if m[1] != "" {
			w, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				return nil, fmt.Errorf("worldedit: invalid weight in %q: %w", raw, err)
			}
			weight = w
		}
		b, ok := block.FromName(m[2])
		if !ok {
			return nil, fmt.Errorf("worldedit: unknown block %q", m[2])
		}
		p.parts = append(p.parts, patternPart{weight: weight, block: b})
		p.total += weight
	}
	if len(p.parts) == 0 {
		return nil, fmt.Errorf("worldedit: empty pattern")
	}
	return p, nil
}

// Pick draws one block from the pattern, weighted by each part's share.
func (p *Pattern) Pick(rng *rand.Rand) block.Block {
	if len(p.parts) == 1 {
		return p.parts[0].block
	}
	r := rng.Float64() * p.total
	for _, part := range p.parts {
		if r < part.weight {
			return part.block
		}
		r -= part.weight
	}
	return p.parts[len(p.parts)-1].block
}

// Matches reports whether b matches any alternative in the pattern,
// ignoring weight; used by //replace's source pattern.
func (p *Pattern) Matches(b block.Block) bool {
	id := block.ID(b)
	for _, part := range p.parts {
		if block.ID(part.block) == id {
			return true
		}
	}
	return false
}

// undoEntry is one captured snapshot, restorable by pasting it back at pos.
type undoEntry struct {
	clip *Clipboard
	pos  cube.Pos
}

// Session holds one actor's selection, clipboard and undo/redo history.
// Actors are identified by a UUID rather than a player identity, since the
// plot runtime has no login/session concept of its own to key off.
type Session struct {
	ID uuid.UUID

	Sel       Selection
	Clipboard *Clipboard

	mu   sync.Mutex
	undo []undoEntry
	redo []undoEntry
}

// NewSession returns a fresh session with a random identity.
func NewSession() *Session { return &Session{ID: uuid.New()} }

// pushUndo records snapshot as the next undo step and clears the redo stack,
// matching WorldEdit's own history semantics: any new edit invalidates
// whatever was undone before it.
func (s *Session) pushUndo(snapshot *Clipboard, pos cube.Pos) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.undo = append(s.undo, undoEntry{clip: snapshot, pos: pos})
	s.redo = nil
}

// CaptureUndo snapshots [min, max] out of w and records it as the next undo
// step, before a command goes on to mutate that region. Every destructive
// WorldEdit operation (set, replace, clear, paste) calls this first.
func (s *Session) CaptureUndo(w tick.World, min, max cube.Pos) {
	s.pushUndo(Capture(w, min, max), min)
}

// Undo pops the most recent snapshot and pastes it back into w, returning
// false if there is nothing to undo.
func (s *Session) Undo(w tick.World) bool {
	s.mu.Lock()
	if len(s.undo) == 0 {
		s.mu.Unlock()
		return false
	}
	entry := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.mu.Unlock()

	redoSnap := Capture(w, entry.pos, entry.clip.boundsAt(entry.pos))
	PasteIgnoringAir(w, entry.clip, entry.pos, false)

	s.mu.Lock()
	s.redo = append(s.redo, undoEntry{clip: redoSnap, pos: entry.pos})
	s.mu.Unlock()
	return true
}

// Redo re-applies the most recently undone snapshot.
func (s *Session) Redo(w tick.World) bool {
	s.mu.Lock()
	if len(s.redo) == 0 {
		s.mu.Unlock()
		return false
	}
	entry := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.mu.Unlock()

	undoSnap := Capture(w, entry.pos, entry.clip.boundsAt(entry.pos))
	PasteIgnoringAir(w, entry.clip, entry.pos, false)

	s.mu.Lock()
	s.undo = append(s.undo, undoEntry{clip: undoSnap, pos: entry.pos})
	s.mu.Unlock()
	return true
}

// Manager tracks one Session per actor, created lazily.
type Manager struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

// NewManager returns an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[uuid.UUID]*Session)}
}

// Session returns the session for id, creating one if this is its first
// use.
func (m *Manager) Session(id uuid.UUID) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		s = &Session{ID: id}
		m.sessions[id] = s
	}
	return s
}

// SetRegion fills [min, max] with blocks drawn from pat, skipping cells
// already matching the drawn block, and returns the number actually
// changed.
func SetRegion(w tick.World, min, max cube.Pos, pat *Pattern, rng *rand.Rand) int {
	changed := 0
	for x := min.X(); x <= max.X(); x++ {
		for y := min.Y(); y <= max.Y(); y++ {
			for z := min.Z(); z <= max.Z(); z++ {
				pos := cube.Pos{x, y, z}
				b := pat.Pick(rng)
				if block.ID(w.GetBlock(pos)) == block.ID(b) {
					continue
				}
				w.SetBlock(pos, b)
				changed++
			}
		}
	}
	return changed
}

// ReplaceRegion replaces every block in [min, max] matching from with a
// block drawn from to, and returns the number of cells changed.
func ReplaceRegion(w tick.World, min, max cube.Pos, from, to *Pattern, rng *rand.Rand) int {
	changed := 0
	for x := min.X(); x <= max.X(); x++ {
		for y := min.Y(); y <= max.Y(); y++ {
			for z := min.Z(); z <= max.Z(); z++ {
				pos := cube.Pos{x, y, z}
				if !from.Matches(w.GetBlock(pos)) {
					continue
				}
				w.SetBlock(pos, to.Pick(rng))
				changed++
			}
		}
	}
	return changed
}

// ClearRegion sets every block in [min, max] to air and returns the number
// of cells actually changed.
func ClearRegion(w tick.World, min, max cube.Pos) int {
	air := block.Air{}
	changed := 0
	for x := min.X(); x <= max.X(); x++ {
		for y := min.Y(); y <= max.Y(); y++ {
			for z := min.Z(); z <= max.Z(); z++ {
				pos := cube.Pos{x, y, z}
				if block.ID(w.GetBlock(pos)) == block.ID(air) {
					continue
				}
				w.SetBlock(pos, air)
				w.DeleteBlockEntity(pos)
				changed++
			}
		}
	}
	return changed
}
