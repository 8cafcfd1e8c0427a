package chunk

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"sandworld/internal/core"
	"sandworld/internal/matter"
)

// DefaultPoolSize is the number of resident buffer sets kept alive. A 6x6
// neighborhood of chunks can stay hot before the farthest are spilled back
// to their cold images.
const DefaultPoolSize = 36

// Manager streams chunks in and out of the resident pool as the simulated
// area moves. The chunks around the reference position stay hot; the 2x2
// window of chunks backing the simulated canvas is selected from them every
// update.
type Manager struct {
	size   int
	table  *matter.Table
	pool   []*Resident
	world  map[Coord]*WorldChunk
	inUse  map[Coord]*WorldChunk
	anchor Coord
	refPos core.Point
	window Window
}

// NewManager creates a manager for size x size chunks with poolSize resident
// buffer sets. The table maps cell colors to matter ids when chunks decode.
func NewManager(size, poolSize int, table *matter.Table) *Manager {
	m := &Manager{
		size:  size,
		table: table,
		pool:  make([]*Resident, 0, poolSize),
		world: make(map[Coord]*WorldChunk),
		inUse: make(map[Coord]*WorldChunk),
	}
	for i := 0; i < poolSize; i++ {
		m.pool = append(m.pool, NewResident(size))
	}
	return m
}

// Size returns the chunk side length in cells.
func (m *Manager) Size() int { return m.size }

// Window returns the 2x2 chunk window selected by the last Update.
func (m *Manager) Window() *Window { return &m.window }

// Update recenters the hot set on the reference position (in world cells),
// loading newly neighboring chunks and evicting the farthest hot chunks when
// the pool runs dry. It must be called before each simulation step.
func (m *Manager) Update(ref core.Point) error {
	m.refPos = ref
	m.anchor = Coord{
		X: int(math.Round(float64(ref.X) / float64(m.size))),
		Y: int(math.Round(float64(ref.Y) / float64(m.size))),
	}

	newNine := make(map[Coord]struct{}, 9)
	for _, off := range core.NineNeighborhood {
		newNine[m.anchor.Add(off)] = struct{}{}
	}
	var missing []Coord
	for c := range newNine {
		if _, ok := m.inUse[c]; !ok {
			missing = append(missing, c)
		}
	}
	sort.Slice(missing, func(i, j int) bool {
		if missing[i].Y != missing[j].Y {
			return missing[i].Y < missing[j].Y
		}
		return missing[i].X < missing[j].X
	})

	if len(missing) > len(m.pool) {
		if err := m.evict(len(missing)-len(m.pool), newNine); err != nil {
			return err
		}
	}
	for _, c := range missing {
		m.load(c)
	}

	return m.selectWindow()
}

// evict spills the farthest hot chunks outside keep back to their cold
// images until count residents are free.
func (m *Manager) evict(count int, keep map[Coord]struct{}) error {
	var victims []Coord
	for c := range m.inUse {
		if _, kept := keep[c]; !kept {
			victims = append(victims, c)
		}
	}
	if len(victims) < count {
		return fmt.Errorf("chunk: need %d free residents but only %d chunks are evictable", count, len(victims))
	}
	// Farthest from the anchor go first. Ties break on coordinates so
	// eviction order is reproducible.
	sort.Slice(victims, func(i, j int) bool {
		a, b := victims[i], victims[j]
		da := math.Hypot(float64(a.X-m.anchor.X), float64(a.Y-m.anchor.Y))
		db := math.Hypot(float64(b.X-m.anchor.X), float64(b.Y-m.anchor.Y))
		if da != db {
			return da > db
		}
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Y < b.Y
	})
	for _, c := range victims[:count] {
		m.unload(c)
	}
	return nil
}

// load attaches a pooled resident to the chunk at c, creating an empty world
// chunk if none exists, and decodes the cold image into the cell buffers.
func (m *Manager) load(c Coord) {
	wc, ok := m.world[c]
	if !ok {
		wc = NewWorldChunk(c, m.size)
		m.world[c] = wc
	}
	n := len(m.pool) - 1
	r := m.pool[n]
	m.pool = m.pool[:n]
	r.Reset()
	Decode(r, wc.Image, m.table)
	wc.Hot = r
	m.inUse[c] = wc
}

// unload writes the hot state back to the cold image and returns the
// resident to the pool.
func (m *Manager) unload(c Coord) {
	wc := m.inUse[c]
	Encode(wc.Image, wc.Hot, m.table)
	m.pool = append(m.pool, wc.Hot)
	wc.Hot = nil
	delete(m.inUse, c)
}

// selectWindow picks the 2x2 chunk window whose chunks lie nearest the
// reference position. Four placements around the anchor are possible; the
// one with the smallest mean center distance wins.
func (m *Manager) selectWindow() error {
	options := [4][4]core.Point{
		{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}},
		{{X: 0, Y: -1}, {X: 1, Y: -1}, {X: 0, Y: 0}, {X: 1, Y: 0}},
		{{X: -1, Y: -1}, {X: 0, Y: -1}, {X: -1, Y: 0}, {X: 0, Y: 0}},
		{{X: -1, Y: 0}, {X: 0, Y: 0}, {X: -1, Y: 1}, {X: 0, Y: 1}},
	}
	best := -1
	bestDist := math.Inf(1)
	for i, opt := range options {
		var sum float64
		for _, off := range opt {
			c := m.anchor.Add(off)
			center := core.Point{X: c.X * m.size, Y: c.Y * m.size}
			sum += center.Dist(m.refPos)
		}
		if sum < bestDist {
			bestDist = sum
			best = i
		}
	}

	w := Window{Size: m.size}
	for i, off := range options[best] {
		c := m.anchor.Add(off)
		wc, ok := m.inUse[c]
		if !ok {
			return fmt.Errorf("chunk: window chunk %v is not resident", c)
		}
		w.Coords[i] = c
		w.Chunks[i] = wc.Hot
	}
	w.Start = w.Coords[0].Origin(m.size)
	w.CanvasOrigin = core.Point{X: m.refPos.X - m.size/2, Y: m.refPos.Y - m.size/2}
	m.window = w
	return nil
}

// Resident returns the hot buffers for chunk c, or nil when it is cold.
func (m *Manager) Resident(c Coord) *Resident {
	if wc, ok := m.inUse[c]; ok {
		return wc.Hot
	}
	return nil
}

// HotCoords returns the coordinates of all currently hot chunks.
func (m *Manager) HotCoords() []Coord {
	coords := make([]Coord, 0, len(m.inUse))
	for c := range m.inUse {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Y != coords[j].Y {
			return coords[i].Y < coords[j].Y
		}
		return coords[i].X < coords[j].X
	})
	return coords
}

// SaveTo writes every world chunk, hot ones included, to dir as PNG images.
func (m *Manager) SaveTo(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("chunk: %w", err)
	}
	for _, wc := range m.inUse {
		Encode(wc.Image, wc.Hot, m.table)
	}
	for c, wc := range m.world {
		if err := SaveImage(filepath.Join(dir, FileName(c)), wc.Image); err != nil {
			return err
		}
	}
	return nil
}

// LoadFrom reads every chunk image in dir into the cold world map and
// reloads the hot set from the new data.
func (m *Manager) LoadFrom(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("chunk: %w", err)
	}
	// Drop hot state; the disk content replaces it.
	for c := range m.inUse {
		wc := m.inUse[c]
		m.pool = append(m.pool, wc.Hot)
		wc.Hot = nil
		delete(m.inUse, c)
	}
	m.world = make(map[Coord]*WorldChunk)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		c, ok := ParseFileName(e.Name())
		if !ok {
			continue
		}
		wc := NewWorldChunk(c, m.size)
		wc.Image = LoadImage(filepath.Join(dir, e.Name()), m.size)
		m.world[c] = wc
	}
	return m.Update(m.refPos)
}

// Window is the 2x2 block of hot chunks backing the simulated canvas. The
// canvas is Size x Size cells centered on the reference position and always
// lies inside the window's 2*Size x 2*Size span.
type Window struct {
	Size         int
	Start        core.Point // world cell of the window's top-left corner
	CanvasOrigin core.Point // world cell of the canvas's top-left corner
	Coords       [4]Coord
	Chunks       [4]*Resident
}

// Contains reports whether world cell p lies on the simulated canvas.
func (w *Window) Contains(p core.Point) bool {
	l := p.Sub(w.CanvasOrigin)
	return l.X >= 0 && l.X < w.Size && l.Y >= 0 && l.Y < w.Size
}

// Locate maps world cell p to its chunk buffers and cell index within them.
// ok is false when p is outside the window span.
func (w *Window) Locate(p core.Point) (r *Resident, idx int, ok bool) {
	d := p.Sub(w.Start)
	if d.X < 0 || d.X >= 2*w.Size || d.Y < 0 || d.Y >= 2*w.Size {
		return nil, 0, false
	}
	ci := (d.Y/w.Size)*2 + d.X/w.Size
	return w.Chunks[ci], (d.Y%w.Size)*w.Size + d.X%w.Size, true
}

// Matter returns the current matter id at world cell p, or empty (0) when p
// is outside the window.
func (w *Window) Matter(p core.Point) uint8 {
	r, idx, ok := w.Locate(p)
	if !ok {
		return 0
	}
	return r.Matter.Cells()[idx]
}

// SetMatter writes the matter id at world cell p into both halves of the
// ping-pong pair. It is a no-op outside the window.
func (w *Window) SetMatter(p core.Point, id uint8) {
	r, idx, ok := w.Locate(p)
	if !ok {
		return
	}
	r.Matter.Cells()[idx] = id
	r.MatterNext.Cells()[idx] = id
}

// Overlay returns the overlay matter id at world cell p.
func (w *Window) Overlay(p core.Point) uint8 {
	r, idx, ok := w.Locate(p)
	if !ok {
		return 0
	}
	return r.OverlayMatter.Cells()[idx]
}

// SetOverlay writes an overlay cell (matter id and display color) at world
// cell p.
func (w *Window) SetOverlay(p core.Point, id uint8, color uint32) {
	r, idx, ok := w.Locate(p)
	if !ok {
		return
	}
	r.OverlayMatter.Cells()[idx] = id
	r.OverlayColor.Cells()[idx] = color
}

// ClearOverlays zeroes the overlay buffers of all four window chunks.
func (w *Window) ClearOverlays() {
	for _, r := range w.Chunks {
		r.OverlayMatter.Clear()
		r.OverlayColor.Clear()
	}
}
