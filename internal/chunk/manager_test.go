package chunk

import (
	"math"
	"testing"

	"sandworld/internal/core"
	"sandworld/internal/matter"
)

const testSize = 64

func TestCellToChunk(t *testing.T) {
	cases := []struct {
		cell core.Point
		want Coord
	}{
		{core.Point{X: 0, Y: 0}, Coord{0, 0}},
		{core.Point{X: 31, Y: 31}, Coord{0, 0}},
		{core.Point{X: 32, Y: 0}, Coord{1, 0}},
		{core.Point{X: -32, Y: 0}, Coord{0, 0}},
		{core.Point{X: -33, Y: 0}, Coord{-1, 0}},
		{core.Point{X: 0, Y: -97}, Coord{0, -2}},
	}
	for _, c := range cases {
		if got := CellToChunk(c.cell, testSize); got != c.want {
			t.Errorf("CellToChunk(%v) = %v, want %v", c.cell, got, c.want)
		}
	}
}

func TestCoordOriginContainsOwnCells(t *testing.T) {
	for _, c := range []Coord{{0, 0}, {1, 0}, {-1, 2}, {-3, -3}} {
		o := c.Origin(testSize)
		for _, p := range []core.Point{o, {X: o.X + testSize - 1, Y: o.Y + testSize - 1}} {
			if CellToChunk(p, testSize) != c {
				t.Errorf("cell %v should belong to chunk %v", p, c)
			}
		}
	}
}

func TestParseFileName(t *testing.T) {
	c, ok := ParseFileName("chunk_-3_12.png")
	if !ok || c != (Coord{-3, 12}) {
		t.Fatalf("ParseFileName = %v, %v", c, ok)
	}
	if _, ok := ParseFileName("matters.json"); ok {
		t.Fatal("non-chunk file should not parse")
	}
	if got, _ := ParseFileName(FileName(Coord{7, -1})); got != (Coord{7, -1}) {
		t.Fatalf("file name round trip = %v", got)
	}
}

func TestUpdateLoadsNineAroundAnchor(t *testing.T) {
	m := NewManager(testSize, DefaultPoolSize, matter.DefaultTable())
	if err := m.Update(core.Point{}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := len(m.HotCoords()); got != 9 {
		t.Fatalf("%d hot chunks, want 9", got)
	}
	for _, off := range core.NineNeighborhood {
		c := Coord{}.Add(off)
		if m.Resident(c) == nil {
			t.Errorf("chunk %v should be hot", c)
		}
	}
}

func TestWindowCoversCanvas(t *testing.T) {
	m := NewManager(testSize, DefaultPoolSize, matter.DefaultTable())
	for _, ref := range []core.Point{{}, {X: 17, Y: -40}, {X: -100, Y: 3}, {X: 200, Y: 200}} {
		if err := m.Update(ref); err != nil {
			t.Fatalf("update %v: %v", ref, err)
		}
		w := m.Window()
		corners := []core.Point{
			w.CanvasOrigin,
			{X: w.CanvasOrigin.X + testSize - 1, Y: w.CanvasOrigin.Y + testSize - 1},
		}
		for _, p := range corners {
			if _, _, ok := w.Locate(p); !ok {
				t.Errorf("ref %v: canvas cell %v outside window starting %v", ref, p, w.Start)
			}
		}
	}
}

func TestWindowCellAccessAcrossChunkBorder(t *testing.T) {
	m := NewManager(testSize, DefaultPoolSize, matter.DefaultTable())
	if err := m.Update(core.Point{}); err != nil {
		t.Fatalf("update: %v", err)
	}
	w := m.Window()
	// Cells straddling the chunk boundary at x = size/2.
	left := core.Point{X: testSize/2 - 1, Y: 0}
	right := core.Point{X: testSize / 2, Y: 0}
	w.SetMatter(left, matter.IDSand)
	w.SetMatter(right, matter.IDWater)
	if got := w.Matter(left); got != matter.IDSand {
		t.Fatalf("left of border = %d, want sand", got)
	}
	if got := w.Matter(right); got != matter.IDWater {
		t.Fatalf("right of border = %d, want water", got)
	}
	rl, _, _ := w.Locate(left)
	rr, _, _ := w.Locate(right)
	if rl == rr {
		t.Fatal("cells across the border should land in different chunks")
	}
}

func TestEvictionRoundTripsCellState(t *testing.T) {
	// Pool of nine forces eviction as soon as the anchor moves.
	m := NewManager(testSize, 9, matter.DefaultTable())
	if err := m.Update(core.Point{}); err != nil {
		t.Fatalf("update: %v", err)
	}
	cell := core.Point{X: 3, Y: 5}
	m.Window().SetMatter(cell, matter.IDRock)

	// Walk far away so chunk (0,0) is certainly evicted, then return.
	far := core.Point{X: 10 * testSize, Y: 0}
	if err := m.Update(far); err != nil {
		t.Fatalf("update far: %v", err)
	}
	if m.Resident(Coord{0, 0}) != nil {
		t.Fatal("origin chunk should have been evicted")
	}
	if err := m.Update(core.Point{}); err != nil {
		t.Fatalf("update back: %v", err)
	}
	if got := m.Window().Matter(cell); got != matter.IDRock {
		t.Fatalf("cell after cold round trip = %d, want rock", got)
	}
}

func TestEvictionSpillsFarthestFirst(t *testing.T) {
	// Pool of ten: one spare resident, so moving the anchor one chunk east
	// needs three new chunks but frees only two of the three stale ones.
	m := NewManager(testSize, 10, matter.DefaultTable())
	if err := m.Update(core.Point{}); err != nil {
		t.Fatalf("update: %v", err)
	}
	before := m.HotCoords()

	if err := m.Update(core.Point{X: testSize}); err != nil {
		t.Fatalf("update east: %v", err)
	}
	retained := make(map[Coord]bool)
	for _, c := range m.HotCoords() {
		retained[c] = true
	}
	var evicted []Coord
	for _, c := range before {
		if !retained[c] {
			evicted = append(evicted, c)
		}
	}
	if len(evicted) != 2 {
		t.Fatalf("%d chunks evicted, want 2", len(evicted))
	}

	anchor := Coord{X: 1, Y: 0}
	dist := func(c Coord) float64 {
		return math.Hypot(float64(c.X-anchor.X), float64(c.Y-anchor.Y))
	}
	for _, e := range evicted {
		for r := range retained {
			if dist(e) < dist(r) {
				t.Errorf("evicted %v (d=%.2f) is closer to the anchor than retained %v (d=%.2f)",
					e, dist(e), r, dist(r))
			}
		}
	}
}

func TestUpdateFailsWhenNothingEvictable(t *testing.T) {
	// With fewer residents than the nine-neighborhood needs there is no
	// valid eviction target.
	m := NewManager(testSize, 4, matter.DefaultTable())
	if err := m.Update(core.Point{}); err == nil {
		t.Fatal("expected pool exhaustion error")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(testSize, DefaultPoolSize, matter.DefaultTable())
	if err := m.Update(core.Point{}); err != nil {
		t.Fatalf("update: %v", err)
	}
	cell := core.Point{X: -7, Y: 12}
	m.Window().SetMatter(cell, matter.IDLava)
	if err := m.SaveTo(dir); err != nil {
		t.Fatalf("save: %v", err)
	}

	m2 := NewManager(testSize, DefaultPoolSize, matter.DefaultTable())
	if err := m2.Update(core.Point{}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := m2.LoadFrom(dir); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := m2.Window().Matter(cell); got != matter.IDLava {
		t.Fatalf("cell after disk round trip = %d, want lava", got)
	}
}
