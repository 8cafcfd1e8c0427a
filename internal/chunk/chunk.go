// Package chunk manages the infinite world as a grid of fixed-size chunks.
// A small pool of resident cell buffers is rotated between chunks as the
// camera moves; everything else lives as cold RGBA images, on disk or in
// memory.
package chunk

import (
	"fmt"
	"image"

	"sandworld/internal/core"
)

// Coord addresses a chunk. Chunk (cx, cy) covers world cells
// [cx*S - S/2, cx*S + S/2) x [cy*S - S/2, cy*S + S/2) where S is the chunk
// size, so chunk (0, 0) is centered on the world origin.
type Coord struct {
	X int
	Y int
}

func (c Coord) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

// Add returns c offset by the given point.
func (c Coord) Add(p core.Point) Coord { return Coord{c.X + p.X, c.Y + p.Y} }

// Origin returns the world cell coordinate of the chunk's top-left cell.
func (c Coord) Origin(size int) core.Point {
	return core.Point{X: c.X*size - size/2, Y: c.Y*size - size/2}
}

// CellToChunk returns the coordinate of the chunk containing world cell p.
func CellToChunk(p core.Point, size int) Coord {
	return Coord{X: floorDiv(p.X+size/2, size), Y: floorDiv(p.Y+size/2, size)}
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// Resident holds the hot cell buffers of a chunk that is currently
// simulated. Matter and MatterNext are the ping-pong pair the step passes
// flip between; OverlayMatter and OverlayColor carry the pixel-object
// projection for one tick; Display is the RGBA frame the color pass renders.
type Resident struct {
	Matter        *core.ByteGrid
	MatterNext    *core.ByteGrid
	OverlayMatter *core.ByteGrid
	OverlayColor  *core.ColorBuffer
	Display       []byte
}

// NewResident allocates hot buffers for a size x size chunk.
func NewResident(size int) *Resident {
	return &Resident{
		Matter:        core.NewByteGrid(size, size),
		MatterNext:    core.NewByteGrid(size, size),
		OverlayMatter: core.NewByteGrid(size, size),
		OverlayColor:  core.NewColorBuffer(size, size),
		Display:       make([]byte, size*size*4),
	}
}

// Swap flips the matter ping-pong pair.
func (r *Resident) Swap() {
	r.Matter, r.MatterNext = r.MatterNext, r.Matter
}

// Reset zeroes all buffers so the resident can be reused for another chunk.
func (r *Resident) Reset() {
	r.Matter.Clear()
	r.MatterNext.Clear()
	r.OverlayMatter.Clear()
	r.OverlayColor.Clear()
	for i := range r.Display {
		r.Display[i] = 0
	}
}

// WorldChunk is one chunk of the infinite world. While cold its state is the
// RGBA image alone; while hot the image is stale and Hot holds the truth.
type WorldChunk struct {
	Coord Coord
	Image *image.RGBA
	Hot   *Resident
}

// NewWorldChunk creates an empty cold chunk.
func NewWorldChunk(c Coord, size int) *WorldChunk {
	return &WorldChunk{Coord: c, Image: image.NewRGBA(image.Rect(0, 0, size, size))}
}
