package core

// ByteGrid stores a 2D grid of byte-sized cell values in row-major order.
// It is the backing storage for matter-id and overlay buffers.
type ByteGrid struct {
	W, H int
	data []uint8
}

// NewByteGrid allocates a grid with the given dimensions.
func NewByteGrid(w, h int) *ByteGrid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &ByteGrid{W: w, H: h, data: make([]uint8, w*h)}
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *ByteGrid) Cells() []uint8 { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *ByteGrid) Index(x, y int) int { return y*g.W + x }

// At returns the value at (x, y). Bounds are the caller's responsibility.
func (g *ByteGrid) At(x, y int) uint8 { return g.data[y*g.W+x] }

// Set writes the value at (x, y).
func (g *ByteGrid) Set(x, y int, v uint8) { g.data[y*g.W+x] = v }

// Fill sets every cell to v.
func (g *ByteGrid) Fill(v uint8) {
	for i := range g.data {
		g.data[i] = v
	}
}

// CopyFrom copies the contents of src. Grids must have equal dimensions.
func (g *ByteGrid) CopyFrom(src *ByteGrid) {
	copy(g.data, src.data)
}

// Clear fills the grid with zeros.
func (g *ByteGrid) Clear() {
	g.Fill(0)
}

// ColorBuffer stores one packed 0xRRGGBBAA value per cell in row-major order.
type ColorBuffer struct {
	W, H int
	data []uint32
}

// NewColorBuffer allocates a color buffer with the given dimensions.
func NewColorBuffer(w, h int) *ColorBuffer {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &ColorBuffer{W: w, H: h, data: make([]uint32, w*h)}
}

// Cells exposes the backing slice.
func (b *ColorBuffer) Cells() []uint32 { return b.data }

// At returns the packed color at (x, y).
func (b *ColorBuffer) At(x, y int) uint32 { return b.data[y*b.W+x] }

// Set writes the packed color at (x, y).
func (b *ColorBuffer) Set(x, y int, v uint32) { b.data[y*b.W+x] = v }

// Clear resets every cell to zero (transparent).
func (b *ColorBuffer) Clear() {
	for i := range b.data {
		b.data[i] = 0
	}
}
