package object

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"

	"sandworld/internal/core"
	"sandworld/internal/physics"
)

// Pixel is one cell of a rigid pixel body. ColorIndex points into the
// palette image shared by all fragments split off the same object.
type Pixel struct {
	Matter     uint8
	ColorIndex int
	Alive      bool
}

// PixelData is the local pixel grid of an object. The palette image is
// shared between fragments, so splitting never copies color data.
type PixelData struct {
	W, H   int
	Pixels []Pixel
	Image  *image.RGBA
}

// AliveCount returns the number of pixels still part of the body.
func (pd *PixelData) AliveCount() int {
	n := 0
	for i := range pd.Pixels {
		if pd.Pixels[i].Alive {
			n++
		}
	}
	return n
}

// ColorAt returns the palette color of the pixel at index i.
func (pd *PixelData) ColorAt(i int) [4]uint8 {
	o := pd.Pixels[i].ColorIndex * 4
	return [4]uint8{pd.Image.Pix[o], pd.Image.Pix[o+1], pd.Image.Pix[o+2], pd.Image.Pix[o+3]}
}

// Object couples a pixel grid with the pose and motion state mirrored
// from its physics body every tick.
type Object struct {
	Data   *PixelData
	Matter uint8
	Pos    mgl32.Vec2
	Angle  float32
	Vel    mgl32.Vec2
	AngVel float32
	Body   physics.Handle

	// Cells is the projection of alive pixels onto world cells,
	// rebuilt each tick before the grid write.
	Cells []CellPixel
}

// CellPixel is one alive pixel placed on the cell grid.
type CellPixel struct {
	Index  int
	Cell   core.Point
	Matter uint8
	Color  [4]uint8
}

// Handle identifies an object slot in an Arena. The generation guards
// against reuse after removal.
type Handle struct {
	Index int32
	Gen   uint32
}

// None is the zero object reference.
var None = Handle{Index: -1}

func (h Handle) Valid() bool { return h.Index >= 0 }

type slot struct {
	obj *Object
	gen uint32
}

// Arena owns all live objects. Slots are reused with a bumped
// generation so stale handles resolve to nil.
type Arena struct {
	slots []slot
	free  []int32
	count int
}

func NewArena() *Arena {
	return &Arena{}
}

func (a *Arena) Insert(o *Object) Handle {
	var idx int32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		idx = int32(len(a.slots))
		a.slots = append(a.slots, slot{})
	}
	a.slots[idx].obj = o
	a.count++
	return Handle{Index: idx, Gen: a.slots[idx].gen}
}

func (a *Arena) Get(h Handle) *Object {
	if !h.Valid() || int(h.Index) >= len(a.slots) {
		return nil
	}
	s := &a.slots[h.Index]
	if s.gen != h.Gen {
		return nil
	}
	return s.obj
}

// Remove frees the slot and returns the object that occupied it, or
// nil for a stale handle.
func (a *Arena) Remove(h Handle) *Object {
	o := a.Get(h)
	if o == nil {
		return nil
	}
	s := &a.slots[h.Index]
	s.obj = nil
	s.gen++
	a.free = append(a.free, h.Index)
	a.count--
	return o
}

// Replace swaps the object in an occupied slot, keeping the handle
// valid. Used when a deformed object keeps its identity.
func (a *Arena) Replace(h Handle, o *Object) bool {
	if a.Get(h) == nil {
		return false
	}
	a.slots[h.Index].obj = o
	return true
}

func (a *Arena) Len() int { return a.count }

// Each visits live objects in slot order.
func (a *Arena) Each(fn func(Handle, *Object)) {
	for i := range a.slots {
		if a.slots[i].obj != nil {
			fn(Handle{Index: int32(i), Gen: a.slots[i].gen}, a.slots[i].obj)
		}
	}
}
