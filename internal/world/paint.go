package world

import (
	"math"

	"sandworld/internal/core"
	"sandworld/internal/object"
)

// paintable reports whether id may be written over the current cell.
// Matter only goes into empty cells; erasing (painting empty) goes
// anywhere.
func (w *World) paintable(cur, id uint8) bool {
	return cur == w.table.Empty || id == w.table.Empty
}

// PaintRound writes matter id into the grid with a round brush. Cells
// outside the simulated canvas are ignored.
func (w *World) PaintRound(center core.Point, radius int, id uint8) {
	win := w.chunks.Window()
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if int(math.Round(math.Hypot(float64(dx), float64(dy)))) > radius {
				continue
			}
			p := center.Add(core.Point{X: dx, Y: dy})
			if !win.Contains(p) {
				continue
			}
			if w.paintable(win.Matter(p), id) {
				win.SetMatter(p, id)
			}
		}
	}
}

// PaintSquare writes matter id into the half-open rectangle [min, max).
func (w *World) PaintSquare(min, max core.Point, id uint8) {
	win := w.chunks.Window()
	for y := min.Y; y < max.Y; y++ {
		for x := min.X; x < max.X; x++ {
			p := core.Point{X: x, Y: y}
			if !win.Contains(p) {
				continue
			}
			if w.paintable(win.Matter(p), id) {
				win.SetMatter(p, id)
			}
		}
	}
}

// QueryMatter returns the matter id under a world cell, empty outside
// the window.
func (w *World) QueryMatter(p core.Point) uint8 {
	return w.chunks.Window().Matter(p)
}

// QueryObject returns the object whose last projection covers the world
// cell.
func (w *World) QueryObject(p core.Point) (object.Handle, bool) {
	found := object.None
	w.objects.Each(func(h object.Handle, o *object.Object) {
		if found.Valid() {
			return
		}
		for _, c := range o.Cells {
			if c.Cell == p {
				found = h
				return
			}
		}
	})
	return found, found.Valid()
}
