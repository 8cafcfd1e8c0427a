package object

import (
	"math"

	"sandworld/internal/core"
)

// shearRotate rotates an integer offset around the origin with three
// shears, so every source pixel lands on a distinct destination cell
// and rotated bodies keep no holes.
//
//	|1 -tan(a/2)| |1      0| |1 -tan(a/2)|
//	|0     1    | |sin(a) 1| |0     1    |
//
// Angles between 135 and 180 degrees distort badly, so those are
// mirrored through the origin and rotated by the remainder instead.
func shearRotate(angle float64, p core.Point) core.Point {
	x, y := float64(p.X), float64(p.Y)
	abs := math.Abs(angle)
	if abs < math.Pi && abs > 3*math.Pi/4 {
		x, y = -x, -y
		angle += math.Pi
		if angle >= 2*math.Pi {
			angle -= math.Pi
		}
	}
	alpha := -math.Tan(angle / 2)
	beta := math.Sin(angle)
	sx := math.Round(x + y*alpha)
	sy := math.Round(sx*beta + y)
	sx = math.Round(sx + sy*alpha)
	return core.Point{X: int(sx), Y: int(sy)}
}

// HalfExtent is the pixel offset of the grid center for extent n. The
// same convention places projected cells and collider vertices.
func HalfExtent(n int) int {
	return int(math.Round((float64(n)+1)/2 - 1))
}

// Project rebuilds Cells from the alive pixels of the object, rotated
// by the current angle and placed at the cell nearest the body
// position.
func (o *Object) Project() {
	pd := o.Data
	center := core.Point{
		X: int(math.Round(float64(o.Pos.X()))),
		Y: int(math.Round(float64(o.Pos.Y()))),
	}
	halfW := HalfExtent(pd.W)
	halfH := HalfExtent(pd.H)
	o.Cells = o.Cells[:0]
	for i := range pd.Pixels {
		if !pd.Pixels[i].Alive {
			continue
		}
		rel := core.Point{X: i%pd.W - halfW, Y: i/pd.W - halfH}
		cell := shearRotate(float64(o.Angle), rel).Add(center)
		o.Cells = append(o.Cells, CellPixel{
			Index:  i,
			Cell:   cell,
			Matter: pd.Pixels[i].Matter,
			Color:  pd.ColorAt(i),
		})
	}
}
