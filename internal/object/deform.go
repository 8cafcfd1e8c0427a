package object

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"sandworld/internal/core"
)

// Component is one 8-connected region of surviving pixels, cropped to
// its bounding box inside the parent grid.
type Component struct {
	Bitmap []uint8
	W, H   int
	Min    core.Point
}

// ConnectedComponents splits a survival bitmap into 8-connected
// regions. Components come out in row major order of their first
// pixel, so results are deterministic.
func ConnectedComponents(bitmap []uint8, w, h int) []Component {
	visited := make([]bool, len(bitmap))
	var comps []Component
	var stack []core.Point
	for start := range bitmap {
		if bitmap[start] == 0 || visited[start] {
			continue
		}
		minP := core.Point{X: start % w, Y: start / w}
		maxP := minP
		var cells []core.Point
		visited[start] = true
		stack = append(stack[:0], minP)
		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			cells = append(cells, p)
			if p.X < minP.X {
				minP.X = p.X
			}
			if p.Y < minP.Y {
				minP.Y = p.Y
			}
			if p.X > maxP.X {
				maxP.X = p.X
			}
			if p.Y > maxP.Y {
				maxP.Y = p.Y
			}
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx, ny := p.X+dx, p.Y+dy
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					ni := ny*w + nx
					if bitmap[ni] != 0 && !visited[ni] {
						visited[ni] = true
						stack = append(stack, core.Point{X: nx, Y: ny})
					}
				}
			}
		}
		cw := maxP.X - minP.X + 1
		ch := maxP.Y - minP.Y + 1
		cb := make([]uint8, cw*ch)
		for _, c := range cells {
			cb[(c.Y-minP.Y)*cw+(c.X-minP.X)] = 1
		}
		comps = append(comps, Component{Bitmap: cb, W: cw, H: ch, Min: minP})
	}
	return comps
}

// SplitByBitmap crops src to the component's bounding box. Pixels the
// component marks survive, the rest stay in the grid dead. The palette
// image is shared with the parent.
func SplitByBitmap(empty uint8, src *PixelData, comp Component) *PixelData {
	out := &PixelData{
		W:      comp.W,
		H:      comp.H,
		Pixels: make([]Pixel, comp.W*comp.H),
		Image:  src.Image,
	}
	for i := range out.Pixels {
		out.Pixels[i] = Pixel{Matter: empty}
	}
	for y := 0; y < comp.H; y++ {
		for x := 0; x < comp.W; x++ {
			i := y*comp.W + x
			px := src.Pixels[(comp.Min.Y+y)*src.W+(comp.Min.X+x)]
			px.Alive = comp.Bitmap[i] != 0
			out.Pixels[i] = px
		}
	}
	return out
}

// Fragment is one piece of a deformed object, ready to become its own
// body.
type Fragment struct {
	Data *PixelData

	// PosOffset moves the new body so its pixels stay where the
	// parent left them.
	PosOffset mgl32.Vec2
}

// Fragments rebuilds a deformed object from its survival bitmap. An
// empty result means nothing useful survived.
func Fragments(empty uint8, src *PixelData, survivors []uint8, angle float32) []Fragment {
	oldCX := float64(src.W) * 0.5
	oldCY := float64(src.H) * 0.5
	var frags []Fragment
	for _, comp := range ConnectedComponents(survivors, src.W, src.H) {
		newCX := float64(comp.Min.X) + float64(comp.W)*0.5
		newCY := float64(comp.Min.Y) + float64(comp.H)*0.5
		off := rotateVec(newCX-oldCX, newCY-oldCY, float64(angle))
		frags = append(frags, Fragment{
			Data:      SplitByBitmap(empty, src, comp),
			PosOffset: off,
		})
	}
	return frags
}

func rotateVec(x, y, angle float64) mgl32.Vec2 {
	sin, cos := math.Sincos(angle)
	return mgl32.Vec2{float32(x*cos - y*sin), float32(x*sin + y*cos)}
}
