// Package render assembles the simulated canvas into RGBA pixel buffers
// for the GUI blitter.
package render

import (
	"sandworld/internal/chunk"
	"sandworld/internal/core"
)

// CanvasRGBA fills buf with the display colors of the canvas cells, row
// major from the canvas origin. buf must hold 4*Size*Size bytes. Cells
// the window cannot locate come out transparent.
func CanvasRGBA(buf []byte, win *chunk.Window) {
	s := win.Size
	for y := 0; y < s; y++ {
		for x := 0; x < s; x++ {
			p := core.Point{X: win.CanvasOrigin.X + x, Y: win.CanvasOrigin.Y + y}
			base := (y*s + x) * 4
			r, idx, ok := win.Locate(p)
			if !ok {
				buf[base] = 0
				buf[base+1] = 0
				buf[base+2] = 0
				buf[base+3] = 0
				continue
			}
			copy(buf[base:base+4], r.Display[idx*4:idx*4+4])
		}
	}
}
