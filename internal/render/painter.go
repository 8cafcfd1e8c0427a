//go:build ebiten

package render

import (
	"github.com/hajimehoshi/ebiten/v2"

	"sandworld/internal/chunk"
)

// CanvasPainter uploads the simulated canvas into a single texture and
// draws it scaled.
type CanvasPainter struct {
	size int
	img  *ebiten.Image
	buf  []byte
}

// NewCanvasPainter allocates a painter for a size x size canvas.
func NewCanvasPainter(size int) *CanvasPainter {
	return &CanvasPainter{
		size: size,
		img:  ebiten.NewImage(size, size),
		buf:  make([]byte, 4*size*size),
	}
}

// Blit assembles the window's display buffers and draws them onto dst.
func (p *CanvasPainter) Blit(dst *ebiten.Image, win *chunk.Window, scale int) {
	if win.Size != p.size {
		return
	}
	CanvasRGBA(p.buf, win)
	p.img.WritePixels(p.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(p.img, op)
}
