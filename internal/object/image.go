package object

import (
	"image"
	"image/color"
	"image/draw"
)

// FromImage builds a pixel grid from an image. Pixels with any alpha
// are alive and carry the given matter id.
func FromImage(img image.Image, matter uint8) *PixelData {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	pd := &PixelData{
		W:      b.Dx(),
		H:      b.Dy(),
		Pixels: make([]Pixel, b.Dx()*b.Dy()),
		Image:  rgba,
	}
	for i := range pd.Pixels {
		pd.Pixels[i] = Pixel{
			Matter:     matter,
			ColorIndex: i,
			Alive:      rgba.Pix[i*4+3] > 0,
		}
	}
	return pd
}

// NewFilled builds a solid rectangle of one matter and color.
func NewFilled(w, h int, matter uint8, c color.RGBA) *PixelData {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return FromImage(img, matter)
}

// ToImage renders the grid back to an image. Dead pixels come out
// transparent.
func (pd *PixelData) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, pd.W, pd.H))
	for i := range pd.Pixels {
		if !pd.Pixels[i].Alive {
			continue
		}
		c := pd.ColorAt(i)
		o := i * 4
		img.Pix[o] = c[0]
		img.Pix[o+1] = c[1]
		img.Pix[o+2] = c[2]
		img.Pix[o+3] = c[3]
	}
	return img
}

// AliveBitmap returns the alive mask used for contour formation and
// deformation analysis.
func (pd *PixelData) AliveBitmap() []uint8 {
	bm := make([]uint8, len(pd.Pixels))
	for i := range pd.Pixels {
		if pd.Pixels[i].Alive {
			bm[i] = 1
		}
	}
	return bm
}
