package chunk

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"

	"sandworld/internal/matter"
)

// FileName returns the map file name for a chunk, "chunk_<x>_<y>.png".
func FileName(c Coord) string {
	return fmt.Sprintf("chunk_%d_%d.png", c.X, c.Y)
}

// ParseFileName extracts the chunk coordinate from a map file name. The
// second return value is false when the name is not a chunk file.
func ParseFileName(name string) (Coord, bool) {
	var c Coord
	n, err := fmt.Sscanf(name, "chunk_%d_%d.png", &c.X, &c.Y)
	if err != nil || n != 2 {
		return Coord{}, false
	}
	return c, true
}

// LoadImage reads a chunk image from path. A missing or unreadable file is
// not an error: the world simply has nothing there yet, so an empty image of
// the right size is returned instead.
func LoadImage(path string, size int) *image.RGBA {
	f, err := os.Open(path)
	if err != nil {
		log.Printf("chunk: %v, loading empty chunk", err)
		return image.NewRGBA(image.Rect(0, 0, size, size))
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		log.Printf("chunk: decode %s: %v, loading empty chunk", path, err)
		return image.NewRGBA(image.Rect(0, 0, size, size))
	}
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Bounds().Dx() != size || rgba.Bounds().Dy() != size {
		rgba = image.NewRGBA(image.Rect(0, 0, size, size))
		b := img.Bounds()
		for y := 0; y < size && y < b.Dy(); y++ {
			for x := 0; x < size && x < b.Dx(); x++ {
				rgba.Set(x, y, img.At(b.Min.X+x, b.Min.Y+y))
			}
		}
	}
	return rgba
}

// SaveImage writes a chunk image as PNG.
func SaveImage(path string, img *image.RGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("chunk: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("chunk: encode %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Decode fills the resident's matter grids from the chunk image. Cell
// matter is identified by exact color match against the table; unknown
// colors decode as empty. Both halves of the ping-pong pair receive the
// data so the first step sees a consistent state.
func Decode(r *Resident, img *image.RGBA, table *matter.Table) {
	cur := r.Matter.Cells()
	next := r.MatterNext.Cells()
	for i := range cur {
		o := i * 4
		c := uint32(img.Pix[o])<<24 | uint32(img.Pix[o+1])<<16 |
			uint32(img.Pix[o+2])<<8 | uint32(img.Pix[o+3])
		id := table.FindByColor(c)
		cur[i] = id
		next[i] = id
	}
}

// Encode renders the resident's matter grid back into the chunk image using
// the table's definition colors.
func Encode(img *image.RGBA, r *Resident, table *matter.Table) {
	cur := r.Matter.Cells()
	for i, id := range cur {
		c := table.Get(id).Color
		o := i * 4
		img.Pix[o] = uint8(c >> 24)
		img.Pix[o+1] = uint8(c >> 16)
		img.Pix[o+2] = uint8(c >> 8)
		img.Pix[o+3] = uint8(c)
	}
}
