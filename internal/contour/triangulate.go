package contour

import "github.com/go-gl/mathgl/mgl64"

// Triangle is one triangle of a decomposed polygon.
type Triangle [3]mgl64.Vec2

// Triangulate decomposes a simple polygon into triangles by ear clipping.
// The ring may be open or closed (last vertex equal to the first) and may
// wind either way. Degenerate input yields nil.
func Triangulate(ring []mgl64.Vec2) []Triangle {
	poly := append([]mgl64.Vec2(nil), ring...)
	if len(poly) > 1 && poly[0] == poly[len(poly)-1] {
		poly = poly[:len(poly)-1]
	}
	if len(poly) < 3 {
		return nil
	}
	// Work on a counter-clockwise copy so ear tests are uniform.
	if signedArea(poly) < 0 {
		for i, j := 0, len(poly)-1; i < j; i, j = i+1, j-1 {
			poly[i], poly[j] = poly[j], poly[i]
		}
	}

	var tris []Triangle
	for len(poly) > 3 {
		clipped := false
		for i := 0; i < len(poly); i++ {
			a := poly[(i+len(poly)-1)%len(poly)]
			b := poly[i]
			c := poly[(i+1)%len(poly)]
			if !isEar(poly, a, b, c) {
				continue
			}
			tris = append(tris, Triangle{a, b, c})
			poly = append(poly[:i], poly[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			// Degenerate remainder (collinear points, self touch).
			return tris
		}
	}
	return append(tris, Triangle{poly[0], poly[1], poly[2]})
}

func signedArea(poly []mgl64.Vec2) float64 {
	area := 0.0
	for i := range poly {
		j := (i + 1) % len(poly)
		area += poly[i].X()*poly[j].Y() - poly[j].X()*poly[i].Y()
	}
	return area / 2
}

func isEar(poly []mgl64.Vec2, a, b, c mgl64.Vec2) bool {
	if cross(b.Sub(a), c.Sub(b)) <= 0 {
		return false // reflex or collinear corner
	}
	for _, p := range poly {
		if p == a || p == b || p == c {
			continue
		}
		if pointInTriangle(p, a, b, c) {
			return false
		}
	}
	return true
}

func pointInTriangle(p, a, b, c mgl64.Vec2) bool {
	d1 := cross(b.Sub(a), p.Sub(a))
	d2 := cross(c.Sub(b), p.Sub(b))
	d3 := cross(a.Sub(c), p.Sub(c))
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}
