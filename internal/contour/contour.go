// Package contour extracts boundary rings from occupancy bitmaps and
// prepares them for collider construction: rectilinear ring tracing,
// Ramer-Douglas-Peucker simplification and ear-clipping triangulation.
package contour

import (
	"github.com/go-gl/mathgl/mgl64"
)

type edge struct {
	from mgl64.Vec2
	to   mgl64.Vec2
}

// Rings traces the boundaries of all filled regions in a w x h bitmap
// (non-zero means filled) and returns them as closed rings of pixel-corner
// coordinates; each ring repeats its first vertex at the end. Outer rings
// wind clockwise in the y-down bitmap frame, holes counter-clockwise.
// Collinear run vertices are collapsed.
func Rings(bitmap []uint8, w, h int) [][]mgl64.Vec2 {
	filled := func(x, y int) bool {
		return x >= 0 && x < w && y >= 0 && y < h && bitmap[y*w+x] != 0
	}

	// Every filled cell side facing an empty cell contributes one directed
	// edge, oriented so the filled cell lies to the ring's inside.
	edges := make(map[mgl64.Vec2][]edge)
	n := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !filled(x, y) {
				continue
			}
			fx, fy := float64(x), float64(y)
			if !filled(x, y-1) {
				addEdge(edges, mgl64.Vec2{fx, fy}, mgl64.Vec2{fx + 1, fy})
				n++
			}
			if !filled(x+1, y) {
				addEdge(edges, mgl64.Vec2{fx + 1, fy}, mgl64.Vec2{fx + 1, fy + 1})
				n++
			}
			if !filled(x, y+1) {
				addEdge(edges, mgl64.Vec2{fx + 1, fy + 1}, mgl64.Vec2{fx, fy + 1})
				n++
			}
			if !filled(x-1, y) {
				addEdge(edges, mgl64.Vec2{fx, fy + 1}, mgl64.Vec2{fx, fy})
				n++
			}
		}
	}

	var rings [][]mgl64.Vec2
	for n > 0 {
		start := anyEdge(edges)
		ring := []mgl64.Vec2{start.from}
		cur := start
		for {
			removeEdge(edges, cur)
			n--
			if cur.to == start.from {
				break
			}
			ring = append(ring, cur.to)
			cur = nextEdge(edges, cur)
		}
		ring = collapseCollinear(ring)
		ring = append(ring, ring[0])
		rings = append(rings, ring)
	}
	return rings
}

func addEdge(edges map[mgl64.Vec2][]edge, from, to mgl64.Vec2) {
	edges[from] = append(edges[from], edge{from, to})
}

func removeEdge(edges map[mgl64.Vec2][]edge, e edge) {
	out := edges[e.from]
	for i := range out {
		if out[i] == e {
			out[i] = out[len(out)-1]
			out = out[:len(out)-1]
			break
		}
	}
	if len(out) == 0 {
		delete(edges, e.from)
	} else {
		edges[e.from] = out
	}
}

// anyEdge picks a deterministic starting edge: smallest (y, x) origin.
func anyEdge(edges map[mgl64.Vec2][]edge) edge {
	var best edge
	found := false
	for _, out := range edges {
		for _, e := range out {
			if !found || less(e.from, best.from) || (e.from == best.from && less(e.to, best.to)) {
				best = e
				found = true
			}
		}
	}
	return best
}

func less(a, b mgl64.Vec2) bool {
	if a.Y() != b.Y() {
		return a.Y() < b.Y()
	}
	return a.X() < b.X()
}

// nextEdge continues the ring from cur.to. At a saddle corner two outgoing
// edges exist; the sharper right turn is taken so the ring stays on the
// component it started on.
func nextEdge(edges map[mgl64.Vec2][]edge, cur edge) edge {
	out := edges[cur.to]
	if len(out) == 1 {
		return out[0]
	}
	in := cur.to.Sub(cur.from)
	best := out[0]
	bestCross := cross(in, best.to.Sub(best.from))
	for _, e := range out[1:] {
		if c := cross(in, e.to.Sub(e.from)); c > bestCross {
			best, bestCross = e, c
		}
	}
	return best
}

func cross(a, b mgl64.Vec2) float64 {
	return a.X()*b.Y() - a.Y()*b.X()
}

func collapseCollinear(ring []mgl64.Vec2) []mgl64.Vec2 {
	if len(ring) < 3 {
		return ring
	}
	out := make([]mgl64.Vec2, 0, len(ring))
	for i := range ring {
		prev := ring[(i+len(ring)-1)%len(ring)]
		next := ring[(i+1)%len(ring)]
		if cross(ring[i].Sub(prev), next.Sub(ring[i])) != 0 {
			out = append(out, ring[i])
		}
	}
	return out
}
