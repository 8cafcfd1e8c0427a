package contour

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// grid builds a bitmap from ASCII rows: '#' is filled, anything else empty.
func grid(rows ...string) ([]uint8, int, int) {
	h := len(rows)
	w := len(rows[0])
	bm := make([]uint8, w*h)
	for y, row := range rows {
		for x := 0; x < w; x++ {
			if row[x] == '#' {
				bm[y*w+x] = 1
			}
		}
	}
	return bm, w, h
}

func ringHasVertex(ring []mgl64.Vec2, v mgl64.Vec2) bool {
	for _, p := range ring {
		if p == v {
			return true
		}
	}
	return false
}

func TestRingsSinglePixel(t *testing.T) {
	bm, w, h := grid("#")
	rings := Rings(bm, w, h)
	if len(rings) != 1 {
		t.Fatalf("%d rings, want 1", len(rings))
	}
	r := rings[0]
	if len(r) != 5 || r[0] != r[len(r)-1] {
		t.Fatalf("ring should be a closed square, got %v", r)
	}
	for _, v := range []mgl64.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}} {
		if !ringHasVertex(r, v) {
			t.Errorf("missing corner %v in %v", v, r)
		}
	}
}

func TestRingsCollapsesCollinearEdges(t *testing.T) {
	bm, w, h := grid(
		"####",
		"####",
	)
	rings := Rings(bm, w, h)
	if len(rings) != 1 {
		t.Fatalf("%d rings, want 1", len(rings))
	}
	// A 4x2 rectangle has exactly 4 corners.
	if len(rings[0]) != 5 {
		t.Fatalf("rectangle ring = %v, want 4 corners", rings[0])
	}
	if !ringHasVertex(rings[0], mgl64.Vec2{4, 2}) {
		t.Errorf("missing far corner in %v", rings[0])
	}
}

func TestRingsHole(t *testing.T) {
	bm, w, h := grid(
		"###",
		"#.#",
		"###",
	)
	rings := Rings(bm, w, h)
	if len(rings) != 2 {
		t.Fatalf("%d rings, want outer and hole", len(rings))
	}
	// One ring is the 3x3 outline, the other the 1x1 hole.
	sizes := map[int]bool{}
	for _, r := range rings {
		sizes[len(r)] = true
		if ringHasVertex(r, mgl64.Vec2{1, 1}) != ringHasVertex(r, mgl64.Vec2{2, 2}) {
			t.Errorf("ring mixes hole and outer corners: %v", r)
		}
	}
	if !sizes[5] {
		t.Error("expected square rings of 4 corners each")
	}
}

func TestRingsSeparateComponents(t *testing.T) {
	bm, w, h := grid(
		"#.#",
		"...",
		"..#",
	)
	if rings := Rings(bm, w, h); len(rings) != 3 {
		t.Fatalf("%d rings, want 3", len(rings))
	}
}

func TestRingsEmptyBitmap(t *testing.T) {
	bm, w, h := grid("...")
	if rings := Rings(bm, w, h); len(rings) != 0 {
		t.Fatalf("empty bitmap produced %d rings", len(rings))
	}
}

func TestSimplifyDropsNearCollinear(t *testing.T) {
	line := []mgl64.Vec2{{0, 0}, {1, 0.001}, {2, -0.001}, {3, 0}, {4, 0}}
	got := Simplify(line, 0.01)
	if len(got) != 2 || got[0] != line[0] || got[1] != line[4] {
		t.Fatalf("Simplify = %v, want endpoints only", got)
	}
}

func TestSimplifyKeepsCorners(t *testing.T) {
	l := []mgl64.Vec2{{0, 0}, {2, 0}, {2, 2}}
	got := Simplify(l, 0.01)
	if len(got) != 3 {
		t.Fatalf("Simplify dropped a real corner: %v", got)
	}
}

func triangleArea(tr Triangle) float64 {
	return math.Abs(cross(tr[1].Sub(tr[0]), tr[2].Sub(tr[0]))) / 2
}

func TestTriangulateSquare(t *testing.T) {
	square := []mgl64.Vec2{{0, 0}, {2, 0}, {2, 2}, {0, 2}, {0, 0}}
	tris := Triangulate(square)
	if len(tris) != 2 {
		t.Fatalf("%d triangles, want 2", len(tris))
	}
	total := 0.0
	for _, tr := range tris {
		total += triangleArea(tr)
	}
	if math.Abs(total-4) > 1e-9 {
		t.Fatalf("triangulated area = %v, want 4", total)
	}
}

func TestTriangulateConcave(t *testing.T) {
	// L-shape, 6 corners, area 3.
	l := []mgl64.Vec2{{0, 0}, {2, 0}, {2, 1}, {1, 1}, {1, 2}, {0, 2}}
	tris := Triangulate(l)
	if len(tris) != 4 {
		t.Fatalf("%d triangles, want 4", len(tris))
	}
	total := 0.0
	for _, tr := range tris {
		total += triangleArea(tr)
	}
	if math.Abs(total-3) > 1e-9 {
		t.Fatalf("triangulated area = %v, want 3", total)
	}
}

func TestTriangulateDegenerate(t *testing.T) {
	if tris := Triangulate([]mgl64.Vec2{{0, 0}, {1, 1}}); tris != nil {
		t.Fatalf("degenerate input should yield nil, got %v", tris)
	}
}
