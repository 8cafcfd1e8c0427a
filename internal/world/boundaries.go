package world

import (
	"github.com/go-gl/mathgl/mgl64"

	"sandworld/internal/chunk"
	"sandworld/internal/contour"
	"sandworld/internal/object"
	"sandworld/internal/physics"
	"sandworld/internal/sim"
)

// boundaryEpsilon is the Douglas-Peucker tolerance for contour rings,
// in bitmap units.
const boundaryEpsilon = 1e-4

// rebuildBoundaries replaces the boundary bodies of every matter class
// whose occupancy bitmap changed this tick. Replacement is wholesale;
// the old bodies go before any new ring becomes a body.
func (w *World) rebuildBoundaries(win *chunk.Window) {
	classes := []struct {
		class sim.Class
		kind  physics.Kind
	}{
		{sim.ClassSolid, physics.Static},
		{sim.ClassPowder, physics.Sensor},
		{sim.ClassLiquid, physics.Sensor},
	}
	for _, c := range classes {
		if !w.engine.Changed(c.class) {
			continue
		}
		for _, h := range w.bounds[c.class] {
			w.space.RemoveBody(h)
		}
		w.bounds[c.class] = w.bounds[c.class][:0]

		bw := w.engine.BitmapSize()
		ratio := float64(w.cfg.ChunkSize) / float64(bw)
		origin := win.CanvasOrigin
		for _, ring := range contour.Rings(w.engine.Bitmap(c.class), bw, bw) {
			ring = contour.Simplify(ring, boundaryEpsilon)
			// Closed rings repeat their first vertex, so 4 points
			// is the smallest real polygon.
			if len(ring) < 4 {
				continue
			}
			verts := make([]mgl64.Vec2, len(ring))
			for i, v := range ring {
				verts[i] = mgl64.Vec2{
					v.X()*ratio + float64(origin.X),
					v.Y()*ratio + float64(origin.Y),
				}
			}
			h := w.space.CreateBody(physics.BodyDef{
				Kind:      c.kind,
				Colliders: []physics.Collider{{Ring: verts}},
			})
			w.bounds[c.class] = append(w.bounds[c.class], h)
		}
	}
}

// BoundaryCount returns the number of live boundary bodies for a class.
func (w *World) BoundaryCount(c sim.Class) int { return len(w.bounds[c]) }

// buildObjectBody creates a dynamic body from an object's alive outline.
// ok is false when no ring is big enough to collide with.
func (w *World) buildObjectBody(pd *object.PixelData, pose physics.Pose, vel physics.Velocity, mat uint8) (physics.Handle, bool) {
	cx := float64(object.HalfExtent(pd.W)) + 0.5
	cy := float64(object.HalfExtent(pd.H)) + 0.5
	var cols []physics.Collider
	for _, ring := range contour.Rings(pd.AliveBitmap(), pd.W, pd.H) {
		ring = contour.Simplify(ring, boundaryEpsilon)
		if len(ring) < 4 {
			continue
		}
		local := make([]mgl64.Vec2, len(ring))
		for i, v := range ring {
			local[i] = mgl64.Vec2{v.X() - cx, v.Y() - cy}
		}
		cols = append(cols, physics.Collider{Ring: local, Decompose: true})
	}
	if len(cols) == 0 {
		return physics.NoBody, false
	}
	density := float64(w.table.Get(mat).Weight)
	if density <= 0 {
		density = 1
	}
	h := w.space.CreateBody(physics.BodyDef{
		Kind:      physics.Dynamic,
		Pose:      pose,
		Velocity:  vel,
		Density:   density,
		Colliders: cols,
	})
	return h, true
}
