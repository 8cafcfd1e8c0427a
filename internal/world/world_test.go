package world

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"sandworld/internal/core"
	"sandworld/internal/matter"
	"sandworld/internal/object"
	"sandworld/internal/physics"
	"sandworld/internal/sim"
)

const (
	tmEmpty uint8 = iota
	tmFuel
	tmFlame
	tmRock
	tmWater
)

// testTable is a minimal rule set: fuel ignites deterministically next
// to flame, flame itself never moves or decays. With spread the burn
// product is more flame, without it the fuel just vanishes.
func testTable(spread bool) *matter.Table {
	product := tmFlame
	if !spread {
		product = tmEmpty
	}
	return &matter.Table{
		Definitions: []matter.Definition{
			{ID: tmEmpty, Name: "empty", State: matter.StateEmpty},
			{ID: tmFuel, Name: "fuel", Color: 0x8b5a2bff, Weight: 2, State: matter.StateSolid,
				Reactions: [matter.MaxReactions]matter.Reaction{
					matter.OnTouch(1.0, matter.Burning, product),
				}},
			{ID: tmFlame, Name: "flame", Color: 0xff4500ff, State: matter.StateEnergy,
				Characteristics: matter.Burning},
			{ID: tmRock, Name: "rock", Color: 0x808080ff, Weight: 3, State: matter.StateSolid},
			{ID: tmWater, Name: "water", Color: 0x1e90ffff, Weight: 1, State: matter.StateLiquid,
				Dispersion: 5},
		},
	}
}

type fakeBody struct {
	def  physics.BodyDef
	live bool
}

// fakePhysics records body traffic and echoes creation poses back, so
// tests can observe boundary and object body lifecycles without real
// integration.
type fakePhysics struct {
	bodies []fakeBody
	made   map[physics.Kind]int
}

func (f *fakePhysics) CreateBody(def physics.BodyDef) physics.Handle {
	f.bodies = append(f.bodies, fakeBody{def: def, live: true})
	if f.made == nil {
		f.made = map[physics.Kind]int{}
	}
	f.made[def.Kind]++
	return physics.Handle{Index: len(f.bodies) - 1}
}

func (f *fakePhysics) RemoveBody(h physics.Handle) {
	if h.Valid() && h.Index < len(f.bodies) {
		f.bodies[h.Index].live = false
	}
}

func (f *fakePhysics) BodyState(h physics.Handle) (physics.Pose, physics.Velocity, bool) {
	if !h.Valid() || h.Index >= len(f.bodies) || !f.bodies[h.Index].live {
		return physics.Pose{}, physics.Velocity{}, false
	}
	b := f.bodies[h.Index]
	return b.def.Pose, b.def.Velocity, true
}

func (f *fakePhysics) Step(dt float64) []physics.Contact { return nil }

func (f *fakePhysics) liveDynamic() int {
	n := 0
	for _, b := range f.bodies {
		if b.live && b.def.Kind == physics.Dynamic {
			n++
		}
	}
	return n
}

func newTestWorld(t *testing.T, table *matter.Table) (*World, *fakePhysics) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.ChunkSize = 64
	cfg.PoolSize = 12
	fp := &fakePhysics{}
	w, err := New(cfg, table, fp)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return w, fp
}

func opaqueImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 180, G: 120, B: 60, A: 255}),
		image.Point{}, draw.Src)
	return img
}

func step(t *testing.T, w *World, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := w.Step(); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}
}

func TestRockRebuildsSolidBoundaryOnce(t *testing.T) {
	w, fp := newTestWorld(t, testTable(false))
	w.PaintSquare(core.Point{X: -8, Y: -8}, core.Point{X: 8, Y: 8}, tmRock)
	step(t, w, 1)
	if w.BoundaryCount(sim.ClassSolid) == 0 {
		t.Fatal("painted rock should produce a solid boundary body")
	}
	made := fp.made[physics.Static]
	if made == 0 {
		t.Fatal("no static bodies created")
	}
	step(t, w, 3)
	if fp.made[physics.Static] != made {
		t.Fatalf("static bodies rebuilt on unchanged ticks: %d -> %d", made, fp.made[physics.Static])
	}
}

func TestWaterProducesSensorBoundary(t *testing.T) {
	w, fp := newTestWorld(t, testTable(false))
	w.PaintSquare(core.Point{X: -4, Y: -4}, core.Point{X: 4, Y: 4}, tmWater)
	step(t, w, 1)
	if w.BoundaryCount(sim.ClassLiquid) == 0 {
		t.Fatal("painted water should produce a liquid boundary body")
	}
	if fp.made[physics.Sensor] == 0 {
		t.Fatal("liquid boundaries should be sensors")
	}
}

func TestPaintOnlyIntoEmpty(t *testing.T) {
	w, _ := newTestWorld(t, testTable(false))
	p := core.Point{X: 10, Y: 10}
	w.PaintRound(p, 0, tmRock)
	w.PaintRound(p, 0, tmWater)
	if got := w.QueryMatter(p); got != tmRock {
		t.Fatalf("matter = %d, want rock; painting must not overwrite", got)
	}
	w.PaintRound(p, 0, tmEmpty)
	if got := w.QueryMatter(p); got != tmEmpty {
		t.Fatalf("matter = %d, want empty after erase", got)
	}
}

func TestQuietTickLeavesObjectAlone(t *testing.T) {
	w, _ := newTestWorld(t, testTable(false))
	h, err := w.SpawnObject(opaqueImage(5, 5), tmFuel, mgl32.Vec2{}, mgl32.Vec2{}, 0, 0)
	if err != nil {
		t.Fatalf("SpawnObject: %v", err)
	}
	body := w.Objects().Get(h).Body
	step(t, w, 3)
	if w.Objects().Len() != 1 {
		t.Fatalf("objects = %d, want 1", w.Objects().Len())
	}
	o := w.Objects().Get(h)
	if o == nil {
		t.Fatal("handle went stale without deformation")
	}
	if o.Body != body {
		t.Fatal("body rebuilt without deformation")
	}
	if o.Data.AliveCount() != 25 {
		t.Fatalf("alive = %d, want 25", o.Data.AliveCount())
	}
}

func TestObjectBurnsAwayAndDespawns(t *testing.T) {
	w, fp := newTestWorld(t, testTable(true))
	if _, err := w.SpawnObject(opaqueImage(5, 5), tmFuel, mgl32.Vec2{}, mgl32.Vec2{}, 0, 0); err != nil {
		t.Fatalf("SpawnObject: %v", err)
	}
	// A flame wall along the object's left edge ignites it; the burn
	// products are flame, so the front eats through the whole body.
	w.PaintSquare(core.Point{X: -3, Y: -2}, core.Point{X: -2, Y: 3}, tmFlame)
	step(t, w, 30)
	if w.Objects().Len() != 0 {
		t.Fatalf("objects = %d, want 0 after burning away", w.Objects().Len())
	}
	if fp.liveDynamic() != 0 {
		t.Fatalf("%d dynamic bodies left after despawn", fp.liveDynamic())
	}
}

func TestObjectSplitsWhenBurnedThrough(t *testing.T) {
	w, _ := newTestWorld(t, testTable(false))
	h, err := w.SpawnObject(opaqueImage(9, 1), tmFuel, mgl32.Vec2{}, mgl32.Vec2{}, 0, 0)
	if err != nil {
		t.Fatalf("SpawnObject: %v", err)
	}
	// One flame cell above the middle burns out the three pixels it
	// touches, cutting the bar in two.
	w.PaintRound(core.Point{Y: -1}, 0, tmFlame)
	step(t, w, 1)
	if w.Objects().Len() != 2 {
		t.Fatalf("objects = %d, want 2 after split", w.Objects().Len())
	}
	if w.Objects().Get(h) == nil {
		t.Fatal("first component should keep the original handle")
	}
	var widths []int
	var xs []float32
	w.Objects().Each(func(_ object.Handle, o *object.Object) {
		widths = append(widths, o.Data.W)
		xs = append(xs, o.Pos.X())
	})
	for i, ww := range widths {
		if ww != 3 {
			t.Fatalf("fragment %d width = %d, want 3", i, ww)
		}
	}
	// Old 9x1 center sits at local 4.5; the surviving runs center on
	// 1.5 and 7.5, so the fragments move 3 cells either way.
	for _, x := range xs {
		if x != -3 && x != 3 {
			t.Fatalf("fragment x = %v, want -3 or 3", x)
		}
	}
	step(t, w, 2)
	if w.Objects().Len() != 2 {
		t.Fatalf("objects = %d, want 2 to stay stable", w.Objects().Len())
	}
}

func TestKillPlaneDespawns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChunkSize = 64
	cfg.PoolSize = 12
	cfg.KillPlaneY = 10
	fp := &fakePhysics{}
	w, err := New(cfg, testTable(false), fp)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := w.SpawnObject(opaqueImage(3, 3), tmFuel, mgl32.Vec2{0, 20}, mgl32.Vec2{}, 0, 0); err != nil {
		t.Fatalf("SpawnObject: %v", err)
	}
	step(t, w, 1)
	if w.Objects().Len() != 0 {
		t.Fatal("object below the kill plane should despawn")
	}
	if fp.liveDynamic() != 0 {
		t.Fatal("despawn should remove the body")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w1, _ := newTestWorld(t, testTable(false))
	w1.PaintRound(core.Point{X: 10, Y: 10}, 0, tmRock)
	if _, err := w1.SpawnObject(opaqueImage(3, 3), tmFuel, mgl32.Vec2{4, 4}, mgl32.Vec2{}, 0, 0); err != nil {
		t.Fatalf("SpawnObject: %v", err)
	}
	if err := w1.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}

	w2, _ := newTestWorld(t, testTable(false))
	if err := w2.Load(dir); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := w2.QueryMatter(core.Point{X: 10, Y: 10}); got != tmRock {
		t.Fatalf("loaded matter = %d, want rock", got)
	}
	if w2.Objects().Len() != 1 {
		t.Fatalf("loaded objects = %d, want 1", w2.Objects().Len())
	}
}

func TestParameterSnapshotReflectsConfig(t *testing.T) {
	w, _ := newTestWorld(t, testTable(false))
	snap := w.ParameterSnapshot()
	if len(snap.Groups) == 0 {
		t.Fatal("snapshot has no groups")
	}
	found := false
	for _, g := range snap.Groups {
		for _, p := range g.Params {
			if p.Key == "chunk_size" {
				found = true
				if p.Value != "64" {
					t.Fatalf("chunk_size = %s, want 64", p.Value)
				}
			}
		}
	}
	if !found {
		t.Fatal("chunk_size parameter missing")
	}
}
