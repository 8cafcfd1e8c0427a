// Package world sequences one simulation tick: chunk streaming, object
// overlay writes, the cellular automaton step, object reconciliation,
// boundary rebuilds and the physics step. A single goroutine drives the
// tick; only the deformation analysis fans out.
package world

import (
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/errgroup"

	"sandworld/internal/chunk"
	"sandworld/internal/core"
	"sandworld/internal/matter"
	"sandworld/internal/object"
	"sandworld/internal/physics"
	"sandworld/internal/sim"
)

// Config tunes the world.
type Config struct {
	// ChunkSize is the chunk edge length in cells; the simulated canvas
	// has the same edge.
	ChunkSize int
	// PoolSize is the number of chunks that can be hot at once.
	PoolSize int
	// Sim tunes the automaton step pipeline.
	Sim sim.Config
	// Gravity pulls dynamic bodies down the +y axis, in cells/s^2.
	Gravity float32
	// TPS is the tick rate the physics dt derives from.
	TPS int
	// KillPlaneY despawns objects whose body falls below it.
	KillPlaneY float32
	// DespawnCount despawns objects with this many alive pixels or fewer.
	DespawnCount int
}

// DefaultConfig returns the tuning the simulation ships with.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    512,
		PoolSize:     chunk.DefaultPoolSize,
		Sim:          sim.DefaultConfig(),
		Gravity:      300,
		TPS:          60,
		KillPlaneY:   4096,
		DespawnCount: 4,
	}
}

// Timings holds per-phase performance timers, read by the HUD and the
// soak runner.
type Timings struct {
	Stream     core.PerfTimer
	Objects    core.PerfTimer
	Sim        core.PerfTimer
	Deform     core.PerfTimer
	Boundaries core.PerfTimer
	Physics    core.PerfTimer
}

// World owns the streaming manager, the CA engine, the object arena and
// the physics space, and runs them in tick order.
type World struct {
	cfg     Config
	table   *matter.Table
	chunks  *chunk.Manager
	engine  *sim.Engine
	space   physics.Engine
	objects *object.Arena

	ref       core.Point
	occupants [][]object.Handle
	bounds    [3][]physics.Handle
	contacts  []physics.Contact

	Timings Timings
}

// New builds a world around the given matter table. A nil space gets the
// default Chipmunk-backed one.
func New(cfg Config, table *matter.Table, space physics.Engine) (*World, error) {
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("world: %w", err)
	}
	if cfg.DespawnCount <= 0 {
		cfg.DespawnCount = 4
	}
	if cfg.TPS <= 0 {
		cfg.TPS = 60
	}
	if space == nil {
		space = physics.NewSpace(mgl32.Vec2{0, cfg.Gravity})
	}
	w := &World{
		cfg:       cfg,
		table:     table,
		chunks:    chunk.NewManager(cfg.ChunkSize, cfg.PoolSize, table),
		engine:    sim.NewEngine(cfg.ChunkSize, cfg.Sim, table),
		space:     space,
		objects:   object.NewArena(),
		occupants: make([][]object.Handle, cfg.ChunkSize*cfg.ChunkSize),
	}
	if err := w.chunks.Update(w.ref); err != nil {
		return nil, err
	}
	return w, nil
}

// Table returns the matter table the world simulates with.
func (w *World) Table() *matter.Table { return w.table }

// Chunks returns the streaming manager, for rendering and persistence.
func (w *World) Chunks() *chunk.Manager { return w.chunks }

// Objects returns the pixel-object arena.
func (w *World) Objects() *object.Arena { return w.objects }

// Tick returns the number of completed steps.
func (w *World) Tick() uint32 { return w.engine.Tick() }

// Engine returns the CA stepper, for HUD parameter wiring.
func (w *World) Engine() *sim.Engine { return w.engine }

// Contacts returns the body contacts seen during the last Step.
func (w *World) Contacts() []physics.Contact { return w.contacts }

// Reference returns the world cell the simulated canvas is centered on.
func (w *World) Reference() core.Point { return w.ref }

// SetReference moves the simulated region. Streaming catches up on the
// next Step.
func (w *World) SetReference(p core.Point) { w.ref = p }

// ReloadTable pushes table changes into the step engine. Call after
// AddOrUpdate or Remove.
func (w *World) ReloadTable() { w.engine.SetTable(w.table) }

// Step advances the world one tick.
func (w *World) Step() error {
	w.Timings.Stream.Start()
	if err := w.chunks.Update(w.ref); err != nil {
		return err
	}
	w.Timings.Stream.Stop()
	win := w.chunks.Window()

	w.Timings.Objects.Start()
	w.writeObjects(win)
	w.Timings.Objects.Stop()

	w.Timings.Sim.Start()
	w.engine.Step(win)
	w.Timings.Sim.Stop()

	w.Timings.Deform.Start()
	marks := w.analyzeObjects(win)
	w.clearObjects(win)
	w.applyDeformations(marks)
	w.Timings.Deform.Stop()

	w.Timings.Boundaries.Start()
	w.rebuildBoundaries(win)
	w.Timings.Boundaries.Stop()

	w.Timings.Physics.Start()
	w.contacts = w.space.Step(1 / float64(w.cfg.TPS))
	w.syncPoses()
	w.Timings.Physics.Stop()
	return nil
}

// canvasIndex maps a cell known to be on the canvas to its flat index.
func (w *World) canvasIndex(win *chunk.Window, p core.Point) int {
	l := p.Sub(win.CanvasOrigin)
	return l.Y*w.cfg.ChunkSize + l.X
}

// writeObjects projects every object onto the grid: overlay matter and
// color for the automaton, occupant entries for reconciliation.
func (w *World) writeObjects(win *chunk.Window) {
	w.objects.Each(func(h object.Handle, o *object.Object) {
		o.Project()
		for _, c := range o.Cells {
			if !win.Contains(c.Cell) {
				continue
			}
			win.SetOverlay(c.Cell, c.Matter, packColor(c.Color))
			i := w.canvasIndex(win, c.Cell)
			w.occupants[i] = append(w.occupants[i], h)
		}
	})
}

func packColor(c [4]uint8) uint32 {
	return uint32(c[0])<<24 | uint32(c[1])<<16 | uint32(c[2])<<8 | uint32(c[3])
}

func (w *World) hasOccupant(i int, h object.Handle) bool {
	for _, e := range w.occupants[i] {
		if e == h {
			return true
		}
	}
	return false
}

// deformation is one object the automaton bit into this tick. A nil
// survivors bitmap means too little is left and the object despawns.
type deformation struct {
	h         object.Handle
	o         *object.Object
	survivors []uint8
}

// analyzeObjects re-reads the overlay under every projected cell and
// decides which objects deformed. Objects are independent, so the scan
// fans out; results commit serially afterwards.
func (w *World) analyzeObjects(win *chunk.Window) []deformation {
	type item struct {
		h object.Handle
		o *object.Object
	}
	var items []item
	w.objects.Each(func(h object.Handle, o *object.Object) {
		items = append(items, item{h, o})
	})

	results := make([]*deformation, len(items))
	var g errgroup.Group
	for i := range items {
		i := i
		g.Go(func() error {
			h, o := items[i].h, items[i].o
			survivors := make([]uint8, len(o.Data.Pixels))
			alive := len(o.Cells)
			deformed := false
			for _, c := range o.Cells {
				// Deformation can only happen on the canvas.
				if !win.Contains(c.Cell) {
					continue
				}
				idx := w.canvasIndex(win, c.Cell)
				if w.hasOccupant(idx, h) && win.Overlay(c.Cell) != w.table.Empty {
					survivors[c.Index] = 1
				} else {
					alive--
					deformed = true
				}
			}
			switch {
			case alive <= w.cfg.DespawnCount:
				results[i] = &deformation{h: h, o: o}
			case deformed:
				results[i] = &deformation{h: h, o: o, survivors: survivors}
			}
			return nil
		})
	}
	g.Wait()

	var marks []deformation
	for _, r := range results {
		if r != nil {
			marks = append(marks, *r)
		}
	}
	return marks
}

// clearObjects removes this tick's overlay and occupant entries. Only
// the cells objects actually touched are cleared; objects never cover
// the whole grid, so this beats wiping the buffers.
func (w *World) clearObjects(win *chunk.Window) {
	w.objects.Each(func(_ object.Handle, o *object.Object) {
		for _, c := range o.Cells {
			if !win.Contains(c.Cell) {
				continue
			}
			win.SetOverlay(c.Cell, w.table.Empty, 0)
			i := w.canvasIndex(win, c.Cell)
			w.occupants[i] = w.occupants[i][:0]
		}
	})
}

// applyDeformations despawns destroyed objects and splits deformed ones
// into their surviving connected components. The first component keeps
// the object's handle; the rest spawn fresh.
func (w *World) applyDeformations(marks []deformation) {
	for _, d := range marks {
		if d.survivors == nil {
			w.despawn(d.h)
			continue
		}
		w.space.RemoveBody(d.o.Body)
		frags := object.Fragments(w.table.Empty, d.o.Data, d.survivors, d.o.Angle)
		kept := false
		for _, f := range frags {
			pos := d.o.Pos.Add(f.PosOffset)
			body, ok := w.buildObjectBody(f.Data, physics.Pose{Pos: pos, Angle: d.o.Angle},
				physics.Velocity{Linear: d.o.Vel, Angular: d.o.AngVel}, d.o.Matter)
			if !ok {
				continue
			}
			no := &object.Object{
				Data:   f.Data,
				Matter: d.o.Matter,
				Pos:    pos,
				Angle:  d.o.Angle,
				Vel:    d.o.Vel,
				AngVel: d.o.AngVel,
				Body:   body,
			}
			if !kept {
				w.objects.Replace(d.h, no)
				kept = true
			} else {
				w.objects.Insert(no)
			}
		}
		if !kept {
			w.objects.Remove(d.h)
		}
	}
}

func (w *World) despawn(h object.Handle) {
	if o := w.objects.Remove(h); o != nil {
		w.space.RemoveBody(o.Body)
	}
}

// syncPoses reads bodies back into objects and despawns anything past
// the kill plane.
func (w *World) syncPoses() {
	var doomed []object.Handle
	w.objects.Each(func(h object.Handle, o *object.Object) {
		pose, vel, ok := w.space.BodyState(o.Body)
		if !ok {
			return
		}
		o.Pos = pose.Pos
		o.Angle = pose.Angle
		o.Vel = vel.Linear
		o.AngVel = vel.Angular
		if o.Pos.Y() > w.cfg.KillPlaneY {
			doomed = append(doomed, h)
		}
	})
	for _, h := range doomed {
		w.despawn(h)
	}
}

// SpawnObject places a pixel object built from an image. Matter sets the
// substance every alive pixel simulates as.
func (w *World) SpawnObject(img image.Image, mat uint8, pos mgl32.Vec2, vel mgl32.Vec2, angle, angVel float32) (object.Handle, error) {
	return w.spawn(object.FromImage(img, mat), mat, pos, vel, angle, angVel)
}

func (w *World) spawn(pd *object.PixelData, mat uint8, pos mgl32.Vec2, vel mgl32.Vec2, angle, angVel float32) (object.Handle, error) {
	body, ok := w.buildObjectBody(pd, physics.Pose{Pos: pos, Angle: angle},
		physics.Velocity{Linear: vel, Angular: angVel}, mat)
	if !ok {
		return object.None, fmt.Errorf("world: object has no usable outline")
	}
	o := &object.Object{
		Data:   pd,
		Matter: mat,
		Pos:    pos,
		Angle:  angle,
		Vel:    vel,
		AngVel: angVel,
		Body:   body,
	}
	return w.objects.Insert(o), nil
}
