// Package sim steps the cellular automaton over the chunk window. Each tick
// runs a fixed pass pipeline: init, movement rounds interleaved with
// dispersion sweeps, reactions, then the finish, occupancy-bitmap and color
// passes. Passes are two-phase where cells compete for targets, so a cell
// never moves twice in one subpass and contested targets resolve by weight.
package sim

import (
	"sandworld/internal/chunk"
	"sandworld/internal/core"
	"sandworld/internal/matter"
	"sandworld/pkg/mathx"
)

// Config tunes the step pipeline.
type Config struct {
	// MovementSteps is the number of movement rounds per tick, 1 to 3.
	MovementSteps int
	// DispersionSteps caps how many cells a liquid or gas can travel
	// sideways per sweep; a matter's own dispersion rate bounds it further.
	DispersionSteps int
	// BitmapRatio is the cell-to-occupancy-bitmap downsampling factor.
	BitmapRatio int
	// Seed scrambles the per-cell reaction sampling.
	Seed uint32
}

// DefaultConfig returns the tuning the simulation ships with.
func DefaultConfig() Config {
	return Config{
		MovementSteps:   3,
		DispersionSteps: 10,
		BitmapRatio:     4,
	}
}

// Class selects one of the occupancy bitmaps kept for boundary building.
type Class int

const (
	ClassSolid Class = iota
	ClassPowder
	ClassLiquid
	numClasses
)

func (c Class) String() string {
	switch c {
	case ClassSolid:
		return "solid"
	case ClassPowder:
		return "powder"
	case ClassLiquid:
		return "liquid"
	}
	return "unknown"
}

// cellRef locates a canvas cell inside the window's chunk buffers.
type cellRef struct {
	c uint16
	i uint32
}

// Engine is the CA stepper. It owns no cells itself; each Step works in
// place on the resident buffers of the window it is given.
type Engine struct {
	cfg  Config
	size int
	tick uint32

	// Matter attributes flattened from the table for cheap per-cell reads.
	state      [matter.MaxMatters]matter.State
	weight     [matter.MaxMatters]float32
	dispersion [matter.MaxMatters]uint32
	chars      [matter.MaxMatters]matter.Characteristic
	color      [matter.MaxMatters]uint32
	reactions  [matter.MaxMatters][matter.MaxReactions]matter.Reaction
	empty      uint8

	// Per-step window view, rebuilt by bind.
	win  *chunk.Window
	refs []cellRef
	cur  [4][]uint8
	next [4][]uint8
	ovl  [4][]uint8

	// Movement claims: target canvas index -> claiming source, with the
	// source weight for densest-wins resolution.
	claims  []int32
	claimW  []float32
	claimed []int32

	// Occupancy bitmaps at canvas/BitmapRatio resolution.
	bitmapW int
	bitmaps [numClasses][]uint8
	changed [numClasses]bool
}

// NewEngine creates a stepper for a size x size canvas.
func NewEngine(size int, cfg Config, table *matter.Table) *Engine {
	if cfg.MovementSteps < 1 {
		cfg.MovementSteps = 1
	}
	if cfg.MovementSteps > 3 {
		cfg.MovementSteps = 3
	}
	if cfg.BitmapRatio < 1 {
		cfg.BitmapRatio = 1
	}
	e := &Engine{
		cfg:     cfg,
		size:    size,
		refs:    make([]cellRef, size*size),
		claims:  make([]int32, size*size),
		claimW:  make([]float32, size*size),
		bitmapW: size / cfg.BitmapRatio,
	}
	for i := range e.claims {
		e.claims[i] = -1
	}
	for c := range e.bitmaps {
		e.bitmaps[c] = make([]uint8, e.bitmapW*e.bitmapW)
	}
	e.SetTable(table)
	return e
}

// SetTable flattens the matter table into the engine's attribute arrays.
// Call it again whenever the table changes.
func (e *Engine) SetTable(table *matter.Table) {
	e.empty = table.Empty
	for i := 0; i < table.Len(); i++ {
		d := table.Get(uint8(i))
		e.state[i] = d.State
		e.weight[i] = d.Weight
		e.dispersion[i] = d.Dispersion
		e.chars[i] = d.Characteristics
		e.color[i] = d.Color
		e.reactions[i] = d.Reactions
	}
	for i := table.Len(); i < matter.MaxMatters; i++ {
		e.state[i] = matter.StateEmpty
		e.weight[i] = 0
		e.dispersion[i] = 0
		e.chars[i] = 0
		e.color[i] = 0
		e.reactions[i] = [matter.MaxReactions]matter.Reaction{}
	}
}

// Tick returns the number of completed steps.
func (e *Engine) Tick() uint32 { return e.tick }

// MovementSteps returns the configured movement rounds per tick.
func (e *Engine) MovementSteps() int { return e.cfg.MovementSteps }

// SetMovementSteps adjusts the movement rounds per tick, clamped to 1..3.
func (e *Engine) SetMovementSteps(n int) {
	if n < 1 {
		n = 1
	}
	if n > 3 {
		n = 3
	}
	e.cfg.MovementSteps = n
}

// DispersionSteps returns the configured dispersion sweep length.
func (e *Engine) DispersionSteps() int { return e.cfg.DispersionSteps }

// SetDispersionSteps adjusts the dispersion sweep length.
func (e *Engine) SetDispersionSteps(n int) {
	if n < 0 {
		n = 0
	}
	e.cfg.DispersionSteps = n
}

// Bitmap returns the occupancy bitmap of a class. Cells are 0 or 1 at
// canvas/BitmapRatio resolution, valid until the next Step.
func (e *Engine) Bitmap(c Class) []uint8 { return e.bitmaps[c] }

// BitmapSize returns the side length of the occupancy bitmaps.
func (e *Engine) BitmapSize() int { return e.bitmapW }

// Changed reports whether a class's bitmap differs from the previous tick.
func (e *Engine) Changed(c Class) bool { return e.changed[c] }

// Step advances the automaton one tick over the window's canvas.
func (e *Engine) Step(w *chunk.Window) {
	e.bind(w)

	// The first movement round always runs; dispersion sweeps bracket the
	// extra rounds with alternating bias so lateral flow has no net drift.
	e.moveOnce(0)
	e.disperse(e.tick % 2)
	if e.cfg.MovementSteps > 1 {
		e.moveOnce(1)
	}
	if e.cfg.MovementSteps > 2 {
		e.moveOnce(2)
	}
	e.disperse(1 - e.tick%2)

	e.react()
	e.finish()
	e.updateBitmaps()
	e.colorize()

	e.tick++
}

// bind builds the canvas-to-chunk cell mapping for this step.
func (e *Engine) bind(w *chunk.Window) {
	e.win = w
	s := e.size
	for y := 0; y < s; y++ {
		wy := w.CanvasOrigin.Y + y
		for x := 0; x < s; x++ {
			p := core.Point{X: w.CanvasOrigin.X + x, Y: wy}
			d := p.Sub(w.Start)
			ci := (d.Y/s)*2 + d.X/s
			e.refs[y*s+x] = cellRef{c: uint16(ci), i: uint32((d.Y%s)*s + d.X%s)}
		}
	}
	e.reslice()
}

func (e *Engine) reslice() {
	for i, r := range e.win.Chunks {
		e.cur[i] = r.Matter.Cells()
		e.next[i] = r.MatterNext.Cells()
		e.ovl[i] = r.OverlayMatter.Cells()
	}
}

// swap flips the ping-pong pair of all four window chunks.
func (e *Engine) swap() {
	for _, r := range e.win.Chunks {
		r.Swap()
	}
	e.reslice()
}

func (e *Engine) curAt(i int) uint8 {
	r := e.refs[i]
	return e.cur[r.c][r.i]
}

func (e *Engine) ovlAt(i int) uint8 {
	r := e.refs[i]
	return e.ovl[r.c][r.i]
}

func (e *Engine) setNext(i int, v uint8) {
	r := e.refs[i]
	e.next[r.c][r.i] = v
}

// copyNext seeds the next buffer with the current canvas state.
func (e *Engine) copyNext() {
	for _, r := range e.refs {
		e.next[r.c][r.i] = e.cur[r.c][r.i]
	}
}

// matterNear returns the current matter id at canvas coordinates that may
// lie outside the canvas. Off-canvas cells resolve through the window;
// beyond the window everything reads as empty.
func (e *Engine) matterNear(x, y int) uint8 {
	if uint(x) < uint(e.size) && uint(y) < uint(e.size) {
		return e.curAt(y*e.size + x)
	}
	return e.win.Matter(core.Point{X: e.win.CanvasOrigin.X + x, Y: e.win.CanvasOrigin.Y + y})
}

// effectiveNear is matterNear with the object overlay winning where present.
func (e *Engine) effectiveNear(x, y int) uint8 {
	if uint(x) < uint(e.size) && uint(y) < uint(e.size) {
		i := y*e.size + x
		if o := e.ovlAt(i); o != e.empty {
			return o
		}
		return e.curAt(i)
	}
	p := core.Point{X: e.win.CanvasOrigin.X + x, Y: e.win.CanvasOrigin.Y + y}
	if o := e.win.Overlay(p); o != e.empty {
		return o
	}
	return e.win.Matter(p)
}

// vacant reports whether canvas cell i can receive moving matter: no cell
// matter and no object pixel projected onto it.
func (e *Engine) vacant(i int) bool {
	return e.curAt(i) == e.empty && e.ovlAt(i) == e.empty
}

// sample returns a reproducible uniform [0,1) draw for a cell and reaction
// slot at the current tick.
func (e *Engine) sample(x, y, slot int) float32 {
	h := mathx.Hash2(e.cfg.Seed^e.tick, int32(x), int32(y))
	return mathx.UnitFloat(mathx.Hash32(h ^ uint32(slot)*0x9e3779b9))
}
