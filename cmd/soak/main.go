// Command soak runs the world headless for a fixed number of ticks and
// reports per-phase timings. Useful for profiling streaming, the step
// pipeline and the deformation bridge without a display.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"

	"github.com/go-gl/mathgl/mgl32"

	"sandworld/internal/core"
	"sandworld/internal/matter"
	"sandworld/internal/world"
	"sandworld/pkg/mathx"
)

func main() {
	ticks := flag.Int("ticks", 600, "ticks to simulate")
	size := flag.Int("size", 256, "chunk and canvas edge length in cells")
	pool := flag.Int("pool", 12, "chunk pool capacity")
	seed := flag.Int64("seed", 42, "reaction sampling seed")
	drift := flag.Int("drift", 0, "cells to move the reference east per tick")
	flag.Parse()

	cfg := world.DefaultConfig()
	cfg.ChunkSize = *size
	cfg.PoolSize = *pool
	cfg.Sim.Seed = uint32(*seed)

	w, err := world.New(cfg, matter.DefaultTable(), nil)
	if err != nil {
		log.Fatal(err)
	}
	seedScene(w, *size, mathx.NewRNG(*seed))

	for i := 0; i < *ticks; i++ {
		if *drift != 0 {
			ref := w.Reference()
			ref.X += *drift
			w.SetReference(ref)
		}
		if err := w.Step(); err != nil {
			log.Fatalf("tick %d: %v", i, err)
		}
	}

	fmt.Printf("ticks=%d size=%d objects=%d\n", *ticks, *size, w.Objects().Len())
	fmt.Printf("  stream     %8.3f ms\n", w.Timings.Stream.AverageMs())
	fmt.Printf("  objects    %8.3f ms\n", w.Timings.Objects.AverageMs())
	fmt.Printf("  sim        %8.3f ms\n", w.Timings.Sim.AverageMs())
	fmt.Printf("  deform     %8.3f ms\n", w.Timings.Deform.AverageMs())
	fmt.Printf("  boundaries %8.3f ms\n", w.Timings.Boundaries.AverageMs())
	fmt.Printf("  physics    %8.3f ms\n", w.Timings.Physics.AverageMs())
}

// seedScene lays down a rock floor, scatters seed-driven powder and liquid
// blobs and spawns a wood plank so every phase of the step has work to do.
func seedScene(w *world.World, size int, rng *mathx.RNG) {
	half := size / 2
	floor := half - 8
	w.PaintSquare(core.Point{X: -half, Y: floor}, core.Point{X: half, Y: floor + 8}, matter.IDRock)

	blobs := []uint8{matter.IDSand, matter.IDWater, matter.IDGas}
	for i := 0; i < 8; i++ {
		center := core.Point{
			X: rng.Range(-half+16, half-16),
			Y: rng.Range(-half+16, floor-16),
		}
		w.PaintRound(center, rng.Range(6, 14), blobs[rng.Uint8n(uint8(len(blobs)))])
	}
	lavaX := half / 3
	if rng.Bool() {
		lavaX = -lavaX
	}
	w.PaintRound(core.Point{X: lavaX, Y: floor - 6}, 4, matter.IDLava)

	plank := image.NewRGBA(image.Rect(0, 0, 24, 6))
	draw.Draw(plank, plank.Bounds(),
		image.NewUniform(color.RGBA{R: 0x8b, G: 0x5a, B: 0x2b, A: 0xff}),
		image.Point{}, draw.Src)
	if _, err := w.SpawnObject(plank, matter.IDWood, mgl32.Vec2{0, float32(-half / 2)}, mgl32.Vec2{}, 0, 0); err != nil {
		log.Fatalf("spawn plank: %v", err)
	}
}
