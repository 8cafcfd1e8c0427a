//go:build ebiten

package ui

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"sandworld/internal/core"
	"sandworld/internal/world"
)

// HUD prints the tick, reference cell, object count, brush and phase
// timings in the corner of the window.
type HUD struct {
	visible    bool
	showParams bool
}

func NewHUD() *HUD { return &HUD{visible: true} }

// Update toggles visibility on Tab and the parameter panel on P.
func (h *HUD) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		h.visible = !h.visible
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		h.showParams = !h.showParams
	}
}

// Draw paints the debug readout.
func (h *HUD) Draw(screen *ebiten.Image, w *world.World, brush string) {
	if !h.visible {
		return
	}
	t := &w.Timings
	var b strings.Builder
	fmt.Fprintf(&b,
		"tick %d  ref %d,%d  objects %d\nbrush %s\nstream %.2f  objects %.2f  sim %.2f ms\ndeform %.2f  bounds %.2f  physics %.2f ms",
		w.Tick(), w.Reference().X, w.Reference().Y, w.Objects().Len(), brush,
		t.Stream.AverageMs(), t.Objects.AverageMs(), t.Sim.AverageMs(),
		t.Deform.AverageMs(), t.Boundaries.AverageMs(), t.Physics.AverageMs(),
	)
	if h.showParams {
		writeParams(&b, w)
	}
	ebitenutil.DebugPrint(screen, b.String())
}

func writeParams(b *strings.Builder, provider core.ParameterSnapshotProvider) {
	snap := provider.ParameterSnapshot()
	for _, group := range snap.Groups {
		fmt.Fprintf(b, "\n[%s]", group.Name)
		for _, p := range group.Params {
			fmt.Fprintf(b, "\n  %s: %s", p.Label, p.Value)
		}
	}
}
