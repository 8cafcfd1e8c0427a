//go:build !ebiten

package ui

import "sandworld/internal/world"

// HUD is a placeholder for headless builds.
type HUD struct{}

func NewHUD() *HUD { return &HUD{} }

// Update is a no-op placeholder.
func (h *HUD) Update() {}

// Draw is a no-op placeholder to satisfy the interface shape.
func (h *HUD) Draw(any, *world.World, string) {}
