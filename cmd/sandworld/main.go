//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"sandworld/internal/app"
	"sandworld/internal/matter"
	"sandworld/internal/world"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	wcfg := world.DefaultConfig()
	wcfg.ChunkSize = cfg.Size
	wcfg.TPS = cfg.TPS
	wcfg.Sim.Seed = uint32(cfg.Seed)

	w, err := world.New(wcfg, matter.DefaultTable(), nil)
	if err != nil {
		log.Fatal(err)
	}
	if err := w.Load(cfg.Map); err != nil {
		log.Printf("load %s: %v (starting empty)", cfg.Map, err)
	}

	game := app.New(w, cfg)

	ebiten.SetWindowTitle("sandworld")
	ebiten.SetTPS(ebiten.SyncWithFPS)
	ebiten.SetWindowSize(cfg.Size*cfg.Scale, cfg.Size*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
