//go:build ebiten

package app

import (
	"image"
	"image/draw"
	"log"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"sandworld/internal/core"
	"sandworld/internal/render"
	"sandworld/internal/ui"
	"sandworld/internal/world"
)

// Game adapts a world to the ebiten.Game interface: painting, panning,
// object placement and the tick loop.
type Game struct {
	world   *world.World
	cfg     *Config
	painter *render.CanvasPainter
	hud     *ui.HUD

	steps    *core.FixedStep
	brush    uint8
	radius   int
	paused   bool
	tickOnce bool
}

// New constructs a Game for the provided world.
func New(w *world.World, cfg *Config) *Game {
	if cfg.Scale < 1 {
		cfg.Scale = 1
	}
	return &Game{
		world:   w,
		cfg:     cfg,
		painter: render.NewCanvasPainter(cfg.Size),
		hud:     ui.NewHUD(),
		steps:   core.NewFixedStep(cfg.TPS),
		brush:   1,
		radius:  4,
	}
}

// Update handles per-frame input and advances the world when a tick is due.
func (g *Game) Update() error {
	stepDue := g.steps.ShouldStep()
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}

	g.pan()
	g.pickBrush()
	g.paint()

	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		g.spawnAtCursor()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		if err := g.world.Save(g.cfg.Map); err != nil {
			log.Printf("save: %v", err)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		if err := g.world.Load(g.cfg.Map); err != nil {
			log.Printf("load: %v", err)
		}
	}

	g.hud.Update()

	if g.tickOnce {
		g.tickOnce = false
		return g.world.Step()
	}
	if !g.paused && stepDue {
		return g.world.Step()
	}
	return nil
}

func (g *Game) pan() {
	speed := 4
	if ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		speed = 16
	}
	ref := g.world.Reference()
	if ebiten.IsKeyPressed(ebiten.KeyLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		ref.X -= speed
	}
	if ebiten.IsKeyPressed(ebiten.KeyRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		ref.X += speed
	}
	if ebiten.IsKeyPressed(ebiten.KeyUp) || ebiten.IsKeyPressed(ebiten.KeyW) {
		ref.Y -= speed
	}
	if ebiten.IsKeyPressed(ebiten.KeyDown) || ebiten.IsKeyPressed(ebiten.KeyS) {
		ref.Y += speed
	}
	g.world.SetReference(ref)
}

func (g *Game) pickBrush() {
	for i := 0; i < 10; i++ {
		if inpututil.IsKeyJustPressed(ebiten.KeyDigit0 + ebiten.Key(i)) {
			if i < g.world.Table().Len() {
				g.brush = uint8(i)
			}
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) && g.radius > 0 {
		g.radius--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		g.radius++
	}
}

func (g *Game) paint() {
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		g.world.PaintRound(g.cursorCell(), g.radius, g.brush)
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		g.world.PaintRound(g.cursorCell(), g.radius, g.world.Table().Empty)
	}
}

func (g *Game) spawnAtCursor() {
	if g.brush == g.world.Table().Empty {
		return
	}
	const edge = 12
	img := image.NewRGBA(image.Rect(0, 0, edge, edge))
	draw.Draw(img, img.Bounds(), image.NewUniform(g.world.Table().Get(g.brush).RGBA()),
		image.Point{}, draw.Src)
	cell := g.cursorCell()
	_, err := g.world.SpawnObject(img, g.brush,
		mgl32.Vec2{float32(cell.X), float32(cell.Y)}, mgl32.Vec2{}, 0, 0)
	if err != nil {
		log.Printf("spawn: %v", err)
	}
}

func (g *Game) cursorCell() core.Point {
	mx, my := ebiten.CursorPosition()
	origin := g.world.Chunks().Window().CanvasOrigin
	return core.Point{X: origin.X + mx/g.cfg.Scale, Y: origin.Y + my/g.cfg.Scale}
}

// Draw renders the canvas and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.world.Chunks().Window(), g.cfg.Scale)
	g.hud.Draw(screen, g.world, g.world.Table().Get(g.brush).Name)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Size * g.cfg.Scale, g.cfg.Size * g.cfg.Scale
}
