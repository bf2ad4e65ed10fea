// Desktop front-end: renders the machine into a window at 60 fps and
// maps the keyboard onto the cabinet controls.
package main

import (
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/retroenv/retrogolib/log"

	"gopac/pkg/machine"
	"gopac/pkg/video"
)

type Game struct {
	m      *machine.Machine
	screen *ebiten.Image
	scale  int
	debug  bool
}

// Cabinet wiring: arrows drive player 1, WASD player 2, 5 inserts a
// coin, 1 and 2 start, F1 is the service switch. All read as held state;
// the machine latches them once per frame.
func (g *Game) readInputs() machine.InputState {
	return machine.InputState{
		P1Up:    ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		P1Down:  ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		P1Left:  ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		P1Right: ebiten.IsKeyPressed(ebiten.KeyArrowRight),
		P2Up:    ebiten.IsKeyPressed(ebiten.KeyW),
		P2Down:  ebiten.IsKeyPressed(ebiten.KeyS),
		P2Left:  ebiten.IsKeyPressed(ebiten.KeyA),
		P2Right: ebiten.IsKeyPressed(ebiten.KeyD),
		Coin:    ebiten.IsKeyPressed(ebiten.KeyDigit5),
		Start1:  ebiten.IsKeyPressed(ebiten.KeyDigit1),
		Start2:  ebiten.IsKeyPressed(ebiten.KeyDigit2),
		Service: ebiten.IsKeyPressed(ebiten.KeyF1),
	}
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		g.debug = !g.debug
		g.m.SetDebugOverlay(g.debug)
	}

	g.m.SetInputs(g.readInputs())
	g.m.RunFrame()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.screen == nil {
		g.screen = ebiten.NewImage(video.Width, video.Height)
	}
	g.screen.WritePixels(g.m.Pixels())

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.scale), float64(g.scale))
	screen.DrawImage(g.screen, op)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return video.Width * g.scale, video.Height * g.scale
}

func main() {
	romDir := flag.String("roms", "roms", "directory containing the ROM set")
	scale := flag.Int("scale", 2, "window scale factor")
	debug := flag.Bool("debug", false, "enable verbose logging and the video overlay")
	watchdog := flag.Bool("watchdog", false, "enable the watchdog reset circuit")
	flag.Parse()

	cfg := log.DefaultConfig()
	if *debug {
		cfg.Level = log.DebugLevel
	}
	logger := log.NewWithConfig(cfg)

	set, err := machine.ReadROMSet(*romDir)
	if err != nil {
		logger.Error("Loading ROM set failed", log.Err(err))
		os.Exit(1)
	}

	mcfg := machine.DefaultConfig()
	mcfg.WatchdogEnabled = *watchdog
	m := machine.New(mcfg, logger)
	m.Load(set)
	m.SetDebugOverlay(*debug)

	ebiten.SetWindowSize(video.Width**scale, video.Height**scale)
	ebiten.SetWindowTitle("gopac")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	game := &Game{m: m, scale: *scale, debug: *debug}
	if err := ebiten.RunGame(game); err != nil {
		logger.Error("Game loop failed", log.Err(err))
		os.Exit(1)
	}
}
