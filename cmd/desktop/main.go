package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/retroenv/retrogolib/log"

	"gochip8/pkg/chip8"
	"gochip8/pkg/config"
	"gochip8/pkg/host"
	"gochip8/pkg/keymap"
	"gochip8/pkg/statsview"
)

// hostKeys binds the characters of the keymap layout to ebiten keys.
var hostKeys = map[rune]ebiten.Key{
	'1': ebiten.KeyDigit1, '2': ebiten.KeyDigit2, '3': ebiten.KeyDigit3, '4': ebiten.KeyDigit4,
	'q': ebiten.KeyQ, 'w': ebiten.KeyW, 'e': ebiten.KeyE, 'r': ebiten.KeyR,
	'a': ebiten.KeyA, 's': ebiten.KeyS, 'd': ebiten.KeyD, 'f': ebiten.KeyF,
	'z': ebiten.KeyZ, 'x': ebiten.KeyX, 'c': ebiten.KeyC, 'v': ebiten.KeyV,
}

// keypadBindings returns the ebiten key for every keypad index.
func keypadBindings() ([chip8.KeyCount]ebiten.Key, error) {
	var keys [chip8.KeyCount]ebiten.Key
	for k := range uint8(chip8.KeyCount) {
		r, _ := keymap.Rune(k)
		ek, ok := hostKeys[r]
		if !ok {
			return keys, fmt.Errorf("no host key for keypad %X (%q)", k, r)
		}
		keys[k] = ek
	}
	return keys, nil
}

type Game struct {
	vm       *chip8.Machine
	settings config.Settings
	keys     [chip8.KeyCount]ebiten.Key
	screen   *ebiten.Image // reused 64×32 canvas
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	g.forwardKeys(inpututil.IsKeyJustPressed, inpututil.IsKeyJustReleased)

	g.runFrame(time.Now())
	return nil
}

// forwardKeys queues keypad events for the bound keys that changed this
// tick. A halted machine no longer reads its keypad, so nothing is queued.
func (g *Game) forwardKeys(pressed, released func(ebiten.Key) bool) {
	if g.vm.State() == chip8.Halted {
		return
	}
	for k, ek := range g.keys {
		if pressed(ek) {
			_ = g.vm.Keypad().Press(uint8(k))
		}
		if released(ek) {
			_ = g.vm.Keypad().Release(uint8(k))
		}
	}
}

// runFrame executes one frame worth of instructions and advances the
// timers. A fault stops execution but keeps the window open.
func (g *Game) runFrame(now time.Time) {
	for i := 0; i < g.settings.CyclesPerFrame(); i++ {
		if err := g.vm.Step(); err != nil {
			break
		}
		if g.vm.State() == chip8.WaitingForKey {
			break
		}
	}
	g.vm.UpdateTimers(now)
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.screen == nil {
		g.screen = ebiten.NewImage(chip8.Width, chip8.Height)
	}

	fb := g.vm.Framebuffer()
	g.screen.WritePixels(fb.RGBA(chip8.ColorOn, chip8.ColorOff))

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.settings.Scale), float64(g.settings.Scale))
	screen.DrawImage(g.screen, op)

	if err := g.vm.Err(); err != nil {
		ebitenutil.DebugPrint(screen, err.Error())
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return chip8.Width * g.settings.Scale, chip8.Height * g.settings.Scale
}

func main() {
	settings, err := config.Parse(os.Args[0], os.Args[1:])
	if err != nil {
		var usage *config.UsageError
		if errors.As(err, &usage) {
			usage.ShowUsage()
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := config.CreateLogger(settings.Debug, settings.Quiet)
	if settings.StatsView {
		stop := statsview.Launch(config.StatsViewAddress, logger)
		defer stop()
	}

	game, err := newGame(settings, logger)
	if err != nil {
		logger.Fatal("Creating machine failed", log.Err(err))
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(chip8.Width*settings.Scale, chip8.Height*settings.Scale)
	ebiten.SetWindowTitle("gochip8 - " + settings.ROM)
	ebiten.SetTPS(settings.TimerHz)

	if err := ebiten.RunGame(game); err != nil {
		logger.Error("Running game failed", log.Err(err))
	}

	if settings.Screenshot != "" {
		fb := game.vm.Framebuffer()
		if err := fb.SaveScreenshot(settings.Screenshot, settings.Scale); err != nil {
			logger.Error("Saving screenshot failed", log.Err(err))
		}
	}
}

func newGame(settings config.Settings, logger *log.Logger) (*Game, error) {
	keys, err := keypadBindings()
	if err != nil {
		return nil, err
	}

	vm, err := host.NewMachine(settings, logger)
	if err != nil {
		return nil, err
	}

	return &Game{
		vm:       vm,
		settings: settings,
		keys:     keys,
	}, nil
}
