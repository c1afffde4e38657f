package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"

	"gochip8/pkg/chip8"
	"gochip8/pkg/config"
)

func TestKeypadBindingsAreDistinct(t *testing.T) {
	keys, err := keypadBindings()
	assert.NoError(t, err)

	seen := map[int]bool{}
	for _, k := range keys {
		assert.False(t, seen[int(k)])
		seen[int(k)] = true
	}
}

func TestNewGameLoadsROM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loop.ch8")
	// LD V0,7; JP 202
	assert.NoError(t, os.WriteFile(path, []byte{0x60, 0x07, 0x12, 0x02}, 0o644))

	settings := config.Defaults()
	settings.ROM = path
	settings.Seed = 1
	game, err := newGame(settings, log.NewTestLogger(t))
	assert.NoError(t, err)

	game.runFrame(time.Now())
	assert.Equal(t, uint8(7), game.vm.V[0])
	assert.Equal(t, uint16(0x202), game.vm.PC)

	w, h := game.Layout(0, 0)
	assert.Equal(t, chip8.Width*settings.Scale, w)
	assert.Equal(t, chip8.Height*settings.Scale, h)
}

func TestNewGameMissingROMStillRuns(t *testing.T) {
	settings := config.Defaults()
	settings.ROM = filepath.Join(t.TempDir(), "missing.ch8")
	game, err := newGame(settings, log.NewNop())
	assert.NoError(t, err)
	assert.Equal(t, chip8.Running, game.vm.State())
}

func TestRunFrameStopsOnFault(t *testing.T) {
	settings := config.Defaults()
	settings.ROM = filepath.Join(t.TempDir(), "missing.ch8")
	game, err := newGame(settings, log.NewNop())
	assert.NoError(t, err)

	// the empty program region decodes as 0000, which is unknown
	game.runFrame(time.Now())
	assert.Equal(t, chip8.Halted, game.vm.State())
	assert.Equal(t, uint16(chip8.ProgramStart), game.vm.PC)
}

func TestForwardKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loop.ch8")
	assert.NoError(t, os.WriteFile(path, []byte{0x12, 0x00}, 0o644))

	settings := config.Defaults()
	settings.ROM = path
	game, err := newGame(settings, log.NewTestLogger(t))
	assert.NoError(t, err)

	all := func(ebiten.Key) bool { return true }
	none := func(ebiten.Key) bool { return false }

	game.forwardKeys(all, none)
	assert.Equal(t, chip8.KeyCount, game.vm.Keypad().Pending())

	game.runFrame(time.Now())
	assert.Equal(t, 0, game.vm.Keypad().Pending())
	for k := range uint8(chip8.KeyCount) {
		assert.True(t, game.vm.Key(k))
	}
}

func TestForwardKeysSkippedWhenHalted(t *testing.T) {
	settings := config.Defaults()
	settings.ROM = filepath.Join(t.TempDir(), "missing.ch8")
	game, err := newGame(settings, log.NewNop())
	assert.NoError(t, err)
	game.runFrame(time.Now())
	assert.Equal(t, chip8.Halted, game.vm.State())

	all := func(ebiten.Key) bool { return true }
	for range 10 {
		game.forwardKeys(all, all)
	}
	assert.Equal(t, 0, game.vm.Keypad().Pending())
}
