package config

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"
)

func TestParse(t *testing.T) {
	s, err := Parse("chip8", []string{"-cps", "500", "-scale", "4", "-seed", "7", "-debug", "game.ch8"})
	assert.NoError(t, err)
	want, err := filepath.Abs("game.ch8")
	assert.NoError(t, err)
	assert.Equal(t, want, s.ROM)
	assert.Equal(t, 500, s.CyclesPerSecond)
	assert.Equal(t, 60, s.TimerHz)
	assert.Equal(t, 4, s.Scale)
	assert.Equal(t, uint64(7), s.Seed)
	assert.True(t, s.Debug)
	assert.False(t, s.Quiet)
}

func TestParseDefaults(t *testing.T) {
	s, err := Parse("chip8", []string{"game.ch8"})
	assert.NoError(t, err)

	rom, err := filepath.Abs("game.ch8")
	assert.NoError(t, err)
	want := Defaults()
	want.ROM = rom
	assert.Equal(t, want, s)
}

func TestParseScreenshotNextToROM(t *testing.T) {
	dir := t.TempDir()
	rom := filepath.Join(dir, "pong.ch8")

	s, err := Parse("chip8", []string{"-screenshot", "pong.png", rom})
	assert.NoError(t, err)
	assert.Equal(t, rom, s.ROM)
	assert.Equal(t, filepath.Join(dir, "pong.png"), s.Screenshot)

	abs := filepath.Join(t.TempDir(), "shot.png")
	s, err = Parse("chip8", []string{"-screenshot", abs, rom})
	assert.NoError(t, err)
	assert.Equal(t, abs, s.Screenshot)
}

func TestParseUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no rom", nil},
		{"flag after rom", []string{"game.ch8", "-debug"}},
		{"unknown flag", []string{"-nope", "game.ch8"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("chip8", tt.args)
			var usage *UsageError
			assert.True(t, errors.As(err, &usage))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(s *Settings)
		err    error
	}{
		{"defaults", func(*Settings) {}, nil},
		{"zero cps", func(s *Settings) { s.CyclesPerSecond = 0 }, errCyclesPerSecond},
		{"negative timer", func(s *Settings) { s.TimerHz = -1 }, errTimerHz},
		{"zero scale", func(s *Settings) { s.Scale = 0 }, errScale},
		{"huge scale", func(s *Settings) { s.Scale = 65 }, errScale},
		{"negative cycles", func(s *Settings) { s.Cycles = -5 }, errCycles},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			tt.modify(&s)
			err := s.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.err))
		})
	}
}

func TestDerivedDurations(t *testing.T) {
	s := Defaults()
	assert.Equal(t, time.Second/700, s.CycleDelay())
	assert.Equal(t, time.Second/60, s.TimerInterval())
	assert.Equal(t, 11, s.CyclesPerFrame())

	s.CyclesPerSecond = 30
	assert.Equal(t, 1, s.CyclesPerFrame())
}

func TestCreateLogger(t *testing.T) {
	assert.NotNil(t, CreateLogger(false, false))
	assert.NotNil(t, CreateLogger(true, false))
	assert.NotNil(t, CreateLogger(false, true))
}
