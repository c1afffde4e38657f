// Package config handles runtime settings, command line flags and logger
// setup shared by the frontends.
package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/retroenv/retrogolib/log"

	"gochip8/pkg/utils"
)

// Settings holds the runtime parameters of a frontend.
type Settings struct {
	// ROM is the path of the program to load.
	ROM string
	// CyclesPerSecond is the instruction clock. The timers run at TimerHz
	// regardless of it.
	CyclesPerSecond int
	TimerHz         int
	// Scale is the integer window and screenshot magnification.
	Scale int

	Debug     bool
	Quiet     bool
	StatsView bool

	// Screenshot, if set, receives a PNG of the display when the run ends.
	Screenshot string
	// Cycles limits the headless runner. 0 runs until a fault or signal.
	Cycles int
	// Seed fixes the random number generator when nonzero.
	Seed uint64
}

// Defaults returns the settings used when no flags are given.
func Defaults() Settings {
	return Settings{
		CyclesPerSecond: 700,
		TimerHz:         60,
		Scale:           10,
	}
}

// RegisterFlags binds the settings to flags on fs.
func (s *Settings) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&s.CyclesPerSecond, "cps", s.CyclesPerSecond, "instructions executed per second")
	fs.IntVar(&s.TimerHz, "timerhz", s.TimerHz, "delay and sound timer frequency")
	fs.IntVar(&s.Scale, "scale", s.Scale, "display magnification")
	fs.BoolVar(&s.Debug, "debug", s.Debug, "enable debug logging")
	fs.BoolVar(&s.Quiet, "q", s.Quiet, "only log errors")
	fs.BoolVar(&s.StatsView, "statsview", s.StatsView, "serve runtime statistics on "+StatsViewAddress)
	fs.StringVar(&s.Screenshot, "screenshot", s.Screenshot, "write a PNG of the display to this file on exit")
	fs.IntVar(&s.Cycles, "cycles", s.Cycles, "stop after this many cycles, 0 for no limit")
	fs.Uint64Var(&s.Seed, "seed", s.Seed, "fixed random seed, 0 for time based")
}

// StatsViewAddress is where the statistics server listens.
const StatsViewAddress = "localhost:12600"

// UsageError is returned by Parse when the command line is incomplete.
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the flag defaults.
func (e *UsageError) ShowUsage() {
	fmt.Fprintf(e.flags.Output(), "usage: %s [options] <rom file>\n\n", e.flags.Name())
	e.flags.PrintDefaults()
}

// Parse reads settings from args, the ROM path being the first positional
// argument, and validates them. The ROM path is made absolute and a
// relative screenshot path is placed in the ROM's directory.
func Parse(name string, args []string) (Settings, error) {
	s := Defaults()
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	s.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		return s, &UsageError{flags: fs, msg: err.Error()}
	}
	if fs.NArg() == 0 {
		return s, &UsageError{flags: fs, msg: "no rom file given"}
	}
	if fs.NArg() > 1 {
		return s, &UsageError{
			flags: fs,
			msg:   fmt.Sprintf("unexpected argument %s after the rom file", fs.Arg(1)),
		}
	}
	if err := s.Validate(); err != nil {
		return s, err
	}

	rom, screenshot, err := utils.ResolvePaths(fs.Arg(0), s.Screenshot)
	if err != nil {
		return s, fmt.Errorf("resolving paths: %w", err)
	}
	s.ROM = rom
	s.Screenshot = screenshot
	return s, nil
}

var (
	errCyclesPerSecond = errors.New("cycles per second must be positive")
	errTimerHz         = errors.New("timer frequency must be positive")
	errScale           = errors.New("scale must be between 1 and 64")
	errCycles          = errors.New("cycle limit must not be negative")
)

// Validate checks the settings for values the runners cannot work with.
func (s *Settings) Validate() error {
	if s.CyclesPerSecond <= 0 {
		return fmt.Errorf("%w, got %d", errCyclesPerSecond, s.CyclesPerSecond)
	}
	if s.TimerHz <= 0 {
		return fmt.Errorf("%w, got %d", errTimerHz, s.TimerHz)
	}
	if s.Scale < 1 || s.Scale > 64 {
		return fmt.Errorf("%w, got %d", errScale, s.Scale)
	}
	if s.Cycles < 0 {
		return fmt.Errorf("%w, got %d", errCycles, s.Cycles)
	}
	return nil
}

// CycleDelay is the wall time budget of one instruction.
func (s *Settings) CycleDelay() time.Duration {
	return time.Second / time.Duration(s.CyclesPerSecond)
}

// TimerInterval is the period of the timer clock.
func (s *Settings) TimerInterval() time.Duration {
	return time.Second / time.Duration(s.TimerHz)
}

// CyclesPerFrame is the number of instructions to run per timer tick, for
// frontends that are driven by a frame callback. It is at least 1.
func (s *Settings) CyclesPerFrame() int {
	n := s.CyclesPerSecond / s.TimerHz
	if n < 1 {
		return 1
	}
	return n
}

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
