// Package main implements a headless CHIP-8 runner: it executes a ROM for a
// number of cycles without a display and prints the final machine state.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"

	"gochip8/pkg/chip8"
	"gochip8/pkg/config"
	"gochip8/pkg/host"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

// defaultCycles bounds a headless run when no -cycles flag is given.
const defaultCycles = 10000

func main() {
	ctx := app.Context()

	settings, err := config.Parse(os.Args[0], os.Args[1:])
	if err != nil {
		var usage *config.UsageError
		if errors.As(err, &usage) {
			fmt.Printf("gochip8 version: %s\n\n", buildinfo.Version(version, commit, date))
			usage.ShowUsage()
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := config.CreateLogger(settings.Debug, settings.Quiet)
	logger.Debug("Starting", log.String("version", buildinfo.Version(version, commit, date)))

	if err := run(ctx, settings, logger, os.Stdout); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		logger.Error("Run failed", log.Err(err))
		os.Exit(1)
	}
}

// headless is a frontend without input or display.
type headless struct{}

func (headless) PollInput(*chip8.Keypad, time.Time) {}

func (headless) Present(*chip8.Framebuffer, *chip8.Machine) error { return nil }

func (headless) Closed() bool { return false }

func run(ctx context.Context, settings config.Settings, logger *log.Logger, out io.Writer) error {
	vm, err := host.NewMachine(settings, logger)
	if err != nil {
		return err
	}

	cycles := settings.Cycles
	if cycles == 0 {
		cycles = defaultCycles
	}
	runner := &host.Runner{
		Machine:   vm,
		Frontend:  headless{},
		Logger:    logger,
		MaxCycles: cycles,
		// run as fast as possible; timers still follow the wall clock
		CycleDelay: 0,
	}
	runErr := runner.Run(ctx)

	fb := vm.Framebuffer()
	fmt.Fprintf(out, "run complete (%s): %d cycles, %d pixels lit\n%s\n",
		settings.ROM, runner.Cycles(), fb.Lit(), vm)

	if settings.Screenshot != "" {
		if err := fb.SaveScreenshot(settings.Screenshot, settings.Scale); err != nil {
			return fmt.Errorf("saving screenshot: %w", err)
		}
	}
	return runErr
}
