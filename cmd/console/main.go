package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"

	"gochip8/pkg/config"
	"gochip8/pkg/host"
	"gochip8/pkg/statsview"
	"gochip8/pkg/termui"
)

func main() {
	ctx := app.Context()

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

	// log output would tear the display, keep it to errors unless asked
	if !settings.Debug {
		settings.Quiet = true
	}
	logger := config.CreateLogger(settings.Debug, settings.Quiet)
	if settings.StatsView {
		stop := statsview.Launch(config.StatsViewAddress, logger)
		defer stop()
	}

	if err := run(ctx, settings, logger); err != nil {
		logger.Error("Emulation stopped", log.Err(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, settings config.Settings, logger *log.Logger) error {
	vm, err := host.NewMachine(settings, logger)
	if err != nil {
		return err
	}

	tty, err := termui.Open(os.Stdout, logger)
	if err != nil {
		return err
	}
	defer func() {
		_ = tty.Close()
	}()

	runner := &host.Runner{
		Machine:    vm,
		Frontend:   tty,
		Logger:     logger,
		CycleDelay: settings.CycleDelay(),
		MaxCycles:  settings.Cycles,
	}
	err = runner.Run(ctx)

	if settings.Screenshot != "" {
		fb := vm.Framebuffer()
		if serr := fb.SaveScreenshot(settings.Screenshot, settings.Scale); serr != nil {
			logger.Error("Saving screenshot failed", log.Err(serr))
		}
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
