package host

import (
	"errors"

	"github.com/retroenv/retrogolib/log"

	"gochip8/pkg/chip8"
	"gochip8/pkg/config"
)

// NewMachine creates a machine for settings and loads its ROM. A missing or
// unreadable ROM is logged and the machine is returned anyway, with an
// empty program region; a ROM that does not fit in memory is an error.
func NewMachine(settings config.Settings, logger *log.Logger) (*chip8.Machine, error) {
	opts := []chip8.Option{chip8.WithTimerInterval(settings.TimerInterval())}
	if settings.Seed != 0 {
		opts = append(opts, chip8.WithSeed(settings.Seed))
	}
	m := chip8.New(logger, opts...)

	if _, err := m.LoadROM(settings.ROM); err != nil {
		if errors.Is(err, chip8.ErrProgramTooLarge) {
			return nil, err
		}
		logger.Error("Loading ROM failed", log.String("path", settings.ROM), log.Err(err))
	}
	return m, nil
}
