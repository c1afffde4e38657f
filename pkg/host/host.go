// Package host drives a chip8.Machine from a frontend: it paces the
// instruction clock, ticks the 60 Hz timers, presents frames and feeds
// input, all on the calling goroutine.
package host

import (
	"context"
	"time"

	"github.com/retroenv/retrogolib/log"

	"gochip8/pkg/chip8"
)

// Frontend is the display and input side of a runner.
type Frontend interface {
	// PollInput forwards pending host input to the keypad.
	PollInput(kp *chip8.Keypad, now time.Time)
	// Present shows a new frame. It is called once per timer tick.
	Present(fb *chip8.Framebuffer, m *chip8.Machine) error
	// Closed reports whether the user asked to quit.
	Closed() bool
}

// Runner executes a machine until it faults, the frontend closes, the
// context is cancelled or the cycle limit is reached.
type Runner struct {
	Machine  *chip8.Machine
	Frontend Frontend
	Logger   *log.Logger

	// CycleDelay is the wall time of one instruction.
	CycleDelay time.Duration
	// MaxCycles stops the run after that many cycles. 0 means unlimited.
	MaxCycles int

	// Now and Sleep default to time.Now and time.Sleep.
	Now   func() time.Time
	Sleep func(time.Duration)

	cycles int
	frames int
}

// Run drives the machine. It returns nil when the frontend closes or the
// cycle limit is reached, ctx.Err() on cancellation and the machine fault
// otherwise. A final frame is presented in every case.
func (r *Runner) Run(ctx context.Context) error {
	now := r.Now
	if now == nil {
		now = time.Now
	}
	sleep := r.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	r.Machine.ResetTimerClock(now())
	next := now()
	var runErr error

	for {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		if r.Frontend.Closed() {
			break
		}
		if r.MaxCycles > 0 && r.cycles >= r.MaxCycles {
			break
		}

		t := now()
		r.Frontend.PollInput(r.Machine.Keypad(), t)

		if err := r.Machine.Step(); err != nil {
			runErr = err
			break
		}
		r.cycles++

		if r.Machine.UpdateTimers(t) {
			if err := r.present(); err != nil {
				return err
			}
		}

		next = next.Add(r.CycleDelay)
		if d := next.Sub(now()); d > 0 {
			sleep(d)
		} else if d < -time.Second {
			// too far behind to catch up
			next = now()
		}
	}

	if err := r.present(); err != nil && runErr == nil {
		runErr = err
	}
	r.Logger.Debug("Runner stopped",
		log.Int("cycles", r.cycles),
		log.Int("frames", r.frames),
		log.String("state", r.Machine.State().String()))
	return runErr
}

func (r *Runner) present() error {
	fb := r.Machine.Framebuffer()
	r.frames++
	return r.Frontend.Present(&fb, r.Machine)
}

// Cycles returns the number of instructions executed.
func (r *Runner) Cycles() int { return r.cycles }

// Frames returns the number of frames presented.
func (r *Runner) Frames() int { return r.frames }
