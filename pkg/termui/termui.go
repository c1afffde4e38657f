// Package termui is a terminal frontend. Input comes from the tty in raw
// mode on a reader goroutine and reaches the machine through its Keypad;
// output is drawn with ANSI half-block characters.
package termui

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/pkg/term"
	"github.com/retroenv/retrogolib/log"

	"gochip8/pkg/chip8"
	"gochip8/pkg/keymap"
)

// ReleaseDelay is how long a key stays pressed after its last keystroke.
// Terminals report no key-up events, so releases are synthesized.
const ReleaseDelay = 100 * time.Millisecond

const (
	keyCtrlC  = 0x03
	keyEscape = 0x1b
)

// Terminal implements host.Frontend on a raw-mode tty.
type Terminal struct {
	tty    io.ReadCloser
	out    io.Writer
	logger *log.Logger

	input   chan rune
	closed  atomic.Bool
	pressed map[uint8]time.Time
	restore func() error
}

// Open puts the controlling terminal into raw mode and starts reading it.
// Close must be called to restore the terminal.
func Open(out io.Writer, logger *log.Logger) (*Terminal, error) {
	tty, err := term.Open("/dev/tty", term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("opening terminal: %w", err)
	}
	t := newTerminal(tty, out, logger)
	t.restore = tty.Restore
	t.start()
	return t, nil
}

func newTerminal(tty io.ReadCloser, out io.Writer, logger *log.Logger) *Terminal {
	return &Terminal{
		tty:     tty,
		out:     out,
		logger:  logger,
		input:   make(chan rune, 64),
		pressed: make(map[uint8]time.Time),
	}
}

func (t *Terminal) start() {
	_, _ = io.WriteString(t.out, clearScreen+hideCursor)
	go t.readLoop()
}

func (t *Terminal) readLoop() {
	buf := make([]byte, 16)
	for {
		n, err := t.tty.Read(buf)
		if err != nil {
			if !errors.Is(err, io.EOF) && !t.closed.Load() {
				t.logger.Error("Reading terminal failed", log.Err(err))
			}
			t.closed.Store(true)
			return
		}
		for _, b := range buf[:n] {
			switch b {
			case keyCtrlC, keyEscape:
				t.closed.Store(true)
				return
			}
			select {
			case t.input <- rune(b):
			default:
				// machine is not keeping up, drop the keystroke
			}
		}
	}
}

// PollInput presses the keys typed since the last poll and releases keys
// not typed again within ReleaseDelay.
func (t *Terminal) PollInput(kp *chip8.Keypad, now time.Time) {
drain:
	for {
		select {
		case r := <-t.input:
			key, ok := keymap.Lookup(r)
			if !ok {
				break
			}
			if _, held := t.pressed[key]; !held {
				_ = kp.Press(key)
			}
			t.pressed[key] = now
		default:
			break drain
		}
	}

	for key, at := range t.pressed {
		if now.Sub(at) >= ReleaseDelay {
			_ = kp.Release(key)
			delete(t.pressed, key)
		}
	}
}

// Present redraws the display.
func (t *Terminal) Present(fb *chip8.Framebuffer, m *chip8.Machine) error {
	return Render(t.out, fb, Status(m))
}

// Closed reports whether Ctrl-C or Escape was typed or the tty failed.
func (t *Terminal) Closed() bool {
	return t.closed.Load()
}

// Close restores the terminal mode and releases the tty.
func (t *Terminal) Close() error {
	t.closed.Store(true)
	_, _ = io.WriteString(t.out, showCursor+"\r\n")
	var err error
	if t.restore != nil {
		err = t.restore()
	}
	if cerr := t.tty.Close(); err == nil {
		err = cerr
	}
	return err
}
