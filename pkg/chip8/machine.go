package chip8

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/retroenv/retrogolib/log"
)

const (
	MemorySize   = 0x1000
	MaxAddress   = MemorySize - 1
	ProgramStart = 0x200
	// MaxProgramSize is the space between ProgramStart and the end of memory.
	MaxProgramSize = MemorySize - ProgramStart
	FontStart      = 0x50
	GlyphSize      = 5
	StackSize      = 16
	RegisterCount  = 16
	KeyCount       = 16
)

// DefaultTimerInterval is the 60 Hz period of the delay and sound timers.
const DefaultTimerInterval = time.Second / 60

// font holds the 16 hexadecimal glyphs, 5 bytes each.
var font = [16 * GlyphSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// State is the run state of a Machine.
type State uint8

const (
	Running State = iota
	// WaitingForKey suspends instruction decoding until a key is pressed.
	WaitingForKey
	// Halted is entered on the first cycle-time fault.
	Halted
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case WaitingForKey:
		return "waiting-for-key"
	case Halted:
		return "halted"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Machine holds the complete state of one CHIP-8 virtual machine. It is not
// safe for concurrent use; input produced on other goroutines must go
// through Keypad.
type Machine struct {
	Memory [MemorySize]byte
	// V[0x0]..V[0xF]. VF doubles as the flags register.
	V     [RegisterCount]uint8
	I     uint16
	PC    uint16
	Stack [StackSize]uint16
	// SP is the number of return addresses on the stack.
	SP uint8
	DT uint8
	ST uint8

	// TimerInterval is the period of the timer clock, 1/60 s by default.
	TimerInterval time.Duration

	keys     [KeyCount]bool
	keypad   *Keypad
	screen   Framebuffer
	rng      *rand.Rand
	logger   *log.Logger
	state    State
	waitReg  uint8
	fault    error
	lastTick time.Time
}

// Option configures a Machine in New.
type Option func(*Machine)

// WithSeed seeds the random number generator used by Cxkk with a fixed
// value, for reproducible runs.
func WithSeed(seed uint64) Option {
	return func(m *Machine) {
		m.rng = rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
	}
}

// WithTimerInterval overrides the 60 Hz timer period.
func WithTimerInterval(d time.Duration) Option {
	return func(m *Machine) {
		m.TimerInterval = d
	}
}

// New creates a machine with zeroed registers and memory, PC at
// ProgramStart and the font loaded.
func New(logger *log.Logger, opts ...Option) *Machine {
	m := &Machine{
		PC:            ProgramStart,
		TimerInterval: DefaultTimerInterval,
		keypad:        &Keypad{},
		logger:        logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rng == nil {
		seed := uint64(time.Now().UnixNano())
		m.rng = rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
	}
	m.LoadFont()
	return m
}

// LoadFont copies the hexadecimal glyph table to FontStart.
func (m *Machine) LoadFont() {
	copy(m.Memory[FontStart:], font[:])
}

// LoadProgram copies program to ProgramStart. Programs larger than
// MaxProgramSize are rejected and memory is left untouched.
func (m *Machine) LoadProgram(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, capacity %d bytes", ErrProgramTooLarge, len(program), MaxProgramSize)
	}
	copy(m.Memory[ProgramStart:], program)
	m.logger.Info("Program loaded", log.Int("bytes", len(program)))
	return nil
}

// State returns the current run state.
func (m *Machine) State() State { return m.state }

// WaitRegister returns the register that receives the key index while the
// machine is in WaitingForKey.
func (m *Machine) WaitRegister() uint8 { return m.waitReg }

// Err returns the fault that halted the machine, or nil.
func (m *Machine) Err() error { return m.fault }

// Keypad returns the input queue written by the input layer.
func (m *Machine) Keypad() *Keypad { return m.keypad }

// Key reports whether key k is held, as seen by the running program.
func (m *Machine) Key(k uint8) bool {
	if k >= KeyCount {
		return false
	}
	return m.keys[k]
}

// Framebuffer returns a copy of the display.
func (m *Machine) Framebuffer() Framebuffer { return m.screen }

// SoundActive reports whether the sound timer is running.
func (m *Machine) SoundActive() bool { return m.ST > 0 }

func (m *Machine) String() string {
	return fmt.Sprintf("Machine{V: [% 02X], I: %04X, PC: %04X, Stack: [% 04X], SP: %d, DT: %02X, ST: %02X, State: %v}",
		m.V, m.I, m.PC, m.Stack[:m.SP], m.SP, m.DT, m.ST, m.state)
}

// span checks that [addr, addr+n) lies inside memory.
func span(addr uint16, n int) error {
	if n <= 0 {
		return nil
	}
	if end := int(addr) + n - 1; end > MaxAddress {
		return faultAt(ErrAddressOutOfRange, end)
	}
	return nil
}
