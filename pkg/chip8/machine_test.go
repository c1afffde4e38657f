package chip8

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

// newTestMachine creates a machine with a deterministic RNG.
func newTestMachine(t *testing.T) *Machine {
	t.Helper()
	return New(log.NewTestLogger(t), WithSeed(1))
}

// newFaultingMachine is newTestMachine for tests that expect a fault. The
// test logger fails the test on error records, and halting logs one.
func newFaultingMachine(t *testing.T) *Machine {
	t.Helper()
	return New(log.NewNop(), WithSeed(1))
}

// loadProgram writes big-endian instruction words starting at ProgramStart.
func loadProgram(m *Machine, words ...uint16) {
	addr := ProgramStart
	for _, w := range words {
		m.Memory[addr] = byte(w >> 8)
		m.Memory[addr+1] = byte(w)
		addr += 2
	}
}

// step runs n cycles and fails the test on the first fault.
func step(t *testing.T, m *Machine, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := m.Step(); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}
}

func TestNew(t *testing.T) {
	m := newTestMachine(t)

	assert.Equal(t, uint16(ProgramStart), m.PC)
	assert.Equal(t, uint16(0), m.I)
	assert.Equal(t, uint8(0), m.SP)
	assert.Equal(t, Running, m.State())
	assert.Equal(t, DefaultTimerInterval, m.TimerInterval)
	assert.Nil(t, m.Err())

	for i, b := range font {
		assert.Equal(t, b, m.Memory[FontStart+i])
	}
	for addr := ProgramStart; addr < MemorySize; addr++ {
		if m.Memory[addr] != 0 {
			t.Fatalf("Memory[%03X]: expected 0, got %02X", addr, m.Memory[addr])
		}
	}
	fb := m.Framebuffer()
	assert.Equal(t, 0, fb.Lit())
}

func TestLoadProgram(t *testing.T) {
	m := newTestMachine(t)
	program := []byte{0x60, 0x2A, 0x12, 0x02}

	assert.NoError(t, m.LoadProgram(program))
	assert.Equal(t, byte(0x60), m.Memory[0x200])
	assert.Equal(t, byte(0x2A), m.Memory[0x201])
	assert.Equal(t, byte(0x12), m.Memory[0x202])
	assert.Equal(t, byte(0x02), m.Memory[0x203])
	assert.Equal(t, byte(0x00), m.Memory[0x204])
}

func TestLoadProgramFullCapacity(t *testing.T) {
	m := newTestMachine(t)
	program := make([]byte, MaxProgramSize)
	program[len(program)-1] = 0xAB

	assert.NoError(t, m.LoadProgram(program))
	assert.Equal(t, byte(0xAB), m.Memory[MaxAddress])
}

func TestLoadProgramTooLarge(t *testing.T) {
	m := newTestMachine(t)
	program := make([]byte, MaxProgramSize+1)
	for i := range program {
		program[i] = 0xFF
	}

	err := m.LoadProgram(program)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrProgramTooLarge))
	// nothing copied
	assert.Equal(t, byte(0), m.Memory[ProgramStart])
}

func TestLoadROM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.ch8")
	assert.NoError(t, os.WriteFile(path, []byte{0x00, 0xE0, 0x12, 0x00}, 0o644))

	m := newTestMachine(t)
	size, err := m.LoadROM(path)
	assert.NoError(t, err)
	assert.Equal(t, 4, size)
	assert.Equal(t, byte(0xE0), m.Memory[0x201])
}

func TestLoadROMNotFound(t *testing.T) {
	m := newTestMachine(t)
	_, err := m.LoadROM(filepath.Join(t.TempDir(), "missing.ch8"))

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrRomNotFound))

	// the machine is still usable with an empty program region
	assert.Equal(t, byte(0), m.Memory[ProgramStart])
	assert.Equal(t, Running, m.State())
}

func TestLoadROMReadFailure(t *testing.T) {
	m := newTestMachine(t)
	// reading a directory fails with something other than "not exist"
	_, err := m.LoadROM(t.TempDir())

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrRomRead))
}

func TestLoadROMTooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.ch8")
	assert.NoError(t, os.WriteFile(path, make([]byte, MaxProgramSize+2), 0o644))

	m := newTestMachine(t)
	size, err := m.LoadROM(path)
	assert.Equal(t, MaxProgramSize+2, size)
	assert.True(t, errors.Is(err, ErrProgramTooLarge))
}

func TestWithSeedIsDeterministic(t *testing.T) {
	a := New(log.NewTestLogger(t), WithSeed(42))
	b := New(log.NewTestLogger(t), WithSeed(42))
	for _, m := range []*Machine{a, b} {
		loadProgram(m, 0xC0FF, 0xC1FF, 0xC2FF)
		step(t, m, 3)
	}
	assert.Equal(t, a.V, b.V)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "waiting-for-key", WaitingForKey.String())
	assert.Equal(t, "halted", Halted.String())
}
