package chip8

import (
	"errors"
	"fmt"
)

// Load-time errors. These are recoverable: the machine stays usable.
var (
	ErrRomNotFound     = errors.New("rom not found")
	ErrRomRead         = errors.New("rom read failure")
	ErrProgramTooLarge = errors.New("program too large")
)

// ErrWaitingForKey is returned by Execute while an Fx0A wait is pending. It
// is not a fault and does not halt the machine.
var ErrWaitingForKey = errors.New("waiting for key")

// Cycle-time faults. A machine that reports one of these is halted.
var (
	ErrUnknownOpcode           = errors.New("unknown opcode")
	ErrStackOverflow           = errors.New("stack overflow")
	ErrStackUnderflow          = errors.New("stack underflow")
	ErrAddressOutOfRange       = errors.New("address out of range")
	ErrRegisterIndexOutOfRange = errors.New("register index out of range")
	ErrKeyIndexOutOfRange      = errors.New("key index out of range")
)

// A Fault is returned by Step when an instruction cannot be executed. It
// unwraps to one of the cycle-time sentinel errors.
type Fault struct {
	Kind   error
	PC     uint16
	Opcode uint16
	// Addr is the offending memory address for ErrAddressOutOfRange, or the
	// offending register/key index for the index faults. -1 if unused.
	Addr int
}

func (f *Fault) Error() string {
	if f.Addr >= 0 {
		return fmt.Sprintf("%v at PC=%04X opcode=%04X (0x%X)", f.Kind, f.PC, f.Opcode, f.Addr)
	}
	return fmt.Sprintf("%v at PC=%04X opcode=%04X", f.Kind, f.PC, f.Opcode)
}

func (f *Fault) Unwrap() error { return f.Kind }

// fault is the handler-side error; Step fills in PC and opcode.
type fault struct {
	kind error
	addr int
}

func (f *fault) Error() string { return f.kind.Error() }
func (f *fault) Unwrap() error { return f.kind }

func faultAt(kind error, addr int) error {
	return &fault{kind: kind, addr: addr}
}
