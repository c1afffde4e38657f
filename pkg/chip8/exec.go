package chip8

import (
	"errors"

	"github.com/retroenv/retrogolib/log"
)

type handler func(m *Machine, in Instruction) error

// handlers is the dispatch table, indexed by Op.
var handlers = [opCount]handler{
	OpCLS:     opCLS,
	OpRET:     opRET,
	OpJP:      opJP,
	OpCALL:    opCALL,
	OpSEByte:  opSEByte,
	OpSNEByte: opSNEByte,
	OpSEReg:   opSEReg,
	OpLDByte:  opLDByte,
	OpADDByte: opADDByte,
	OpLDReg:   opLDReg,
	OpOR:      opOR,
	OpAND:     opAND,
	OpXOR:     opXOR,
	OpADDReg:  opADDReg,
	OpSUB:     opSUB,
	OpSHR:     opSHR,
	OpSUBN:    opSUBN,
	OpSHL:     opSHL,
	OpSNEReg:  opSNEReg,
	OpLDI:     opLDI,
	OpJPV0:    opJPV0,
	OpRND:     opRND,
	OpDRW:     opDRW,
	OpSKP:     opSKP,
	OpSKNP:    opSKNP,
	OpLDVxDT:  opLDVxDT,
	OpLDVxK:   opLDVxK,
	OpLDDTVx:  opLDDTVx,
	OpLDSTVx:  opLDSTVx,
	OpADDI:    opADDI,
	OpLDF:     opLDF,
	OpLDB:     opLDB,
	OpLDIVx:   opLDIVx,
	OpLDVxI:   opLDVxI,
}

// Step runs one cycle: apply queued key events, then either resolve a
// pending key wait or fetch, decode and execute one instruction.
// A returned error is a *Fault and the machine is halted; further calls
// discard queued key events and return the same fault.
func (m *Machine) Step() error {
	if m.state == Halted {
		m.keypad.drain()
		return m.fault
	}

	pressed := m.applyKeyEvents()
	if m.state == WaitingForKey {
		if pressed >= 0 {
			m.V[m.waitReg] = uint8(pressed)
			m.state = Running
			m.logger.Debug("Key wait resolved", log.Int("key", pressed))
		}
		return nil
	}

	pc := m.PC
	if err := span(pc, 2); err != nil {
		return m.halt(pc, 0, err)
	}
	word := uint16(m.Memory[pc])<<8 | uint16(m.Memory[pc+1])

	in, err := Decode(word)
	if err != nil {
		return m.halt(pc, word, err)
	}
	return m.execute(pc, in)
}

// Execute runs an already decoded instruction as if it had been fetched at
// the current PC. Faults halt the machine exactly as in Step. While the
// machine waits for a key nothing runs and ErrWaitingForKey is returned;
// the machine stays suspended.
func (m *Machine) Execute(in Instruction) error {
	switch m.state {
	case Halted:
		return m.fault
	case WaitingForKey:
		return ErrWaitingForKey
	}
	if err := in.validate(); err != nil {
		return m.halt(m.PC, in.Raw, err)
	}
	return m.execute(m.PC, in)
}

func (m *Machine) execute(pc uint16, in Instruction) error {
	m.PC = pc + 2
	if err := handlers[in.Op](m, in); err != nil {
		m.PC = pc
		return m.halt(pc, in.Raw, err)
	}
	return nil
}

func (m *Machine) halt(pc, word uint16, err error) error {
	f := &Fault{Kind: err, PC: pc, Opcode: word, Addr: -1}
	var hf *fault
	if errors.As(err, &hf) {
		f.Kind = hf.kind
		f.Addr = hf.addr
	}

	m.state = Halted
	m.fault = f
	m.logger.Error("Machine halted",
		log.Hex("pc", pc),
		log.Hex("opcode", word),
		log.Err(f.Kind))
	return f
}

func (m *Machine) skipIf(cond bool) {
	if cond {
		m.PC += 2
	}
}

func flag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func opCLS(m *Machine, _ Instruction) error {
	m.screen.Clear()
	return nil
}

func opRET(m *Machine, _ Instruction) error {
	if m.SP == 0 {
		return faultAt(ErrStackUnderflow, -1)
	}
	m.SP--
	m.PC = m.Stack[m.SP]
	return nil
}

func opJP(m *Machine, in Instruction) error {
	m.PC = in.NNN
	return nil
}

func opCALL(m *Machine, in Instruction) error {
	if m.SP >= StackSize {
		return faultAt(ErrStackOverflow, -1)
	}
	m.Stack[m.SP] = m.PC
	m.SP++
	m.PC = in.NNN
	return nil
}

func opSEByte(m *Machine, in Instruction) error {
	m.skipIf(m.V[in.X] == in.KK)
	return nil
}

func opSNEByte(m *Machine, in Instruction) error {
	m.skipIf(m.V[in.X] != in.KK)
	return nil
}

func opSEReg(m *Machine, in Instruction) error {
	m.skipIf(m.V[in.X] == m.V[in.Y])
	return nil
}

func opLDByte(m *Machine, in Instruction) error {
	m.V[in.X] = in.KK
	return nil
}

func opADDByte(m *Machine, in Instruction) error {
	m.V[in.X] += in.KK
	return nil
}

func opLDReg(m *Machine, in Instruction) error {
	m.V[in.X] = m.V[in.Y]
	return nil
}

func opOR(m *Machine, in Instruction) error {
	m.V[in.X] |= m.V[in.Y]
	return nil
}

func opAND(m *Machine, in Instruction) error {
	m.V[in.X] &= m.V[in.Y]
	return nil
}

func opXOR(m *Machine, in Instruction) error {
	m.V[in.X] ^= m.V[in.Y]
	return nil
}

// The flag-setting ALU ops derive the flag from the operands and write VF
// last, so VF holds the flag when x is F.

func opADDReg(m *Machine, in Instruction) error {
	sum := uint16(m.V[in.X]) + uint16(m.V[in.Y])
	m.V[in.X] = uint8(sum)
	m.V[0xF] = flag(sum > 0xFF)
	return nil
}

func opSUB(m *Machine, in Instruction) error {
	vx, vy := m.V[in.X], m.V[in.Y]
	m.V[in.X] = vx - vy
	m.V[0xF] = flag(vx >= vy)
	return nil
}

func opSHR(m *Machine, in Instruction) error {
	vx := m.V[in.X]
	m.V[in.X] = vx >> 1
	m.V[0xF] = vx & 0x01
	return nil
}

func opSUBN(m *Machine, in Instruction) error {
	vx, vy := m.V[in.X], m.V[in.Y]
	m.V[in.X] = vy - vx
	m.V[0xF] = flag(vy >= vx)
	return nil
}

func opSHL(m *Machine, in Instruction) error {
	vx := m.V[in.X]
	m.V[in.X] = vx << 1
	m.V[0xF] = (vx >> 7) & 0x01
	return nil
}

func opSNEReg(m *Machine, in Instruction) error {
	m.skipIf(m.V[in.X] != m.V[in.Y])
	return nil
}

func opLDI(m *Machine, in Instruction) error {
	m.I = in.NNN
	return nil
}

func opJPV0(m *Machine, in Instruction) error {
	m.PC = uint16(m.V[0]) + in.NNN
	return nil
}

func opRND(m *Machine, in Instruction) error {
	m.V[in.X] = uint8(m.rng.Uint32()) & in.KK
	return nil
}

func opDRW(m *Machine, in Instruction) error {
	n := int(in.N)
	if err := span(m.I, n); err != nil {
		return err
	}
	rows := m.Memory[int(m.I) : int(m.I)+n]
	collision := m.screen.drawSprite(int(m.V[in.X]), int(m.V[in.Y]), rows)
	m.V[0xF] = flag(collision)
	return nil
}

func (m *Machine) keyOf(x uint8) (uint8, error) {
	key := m.V[x]
	if key >= KeyCount {
		return 0, faultAt(ErrKeyIndexOutOfRange, int(key))
	}
	return key, nil
}

func opSKP(m *Machine, in Instruction) error {
	key, err := m.keyOf(in.X)
	if err != nil {
		return err
	}
	m.skipIf(m.keys[key])
	return nil
}

func opSKNP(m *Machine, in Instruction) error {
	key, err := m.keyOf(in.X)
	if err != nil {
		return err
	}
	m.skipIf(!m.keys[key])
	return nil
}

func opLDVxDT(m *Machine, in Instruction) error {
	m.V[in.X] = m.DT
	return nil
}

func opLDVxK(m *Machine, in Instruction) error {
	m.state = WaitingForKey
	m.waitReg = in.X
	m.logger.Debug("Waiting for key", log.Int("register", int(in.X)))
	return nil
}

func opLDDTVx(m *Machine, in Instruction) error {
	m.DT = m.V[in.X]
	return nil
}

func opLDSTVx(m *Machine, in Instruction) error {
	m.ST = m.V[in.X]
	return nil
}

func opADDI(m *Machine, in Instruction) error {
	m.I += uint16(m.V[in.X])
	return nil
}

func opLDF(m *Machine, in Instruction) error {
	m.I = FontStart + GlyphSize*uint16(m.V[in.X])
	return nil
}

func opLDB(m *Machine, in Instruction) error {
	if err := span(m.I, 3); err != nil {
		return err
	}
	v := m.V[in.X]
	m.Memory[m.I] = v / 100
	m.Memory[m.I+1] = (v / 10) % 10
	m.Memory[m.I+2] = v % 10
	return nil
}

func opLDIVx(m *Machine, in Instruction) error {
	n := int(in.X) + 1
	if err := span(m.I, n); err != nil {
		return err
	}
	copy(m.Memory[m.I:], m.V[:n])
	return nil
}

func opLDVxI(m *Machine, in Instruction) error {
	n := int(in.X) + 1
	if err := span(m.I, n); err != nil {
		return err
	}
	copy(m.V[:n], m.Memory[m.I:])
	return nil
}
