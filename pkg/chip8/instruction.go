package chip8

import "fmt"

// Op identifies one CHIP-8 instruction. The set is closed: Decode never
// produces a value outside it.
type Op uint8

const (
	OpCLS      Op = iota // 00E0
	OpRET                // 00EE
	OpJP                 // 1nnn
	OpCALL               // 2nnn
	OpSEByte             // 3xkk
	OpSNEByte            // 4xkk
	OpSEReg              // 5xy0
	OpLDByte             // 6xkk
	OpADDByte            // 7xkk
	OpLDReg              // 8xy0
	OpOR                 // 8xy1
	OpAND                // 8xy2
	OpXOR                // 8xy3
	OpADDReg             // 8xy4
	OpSUB                // 8xy5
	OpSHR                // 8xy6
	OpSUBN               // 8xy7
	OpSHL                // 8xyE
	OpSNEReg             // 9xy0
	OpLDI                // Annn
	OpJPV0               // Bnnn
	OpRND                // Cxkk
	OpDRW                // Dxyn
	OpSKP                // Ex9E
	OpSKNP               // ExA1
	OpLDVxDT             // Fx07
	OpLDVxK              // Fx0A
	OpLDDTVx             // Fx15
	OpLDSTVx             // Fx18
	OpADDI               // Fx1E
	OpLDF                // Fx29
	OpLDB                // Fx33
	OpLDIVx              // Fx55
	OpLDVxI              // Fx65

	opCount
)

var opNames = [opCount]string{
	OpCLS:     "CLS",
	OpRET:     "RET",
	OpJP:      "JP",
	OpCALL:    "CALL",
	OpSEByte:  "SE",
	OpSNEByte: "SNE",
	OpSEReg:   "SE",
	OpLDByte:  "LD",
	OpADDByte: "ADD",
	OpLDReg:   "LD",
	OpOR:      "OR",
	OpAND:     "AND",
	OpXOR:     "XOR",
	OpADDReg:  "ADD",
	OpSUB:     "SUB",
	OpSHR:     "SHR",
	OpSUBN:    "SUBN",
	OpSHL:     "SHL",
	OpSNEReg:  "SNE",
	OpLDI:     "LD",
	OpJPV0:    "JP",
	OpRND:     "RND",
	OpDRW:     "DRW",
	OpSKP:     "SKP",
	OpSKNP:    "SKNP",
	OpLDVxDT:  "LD",
	OpLDVxK:   "LD",
	OpLDDTVx:  "LD",
	OpLDSTVx:  "LD",
	OpADDI:    "ADD",
	OpLDF:     "LD",
	OpLDB:     "LD",
	OpLDIVx:   "LD",
	OpLDVxI:   "LD",
}

func (o Op) String() string {
	if o < opCount {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// Instruction is a decoded instruction word. Only the fields used by Op are
// meaningful, the others are still extracted from Raw.
type Instruction struct {
	Op  Op
	Raw uint16
	X   uint8  // bits 8-11
	Y   uint8  // bits 4-7
	N   uint8  // bits 0-3
	KK  uint8  // bits 0-7
	NNN uint16 // bits 0-11
}

// Decode splits a big-endian instruction word into its fields and resolves
// the instruction family. Unrecognised words return ErrUnknownOpcode.
func Decode(word uint16) (Instruction, error) {
	in := Instruction{
		Raw: word,
		X:   uint8(word>>8) & 0x0F,
		Y:   uint8(word>>4) & 0x0F,
		N:   uint8(word) & 0x0F,
		KK:  uint8(word),
		NNN: word & 0x0FFF,
	}

	op, ok := lookupOp(word, in.N, in.KK)
	if !ok {
		return in, faultAt(ErrUnknownOpcode, -1)
	}
	in.Op = op
	return in, nil
}

func lookupOp(word uint16, n, kk uint8) (Op, bool) {
	switch word & 0xF000 {
	case 0x0000:
		switch word {
		case 0x00E0:
			return OpCLS, true
		case 0x00EE:
			return OpRET, true
		}
	case 0x1000:
		return OpJP, true
	case 0x2000:
		return OpCALL, true
	case 0x3000:
		return OpSEByte, true
	case 0x4000:
		return OpSNEByte, true
	case 0x5000:
		if n == 0 {
			return OpSEReg, true
		}
	case 0x6000:
		return OpLDByte, true
	case 0x7000:
		return OpADDByte, true
	case 0x8000:
		switch n {
		case 0x0:
			return OpLDReg, true
		case 0x1:
			return OpOR, true
		case 0x2:
			return OpAND, true
		case 0x3:
			return OpXOR, true
		case 0x4:
			return OpADDReg, true
		case 0x5:
			return OpSUB, true
		case 0x6:
			return OpSHR, true
		case 0x7:
			return OpSUBN, true
		case 0xE:
			return OpSHL, true
		}
	case 0x9000:
		if n == 0 {
			return OpSNEReg, true
		}
	case 0xA000:
		return OpLDI, true
	case 0xB000:
		return OpJPV0, true
	case 0xC000:
		return OpRND, true
	case 0xD000:
		return OpDRW, true
	case 0xE000:
		switch kk {
		case 0x9E:
			return OpSKP, true
		case 0xA1:
			return OpSKNP, true
		}
	case 0xF000:
		switch kk {
		case 0x07:
			return OpLDVxDT, true
		case 0x0A:
			return OpLDVxK, true
		case 0x15:
			return OpLDDTVx, true
		case 0x18:
			return OpLDSTVx, true
		case 0x1E:
			return OpADDI, true
		case 0x29:
			return OpLDF, true
		case 0x33:
			return OpLDB, true
		case 0x55:
			return OpLDIVx, true
		case 0x65:
			return OpLDVxI, true
		}
	}
	return 0, false
}

func (in Instruction) validate() error {
	if in.Op >= opCount {
		return faultAt(ErrUnknownOpcode, -1)
	}
	if in.X > 0xF {
		return faultAt(ErrRegisterIndexOutOfRange, int(in.X))
	}
	if in.Y > 0xF {
		return faultAt(ErrRegisterIndexOutOfRange, int(in.Y))
	}
	return nil
}

func (in Instruction) String() string {
	switch in.Op {
	case OpCLS, OpRET:
		return in.Op.String()
	case OpJP, OpCALL:
		return fmt.Sprintf("%s %03X", in.Op, in.NNN)
	case OpSEByte, OpSNEByte, OpLDByte, OpADDByte:
		return fmt.Sprintf("%s V%X,%02X", in.Op, in.X, in.KK)
	case OpSEReg, OpSNEReg, OpLDReg, OpOR, OpAND, OpXOR, OpADDReg, OpSUB, OpSHR, OpSUBN, OpSHL:
		return fmt.Sprintf("%s V%X,V%X", in.Op, in.X, in.Y)
	case OpLDI:
		return fmt.Sprintf("LD I,%03X", in.NNN)
	case OpJPV0:
		return fmt.Sprintf("JP V0,%03X", in.NNN)
	case OpRND:
		return fmt.Sprintf("RND V%X,%02X", in.X, in.KK)
	case OpDRW:
		return fmt.Sprintf("DRW V%X,V%X,%X", in.X, in.Y, in.N)
	case OpSKP, OpSKNP:
		return fmt.Sprintf("%s V%X", in.Op, in.X)
	case OpLDVxDT:
		return fmt.Sprintf("LD V%X,DT", in.X)
	case OpLDVxK:
		return fmt.Sprintf("LD V%X,K", in.X)
	case OpLDDTVx:
		return fmt.Sprintf("LD DT,V%X", in.X)
	case OpLDSTVx:
		return fmt.Sprintf("LD ST,V%X", in.X)
	case OpADDI:
		return fmt.Sprintf("ADD I,V%X", in.X)
	case OpLDF:
		return fmt.Sprintf("LD F,V%X", in.X)
	case OpLDB:
		return fmt.Sprintf("LD B,V%X", in.X)
	case OpLDIVx:
		return fmt.Sprintf("LD [I],V%X", in.X)
	case OpLDVxI:
		return fmt.Sprintf("LD V%X,[I]", in.X)
	}
	return fmt.Sprintf("DW %04X", in.Raw)
}
