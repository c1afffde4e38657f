package chip8

import (
	"testing"

	"github.com/retroenv/retrogolib/log"
)

func newSilentMachine() *Machine {
	cfg := log.DefaultConfig()
	cfg.Level = log.ErrorLevel
	return New(log.NewWithConfig(cfg), WithSeed(1))
}

// BenchmarkStep_ALU measures dispatch overhead on a register-only loop.
func BenchmarkStep_ALU(b *testing.B) {
	m := newSilentMachine()
	// ADD V0,V1; XOR V2,V0; SHR V3; JP 200
	loadProgram(m, 0x8014, 0x8203, 0x8336, 0x1200)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := m.Step(); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkStep_Draw measures sprite drawing throughput.
func BenchmarkStep_Draw(b *testing.B) {
	m := newSilentMachine()
	// LD I,050; DRW V0,V1,F; ADD V0,3; JP 202
	loadProgram(m, 0xA050, 0xD01F, 0x7003, 0x1202)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := m.Step(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecode(b *testing.B) {
	words := []uint16{0x00E0, 0x1234, 0x8AB4, 0xD125, 0xF365, 0xE59E}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = Decode(words[i%len(words)])
	}
}
