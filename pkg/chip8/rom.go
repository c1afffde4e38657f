package chip8

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/retroenv/retrogolib/log"
)

// LoadROM reads a raw CHIP-8 binary and loads it at ProgramStart. It returns
// the program size. A missing or unreadable file leaves the program region
// as it was and the machine usable.
func (m *Machine) LoadROM(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("%w: %w", ErrRomNotFound, err)
		}
		return 0, fmt.Errorf("%w: %w", ErrRomRead, err)
	}

	if err := m.LoadProgram(data); err != nil {
		return len(data), fmt.Errorf("loading %q: %w", path, err)
	}
	m.logger.Debug("ROM file read", log.String("path", path))
	return len(data), nil
}
