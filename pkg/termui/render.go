package termui

import (
	"bytes"
	"fmt"
	"io"

	"gochip8/pkg/chip8"
)

const (
	cursorHome  = "\x1b[H"
	clearScreen = "\x1b[2J"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
)

// half-block glyphs, indexed by upper<<1 | lower
var blocks = [4]string{" ", "▄", "▀", "█"}

// Render draws the framebuffer as Height/2 lines of Width characters, two
// pixel rows per character cell, followed by a status line.
func Render(w io.Writer, fb *chip8.Framebuffer, status string) error {
	var buf bytes.Buffer
	buf.WriteString(cursorHome)
	for y := 0; y < chip8.Height; y += 2 {
		for x := 0; x < chip8.Width; x++ {
			idx := 0
			if fb.Pixel(x, y) {
				idx |= 2
			}
			if fb.Pixel(x, y+1) {
				idx |= 1
			}
			buf.WriteString(blocks[idx])
		}
		buf.WriteString("\r\n")
	}
	fmt.Fprintf(&buf, "%-*s\r\n", chip8.Width, status)

	_, err := w.Write(buf.Bytes())
	return err
}

// Status formats the one-line machine summary shown under the display.
func Status(m *chip8.Machine) string {
	s := fmt.Sprintf("PC=%04X I=%04X DT=%02X ST=%02X %s", m.PC, m.I, m.DT, m.ST, m.State())
	if m.SoundActive() {
		s += " BEEP"
	}
	return s
}
