package chip8

import (
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	"gochip8/pkg/grid"
)

// Display geometry.
const (
	Width  = 64
	Height = 32
)

// Default colours used by frontends and screenshots.
var (
	ColorOn  = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	ColorOff = color.RGBA{A: 0xFF}
)

// Framebuffer is the 64×32 monochrome display, one boolean per pixel.
// Coordinates wrap around both edges, for drawing and for reading.
type Framebuffer struct {
	cells [Width * Height]bool
}

// Pixel reports whether the pixel at (x, y) is lit.
func (f *Framebuffer) Pixel(x, y int) bool {
	return f.cells[grid.WrappedIndex(x, y, Width, Height)]
}

// Clear turns every pixel off.
func (f *Framebuffer) Clear() {
	f.cells = [Width * Height]bool{}
}

// Lit returns the number of pixels that are on.
func (f *Framebuffer) Lit() int {
	n := 0
	for _, on := range f.cells {
		if on {
			n++
		}
	}
	return n
}

// drawSprite XORs rows onto the display with its top-left corner at (x, y),
// most significant bit first. It reports whether any lit pixel was turned
// off, judged from the pixel state before it is toggled.
func (f *Framebuffer) drawSprite(x, y int, rows []byte) bool {
	collision := false
	for row, bits := range rows {
		for col := 0; col < 8; col++ {
			if bits&(0x80>>col) == 0 {
				continue
			}
			idx := grid.WrappedIndex(x+col, y+row, Width, Height)
			if f.cells[idx] {
				collision = true
			}
			f.cells[idx] = !f.cells[idx]
		}
	}
	return collision
}

// RGBA renders the display into a Width×Height RGBA8888 byte slice.
func (f *Framebuffer) RGBA(on, off color.RGBA) []byte {
	pixels := make([]byte, Width*Height*4)
	for i, lit := range f.cells {
		c := off
		if lit {
			c = on
		}
		pixels[i*4+0] = c.R
		pixels[i*4+1] = c.G
		pixels[i*4+2] = c.B
		pixels[i*4+3] = c.A
	}
	return pixels
}

// Image returns the display as an image scaled by an integer factor with
// nearest-neighbour sampling.
func (f *Framebuffer) Image(scale int) *image.RGBA {
	src := &image.RGBA{
		Pix:    f.RGBA(ColorOn, ColorOff),
		Stride: Width * 4,
		Rect:   image.Rect(0, 0, Width, Height),
	}
	if scale <= 1 {
		return src
	}

	dst := image.NewRGBA(image.Rect(0, 0, Width*scale, Height*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// SaveScreenshot encodes the display as a PNG and writes it to filename.
func (f *Framebuffer) SaveScreenshot(filename string, scale int) error {
	img := f.Image(scale)
	out, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer out.Close()
	return png.Encode(out, img)
}
