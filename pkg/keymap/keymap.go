// Package keymap maps host keyboard characters to CHIP-8 keypad indices.
//
// The default layout puts the 4×4 hex keypad on the left of a QWERTY
// keyboard:
//
//	1 2 3 C      1 2 3 4
//	4 5 6 D  ->  Q W E R
//	7 8 9 E      A S D F
//	A 0 B F      Z X C V
package keymap

import "unicode"

// layout is indexed by keypad key.
var layout = [16]rune{
	0x0: 'x',
	0x1: '1',
	0x2: '2',
	0x3: '3',
	0x4: 'q',
	0x5: 'w',
	0x6: 'e',
	0x7: 'a',
	0x8: 's',
	0x9: 'd',
	0xA: 'z',
	0xB: 'c',
	0xC: '4',
	0xD: 'r',
	0xE: 'f',
	0xF: 'v',
}

var byRune = func() map[rune]uint8 {
	m := make(map[rune]uint8, len(layout))
	for key, r := range layout {
		m[r] = uint8(key)
	}
	return m
}()

// Lookup returns the keypad index for r. Letters match case-insensitively.
func Lookup(r rune) (uint8, bool) {
	key, ok := byRune[unicode.ToLower(r)]
	return key, ok
}

// Rune returns the host character bound to keypad key k.
func Rune(k uint8) (rune, bool) {
	if int(k) >= len(layout) {
		return 0, false
	}
	return layout[k], true
}
