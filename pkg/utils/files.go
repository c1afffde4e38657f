// Package utils holds small filesystem helpers shared by the frontends.
package utils

import "path/filepath"

// ResolvePaths makes the ROM path absolute and anchors a relative
// screenshot path in the ROM's directory, so screenshots land next to the
// game they show. An empty or absolute screenshot path is only cleaned.
func ResolvePaths(rom, screenshot string) (romPath, screenshotPath string, err error) {
	romPath, err = filepath.Abs(rom)
	if err != nil {
		return "", "", err
	}

	switch {
	case screenshot == "":
	case filepath.IsAbs(screenshot):
		screenshotPath = filepath.Clean(screenshot)
	default:
		screenshotPath = filepath.Join(filepath.Dir(romPath), screenshot)
	}
	return romPath, screenshotPath, nil
}
