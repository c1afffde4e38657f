package grid

// GetGridCoords converts a linear cell index into column/row coordinates for
// a grid that is cols cells wide.
func GetGridCoords(index, cols int) (x, y int) {
	return index % cols, index / cols
}

// Index is the inverse of GetGridCoords.
func Index(x, y, cols int) int {
	return y*cols + x
}

// Wrap folds v into [0, n), also for negative values.
func Wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// WrappedIndex returns the linear index of (x, y) after wrapping both
// coordinates onto a cols×rows torus.
func WrappedIndex(x, y, cols, rows int) int {
	return Index(Wrap(x, cols), Wrap(y, rows), cols)
}
