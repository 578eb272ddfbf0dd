package math

// Rect is an axis-aligned rectangle anchored at its lower-left corner.
type Rect[T int32 | float32] struct {
	X, Y, Width, Height T
}
