package domain

import "math"

// Immutable planar coordinates.
type Coordinates struct {
	X float64
	Y float64
}

// Euclidean distance between two points.
func (c Coordinates) Distance(o Coordinates) float64 {
	return math.Hypot(c.X-o.X, c.Y-o.Y)
}
