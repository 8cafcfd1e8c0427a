package core

import "math"

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Point is an integer 2D coordinate (cell or chunk space).
type Point struct {
	X int
	Y int
}

// Add returns p + q componentwise.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p - q componentwise.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(float64(p.X-q.X), float64(p.Y-q.Y))
}

// NineNeighborhood lists a coordinate's 3x3 neighborhood offsets, center
// included, in row-major top-to-bottom order.
var NineNeighborhood = [9]Point{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {0, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}
