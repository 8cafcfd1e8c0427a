package contour

import "github.com/go-gl/mathgl/mgl64"

// Simplify reduces a polyline with the Ramer-Douglas-Peucker algorithm:
// interior vertices closer than epsilon to the chord between the endpoints
// are dropped. Endpoints are always kept.
func Simplify(points []mgl64.Vec2, epsilon float64) []mgl64.Vec2 {
	if len(points) < 3 {
		return append([]mgl64.Vec2(nil), points...)
	}
	end := len(points) - 1
	maxD2 := 0.0
	farthest := 0
	for i := 1; i < end; i++ {
		if d2 := perpDistSq(points[i], points[0], points[end]); d2 > maxD2 {
			maxD2 = d2
			farthest = i
		}
	}
	if maxD2 <= epsilon*epsilon {
		return []mgl64.Vec2{points[0], points[end]}
	}
	left := Simplify(points[:farthest+1], epsilon)
	right := Simplify(points[farthest:], epsilon)
	return append(left, right[1:]...)
}

// perpDistSq is the squared perpendicular distance from p to the line
// through a and b.
func perpDistSq(p, a, b mgl64.Vec2) float64 {
	dx := b.X() - a.X()
	dy := b.Y() - a.Y()
	den := dx*dx + dy*dy
	if den == 0 {
		d := p.Sub(a)
		return d.Dot(d)
	}
	num := dy*p.X() - dx*p.Y() + b.X()*a.Y() - b.Y()*a.X()
	return num * num / den
}
