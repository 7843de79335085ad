package kinematics

import "math"

// Point is a 2D point in bed coordinates.
type Point struct {
	X float64
	Y float64
}

// Distance returns the euclidean distance between p1 and p2.
func Distance(p1, p2 Point) float64 {
	return math.Sqrt(SqrDistance(p1, p2))
}

// SqrDistance returns the squared euclidean distance between p1 and p2.
func SqrDistance(p1, p2 Point) float64 {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	return dx*dx + dy*dy
}

// CrossesPoint reports whether check lies on the segment between p1 and p2.
// The test is deliberately loose: it accepts any point whose squared
// distance from both endpoints is within the squared segment length, which
// admits points off the true line. Singularity segmentation is calibrated
// against this exact classification.
func CrossesPoint(check, p1, p2 Point) bool {
	d2 := SqrDistance(p1, p2)
	return SqrDistance(check, p1) <= d2 && SqrDistance(check, p2) <= d2
}

// DistancePointToLine returns the perpendicular distance of p0 from the
// line through p1 and p2.
func DistancePointToLine(p0, p1, p2 Point) float64 {
	return math.Abs((p2.X-p1.X)*(p1.Y-p0.Y)-(p1.X-p0.X)*(p2.Y-p1.Y)) /
		Distance(p1, p2)
}
