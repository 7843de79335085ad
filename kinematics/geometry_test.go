package kinematics

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	testCases := []struct {
		p1, p2 Point
		want   float64
	}{
		{Point{0, 0}, Point{3, 4}, 5},
		{Point{-1, -1}, Point{-1, -1}, 0},
		{Point{1, 0}, Point{-1, 0}, 2},
		{Point{0, -2}, Point{0, 3}, 5},
	}

	for i, tc := range testCases {
		if got := Distance(tc.p1, tc.p2); math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("case %d: Distance(%v, %v) = %v, want %v", i, tc.p1, tc.p2, got, tc.want)
		}
		if got := SqrDistance(tc.p1, tc.p2); math.Abs(got-tc.want*tc.want) > 1e-12 {
			t.Errorf("case %d: SqrDistance(%v, %v) = %v, want %v", i, tc.p1, tc.p2, got, tc.want*tc.want)
		}
	}
}

func TestCrossesPoint(t *testing.T) {
	testCases := []struct {
		name           string
		check, p1, p2  Point
		want           bool
	}{
		{"origin mid-segment", Point{0, 0}, Point{-1, 0}, Point{1, 0}, true},
		{"origin at endpoint", Point{0, 0}, Point{0, 0}, Point{1, 0}, true},
		{"origin far away", Point{0, 0}, Point{2, 2}, Point{3, 3}, false},
		{"origin behind segment", Point{0, 0}, Point{1, 0}, Point{2, 0}, false},
		// The test is a proximity check, not collinearity: a point off the
		// line but near both endpoints still counts as crossed.
		{"off-line point inside ellipse", Point{0.5, 0.5}, Point{0, 0}, Point{1, 0}, true},
	}

	for _, tc := range testCases {
		if got := CrossesPoint(tc.check, tc.p1, tc.p2); got != tc.want {
			t.Errorf("%s: CrossesPoint(%v, %v, %v) = %v, want %v",
				tc.name, tc.check, tc.p1, tc.p2, got, tc.want)
		}
	}
}

func TestCrossesPointSymmetric(t *testing.T) {
	points := []Point{
		{0, 0}, {1, 0}, {-1, 0}, {0.5, 0.5}, {2, 2}, {3, 3}, {-0.3, 0.7},
	}
	for _, check := range points {
		for _, p1 := range points {
			for _, p2 := range points {
				ab := CrossesPoint(check, p1, p2)
				ba := CrossesPoint(check, p2, p1)
				if ab != ba {
					t.Errorf("CrossesPoint(%v, %v, %v) = %v but swapped endpoints give %v",
						check, p1, p2, ab, ba)
				}
			}
		}
	}
}

func TestDistancePointToLine(t *testing.T) {
	testCases := []struct {
		p0, p1, p2 Point
		want       float64
	}{
		{Point{0, 1}, Point{-1, 0}, Point{1, 0}, 1},
		{Point{0, 0}, Point{0, -1}, Point{0, 1}, 0},
		{Point{3, 4}, Point{0, 0}, Point{1, 0}, 4},
	}

	for i, tc := range testCases {
		if got := DistancePointToLine(tc.p0, tc.p1, tc.p2); math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("case %d: DistancePointToLine(%v, %v, %v) = %v, want %v",
				i, tc.p0, tc.p1, tc.p2, got, tc.want)
		}
	}
}
