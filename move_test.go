package polarhost

import (
	"math"
	"testing"
)

func TestNewMove(t *testing.T) {
	move := NewMove(Position{X: 1, Y: 2, Z: 3, E: 4}, Position{X: 4, Y: 6, Z: 3, E: 5}, 100, 1000)

	wantAxesD := [4]float64{3, 4, 0, 1}
	if move.AxesD != wantAxesD {
		t.Errorf("AxesD = %v, want %v", move.AxesD, wantAxesD)
	}
	if move.MoveD != 5 {
		t.Errorf("MoveD = %v, want 5", move.MoveD)
	}
	if move.Velocity != 100 || move.Accel != 1000 {
		t.Errorf("ceilings = (%v, %v), want (100, 1000)", move.Velocity, move.Accel)
	}
}

func TestNewMoveExtrudeOnly(t *testing.T) {
	move := NewMove(Position{E: 1}, Position{E: 4}, 100, 1000)
	if move.MoveD != 3 {
		t.Errorf("MoveD = %v, want 3 (extruder distance)", move.MoveD)
	}
}

func TestLimitSpeedCumulativeMin(t *testing.T) {
	move := NewMove(Position{}, Position{X: 10}, 100, 1000)

	move.LimitSpeed(50, 2000)
	if move.Velocity != 50 || move.Accel != 1000 {
		t.Errorf("after first limit: (%v, %v), want (50, 1000)", move.Velocity, move.Accel)
	}

	// A looser request must never raise an established ceiling
	move.LimitSpeed(80, 500)
	if move.Velocity != 50 || move.Accel != 500 {
		t.Errorf("after second limit: (%v, %v), want (50, 500)", move.Velocity, move.Accel)
	}
}

func TestMoveErrors(t *testing.T) {
	move := NewMove(Position{}, Position{X: 1.5, Y: 2.5, Z: 3.5, E: 0.5}, 100, 1000)

	if got := move.UnhomedError().Error(); got != "Must home axis first" {
		t.Errorf("UnhomedError = %q, want %q", got, "Must home axis first")
	}
	want := "Move out of range: 1.500 2.500 3.500 [0.500]"
	if got := move.RangeError().Error(); got != want {
		t.Errorf("RangeError = %q, want %q", got, want)
	}
}

func TestPositionAxisValue(t *testing.T) {
	p := Position{X: 1, Y: 2, Z: 3, E: 4}
	for i, want := range []float64{1, 2, 3, 4} {
		if got := p.AxisValue(i); got != want {
			t.Errorf("AxisValue(%d) = %v, want %v", i, got, want)
		}
	}
	p.SetAxisValue(2, 9)
	if p.Z != 9 {
		t.Errorf("SetAxisValue(2, 9): Z = %v, want 9", p.Z)
	}
}

func TestNewMoveDiagonalLength(t *testing.T) {
	move := NewMove(Position{}, Position{X: 1, Y: 1, Z: 1}, 100, 1000)
	if math.Abs(move.MoveD-math.Sqrt(3)) > 1e-12 {
		t.Errorf("MoveD = %v, want sqrt(3)", move.MoveD)
	}
}
