package planner

import (
	"errors"
	"math"
	"testing"

	"polarhost"
	"polarhost/config"
	"polarhost/homing"
	"polarhost/kinematics"
)

func newTestPlanner(t *testing.T) (*Planner, *kinematics.PolarXZ) {
	t.Helper()
	cfg := config.DefaultPolarXZConfig()
	pl := NewPlanner(cfg)
	kin, err := kinematics.NewPolarXZ(pl, cfg)
	if err != nil {
		t.Fatalf("NewPolarXZ failed: %v", err)
	}
	pl.SetKinematics(kin)
	return pl, kin
}

func homeAll(pl *Planner, pos polarhost.Position) {
	pl.SetPosition(pos, []homing.Axis{homing.AxisX, homing.AxisY, homing.AxisZ})
}

func TestQueueMoveAdmits(t *testing.T) {
	pl, _ := newTestPlanner(t)
	homeAll(pl, polarhost.Position{X: 50})

	move := pl.NewMove(polarhost.Position{X: 60, Y: 10, Z: 5}, 100)
	if err := pl.QueueMove(move); err != nil {
		t.Fatalf("QueueMove failed: %v", err)
	}
	if pl.TrapQ().Len() != 1 {
		t.Errorf("queue length = %d, want 1", pl.TrapQ().Len())
	}
	if got := pl.CommandedPosition(); got != (polarhost.Position{X: 60, Y: 10, Z: 5}) {
		t.Errorf("commanded position = %v", got)
	}
}

func TestQueueMoveRejectsUnhomed(t *testing.T) {
	pl, _ := newTestPlanner(t)

	move := pl.NewMove(polarhost.Position{X: 10}, 100)
	err := pl.QueueMove(move)
	var unhomed *polarhost.UnhomedAxisError
	if !errors.As(err, &unhomed) {
		t.Fatalf("QueueMove = %v, want UnhomedAxisError", err)
	}
	if pl.TrapQ().Len() != 0 {
		t.Errorf("queue length = %d, want 0 after rejection", pl.TrapQ().Len())
	}
	if got := pl.CommandedPosition(); got != (polarhost.Position{}) {
		t.Errorf("commanded position moved on rejection: %v", got)
	}
}

func TestQueueMoveSplitsOriginCrossing(t *testing.T) {
	pl, _ := newTestPlanner(t)
	homeAll(pl, polarhost.Position{X: -50})

	move := pl.NewMove(polarhost.Position{X: 50}, 100)
	if err := pl.QueueMove(move); err != nil {
		t.Fatalf("QueueMove failed: %v", err)
	}
	queued := pl.TrapQ().Moves
	if len(queued) != 3 {
		t.Fatalf("queue length = %d, want 3 detour segments", len(queued))
	}
	if queued[0].EndPos.X != -0.005 || queued[1].EndPos.X != 0.005 {
		t.Errorf("detour points = %v, %v", queued[0].EndPos, queued[1].EndPos)
	}
	if queued[2].EndPos != (polarhost.Position{X: 50}) {
		t.Errorf("final segment ends at %v, want {50 0 0 0}", queued[2].EndPos)
	}
	if got := pl.CommandedPosition(); got != (polarhost.Position{X: 50}) {
		t.Errorf("commanded position = %v, want {50 0 0 0}", got)
	}
}

func TestQueueMoveSplitInterpolatesZ(t *testing.T) {
	pl, _ := newTestPlanner(t)
	homeAll(pl, polarhost.Position{X: -50})

	move := pl.NewMove(polarhost.Position{X: 50, Z: 10}, 100)
	if err := pl.QueueMove(move); err != nil {
		t.Fatalf("QueueMove failed: %v", err)
	}
	queued := pl.TrapQ().Moves
	if len(queued) != 3 {
		t.Fatalf("queue length = %d, want 3", len(queued))
	}
	// z climbs monotonically along the planar path and lands exactly
	prev := 0.0
	for i, m := range queued {
		if m.EndPos.Z < prev {
			t.Errorf("segment %d z = %v, decreased from %v", i, m.EndPos.Z, prev)
		}
		prev = m.EndPos.Z
	}
	if queued[2].EndPos.Z != 10 {
		t.Errorf("final z = %v, want 10", queued[2].EndPos.Z)
	}
	if math.Abs(queued[0].EndPos.Z-queued[1].StartPos.Z) > 1e-12 {
		t.Error("segments are not contiguous in z")
	}
}

func TestMotorOffInvalidatesHoming(t *testing.T) {
	pl, kin := newTestPlanner(t)
	homeAll(pl, polarhost.Position{X: 50})
	if st := kin.Status(0); st.HomedAxes != "xyz" {
		t.Fatalf("homed_axes = %q, want xyz", st.HomedAxes)
	}

	pl.MotorOff(3.0)
	if st := kin.Status(0); st.HomedAxes != "" {
		t.Errorf("homed_axes = %q, want \"\" after motor off", st.HomedAxes)
	}

	move := pl.NewMove(polarhost.Position{X: 60}, 100)
	var unhomed *polarhost.UnhomedAxisError
	if err := pl.QueueMove(move); !errors.As(err, &unhomed) {
		t.Errorf("QueueMove after motor off = %v, want UnhomedAxisError", err)
	}
}

func TestNewMoveClampsSpeed(t *testing.T) {
	pl, _ := newTestPlanner(t)

	move := pl.NewMove(polarhost.Position{X: 10}, 0)
	if move.Velocity != 300 {
		t.Errorf("zero speed request: velocity = %v, want global ceiling 300", move.Velocity)
	}
	move = pl.NewMove(polarhost.Position{X: 10}, 9999)
	if move.Velocity != 300 {
		t.Errorf("excess speed request: velocity = %v, want global ceiling 300", move.Velocity)
	}
}
