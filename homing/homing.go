// Package homing defines the contract between a kinematics backend and the
// external homing coordinator. The backend produces homing move descriptors;
// the coordinator owns the probing loop, endstop-trigger detection, and
// timeouts.
package homing

import "polarhost/stepper"

// Axis identifies one cartesian axis by index.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Target is a per-axis position target. A nil entry leaves that axis
// unconstrained during the homing move.
type Target [4]*float64

// Clone returns a deep copy of the target.
func (t Target) Clone() Target {
	var c Target
	for i, v := range t {
		if v != nil {
			x := *v
			c[i] = &x
		}
	}
	return c
}

// State is the coordinator-side surface a kinematics backend drives while
// sequencing a homing request.
type State interface {
	// Axes returns the axes requested for homing.
	Axes() []Axis

	// SetAxes normalizes the set of axes actually being homed.
	SetAxes(axes []Axis)

	// HomeRails hands one homing move descriptor to the coordinator:
	// move the rails to forcepos, probe toward homepos.
	HomeRails(rails []*stepper.Rail, forcepos, homepos Target) error
}

// HomingMove is one recorded homing move descriptor.
type HomingMove struct {
	Rails    []*stepper.Rail
	ForcePos Target
	HomePos  Target
}

// Recorder is a State implementation that collects descriptors for a
// coordinator to execute (and for tests to inspect).
type Recorder struct {
	axes  []Axis
	moves []HomingMove
}

// NewRecorder creates a recorder with the requested axes.
func NewRecorder(axes []Axis) *Recorder {
	return &Recorder{axes: axes}
}

// Axes returns the axes requested for homing.
func (r *Recorder) Axes() []Axis {
	return r.axes
}

// SetAxes replaces the set of axes being homed.
func (r *Recorder) SetAxes(axes []Axis) {
	r.axes = axes
}

// HomeRails records a homing move descriptor.
func (r *Recorder) HomeRails(rails []*stepper.Rail, forcepos, homepos Target) error {
	r.moves = append(r.moves, HomingMove{
		Rails:    rails,
		ForcePos: forcepos.Clone(),
		HomePos:  homepos.Clone(),
	})
	return nil
}

// Moves returns the recorded descriptors in the order produced.
func (r *Recorder) Moves() []HomingMove {
	return r.moves
}
