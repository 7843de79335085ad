// Package kinematics provides the kinematic transformations and travel
// envelope enforcement for the polar-XZ machine.
package kinematics

import (
	"polarhost"
	"polarhost/homing"
	"polarhost/stepper"
)

// Status reports the homing state and the configured travel bounds.
type Status struct {
	HomedAxes   string
	AxisMinimum polarhost.Position
	AxisMaximum polarhost.Position
}

// MotionHost is the surface a kinematics backend consumes from the motion
// planner at setup time.
type MotionHost interface {
	// MaxVelocity returns the global velocity and acceleration ceilings.
	MaxVelocity() (velocity, accel float64)

	// TrapQ returns the shared move queue steppers attach to.
	TrapQ() *polarhost.TrapQ

	// RegisterStepGenerator registers a per-stepper flush function.
	RegisterStepGenerator(fn polarhost.StepGenerator)

	// OnMotorOff registers a callback fired when motors de-energize.
	OnMotorOff(fn func(printTime float64))
}

// Kinematics is the interface implemented by kinematic backends.
type Kinematics interface {
	// Steppers returns the actuators in canonical order.
	Steppers() []*stepper.Stepper

	// CalcPosition converts actuator positions (keyed by stepper name)
	// to a cartesian [x, y, z] position.
	CalcPosition(stepperPositions map[string]float64) [3]float64

	// SetPosition forces the commanded position and, for axes being
	// homed, establishes their travel bounds.
	SetPosition(newpos polarhost.Position, homingAxes []homing.Axis)

	// NoteZNotHomed drops the Z travel bound before a re-probe.
	NoteZNotHomed()

	// Home produces homing move descriptors for the requested axes.
	Home(state homing.State) error

	// CheckMove validates a candidate move, tightening its speed and
	// acceleration ceilings or rejecting it with an error.
	CheckMove(move *polarhost.Move) error

	// SegmentMove splits a move that passes too close to a kinematic
	// singularity. It returns nil when no split is needed.
	SegmentMove(move *polarhost.Move) [][2]Point

	// Status reports homing state and travel bounds.
	Status(eventtime float64) Status
}
