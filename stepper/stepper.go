// Package stepper models the actuators the kinematics backend coordinates:
// bare steppers (the rotating bed carrier) and rails, steppers with bounded
// travel and a homing endstop.
package stepper

import (
	"fmt"

	"polarhost"
)

// HomingInfo holds the homing metadata of a rail.
type HomingInfo struct {
	PositionEndstop float64
	PositiveDir     bool
	Speed           float64
}

// Stepper is a single motor tracked by the kinematic solver. The inverse
// transform from cartesian trajectories to actuator targets is owned by an
// external per-axis position solver; the stepper only carries its solver
// binding and the last commanded cartesian position.
type Stepper struct {
	name           string
	unitsInRadians bool

	solverID string
	axisRole byte

	trapq     *polarhost.TrapQ
	commanded polarhost.Position
}

// NewStepper creates a stepper. unitsInRadians marks rotary actuators whose
// position is an angle rather than a distance.
func NewStepper(name string, unitsInRadians bool) *Stepper {
	return &Stepper{name: name, unitsInRadians: unitsInRadians}
}

// Name returns the stepper name (e.g. "stepper_bed").
func (s *Stepper) Name() string {
	return s.name
}

// UnitsInRadians reports whether the stepper position is an angle.
func (s *Stepper) UnitsInRadians() bool {
	return s.unitsInRadians
}

// SetupItersolve binds the stepper to the external position solver under
// the given solver identifier and axis role tag.
func (s *Stepper) SetupItersolve(solverID string, axisRole byte) {
	s.solverID = solverID
	s.axisRole = axisRole
}

// SolverBinding returns the solver identifier and axis role tag set at
// setup time.
func (s *Stepper) SolverBinding() (string, byte) {
	return s.solverID, s.axisRole
}

// SetTrapQ attaches the stepper to the shared move queue.
func (s *Stepper) SetTrapQ(tq *polarhost.TrapQ) {
	s.trapq = tq
}

// SetPosition unconditionally writes the commanded position. The actuator
// coordinate is derived downstream by the bound position solver.
func (s *Stepper) SetPosition(pos polarhost.Position) {
	s.commanded = pos
}

// CommandedPosition returns the last position written via SetPosition.
func (s *Stepper) CommandedPosition() polarhost.Position {
	return s.commanded
}

// GenerateSteps flushes queued motion into step pulses up to flushTime.
// Pulse timing itself is produced by the MCU-side generator; the host only
// verifies the stepper is attached to a move queue.
func (s *Stepper) GenerateSteps(flushTime float64) error {
	if s.trapq == nil {
		return fmt.Errorf("stepper %s not attached to a move queue", s.name)
	}
	return nil
}

// Rail is a stepper with bounded travel and a homing endstop.
type Rail struct {
	Stepper
	positionMin float64
	positionMax float64
	homing      HomingInfo
}

// NewRail creates a rail from its configuration.
func NewRail(name string, cfg polarhost.RailConfig) *Rail {
	return &Rail{
		Stepper:     Stepper{name: name},
		positionMin: cfg.PositionMin,
		positionMax: cfg.PositionMax,
		homing: HomingInfo{
			PositionEndstop: cfg.PositionEndstop,
			PositiveDir:     cfg.HomingPositiveDir,
			Speed:           cfg.HomingSpeed,
		},
	}
}

// Range returns the rail's travel range.
func (r *Rail) Range() (min, max float64) {
	return r.positionMin, r.positionMax
}

// HomingInfo returns the rail's homing metadata.
func (r *Rail) HomingInfo() HomingInfo {
	return r.homing
}
