// Package polarhost holds the shared types of the polar-XZ motion core:
// cartesian positions, planned moves with tightenable speed ceilings, the
// machine configuration, and the step-generation plumbing shared between
// the planner and the kinematics backend.
package polarhost

import "math"

// Position represents a toolhead position in cartesian coordinates.
type Position struct {
	X float64
	Y float64
	Z float64
	E float64 // Extruder; not part of the machine geometry
}

// AxisValue returns the component for axis index i (x=0, y=1, z=2, e=3).
func (p Position) AxisValue(i int) float64 {
	switch i {
	case 0:
		return p.X
	case 1:
		return p.Y
	case 2:
		return p.Z
	default:
		return p.E
	}
}

// SetAxisValue sets the component for axis index i (x=0, y=1, z=2, e=3).
func (p *Position) SetAxisValue(i int, v float64) {
	switch i {
	case 0:
		p.X = v
	case 1:
		p.Y = v
	case 2:
		p.Z = v
	default:
		p.E = v
	}
}

// Move represents a planned straight-line segment awaiting admission to the
// motion queue. Velocity and Accel are ceilings: the kinematics backend may
// tighten them during validation but never raises them.
type Move struct {
	StartPos Position
	EndPos   Position
	AxesD    [4]float64 // Per-axis delta [x, y, z, e]
	MoveD    float64    // Euclidean length of the xyz displacement (mm)
	Velocity float64    // Speed ceiling (mm/s)
	Accel    float64    // Acceleration ceiling (mm/s^2)
}

// NewMove creates a move between two positions with the given initial
// speed and acceleration ceilings.
func NewMove(start, end Position, velocity, accel float64) *Move {
	m := &Move{
		StartPos: start,
		EndPos:   end,
		Velocity: velocity,
		Accel:    accel,
	}
	m.AxesD = [4]float64{end.X - start.X, end.Y - start.Y, end.Z - start.Z, end.E - start.E}
	m.MoveD = math.Sqrt(m.AxesD[0]*m.AxesD[0] + m.AxesD[1]*m.AxesD[1] + m.AxesD[2]*m.AxesD[2])
	if m.MoveD < 1e-12 {
		// Extrude-only move
		m.MoveD = math.Abs(m.AxesD[3])
	}
	return m
}

// LimitSpeed tightens the move's speed and acceleration ceilings. Calls are
// cumulative: the move always keeps the minimum of the existing and the
// requested ceilings.
func (m *Move) LimitSpeed(velocity, accel float64) {
	if velocity < m.Velocity {
		m.Velocity = velocity
	}
	if accel < m.Accel {
		m.Accel = accel
	}
}

// StepGenerator produces step pulses for one stepper up to flushTime.
type StepGenerator func(flushTime float64) error

// TrapQ holds moves admitted to the motion queue in execution order. Step
// generation consumes it downstream of this module; the planner only appends.
type TrapQ struct {
	Moves []*Move
}

// Append adds an admitted move to the queue.
func (tq *TrapQ) Append(m *Move) {
	tq.Moves = append(tq.Moves, m)
}

// Len returns the number of queued moves.
func (tq *TrapQ) Len() int {
	return len(tq.Moves)
}

// RailConfig describes a linear rail with bounded travel and a homing
// endstop.
type RailConfig struct {
	PositionMin       float64
	PositionMax       float64
	PositionEndstop   float64
	HomingSpeed       float64
	HomingPositiveDir bool
}

// MachineConfig represents the complete machine configuration.
type MachineConfig struct {
	Kinematics string // "polarxz"

	// Global motion ceilings
	MaxVelocity float64 // mm/s
	MaxAccel    float64 // mm/s^2

	// Per-mechanism ceilings; each must lie in (0, global max]
	MaxRotationalVelocity float64
	MaxRotationalAccel    float64
	MaxZVelocity          float64
	MaxZAccel             float64

	Rails map[string]RailConfig // "x", "z"
}
