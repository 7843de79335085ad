// Package planner implements the motion host: it owns the shared move
// queue and global speed ceilings, and admits candidate moves through the
// kinematics backend (singularity segmentation, then envelope checks).
package planner

import (
	"errors"

	"polarhost"
	"polarhost/homing"
	"polarhost/kinematics"
)

// Planner coordinates move admission for a single control thread. It is
// not safe for concurrent use.
type Planner struct {
	maxVelocity float64
	maxAccel    float64

	trapq            *polarhost.TrapQ
	stepGenerators   []polarhost.StepGenerator
	motorOffHandlers []func(printTime float64)

	kin          kinematics.Kinematics
	commandedPos polarhost.Position
}

var _ kinematics.MotionHost = (*Planner)(nil)

// NewPlanner creates a planner with the configured global ceilings.
func NewPlanner(cfg *polarhost.MachineConfig) *Planner {
	return &Planner{
		maxVelocity: cfg.MaxVelocity,
		maxAccel:    cfg.MaxAccel,
		trapq:       &polarhost.TrapQ{},
	}
}

// SetKinematics binds the kinematics backend. Called once at setup, after
// the backend has registered itself against this planner.
func (p *Planner) SetKinematics(kin kinematics.Kinematics) {
	p.kin = kin
}

// MaxVelocity returns the global velocity and acceleration ceilings.
func (p *Planner) MaxVelocity() (float64, float64) {
	return p.maxVelocity, p.maxAccel
}

// TrapQ returns the shared move queue.
func (p *Planner) TrapQ() *polarhost.TrapQ {
	return p.trapq
}

// RegisterStepGenerator registers a per-stepper flush function.
func (p *Planner) RegisterStepGenerator(fn polarhost.StepGenerator) {
	p.stepGenerators = append(p.stepGenerators, fn)
}

// OnMotorOff registers a callback fired when the motors de-energize.
func (p *Planner) OnMotorOff(fn func(printTime float64)) {
	p.motorOffHandlers = append(p.motorOffHandlers, fn)
}

// MotorOff notifies all registered handlers that the motors have
// de-energized. Homing state is invalidated by the handlers.
func (p *Planner) MotorOff(printTime float64) {
	for _, fn := range p.motorOffHandlers {
		fn(printTime)
	}
}

// CommandedPosition returns the position of the last admitted move.
func (p *Planner) CommandedPosition() polarhost.Position {
	return p.commandedPos
}

// SetPosition forces the commanded position, establishing travel bounds
// for the axes being homed.
func (p *Planner) SetPosition(pos polarhost.Position, homingAxes []homing.Axis) {
	p.commandedPos = pos
	p.kin.SetPosition(pos, homingAxes)
}

// NewMove creates a candidate move from the commanded position. A zero or
// out-of-range speed request falls back to the global ceiling.
func (p *Planner) NewMove(target polarhost.Position, speed float64) *polarhost.Move {
	if speed <= 0 || speed > p.maxVelocity {
		speed = p.maxVelocity
	}
	return polarhost.NewMove(p.commandedPos, target, speed, p.maxAccel)
}

// QueueMove admits a candidate move to the motion queue. A move that
// crosses the rotation center is split into detour segments first; every
// resulting move must pass the envelope check before any of them is
// queued. A rejection drops the whole candidate and is surfaced to the
// caller.
func (p *Planner) QueueMove(move *polarhost.Move) error {
	if p.kin == nil {
		return errors.New("no kinematics configured")
	}
	moves := []*polarhost.Move{move}
	if segments := p.kin.SegmentMove(move); segments != nil {
		moves = splitMove(move, segments)
	}
	for _, m := range moves {
		if err := p.kin.CheckMove(m); err != nil {
			return err
		}
	}
	for _, m := range moves {
		p.trapq.Append(m)
	}
	p.commandedPos = move.EndPos
	return nil
}

// splitMove rebuilds a segmented move as a chain of moves through the
// detour points, interpolating the z and extruder axes along the planar
// path length.
func splitMove(move *polarhost.Move, segments [][2]kinematics.Point) []*polarhost.Move {
	total := 0.0
	for _, seg := range segments {
		total += kinematics.Distance(seg[0], seg[1])
	}
	moves := make([]*polarhost.Move, 0, len(segments))
	run := 0.0
	prev := move.StartPos
	for i, seg := range segments {
		run += kinematics.Distance(seg[0], seg[1])
		end := move.EndPos
		if i < len(segments)-1 {
			frac := 0.0
			if total > 0 {
				frac = run / total
			}
			end = polarhost.Position{
				X: seg[1].X,
				Y: seg[1].Y,
				Z: move.StartPos.Z + move.AxesD[2]*frac,
				E: move.StartPos.E + move.AxesD[3]*frac,
			}
		}
		moves = append(moves, polarhost.NewMove(prev, end, move.Velocity, move.Accel))
		prev = end
	}
	return moves
}
