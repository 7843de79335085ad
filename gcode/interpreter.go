package gcode

import (
	"fmt"
	"strings"

	"polarhost"
	"polarhost/homing"
	"polarhost/kinematics"
	"polarhost/planner"
)

// Interpreter executes parsed G-code commands against the motion host.
type Interpreter struct {
	cfg     *polarhost.MachineConfig
	planner *planner.Planner
	kin     kinematics.Kinematics

	absoluteMode bool
	feedRate     float64 // mm/s
}

// NewInterpreter creates a G-code interpreter.
func NewInterpreter(cfg *polarhost.MachineConfig, pl *planner.Planner, kin kinematics.Kinematics) *Interpreter {
	return &Interpreter{
		cfg:          cfg,
		planner:      pl,
		kin:          kin,
		absoluteMode: true,
		feedRate:     cfg.MaxVelocity,
	}
}

// Run parses and executes one line of G-code, returning any response text.
func (in *Interpreter) Run(line string) (string, error) {
	cmd, err := ParseLine(line)
	if err != nil {
		return "", err
	}
	return in.Execute(cmd)
}

// Execute executes a parsed command. A move rejection is returned to the
// caller unchanged: the in-flight job pauses rather than retrying.
func (in *Interpreter) Execute(cmd *Command) (string, error) {
	if cmd == nil {
		return "", nil
	}
	switch cmd.Type {
	case 'G':
		return in.executeG(cmd)
	case 'M':
		return in.executeM(cmd)
	}
	return "", nil
}

func (in *Interpreter) executeG(cmd *Command) (string, error) {
	switch cmd.Number {
	case 0, 1:
		return "", in.doMove(cmd)
	case 28:
		return "", in.doHome(cmd)
	case 90:
		in.absoluteMode = true
	case 91:
		in.absoluteMode = false
	case 92:
		in.doForcePosition(cmd)
	}
	return "", nil
}

func (in *Interpreter) executeM(cmd *Command) (string, error) {
	switch cmd.Number {
	case 18, 84: // Disable motors; homing state is no longer trusted
		in.planner.MotorOff(0)
	case 114:
		pos := in.planner.CommandedPosition()
		return fmt.Sprintf("X:%.3f Y:%.3f Z:%.3f E:%.3f", pos.X, pos.Y, pos.Z, pos.E), nil
	}
	return "", nil
}

// doMove executes a linear move (G0/G1).
func (in *Interpreter) doMove(cmd *Command) error {
	current := in.planner.CommandedPosition()
	target := current

	if cmd.Has('F') {
		// Feed rates arrive in mm/min
		in.feedRate = cmd.Get('F', 0) / 60.0
	}

	for _, axis := range []struct {
		param byte
		index int
	}{{'X', 0}, {'Y', 1}, {'Z', 2}, {'E', 3}} {
		if !cmd.Has(axis.param) {
			continue
		}
		v := cmd.Get(axis.param, 0)
		if !in.absoluteMode {
			v += current.AxisValue(axis.index)
		}
		target.SetAxisValue(axis.index, v)
	}

	move := in.planner.NewMove(target, in.feedRate)
	if move.MoveD == 0 {
		return nil
	}
	return in.planner.QueueMove(move)
}

// doHome executes homing (G28). The kinematics backend supplies homing
// move descriptors; the probing loop itself belongs to the MCU-side
// coordinator. In console operation homing completes at the recorded home
// targets directly.
func (in *Interpreter) doHome(cmd *Command) error {
	var axes []homing.Axis
	if cmd.Has('X') {
		axes = append(axes, homing.AxisX)
	}
	if cmd.Has('Y') {
		axes = append(axes, homing.AxisY)
	}
	if cmd.Has('Z') {
		axes = append(axes, homing.AxisZ)
	}
	if len(axes) == 0 {
		axes = []homing.Axis{homing.AxisX, homing.AxisY, homing.AxisZ}
	}

	recorder := homing.NewRecorder(axes)
	if err := in.kin.Home(recorder); err != nil {
		return err
	}

	// Homing completes at the endstop pose: actuator endstop positions
	// pushed through the forward transform. The rotary carrier homes at
	// angle zero.
	positions := make(map[string]float64)
	for _, s := range in.kin.Steppers() {
		name := s.Name()
		if railCfg, ok := in.cfg.Rails[strings.TrimPrefix(name, "stepper_")]; ok {
			positions[name] = railCfg.PositionEndstop
		} else {
			positions[name] = 0
		}
	}
	cart := in.kin.CalcPosition(positions)

	pos := in.planner.CommandedPosition()
	homed := recorder.Axes()
	for _, axis := range homed {
		pos.SetAxisValue(int(axis), cart[axis])
	}
	in.planner.SetPosition(pos, homed)
	return nil
}

// doForcePosition sets the commanded position without moving (G92).
func (in *Interpreter) doForcePosition(cmd *Command) {
	pos := in.planner.CommandedPosition()
	for _, axis := range []struct {
		param byte
		index int
	}{{'X', 0}, {'Y', 1}, {'Z', 2}, {'E', 3}} {
		if cmd.Has(axis.param) {
			pos.SetAxisValue(axis.index, cmd.Get(axis.param, 0))
		}
	}
	in.planner.SetPosition(pos, nil)
}
