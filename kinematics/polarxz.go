package kinematics

import (
	"errors"
	"fmt"
	"math"

	"polarhost"
	"polarhost/homing"
	"polarhost/stepper"
)

// SolverID is the iterative-solver binding shared with the external
// per-axis position solver.
const SolverID = "polarxz_stepper_alloc"

// Axis role tags passed to the external position solver. Its inverse must
// stay algebraically consistent with CalcPosition.
const (
	RoleAngle       = 'a' // rotating bed carrier
	RolePlusRadial  = '+' // x rail
	RoleMinusRadial = '-' // z rail
)

// rotationalPi matches the calibration of the rotational speed scale.
// Admissible speeds depend on this exact value.
const rotationalPi = 3.1415

// detourRadius is the clearance kept around the rotation center, where the
// bed angle is undefined. Same length units as the coordinate system.
const detourRadius = 0.005

// PolarXZ implements kinematics for a rotating bed combined with X and Z
// rails whose positions jointly determine the cartesian position.
type PolarXZ struct {
	bed   *stepper.Stepper
	rails []*stepper.Rail // [x, z]

	maxRotationalVelocity float64
	maxRotationalAccel    float64
	maxZVelocity          float64
	maxZAccel             float64

	// Travel bounds established by homing. limitXY2 is the squared radius
	// limit (negative while unhomed); limitZ is the reachable z window
	// (inverted while unhomed).
	limitXY2 float64
	limitZ   [2]float64

	axesMin polarhost.Position
	axesMax polarhost.Position
}

var _ Kinematics = (*PolarXZ)(nil)

// NewPolarXZ creates the polar-XZ backend and registers its steppers and
// motor-off handler with the motion host.
func NewPolarXZ(host MotionHost, cfg *polarhost.MachineConfig) (*PolarXZ, error) {
	xcfg, ok := cfg.Rails["x"]
	if !ok {
		return nil, errors.New("x rail not configured")
	}
	zcfg, ok := cfg.Rails["z"]
	if !ok {
		return nil, errors.New("z rail not configured")
	}
	if xcfg.PositionMax <= 0 {
		// The rotational speed scale divides by the bed radius.
		return nil, errors.New("x rail must have positive maximum travel")
	}
	if zcfg.PositionMin > zcfg.PositionMax {
		return nil, errors.New("z rail range is inverted")
	}

	k := &PolarXZ{
		bed: stepper.NewStepper("stepper_bed", true),
		rails: []*stepper.Rail{
			stepper.NewRail("stepper_x", xcfg),
			stepper.NewRail("stepper_z", zcfg),
		},
		limitXY2: -1.0,
		limitZ:   [2]float64{1.0, -1.0},
	}
	k.bed.SetupItersolve(SolverID, RoleAngle)
	k.rails[0].SetupItersolve(SolverID, RolePlusRadial)
	k.rails[1].SetupItersolve(SolverID, RoleMinusRadial)

	for _, s := range k.Steppers() {
		s.SetTrapQ(host.TrapQ())
		host.RegisterStepGenerator(s.GenerateSteps)
	}
	host.OnMotorOff(k.motorOff)

	maxVelocity, maxAccel := host.MaxVelocity()
	var err error
	if k.maxRotationalVelocity, err = boundedLimit("max_rotational_velocity",
		cfg.MaxRotationalVelocity, maxVelocity); err != nil {
		return nil, err
	}
	if k.maxRotationalAccel, err = boundedLimit("max_rotational_accel",
		cfg.MaxRotationalAccel, maxAccel); err != nil {
		return nil, err
	}
	if k.maxZVelocity, err = boundedLimit("max_z_velocity",
		cfg.MaxZVelocity, maxVelocity); err != nil {
		return nil, err
	}
	if k.maxZAccel, err = boundedLimit("max_z_accel",
		cfg.MaxZAccel, maxAccel); err != nil {
		return nil, err
	}

	_, maxXY := k.rails[0].Range()
	minZ, maxZ := k.rails[1].Range()
	k.axesMin = polarhost.Position{X: -maxXY, Y: -maxXY, Z: minZ}
	k.axesMax = polarhost.Position{X: maxXY, Y: maxXY, Z: maxZ}
	return k, nil
}

// boundedLimit validates a configured ceiling, defaulting to the global
// ceiling when unset.
func boundedLimit(name string, value, globalMax float64) (float64, error) {
	if value == 0 {
		return globalMax, nil
	}
	if value < 0 || value > globalMax {
		return 0, fmt.Errorf("%s must be above 0 and at most %g", name, globalMax)
	}
	return value, nil
}

// Steppers returns the actuators: the bed carrier first, then the rail
// steppers in rail order.
func (k *PolarXZ) Steppers() []*stepper.Stepper {
	steppers := make([]*stepper.Stepper, 0, 1+len(k.rails))
	steppers = append(steppers, k.bed)
	for _, r := range k.rails {
		steppers = append(steppers, &r.Stepper)
	}
	return steppers
}

// CalcPosition converts actuator positions to cartesian coordinates. The
// bed angle couples the x rail into both planar components while the x and
// z rails jointly produce the vertical position.
func (k *PolarXZ) CalcPosition(stepperPositions map[string]float64) [3]float64 {
	bedAngle := stepperPositions[k.bed.Name()]
	xPos := stepperPositions[k.rails[0].Name()]
	zPos := stepperPositions[k.rails[1].Name()]
	return [3]float64{
		0.5 * (math.Cos(bedAngle)*xPos - zPos),
		math.Sin(bedAngle) * xPos,
		0.5 * (xPos + zPos),
	}
}

// SetPosition writes the commanded position to every stepper and, for axes
// being homed, establishes their travel bounds.
func (k *PolarXZ) SetPosition(newpos polarhost.Position, homingAxes []homing.Axis) {
	for _, s := range k.Steppers() {
		s.SetPosition(newpos)
	}
	var homeX, homeY, homeZ bool
	for _, axis := range homingAxes {
		switch axis {
		case homing.AxisX:
			homeX = true
		case homing.AxisY:
			homeY = true
		case homing.AxisZ:
			homeZ = true
		}
	}
	if homeZ {
		minZ, maxZ := k.rails[1].Range()
		k.limitZ = [2]float64{minZ, maxZ}
	}
	if homeX && homeY {
		_, maxXY := k.rails[0].Range()
		k.limitXY2 = maxXY * maxXY
	}
}

// NoteZNotHomed drops the Z travel bound. Helper for safe Z homing, which
// re-probes before trusting the vertical position.
func (k *PolarXZ) NoteZNotHomed() {
	k.limitZ = [2]float64{1.0, -1.0}
}

// motorOff resets all travel bounds; position trust is lost when the
// motors de-energize.
func (k *PolarXZ) motorOff(printTime float64) {
	k.limitZ = [2]float64{1.0, -1.0}
	k.limitXY2 = -1.0
}

// homeAxis emits one homing move descriptor for axis on rail: retreat to a
// force position offset by the rail's full travel, then probe toward the
// endstop.
func (k *PolarXZ) homeAxis(state homing.State, axis homing.Axis, rail *stepper.Rail) error {
	positionMin, positionMax := rail.Range()
	hi := rail.HomingInfo()
	var homepos homing.Target
	endstop := hi.PositionEndstop
	homepos[axis] = &endstop
	if axis == homing.AxisX {
		zero := 0.0
		homepos[homing.AxisY] = &zero
	}
	forcepos := homepos.Clone()
	if hi.PositiveDir {
		*forcepos[axis] -= hi.PositionEndstop - positionMin
	} else {
		*forcepos[axis] += positionMax - hi.PositionEndstop
	}
	return state.HomeRails([]*stepper.Rail{rail}, forcepos, homepos)
}

// Home produces homing move descriptors for the requested axes. The planar
// axes always home together on the x rail, so a request for either is
// normalized to both.
func (k *PolarXZ) Home(state homing.State) error {
	axes := state.Axes()
	homeXY := containsAxis(axes, homing.AxisX) || containsAxis(axes, homing.AxisY)
	homeZ := containsAxis(axes, homing.AxisZ)
	var updated []homing.Axis
	if homeXY {
		updated = []homing.Axis{homing.AxisX, homing.AxisY}
	}
	if homeZ {
		updated = append(updated, homing.AxisZ)
	}
	state.SetAxes(updated)
	if homeXY {
		if err := k.homeAxis(state, homing.AxisX, k.rails[0]); err != nil {
			return err
		}
		if err := k.homeAxis(state, homing.AxisY, k.rails[0]); err != nil {
			return err
		}
	}
	if homeZ {
		if err := k.homeAxis(state, homing.AxisZ, k.rails[1]); err != nil {
			return err
		}
	}
	return nil
}

// Home2 is an alternate homing strategy kept for comparison: every
// requested axis is homed one at a time, in the order given, with a
// pre-homing clearance of 1.5x the rail's travel.
func (k *PolarXZ) Home2(state homing.State) error {
	for _, axis := range state.Axes() {
		if int(axis) < 0 || int(axis) >= len(k.rails) {
			return fmt.Errorf("no rail for axis %d", axis)
		}
		rail := k.rails[axis]
		positionMin, positionMax := rail.Range()
		hi := rail.HomingInfo()
		var homepos homing.Target
		endstop := hi.PositionEndstop
		homepos[axis] = &endstop
		forcepos := homepos.Clone()
		if hi.PositiveDir {
			*forcepos[axis] -= 1.5 * (hi.PositionEndstop - positionMin)
		} else {
			*forcepos[axis] += 1.5 * (positionMax - hi.PositionEndstop)
		}
		if err := state.HomeRails([]*stepper.Rail{rail}, forcepos, homepos); err != nil {
			return err
		}
	}
	return nil
}

// CheckMove validates a candidate move against the travel envelope and
// tightens its speed and acceleration ceilings for the mechanism.
func (k *PolarXZ) CheckMove(move *polarhost.Move) error {
	endPos := move.EndPos
	xy2 := endPos.X*endPos.X + endPos.Y*endPos.Y
	if xy2 > k.limitXY2 {
		if k.limitXY2 < 0 {
			return move.UnhomedError()
		}
		return move.RangeError()
	}
	if move.AxesD[0] != 0 || move.AxesD[1] != 0 {
		// Equal angular velocity yields less tangential speed near the
		// bed center, so the admissible linear speed shrinks with radius.
		bedCenter := Point{}
		bedRadius := k.axesMax.X
		startRadius := Distance(bedCenter, Point{X: move.StartPos.X, Y: move.StartPos.Y})
		endRadius := Distance(bedCenter, Point{X: move.EndPos.X, Y: move.EndPos.Y})
		scale := 2 * rotationalPi * (math.Min(startRadius, endRadius) / bedRadius)
		move.LimitSpeed(k.maxRotationalAccel, k.maxRotationalVelocity*scale)
	}
	if move.AxesD[2] != 0 {
		if endPos.Z < k.limitZ[0] || endPos.Z > k.limitZ[1] {
			if k.limitZ[0] > k.limitZ[1] {
				return move.UnhomedError()
			}
			return move.RangeError()
		}
		// The z motor contributes only the z fraction of the vector speed.
		zRatio := move.MoveD / math.Abs(move.AxesD[2])
		move.LimitSpeed(k.maxZVelocity*zRatio, k.maxZAccel*zRatio)
	}
	return nil
}

// SegmentMove splits a move whose path crosses the rotation center, where
// the bed angle is undefined, into a three-segment detour around it. It
// returns nil when no split is needed.
func (k *PolarXZ) SegmentMove(move *polarhost.Move) [][2]Point {
	start := Point{X: move.StartPos.X, Y: move.StartPos.Y}
	end := Point{X: move.EndPos.X, Y: move.EndPos.Y}
	if !CrossesPoint(Point{}, start, end) {
		return nil
	}
	var options []Point
	switch {
	case start.X == 0 && end.X == 0:
		// Moving straight along the x == 0 line
		options = []Point{{0, detourRadius}, {0, -detourRadius}}
	case start.Y == 0 && end.Y == 0:
		// Moving straight along the y == 0 line
		options = []Point{{detourRadius, 0}, {-detourRadius, 0}}
	default:
		options = []Point{
			{0, detourRadius},
			{detourRadius, 0},
			{0, -detourRadius},
			{-detourRadius, 0},
		}
	}
	closestToStart := math.Inf(1)
	closestToEnd := math.Inf(1)
	var viaStart, viaEnd Point
	for _, option := range options {
		if d := Distance(option, start); d < closestToStart {
			closestToStart = d
			viaStart = option
		}
		if d := Distance(option, end); d < closestToEnd {
			closestToEnd = d
			viaEnd = option
		}
	}
	return [][2]Point{{start, viaStart}, {viaStart, viaEnd}, {viaEnd, end}}
}

// Status reports the homed axes and the configured travel bounds.
func (k *PolarXZ) Status(eventtime float64) Status {
	homed := ""
	if k.limitXY2 >= 0 {
		homed += "xy"
	}
	if k.limitZ[0] <= k.limitZ[1] {
		homed += "z"
	}
	return Status{
		HomedAxes:   homed,
		AxisMinimum: k.axesMin,
		AxisMaximum: k.axesMax,
	}
}

func containsAxis(axes []homing.Axis, axis homing.Axis) bool {
	for _, a := range axes {
		if a == axis {
			return true
		}
	}
	return false
}
