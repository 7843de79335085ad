// Package config loads and validates the machine configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"

	"polarhost"
)

// LoadConfig parses a JSON configuration, applies defaults and validates
// the result.
func LoadConfig(data []byte) (*polarhost.MachineConfig, error) {
	var cfg polarhost.MachineConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in missing configuration values. Mechanism ceilings
// default to the global ceilings.
func applyDefaults(cfg *polarhost.MachineConfig) {
	if cfg.Kinematics == "" {
		cfg.Kinematics = "polarxz"
	}
	if cfg.MaxVelocity == 0 {
		cfg.MaxVelocity = 300.0
	}
	if cfg.MaxAccel == 0 {
		cfg.MaxAccel = 3000.0
	}
	if cfg.MaxRotationalVelocity == 0 {
		cfg.MaxRotationalVelocity = cfg.MaxVelocity
	}
	if cfg.MaxRotationalAccel == 0 {
		cfg.MaxRotationalAccel = cfg.MaxAccel
	}
	if cfg.MaxZVelocity == 0 {
		cfg.MaxZVelocity = cfg.MaxVelocity
	}
	if cfg.MaxZAccel == 0 {
		cfg.MaxZAccel = cfg.MaxAccel
	}
	for name, rail := range cfg.Rails {
		if rail.HomingSpeed == 0 {
			rail.HomingSpeed = 5.0
		}
		cfg.Rails[name] = rail
	}
}

// Validate rejects configurations the kinematics cannot support. Setup is
// the only place these are caught; move admission assumes them.
func Validate(cfg *polarhost.MachineConfig) error {
	if cfg.Kinematics != "polarxz" {
		return errors.New("unsupported kinematics: " + cfg.Kinematics)
	}
	x, ok := cfg.Rails["x"]
	if !ok {
		return errors.New("x rail not configured")
	}
	z, ok := cfg.Rails["z"]
	if !ok {
		return errors.New("z rail not configured")
	}
	if x.PositionMin > x.PositionMax {
		return errors.New("x rail range is inverted")
	}
	if z.PositionMin > z.PositionMax {
		return errors.New("z rail range is inverted")
	}
	if x.PositionMax <= 0 {
		// The rotational speed scale divides by this travel.
		return errors.New("x rail must have positive maximum travel")
	}
	if err := checkCeiling("max_rotational_velocity", cfg.MaxRotationalVelocity, cfg.MaxVelocity); err != nil {
		return err
	}
	if err := checkCeiling("max_rotational_accel", cfg.MaxRotationalAccel, cfg.MaxAccel); err != nil {
		return err
	}
	if err := checkCeiling("max_z_velocity", cfg.MaxZVelocity, cfg.MaxVelocity); err != nil {
		return err
	}
	return checkCeiling("max_z_accel", cfg.MaxZAccel, cfg.MaxAccel)
}

func checkCeiling(name string, value, globalMax float64) error {
	if value <= 0 || value > globalMax {
		return fmt.Errorf("%s must be above 0 and at most %g", name, globalMax)
	}
	return nil
}

// DefaultPolarXZConfig returns a default configuration for a polar-XZ
// machine with a 100mm bed radius.
func DefaultPolarXZConfig() *polarhost.MachineConfig {
	return &polarhost.MachineConfig{
		Kinematics:            "polarxz",
		MaxVelocity:           300.0,
		MaxAccel:              3000.0,
		MaxRotationalVelocity: 180.0,
		MaxRotationalAccel:    1000.0,
		MaxZVelocity:          10.0,
		MaxZAccel:             100.0,
		Rails: map[string]polarhost.RailConfig{
			"x": {
				PositionMin:       0.0,
				PositionMax:       100.0,
				PositionEndstop:   100.0,
				HomingSpeed:       25.0,
				HomingPositiveDir: true,
			},
			"z": {
				PositionMin:       0.0,
				PositionMax:       200.0,
				PositionEndstop:   0.0,
				HomingSpeed:       5.0,
				HomingPositiveDir: false,
			},
		},
	}
}
