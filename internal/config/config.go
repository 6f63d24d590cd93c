// Package config provides YAML-based configuration of a drop: gravity,
// restitution, launch parameters and the size of the field it is drawn in.
package config

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is returned by Validate for unusable parameters.
var ErrInvalidConfig = errors.New("invalid config")

// DropConfig contains everything needed to set up one drop simulation.
type DropConfig struct {
	Preset  string        `yaml:"preset,omitempty"`
	Physics PhysicsConfig `yaml:"physics"`
	Drop    LaunchConfig  `yaml:"drop"`
	Field   FieldConfig   `yaml:"field"`
	Trace   TraceConfig   `yaml:"trace"`
}

// PhysicsConfig defines the constants of the motion.
type PhysicsConfig struct {
	Gravity     float64 `yaml:"gravity"`     // m/s², negative
	Restitution float64 `yaml:"restitution"` // (0, 1)
}

// LaunchConfig defines the state the body is (re)started from.
type LaunchConfig struct {
	StartHeight   float64 `yaml:"start_height"`   // m, >= 0
	StartVelocity float64 `yaml:"start_velocity"` // m/s, positive is up
}

// FieldConfig defines the physical field and its display scale.
type FieldConfig struct {
	Width          float64 `yaml:"width"`            // m
	Height         float64 `yaml:"height"`           // m
	PixelsPerMeter float64 `yaml:"pixels_per_meter"` // display units per meter
}

// TraceConfig tunes the height-over-time scene.
type TraceConfig struct {
	DriftSpeed float64 `yaml:"drift_speed"` // m/s of horizontal scroll
}

// Validate checks that the configuration describes a drop that can be
// simulated and drawn.
func (c DropConfig) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Physics.Gravity < 0 && !math.IsInf(c.Physics.Gravity, 0),
		"physics.gravity must be negative, got %v", c.Physics.Gravity)
	check(c.Physics.Restitution > 0 && c.Physics.Restitution < 1,
		"physics.restitution must be in (0, 1), got %v", c.Physics.Restitution)
	check(c.Field.Width > 0, "field.width must be positive, got %v", c.Field.Width)
	check(c.Field.Height > 0, "field.height must be positive, got %v", c.Field.Height)
	check(c.Field.PixelsPerMeter > 0, "field.pixels_per_meter must be positive, got %v", c.Field.PixelsPerMeter)
	check(c.Drop.StartHeight >= 0, "drop.start_height must not be negative, got %v", c.Drop.StartHeight)
	check(c.Drop.StartHeight <= c.Field.Height || !(c.Field.Height > 0),
		"drop.start_height %v is above the field (height %v)", c.Drop.StartHeight, c.Field.Height)
	check(!math.IsNaN(c.Drop.StartVelocity) && !math.IsInf(c.Drop.StartVelocity, 0),
		"drop.start_velocity must be finite, got %v", c.Drop.StartVelocity)
	check(c.Trace.DriftSpeed > 0, "trace.drift_speed must be positive, got %v", c.Trace.DriftSpeed)

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("config: %w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// PeakHeight returns the highest point of the first flight.
func (c DropConfig) PeakHeight() float64 {
	v := c.Drop.StartVelocity
	if v <= 0 || c.Physics.Gravity >= 0 {
		return c.Drop.StartHeight
	}
	return c.Drop.StartHeight + v*v/(2*-c.Physics.Gravity)
}

// FitTo returns a copy of the field with the largest pixels-per-meter scale
// that fits the field into cols x rows display cells.
func (f FieldConfig) FitTo(cols, rows int) FieldConfig {
	if cols <= 0 || rows <= 0 || f.Width <= 0 || f.Height <= 0 {
		return f
	}
	f.PixelsPerMeter = math.Min(float64(rows)/f.Height, float64(cols)/f.Width)
	return f
}
