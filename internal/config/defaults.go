package config

import (
	_ "embed"
	"fmt"
	"sort"
)

//go:embed defaults/drop.yaml
var defaultDropYAML []byte

// DefaultDropConfig returns the built-in drop: thrown up at 5 m/s from 8 m
// under Helsinki gravity, in a 10 m field drawn at 40 px/m.
func DefaultDropConfig() DropConfig {
	return DropConfig{
		Preset: string(PresetHelsinki),
		Physics: PhysicsConfig{
			Gravity:     -9.825,
			Restitution: 0.6,
		},
		Drop: LaunchConfig{
			StartHeight:   8,
			StartVelocity: 5,
		},
		Field: FieldConfig{
			Width:          10,
			Height:         10,
			PixelsPerMeter: 40,
		},
		Trace: TraceConfig{
			DriftSpeed: 1.0,
		},
	}
}

// DefaultYAML returns the embedded default configuration document.
func DefaultYAML() []byte {
	return defaultDropYAML
}

// GravityPreset names a gravitational environment.
type GravityPreset string

const (
	PresetEarth    GravityPreset = "earth"
	PresetHelsinki GravityPreset = "helsinki"
	PresetMoon     GravityPreset = "moon"
	PresetMars     GravityPreset = "mars"
	PresetJupiter  GravityPreset = "jupiter"
)

var presetGravity = map[GravityPreset]float64{
	PresetEarth:    -9.80665, // standard gravity
	PresetHelsinki: -9.825,
	PresetMoon:     -1.62,
	PresetMars:     -3.721,
	PresetJupiter:  -24.79,
}

// PresetInfo describes a gravity preset for listings.
type PresetInfo struct {
	Name    GravityPreset
	Gravity float64
}

// Presets returns all gravity presets sorted by name.
func Presets() []PresetInfo {
	out := make([]PresetInfo, 0, len(presetGravity))
	for name, g := range presetGravity {
		out = append(out, PresetInfo{Name: name, Gravity: g})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// GravityFor returns the acceleration of a preset.
func GravityFor(preset GravityPreset) (float64, bool) {
	g, ok := presetGravity[preset]
	return g, ok
}

// ApplyPreset replaces the gravity of cfg with the preset's.
// An empty preset leaves cfg unchanged.
func ApplyPreset(cfg *DropConfig, preset GravityPreset) error {
	if preset == "" {
		return nil
	}
	g, ok := GravityFor(preset)
	if !ok {
		return fmt.Errorf("config: unknown gravity preset %q", preset)
	}
	cfg.Preset = string(preset)
	cfg.Physics.Gravity = g
	return nil
}
