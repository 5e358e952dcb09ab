// Quality presets and the rendering/overlay settings handed to the engine
package config

import (
	"errors"
	"fmt"
)

// Quality is the fidelity level of one rendering feature.
type Quality int

const (
	QualityDisabled Quality = iota
	QualityLow
	QualityMedium
	QualityHigh
)

func (q Quality) String() string {
	switch q {
	case QualityDisabled:
		return "disabled"
	case QualityLow:
		return "low"
	case QualityMedium:
		return "medium"
	case QualityHigh:
		return "high"
	}
	return fmt.Sprintf("quality(%d)", int(q))
}

// MarshalText renders the quality by name in JSON and YAML output.
func (q Quality) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

// Preset names accepted on the command line.
const (
	PresetLow    = "low"
	PresetMedium = "medium"
	PresetHigh   = "high"
)

// DefaultPreset is used for empty or unrecognized preset names.
const DefaultPreset = PresetMedium

// ErrInvalidWindow is returned for non-positive window dimensions.
var ErrInvalidWindow = errors.New("config: window width and height must be positive")

// RenderConfig holds the per-feature rendering quality and window size.
type RenderConfig struct {
	WindowW    int     `json:"window_w"`
	WindowH    int     `json:"window_h"`
	Shadows    Quality `json:"shadows"`
	AO         Quality `json:"ao"`
	Atmosphere Quality `json:"atmosphere"`
	Ocean      Quality `json:"ocean"`
	AA         Quality `json:"aa"`
	SSR        Quality `json:"ssr"`
	PresetName string  `json:"preset"`
}

// HelperConfig toggles the engine's debug overlays.
type HelperConfig struct {
	ShowFluidDynamics bool `json:"fluid_dynamics" yaml:"fluid_dynamics"`
	ShowCoordSys      bool `json:"coord_systems" yaml:"coord_systems"`
	ShowPhysicsDebug  bool `json:"physics_debug" yaml:"physics_debug"`
	ShowSensors       bool `json:"sensors" yaml:"sensors"`
	ShowActuators     bool `json:"actuators" yaml:"actuators"`
	ShowForces        bool `json:"forces" yaml:"forces"`
}

// tier is the quality of each feature for one preset.
type tier struct {
	shadows, ao, atmosphere, ocean, aa, ssr Quality
}

var presets = map[string]tier{
	PresetLow: {
		shadows:    QualityLow,
		ao:         QualityDisabled,
		atmosphere: QualityLow,
		ocean:      QualityLow,
		aa:         QualityLow,
		ssr:        QualityDisabled,
	},
	PresetMedium: {
		shadows:    QualityMedium,
		ao:         QualityMedium,
		atmosphere: QualityMedium,
		ocean:      QualityMedium,
		aa:         QualityMedium,
		ssr:        QualityMedium,
	},
	PresetHigh: {
		shadows:    QualityHigh,
		ao:         QualityHigh,
		atmosphere: QualityHigh,
		ocean:      QualityHigh,
		aa:         QualityHigh,
		ssr:        QualityHigh,
	},
}

// NormalizePreset maps any preset string to one of low, medium or high.
// Matching is exact; anything else, including "HIGH" or " high", is medium.
func NormalizePreset(name string) string {
	if _, ok := presets[name]; ok {
		return name
	}
	return DefaultPreset
}

// ListPresets returns the supported preset names from lowest to highest.
func ListPresets() []string {
	return []string{PresetLow, PresetMedium, PresetHigh}
}

// Resolve builds the render and overlay configuration for a window size and
// quality preset. Unknown presets resolve to medium.
func Resolve(width, height int, preset string) (RenderConfig, HelperConfig, error) {
	if width <= 0 || height <= 0 {
		return RenderConfig{}, HelperConfig{}, fmt.Errorf("%w: got %dx%d", ErrInvalidWindow, width, height)
	}
	name := NormalizePreset(preset)
	t := presets[name]
	rc := RenderConfig{
		WindowW:    width,
		WindowH:    height,
		Shadows:    t.shadows,
		AO:         t.ao,
		Atmosphere: t.atmosphere,
		Ocean:      t.ocean,
		AA:         t.aa,
		SSR:        t.ssr,
		PresetName: name,
	}
	return rc, HelperConfig{}, nil
}

// Tier reports which preset the six quality fields match, if any.
func (r RenderConfig) Tier() (string, bool) {
	for _, name := range ListPresets() {
		t := presets[name]
		if r.Shadows == t.shadows && r.AO == t.ao && r.Atmosphere == t.atmosphere &&
			r.Ocean == t.ocean && r.AA == t.aa && r.SSR == t.ssr {
			return name, true
		}
	}
	return "", false
}
