package scenario

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrNoSensors is returned when a scenario declares no imaging sensor.
var ErrNoSensors = errors.New("scenario: no sensors defined")

// Scenario is the descriptor the headless engine loads at startup.
type Scenario struct {
	Name        string   `yaml:"name,omitempty"`
	Description string   `yaml:"description,omitempty"`
	Sensors     []Sensor `yaml:"sensors"`
}

// Sensor is an imaging sensor that captures are issued against.
type Sensor struct {
	Name   string  `yaml:"name"`
	Type   string  `yaml:"type"`
	RangeM float64 `yaml:"range_m,omitempty"`
	FOVDeg float64 `yaml:"fov_deg,omitempty"`
}

// Load reads a YAML scenario definition from disk.
func Load(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that at least one named sensor exists.
func (s *Scenario) Validate() error {
	if len(s.Sensors) == 0 {
		return ErrNoSensors
	}
	for i, sn := range s.Sensors {
		if sn.Name == "" {
			return fmt.Errorf("scenario: sensor %d has no name", i)
		}
	}
	return nil
}

// PrimarySensor returns the first declared sensor.
func (s *Scenario) PrimarySensor() Sensor {
	if len(s.Sensors) == 0 {
		return Sensor{}
	}
	return s.Sensors[0]
}

// Sensor looks a sensor up by name.
func (s *Scenario) Sensor(name string) (Sensor, bool) {
	for _, sn := range s.Sensors {
		if sn.Name == name {
			return sn, true
		}
	}
	return Sensor{}, false
}
