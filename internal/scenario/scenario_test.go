package scenario

import (
	"errors"
	"testing"
)

func TestLoadScenario(t *testing.T) {
	sc, err := Load("testdata/simple.yaml")
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if sc.Name != "example" {
		t.Fatalf("unexpected name %s", sc.Name)
	}
	if sc.Description != "basic test scenario" {
		t.Fatalf("unexpected description %s", sc.Description)
	}
	if len(sc.Sensors) != 2 {
		t.Fatalf("expected 2 sensors, got %d", len(sc.Sensors))
	}
	if p := sc.PrimarySensor(); p.Name != "fls" || p.RangeM != 50 {
		t.Fatalf("unexpected primary sensor %+v", p)
	}
	if _, ok := sc.Sensor("cam"); !ok {
		t.Fatalf("expected cam sensor")
	}
	if _, ok := sc.Sensor("lidar"); ok {
		t.Fatalf("unexpected lidar sensor")
	}
}

func TestLoadScenarioWithoutSensors(t *testing.T) {
	_, err := Load("testdata/nosensors.yaml")
	if !errors.Is(err, ErrNoSensors) {
		t.Fatalf("expected ErrNoSensors, got %v", err)
	}
}

func TestLoadScenarioMissingFile(t *testing.T) {
	if _, err := Load("testdata/missing.yaml"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidateUnnamedSensor(t *testing.T) {
	s := Scenario{Sensors: []Sensor{{Type: "camera"}}}
	if err := s.Validate(); err == nil {
		t.Fatalf("expected error for unnamed sensor")
	}
}
