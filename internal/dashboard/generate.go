// Package dashboard renders Grafana dashboards for the capture and state
// tables written to GreptimeDB.
package dashboard

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templates embed.FS

// Params fills the dashboard templates.
type Params struct {
	Title        string
	Datasource   string
	CaptureTable string
	StateTable   string
}

// DefaultParams matches the writer defaults.
func DefaultParams() Params {
	return Params{
		Title:        "Simulation Host",
		Datasource:   "GreptimeDB",
		CaptureTable: "sensor_captures",
		StateTable:   "host_state",
	}
}

// Render parses dashboard templates and writes rendered dashboards to outDir.
func Render(outDir string, p Params) error {
	funcMap := template.FuncMap{
		"env": func(key string) (string, error) {
			v := os.Getenv(key)
			if v == "" {
				return "", fmt.Errorf("environment variable %s not set", key)
			}
			return v, nil
		},
		"envOr": func(key, def string) string {
			if v := os.Getenv(key); v != "" {
				return v
			}
			return def
		},
	}

	names, err := templates.ReadDir("templates")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	for _, e := range names {
		t, err := template.New(e.Name()).Funcs(funcMap).ParseFS(templates, "templates/"+e.Name())
		if err != nil {
			return err
		}
		outPath := filepath.Join(outDir, strings.TrimSuffix(e.Name(), ".tmpl"))
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		if err := t.Execute(f, p); err != nil {
			f.Close()
			return fmt.Errorf("render %s: %w", e.Name(), err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
