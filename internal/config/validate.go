// CUE schema validation code
package config

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var hostSchema []byte

// ValidateWithCue checks raw host config YAML against the embedded schema.
func ValidateWithCue(yamlBytes []byte) error {
	ctx := cuecontext.New()

	var data map[string]interface{}
	if err := yaml.Unmarshal(yamlBytes, &data); err != nil {
		return fmt.Errorf("cannot unmarshal YAML config: %w", err)
	}
	if data == nil {
		data = map[string]interface{}{}
	}
	configVal := ctx.Encode(data)
	if configVal.Err() != nil {
		return fmt.Errorf("cannot encode YAML config: %w", configVal.Err())
	}

	schemaVal := ctx.CompileBytes(hostSchema)
	if schemaVal.Err() != nil {
		return fmt.Errorf("cannot compile CUE schema: %w", schemaVal.Err())
	}
	def := schemaVal.LookupPath(cue.ParsePath("#HostConfig"))

	final := def.Unify(configVal)
	if err := final.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
