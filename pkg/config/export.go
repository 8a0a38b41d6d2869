package config

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// GenerateJSONSchema produces a JSON Schema Draft 2020-12 document from the
// Go LaunchOptions struct using invopop/jsonschema, mirroring
// reflection over the Go struct tags.
func GenerateJSONSchema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = false

	s := r.Reflect(&LaunchOptions{})
	s.ID = "https://github.com/imdj360/xsltdbg/schemas/launch-options.json"
	s.Title = "XSLT Debugger Launch Options"
	s.Description = "Schema for xsltdbg launch-option YAML/JSON documents"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}
