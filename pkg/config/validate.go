package config

import (
	"encoding/json"
	"fmt"

	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// ValidationError is a single JSON-Schema validation failure, with a
// JSON-path-like location.
type ValidationError struct {
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Validate checks opts against the generated JSON Schema, then applies the
// domain rule the schema doesn't express structurally: instrumentFunctions
// is rejected for the legacy backend.
func Validate(opts *LaunchOptions) []*ValidationError {
	var errs []*ValidationError

	schemaJSON, err := GenerateJSONSchema()
	if err != nil {
		return []*ValidationError{{Message: fmt.Sprintf("generate schema: %v", err)}}
	}
	var schemaDoc any
	if err := json.Unmarshal(schemaJSON, &schemaDoc); err != nil {
		return []*ValidationError{{Message: fmt.Sprintf("unmarshal schema: %v", err)}}
	}

	c := sjsonschema.NewCompiler()
	if err := c.AddResource("launch-options.json", schemaDoc); err != nil {
		return []*ValidationError{{Message: fmt.Sprintf("add schema resource: %v", err)}}
	}
	sch, err := c.Compile("launch-options.json")
	if err != nil {
		return []*ValidationError{{Message: fmt.Sprintf("compile schema: %v", err)}}
	}

	data, err := json.Marshal(opts)
	if err != nil {
		return []*ValidationError{{Message: fmt.Sprintf("marshal launch options: %v", err)}}
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return []*ValidationError{{Message: fmt.Sprintf("unmarshal launch options: %v", err)}}
	}

	if err := sch.Validate(doc); err != nil {
		if ve, ok := err.(*sjsonschema.ValidationError); ok {
			for _, cause := range flattenValidationErrors(ve) {
				errs = append(errs, &ValidationError{
					Path:    joinInstanceLocation(cause.InstanceLocation),
					Message: fmt.Sprintf("%v", cause.ErrorKind),
				})
			}
		} else {
			errs = append(errs, &ValidationError{Message: err.Error()})
		}
	}

	errs = append(errs, validateDomain(opts)...)
	return errs
}

func validateDomain(opts *LaunchOptions) []*ValidationError {
	var errs []*ValidationError
	if opts.Engine == "legacy" && opts.InstrumentFunctions {
		errs = append(errs, &ValidationError{
			Path:    "instrumentFunctions",
			Message: "instrumentFunctions is not supported against the legacy backend (its dbg:break returns xs:string, not empty-sequence())",
		})
	}
	return errs
}

func flattenValidationErrors(ve *sjsonschema.ValidationError) []*sjsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*sjsonschema.ValidationError{ve}
	}
	var flat []*sjsonschema.ValidationError
	for _, cause := range ve.Causes {
		flat = append(flat, flattenValidationErrors(cause)...)
	}
	return flat
}

func joinInstanceLocation(loc []string) string {
	out := ""
	for i, p := range loc {
		if i > 0 {
			out += "/"
		}
		out += p
	}
	return out
}
