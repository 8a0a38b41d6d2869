// Package config defines the Go struct type for the debugger's launch
// options document and provides strict YAML parsing, grounded on
// a strict-decode-then-flexible-fallback shape.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LogLevel mirrors dbgengine.LogLevel as a YAML-friendly string enum, so a
// launch-options file never has to spell out the integer encoding.
type LogLevel string

const (
	LogNone     LogLevel = "None"
	LogLog      LogLevel = "Log"
	LogTrace    LogLevel = "Trace"
	LogTraceAll LogLevel = "TraceAll"
)

// LaunchOptions is the launch-time named-parameters document:
// {stylesheetPath, inputPath, outputPath, engine, stopOnEntry, logLevel}.
type LaunchOptions struct {
	StylesheetPath      string   `yaml:"stylesheetPath" json:"stylesheetPath" jsonschema:"required"`
	InputPath           string   `yaml:"inputPath"      json:"inputPath"      jsonschema:"required"`
	OutputPath          string   `yaml:"outputPath,omitempty" json:"outputPath,omitempty"`
	Engine              string   `yaml:"engine"         json:"engine"         jsonschema:"required,enum=legacy,enum=modern"`
	StopOnEntry         bool     `yaml:"stopOnEntry,omitempty" json:"stopOnEntry,omitempty"`
	LogLevel            LogLevel `yaml:"logLevel,omitempty"    json:"logLevel,omitempty" jsonschema:"enum=None,enum=Log,enum=Trace,enum=TraceAll"`
	InstrumentFunctions bool     `yaml:"instrumentFunctions,omitempty" json:"instrumentFunctions,omitempty"`
	TracePath           string   `yaml:"tracePath,omitempty" json:"tracePath,omitempty"`
}

// LoadFile reads and parses a launch-options YAML (or JSON, which is valid
// YAML) file with strict unknown-field rejection.
func LoadFile(path string) (*LaunchOptions, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open launch options: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses launch options from an io.Reader with strict unknown-field
// rejection (yaml.v3 KnownFields).
func Load(r io.Reader) (*LaunchOptions, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read launch options: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var opts LaunchOptions
	if err := dec.Decode(&opts); err != nil {
		return nil, fmt.Errorf("decode launch options: %w", err)
	}
	if opts.LogLevel == "" {
		opts.LogLevel = LogNone
	}
	if opts.Engine == "" {
		opts.Engine = "modern"
	}
	return &opts, nil
}
