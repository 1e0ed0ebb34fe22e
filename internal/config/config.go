// Package config loads the optional job file for the convert command.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConvertJob mirrors the convert command's arguments and flags.
//
// Example YAML:
//
//	input: captures/fix-gateway.bin
//	output: reports/fix-gateway.csv
//	sampleCount: 100000
//	hdr: true
//	jsonSummary: reports/fix-gateway.json
type ConvertJob struct {
	// Input is the binary latency log to read.
	Input string `json:"input,omitempty" yaml:"input,omitempty"`

	// Output is the CSV file to write.
	Output string `json:"output,omitempty" yaml:"output,omitempty"`

	// SampleCount enables rank-based percentile collection with exactly
	// this capacity when > 0. Zero or negative skips the report.
	SampleCount int `json:"sampleCount,omitempty" yaml:"sampleCount,omitempty"`

	// HDR enables the extended HDR histogram table.
	HDR bool `json:"hdr,omitempty" yaml:"hdr,omitempty"`

	// JSONSummary, when set, is the path the JSON summary is written to.
	JSONSummary string `json:"jsonSummary,omitempty" yaml:"jsonSummary,omitempty"`

	// NoColor disables colored console output.
	NoColor bool `json:"noColor,omitempty" yaml:"noColor,omitempty"`
}

// LoadConvertJob loads a job file. The format is determined by extension:
// .json is parsed as JSON, everything else as YAML.
func LoadConvertJob(path string) (*ConvertJob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job file: %w", err)
	}
	return ParseConvertJob(data, path)
}

// ParseConvertJob parses job file data; path is used only to pick the
// format by extension.
func ParseConvertJob(data []byte, path string) (*ConvertJob, error) {
	var job ConvertJob

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &job); err != nil {
			return nil, fmt.Errorf("failed to parse JSON job file: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &job); err != nil {
			return nil, fmt.Errorf("failed to parse YAML job file: %w", err)
		}
	}

	return &job, nil
}
