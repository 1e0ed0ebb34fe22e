package output

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/wesleyorama2/latrec/internal/stats"
)

// SummaryDocument is the machine-readable counterpart of the console
// report, written by `convert --json-summary`.
type SummaryDocument struct {
	Input     string          `json:"input"`
	Output    string          `json:"output"`
	Records   int             `json:"records"`
	Truncated bool            `json:"truncated"`
	Samples   *SampleStats    `json:"samples,omitempty"`
	Histogram *HistogramStats `json:"histogram,omitempty"`
}

// SampleStats mirrors stats.Summary with JSON field names.
type SampleStats struct {
	Count  int   `json:"count"`
	Min    int32 `json:"min"`
	Max    int32 `json:"max"`
	Median int32 `json:"median"`
	P99    int32 `json:"p99"`
	P999   int32 `json:"p99_9"`
	P9999  int32 `json:"p99_99"`
	P99999 int32 `json:"p99_999"`
}

// HistogramStats mirrors stats.HistogramStats with JSON field names.
type HistogramStats struct {
	Count   int64   `json:"count"`
	Dropped int64   `json:"dropped"`
	Min     int64   `json:"min"`
	Max     int64   `json:"max"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"stddev"`
	P50     int64   `json:"p50"`
	P90     int64   `json:"p90"`
	P95     int64   `json:"p95"`
	P99     int64   `json:"p99"`
	P999    int64   `json:"p99_9"`
}

// NewSampleStats converts a stats.Summary for the JSON document.
func NewSampleStats(s stats.Summary) *SampleStats {
	return &SampleStats{
		Count:  s.Count,
		Min:    s.Min,
		Max:    s.Max,
		Median: s.Median,
		P99:    s.P99,
		P999:   s.P999,
		P9999:  s.P9999,
		P99999: s.P99999,
	}
}

// NewHistogramStats converts a stats.HistogramStats for the JSON document.
func NewHistogramStats(h stats.HistogramStats) *HistogramStats {
	return &HistogramStats{
		Count:   h.Count,
		Dropped: h.Dropped,
		Min:     h.Min,
		Max:     h.Max,
		Mean:    h.Mean,
		StdDev:  h.StdDev,
		P50:     h.P50,
		P90:     h.P90,
		P95:     h.P95,
		P99:     h.P99,
		P999:    h.P999,
	}
}

// SummarySchema is the JSON Schema the summary document is documented to
// follow. WriteSummaryJSON validates against it before writing, so a
// field rename can never ship a document that disagrees with the schema.
const SummarySchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["input", "output", "records", "truncated"],
  "properties": {
    "input": {"type": "string", "minLength": 1},
    "output": {"type": "string", "minLength": 1},
    "records": {"type": "integer", "minimum": 0},
    "truncated": {"type": "boolean"},
    "samples": {
      "type": "object",
      "required": ["count", "min", "max", "median", "p99", "p99_9", "p99_99", "p99_999"],
      "properties": {
        "count": {"type": "integer", "minimum": 1},
        "min": {"type": "integer"},
        "max": {"type": "integer"},
        "median": {"type": "integer"},
        "p99": {"type": "integer"},
        "p99_9": {"type": "integer"},
        "p99_99": {"type": "integer"},
        "p99_999": {"type": "integer"}
      },
      "additionalProperties": false
    },
    "histogram": {
      "type": "object",
      "required": ["count", "dropped", "min", "max", "mean", "stddev", "p50", "p90", "p95", "p99", "p99_9"],
      "properties": {
        "count": {"type": "integer", "minimum": 0},
        "dropped": {"type": "integer", "minimum": 0},
        "min": {"type": "integer"},
        "max": {"type": "integer"},
        "mean": {"type": "number"},
        "stddev": {"type": "number"},
        "p50": {"type": "integer"},
        "p90": {"type": "integer"},
        "p95": {"type": "integer"},
        "p99": {"type": "integer"},
        "p99_9": {"type": "integer"}
      },
      "additionalProperties": false
    }
  },
  "additionalProperties": false
}`

// ValidateSummary checks a marshalled summary document against
// SummarySchema.
func ValidateSummary(data []byte) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("summary.json", strings.NewReader(SummarySchema)); err != nil {
		return fmt.Errorf("invalid summary schema: %w", err)
	}
	schema, err := compiler.Compile("summary.json")
	if err != nil {
		return fmt.Errorf("invalid summary schema: %w", err)
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid summary JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("summary does not match schema: %w", err)
	}
	return nil
}

// WriteSummaryJSON validates and writes the summary document to path.
func WriteSummaryJSON(path string, doc *SummaryDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling summary: %w", err)
	}
	data = append(data, '\n')

	if err := ValidateSummary(data); err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}
