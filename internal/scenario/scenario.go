// Package scenario loads YAML scenario files describing a sequence of
// demo launches: which operation shape each step uses, how long the
// operation takes, what it produces, and where its completion delivers.
// Decoding is strict so a typo in a field name fails loudly instead of
// silently running a default step.
package scenario

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Shape identifies which launch entry point a step exercises.
type Shape string

const (
	ShapeResult Shape = "result" // value or error
	ShapeError  Shape = "error"  // error only
	ShapeValue  Shape = "value"  // value, cannot fail
	ShapeNotify Shape = "notify" // neither value nor error
)

// validShapes lists the accepted shape strings.
var validShapes = map[Shape]bool{
	ShapeResult: true,
	ShapeError:  true,
	ShapeValue:  true,
	ShapeNotify: true,
}

// Duration wraps time.Duration for YAML decoding of strings like
// "250ms" or "2s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string like \"250ms\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if parsed < 0 {
		return fmt.Errorf("duration %q must not be negative", s)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Step describes one launch.
type Step struct {
	// Label identifies the step in logs and events, and is what routing
	// rules match against.
	Label string `yaml:"label"`
	// Shape selects the launch entry point.
	Shape Shape `yaml:"shape"`
	// Delay is how long the operation sleeps before finishing.
	Delay Duration `yaml:"delay"`
	// Value is the result for result/value shapes.
	Value string `yaml:"value"`
	// Fail, when non-empty, makes a result/error shape fail with this
	// message.
	Fail string `yaml:"fail"`
	// Queue overrides routing: deliver to this queue ("ui" for the main
	// context).
	Queue string `yaml:"queue"`
	// CancelAfter, when set, cancels the launch this long after it
	// starts. The operation honors the cancellation if it is still
	// sleeping.
	CancelAfter Duration `yaml:"cancel_after"`
}

// Scenario is an ordered list of steps.
type Scenario struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Parse decodes a scenario from YAML, rejecting unknown fields.
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode scenario: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// validate checks step semantics the YAML schema cannot express.
func (s *Scenario) validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("scenario has no steps")
	}
	for i, step := range s.Steps {
		if step.Label == "" {
			return fmt.Errorf("step %d: label is required", i)
		}
		if !validShapes[step.Shape] {
			return fmt.Errorf("step %d (%s): unknown shape %q", i, step.Label, step.Shape)
		}
		if step.Fail != "" && (step.Shape == ShapeValue || step.Shape == ShapeNotify) {
			return fmt.Errorf("step %d (%s): shape %q cannot fail", i, step.Label, step.Shape)
		}
		if step.Value != "" && (step.Shape == ShapeError || step.Shape == ShapeNotify) {
			return fmt.Errorf("step %d (%s): shape %q carries no value", i, step.Label, step.Shape)
		}
	}
	return nil
}
