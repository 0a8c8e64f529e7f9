// Package checklist defines the Go data structures representing a page checklist.
// This file specifically handles loading checklists from YAML files, parsing them
// into the defined Go structs, and performing validation.
package checklist

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultTimeout is the per-step wait budget when a checklist does not set one
	DefaultTimeout = 10 * time.Second

	// DefaultPollInterval is the period between two element queries
	DefaultPollInterval = 250 * time.Millisecond
)

// LoadFromFile reads a checklist from a YAML file path, unmarshals it and validates it.
// It handles both bare checklists and documents with a top-level 'checklist:' key.
func LoadFromFile(filePath string) (*Checklist, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read checklist file '%s': %w", filePath, err)
	}

	cl, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(filePath), err)
	}
	return cl, nil
}

// Parse unmarshals and validates a checklist document
func Parse(data []byte) (*Checklist, error) {
	// Try parsing as a wrapper first (has 'checklist:' top-level key)
	var wrapper Wrapper
	if err := yaml.Unmarshal(data, &wrapper); err == nil && wrapper.Checklist.Metadata.ID != "" {
		if err := Validate(&wrapper.Checklist); err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}
		return &wrapper.Checklist, nil
	}

	var cl Checklist
	if err := yaml.Unmarshal(data, &cl); err != nil {
		return nil, fmt.Errorf("YAML parsing error: %w", err)
	}

	if err := Validate(&cl); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return &cl, nil
}

// Validate checks a checklist against the structural rules of the format
func Validate(cl *Checklist) error {
	if cl == nil {
		return fmt.Errorf("nil checklist cannot be validated")
	}

	if cl.Metadata.ID == "" {
		return fmt.Errorf("metadata.id is required")
	}

	if err := validateURL(cl.Target.URL); err != nil {
		return fmt.Errorf("target.url: %w", err)
	}

	if _, err := parseDuration(cl.Target.Timeout, DefaultTimeout); err != nil {
		return fmt.Errorf("target.timeout: %w", err)
	}
	if _, err := parseDuration(cl.Target.PollInterval, DefaultPollInterval); err != nil {
		return fmt.Errorf("target.poll_interval: %w", err)
	}

	if len(cl.Steps) == 0 {
		return fmt.Errorf("steps must contain at least one step")
	}

	for i, step := range cl.Steps {
		if err := validateStep(&step); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}

	return nil
}

func validateStep(step *Step) error {
	if strings.TrimSpace(step.Name) == "" {
		return fmt.Errorf("name is required")
	}

	switch step.Type {
	case StepVisible:
	case StepAbsent:
		if step.Locator == nil {
			return fmt.Errorf("locator is required for %s step", step.Type)
		}
	case StepLinks:
		if len(step.Expected) == 0 {
			return fmt.Errorf("expected must list at least one label for %s step", step.Type)
		}
	case StepTextPresence:
		if len(step.Expected) == 0 {
			return fmt.Errorf("expected must list at least one label for %s step", step.Type)
		}
	case "":
		return fmt.Errorf("type is required")
	default:
		return fmt.Errorf("unknown step type '%s'", step.Type)
	}

	if step.Locator != nil {
		if err := step.Locator.Validate(); err != nil {
			return fmt.Errorf("locator: %w", err)
		}
	}

	for j, label := range step.Expected {
		if strings.TrimSpace(label) == "" {
			return fmt.Errorf("expected[%d] is empty", j)
		}
	}

	if _, err := parseDuration(step.Timeout, DefaultTimeout); err != nil {
		return fmt.Errorf("timeout: %w", err)
	}

	return nil
}

func validateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got '%s'", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}

// Timeout returns the wait budget of step, falling back to the target timeout
func (cl *Checklist) Timeout(step *Step) time.Duration {
	base, err := parseDuration(cl.Target.Timeout, DefaultTimeout)
	if err != nil {
		base = DefaultTimeout
	}
	if step == nil {
		return base
	}
	d, err := parseDuration(step.Timeout, base)
	if err != nil {
		return base
	}
	return d
}

// PollInterval returns the target's polling period
func (cl *Checklist) PollInterval() time.Duration {
	d, err := parseDuration(cl.Target.PollInterval, DefaultPollInterval)
	if err != nil {
		return DefaultPollInterval
	}
	return d
}

// parseDuration parses s ("10s", "500ms"), returning fallback for an empty string
func parseDuration(s string, fallback time.Duration) (time.Duration, error) {
	if strings.TrimSpace(s) == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration '%s': %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got '%s'", s)
	}
	return d, nil
}

// Marshal serializes a checklist to YAML, optionally under a 'checklist:' key
func Marshal(cl *Checklist, asWrapper bool) ([]byte, error) {
	var data []byte
	var err error

	if asWrapper {
		data, err = yaml.Marshal(Wrapper{Checklist: *cl})
	} else {
		data, err = yaml.Marshal(cl)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal checklist to YAML: %w", err)
	}
	return data, nil
}

// SaveToFile serializes a checklist to YAML and saves it to a file
func SaveToFile(cl *Checklist, filePath string, asWrapper bool) error {
	data, err := Marshal(cl, asWrapper)
	if err != nil {
		return err
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write to file '%s': %w", filePath, err)
	}
	return nil
}
