// Package checklist defines the Go data structures representing a page checklist:
// the target page, the per-step wait budget and the ordered steps whose
// expectations must all hold for the page to pass.
package checklist

import "uicheck/pkg/locator"

// Step types understood by the checker
const (
	StepVisible      = "visible"
	StepLinks        = "links"
	StepTextPresence = "text_presence"
	StepAbsent       = "absent"
)

// Wrapper represents a document whose checklist sits under a top-level 'checklist:' key
type Wrapper struct {
	Checklist Checklist `yaml:"checklist" json:"checklist"`
}

// Checklist is the top-level definition of a page smoke test
type Checklist struct {
	Metadata Metadata `yaml:"metadata" json:"metadata"`
	Target   Target   `yaml:"target" json:"target"`
	Steps    []Step   `yaml:"steps" json:"steps"`
}

// Metadata contains descriptive information about the checklist
type Metadata struct {
	ID          string   `yaml:"id" json:"id"`
	Title       string   `yaml:"title,omitempty" json:"title,omitempty"`
	Version     string   `yaml:"version,omitempty" json:"version,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Tags        []string `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// Target identifies the page under test and the default wait budget for every step
type Target struct {
	URL          string `yaml:"url" json:"url"`
	Timeout      string `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	PollInterval string `yaml:"poll_interval,omitempty" json:"poll_interval,omitempty"`
}

// Step is one wait-poll-assert unit of the checklist.
// Locator is required for absent steps. Visible steps default to the navbar
// (tag=nav) and links steps to css=a.nav-link. Expected lists the labels that
// links and text_presence steps must find.
type Step struct {
	Name     string           `yaml:"name" json:"name"`
	Type     string           `yaml:"type" json:"type"`
	Locator  *locator.Locator `yaml:"locator,omitempty" json:"locator,omitempty"`
	Expected []string         `yaml:"expected,omitempty" json:"expected,omitempty"`
	Timeout  string           `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}
