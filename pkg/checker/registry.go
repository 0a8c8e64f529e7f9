package checker

import (
	"context"
	"time"

	"uicheck/pkg/checklist"
	"uicheck/pkg/registry"
)

// StepHandler runs one checklist step of a given type. Label-based handlers
// return one ItemResult per label they evaluated.
type StepHandler func(ctx context.Context, c *Checker, step *checklist.Step, timeout time.Duration) ([]*ItemResult, error)

// StepRegistry manages the registration and lookup of step handlers
type StepRegistry struct {
	*registry.Registry[StepHandler]
}

// NewStepRegistry creates a new empty step registry
func NewStepRegistry() *StepRegistry {
	return &StepRegistry{Registry: registry.New[StepHandler]("step handler")}
}

// Types lists the registered step types in sorted order
func (r *StepRegistry) Types() []string {
	return r.Names()
}

// DefaultRegistry holds the built-in step types
var DefaultRegistry = NewStepRegistry()

// MustRegisterStep registers a step handler with the default registry, panicking if it fails
func MustRegisterStep(stepType string, handler StepHandler) {
	DefaultRegistry.MustRegister(stepType, handler)
}
