package checker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"uicheck/pkg/checklist"
)

// Run opens the checklist's target and executes its steps in order,
// stopping at the first failure. The returned error is the first failure
// (a *CheckError) or a checklist validation error; the result is always
// non-nil so the caller can report partial progress.
func (c *Checker) Run(ctx context.Context, cl *checklist.Checklist) (*RunResult, error) {
	result := &RunResult{StartTime: time.Now()}
	if cl != nil {
		result.ID = cl.Metadata.ID
		result.Title = cl.Metadata.Title
		result.URL = cl.Target.URL
	}

	if err := checklist.Validate(cl); err != nil {
		result.Error = fmt.Errorf("invalid checklist: %w", err)
		result.finalize()
		return result, result.Error
	}

	result.Total = len(cl.Steps)

	// The checklist's own pacing wins over the checker defaults.
	rc := *c
	rc.opts.Timeout = cl.Timeout(nil)
	rc.opts.PollInterval = cl.PollInterval()

	slog.Info("Starting page check",
		"id", cl.Metadata.ID,
		"url", cl.Target.URL,
		"steps", len(cl.Steps),
		"timeout", rc.opts.Timeout)

	if err := rc.Open(ctx, cl.Target.URL); err != nil {
		slog.Error("Page could not be opened", "url", cl.Target.URL, "error", err)
		result.Error = err
		result.Remaining = stepNames(cl.Steps)
		rc.captureFailure(ctx, result)
		result.finalize()
		return result, result.Error
	}

	for i := range cl.Steps {
		step := &cl.Steps[i]
		stepResult := rc.runStep(ctx, DefaultRegistry, i+1, step, cl.Timeout(step))
		result.Steps = append(result.Steps, stepResult)

		if stepResult.Error != nil {
			result.Error = stepResult.Error
			result.FailedStep = stepResult.Index
			result.Remaining = stepNames(cl.Steps[i+1:])
			rc.captureFailure(ctx, result)
			break
		}
	}

	result.finalize()

	if result.Success {
		slog.Info("Page check passed",
			"id", result.ID,
			"steps", len(result.Steps),
			"duration", result.Duration)
	} else {
		slog.Warn("Page check failed",
			"id", result.ID,
			"step", result.FailedStep,
			"error", result.Error,
			"duration", result.Duration)
	}

	return result, result.Error
}

// runStep dispatches one step to its handler
func (c *Checker) runStep(ctx context.Context, reg *StepRegistry, index int, step *checklist.Step, timeout time.Duration) *StepResult {
	result := &StepResult{
		Index:     index,
		Name:      step.Name,
		Type:      step.Type,
		StartTime: time.Now(),
	}
	if step.Locator != nil {
		result.Locator = step.Locator.String()
	}

	slog.Info("Executing step",
		"step", index,
		"name", step.Name,
		"type", step.Type,
		"timeout", timeout)

	handler, err := reg.Get(step.Type)
	if err != nil {
		result.finalize(atStep(err, index, step.Name))
		return result
	}

	items, err := handler(ctx, c, step, timeout)
	result.Items = items
	result.finalize(atStep(err, index, step.Name))

	if result.Success {
		slog.Info("Step passed",
			"step", index,
			"name", step.Name,
			"duration", result.Duration)
	} else {
		slog.Error("Step failed",
			"step", index,
			"name", step.Name,
			"error", result.Error,
			"duration", result.Duration)
	}
	return result
}

func stepNames(steps []checklist.Step) []string {
	names := make([]string, 0, len(steps))
	for _, s := range steps {
		names = append(names, s.Name)
	}
	return names
}
