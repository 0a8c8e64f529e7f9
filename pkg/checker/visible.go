package checker

import (
	"context"
	"time"

	"uicheck/pkg/checklist"
)

func init() {
	MustRegisterStep(checklist.StepVisible, visibleHandler)
}

// visibleHandler waits for the step's element (the navbar by default) to show
func visibleHandler(ctx context.Context, c *Checker, step *checklist.Step, timeout time.Duration) ([]*ItemResult, error) {
	loc := NavbarLocator
	if step.Locator != nil {
		loc = *step.Locator
	}
	_, err := c.WaitForVisible(ctx, loc, timeout)
	return nil, err
}
