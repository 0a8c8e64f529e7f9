package checker

import (
	"context"
	"time"

	"uicheck/pkg/checklist"
)

func init() {
	MustRegisterStep(checklist.StepAbsent, absentHandler)
}

// absentHandler waits for a transient element, such as a loading spinner or
// an error banner, to be gone
func absentHandler(ctx context.Context, c *Checker, step *checklist.Step, timeout time.Duration) ([]*ItemResult, error) {
	return nil, c.WaitForAbsent(ctx, *step.Locator, timeout)
}
