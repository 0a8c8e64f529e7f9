package checker

import (
	"context"
	"time"

	"uicheck/pkg/checklist"
	"uicheck/pkg/locator"
)

func init() {
	MustRegisterStep(checklist.StepTextPresence, textPresenceHandler)
}

func textPresenceHandler(ctx context.Context, c *Checker, step *checklist.Step, timeout time.Duration) ([]*ItemResult, error) {
	return c.checkTextPresence(ctx, step.Expected, timeout)
}

// checkTextPresence gives every label its own full timeout
func (c *Checker) checkTextPresence(ctx context.Context, expected []string, timeout time.Duration) ([]*ItemResult, error) {
	items := make([]*ItemResult, 0, len(expected))
	for _, label := range expected {
		start := time.Now()
		_, err := c.WaitForVisible(ctx, locator.Text(label), timeout)

		item := &ItemResult{Label: label, Success: err == nil, Duration: time.Since(start).Seconds()}
		items = append(items, item)
		if err != nil {
			if ce, ok := err.(*CheckError); ok {
				ce.Label = label
			}
			item.Error = err
			return items, err
		}
	}
	return items, nil
}
