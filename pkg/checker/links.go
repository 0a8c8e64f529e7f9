package checker

import (
	"context"
	"log/slog"
	"time"

	"uicheck/pkg/checklist"
	"uicheck/pkg/driver"
	"uicheck/pkg/locator"
	"uicheck/pkg/utils"
)

func init() {
	MustRegisterStep(checklist.StepLinks, linksHandler)
}

func linksHandler(ctx context.Context, c *Checker, step *checklist.Step, timeout time.Duration) ([]*ItemResult, error) {
	loc := LinksLocator
	if step.Locator != nil {
		loc = *step.Locator
	}
	return c.checkLinks(ctx, loc, step.Expected, timeout)
}

// checkLinks collects the visible link labels once all links are present and
// checks membership. Labels are compared exactly after whitespace is collapsed.
func (c *Checker) checkLinks(ctx context.Context, loc locator.Locator, expected []string, timeout time.Duration) ([]*ItemResult, error) {
	start := time.Now()

	els, err := c.WaitForPresent(ctx, loc, timeout)
	if err != nil {
		return nil, err
	}

	labels := make(map[string]struct{}, len(els))
	for _, text := range driver.VisibleTexts(els) {
		labels[utils.CollapseSpace(text)] = struct{}{}
	}
	slog.Debug("Collected link labels", "locator", loc.String(), "links", len(els), "visible", len(labels))

	items := make([]*ItemResult, 0, len(expected))
	for _, want := range expected {
		item := &ItemResult{Label: want, Duration: time.Since(start).Seconds()}
		items = append(items, item)

		if _, ok := labels[utils.CollapseSpace(want)]; !ok {
			item.Error = &CheckError{Kind: ErrMissingValue, Label: want, Locator: loc}
			return items, item.Error
		}
		item.Success = true
	}
	return items, nil
}
