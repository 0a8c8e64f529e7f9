package checker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"uicheck/pkg/driver"
	"uicheck/pkg/locator"
)

// errConditionTimeout marks a poll that ran out of time without the condition holding
var errConditionTimeout = errors.New("condition not met")

// poll queries loc until done holds or timeout elapses. It always makes a
// final query once the deadline is reached, so a condition is never given up
// on early. On failure it returns the last successful query result together
// with the last driver error (or errConditionTimeout).
func (c *Checker) poll(ctx context.Context, loc locator.Locator, timeout time.Duration, done func([]driver.Element) bool) ([]driver.Element, error) {
	deadline := time.Now().Add(c.effectiveTimeout(timeout))

	var last []driver.Element
	var lastErr error

	for attempt := 1; ; attempt++ {
		// A hung driver call may overrun the deadline by at most one interval.
		queryCtx, cancel := context.WithDeadline(ctx, deadline.Add(c.opts.PollInterval))
		els, err := c.drv.FindAll(queryCtx, loc)
		cancel()

		if err == nil {
			if done(els) {
				slog.Debug("Condition met", "locator", loc.String(), "attempts", attempt)
				return els, nil
			}
			last, lastErr = els, nil
		} else {
			if ctx.Err() != nil {
				return last, ctx.Err()
			}
			lastErr = err
			slog.Debug("Query failed, retrying", "locator", loc.String(), "attempt", attempt, "error", err)
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			if lastErr == nil {
				lastErr = errConditionTimeout
			}
			return last, lastErr
		}

		wait := c.opts.PollInterval
		if remaining < wait {
			wait = remaining
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return last, ctx.Err()
		case <-timer.C:
		}
	}
}

// effectiveTimeout returns timeout, or the checker's default when it is not positive
func (c *Checker) effectiveTimeout(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return c.opts.Timeout
	}
	return timeout
}

// withCause records err as the cause of ce unless it is the plain timeout marker
func withCause(ce *CheckError, err error) *CheckError {
	if !errors.Is(err, errConditionTimeout) {
		ce.Err = err
	}
	return ce
}
