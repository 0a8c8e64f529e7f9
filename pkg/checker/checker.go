// Package checker implements the page checker: it loads a page through a
// driver and asserts, step by step, that the expected elements show up.
// Every wait polls the driver until its condition holds or its timeout
// elapses; the first unmet condition stops the run.
package checker

import (
	"context"
	"log/slog"
	"time"

	"uicheck/pkg/checklist"
	"uicheck/pkg/driver"
	"uicheck/pkg/locator"
)

// Options configures a Checker
type Options struct {
	Timeout       time.Duration // per-wait budget
	PollInterval  time.Duration // pause between two driver queries
	ScreenshotDir string        // where failure screenshots go; empty disables them
}

// DefaultOptions returns the checker defaults
func DefaultOptions() Options {
	return Options{
		Timeout:      checklist.DefaultTimeout,
		PollInterval: checklist.DefaultPollInterval,
	}
}

// NavbarLocator finds the page's navigation bar
var NavbarLocator = locator.Tag("nav")

// LinksLocator finds the navigation links
var LinksLocator = locator.CSS("a.nav-link")

// Checker runs checks against the page loaded in one driver
type Checker struct {
	drv  driver.Driver
	opts Options
}

// New creates a checker over drv. Zero option fields take their defaults.
func New(drv driver.Driver, opts Options) *Checker {
	defaults := DefaultOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = defaults.Timeout
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaults.PollInterval
	}
	return &Checker{drv: drv, opts: opts}
}

// Options returns the effective options
func (c *Checker) Options() Options {
	return c.opts
}

// Open navigates to url
func (c *Checker) Open(ctx context.Context, url string) error {
	slog.Info("Opening page", "url", url)
	if err := c.drv.Navigate(ctx, url); err != nil {
		return &CheckError{Kind: ErrNavigation, URL: url, Err: err}
	}
	return nil
}

// WaitForVisible polls until an element matching loc is visible and returns it
func (c *Checker) WaitForVisible(ctx context.Context, loc locator.Locator, timeout time.Duration) (driver.Element, error) {
	var found driver.Element
	last, err := c.poll(ctx, loc, timeout, func(els []driver.Element) bool {
		for _, el := range els {
			if el.Visible {
				found = el
				return true
			}
		}
		return false
	})
	if err == nil {
		return found, nil
	}

	ce := &CheckError{Kind: ErrLocateTimeout, Locator: loc, Timeout: c.effectiveTimeout(timeout)}
	if len(last) > 0 {
		ce.Kind = ErrNotVisible
	}
	return driver.Element{}, withCause(ce, err)
}

// WaitForPresent polls until at least one element matches loc and returns
// all matches, visible or not
func (c *Checker) WaitForPresent(ctx context.Context, loc locator.Locator, timeout time.Duration) ([]driver.Element, error) {
	els, err := c.poll(ctx, loc, timeout, func(els []driver.Element) bool {
		return len(els) > 0
	})
	if err != nil {
		return nil, withCause(&CheckError{Kind: ErrLocateTimeout, Locator: loc, Timeout: c.effectiveTimeout(timeout)}, err)
	}
	return els, nil
}

// WaitForAbsent polls until no visible element matches loc
func (c *Checker) WaitForAbsent(ctx context.Context, loc locator.Locator, timeout time.Duration) error {
	_, err := c.poll(ctx, loc, timeout, func(els []driver.Element) bool {
		return len(driver.VisibleTexts(els)) == 0
	})
	if err != nil {
		return withCause(&CheckError{Kind: ErrStillVisible, Locator: loc, Timeout: c.effectiveTimeout(timeout)}, err)
	}
	return nil
}

// CheckNavbar waits for the navigation bar to be visible
func (c *Checker) CheckNavbar(ctx context.Context) error {
	_, err := c.WaitForVisible(ctx, NavbarLocator, c.opts.Timeout)
	return err
}

// CheckLinks waits for the links matched by loc and asserts that every
// expected label is among the visible ones. Extra links are ignored.
func (c *Checker) CheckLinks(ctx context.Context, loc locator.Locator, expected []string) error {
	_, err := c.checkLinks(ctx, loc, expected, c.opts.Timeout)
	return err
}

// CheckTextPresence waits, label by label, for an element showing each
// expected text. It stops at the first label that does not become visible.
func (c *Checker) CheckTextPresence(ctx context.Context, expected []string) error {
	_, err := c.checkTextPresence(ctx, expected, c.opts.Timeout)
	return err
}
