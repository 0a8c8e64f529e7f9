// Package gorod implements a driver on top of go-rod, which drives Chromium
// over the DevTools Protocol and can download a browser when none is installed.
package gorod

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"

	"uicheck/pkg/driver"
	"uicheck/pkg/locator"
	"uicheck/pkg/utils"
)

// Name is the registry name of this driver
const Name = "rod"

// Driver owns a browser connection and its single page
type Driver struct {
	launcher *launcher.Launcher // nil when attached to a remote browser
	browser  *rod.Browser
	page     *rod.Page
	opts     driver.Options
}

// New launches (or attaches to) a browser and opens a blank page
func New(ctx context.Context, opts driver.Options) (driver.Driver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d := &Driver{opts: opts}

	var controlURL string
	var err error
	if opts.RemoteURL != "" {
		controlURL, err = launcher.ResolveURL(opts.RemoteURL)
	} else {
		d.launcher = newLauncher(opts)
		controlURL, err = d.launcher.Launch()
	}
	if err != nil {
		d.cleanup()
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}

	d.browser = rod.New().ControlURL(controlURL)
	if err := d.browser.Connect(); err != nil {
		d.cleanup()
		return nil, fmt.Errorf("could not connect to browser: %w", err)
	}

	d.page, err = d.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("could not create page: %w", err)
	}

	if !opts.StartMaximized && opts.WindowWidth > 0 && opts.WindowHeight > 0 {
		err = d.page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:             opts.WindowWidth,
			Height:            opts.WindowHeight,
			DeviceScaleFactor: 1,
		})
		if err != nil {
			_ = d.Close()
			return nil, fmt.Errorf("could not set viewport: %w", err)
		}
	}

	return d, nil
}

func init() {
	driver.MustRegister(Name, New)
}

func newLauncher(opts driver.Options) *launcher.Launcher {
	l := launcher.New().Headless(opts.Headless)
	if opts.StartMaximized {
		l = l.Set("start-maximized")
	}
	if opts.WindowWidth > 0 && opts.WindowHeight > 0 {
		l = l.Set("window-size", fmt.Sprintf("%d,%d", opts.WindowWidth, opts.WindowHeight))
	}
	if opts.UserAgent != "" {
		l = l.Set("user-agent", opts.UserAgent)
	}
	for _, arg := range opts.ExtraArgs {
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if name == "" {
			continue
		}
		if hasValue {
			l = l.Set(flags.Flag(name), value)
		} else {
			l = l.Set(flags.Flag(name))
		}
	}
	return l
}

// Navigate loads url and waits for the load event. The DevTools response
// status is not tracked here; an error page is caught by the checks.
func (d *Driver) Navigate(ctx context.Context, url string) error {
	page := d.page.Context(ctx)
	if d.opts.NavTimeout > 0 {
		page = page.Timeout(d.opts.NavTimeout)
	}
	if err := page.Navigate(url); err != nil {
		return err
	}
	return page.WaitLoad()
}

// FindAll queries the page once; rod's Elements helpers do not retry
func (d *Driver) FindAll(ctx context.Context, loc locator.Locator) ([]driver.Element, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}

	page := d.page.Context(ctx)

	var found rod.Elements
	var err error
	if loc.IsXPath() {
		expr, _ := loc.Expression()
		found, err = page.ElementsX(expr)
	} else {
		sel, _ := loc.Selector()
		found, err = page.Elements(sel)
	}
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", loc, err)
	}

	els := make([]driver.Element, 0, len(found))
	for _, el := range found {
		visible, err := el.Visible()
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", loc, err)
		}
		text, err := el.Text()
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", loc, err)
		}
		els = append(els, driver.Element{Text: utils.CollapseSpace(text), Visible: visible})
	}
	return els, nil
}

// Screenshot captures the full page as PNG
func (d *Driver) Screenshot(ctx context.Context) ([]byte, error) {
	return d.page.Context(ctx).Screenshot(true, nil)
}

// Close closes the browser and removes the launcher's profile directory
func (d *Driver) Close() error {
	var err error
	if d.browser != nil {
		err = d.browser.Close()
	}
	d.cleanup()
	return err
}

func (d *Driver) cleanup() {
	if d.launcher != nil {
		d.launcher.Cleanup()
	}
}

var _ driver.Screenshotter = (*Driver)(nil)
