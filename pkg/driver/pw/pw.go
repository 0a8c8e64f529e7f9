// Package pw implements a driver backed by Playwright's Chromium.
// Browsers are installed on first use unless PLAYWRIGHT_PREINSTALLED=1.
package pw

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/playwright-community/playwright-go"

	"uicheck/pkg/driver"
	"uicheck/pkg/locator"
	"uicheck/pkg/utils"
)

// Name is the registry name of this driver
const Name = "playwright"

// textTimeout bounds reading the text of one already-located element
const textTimeout = 2 * time.Second

// Driver owns the Playwright runtime, one browser and one page
type Driver struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
	opts    driver.Options
}

// New installs (if needed) and starts Playwright, then opens a page
func New(ctx context.Context, opts driver.Options) (driver.Driver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if os.Getenv("PLAYWRIGHT_PREINSTALLED") != "1" {
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
			return nil, fmt.Errorf("could not install playwright browsers: %w", err)
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	var browser playwright.Browser
	if opts.RemoteURL != "" {
		browser, err = pw.Chromium.ConnectOverCDP(opts.RemoteURL)
	} else {
		browser, err = pw.Chromium.Launch(launchOptions(opts))
	}
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}

	page, err := browser.NewPage(pageOptions(opts))
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("could not create page: %w", err)
	}

	return &Driver{pw: pw, browser: browser, page: page, opts: opts}, nil
}

func init() {
	driver.MustRegister(Name, New)
}

func launchOptions(opts driver.Options) playwright.BrowserTypeLaunchOptions {
	args := append([]string(nil), opts.ExtraArgs...)
	if opts.StartMaximized {
		args = append(args, "--start-maximized")
	}
	return playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     args,
	}
}

func pageOptions(opts driver.Options) playwright.BrowserNewPageOptions {
	pageOpts := playwright.BrowserNewPageOptions{}
	switch {
	case opts.StartMaximized:
		// Let the window size decide the viewport.
		pageOpts.NoViewport = playwright.Bool(true)
	case opts.WindowWidth > 0 && opts.WindowHeight > 0:
		pageOpts.Viewport = &playwright.Size{Width: opts.WindowWidth, Height: opts.WindowHeight}
	}
	if opts.UserAgent != "" {
		pageOpts.UserAgent = playwright.String(opts.UserAgent)
	}
	return pageOpts
}

// timeoutMillis converts the time left on ctx (or fallback) into Playwright's unit
func timeoutMillis(ctx context.Context, fallback time.Duration) float64 {
	d := fallback
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < d || d <= 0 {
			d = left
		}
	}
	if d <= 0 {
		d = time.Millisecond
	}
	return float64(d.Milliseconds())
}

// Navigate loads url and reports non-2xx document responses
func (d *Driver) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	resp, err := d.page.Goto(url, playwright.PageGotoOptions{
		Timeout: playwright.Float(timeoutMillis(ctx, d.opts.NavTimeout)),
	})
	if err != nil {
		return err
	}
	if resp != nil {
		return utils.CheckStatus(url, resp.Status())
	}
	return nil
}

// selector maps a locator onto Playwright's selector engines
func selector(loc locator.Locator) (string, error) {
	if err := loc.Validate(); err != nil {
		return "", err
	}
	if loc.IsXPath() {
		expr, _ := loc.Expression()
		return "xpath=" + expr, nil
	}
	sel, _ := loc.Selector()
	return "css=" + sel, nil
}

// FindAll counts the matches and reads each one without waiting for more
func (d *Driver) FindAll(ctx context.Context, loc locator.Locator) ([]driver.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sel, err := selector(loc)
	if err != nil {
		return nil, err
	}

	matches := d.page.Locator(sel)
	n, err := matches.Count()
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", loc, err)
	}

	els := make([]driver.Element, 0, n)
	for i := 0; i < n; i++ {
		item := matches.Nth(i)

		visible, err := item.IsVisible()
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", loc, err)
		}
		text, err := item.InnerText(playwright.LocatorInnerTextOptions{
			Timeout: playwright.Float(timeoutMillis(ctx, textTimeout)),
		})
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", loc, err)
		}
		els = append(els, driver.Element{Text: utils.CollapseSpace(text), Visible: visible})
	}
	return els, nil
}

// Screenshot captures the full page as PNG
func (d *Driver) Screenshot(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
	})
}

// Close tears down the page, the browser and the Playwright driver process
func (d *Driver) Close() error {
	return errors.Join(
		d.page.Close(),
		d.browser.Close(),
		d.pw.Stop(),
	)
}
