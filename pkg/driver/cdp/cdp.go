// Package cdp implements the default driver on top of the Chrome DevTools
// Protocol. The browser is either launched locally through an exec allocator or
// reached through a remote DevTools endpoint.
package cdp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"uicheck/pkg/driver"
	"uicheck/pkg/locator"
	"uicheck/pkg/utils"
)

// Name is the registry name of this driver
const Name = "chromedp"

// Driver is a single Chrome tab
type Driver struct {
	browserCtx  context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	opts        driver.Options
}

// New starts Chrome (or attaches to opts.RemoteURL) and opens one tab
func New(ctx context.Context, opts driver.Options) (driver.Driver, error) {
	var allocCtx context.Context
	var cancelAlloc context.CancelFunc

	if opts.RemoteURL != "" {
		allocCtx, cancelAlloc = chromedp.NewRemoteAllocator(context.Background(), opts.RemoteURL)
	} else {
		allocCtx, cancelAlloc = chromedp.NewExecAllocator(context.Background(), allocatorOptions(opts)...)
	}

	browserCtx, cancelTab := chromedp.NewContext(allocCtx)

	d := &Driver{
		browserCtx:  browserCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
		opts:        opts,
	}

	// The first Run allocates the browser and ties its lifetime to the context
	// it is given, so it must be the long-lived tab context and not ctx.
	if err := chromedp.Run(browserCtx, network.Enable()); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start chrome: %w", err)
	}

	return d, nil
}

func init() {
	driver.MustRegister(Name, New)
}

func allocatorOptions(opts driver.Options) []chromedp.ExecAllocatorOption {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if opts.StartMaximized {
		allocOpts = append(allocOpts, chromedp.Flag("start-maximized", true))
	}
	if opts.WindowWidth > 0 && opts.WindowHeight > 0 {
		allocOpts = append(allocOpts, chromedp.WindowSize(opts.WindowWidth, opts.WindowHeight))
	}
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	for _, arg := range opts.ExtraArgs {
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if hasValue {
			allocOpts = append(allocOpts, chromedp.Flag(name, value))
		} else {
			allocOpts = append(allocOpts, chromedp.Flag(name, true))
		}
	}
	return allocOpts
}

// tabContext derives a context of the tab bounded by both the caller's
// context and the tab's own lifetime
func (d *Driver) tabContext(ctx context.Context) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithCancel(d.browserCtx)
	cancelDeadline := context.CancelFunc(func() {})
	if deadline, ok := ctx.Deadline(); ok {
		runCtx, cancelDeadline = context.WithDeadline(runCtx, deadline)
	}
	stop := context.AfterFunc(ctx, cancel)

	return runCtx, func() {
		stop()
		cancelDeadline()
		cancel()
	}
}

// run executes actions in the tab
func (d *Driver) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := d.tabContext(ctx)
	defer cancel()
	return chromedp.Run(runCtx, actions...)
}

// Navigate loads url and waits for the document body
func (d *Driver) Navigate(ctx context.Context, url string) error {
	if d.opts.NavTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.opts.NavTimeout)
		defer cancel()
	}

	runCtx, cancel := d.tabContext(ctx)
	defer cancel()

	// Only the main frame's document response of this navigation counts;
	// subframe documents are ignored.
	resp, err := chromedp.RunResponse(runCtx, chromedp.Navigate(url))
	if err != nil {
		return err
	}
	if err := documentStatus(url, resp); err != nil {
		return err
	}

	return chromedp.Run(runCtx, chromedp.WaitReady("body", chromedp.ByQuery))
}

// documentStatus checks the main document response. Navigations that
// produce no response, such as about:blank, pass.
func documentStatus(url string, resp *network.Response) error {
	if resp == nil {
		return nil
	}
	slog.Debug("Document loaded", "url", url, "status", resp.Status)
	return utils.CheckStatus(url, int(resp.Status))
}

// FindAll evaluates the shared query script in the page
func (d *Driver) FindAll(ctx context.Context, loc locator.Locator) ([]driver.Element, error) {
	script, err := driver.QueryScript(loc)
	if err != nil {
		return nil, err
	}

	var els []driver.Element
	if err := d.run(ctx, chromedp.Evaluate(script, &els)); err != nil {
		return nil, fmt.Errorf("query %s: %w", loc, err)
	}
	return els, nil
}

// Screenshot captures the full page as PNG
func (d *Driver) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := d.run(ctx, chromedp.FullScreenshot(&buf, 100)); err != nil {
		return nil, err
	}
	return buf, nil
}

// Close closes the tab and shuts the browser down
func (d *Driver) Close() error {
	d.cancelTab()
	d.cancelAlloc()
	return nil
}
