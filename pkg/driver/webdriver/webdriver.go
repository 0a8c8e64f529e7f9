// Package webdriver implements a driver speaking the W3C WebDriver protocol to
// a chromedriver or Selenium server. It does not start the server itself: the
// endpoint comes from Options.RemoteURL or defaults to a local Selenium hub.
package webdriver

import (
	"context"
	"fmt"
	"strings"

	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"

	"uicheck/pkg/driver"
	"uicheck/pkg/locator"
	"uicheck/pkg/utils"
)

const (
	// Name is the registry name of this driver
	Name = "webdriver"

	// DefaultURL is the endpoint used when no remote URL is configured
	DefaultURL = "http://localhost:4444/wd/hub"
)

// Driver wraps one WebDriver session
type Driver struct {
	wd selenium.WebDriver
}

// New opens a Chrome session on the configured WebDriver endpoint
func New(ctx context.Context, opts driver.Options) (driver.Driver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	endpoint := opts.RemoteURL
	if endpoint == "" {
		endpoint = DefaultURL
	}

	wd, err := selenium.NewRemote(capabilities(opts), endpoint)
	if err != nil {
		return nil, fmt.Errorf("could not open webdriver session at %s: %w", endpoint, err)
	}

	if opts.NavTimeout > 0 {
		if err := wd.SetPageLoadTimeout(opts.NavTimeout); err != nil {
			_ = wd.Quit()
			return nil, fmt.Errorf("could not set page load timeout: %w", err)
		}
	}

	return &Driver{wd: wd}, nil
}

func init() {
	driver.MustRegister(Name, New)
}

func capabilities(opts driver.Options) selenium.Capabilities {
	args := append([]string(nil), opts.ExtraArgs...)
	if opts.Headless {
		args = append(args, "--headless=new", "--disable-gpu")
	}
	if opts.StartMaximized {
		args = append(args, "--start-maximized")
	}
	if opts.WindowWidth > 0 && opts.WindowHeight > 0 {
		args = append(args, fmt.Sprintf("--window-size=%d,%d", opts.WindowWidth, opts.WindowHeight))
	}
	if opts.UserAgent != "" {
		args = append(args, "--user-agent="+opts.UserAgent)
	}

	caps := selenium.Capabilities{"browserName": "chrome"}
	caps.AddChrome(chrome.Capabilities{Args: args, W3C: true})
	return caps
}

// by maps a locator onto a WebDriver location strategy
func by(loc locator.Locator) (string, string, error) {
	if err := loc.Validate(); err != nil {
		return "", "", err
	}
	switch loc.By {
	case locator.KindTag:
		return selenium.ByTagName, loc.Value, nil
	case locator.KindCSS:
		return selenium.ByCSSSelector, loc.Value, nil
	}
	expr, _ := loc.Expression()
	return selenium.ByXPATH, expr, nil
}

// Navigate loads url. WebDriver does not expose the response status, so an
// error page that renders is reported by the checks that follow.
func (d *Driver) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.wd.Get(url)
}

// FindAll returns the current matches without using the implicit wait
func (d *Driver) FindAll(ctx context.Context, loc locator.Locator) ([]driver.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	strategy, value, err := by(loc)
	if err != nil {
		return nil, err
	}

	found, err := d.wd.FindElements(strategy, value)
	if err != nil {
		// Some servers answer "no such element" instead of an empty list.
		if strings.Contains(err.Error(), "no such element") {
			return nil, nil
		}
		return nil, fmt.Errorf("query %s: %w", loc, err)
	}

	els := make([]driver.Element, 0, len(found))
	for _, we := range found {
		visible, err := we.IsDisplayed()
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", loc, err)
		}
		text, err := we.Text()
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", loc, err)
		}
		els = append(els, driver.Element{Text: utils.CollapseSpace(text), Visible: visible})
	}
	return els, nil
}

// Screenshot captures the viewport as PNG
func (d *Driver) Screenshot(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.wd.Screenshot()
}

// Close ends the WebDriver session
func (d *Driver) Close() error {
	return d.wd.Quit()
}
