// Package driver defines the interface every browser-automation backend implements
// and a registry that maps driver names to factories. Backends live in
// sub-packages and register themselves from init(); importing a backend package
// for side effects makes it available by name.
package driver

import (
	"context"
	"time"

	"uicheck/pkg/locator"
)

// Element is the driver-neutral view of a located DOM node
type Element struct {
	Text    string `json:"text"`    // trimmed rendered text
	Visible bool   `json:"visible"` // rendered with a non-empty box and not hidden by style
}

// Driver is a live browser session able to load one page and answer element queries.
// FindAll never waits: polling is the caller's job.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	FindAll(ctx context.Context, loc locator.Locator) ([]Element, error)
	Close() error
}

// Screenshotter is implemented by drivers able to capture the current page as PNG
type Screenshotter interface {
	Screenshot(ctx context.Context) ([]byte, error)
}

// Options configures a driver session
type Options struct {
	Headless       bool
	StartMaximized bool
	WindowWidth    int
	WindowHeight   int
	UserAgent      string
	RemoteURL      string        // WebDriver endpoint or DevTools URL of an already running browser
	NavTimeout     time.Duration // upper bound for a single navigation
	ExtraArgs      []string
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		Headless:       true,
		StartMaximized: true,
		WindowWidth:    1280,
		WindowHeight:   720,
		NavTimeout:     30 * time.Second,
	}
}

// VisibleTexts returns the labels of the visible elements in els
func VisibleTexts(els []Element) []string {
	texts := make([]string, 0, len(els))
	for _, el := range els {
		if el.Visible {
			texts = append(texts, el.Text)
		}
	}
	return texts
}
