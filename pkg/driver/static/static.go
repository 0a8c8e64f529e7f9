// Package static implements a driver that loads a page over plain HTTP and
// answers element queries against the parsed document. CSS selectors are
// evaluated with goquery, XPath and text locators with htmlquery. Scripts are
// never executed, so the driver only sees server-rendered markup.
package static

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"uicheck/pkg/driver"
	"uicheck/pkg/locator"
	"uicheck/pkg/utils"
)

// Name is the registry name of this driver
const Name = "static"

// Driver holds the most recently loaded document
type Driver struct {
	client    *http.Client
	userAgent string

	mu     sync.Mutex
	url    string
	root   *html.Node
	doc    *goquery.Document
	styles map[*html.Node]style
}

// New creates a static driver. No browser process is involved.
func New(_ context.Context, opts driver.Options) (driver.Driver, error) {
	return &Driver{
		client:    utils.NewHTTPClient(opts.NavTimeout),
		userAgent: opts.UserAgent,
	}, nil
}

func init() {
	driver.MustRegister(Name, New)
}

// Navigate fetches url and replaces the current document.
// Non-2xx answers are reported as *utils.StatusError.
func (d *Driver) Navigate(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := utils.CheckStatus(url, resp.StatusCode); err != nil {
		return err
	}

	if err := d.Load(resp.Body); err != nil {
		return fmt.Errorf("failed to parse %s: %w", url, err)
	}

	d.mu.Lock()
	d.url = url
	d.mu.Unlock()

	slog.Debug("Loaded static document", "url", url, "status", resp.StatusCode)
	return nil
}

// Load parses r as the current document
func (d *Driver) Load(r io.Reader) error {
	root, err := htmlquery.Parse(r)
	if err != nil {
		return err
	}

	doc := goquery.NewDocumentFromNode(root)
	styles := computeStyles(doc)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.root, d.doc, d.styles = root, doc, styles
	return nil
}

// FindAll resolves loc against the current document
func (d *Driver) FindAll(ctx context.Context, loc locator.Locator) ([]driver.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := loc.Validate(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.root == nil {
		return nil, fmt.Errorf("no page loaded")
	}

	var nodes []*html.Node
	if sel, ok := loc.Selector(); ok {
		matcher, err := cascadia.Compile(sel)
		if err != nil {
			return nil, fmt.Errorf("invalid selector '%s': %w", sel, err)
		}
		nodes = d.doc.FindMatcher(matcher).Nodes
	} else if expr, ok := loc.Expression(); ok {
		found, err := htmlquery.QueryAll(d.root, expr)
		if err != nil {
			return nil, fmt.Errorf("invalid xpath '%s': %w", expr, err)
		}
		nodes = found
	}

	els := make([]driver.Element, 0, len(nodes))
	for _, n := range nodes {
		if n.Type != html.ElementNode {
			continue
		}
		els = append(els, driver.Element{
			Text:    d.renderedText(n),
			Visible: d.visible(n),
		})
	}
	return els, nil
}

// Close drops the current document
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.root, d.doc, d.styles = nil, nil, nil
	return nil
}

// renderedText approximates innerText: text of the rendered subtree with
// whitespace collapsed. Text of invisible descendants is left out unless n
// itself is invisible.
func (d *Driver) renderedText(n *html.Node) string {
	keepInvisible := d.styles[n].invisible

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		switch c.Type {
		case html.TextNode:
			if keepInvisible || c.Parent == nil || !d.styles[c.Parent].invisible {
				b.WriteString(c.Data)
				b.WriteByte(' ')
			}
			return
		case html.ElementNode:
			if c != n && d.styles[c].subtreeHidden {
				return
			}
		}
		for child := c.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return utils.CollapseSpace(b.String())
}
