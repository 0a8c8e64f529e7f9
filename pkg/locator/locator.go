// Package locator defines the rules used to find elements in a rendered page.
// A Locator names a strategy (tag, css, text or xpath) and a value; drivers
// translate it into their native query form.
package locator

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind identifies the strategy a Locator uses
type Kind string

const (
	// KindTag matches elements by tag name (e.g. "nav")
	KindTag Kind = "tag"

	// KindCSS matches elements with a CSS selector (e.g. "a.nav-link")
	KindCSS Kind = "css"

	// KindText matches elements that own a text node containing the value
	KindText Kind = "text"

	// KindXPath matches elements with a raw XPath 1.0 expression
	KindXPath Kind = "xpath"
)

// Locator is a rule used to find DOM elements
type Locator struct {
	By    Kind   `yaml:"by" json:"by"`
	Value string `yaml:"value" json:"value"`
}

// Tag returns a locator matching elements by tag name
func Tag(name string) Locator {
	return Locator{By: KindTag, Value: name}
}

// CSS returns a locator matching elements by CSS selector
func CSS(selector string) Locator {
	return Locator{By: KindCSS, Value: selector}
}

// Text returns a locator matching elements whose own text contains s
func Text(s string) Locator {
	return Locator{By: KindText, Value: s}
}

// XPath returns a locator evaluating a raw XPath expression
func XPath(expr string) Locator {
	return Locator{By: KindXPath, Value: expr}
}

// Parse reads the "by=value" short form accepted in checklist files.
// A value without a prefix is treated as a CSS selector.
func Parse(s string) (Locator, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Locator{}, fmt.Errorf("empty locator")
	}

	if by, value, ok := strings.Cut(s, "="); ok {
		switch Kind(strings.ToLower(strings.TrimSpace(by))) {
		case KindTag:
			return Tag(value), nil
		case KindCSS:
			return CSS(value), nil
		case KindText:
			return Text(value), nil
		case KindXPath:
			return XPath(value), nil
		}
	}

	return CSS(s), nil
}

// Validate reports whether the locator has a known kind and a usable value
func (l Locator) Validate() error {
	switch l.By {
	case KindTag, KindCSS, KindText, KindXPath:
	case "":
		return fmt.Errorf("locator kind is required")
	default:
		return fmt.Errorf("unknown locator kind '%s'", l.By)
	}

	if strings.TrimSpace(l.Value) == "" {
		return fmt.Errorf("locator value is required for kind '%s'", l.By)
	}

	if l.By == KindTag && strings.ContainsAny(l.Value, " .#[]>:") {
		return fmt.Errorf("tag locator '%s' is not a bare tag name", l.Value)
	}

	return nil
}

// UnmarshalYAML accepts both the mapping form ({by: css, value: a.nav-link})
// and the short form ("css=a.nav-link")
func (l *Locator) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		parsed, err := Parse(value.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", value.Line, err)
		}
		*l = parsed
		return nil
	}

	type plain Locator
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*l = Locator(p)
	return nil
}

// String renders the locator in its "by=value" form
func (l Locator) String() string {
	return fmt.Sprintf("%s=%s", l.By, l.Value)
}

// IsXPath reports whether drivers must evaluate the locator as XPath
func (l Locator) IsXPath() bool {
	return l.By == KindText || l.By == KindXPath
}

// Selector returns the CSS form of a tag or css locator.
// XPath-backed kinds return ok == false.
func (l Locator) Selector() (string, bool) {
	switch l.By {
	case KindTag, KindCSS:
		return l.Value, true
	}
	return "", false
}

// Expression returns the XPath form of the locator.
// CSS selectors have no general XPath translation and yield ok == false.
func (l Locator) Expression() (string, bool) {
	switch l.By {
	case KindTag:
		return "//" + l.Value, true
	case KindXPath:
		return l.Value, true
	case KindText:
		// Any direct text node of the element may carry the substring, so
		// "Total Orders: 12" satisfies "Total Orders".
		return fmt.Sprintf("//*[not(self::script or self::style)][text()[contains(., %s)]]", Literal(l.Value)), true
	}
	return "", false
}

// Literal renders s as an XPath 1.0 string literal.
// XPath has no escape sequences, so a value holding both quote kinds is
// assembled with concat().
func Literal(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}

	parts := strings.Split(s, "'")
	var b strings.Builder
	b.WriteString("concat(")
	for i, part := range parts {
		if i > 0 {
			b.WriteString(`, "'", `)
		}
		b.WriteString("'" + part + "'")
	}
	b.WriteString(")")
	return b.String()
}
