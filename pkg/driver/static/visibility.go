package static

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

var cssComment = regexp.MustCompile(`(?s)/\*.*?\*/`)

// elements that never produce a box
var nonRendered = map[string]bool{
	"head":     true,
	"title":    true,
	"meta":     true,
	"link":     true,
	"script":   true,
	"style":    true,
	"template": true,
	"noscript": true,
}

// style is the part of an element's computed style that decides visibility
type style struct {
	subtreeHidden bool // display:none, opacity:0 or a non-rendered tag
	invisible     bool // computed visibility is hidden or collapse (inherited)
}

// declaration is one visibility-related property assignment
type declaration struct {
	prop      string
	value     string
	important bool
}

// rule is one selector of a style rule with its declarations
type rule struct {
	sel   cascadia.Sel
	decls []declaration
	order int
}

// origin ranks where a declaration comes from, lowest first
type origin int

const (
	originUserAgent origin = iota
	originAuthor
	originInline
)

// priority orders competing declarations of one property
type priority struct {
	important bool
	origin    origin
	spec      cascadia.Specificity
	order     int
}

func (p priority) less(o priority) bool {
	if p.important != o.important {
		return !p.important
	}
	if p.origin != o.origin {
		return p.origin < o.origin
	}
	if p.spec != o.spec {
		return p.spec.Less(o.spec)
	}
	return p.order < o.order
}

// visible reports whether n has a box and its own visibility is not hidden
func (d *Driver) visible(n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type == html.ElementNode && d.styles[cur].subtreeHidden {
			return false
		}
	}
	return !d.styles[n].invisible
}

// computeStyles resolves the cascade of every element in the document.
// Conditional group rules (@media, @supports) are not evaluated and their
// rules never apply.
func computeStyles(doc *goquery.Document) map[*html.Node]style {
	var rules []rule
	order := 0
	doc.Find("style").Each(func(_ int, s *goquery.Selection) {
		rules = append(rules, parseStylesheet(s.Text(), &order)...)
	})

	styles := make(map[*html.Node]style)
	var walk func(n *html.Node, inheritedInvisible bool)
	walk = func(n *html.Node, inheritedInvisible bool) {
		if n.Type == html.ElementNode {
			st := resolve(n, rules, inheritedInvisible)
			styles[n] = st
			inheritedInvisible = st.invisible
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inheritedInvisible)
		}
	}
	for _, root := range doc.Nodes {
		walk(root, false)
	}
	return styles
}

// resolve picks the winning display, visibility and opacity declarations of n
func resolve(n *html.Node, rules []rule, inheritedInvisible bool) style {
	type winner struct {
		value string
		p     priority
	}
	winners := make(map[string]winner, 3)
	apply := func(decls []declaration, p priority) {
		for _, decl := range decls {
			p.important = decl.important
			if w, ok := winners[decl.prop]; ok && p.less(w.p) {
				continue
			}
			winners[decl.prop] = winner{value: decl.value, p: p}
		}
	}

	apply(userAgentDeclarations(n), priority{origin: originUserAgent})
	for _, r := range rules {
		if r.sel.Match(n) {
			apply(r.decls, priority{origin: originAuthor, spec: r.sel.Specificity(), order: r.order})
		}
	}
	if inline, ok := attr(n, "style"); ok {
		apply(parseDeclarations(inline), priority{origin: originInline})
	}

	st := style{
		subtreeHidden: nonRendered[n.Data],
		invisible:     inheritedInvisible,
	}
	if w, ok := winners["display"]; ok && w.value == "none" {
		st.subtreeHidden = true
	}
	if w, ok := winners["opacity"]; ok && zeroOpacity(w.value) {
		st.subtreeHidden = true
	}
	if w, ok := winners["visibility"]; ok {
		switch w.value {
		case "hidden", "collapse":
			st.invisible = true
		case "visible":
			st.invisible = false
		}
	}
	return st
}

// userAgentDeclarations are the browser defaults an author rule may override
func userAgentDeclarations(n *html.Node) []declaration {
	hide := []declaration{{prop: "display", value: "none"}}
	if _, ok := attr(n, "hidden"); ok {
		return hide
	}
	if n.Data == "input" {
		if t, _ := attr(n, "type"); strings.EqualFold(t, "hidden") {
			return hide
		}
	}
	return nil
}

// parseStylesheet splits css into single-selector rules, numbering them in
// source order. At-rules are skipped, blocks and all.
func parseStylesheet(css string, order *int) []rule {
	css = cssComment.ReplaceAllString(css, "")

	var rules []rule
	for {
		css = strings.TrimSpace(css)
		if css == "" {
			return rules
		}

		open := strings.IndexByte(css, '{')
		if strings.HasPrefix(css, "@") {
			// statement at-rules such as @import end at a semicolon
			if semi := strings.IndexByte(css, ';'); semi >= 0 && (open < 0 || semi < open) {
				css = css[semi+1:]
				continue
			}
		}
		if open < 0 {
			return rules
		}

		end := blockEnd(css, open)
		prelude := strings.TrimSpace(css[:open])
		body := css[open+1 : end]
		if end < len(css) {
			css = css[end+1:]
		} else {
			css = ""
		}

		if strings.HasPrefix(prelude, "@") {
			continue
		}
		decls := parseDeclarations(body)
		if len(decls) == 0 {
			continue
		}

		*order++
		for _, s := range strings.Split(prelude, ",") {
			sel, err := cascadia.Parse(strings.TrimSpace(s))
			if err != nil || sel.PseudoElement() != "" {
				// unsupported selector or a pseudo-element
				continue
			}
			rules = append(rules, rule{sel: sel, decls: decls, order: *order})
		}
	}
}

// blockEnd returns the index of the brace closing the block opened at open,
// or len(css) when the block is unterminated
func blockEnd(css string, open int) int {
	depth := 0
	for i := open; i < len(css); i++ {
		switch css[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(css)
}

// parseDeclarations extracts the display, visibility and opacity declarations
// of a declaration block
func parseDeclarations(block string) []declaration {
	var decls []declaration
	for _, part := range strings.Split(block, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		switch prop {
		case "display", "visibility", "opacity":
		default:
			continue
		}

		value = strings.ToLower(strings.TrimSpace(value))
		important := false
		if i := strings.Index(value, "!important"); i >= 0 {
			important = true
			value = strings.TrimSpace(value[:i])
		}
		decls = append(decls, declaration{prop: prop, value: value, important: important})
	}
	return decls
}

func zeroOpacity(value string) bool {
	percent := strings.HasSuffix(value, "%")
	f, err := strconv.ParseFloat(strings.TrimSuffix(value, "%"), 64)
	if err != nil {
		return false
	}
	if percent {
		f /= 100
	}
	return f <= 0
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
