package driver

import (
	"encoding/json"
	"fmt"

	"uicheck/pkg/locator"
)

// queryScript evaluates a locator in the page and reports text and visibility of
// every element match. Visibility follows the WebDriver notion of "displayed":
// no display:none or visibility:hidden anywhere up the tree, non-zero opacity and
// a non-empty client box.
const queryScript = `(() => {
	const mode = %s, value = %s;
	let nodes = [];
	if (mode === "xpath") {
		const r = document.evaluate(value, document, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null);
		for (let i = 0; i < r.snapshotLength; i++) nodes.push(r.snapshotItem(i));
	} else {
		nodes = Array.from(document.querySelectorAll(value));
	}
	const shown = (el) => {
		for (let n = el; n && n.nodeType === 1; n = n.parentElement) {
			const s = window.getComputedStyle(n);
			if (s.display === "none" || s.opacity === "0") return false;
		}
		if (window.getComputedStyle(el).visibility === "hidden") return false;
		const r = el.getBoundingClientRect();
		return r.width > 0 && r.height > 0;
	};
	return nodes.filter((n) => n.nodeType === 1).map((n) => ({
		text: (n.innerText || n.textContent || "").trim(),
		visible: shown(n),
	}));
})()`

// QueryScript returns a self-invoking JavaScript expression that resolves loc in
// the current document and yields a JSON array of Element values.
func QueryScript(loc locator.Locator) (string, error) {
	if err := loc.Validate(); err != nil {
		return "", err
	}

	mode, value := "css", ""
	if expr, ok := loc.Expression(); ok && loc.IsXPath() {
		mode, value = "xpath", expr
	} else if sel, ok := loc.Selector(); ok {
		value = sel
	} else {
		return "", fmt.Errorf("locator %s cannot be evaluated", loc)
	}

	m, err := json.Marshal(mode)
	if err != nil {
		return "", err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(queryScript, m, v), nil
}
