package utils

import "strings"

// CollapseSpace trims s and folds every whitespace run into one space,
// the way browsers lay out inline text.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
