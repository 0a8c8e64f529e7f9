package checklist

import (
	_ "embed"
	"fmt"
)

//go:embed default.yaml
var defaultChecklist []byte

// Default returns a fresh copy of the built-in recycler dashboard checklist
func Default() *Checklist {
	cl, err := Parse(defaultChecklist)
	if err != nil {
		panic(fmt.Sprintf("built-in checklist is invalid: %v", err))
	}
	return cl
}

// Load returns the checklist at path, or the built-in one when path is empty
func Load(path string) (*Checklist, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFromFile(path)
}
