package reporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"uicheck/pkg/checker"
)

// Format selects the report rendering
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
	FormatJUnit   Format = "junit"
)

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatConsole, FormatJSON, FormatJUnit:
		return f, nil
	case "":
		return FormatConsole, nil
	}
	return "", fmt.Errorf("unknown report format '%s' (want console, json or junit)", s)
}

// Write renders result in the given format
func Write(w io.Writer, format Format, result *checker.RunResult, verbose bool) error {
	switch format {
	case FormatConsole, "":
		PrintResult(result, w, verbose)
		return nil
	case FormatJSON:
		return WriteJSON(w, result)
	case FormatJUnit:
		return WriteJUnit(w, result)
	}
	return fmt.Errorf("unknown report format '%s'", format)
}

// WriteFile renders result into path, creating parent directories.
// Console reports written to a file always carry the step breakdown.
func WriteFile(path string, format Format, result *checker.RunResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file '%s': %w", path, err)
	}

	writeErr := Write(f, format, result, true)
	closeErr := f.Close()
	if writeErr != nil {
		return fmt.Errorf("failed to write report '%s': %w", path, writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to write report '%s': %w", path, closeErr)
	}
	return nil
}
