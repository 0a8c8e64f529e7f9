package checker

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"uicheck/pkg/locator"
)

// Failure kinds. Every failed check unwraps to exactly one of these.
var (
	// ErrNavigation reports that the page could not be loaded
	ErrNavigation = errors.New("navigation failed")

	// ErrLocateTimeout reports that nothing matched the locator before the timeout
	ErrLocateTimeout = errors.New("element not found before timeout")

	// ErrNotVisible reports that matches existed but none became visible
	ErrNotVisible = errors.New("element not visible before timeout")

	// ErrMissingValue reports that an expected label was not among the collected ones
	ErrMissingValue = errors.New("expected value missing")

	// ErrStillVisible reports that an element expected to disappear was still shown
	ErrStillVisible = errors.New("element still visible at timeout")
)

// CheckError describes the first unmet condition of a run
type CheckError struct {
	Kind     error           // one of the Err* sentinels
	Step     int             // 1-based step number, 0 for navigation
	StepName string          // step name from the checklist
	URL      string          // page URL, set for navigation failures
	Label    string          // expected label, if the check was label based
	Locator  locator.Locator // locator that was being waited on
	Timeout  time.Duration   // wait budget that elapsed
	Err      error           // underlying cause (driver or context error)
}

// Error implements the error interface
func (e *CheckError) Error() string {
	var b strings.Builder

	if e.Step > 0 {
		fmt.Fprintf(&b, "step %d", e.Step)
		if e.StepName != "" {
			fmt.Fprintf(&b, " (%s)", e.StepName)
		}
		b.WriteString(": ")
	}

	if e.Kind != nil {
		b.WriteString(e.Kind.Error())
	} else {
		b.WriteString("check failed")
	}
	if e.Label != "" {
		fmt.Fprintf(&b, " '%s'", e.Label)
	}
	if e.URL != "" {
		fmt.Fprintf(&b, " %s", e.URL)
	}
	if e.Locator.By != "" {
		fmt.Fprintf(&b, " [%s]", e.Locator)
	}
	if e.Timeout > 0 {
		fmt.Fprintf(&b, " after %s", e.Timeout)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap exposes both the failure kind and the cause to errors.Is / errors.As
func (e *CheckError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Kind returns the failure kind of err, or nil when err is not a check failure
func Kind(err error) error {
	var ce *CheckError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return nil
}

// atStep attaches the step position to err, wrapping foreign errors
func atStep(err error, index int, name string) error {
	if err == nil {
		return nil
	}
	var ce *CheckError
	if !errors.As(err, &ce) {
		ce = &CheckError{Err: err}
	}
	ce.Step = index
	ce.StepName = name
	return ce
}
