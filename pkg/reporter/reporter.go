// Package reporter provides functions for formatting and outputting check results.
package reporter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"uicheck/pkg/checker"
)

// SuccessMessage is the line printed when every check passed
const SuccessMessage = "All UI checks passed — page looks good!"

// PrintResult prints the outcome of a run: the success line on a pass, the
// first unmet condition on a failure. With verbose set, the per-step
// breakdown is printed first.
func PrintResult(result *checker.RunResult, w io.Writer, verbose bool) {
	if result == nil {
		fmt.Fprintln(w, "No result available.")
		return
	}

	success := color.New(color.FgGreen).SprintFunc()
	failure := color.New(color.FgRed).SprintFunc()

	if verbose {
		printDetails(w, result)
	}

	if result.Success {
		fmt.Fprintln(w, success("✓ "+SuccessMessage))
		return
	}

	fmt.Fprintln(w, failure("✗ "+FailureLine(result)))
	if result.Screenshot != "" {
		fmt.Fprintf(w, "  Screenshot: %s\n", result.Screenshot)
	}
}

// FailureLine describes where and why a run failed
func FailureLine(result *checker.RunResult) string {
	reason := "unknown error"
	if result.Error != nil {
		reason = result.Error.Error()
	}
	if result.FailedStep == 0 {
		return "UI check failed: " + reason
	}
	// CheckError messages already lead with the step position.
	return "UI check failed at " + reason
}

// printDetails formats the per-step breakdown of a run
func printDetails(w io.Writer, result *checker.RunResult) {
	success := color.New(color.FgGreen).SprintFunc()
	failure := color.New(color.FgRed).SprintFunc()
	highlight := color.New(color.FgCyan).SprintFunc()
	warning := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 80))
	fmt.Fprintf(w, "Page Check Result: %s\n", result.ID)
	fmt.Fprintf(w, "%s\n\n", strings.Repeat("-", 80))

	statusStr := success("PASSED")
	if !result.Success {
		statusStr = failure("FAILED")
	}
	fmt.Fprintf(w, "URL:            %s\n", highlight(result.URL))
	if result.Driver != "" {
		fmt.Fprintf(w, "Driver:         %s\n", result.Driver)
	}
	if result.SessionID != "" {
		fmt.Fprintf(w, "Session:        %s\n", result.SessionID)
	}
	fmt.Fprintf(w, "Overall Status: %s\n", statusStr)
	fmt.Fprintf(w, "Execution Time: %s\n\n", seconds(result.Duration))

	for _, step := range result.Steps {
		stepStatus := success("✓")
		if !step.Success {
			stepStatus = failure("✗")
		}

		stepInfo := fmt.Sprintf("%d. %s", step.Index, step.Name)
		if len(stepInfo) > 60 {
			stepInfo = stepInfo[:57] + "..."
		}
		fmt.Fprintf(w, "  %s %s %s (%s)\n", stepStatus, stepInfo, highlight("["+step.Type+"]"), seconds(step.Duration))

		for _, item := range step.Items {
			itemStatus := success("✓")
			if !item.Success {
				itemStatus = failure("✗")
			}
			fmt.Fprintf(w, "      %s %s\n", itemStatus, item.Label)
		}
	}

	for _, name := range result.Remaining {
		fmt.Fprintf(w, "  %s %s\n", warning("-"), warning(name+" (not executed)"))
	}

	fmt.Fprintf(w, "%s\n", strings.Repeat("=", 80))
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second)).Round(time.Millisecond)
}
