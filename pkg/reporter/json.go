package reporter

import (
	"encoding/json"
	"errors"
	"io"
	"time"

	"uicheck/pkg/checker"
)

// Report is the machine-readable form of a run
type Report struct {
	ID         string       `json:"id"`
	Title      string       `json:"title,omitempty"`
	URL        string       `json:"url"`
	Driver     string       `json:"driver,omitempty"`
	SessionID  string       `json:"session_id,omitempty"`
	Success    bool         `json:"success"`
	Message    string       `json:"message"`
	StartTime  time.Time    `json:"start_time"`
	EndTime    time.Time    `json:"end_time"`
	Duration   float64      `json:"duration_seconds"`
	FailedStep int          `json:"failed_step,omitempty"`
	Kind       string       `json:"kind,omitempty"`
	Error      string       `json:"error,omitempty"`
	Screenshot string       `json:"screenshot,omitempty"`
	Steps      []StepReport `json:"steps"`
	Remaining  []string     `json:"not_executed,omitempty"`
}

// StepReport is one step of a Report
type StepReport struct {
	Index    int          `json:"index"`
	Name     string       `json:"name"`
	Type     string       `json:"type"`
	Locator  string       `json:"locator,omitempty"`
	Success  bool         `json:"success"`
	Duration float64      `json:"duration_seconds"`
	Error    string       `json:"error,omitempty"`
	Items    []ItemReport `json:"items,omitempty"`
}

// ItemReport is one expected label of a StepReport
type ItemReport struct {
	Label    string  `json:"label"`
	Success  bool    `json:"success"`
	Duration float64 `json:"duration_seconds"`
	Error    string  `json:"error,omitempty"`
}

// KindName returns the short name of err's failure kind, or "" for
// errors that are not check failures
func KindName(err error) string {
	switch kind := checker.Kind(err); {
	case kind == nil:
		if err != nil {
			return "error"
		}
		return ""
	case errors.Is(kind, checker.ErrNavigation):
		return "navigation"
	case errors.Is(kind, checker.ErrLocateTimeout):
		return "locate_timeout"
	case errors.Is(kind, checker.ErrNotVisible):
		return "not_visible"
	case errors.Is(kind, checker.ErrMissingValue):
		return "missing_value"
	case errors.Is(kind, checker.ErrStillVisible):
		return "still_visible"
	}
	return "error"
}

// NewReport converts a run result into its serializable form
func NewReport(result *checker.RunResult) *Report {
	r := &Report{
		ID:         result.ID,
		Title:      result.Title,
		URL:        result.URL,
		Driver:     result.Driver,
		SessionID:  result.SessionID,
		Success:    result.Success,
		StartTime:  result.StartTime,
		EndTime:    result.EndTime,
		Duration:   result.Duration,
		FailedStep: result.FailedStep,
		Kind:       KindName(result.Error),
		Error:      errString(result.Error),
		Screenshot: result.Screenshot,
		Steps:      make([]StepReport, 0, len(result.Steps)),
		Remaining:  result.Remaining,
	}

	if result.Success {
		r.Message = SuccessMessage
	} else {
		r.Message = FailureLine(result)
	}

	for _, s := range result.Steps {
		step := StepReport{
			Index:    s.Index,
			Name:     s.Name,
			Type:     s.Type,
			Locator:  s.Locator,
			Success:  s.Success,
			Duration: s.Duration,
			Error:    errString(s.Error),
		}
		for _, item := range s.Items {
			step.Items = append(step.Items, ItemReport{
				Label:    item.Label,
				Success:  item.Success,
				Duration: item.Duration,
				Error:    errString(item.Error),
			})
		}
		r.Steps = append(r.Steps, step)
	}
	return r
}

// WriteJSON writes the run as indented JSON
func WriteJSON(w io.Writer, result *checker.RunResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(NewReport(result))
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
