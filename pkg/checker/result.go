package checker

import "time"

// RunResult represents the outcome of checking one page
type RunResult struct {
	ID         string        // checklist identifier
	Title      string        // checklist title
	URL        string        // page under test
	Driver     string        // driver name, filled in by the caller
	SessionID  string        // browser session, filled in by the caller
	Success    bool          // all steps passed
	StartTime  time.Time     // when the run started
	EndTime    time.Time     // when the run finished
	Duration   float64       // run duration in seconds
	Total      int           // number of steps in the checklist
	Steps      []*StepResult // results of the steps that ran, in order
	Remaining  []string      // names of the steps a failure kept from running
	FailedStep int           // 1-based number of the failing step, 0 for navigation or success
	Screenshot string        // path of the failure screenshot, if one was taken
	Error      error         // first failure, a *CheckError
}

// StepResult represents the outcome of one checklist step
type StepResult struct {
	Index     int           // 1-based position in the checklist
	Name      string        // step name
	Type      string        // step type
	Locator   string        // locator in by=value form, if the step has one
	Success   bool          // whether the step passed
	StartTime time.Time     // when the step started
	EndTime   time.Time     // when the step completed
	Duration  float64       // step duration in seconds
	Items     []*ItemResult // per-label results for label-based steps
	Error     error         // step failure, if any
}

// ItemResult is the outcome for one expected label
type ItemResult struct {
	Label    string
	Success  bool
	Duration float64
	Error    error
}

// Passed counts the steps that succeeded
func (r *RunResult) Passed() int {
	n := 0
	for _, s := range r.Steps {
		if s.Success {
			n++
		}
	}
	return n
}

func (r *RunResult) finalize() {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime).Seconds()
	r.Success = r.Error == nil
}

func (s *StepResult) finalize(err error) {
	s.EndTime = time.Now()
	s.Duration = s.EndTime.Sub(s.StartTime).Seconds()
	s.Error = err
	s.Success = err == nil
}
