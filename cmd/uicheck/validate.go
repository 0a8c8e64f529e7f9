package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"uicheck/pkg/checklist"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [FILE...]",
		Short: "Parse and validate checklist files",
		Long: `Validate parses each checklist file and checks it against the checklist
rules. Without arguments it validates the configured checklist with the
command-line overrides applied.`,
		RunE: a.validate,
	}
}

func (a *app) validate(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	ok := color.New(color.FgGreen).SprintFunc()
	bad := color.New(color.FgRed).SprintFunc()
	info := color.New(color.FgCyan).SprintFunc()

	type outcome struct {
		name string
		cl   *checklist.Checklist
		err  error
	}

	var outcomes []outcome
	if len(args) == 0 {
		name := a.settings.Checklist
		if name == "" {
			name = "built-in checklist"
		}
		cl, err := loadChecklist(a.settings)
		outcomes = append(outcomes, outcome{name, cl, err})
	} else {
		for _, path := range args {
			cl, err := checklist.LoadFromFile(path)
			outcomes = append(outcomes, outcome{path, cl, err})
		}
	}

	failed := 0
	for _, o := range outcomes {
		if o.err != nil {
			failed++
			fmt.Fprintf(w, "%s %s: %v\n", bad("✗"), o.name, o.err)
			continue
		}
		fmt.Fprintf(w, "%s %s\n", ok("✓"), o.name)
		fmt.Fprintf(w, "  ID:     %s\n", info(o.cl.Metadata.ID))
		if o.cl.Metadata.Title != "" {
			fmt.Fprintf(w, "  Title:  %s\n", info(o.cl.Metadata.Title))
		}
		fmt.Fprintf(w, "  Target: %s\n", o.cl.Target.URL)
		for i, step := range o.cl.Steps {
			fmt.Fprintf(w, "  %d. %s [%s] %s\n", i+1, step.Name, step.Type, describeStep(o.cl, &step))
		}
	}

	if failed > 0 {
		return &exitError{code: 1, err: fmt.Errorf("%d of %d checklists are invalid", failed, len(outcomes))}
	}
	return nil
}

// describeStep summarises what a step looks for
func describeStep(cl *checklist.Checklist, step *checklist.Step) string {
	desc := ""
	if step.Locator != nil {
		desc = step.Locator.String() + " "
	}
	if len(step.Expected) > 0 {
		desc += fmt.Sprintf("%d labels ", len(step.Expected))
	}
	return desc + "within " + cl.Timeout(step).String()
}
