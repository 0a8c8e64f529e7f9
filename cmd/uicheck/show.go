package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"uicheck/pkg/checklist"
)

func newShowCmd(a *app) *cobra.Command {
	var bare bool
	var output string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved checklist as YAML",
		Long: `Show prints the checklist a run would execute, with the URL, timeout and
poll interval overrides applied. The output is a valid checklist file and
can be saved with --output as a starting point for a custom checklist.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cl, err := loadChecklist(a.settings)
			if err != nil {
				return err
			}

			if output != "" {
				if err := checklist.SaveToFile(cl, output, !bare); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Checklist '%s' written to %s\n", cl.Metadata.ID, output)
				return nil
			}

			data, err := checklist.Marshal(cl, !bare)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&bare, "bare", false, "omit the top-level 'checklist:' key")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the checklist to this file instead of stdout")
	return cmd
}
