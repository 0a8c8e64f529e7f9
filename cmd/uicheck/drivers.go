package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"uicheck/pkg/driver"
)

func newDriversCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "drivers",
		Short: "List the available browser drivers",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range driver.Names() {
				marker := " "
				if a.settings != nil && name == a.settings.Driver {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, name)
			}
		},
	}
}
