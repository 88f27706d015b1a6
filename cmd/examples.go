package cmd

import (
	"github.com/spf13/cobra"
)

// examplesCmd represents the examples command.
var examplesCmd = newExamplesCmd()

func newExamplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "examples",
		Short: "List bundled example functions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return workflow.Examples(cmd.Context())
		},
	}
}

func init() {
	rootCmd.AddCommand(examplesCmd)
}
