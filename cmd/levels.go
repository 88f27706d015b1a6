package cmd

import (
	"github.com/spf13/cobra"
)

// levelsCmd represents the levels command.
var levelsCmd = newLevelsCmd()

func newLevelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "List obfuscation levels and their techniques",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return workflow.Levels(cmd.Context())
		},
	}
}

func init() {
	rootCmd.AddCommand(levelsCmd)
}
