package cmd

import (
	"github.com/spf13/cobra"

	"cobfus.dev/pkg/cobfus/internal/corpus"
	"cobfus.dev/pkg/cobfus/internal/domain"
)

var demoLongDescription = `Run a bundled example through every obfuscation level and print the
obfuscated code. When ARGS are passed, each obfuscated function is run with
them; the example name must then be given too.

Available examples:
` + corpus.Help()

// demoCmd represents the demo command.
var demoCmd = newDemoCmd()

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo [example] [args...]",
		Short: "Obfuscate a bundled example at every level",
		Long:  demoLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			demoArgs := domain.DemoArgs{Example: corpus.DefaultExample}
			if len(args) > 0 {
				demoArgs.Example = args[0]
				demoArgs.Args = args[1:]
			}

			return workflow.Demo(cmd.Context(), demoArgs)
		},
	}
}

func init() {
	rootCmd.AddCommand(demoCmd)
}
