package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cobfus.dev/pkg/cobfus/internal/domain"
	m "cobfus.dev/pkg/cobfus/internal/model"
)

var verifyParallelFlag int
var verifyReportFlag string

const verifyLongDescription = `Obfuscate bundled examples at every level and check that:
  - the original and obfuscated functions return the same value for the
    arguments 1..N, N being the parameter count;
  - levels that only reformat code compile to an identical stripped object;
  - levels that rewrite code change at least one stripped object.

Fails when any of these does not hold.`

// verifyCmd represents the verify command.
var verifyCmd = newVerifyCmd()

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify [examples...]",
		Short: "Check that obfuscation preserves behavior on the bundled examples",
		Long:  verifyLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Verify(cmd.Context(), domain.VerifyArgs{
				Examples: args,
				Parallel: viper.GetInt(verifyParallelKey),
				Report:   m.Path(verifyReportFlag),
			})
		},
	}

	configureVerifyFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func configureVerifyFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&verifyParallelFlag, parallelFlagName, "p", viper.GetInt(verifyParallelKey), "number of examples verified in parallel")
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), verifyParallelKey)
	cmd.Flags().StringVar(&verifyReportFlag, reportFlagName, "", "write the verification reports to this YAML file")
}
