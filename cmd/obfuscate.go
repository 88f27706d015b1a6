package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cobfus.dev/pkg/cobfus/internal/domain"
	m "cobfus.dev/pkg/cobfus/internal/model"
)

var levelFlag int
var outputFileFlag string
var diffFlag bool

var obfuscateLongDescription = `Obfuscate the C file at c_file. When ARGS are passed, the function is run
before and after obfuscation with those arguments and both results are
printed. Use -- before negative arguments.

Without --output-file the obfuscated code is printed to the terminal.

Available levels:
` + domain.DescribeLevels()

// obfuscateCmd represents the obfuscate command.
var obfuscateCmd = newObfuscateCmd()

func newObfuscateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "obfuscate <c_file> [args...]",
		Short: "Obfuscate a C file",
		Long:  obfuscateLongDescription,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Obfuscate(cmd.Context(), domain.ObfuscateArgs{
				Source: m.Path(args[0]),
				Level:  viper.GetInt(levelConfigKey),
				Output: m.Path(outputFileFlag),
				Args:   args[1:],
				Diff:   diffFlag,
			})
		},
	}

	configureObfuscateFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(obfuscateCmd)
}

func configureObfuscateFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&levelFlag, levelFlagName, "l", viper.GetInt(levelConfigKey), "obfuscation level")
	bindFlagToConfig(cmd.Flags().Lookup(levelFlagName), levelConfigKey)
	cmd.Flags().StringVarP(&outputFileFlag, outputFileFlagName, "o", "", "write the obfuscated code to this file")
	cmd.Flags().BoolVar(&diffFlag, diffFlagName, false, "print a unified diff of the original and obfuscated code")
}
