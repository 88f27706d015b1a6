package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// initCmd represents the init command.
var initCmd = newInitCmd()

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate a default cobfus.yaml configuration file",
		Long: `Create a cobfus.yaml in the current working directory holding the
level, toolchain, verify and log defaults so it can be edited manually.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			targetPath := filepath.Join(configFolderPath, configFileName)

			if err := viper.SafeWriteConfigAs(targetPath); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			cmd.Printf("Wrote %s (level %d, compiler %s)\n",
				targetPath, viper.GetInt(levelConfigKey), viper.GetString(toolchainCompiler))

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
}
