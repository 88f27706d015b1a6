package cmd

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cobfus.dev/pkg/cobfus/internal/domain"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Long: `Displays the cobfus build version, the Go version used to build it, the
configured compiler and the available obfuscation levels.`,
		Run: func(cmd *cobra.Command, _ []string) {
			version, goVersion := "unknown", "unknown"
			if info, ok := debug.ReadBuildInfo(); ok {
				goVersion = info.GoVersion

				if info.Main.Version != "" {
					version = info.Main.Version
				}
			}

			cmd.Println("cobfus version\t", version)
			cmd.Println("go version\t", goVersion)
			cmd.Println("compiler\t", viper.GetString(toolchainCompiler))
			cmd.Println("levels\t\t", availableLevels())
		},
	}
}

func availableLevels() string {
	levels := domain.Levels()
	severities := make([]string, 0, len(levels))

	for _, level := range levels {
		severities = append(severities, fmt.Sprintf("%d", level.Severity))
	}

	return strings.Join(severities, ", ")
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
