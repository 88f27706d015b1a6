// Package cmd provides the root command and CLI setup for cobfus.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"cobfus.dev/pkg/cobfus/internal/adapter"
	"cobfus.dev/pkg/cobfus/internal/controller"
	"cobfus.dev/pkg/cobfus/internal/domain"
)

var fsAdapter adapter.SourceFSAdapter
var toolchain adapter.ToolchainAdapter
var inspector adapter.ObjectInspector
var reportStore adapter.ReportStore
var workflow domain.Workflow
var ui controller.UI

var verboseFlag bool
var logFileFlag string

func init() {
	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	toolchain = adapter.NewLocalToolchainAdapterWithConfig(toolchainConfig())
	inspector = adapter.NewELFObjectInspector()
	reportStore = adapter.NewReportStore()
	workflow = domain.NewWorkflow(
		fsAdapter,
		reportStore,
		ui,
		domain.NewRunnerFactory(fsAdapter, toolchain, inspector),
	)
}

const rootLongDescription = `Cobfus obfuscates C functions by rewriting their source text at a chosen
level, and checks that the rewritten function still computes the same results
by compiling and running both versions with gcc.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "cobfus",
		Short:         "C source obfuscator",
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, viper.GetString(logFilenameKey), "path of the log file")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
