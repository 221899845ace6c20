// Package cli provides the command-line interface for muloader.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/muloader/internal/version"
)

// options holds the global flags.
type options struct {
	workDir    string
	verbose    bool
	pluginPath string
	loaderPath string
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		printError(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "muloader",
		Short: "Load WordPress plugins as must-use plugins",
		Long: `muloader forces selected WordPress plugins of a Composer project to install
as must-use plugins, and writes the mu-plugins bootstrap file that loads them.

Plugins are listed by slug in the "force-mu" array of composer.json's "extra"
block. The bootstrap file name comes from "mu-require-file" (false disables it).`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&opts.workDir, "working-dir", "d", ".", "project directory containing composer.json")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&opts.pluginPath, "plugin", "", "run the hooks in an external muloader binary over RPC")
	rootCmd.PersistentFlags().StringVar(&opts.loaderPath, "loader", "", "override the mu-loader script path")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(
		newDumpCmd(opts),
		newOverrideCmd(opts),
		newCheckCmd(opts),
		newInfoCmd(opts),
		newUninstallCmd(opts),
		newConfigCmd(opts),
		newWatchCmd(opts),
		newServeCmd(opts),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
