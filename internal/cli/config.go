package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/muloader/internal/composer"
	"github.com/jmylchreest/muloader/internal/config"
	"github.com/jmylchreest/muloader/internal/muloader"
)

func newConfigCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Edit muloader settings in composer.json",
	}

	forceMu := &cobra.Command{
		Use:   "force-mu",
		Short: "Manage the force-mu allowlist",
	}
	forceMu.AddCommand(
		&cobra.Command{
			Use:   "add <slug>",
			Short: "Force a plugin to install as a must-use plugin",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				slug := muloader.Slug(args[0])
				return applyEdit(cmd, opts, composer.AddForceMu(slug), "Added "+slug+" to force-mu")
			},
		},
		&cobra.Command{
			Use:   "remove <slug>",
			Short: "Stop forcing a plugin to install as a must-use plugin",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				slug := muloader.Slug(args[0])
				return applyEdit(cmd, opts, composer.RemoveForceMu(slug), "Removed "+slug+" from force-mu")
			},
		},
	)

	requireFile := &cobra.Command{
		Use:   "require-file <name|false>",
		Short: "Set the bootstrap file name, or disable it with false",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "false" {
				return applyEdit(cmd, opts, composer.SetRequireFile("", true), "Disabled the bootstrap file")
			}
			if !config.ValidFileName(args[0]) {
				return fmt.Errorf("invalid file name %q: must be a bare file name", args[0])
			}
			return applyEdit(cmd, opts, composer.SetRequireFile(args[0], false), "Bootstrap file set to "+args[0])
		},
	}

	unixSeparator := &cobra.Command{
		Use:   "unix-separator <true|false>",
		Short: "Always use forward slashes in the bootstrap include path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := strconv.ParseBool(args[0])
			if err != nil {
				return fmt.Errorf("invalid value %q: expected true or false", args[0])
			}
			return applyEdit(cmd, opts, composer.SetUnixSeparator(enabled), fmt.Sprintf("force-unix-separator set to %t", enabled))
		},
	}

	cmd.AddCommand(forceMu, requireFile, unixSeparator)
	return cmd
}

func applyEdit(cmd *cobra.Command, opts *options, edit composer.Edit, done string) error {
	project, err := composer.Load(opts.workDir)
	if err != nil {
		return err
	}

	changed, err := project.Apply(edit)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if !changed {
		printInfo(w, "composer.json already up to date")
		return nil
	}
	printSuccess(w, done)
	return nil
}
