package cli

import (
	"github.com/spf13/cobra"
)

func newUninstallCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the generated bootstrap file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			w := cmd.OutOrStdout()
			logger := newLogger(cmd.ErrOrStderr(), opts.verbose)

			_, s, err := openSession(ctx, opts, logger)
			if err != nil {
				return err
			}
			defer s.Close()

			path, err := s.Uninstall(ctx)
			if err != nil {
				return err
			}
			if path == "" {
				printInfo(w, "No bootstrap file to remove")
				return nil
			}
			printSuccess(w, "Removed "+path)
			return nil
		},
	}
}
