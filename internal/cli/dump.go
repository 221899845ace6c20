package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

func newDumpCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Write the mu-plugins bootstrap file",
		Long: `Activate the plugin against the project and run the pre-autoload-dump hook,
writing the bootstrap file that requires the mu-loader script.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logger := newLogger(cmd.ErrOrStderr(), opts.verbose)

			_, s, err := openSession(ctx, opts, logger)
			if err != nil {
				return err
			}
			defer s.Close()

			return runDump(ctx, cmd.OutOrStdout(), s)
		},
	}
}

func runDump(ctx context.Context, w io.Writer, s session) error {
	if err := s.Activate(ctx); err != nil {
		return err
	}

	path, err := s.Dump(ctx)
	if err != nil {
		return err
	}
	if path == "" {
		printWarning(w, "No bootstrap file written (generation disabled or no mu-plugins install path)")
		return nil
	}

	printSuccess(w, "Wrote "+path)
	return nil
}
