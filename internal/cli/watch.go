package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/muloader/internal/watch"
)

func newWatchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Rewrite the bootstrap file whenever the project changes",
		Long: `Write the bootstrap file, then rewrite it whenever composer.json or
vendor/composer/installed.json changes. Stops on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := cmd.OutOrStdout()
			logger := newLogger(cmd.ErrOrStderr(), opts.verbose)

			project, s, err := openSession(ctx, opts, logger)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := runDump(ctx, w, s); err != nil {
				return err
			}

			watcher, err := watch.New(project.BaseDir(), project.VendorDir(), watch.WithLogger(logger))
			if err != nil {
				return err
			}

			printInfo(w, fmt.Sprintf("Watching %s (press Ctrl+C to stop)", project.BaseDir()))
			return watcher.Run(ctx, func(path string) error {
				logger.Info("project changed", "path", path)
				if err := project.Reload(); err != nil {
					return err
				}
				return runDump(ctx, w, s)
			})
		},
	}
}
