package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/muloader/internal/muloader"
)

func newOverrideCmd(opts *options) *cobra.Command {
	pkgType := packageType(muloader.TypePlugin)
	var from string

	cmd := &cobra.Command{
		Use:   "override <package>",
		Short: "Show the type a package would be installed as",
		Long: `Run the pre-package-install hook for <package>, or pre-package-update when
--from names the package being replaced, and print the resulting type.`,
		Example: `  muloader override wpackagist-plugin/query-monitor
  muloader override acme/seo --type wordpress-plugin --from acme/seo`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := newLogger(cmd.ErrOrStderr(), opts.verbose)

			_, s, err := openSession(ctx, opts, logger)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Activate(ctx); err != nil {
				return err
			}

			target := muloader.NewPackage(args[0], string(pkgType))
			var op muloader.Operation = muloader.InstallOperation{Package: target}
			event := muloader.EventPrePackageInstall
			if from != "" {
				op = muloader.UpdateOperation{
					Initial: muloader.NewPackage(from, string(pkgType)),
					Target:  target,
				}
				event = muloader.EventPrePackageUpdate
			}

			result, changed, err := s.Package(ctx, event, op)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if changed {
				printSuccess(w, fmt.Sprintf("%s: %s -> %s", args[0], pkgType, result))
			} else {
				printInfo(w, fmt.Sprintf("%s: %s (unchanged)", args[0], result))
			}
			return nil
		},
	}

	cmd.Flags().Var(&pkgType, "type", "package type")
	cmd.Flags().StringVar(&from, "from", "", "treat as an update from this package")

	return cmd
}
