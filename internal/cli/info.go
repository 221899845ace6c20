package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/muloader/internal/bootstrap"
	"github.com/jmylchreest/muloader/internal/composer"
	"github.com/jmylchreest/muloader/internal/muloader"
)

func newInfoCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the resolved configuration and paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			logger := newLogger(cmd.ErrOrStderr(), opts.verbose)

			project, err := composer.Load(opts.workDir)
			if err != nil {
				return err
			}

			p := muloader.New(pluginOptions(opts, logger)...)
			p.Activate(project)
			cfg := p.Config()

			printSection(w, "Configuration")
			forceMu := "(none)"
			if len(cfg.ForceMu) > 0 {
				forceMu = strings.Join(cfg.ForceMu, ", ")
			}
			printLabelValue(w, "force-mu", forceMu)
			requireFile := cfg.FileName()
			if !cfg.Generates() {
				requireFile = "disabled"
			}
			printLabelValue(w, "mu-require-file", requireFile)
			printLabelValue(w, "separator", cfg.Separator.String())

			muPath, err := p.MuPath(project)
			if err != nil {
				return err
			}
			loader := p.LoaderPath(project)

			printSection(w, "Paths")
			printLabelValue(w, "project", project.BaseDir())
			printLabelValue(w, "vendor", project.VendorDir())
			printLabelValue(w, "loader", loader)
			if muPath == "" {
				printLabelValue(w, "mu-plugins", "(none)")
				return nil
			}
			printLabelValue(w, "mu-plugins", muPath)
			printLabelValue(w, "include", bootstrap.IncludePath(muPath, loader, cfg.Separator))

			if !cfg.Generates() {
				return nil
			}
			target := filepath.Join(muPath, cfg.FileName())
			state := "not generated"
			if _, err := os.Stat(target); err == nil {
				state = "present"
			}
			printLabelValue(w, "bootstrap", target+" ("+state+")")
			return nil
		},
	}
}
