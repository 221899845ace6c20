package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/muloader/internal/composer"
	"github.com/jmylchreest/muloader/internal/config"
	"github.com/jmylchreest/muloader/internal/muloader"
)

// Force-mu status of an installed plugin.
const (
	statusForced  = "yes"
	statusPending = "pending reinstall"
	statusNone    = "no"
)

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "List installed WordPress plugins and their must-use status",
		Long: `List the WordPress plugins Composer installed and whether force-mu applies
to them. Plugins listed in force-mu but still installed as regular plugins
need to be reinstalled; slugs that match no installed plugin are reported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			project, err := composer.Load(opts.workDir)
			if err != nil {
				return err
			}
			return runCheck(cmd, project)
		},
	}
}

func runCheck(cmd *cobra.Command, project *composer.Project) error {
	w := cmd.OutOrStdout()
	cfg := config.Parse(project.Extra())

	installed, err := project.Installed()
	if err != nil {
		return err
	}

	table := NewTable("PACKAGE", "TYPE", "FORCE-MU")
	matched := make(map[string]bool)
	pending := 0
	for _, pkg := range installed {
		if pkg.Type != muloader.TypePlugin && pkg.Type != muloader.TypeMuPlugin {
			continue
		}

		slug := muloader.Slug(pkg.Name)
		status := statusNone
		if cfg.ForcesMu(slug) {
			matched[slug] = true
			status = statusForced
			if pkg.Type == muloader.TypePlugin {
				status = statusPending
				pending++
			}
		}
		table.AddRow(pkg.Name, pkg.Type, status)
	}

	if table.Len() == 0 {
		printEmptyState(w, "No WordPress plugins installed")
	} else {
		table.Print(w)
	}

	for _, slug := range cfg.ForceMu {
		if !matched[slug] {
			printWarning(w, fmt.Sprintf("force-mu slug %q matches no installed plugin", slug))
		}
	}
	if pending > 0 {
		printWarning(w, plural(pending, "plugin needs", "plugins need")+" reinstalling to become must-use")
	}

	return nil
}
