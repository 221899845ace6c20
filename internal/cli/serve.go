package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/muloader/internal/plugin/server"
)

func newServeCmd(opts *options) *cobra.Command {
	var pluginInfo bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the plugin hooks over go-plugin RPC",
		Long: `Serve the plugin hooks to a host process over go-plugin RPC. This is how
--plugin runs an external muloader binary; it is not meant to be run by hand.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if pluginInfo {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				if err := encoder.Encode(server.Info()); err != nil {
					return fmt.Errorf("failed to encode plugin info: %w", err)
				}
				return nil
			}

			logger := newServeLogger(opts.verbose)
			server.Serve(logger, pluginOptions(opts, logger)...)
			return nil
		},
	}

	cmd.Flags().BoolVar(&pluginInfo, "plugin-info", false, "print plugin metadata as JSON and exit")
	return cmd
}
