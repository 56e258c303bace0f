package main

import (
	"github.com/spf13/cobra"
)

const defaultConfigPath = "config/config.yaml"

// newRootCmd builds the command tree. fetchers builds the image fetcher
// for commands that download.
func newRootCmd(fetchers fetcherFactory) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "xhs-resolver",
		Short:         "Resolve Xiaohongshu thumbnail links to their original HD images",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to the YAML config file")

	root.AddCommand(
		newServeCmd(&configPath, fetchers),
		newResolveCmd(),
		newDownloadCmd(&configPath, fetchers),
	)
	return root
}
