package main

import (
	"os"

	"waypoint/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string
	root := &cobra.Command{
		Use:          "waypoint",
		Short:        "Region discovery and fast-travel service",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $WAYPOINT_CONFIG or "+config.DefaultPath+")")

	configPath := func() string { return config.Path(cfgFile) }
	root.AddCommand(newServeCmd(configPath))
	root.AddCommand(newRegionsCmd(configPath))
	return root
}
