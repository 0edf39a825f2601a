package main

import (
	"github.com/spf13/cobra"

	"hypertile/config"
	"hypertile/internal/logging"
)

// globalOptions are the persistent flags and the configuration they load.
type globalOptions struct {
	configPath string
	logLevel   string
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:   "hypertile",
		Short: "Draw tilings of the hyperbolic plane in the Poincaré disk",
		Long: `hypertile walks a map of anchors linked by turtle moves, drawing every
anchor visible in the Poincaré disk. Scenes are built in (see "hypertile
scenes") or loaded from YAML files.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.ParseLevel(opts.logLevel)
			if err != nil {
				return err
			}
			logging.SetLogger(logging.New(level))

			opts.cfg, err = config.Load(opts.configPath)
			return err
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML or TOML configuration file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "debug, info, warn or error")

	cmd.AddCommand(
		newRenderCmd(opts),
		newGeometryCmd(),
		newServeCmd(opts),
		newScenesCmd(),
	)
	return cmd
}
