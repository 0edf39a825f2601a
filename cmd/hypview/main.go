// Command hypview opens a window on a hyperbolic tiling. Drag with the
// mouse or one finger to pan; R returns to the start; Escape quits.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"hypertile/config"
	"hypertile/internal/logging"
	"hypertile/scene"
	"hypertile/view"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath, logLevel, sceneName string
	cmd := &cobra.Command{
		Use:          "hypview",
		Short:        "Pan around a hyperbolic tiling",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logging.SetLogger(logging.New(level))

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if sceneName != "" {
				cfg.Scene = sceneName
			}
			sc, err := scene.Resolve(cfg.Scene)
			if err != nil {
				return err
			}
			return run(cmd.Context(), sc, cfg)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "YAML or TOML configuration file")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	cmd.Flags().StringVar(&sceneName, "scene", "", "built-in scene name or scene file (default from config)")
	return cmd
}

// run blocks until the window closes.
func run(ctx context.Context, sc scene.Scene, cfg config.Config) error {
	log := logging.Logger()
	stats := view.NewFrameStats(log)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go stats.Run(ctx, cfg.StatsPeriod())

	v := newViewer(view.NewSession(sc, cfg, view.WithLogger(log), view.WithStats(stats)))
	defer v.Close()

	ebiten.SetWindowTitle(fmt.Sprintf("hypview: %s", sc.Name))
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)
	if err := ebiten.RunGame(v); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
