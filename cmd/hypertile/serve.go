package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hypertile/internal/logging"
	"hypertile/server"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	var addr, sceneName string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve frames over HTTP and pan sessions over WebSocket",
		Long: `Starts the frame server. GET /frame.png and /frame.svg render single
frames, /ws streams a PNG per pan, /metrics exposes Prometheus metrics and
/ opens a small browser viewer.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if addr != "" {
				cfg.Addr = addr
			}
			if sceneName != "" {
				cfg.Scene = sceneName
			}
			srv, err := server.New(cfg, server.WithLogger(logging.Logger()))
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&sceneName, "scene", "", "default scene (default from config)")
	return cmd
}
