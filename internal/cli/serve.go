package cli

import (
	"os/signal"
	"syscall"

	"github.com/fekuna/omnipos-register/internal/app"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, gRPC health service and order listener",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return err
			}

			log := app.NewLogger(cfg)
			defer log.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Run(ctx); err != nil && ctx.Err() == nil {
				log.Error("server failed", zap.Error(err))
				return err
			}
			log.Info("Server stopped")
			return nil
		},
	}
}

