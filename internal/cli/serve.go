package cli

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tejashwikalptaru/tunebox/internal/app"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Seed the catalog, start the player and serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return opts.withApp(ctx, func(a *app.Application) error {
				if err := a.Start(ctx); err != nil {
					return err
				}
				err := a.Serve(ctx)
				if ctx.Err() != nil {
					a.Logger().Info("shutdown requested", slog.String("cause", context.Cause(ctx).Error()))
				}
				return err
			})
		},
	}
}
