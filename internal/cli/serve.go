package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/relations/internal/httpapi"
)

func (a *app) newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the relationship endpoints over HTTP",
		Long: `Serve exposes the configured fields over HTTP:

  GET  /relationship/index?field=<handle>   candidate listing (endpoints.base_selections)
  POST /relationship/data                   identifiers to display rows (endpoints.item_data)
  GET  /fields/{handle}/preload             widget bootstrap payload
  GET  /fields/{handle}/rules               validation rules
  POST /fields/{handle}/process             validate and store a value

The listen address comes from --addr, then server.addr in config.yaml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			e, err := a.openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			if addr == "" {
				addr = e.settings.ServerAddr
			}
			if err := httpapi.Run(ctx, httpapi.Config{
				Addr:      addr,
				Registry:  e.registry,
				Endpoints: e.settings.Endpoints,
				Logger:    e.logger,
			}); err != nil {
				return sysError(fmt.Errorf("serve: %w", err))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, then :8080)")
	return cmd
}
