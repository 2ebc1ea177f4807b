package main

import (
	"fmt"

	"github.com/indieinfra/safari-admin/server"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the admin HTTP server (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve()
		},
	}
}

func (a *app) serve() error {
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	a.log.Info().
		Str("backend", a.cfg.Storage.Backend).
		Str("public_url", a.cfg.Server.PublicUrl).
		Msg("starting http server")

	return server.StartServer(a.cfg, a.log)
}
