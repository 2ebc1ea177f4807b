package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/indieinfra/safari-admin/server"
	"github.com/indieinfra/safari-admin/storage/media"
	"github.com/spf13/cobra"
)

func newProbeCmd(a *app) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Check connectivity and credentials of the configured storage backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := server.NewState(a.cfg, a.log)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			return runProbe(ctx, cmd.OutOrStdout(), st.Store)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 15*time.Second, "give up after this long")
	return cmd
}

func runProbe(ctx context.Context, w io.Writer, store media.Store) error {
	start := time.Now()
	res, err := store.Probe(ctx)
	elapsed := time.Since(start).Round(time.Millisecond)

	if err != nil {
		fmt.Fprintf(w, "%s %s %s\n", styleError.Render(iconError), store.Name(), styleMuted.Render(err.Error()))
		return fmt.Errorf("probe %s backend: %w", store.Name(), err)
	}

	fmt.Fprintf(w, "%s %s %s\n", styleSuccess.Render(iconSuccess), res.Backend, styleMuted.Render(fmt.Sprintf("%s (%s)", res.Detail, elapsed)))
	return nil
}
