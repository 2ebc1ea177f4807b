package main

import (
	"fmt"
	"os"

	"github.com/indieinfra/safari-admin/config"
	"github.com/indieinfra/safari-admin/server/util"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app carries what the root command resolved for its subcommands.
type app struct {
	configFile string
	envFiles   []string
	cfg        *config.Config
	log        zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "safari-admin",
		Short:        "Admin tool for the safari experience image slots",
		Long:         "safari-admin serves the password-protected image admin page and its upload, delete and diagnostics API.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve()
		},
	}

	root.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "path to a YAML configuration file (i.e., /etc/safari-admin.yml)")
	root.PersistentFlags().StringSliceVar(&a.envFiles, "env-file", config.DefaultEnvFiles, "dotenv files to load when present")

	root.AddCommand(newServeCmd(a), newCheckEnvCmd(a), newProbeCmd(a))
	return root
}

func (a *app) load() error {
	if _, err := config.LoadEnvFiles(a.envFiles...); err != nil {
		return fmt.Errorf("failed to load environment files: %w", err)
	}

	cfg, err := config.Load(a.configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	a.cfg = cfg
	a.log = util.NewLogger(cfg.Logging, cfg.Debug, os.Stderr)
	return nil
}
