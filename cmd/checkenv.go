package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/indieinfra/safari-admin/config"
	"github.com/indieinfra/safari-admin/server/handler/diag"
	"github.com/spf13/cobra"
)

var errEnvIncomplete = errors.New("required environment variables are missing")

type envCheck struct {
	name     string
	value    string
	secret   bool
	required bool
}

func newCheckEnvCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check-env",
		Short: "Report which credentials resolved from the environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkEnv(cmd.OutOrStdout(), a.cfg)
		},
	}
}

func envChecks(cfg *config.Config) []envCheck {
	remote := cfg.Storage.Remote
	if remote == nil {
		remote = &config.RemoteStorageBackend{}
	}
	needRemote := cfg.Storage.Backend == "remote"

	return []envCheck{
		{name: config.EnvRemoteAccount, value: remote.Account, required: needRemote},
		{name: config.EnvRemoteAccessKey, value: remote.AccessKey, secret: true, required: needRemote},
		{name: config.EnvRemoteSecretKey, value: remote.SecretKey, secret: true, required: needRemote},
		{name: config.EnvAdminPassword, value: cfg.Server.AdminPassword, secret: true, required: true},
		{name: config.EnvPublicUrl, value: cfg.Server.PublicUrl},
	}
}

// checkEnv prints one line per variable and fails when a required one is empty.
func checkEnv(w io.Writer, cfg *config.Config) error {
	fmt.Fprintln(w, styleTitle.Render("Safari admin environment"))
	fmt.Fprintf(w, "%s %s\n\n", styleMuted.Render("storage backend:"), cfg.Storage.Backend)

	missing := 0
	for _, c := range envChecks(cfg) {
		switch {
		case c.value != "":
			shown := c.value
			if c.secret {
				shown = diag.MaskSecret(c.value)
			}
			fmt.Fprintf(w, "%s %s %s\n", styleSuccess.Render(iconSuccess), c.name, styleMuted.Render("set ("+shown+")"))
		case c.required:
			missing++
			fmt.Fprintf(w, "%s %s %s\n", styleError.Render(iconError), c.name, styleMuted.Render("missing"))
		default:
			fmt.Fprintf(w, "%s %s %s\n", styleMuted.Render("-"), c.name, styleMuted.Render("not set (optional for this backend)"))
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, styleHeader.Render("Summary"))
	if missing == 0 {
		fmt.Fprintln(w, styleSuccess.Render(iconSuccess)+" All required environment variables are set.")
		return nil
	}

	fmt.Fprintf(w, "%s %d required variable(s) missing.\n\n", styleError.Render(iconError), missing)
	fmt.Fprintln(w, styleHeader.Render("To fix this"))
	fmt.Fprintln(w, "1. Create a .env.local file in the working directory")
	fmt.Fprintln(w, "2. Add the missing values:")
	for _, c := range envChecks(cfg) {
		if c.required && c.value == "" {
			fmt.Fprintf(w, "   %s=...\n", c.name)
		}
	}
	fmt.Fprintln(w, "3. Restart safari-admin")

	return errEnvIncomplete
}
