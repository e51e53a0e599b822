package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	. "github.com/streamingfast/cli"
	"github.com/streamingfast/devenv"
)

var EnterCommand = Command(enterE,
	"enter",
	"Open an interactive shell inside a running service",
	Description(`
		Opens an interactive shell inside the running service. Errors if the
		service is not running.

		This is equivalent to running: docker compose exec <service> bash

		The service defaults to the configured default_service ("ai" unless
		changed). When bash cannot be executed inside the service, sh is
		tried once instead.
	`),
	Flags(func(flags *pflag.FlagSet) {
		flags.String("service", "", `Service name (default: configured default_service, "ai")`)
		flags.String("shell", "", "Shell to run instead of the configured one")
		workspaceFlags(flags)
	}),
)

// enterE opens a shell in the running service
func enterE(cmd *cobra.Command, args []string) error {
	ws, err := LoadWorkspaceContext(cmd)
	if err != nil {
		return err
	}

	service, err := cmd.Flags().GetString("service")
	if err != nil {
		return fmt.Errorf("failed to get service flag: %w", err)
	}
	shell, _ := cmd.Flags().GetString("shell")

	req, err := devenv.NewRequest(devenv.VerbEnter, service, ws.Config.DefaultService)
	if err != nil {
		return err
	}
	req.Shell = shell

	return ws.Lifecycle.Dispatch(cmd.Context(), req)
}
