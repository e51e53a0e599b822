package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	. "github.com/streamingfast/cli"
	"github.com/streamingfast/devenv"
)

var StartCommand = Command(startE,
	"start [services...]",
	"Start the environment in detached mode",
	Description(`
		Brings the Docker Compose environment up in detached mode.

		This is equivalent to running: docker compose up -d

		With --build, images are rebuilt before the services start
		(docker compose up --build -d). Services can be listed to start
		only a part of the environment.
	`),
	Flags(func(flags *pflag.FlagSet) {
		flags.Bool("build", false, "Force a rebuild of the images before starting")
		flags.Bool("pull", false, "Always pull images before starting")
		workspaceFlags(flags)
	}),
)

// startE brings the environment up
func startE(cmd *cobra.Command, args []string) error {
	ws, err := LoadWorkspaceContext(cmd)
	if err != nil {
		return err
	}

	build, err := cmd.Flags().GetBool("build")
	if err != nil {
		return fmt.Errorf("failed to get build flag: %w", err)
	}
	pull, _ := cmd.Flags().GetBool("pull")

	for _, service := range args {
		if err := devenv.ValidateServiceName(service); err != nil {
			return err
		}
	}

	req, err := devenv.NewRequest(devenv.VerbStart, "", ws.Config.DefaultService)
	if err != nil {
		return err
	}
	req.Rebuild = build
	req.Pull = pull
	req.Services = args

	return ws.Lifecycle.Dispatch(cmd.Context(), req)
}
