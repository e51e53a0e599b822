package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	. "github.com/streamingfast/cli"
	"github.com/streamingfast/devenv"
)

var StopCommand = Command(stopE,
	"stop",
	"Stop and remove the environment",
	Description(`
		Stops and removes every container of the Docker Compose environment.

		This is equivalent to running: docker compose down

		With --volumes, the environment's volumes are removed as well. Asks
		for confirmation before proceeding unless --yes is given.
	`),
	Flags(func(flags *pflag.FlagSet) {
		flags.Bool("volumes", false, "Also remove named and anonymous volumes")
		flags.Bool("remove-orphans", false, "Also remove containers of services no longer defined")
		flags.BoolP("yes", "y", false, "Do not ask for confirmation")
		workspaceFlags(flags)
	}),
)

// stopE tears the environment down
func stopE(cmd *cobra.Command, args []string) error {
	ws, err := LoadWorkspaceContext(cmd)
	if err != nil {
		return err
	}

	volumes, _ := cmd.Flags().GetBool("volumes")
	removeOrphans, _ := cmd.Flags().GetBool("remove-orphans")
	yes, _ := cmd.Flags().GetBool("yes")

	// Volumes hold data that cannot be recreated from images
	if volumes && !yes {
		answeredYes, _ := AskConfirmation("This will remove the environment AND its volumes for %s. Continue?", ws.WorkspaceDir)
		if !answeredYes {
			cmd.Println("Aborted.")
			return nil
		}
	}

	req, err := devenv.NewRequest(devenv.VerbStop, "", ws.Config.DefaultService)
	if err != nil {
		return err
	}
	req.Volumes = volumes
	req.RemoveOrphans = removeOrphans

	return ws.Lifecycle.Dispatch(cmd.Context(), req)
}
