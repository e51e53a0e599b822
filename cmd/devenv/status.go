package main

import (
	"fmt"
	"os"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	. "github.com/streamingfast/cli"
	"github.com/streamingfast/devenv"
)

var StatusCommand = Command(statusE,
	"status",
	"Show the services of the environment",
	Description(`
		Lists the running services of the Docker Compose environment with
		their state, status and image.

		With --all, stopped containers are listed too.
	`),
	Flags(func(flags *pflag.FlagSet) {
		flags.Bool("all", false, "Also show stopped containers")
		workspaceFlags(flags)
	}),
)

// statusE lists the services of the environment
func statusE(cmd *cobra.Command, args []string) error {
	ws, err := LoadWorkspaceContext(cmd)
	if err != nil {
		return err
	}

	all, _ := cmd.Flags().GetBool("all")

	statuses, err := ws.Backend.List(cmd.Context(), all)
	if err != nil {
		return err
	}

	if ws.ProjectFile != nil {
		cmd.Printf("Project file: %s\n", ws.ProjectFile.Path)
	}
	cmd.Printf("Backend:      %s\n", devenv.FormatCommand(ws.Backend.Command()))
	cmd.Println()

	if len(statuses) == 0 {
		if all {
			cmd.Println("No services have been created")
		} else {
			cmd.Println("No services are running")
		}
		cmd.Println("Run 'devenv start' to start the environment.")
		return nil
	}

	cmd.Println(renderStatusTable(statuses, isTerminal(os.Stdout)))
	return nil
}

// renderStatusTable formats statuses as a table, colored when styled is set
func renderStatusTable(statuses []devenv.ServiceStatus, styled bool) string {
	headerStyle := lipgloss.NewStyle().Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	runningStyle := cellStyle
	stoppedStyle := cellStyle
	if styled {
		headerStyle = headerStyle.Bold(true)
		runningStyle = runningStyle.Foreground(lipgloss.Color("10"))
		stoppedStyle = stoppedStyle.Foreground(lipgloss.Color("9"))
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("SERVICE", "NAME", "STATE", "STATUS", "IMAGE").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 2 && statuses[row].Running():
				return runningStyle
			case col == 2:
				return stoppedStyle
			default:
				return cellStyle
			}
		})

	for _, s := range statuses {
		state := s.State
		if s.Health != "" {
			state = fmt.Sprintf("%s (%s)", s.State, s.Health)
		}
		t.Row(s.Service, s.Name, state, s.Status, s.Image)
	}

	return t.String()
}
