package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/streamingfast/devenv"
	"go.uber.org/zap"
)

// WorkspaceContext contains the resolved configuration and backend for a
// workspace. Every lifecycle command starts by loading one.
type WorkspaceContext struct {
	WorkspaceDir string
	Config       *devenv.Config
	ProjectFile  *devenv.ProjectFile
	Backend      *devenv.ComposeBackend
	Lifecycle    *devenv.Lifecycle
}

// LoadWorkspaceContext loads the merged configuration for the workspace and
// builds the backend and lifecycle from it
func LoadWorkspaceContext(cmd *cobra.Command) (*WorkspaceContext, error) {
	workspaceDir, err := getWorkspaceDir(cmd)
	if err != nil {
		return nil, err
	}

	config, projectFile, err := devenv.LoadWorkspaceConfig(workspaceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	backendFlag, err := cmd.Flags().GetString("backend")
	if err != nil {
		return nil, fmt.Errorf("failed to get backend flag: %w", err)
	}
	if err := devenv.ValidateBackend(backendFlag); err != nil {
		return nil, err
	}
	config.Backend = string(devenv.ResolveBackendType(backendFlag, config))

	backend := devenv.NewComposeBackend(config, devenv.NewExecRunner(workspaceDir))
	backend.NoTTY = !isTerminal(os.Stdin)

	zlog.Debug("resolved workspace",
		zap.String("workspace", workspaceDir),
		zap.String("backend", string(backend.Name())),
		zap.Bool("no_tty", backend.NoTTY))

	return &WorkspaceContext{
		WorkspaceDir: workspaceDir,
		Config:       config,
		ProjectFile:  projectFile,
		Backend:      backend,
		Lifecycle:    devenv.NewLifecycle(backend, config, cmd.OutOrStdout()),
	}, nil
}

// workspaceFlags registers the flags shared by every command talking to the backend
func workspaceFlags(flags *pflag.FlagSet) {
	flags.StringP("workspace", "w", "", "Workspace directory (default: current directory)")
	flags.String("backend", "", "Compose backend: docker, podman or docker-compose (default: from configuration)")
}

// getWorkspaceDir extracts the workspace directory from the --workspace flag
// or defaults to the current working directory.
func getWorkspaceDir(cmd *cobra.Command) (string, error) {
	workspaceDir, err := cmd.Flags().GetString("workspace")
	if err != nil {
		return "", fmt.Errorf("failed to get workspace flag: %w", err)
	}
	if workspaceDir == "" {
		workspaceDir, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
	}
	return workspaceDir, nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
