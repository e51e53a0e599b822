package devenv

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// ComposeBackend implements the Backend interface by invoking a compose CLI
type ComposeBackend struct {
	backend    BackendType
	command    []string
	globalArgs []string
	runner     Runner

	// NoTTY passes -T to exec so no pseudo-TTY is allocated, required when
	// standard input is not a terminal
	NoTTY bool
}

// NewComposeBackend creates a compose backend from the configuration
func NewComposeBackend(config *Config, runner Runner) *ComposeBackend {
	backend := ResolveBackendType("", config)

	command := backend.BaseCommand()
	if len(config.Command) > 0 {
		command = append([]string(nil), config.Command...)
	}

	// Global flags must precede the sub-command
	var globalArgs []string
	for _, file := range config.ComposeFiles {
		globalArgs = append(globalArgs, "-f", file)
	}
	if config.ProjectName != "" {
		globalArgs = append(globalArgs, "-p", config.ProjectName)
	}
	if config.ProjectDirectory != "" {
		globalArgs = append(globalArgs, "--project-directory", config.ProjectDirectory)
	}

	return &ComposeBackend{
		backend:    backend,
		command:    command,
		globalArgs: globalArgs,
		runner:     runner,
	}
}

// Name returns the backend type name
func (b *ComposeBackend) Name() BackendType {
	return b.backend
}

// Command returns the full command line for a compose sub-command
func (b *ComposeBackend) Command(sub ...string) []string {
	args := make([]string, 0, len(b.command)+len(b.globalArgs)+len(sub))
	args = append(args, b.command...)
	args = append(args, b.globalArgs...)
	return append(args, sub...)
}

// Up starts services in detached mode
func (b *ComposeBackend) Up(ctx context.Context, opts UpOptions) error {
	sub := []string{"up"}
	if opts.Build {
		sub = append(sub, "--build")
	}
	if opts.Pull {
		sub = append(sub, "--pull", "always")
	}
	sub = append(sub, "-d")
	sub = append(sub, opts.Services...)

	_, err := b.run(ctx, Invocation{Args: b.Command(sub...)})
	return err
}

// RunningID returns the container ID of the running service, empty if the
// service has no running container
func (b *ComposeBackend) RunningID(ctx context.Context, service string) (string, error) {
	result, err := b.run(ctx, Invocation{Args: b.Command("ps", "-q", service), Capture: true})
	if err != nil {
		return "", err
	}

	output := strings.TrimSpace(string(result.Output))
	if output == "" {
		return "", nil
	}

	// A scaled service reports one ID per replica, the first one is enough
	id, _, _ := strings.Cut(output, "\n")
	return strings.TrimSpace(id), nil
}

// Exec runs command interactively inside the running service
func (b *ComposeBackend) Exec(ctx context.Context, service string, command ...string) error {
	sub := []string{"exec"}
	if b.NoTTY {
		sub = append(sub, "-T")
	}
	sub = append(sub, service)
	sub = append(sub, command...)

	_, err := b.run(ctx, Invocation{Args: b.Command(sub...)})
	return err
}

// Down stops and removes all services
func (b *ComposeBackend) Down(ctx context.Context, opts DownOptions) error {
	sub := []string{"down"}
	if opts.Volumes {
		sub = append(sub, "--volumes")
	}
	if opts.RemoveOrphans {
		sub = append(sub, "--remove-orphans")
	}

	_, err := b.run(ctx, Invocation{Args: b.Command(sub...)})
	return err
}

// List returns the services of the environment
func (b *ComposeBackend) List(ctx context.Context, all bool) ([]ServiceStatus, error) {
	sub := []string{"ps", "--format", "json"}
	if all {
		sub = append(sub, "-a")
	}

	result, err := b.run(ctx, Invocation{Args: b.Command(sub...), Capture: true})
	if err != nil {
		return nil, err
	}

	return ParseServiceStatuses(result.Output)
}

// run executes the invocation, turning start failures and non-zero exit
// codes into a *CommandError
func (b *ComposeBackend) run(ctx context.Context, inv Invocation) (*Result, error) {
	result, err := b.runner.Run(ctx, inv)
	if err != nil {
		// The backend binary itself could not be started
		return nil, &CommandError{Args: inv.Args, Code: ExitCodeNotFound, Err: err}
	}

	if result.ExitCode != 0 {
		zlog.Debug("backend command failed",
			zap.Strings("args", inv.Args),
			zap.Int("exit_code", result.ExitCode))
		return result, &CommandError{Args: inv.Args, Code: result.ExitCode}
	}

	return result, nil
}
