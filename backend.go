package devenv

import (
	"context"
	"fmt"
)

// BackendType names the compose implementation driven by devenv
type BackendType string

const (
	// BackendDocker uses the Docker Compose v2 plugin (docker compose)
	BackendDocker BackendType = "docker"
	// BackendPodman uses podman's compose front-end (podman compose)
	BackendPodman BackendType = "podman"
	// BackendDockerCompose uses the standalone docker-compose binary
	BackendDockerCompose BackendType = "docker-compose"
)

// DefaultBackend is the backend used when none is configured
const DefaultBackend = BackendDocker

// ValidBackendTypes contains all valid backend type values
var ValidBackendTypes = []BackendType{BackendDocker, BackendPodman, BackendDockerCompose}

// ValidateBackend checks if a backend name is valid
func ValidateBackend(name string) error {
	switch BackendType(name) {
	case BackendDocker, BackendPodman, BackendDockerCompose:
		return nil
	case "":
		return nil // Empty means use default
	default:
		return fmt.Errorf("invalid backend %q, valid values: %v", name, ValidBackendTypes)
	}
}

// BaseCommand returns the command line prefix invoking this backend
func (t BackendType) BaseCommand() []string {
	switch t {
	case BackendPodman:
		return []string{"podman", "compose"}
	case BackendDockerCompose:
		return []string{"docker-compose"}
	default:
		return []string{"docker", "compose"}
	}
}

// UpOptions controls how services are brought up
type UpOptions struct {
	// Build forces images to be rebuilt before starting
	Build bool

	// Pull always pulls images before starting
	Pull bool

	// Services restricts the operation to the given services, all when empty
	Services []string
}

// DownOptions controls how the environment is torn down
type DownOptions struct {
	// Volumes also removes named and anonymous volumes
	Volumes bool

	// RemoveOrphans removes containers for services not in the compose file
	RemoveOrphans bool
}

// Backend is the container-orchestration tool managing the environment.
// Every method blocks until the underlying invocation completes and reports
// a failed invocation as a *CommandError.
type Backend interface {
	// Name returns the backend type
	Name() BackendType

	// Up starts services in detached mode
	Up(ctx context.Context, opts UpOptions) error

	// RunningID returns the container ID of a running service, empty when
	// the service is not running
	RunningID(ctx context.Context, service string) (string, error)

	// Exec runs an interactive command inside a running service
	Exec(ctx context.Context, service string, command ...string) error

	// Down stops and removes all services
	Down(ctx context.Context, opts DownOptions) error

	// List returns the services of the environment, running only unless all is set
	List(ctx context.Context, all bool) ([]ServiceStatus, error)
}

// ResolveBackendType determines the effective backend type from configuration sources.
// Priority order (highest to lowest):
// 1. CLI flag (cliBackend parameter)
// 2. Merged configuration (project file over global config)
// 3. Hardcoded default (BackendDocker)
func ResolveBackendType(cliBackend string, config *Config) BackendType {
	if cliBackend != "" {
		return BackendType(cliBackend)
	}

	if config != nil && config.Backend != "" {
		return BackendType(config.Backend)
	}

	return DefaultBackend
}
