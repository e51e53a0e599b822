package devenv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"

	"go.uber.org/zap"
)

// Verb is a lifecycle operation requested on the command line
type Verb string

const (
	VerbStart Verb = "start"
	VerbEnter Verb = "enter"
	VerbStop  Verb = "stop"
)

// serviceNamePattern follows the compose service naming rules
var serviceNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

// Request is a single lifecycle invocation built from the command line
type Request struct {
	Verb Verb

	// Service is the target of enter
	Service string

	// Rebuild forces an image rebuild on start
	Rebuild bool

	// Pull always pulls images on start
	Pull bool

	// Services restricts start to the given services
	Services []string

	// Shell overrides the preferred shell on enter
	Shell string

	// Volumes also removes volumes on stop
	Volumes bool

	// RemoveOrphans removes containers of services no longer defined on stop
	RemoveOrphans bool
}

// NewRequest creates a request for verb targeting service, falling back to
// defaultService when service is empty
func NewRequest(verb Verb, service string, defaultService string) (Request, error) {
	switch verb {
	case VerbStart, VerbEnter, VerbStop:
	default:
		return Request{}, fmt.Errorf("unknown command %q", verb)
	}

	if service == "" {
		service = defaultService
	}
	if err := ValidateServiceName(service); err != nil {
		return Request{}, err
	}

	return Request{Verb: verb, Service: service}, nil
}

// ValidateServiceName checks that name is a usable compose service name
func ValidateServiceName(name string) error {
	if name == "" {
		return errors.New("service name must not be empty")
	}
	if !serviceNamePattern.MatchString(name) {
		return fmt.Errorf("invalid service name %q", name)
	}
	return nil
}

// Lifecycle implements the start, enter and stop operations on a backend
type Lifecycle struct {
	backend       Backend
	out           io.Writer
	shell         string
	fallbackShell string
}

// NewLifecycle creates a lifecycle driving backend. Progress messages are
// written to out.
func NewLifecycle(backend Backend, config *Config, out io.Writer) *Lifecycle {
	if out == nil {
		out = io.Discard
	}

	return &Lifecycle{
		backend:       backend,
		out:           out,
		shell:         config.Shell,
		fallbackShell: config.FallbackShell,
	}
}

// Dispatch runs the operation named by the request
func (l *Lifecycle) Dispatch(ctx context.Context, req Request) error {
	zlog.Debug("dispatching request",
		zap.String("verb", string(req.Verb)),
		zap.String("service", req.Service),
		zap.Bool("rebuild", req.Rebuild))

	switch req.Verb {
	case VerbStart:
		return l.Start(ctx, UpOptions{Build: req.Rebuild, Pull: req.Pull, Services: req.Services})
	case VerbEnter:
		return l.Enter(ctx, req.Service, req.Shell)
	case VerbStop:
		return l.Stop(ctx, DownOptions{Volumes: req.Volumes, RemoveOrphans: req.RemoveOrphans})
	default:
		return fmt.Errorf("unknown command %q", req.Verb)
	}
}

// Start brings the environment up in detached mode
func (l *Lifecycle) Start(ctx context.Context, opts UpOptions) error {
	if opts.Build {
		fmt.Fprintln(l.out, "Rebuilding images and starting services in detached mode...")
	} else {
		fmt.Fprintln(l.out, "Starting services in detached mode...")
	}

	zlog.Info("starting services",
		zap.String("backend", string(l.backend.Name())),
		zap.Bool("build", opts.Build),
		zap.Bool("pull", opts.Pull),
		zap.Strings("services", opts.Services))

	if err := l.backend.Up(ctx, opts); err != nil {
		return err
	}

	zlog.Info("services started")
	return nil
}

// Enter opens an interactive shell inside the running service. The
// configured shell is used unless shell is set. When that shell cannot be
// executed inside the service, Enter falls back once to the fallback shell.
func (l *Lifecycle) Enter(ctx context.Context, service string, shell string) error {
	if err := ValidateServiceName(service); err != nil {
		return err
	}

	id, err := l.backend.RunningID(ctx, service)
	if err != nil {
		return err
	}
	if id == "" {
		zlog.Debug("service not running", zap.String("service", service))
		return &ServiceNotRunningError{Service: service}
	}

	if shell == "" {
		shell = l.shell
	}

	fmt.Fprintf(l.out, "Entering shell for service '%s'...\n", service)
	zlog.Info("connecting to service shell",
		zap.String("service", service),
		zap.String("container_id", id),
		zap.String("shell", shell))

	err = l.backend.Exec(ctx, service, shell)
	if err == nil || !isShellUnavailable(err) || l.fallbackShell == "" || l.fallbackShell == shell {
		return err
	}

	zlog.Info("shell unavailable in service, falling back",
		zap.String("service", service),
		zap.String("shell", shell),
		zap.String("fallback_shell", l.fallbackShell),
		zap.Error(err))
	fmt.Fprintf(l.out, "Shell '%s' is not available in service '%s', falling back to '%s'...\n", shell, service, l.fallbackShell)

	return l.backend.Exec(ctx, service, l.fallbackShell)
}

// Stop tears the environment down and removes its containers
func (l *Lifecycle) Stop(ctx context.Context, opts DownOptions) error {
	fmt.Fprintln(l.out, "Stopping and removing services...")

	zlog.Info("stopping services",
		zap.String("backend", string(l.backend.Name())),
		zap.Bool("volumes", opts.Volumes),
		zap.Bool("remove_orphans", opts.RemoveOrphans))

	if err := l.backend.Down(ctx, opts); err != nil {
		return err
	}

	zlog.Info("services stopped")
	return nil
}

// isShellUnavailable reports whether an exec failed because the shell could
// not be executed inside the service, as opposed to the shell session itself
// exiting with an error or the backend binary being missing
func isShellUnavailable(err error) bool {
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) || cmdErr.Err != nil {
		return false
	}
	return cmdErr.Code == ExitCodeNotExecutable || cmdErr.Code == ExitCodeNotFound
}
