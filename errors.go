package devenv

import (
	"errors"
	"fmt"
	"strings"
)

// ExitCodeNotExecutable and ExitCodeNotFound are the codes the compose CLI
// (and POSIX shells) report when the command inside a service cannot be
// executed or does not exist.
const (
	ExitCodeNotExecutable = 126
	ExitCodeNotFound      = 127
)

// CommandError is returned when a backend invocation fails. It carries the
// child's own exit code so the process can exit with it.
type CommandError struct {
	Args []string
	Code int
	Err  error
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("command failed: %s: %s", FormatCommand(e.Args), e.Err)
	}
	return fmt.Sprintf("command failed: %s (exit code %d)", FormatCommand(e.Args), e.Code)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExitCode returns the code the process should exit with
func (e *CommandError) ExitCode() int {
	return e.Code
}

// ServiceNotRunningError is returned by Enter when the target service has no
// running container.
type ServiceNotRunningError struct {
	Service string
}

func (e *ServiceNotRunningError) Error() string {
	return fmt.Sprintf("service %q is not running, start it first with 'devenv start'", e.Service)
}

func (e *ServiceNotRunningError) ExitCode() int {
	return 1
}

// ExitCode maps an error to a process exit code: 0 for nil, the code carried
// by any error in the chain exposing ExitCode() int, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var coded interface{ ExitCode() int }
	if errors.As(err, &coded) {
		if code := coded.ExitCode(); code != 0 {
			return code
		}
	}
	return 1
}

// FormatCommand renders a command line for display, quoting arguments that
// contain whitespace.
func FormatCommand(args []string) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		if arg == "" || strings.ContainsAny(arg, " \t\n") {
			arg = fmt.Sprintf("%q", arg)
		}
		parts = append(parts, arg)
	}
	return strings.Join(parts, " ")
}
