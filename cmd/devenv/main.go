package main

import (
	"fmt"
	"io"
	"os"

	. "github.com/streamingfast/cli"
	"github.com/streamingfast/devenv"
	"github.com/streamingfast/logging"
	"go.uber.org/zap"
)

// Version is set via ldflags at build time
var version = "dev"

var zlog, _ = logging.PackageLogger("devenv", "github.com/streamingfast/devenv/cmd/devenv")

func init() {
	logging.InstantiateLoggers(logging.WithDefaultLevel(zap.DPanicLevel))
}

func main() {
	Run(
		"devenv <command>",
		"Start, enter and stop the Docker Compose development environment",

		ConfigureVersion(version),
		ConfigureViper("DEVENV"),

		StartCommand,
		EnterCommand,
		StopCommand,
		StatusCommand,
		ConfigCommand,
		GuideCommand,

		OnCommandError(func(err error) {
			os.Exit(handleCommandError(os.Stderr, err))
		}),
	)
}

// handleCommandError prints the single diagnostic line for err and returns
// the exit code the process must terminate with
func handleCommandError(w io.Writer, err error) int {
	fmt.Fprintf(w, "Error: %s\n", err)
	zlog.Debug("command error", zap.Error(err))
	return devenv.ExitCode(err)
}
