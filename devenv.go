// Package devenv drives a Docker Compose development environment: it brings
// services up, opens an interactive shell inside a running service and tears
// everything down again, all by shelling out to the compose CLI.
package devenv

import (
	"github.com/streamingfast/logging"
)

var zlog, _ = logging.PackageLogger("devenv", "github.com/streamingfast/devenv")
