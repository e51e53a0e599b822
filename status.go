package devenv

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ServiceStatus is one container of the environment as reported by the
// backend's JSON listing
type ServiceStatus struct {
	ID      string `json:"ID"`
	Name    string `json:"Name"`
	Service string `json:"Service"`
	Image   string `json:"Image"`
	State   string `json:"State"`
	Status  string `json:"Status"`
	Health  string `json:"Health"`
}

// Running reports whether the container is in the running state
func (s ServiceStatus) Running() bool {
	return s.State == "running"
}

// ParseServiceStatuses decodes `compose ps --format json` output. Recent
// compose versions print one JSON object per line, older ones (and podman)
// print a single JSON array.
func ParseServiceStatuses(output []byte) ([]ServiceStatus, error) {
	output = bytes.TrimSpace(output)
	if len(output) == 0 {
		return nil, nil
	}

	if output[0] == '[' {
		var statuses []ServiceStatus
		if err := json.Unmarshal(output, &statuses); err != nil {
			return nil, fmt.Errorf("failed to parse compose ps output: %w", err)
		}
		return statuses, nil
	}

	var statuses []ServiceStatus
	for _, line := range bytes.Split(output, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		var status ServiceStatus
		if err := json.Unmarshal(line, &status); err != nil {
			return nil, fmt.Errorf("failed to parse compose ps output: %w", err)
		}
		statuses = append(statuses, status)
	}

	return statuses, nil
}
