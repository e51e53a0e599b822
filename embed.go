package devenv

import (
	_ "embed"
	"fmt"

	"charm.land/glamour/v2"
)

// GuideMD is the usage guide shown by `devenv guide`.
//
//go:embed embedded/guide.md
var GuideMD string

// RenderGuide renders the usage guide for a terminal. With styled false the
// markdown is rendered without colors, for pipes and dumb terminals.
func RenderGuide(styled bool) (string, error) {
	style := "notty"
	if styled {
		style = "dark"
	}

	out, err := glamour.Render(GuideMD, style)
	if err != nil {
		return "", fmt.Errorf("failed to render guide: %w", err)
	}
	return out, nil
}
