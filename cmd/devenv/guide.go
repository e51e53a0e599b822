package main

import (
	"os"

	"github.com/spf13/cobra"
	. "github.com/streamingfast/cli"
	"github.com/streamingfast/devenv"
)

var GuideCommand = Command(guideE,
	"guide",
	"Show the usage guide",
)

func guideE(cmd *cobra.Command, args []string) error {
	out, err := devenv.RenderGuide(isTerminal(os.Stdout))
	if err != nil {
		return err
	}

	cmd.Print(out)
	return nil
}
