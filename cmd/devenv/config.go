package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	. "github.com/streamingfast/cli"
	"github.com/streamingfast/devenv"
)

var ConfigCommand = Command(configE,
	"config [key] [value]",
	"View or edit configuration settings",
	Description(`
		Without arguments, displays the effective configuration for the
		current directory (global settings merged with .devenv.yaml).
		With a key, displays that setting's value.
		With key and value, sets the option in the global configuration.
	`),
	Flags(func(flags *pflag.FlagSet) {
		flags.StringP("workspace", "w", "", "Workspace directory (default: current directory)")
	}),
)

var displayedKeys = []string{"backend", "command", "compose_files", "project_name", "project_directory", "default_service", "shell", "fallback_shell"}

// configE views or edits configuration
func configE(cmd *cobra.Command, args []string) error {
	if len(args) > 2 {
		return fmt.Errorf("expected at most 2 arguments, got %d", len(args))
	}
	if len(args) == 2 {
		return configSet(cmd, args[0], args[1])
	}

	workspaceDir, err := getWorkspaceDir(cmd)
	if err != nil {
		return err
	}

	config, projectFile, err := devenv.LoadWorkspaceConfig(workspaceDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if len(args) == 1 {
		value, err := config.Get(args[0])
		if err != nil {
			return err
		}
		cmd.Println(value)
		return nil
	}

	configPath, err := devenv.ConfigPath()
	if err != nil {
		return err
	}

	cmd.Printf("Global config:  %s\n", configPath)
	if projectFile != nil {
		cmd.Printf("Project file:   %s\n", projectFile.Path)
	}
	cmd.Println()
	for _, key := range displayedKeys {
		value, _ := config.Get(key)
		cmd.Printf("  %s: %s\n", key, value)
	}
	return nil
}

// configSet changes a key in the global configuration
func configSet(cmd *cobra.Command, key, value string) error {
	config, err := devenv.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := config.Set(key, value); err != nil {
		return err
	}

	if err := devenv.SaveConfig(config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}
