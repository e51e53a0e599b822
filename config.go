package devenv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kaptinlin/jsonmerge"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ConfigDirEnvVar overrides the directory holding the global configuration
const ConfigDirEnvVar = "DEVENV_CONFIG_DIR"

// ProjectFileName is the per-project configuration file, looked up from the
// workspace directory towards the filesystem root
const ProjectFileName = ".devenv.yaml"

// Config holds devenv settings, from the global configuration file merged
// with the project file
type Config struct {
	// Backend selects the compose implementation: "docker", "podman" or "docker-compose"
	Backend string `yaml:"backend,omitempty"`

	// Command overrides the backend command line prefix, e.g. ["docker", "compose"]
	Command []string `yaml:"command,omitempty"`

	// ComposeFiles are passed to the backend with -f, in order
	// Relative paths in the project file are relative to the project file location
	ComposeFiles []string `yaml:"compose_files,omitempty"`

	// ProjectName is passed to the backend with -p
	ProjectName string `yaml:"project_name,omitempty"`

	// ProjectDirectory is passed to the backend with --project-directory
	ProjectDirectory string `yaml:"project_directory,omitempty"`

	// DefaultService is the service entered when --service is not given
	DefaultService string `yaml:"default_service"`

	// Shell is the preferred interactive shell inside services
	Shell string `yaml:"shell"`

	// FallbackShell is tried once when Shell cannot be executed, empty disables the fallback
	FallbackShell string `yaml:"fallback_shell"`
}

// ProjectFile is a loaded project configuration file
type ProjectFile struct {
	// Path is the absolute path to the file
	Path string

	// Dir is the directory containing the file
	Dir string

	// Document is the parsed file content, relative paths already resolved
	Document map[string]any
}

// DefaultConfig returns the settings used when nothing is configured
func DefaultConfig() *Config {
	return &Config{
		Backend:        string(DefaultBackend),
		DefaultService: "ai",
		Shell:          "bash",
		FallbackShell:  "sh",
	}
}

// Validate checks the configuration is usable
func (c *Config) Validate() error {
	if err := ValidateBackend(c.Backend); err != nil {
		return err
	}
	if err := ValidateServiceName(c.DefaultService); err != nil {
		return fmt.Errorf("invalid default_service: %w", err)
	}
	if c.Shell == "" {
		return errors.New("shell must not be empty")
	}
	for _, arg := range c.Command {
		if arg == "" {
			return errors.New("command must not contain empty arguments")
		}
	}
	return nil
}

// ConfigDir returns the directory holding the global configuration:
// $DEVENV_CONFIG_DIR when set, ~/.config/devenv otherwise
func ConfigDir() (string, error) {
	if dir := os.Getenv(ConfigDirEnvVar); dir != "" {
		return expandPath(dir), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "devenv"), nil
}

// ConfigPath returns the path of the global configuration file
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadConfig loads the global configuration only, returning defaults when
// the file doesn't exist
func LoadConfig() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	doc, err := readDocument(configPath)
	if err != nil {
		return nil, err
	}

	config, err := decodeConfig(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	zlog.Debug("loaded global config",
		zap.String("config_path", configPath),
		zap.Bool("exists", doc != nil))

	return config, nil
}

// SaveConfig saves the global configuration, creating its directory if needed
func SaveConfig(config *Config) error {
	configDir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	zlog.Debug("saved config", zap.String("config_path", configPath))
	return nil
}

// LoadWorkspaceConfig loads the global configuration and merges the project
// file found from workspaceDir over it. The project file is applied as a
// JSON merge patch: its keys override global ones and a null value resets a
// key to its default. The returned project file is nil when none was found.
func LoadWorkspaceConfig(workspaceDir string) (*Config, *ProjectFile, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, nil, err
	}

	globalDoc, err := readDocument(configPath)
	if err != nil {
		return nil, nil, err
	}

	projectFile, err := FindProjectFile(workspaceDir)
	if err != nil {
		return nil, nil, err
	}

	var projectDoc map[string]any
	if projectFile != nil {
		projectDoc = projectFile.Document
	}

	merged, err := MergeConfigDocuments(globalDoc, projectDoc)
	if err != nil {
		return nil, nil, err
	}

	config, err := decodeConfig(merged)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode merged config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	zlog.Debug("loaded workspace config",
		zap.String("workspace", workspaceDir),
		zap.String("backend", config.Backend),
		zap.Strings("compose_files", config.ComposeFiles),
		zap.String("default_service", config.DefaultService))

	return config, projectFile, nil
}

// MergeConfigDocuments applies the project document over the global one as
// an RFC 7386 merge patch
func MergeConfigDocuments(global, project map[string]any) (map[string]any, error) {
	if global == nil {
		global = map[string]any{}
	}
	if len(project) == 0 {
		return global, nil
	}

	result, err := jsonmerge.Merge(global, project)
	if err != nil {
		return nil, fmt.Errorf("failed to merge project config: %w", err)
	}
	return result.Doc, nil
}

// FindProjectFile searches for a project file starting from the given
// directory and walking up the directory tree. Returns nil if none is found.
func FindProjectFile(startDir string) (*ProjectFile, error) {
	absPath, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	currentDir := absPath
	for {
		projectPath := filepath.Join(currentDir, ProjectFileName)
		if _, err := os.Stat(projectPath); err == nil {
			doc, err := readDocument(projectPath)
			if err != nil {
				return nil, err
			}
			if doc == nil {
				doc = map[string]any{}
			}

			if err := resolveDocumentPaths(doc, currentDir); err != nil {
				return nil, fmt.Errorf("invalid project file %s: %w", projectPath, err)
			}

			zlog.Debug("found project file", zap.String("path", projectPath))

			return &ProjectFile{
				Path:     projectPath,
				Dir:      currentDir,
				Document: doc,
			}, nil
		}

		// Move to parent directory
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	zlog.Debug("no project file found", zap.String("start_dir", absPath))
	return nil, nil
}

// ResolvePath resolves a path from a project file. Paths starting with ~ are
// expanded to the user's home directory, relative paths are joined to baseDir.
func ResolvePath(path, baseDir string) (string, error) {
	if strings.HasPrefix(path, "~/") || path == "~" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		if path == "~" {
			return homeDir, nil
		}
		return filepath.Join(homeDir, path[2:]), nil
	}

	if filepath.IsAbs(path) {
		return path, nil
	}
	return filepath.Join(baseDir, path), nil
}

// resolveDocumentPaths rewrites compose_files and project_directory entries
// of a project document relative to its directory
func resolveDocumentPaths(doc map[string]any, baseDir string) error {
	if files, ok := doc["compose_files"]; ok && files != nil {
		list, ok := files.([]any)
		if !ok {
			return errors.New("compose_files must be a list")
		}

		resolved := make([]any, 0, len(list))
		for _, entry := range list {
			file, ok := entry.(string)
			if !ok {
				return fmt.Errorf("compose_files entry %v is not a string", entry)
			}
			path, err := ResolvePath(file, baseDir)
			if err != nil {
				return err
			}
			resolved = append(resolved, path)
		}
		doc["compose_files"] = resolved
	}

	if dir, ok := doc["project_directory"]; ok && dir != nil {
		value, ok := dir.(string)
		if !ok {
			return errors.New("project_directory must be a string")
		}
		path, err := ResolvePath(value, baseDir)
		if err != nil {
			return err
		}
		doc["project_directory"] = path
	}

	return nil
}

// readDocument reads a YAML file into a generic document, nil when the file
// doesn't exist
func readDocument(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc, nil
}

// decodeConfig decodes a document over the default configuration
func decodeConfig(doc map[string]any) (*Config, error) {
	config := DefaultConfig()
	if len(doc) == 0 {
		return config, nil
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}
	return config, nil
}

// expandPath expands ~ to home directory and makes path absolute
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(homeDir, path[1:])
		}
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

// SettableKeys are the configuration keys that can be changed with Set
var SettableKeys = []string{"backend", "default_service", "shell", "fallback_shell", "project_name"}

// Get returns the display value of a configuration key
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "backend":
		return c.Backend, nil
	case "command":
		return FormatCommand(c.Command), nil
	case "compose_files":
		return fmt.Sprintf("%v", c.ComposeFiles), nil
	case "project_name":
		return c.ProjectName, nil
	case "project_directory":
		return c.ProjectDirectory, nil
	case "default_service":
		return c.DefaultService, nil
	case "shell":
		return c.Shell, nil
	case "fallback_shell":
		return c.FallbackShell, nil
	default:
		return "", fmt.Errorf("unknown config key: %s", key)
	}
}

// Set changes a configuration key, validating the new value
func (c *Config) Set(key, value string) error {
	switch key {
	case "backend":
		if err := ValidateBackend(value); err != nil {
			return err
		}
		c.Backend = value
	case "default_service":
		if err := ValidateServiceName(value); err != nil {
			return err
		}
		c.DefaultService = value
	case "shell":
		if value == "" {
			return errors.New("shell must not be empty")
		}
		c.Shell = value
	case "fallback_shell":
		c.FallbackShell = value
	case "project_name":
		c.ProjectName = value
	default:
		return fmt.Errorf("cannot set config key: %s (read-only or unknown, settable keys: %s)", key, strings.Join(SettableKeys, ", "))
	}
	return nil
}
