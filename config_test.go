package devenv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupConfigDir points the global configuration at a fresh directory and
// returns it
func setupConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(ConfigDirEnvVar, dir)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadConfig_Defaults(t *testing.T) {
	setupConfigDir(t)

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "docker", config.Backend)
	assert.Equal(t, "ai", config.DefaultService)
	assert.Equal(t, "bash", config.Shell)
	assert.Equal(t, "sh", config.FallbackShell)
	assert.Empty(t, config.ComposeFiles)
	assert.NoError(t, config.Validate())
}

func TestConfigDir_HomeFallback(t *testing.T) {
	home := t.TempDir()
	t.Setenv(ConfigDirEnvVar, "")
	t.Setenv("HOME", home)

	dir, err := ConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "devenv"), dir)
}

func TestSaveAndLoadConfig(t *testing.T) {
	configDir := setupConfigDir(t)

	config, err := LoadConfig()
	require.NoError(t, err)
	require.NoError(t, config.Set("backend", "podman"))
	require.NoError(t, config.Set("default_service", "trainer"))
	require.NoError(t, SaveConfig(config))

	assert.FileExists(t, filepath.Join(configDir, "config.yaml"))

	loaded, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "podman", loaded.Backend)
	assert.Equal(t, "trainer", loaded.DefaultService)
	assert.Equal(t, "bash", loaded.Shell)
}

func TestConfigSet_Invalid(t *testing.T) {
	config := DefaultConfig()

	assert.Error(t, config.Set("backend", "kubernetes"))
	assert.Error(t, config.Set("default_service", ""))
	assert.Error(t, config.Set("shell", ""))
	assert.Error(t, config.Set("compose_files", "x.yaml"))
	assert.Error(t, config.Set("unknown", "x"))

	// Disabling the fallback is allowed
	assert.NoError(t, config.Set("fallback_shell", ""))
	assert.Equal(t, "", config.FallbackShell)
}

func TestConfigGet(t *testing.T) {
	config := DefaultConfig()
	config.Command = []string{"docker", "compose"}

	value, err := config.Get("default_service")
	require.NoError(t, err)
	assert.Equal(t, "ai", value)

	value, err = config.Get("command")
	require.NoError(t, err)
	assert.Equal(t, "docker compose", value)

	_, err = config.Get("nope")
	assert.Error(t, err)
}

func TestFindProjectFile(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "pkg")
	require.NoError(t, os.MkdirAll(nested, 0755))

	projectFile, err := FindProjectFile(nested)
	require.NoError(t, err)
	assert.Nil(t, projectFile)

	writeFile(t, filepath.Join(root, ProjectFileName), `
compose_files:
  - docker/compose.yaml
  - /abs/compose.override.yaml
project_directory: .
`)

	projectFile, err = FindProjectFile(nested)
	require.NoError(t, err)
	require.NotNil(t, projectFile)
	assert.Equal(t, filepath.Join(root, ProjectFileName), projectFile.Path)
	assert.Equal(t, root, projectFile.Dir)
	assert.Equal(t, []any{filepath.Join(root, "docker", "compose.yaml"), "/abs/compose.override.yaml"}, projectFile.Document["compose_files"])
	assert.Equal(t, root, projectFile.Document["project_directory"])
}

func TestFindProjectFile_Invalid(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ProjectFileName), "compose_files: compose.yaml\n")

	_, err := FindProjectFile(root)
	assert.Error(t, err)

	writeFile(t, filepath.Join(root, ProjectFileName), "compose_files: [\n")
	_, err = FindProjectFile(root)
	assert.Error(t, err)
}

func TestLoadWorkspaceConfig_Merge(t *testing.T) {
	configDir := setupConfigDir(t)
	writeFile(t, filepath.Join(configDir, "config.yaml"), `
backend: podman
shell: zsh
default_service: global
project_name: from-global
`)

	workspace := t.TempDir()
	writeFile(t, filepath.Join(workspace, ProjectFileName), `
backend: docker
default_service: trainer
compose_files:
  - compose.yaml
shell: null
`)

	config, projectFile, err := LoadWorkspaceConfig(workspace)
	require.NoError(t, err)
	require.NotNil(t, projectFile)

	// Project keys override global ones
	assert.Equal(t, "docker", config.Backend)
	assert.Equal(t, "trainer", config.DefaultService)
	// Global keys not in the project file are kept
	assert.Equal(t, "from-global", config.ProjectName)
	// null resets to the default
	assert.Equal(t, "bash", config.Shell)
	assert.Equal(t, []string{filepath.Join(workspace, "compose.yaml")}, config.ComposeFiles)
}

func TestLoadWorkspaceConfig_NoFiles(t *testing.T) {
	setupConfigDir(t)

	config, projectFile, err := LoadWorkspaceConfig(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, projectFile)
	assert.Equal(t, DefaultConfig(), config)
}

func TestLoadWorkspaceConfig_Invalid(t *testing.T) {
	setupConfigDir(t)

	workspace := t.TempDir()
	writeFile(t, filepath.Join(workspace, ProjectFileName), "backend: kubernetes\n")

	_, _, err := LoadWorkspaceConfig(workspace)
	assert.Error(t, err)

	writeFile(t, filepath.Join(workspace, ProjectFileName), "default_service: \"\"\n")
	_, _, err = LoadWorkspaceConfig(workspace)
	assert.Error(t, err)
}

func TestMergeConfigDocuments(t *testing.T) {
	merged, err := MergeConfigDocuments(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, merged)

	merged, err = MergeConfigDocuments(
		map[string]any{"backend": "podman", "shell": "zsh"},
		map[string]any{"shell": nil, "project_name": "p"},
	)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"backend": "podman", "project_name": "p"}, merged)
}

func TestResolvePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		path string
		want string
	}{
		{path: "compose.yaml", want: "/base/compose.yaml"},
		{path: "./docker/compose.yaml", want: "/base/docker/compose.yaml"},
		{path: "../compose.yaml", want: "/compose.yaml"},
		{path: "/abs/compose.yaml", want: "/abs/compose.yaml"},
		{path: "~/compose.yaml", want: filepath.Join(home, "compose.yaml")},
		{path: "~", want: home},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := ResolvePath(tt.path, "/base")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
