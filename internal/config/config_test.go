package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-vcctl/internal/types"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vcctl-config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(New(writeConfig(t, "")))
	require.NoError(t, err)

	assert.Equal(t, types.DefaultDevicePath, cfg.DevicePath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "table", cfg.Output)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
device_path: '\\.\VeraCryptTest'
log_level: debug
output: json
`)
	cfg, err := Load(New(path))
	require.NoError(t, err)

	assert.Equal(t, `\\.\VeraCryptTest`, cfg.DevicePath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.Output)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "output: json\n")
	t.Setenv("VCCTL_OUTPUT", "yaml")
	t.Setenv("VCCTL_LOG_LEVEL", "warn")

	cfg, err := Load(New(path))
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Output)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"missing explicit file", filepath.Join(t.TempDir(), "absent.yaml")},
		{"bad output", writeConfig(t, "output: xml\n")},
		{"empty device path", writeConfig(t, "device_path: ''\n")},
		{"malformed yaml", writeConfig(t, "output: [json\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(New(tt.path))
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	for _, output := range []string{"table", "json", "yaml"} {
		cfg := Config{DevicePath: types.DefaultDevicePath, Output: output}
		assert.NoError(t, cfg.Validate(), output)
	}
}
