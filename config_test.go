package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAPIConfigDefaults(t *testing.T) {
	t.Setenv("OPS_API_BASE_URL", "")
	t.Setenv("OPS_API_TIMEOUT", "")
	os.Unsetenv("OPS_API_BASE_URL")
	os.Unsetenv("OPS_API_TIMEOUT")

	cfg, err := loadAPIConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/api", cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
}

func TestLoadAPIConfigTrimsTrailingSlash(t *testing.T) {
	t.Setenv("OPS_API_BASE_URL", "https://ops.example.com/api/")
	t.Setenv("OPS_API_TIMEOUT", "3s")

	cfg, err := loadAPIConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://ops.example.com/api", cfg.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
}

func TestUIConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ui.yaml")
	cfg := &uiConfig{Theme: "dark", DefaultOwner: "Roberta Ops"}
	require.NoError(t, saveUIConfig(cfg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "theme: dark")
	assert.Contains(t, string(data), "default_owner: Roberta Ops")
}
