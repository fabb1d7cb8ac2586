package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// apiConfig selects the backend the console talks to. Values come from the
// environment (an optional .env file is loaded first).
type apiConfig struct {
	BaseURL string        `env:"OPS_API_BASE_URL" env-default:"http://localhost:8000/api"`
	Timeout time.Duration `env:"OPS_API_TIMEOUT" env-default:"10s"`
}

func loadAPIConfig() (apiConfig, error) {
	_ = godotenv.Load()
	var cfg apiConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, err
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return cfg, nil
}

type uiConfig struct {
	Theme        string `yaml:"theme,omitempty"`
	DefaultOwner string `yaml:"default_owner,omitempty"`
}

func loadUIConfig() (*uiConfig, string) {
	configDir := resolveConfigDir()
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return &uiConfig{}, filepath.Join(configDir, "ui.yaml")
	}
	path := filepath.Join(configDir, "ui.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return &uiConfig{}, path
	}
	var cfg uiConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return &uiConfig{}, path
	}
	return &cfg, path
}

func saveUIConfig(cfg *uiConfig, path string) error {
	if cfg == nil {
		cfg = &uiConfig{}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func resolveConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "ops-console")
}
