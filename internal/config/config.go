package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the recfetch settings.
type Config struct {
	APIURL    string
	Username  string
	Password  string
	Token     string
	OutputDir string
	LogLevel  string
}

const (
	defaultConfigPath = "~/.config/recfetch/config.toml"
	defaultAPIURL     = "http://127.0.0.1:1080"
	defaultOutputDir  = "~/recordings"
	defaultLogLevel   = "info"
)

// DefaultPath returns the config file used when no path is given.
func DefaultPath() string {
	return defaultConfigPath
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIURL:    defaultAPIURL,
		OutputDir: mustExpand(defaultOutputDir),
		LogLevel:  defaultLogLevel,
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL    string `toml:"api_url"`
		Username  string `toml:"username"`
		Password  string `toml:"password"`
		Token     string `toml:"token"`
		OutputDir string `toml:"output_dir"`
		LogLevel  string `toml:"log_level"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	cfg.Username = strings.TrimSpace(raw.Username)
	// Passwords may legitimately carry surrounding spaces.
	cfg.Password = raw.Password
	cfg.Token = strings.TrimSpace(raw.Token)
	if v := strings.TrimSpace(raw.OutputDir); v != "" {
		cfg.OutputDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}

	return cfg, nil
}

// HasCredentials reports whether a token or a username is configured.
func (c Config) HasCredentials() bool {
	return c.Token != "" || c.Username != ""
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves "~" and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
