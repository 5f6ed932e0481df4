package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the application configuration
type Config struct {
	Server ServerConfig `json:"server"`
	UI     UIConfig     `json:"ui"`
	Data   DataConfig   `json:"data"`
}

// ServerConfig represents the backend connection configuration
type ServerConfig struct {
	BaseURL string `json:"base_url"`
	// TimeoutSeconds bounds each request; 0 means no timeout.
	TimeoutSeconds int `json:"timeout_seconds"`
}

// UIConfig represents UI configuration
type UIConfig struct {
	Theme        string `json:"theme"`
	FontSize     int    `json:"font_size"`
	WindowWidth  int    `json:"window_width"`
	WindowHeight int    `json:"window_height"`
}

// DataConfig represents local data storage configuration
type DataConfig struct {
	DBPath string `json:"db_path"`
}

// LoadConfig loads configuration from file
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if config.Server.BaseURL == "" {
		config.Server.BaseURL = DefaultServerURL
	}
	if config.Data.DBPath != "" {
		config.Data.DBPath = expandPath(config.Data.DBPath)
	}

	return &config, nil
}

// SaveConfig saves configuration to file
func SaveConfig(configPath string, config *Config) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultServerURL is used when no server address is configured.
const DefaultServerURL = "http://localhost:8000"

// expandPath expands ~ and relative paths
func expandPath(path string) string {
	if len(path) == 0 {
		return path
	}

	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[1:])
		}
	}

	absPath, err := filepath.Abs(path)
	if err == nil {
		return absPath
	}

	return path
}

// GetConfigPath returns the default config path
func GetConfigPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "./config/default.json"
	}

	return filepath.Join(configDir, "research-pilot-client", "config.json")
}

// DefaultConfig returns the configuration used for fresh installs.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL:        DefaultServerURL,
			TimeoutSeconds: 0,
		},
		UI: UIConfig{
			Theme:        "dark",
			FontSize:     14,
			WindowWidth:  1200,
			WindowHeight: 800,
		},
		Data: DataConfig{
			DBPath: "./data/session.db",
		},
	}
}

// EnsureDefaultConfig creates a default config file if it doesn't exist
func EnsureDefaultConfig() (string, error) {
	configPath := GetConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		return configPath, nil
	}

	if err := SaveConfig(configPath, DefaultConfig()); err != nil {
		return "", err
	}

	return configPath, nil
}
