package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const dropFile = "drop.yaml"

// LoadDrop loads the drop configuration.
// Search order: customPath -> ~/.bounce/configs/drop.yaml -> ./configs/drop.yaml -> embedded default
// Files are decoded over the defaults, so a file only needs the keys it changes.
func LoadDrop(customPath string) (DropConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DropConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := ParseDrop(data)
		if err != nil {
			return DropConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(dropFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := ParseDrop(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", dropFile)); err == nil {
		if cfg, err := ParseDrop(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := ParseDrop(defaultDropYAML)
	if err != nil {
		return DefaultDropConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// ParseDrop decodes a YAML document over the default configuration.
func ParseDrop(data []byte) (DropConfig, error) {
	cfg := DefaultDropConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DropConfig{}, err
	}
	return cfg, nil
}

// MarshalDrop encodes a configuration as YAML.
func MarshalDrop(cfg DropConfig) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".bounce", "configs", filename)
}
