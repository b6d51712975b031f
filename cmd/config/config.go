package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	yaml "gopkg.in/yaml.v2"
)

// ErrNoConfigFile is returned by FindConfigFile when no directory holds one.
var ErrNoConfigFile = errors.New("no mrm config file (yaml/toml/json) found")

// LoadConfigFile reads and parses one config file, picking the decoder from
// the extension.
func LoadConfigFile(filePath string) (*FileConfig, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filePath, err)
	}

	var cfg FileConfig
	switch ext := strings.ToLower(filepath.Ext(filePath)); ext {
	case ".yaml", ".yml":
		if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config file %s: %w", filePath, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config file %s: %w", filePath, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config file %s: %w", filePath, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file extension: %s", ext)
	}

	return &cfg, nil
}

// FindConfigFile returns the first supported config file found, trying each
// directory in turn. Empty directories are skipped.
func FindConfigFile(searchPaths ...string) (string, error) {
	for _, dir := range searchPaths {
		if dir == "" {
			continue
		}
		for _, name := range SupportedConfigFiles {
			fullPath := filepath.Join(dir, name)
			if info, err := os.Stat(fullPath); err == nil && !info.IsDir() {
				return fullPath, nil
			}
		}
	}
	return "", ErrNoConfigFile
}

// LoadConfig loads the first config file in searchPaths. Having no file at
// all is not an error and yields an empty config and an empty path.
func LoadConfig(searchPaths ...string) (*FileConfig, string, error) {
	path, err := FindConfigFile(searchPaths...)
	if errors.Is(err, ErrNoConfigFile) {
		return &FileConfig{}, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	cfg, err := LoadConfigFile(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}
