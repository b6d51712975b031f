package cmd

import (
	"fmt"
	"os"
	"strings"

	"narrator-cli/cmd/config"
	"narrator-cli/cmd/utils"
)

// configInputs is everything resolveSessionConfig reads. Empty flag fields
// mean the flag was not given.
type configInputs struct {
	Endpoint   string
	Model      string
	APIKey     string
	ConfigFile string
	SearchDirs []string
	Getenv     func(string) string
}

// resolveSessionConfig applies flag > environment > config file > default,
// validates the result once and reports which file, if any, contributed.
func resolveSessionConfig(in configInputs) (SessionConfig, string, error) {
	getenv := in.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	file, source, err := loadFileConfig(in)
	if err != nil {
		return SessionConfig{}, source, err
	}

	cfg := SessionConfig{
		Endpoint: firstNonEmpty(in.Endpoint, getenv("MRM_ENDPOINT"), file.Endpoint, defaultEndpoint),
		Model:    firstNonEmpty(in.Model, getenv("MRM_MODEL"), file.Model, defaultModel),
		APIKey:   firstNonEmpty(in.APIKey, getenv("MRM_API_KEY"), file.APIKey),
	}

	// model always falls back to a non-empty default; only the URL can be wrong
	if err := utils.ValidateEndpoint(cfg.Endpoint); err != nil {
		return SessionConfig{}, source, err
	}
	return cfg, source, nil
}

func loadFileConfig(in configInputs) (*config.FileConfig, string, error) {
	if in.ConfigFile != "" {
		cfg, err := config.LoadConfigFile(in.ConfigFile)
		if err != nil {
			return nil, in.ConfigFile, err
		}
		return cfg, in.ConfigFile, nil
	}

	dirs := in.SearchDirs
	if dirs == nil {
		dirs = defaultSearchDirs()
	}
	cfg, path, err := config.LoadConfig(dirs...)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

func defaultSearchDirs() []string {
	dirs := []string{utils.GetEffectiveCWD()}
	if dir, err := utils.GetConfigDir(); err == nil {
		dirs = append(dirs, dir)
	} else {
		utils.LogDebug(fmt.Sprintf("skipping user config dir: %v", err))
	}
	return dirs
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
