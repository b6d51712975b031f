package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OverrideCwd is set by the global --cwd flag.
var OverrideCwd string

// GetEffectiveCWD returns the absolute --cwd override when one is set, and
// the process working directory otherwise.
func GetEffectiveCWD() string {
	if strings.TrimSpace(OverrideCwd) != "" {
		if filepath.IsAbs(OverrideCwd) {
			return OverrideCwd
		}
		abs, err := filepath.Abs(OverrideCwd)
		if err != nil {
			return "."
		}
		return abs
	}

	wd, _ := os.Getwd()
	if wd == "" {
		return "."
	}
	return wd
}

// GetConfigDir returns $XDG_CONFIG_HOME/mrm, falling back to ~/.config/mrm.
func GetConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mrm"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getConfigDir: could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "mrm"), nil
}
