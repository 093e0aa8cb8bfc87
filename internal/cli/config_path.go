package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lingoquiz/internal/config"
)

// resolveConfigPath normalizes a config path, falls back to LINGOQUIZ_CONFIG, or searches from CWD.
func resolveConfigPath(configPath string) (string, error) {
	if strings.TrimSpace(configPath) == "" {
		configPath = os.Getenv(config.EnvConfig)
	}
	if strings.TrimSpace(configPath) == "" {
		return config.FindConfigPath("")
	}
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return abs, nil
}
