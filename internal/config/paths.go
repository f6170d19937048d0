package config

import (
	"os"
	"path/filepath"
)

// HomePath returns the root directory for n8nchat files.
// It uses $N8NCHAT_PATH if set, otherwise ~/.n8nchat.
func HomePath() string {
	if v := os.Getenv("N8NCHAT_PATH"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".n8nchat")
	}
	return filepath.Join(home, ".n8nchat")
}

// ConfigPath returns the default config file path.
func ConfigPath() string {
	return filepath.Join(HomePath(), "config.jsonc")
}

// DotenvPath returns the .env file path.
func DotenvPath() string {
	return filepath.Join(HomePath(), ".env")
}

// LogPath returns the log file used while the TUI owns the terminal.
func LogPath() string {
	return filepath.Join(HomePath(), "n8nchat.log")
}

// ResolveConfigPath returns explicit when set. Otherwise it picks the first
// of config.jsonc, config.yaml, config.yml that exists under HomePath,
// falling back to config.jsonc.
func ResolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"config.jsonc", "config.yaml", "config.yml"} {
		p := filepath.Join(HomePath(), name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ConfigPath()
}
