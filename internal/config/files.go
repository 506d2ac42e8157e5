package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const AppName = "tabula"

var (
	// AppConfigDir is ~/.config/tabula
	AppConfigDir string

	// AppStateDir is ~/.local/state/tabula
	AppStateDir string

	// AppConfigFile is ~/.config/tabula/tabula.yaml
	AppConfigFile string

	// AppHotkeysFile is ~/.config/tabula/hotkeys.yaml
	AppHotkeysFile string

	// AppAliasesFile is ~/.config/tabula/aliases.yaml
	AppAliasesFile string

	// AppLogFile is ~/.local/state/tabula/tabula.log
	AppLogFile string
)

// InitLocs initializes all application directory paths.
// It respects XDG environment variables if set.
func InitLocs() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to resolve home directory: %w", err)
	}

	// Determine base directories respecting XDG standards
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(home, ".config")
	}

	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		stateHome = filepath.Join(home, ".local", "state")
	}

	AppConfigDir = filepath.Join(configHome, AppName)
	AppStateDir = filepath.Join(stateHome, AppName)

	AppConfigFile = filepath.Join(AppConfigDir, AppName+".yaml")
	AppHotkeysFile = filepath.Join(AppConfigDir, "hotkeys.yaml")
	AppAliasesFile = filepath.Join(AppConfigDir, "aliases.yaml")
	AppLogFile = filepath.Join(AppStateDir, AppName+".log")

	for _, dir := range []string{AppConfigDir, AppStateDir} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}

	return nil
}

// InitLogLoc ensures the log directory exists
func InitLogLoc() error {
	logDir := filepath.Dir(AppLogFile)
	return os.MkdirAll(logDir, 0700)
}
