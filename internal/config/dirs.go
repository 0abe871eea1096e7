package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	appName         = "autoinstall"
	profileFileName = "profile.yaml"
	packagesName    = "packages"
	logFileName     = "autoinstall.log"
)

// Paths locates every file the installer reads or writes.
type Paths struct {
	Dir      string // Configuration directory
	Profile  string // Installation profile document
	Packages string // Package list
	LogFile  string // Message log mirror
}

// GetConfigDir returns the default configuration directory:
// $XDG_CONFIG_HOME/autoinstall or $HOME/.config/autoinstall.
func GetConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, appName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", appName), nil
}

// PathsFor returns the file layout inside dir. An empty dir selects the
// default configuration directory.
func PathsFor(dir string) (Paths, error) {
	if dir == "" {
		var err error
		dir, err = GetConfigDir()
		if err != nil {
			return Paths{}, err
		}
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return Paths{}, fmt.Errorf("failed to resolve configuration directory: %w", err)
	}

	return Paths{
		Dir:      abs,
		Profile:  filepath.Join(abs, profileFileName),
		Packages: filepath.Join(abs, packagesName),
		LogFile:  filepath.Join(abs, logFileName),
	}, nil
}

// EnsureDir creates the configuration directory with user-only permissions.
func (p Paths) EnsureDir() error {
	if err := os.MkdirAll(p.Dir, 0700); err != nil {
		return fmt.Errorf("failed to create configuration directory: %w", err)
	}
	return nil
}
