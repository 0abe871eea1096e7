// Package config manages the installer's configuration directory.
//
// The directory holds two operator-editable files:
//
//   - profile.yaml: the installation profile (see package profile)
//   - packages: the package list, one package name per line
//
// and, unless overridden, the run's message log (autoinstall.log).
//
// # Directory Location
//
//   - $XDG_CONFIG_HOME/autoinstall when XDG_CONFIG_HOME is set
//   - $HOME/.config/autoinstall otherwise
//
// # Usage Example
//
//	paths, err := config.PathsFor(dir)
//	if err := config.GenerateDefaults(paths, log); err != nil {
//	    return err
//	}
//
//	packages, err := config.LoadPackages(paths.Packages)
//	p, err := config.LoadProfile(log, paths.Profile)
//
// # Security
//
// profile.yaml contains the root and user passwords in clear text. Files are
// written with user-only permissions (0600) inside a 0700 directory.
//
// # Atomic Writes
//
// Every write goes to a temporary file first and is renamed into place, so an
// interrupted run never leaves a truncated profile behind.
package config
