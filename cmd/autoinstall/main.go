// Autoinstall prepares an unattended installation of MOOS on a local disk.
//
// It loads the installation profile and package list from the
// configuration directory, picks a target device, and lets the operator
// review and change every setting in an interactive terminal window before
// the installation begins.
//
// Usage:
//
//	autoinstall [command] [flags]
//
// Running without arguments loads the profile and opens the editor.
// See 'autoinstall --help' for available commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/autoinstall/internal/terminal"
	"github.com/muurk/autoinstall/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, context.Canceled) || errors.Is(err, terminal.ErrInterrupted) {
			os.Exit(130)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "autoinstall",
	Short: "MOOS installation profile editor",
	Long: `Prepare an unattended MOOS installation.

Loads the installation profile and package list from the configuration
directory, selects a target device, and opens an interactive editor to
review every setting before installation begins.

Every flag can also be set through an AUTOINSTALL_* environment variable,
for example AUTOINSTALL_CONF_DIR or AUTOINSTALL_NON_INTERACTIVE.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runProfile,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("autoinstall %s\n", version.Full())
	},
}
