package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/muurk/autoinstall/internal/config"
	"github.com/muurk/autoinstall/internal/logging"
	"github.com/muurk/autoinstall/internal/messages"
	"github.com/muurk/autoinstall/internal/profile"
	"github.com/muurk/autoinstall/internal/system"
	"github.com/muurk/autoinstall/internal/terminal"
	"github.com/muurk/autoinstall/internal/ui"
	"github.com/muurk/autoinstall/internal/wizard"
)

// Flag names, also used as viper keys
const (
	flagConfDir        = "conf-dir"
	flagLogFile        = "log-file"
	flagNonInteractive = "non-interactive"
	flagThreshold      = "threshold"
	flagLogLevel       = "log-level"
	flagOutput         = "output"
	flagShowPasswords  = "show-passwords"
	flagGenerateConf   = "generate-conf"
)

var settings = viper.New()

var generateConfCmd = &cobra.Command{
	Use:   "generate-conf",
	Short: "Write the default package list and profile",
	Long: `Write the default package list and installation profile into the
configuration directory.

Existing files are never overwritten.`,
	RunE: runGenerateConf,
}

func init() {
	cobra.OnInitialize(initSettings)

	flags := rootCmd.PersistentFlags()
	flags.StringP(flagConfDir, "c", "", "configuration directory (default $XDG_CONFIG_HOME/autoinstall)")
	flags.StringP(flagLogFile, "l", "", "message log file (default <conf-dir>/autoinstall.log)")
	flags.String(flagThreshold, messages.LevelVerbose.String(), "lowest message level shown (normal, success, error, warning, info, verbose)")
	flags.String(flagLogLevel, "", "diagnostic log level (debug, info, warn, error)")

	rootCmd.Flags().BoolP(flagNonInteractive, "n", false, "skip the interactive editor")
	rootCmd.Flags().StringP(flagOutput, "o", "", "write the confirmed profile to this file")
	rootCmd.Flags().Bool(flagShowPasswords, false, "show passwords in the final summary")
	rootCmd.Flags().BoolP(flagGenerateConf, "g", false, "write default configuration files and exit")

	_ = settings.BindPFlags(rootCmd.PersistentFlags())
	_ = settings.BindPFlags(rootCmd.Flags())

	rootCmd.AddCommand(generateConfCmd)
}

func initSettings() {
	settings.SetEnvPrefix("AUTOINSTALL")
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()
}

// environment holds what every command needs after flag resolution.
type environment struct {
	paths  config.Paths
	log    *messages.Log
	logger *zap.Logger
	out    *ui.Printer
	errOut *ui.Printer
}

// editorSource lists the devices and time zones offered by the editor.
type editorSource interface {
	wizard.DeviceSource
	wizard.TimeZoneSource
}

func setup() (*environment, error) {
	if err := logging.Initialize(settings.GetString(flagLogLevel)); err != nil {
		return nil, err
	}
	logger := logging.Named("autoinstall")

	threshold, err := messages.ParseLevel(settings.GetString(flagThreshold))
	if err != nil {
		return nil, err
	}

	paths, err := config.PathsFor(settings.GetString(flagConfDir))
	if err != nil {
		return nil, err
	}

	log := messages.New(threshold)
	logFile := settings.GetString(flagLogFile)
	if logFile == "" {
		if err := paths.EnsureDir(); err != nil {
			return nil, err
		}
		logFile = paths.LogFile
	}
	if err := log.AttachFile(logFile); err != nil {
		log.FlushToPlainOutput()
		return nil, err
	}
	log.Verbosef("Writing messages to %s", logFile)

	logger.Debug("Settings resolved",
		zap.String("conf_dir", paths.Dir),
		zap.String("log_file", logFile),
		zap.String("threshold", threshold.String()))

	return &environment{
		paths:  paths,
		log:    log,
		logger: logger,
		out:    ui.NewPrinter(os.Stdout),
		errOut: ui.NewPrinter(os.Stderr),
	}, nil
}

func (e *environment) close() {
	_ = e.log.Close()
	logging.Sync()
}

func runGenerateConf(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}
	defer env.close()
	return generate(env)
}

func generate(env *environment) error {
	if err := config.GenerateDefaults(env.paths, env.log); err != nil {
		if errors.Is(err, config.ErrAlreadyExists) {
			env.log.Errorf("Refusing to overwrite existing configuration in %s", env.paths.Dir)
		}
		return err
	}
	env.log.Success(fmt.Sprintf("Generated default configuration in %s", env.paths.Dir))
	return nil
}

func runProfile(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}
	defer env.close()

	if settings.GetBool(flagGenerateConf) {
		return generate(env)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	packages := loadPackages(env)
	prof := loadProfile(env)

	host := system.NewHost(system.NewExecRunner(logging.Named("system")), env.log)

	if !prof.Device().IsSet() {
		device, err := host.FindDevice(ctx, prof.MinDeviceBytes().Uint())
		switch {
		case err == nil:
			prof.Device().Set(device)
			env.log.Infof("Selected device %s", device)
		case ctx.Err() != nil:
			return ctx.Err()
		default:
			env.log.Warningf("Automatic device selection failed: %v", err)
		}
	}

	if !settings.GetBool(flagNonInteractive) {
		if err := interactive(ctx, env, host, prof); err != nil {
			return err
		}
	}

	return finish(env, prof, packages, settings.GetString(flagOutput), settings.GetBool(flagShowPasswords))
}

func interactive(ctx context.Context, env *environment, source editorSource, prof *profile.Profile) error {
	tty, err := terminal.NewTTY(os.Stdin, os.Stdout)
	if err != nil {
		return env.editFailed(err)
	}
	return edit(ctx, env, tty, source, prof)
}

// edit runs the interactive editor on console. Every failure ends the run;
// only an interrupt skips the failure box.
func edit(ctx context.Context, env *environment, console terminal.Console, source editorSource, prof *profile.Profile) error {
	session := terminal.NewSession(console, env.log, terminal.WithLogger(logging.Named("terminal")))
	editor := wizard.NewEditor(session, env.log, source, source, wizard.WithLogger(logging.Named("wizard")))

	err := editor.Run(ctx, prof)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, wizard.ErrAborted):
		env.log.Warning("Installation aborted")
		env.fail("Installation aborted", err,
			"Run autoinstall again to review the profile",
			"Use --non-interactive to install the stored profile without review",
		)
		return err
	case errors.Is(err, terminal.ErrInterrupted), ctx.Err() != nil:
		return err
	default:
		return env.editFailed(err)
	}
}

func (e *environment) editFailed(err error) error {
	e.logger.Debug("Editor failed", zap.Error(err))
	e.log.Errorf("An operation failed during interactive profile configuration: %v", err)

	wrapped := fmt.Errorf("interactive profile configuration failed: %w", err)
	tips := []string{"Use --non-interactive to install the stored profile without review"}
	switch {
	case errors.Is(err, terminal.ErrTerminalTooSmall):
		tips = append([]string{fmt.Sprintf("Enlarge the terminal to at least %dx%d", terminal.MinCols, terminal.MinRows)}, tips...)
	case errors.Is(err, terminal.ErrNotATerminal):
		tips = append([]string{"Run autoinstall from an interactive terminal"}, tips...)
	}
	e.fail("Profile configuration failed", wrapped, tips...)
	return wrapped
}

// finish prints the confirmed profile and writes it to output when set.
func finish(env *environment, prof *profile.Profile, packages []string, output string, reveal bool) error {
	if !prof.Device().IsSet() {
		env.log.Error("Failed to find a suitable device for installation. Manual intervention is required")
		env.fail("No installation device", system.ErrNoDevices,
			fmt.Sprintf("Attach a disk of at least %d bytes without partitions", prof.MinDeviceBytes().Uint()),
			"Or pick a device interactively to erase an existing one",
		)
		return system.ErrNoDevices
	}

	env.log.FlushToPlainOutput()
	env.out.PrintProfile(prof, packages, reveal)

	if output == "" {
		return nil
	}
	if err := config.DumpProfile(output, prof); err != nil {
		env.log.Errorf("Failed to write profile: %v", err)
		env.fail("Profile not saved", err, "Check that the target directory exists and is writable")
		return err
	}
	env.log.Success(fmt.Sprintf("Profile written to %s", output))
	env.log.FlushToPlainOutput()
	env.out.PrintResult(ui.NewSuccessResult("Profile saved").
		AddDetail("file", output).
		AddDetail("device", prof.Device().Text()))
	return nil
}

// fail shows pending messages, then a failure box on the error output.
func (e *environment) fail(title string, err error, troubleshooting ...string) {
	e.log.FlushToPlainOutput()
	e.errOut.PrintError(title, err, troubleshooting...)
}

func loadPackages(env *environment) []string {
	packages, err := config.LoadPackages(env.paths.Packages)
	switch {
	case err == nil:
		env.log.Verbosef("Loaded %d packages from %s", len(packages), env.paths.Packages)
		return packages
	case errors.Is(err, fs.ErrNotExist):
		env.log.Infof("No package list at %s, using defaults", env.paths.Packages)
	default:
		env.log.Errorf("Failed to load package list: %v", err)
	}
	return append([]string(nil), config.DefaultPackages...)
}

func loadProfile(env *environment) *profile.Profile {
	prof, err := config.LoadProfile(env.log, env.paths.Profile)
	switch {
	case err == nil:
		env.log.Verbosef("Loaded profile from %s", env.paths.Profile)
		return prof
	case errors.Is(err, fs.ErrNotExist):
		env.log.Infof("No profile at %s, using defaults", env.paths.Profile)
	default:
		env.log.Errorf("Failed to load profile: %v", err)
	}
	return profile.New(env.log)
}
