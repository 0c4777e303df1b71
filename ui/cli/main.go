// Copyright (c) 2026 Keymaster Team
// Interlock - two-key launch interlock controller
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the root command, the shared setup hook and the
// controller factory used by every subcommand.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/toeirei/interlock/internal/config"
	"github.com/toeirei/interlock/internal/console"
	"github.com/toeirei/interlock/internal/i18n"
	"github.com/toeirei/interlock/internal/interlock"
	"github.com/toeirei/interlock/internal/launcher"
	"github.com/toeirei/interlock/internal/logging"
	"github.com/toeirei/interlock/internal/telemetry"
	"github.com/toeirei/interlock/internal/tui"
)

var cfgFile string

// ErrUnsupportedLanguage is returned when the configured language has no
// embedded locale.
var ErrUnsupportedLanguage = errors.New("unsupported language")

var appConfig config.Config

func noShutdown(context.Context) error { return nil }

// shutdownTelemetry flushes metrics; set by setupDefaultServices.
var shutdownTelemetry = noShutdown

// runTUI is swapped out in tests.
var runTUI = tui.Run

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	if !cmd.Flags().Changed("config") {
		return nil, nil
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("could not read --config flag: %w", err)
	}
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
	}
	return &path, nil
}

// setupDefaultServices loads configuration and initialises logging, i18n and
// telemetry. It runs before every command.
func setupDefaultServices(cmd *cobra.Command, args []string) error {
	optionalConfigPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	logging.SetOutput(cmd.ErrOrStderr())

	defaults := config.Defaults()
	appConfig, err = config.LoadConfig[config.Config](cmd, defaults, optionalConfigPath)
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		// First run: write the built-in defaults. Flags given on this run
		// apply to this run only; "config init" persists them.
		def := config.DefaultConfig()
		if path, writeErr := config.WriteConfigFile(&def, false); writeErr != nil {
			logging.Warnf("could not write default config file: %v", writeErr)
		} else {
			logging.Infof("wrote default config to %s", path)
		}
	} else if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	if appConfig.Language == "" {
		appConfig.Language = defaults[config.KeyLanguage].(string)
	}
	if appConfig.Launcher == "" {
		appConfig.Launcher = defaults[config.KeyLauncher].(string)
	}

	if err := logging.SetLevel(appConfig.LogLevel); err != nil {
		return err
	}
	lang := strings.ToLower(strings.TrimSpace(appConfig.Language))
	if !slices.Contains(i18n.LocaleTags(), lang) {
		return fmt.Errorf("%w %q (available: %s)", ErrUnsupportedLanguage, appConfig.Language, describeLocales())
	}
	appConfig.Language = lang
	i18n.Init(lang)

	shutdown, err := telemetry.Init(cmd.Context(), telemetry.Options{
		Enabled: appConfig.Telemetry,
		Output:  cmd.ErrOrStderr(),
		Version: compositeVersion(),
	})
	if err != nil {
		return err
	}
	shutdownTelemetry = shutdown
	return nil
}

// describeLocales lists the embedded locales with their own names, e.g.
// "de (Deutsch), en (English)".
func describeLocales() string {
	av := i18n.GetAvailableLocales()
	parts := make([]string, 0, len(av))
	for tag, name := range av {
		parts = append(parts, fmt.Sprintf("%s (%s)", tag, name))
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}

// flushTelemetry shuts the meter provider down once per command run. A
// flush failure is logged, never returned.
func flushTelemetry() {
	shutdown := shutdownTelemetry
	shutdownTelemetry = noShutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		logging.Errorf("could not flush telemetry: %v", err)
	}
}

// flushAfterRun wraps the RunE of cmd and its subcommands so metrics are
// flushed even when the command fails. Cobra skips post-run hooks on error.
func flushAfterRun(cmd *cobra.Command) {
	for _, sub := range cmd.Commands() {
		flushAfterRun(sub)
	}
	run := cmd.RunE
	if run == nil {
		return
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		defer flushTelemetry()
		return run(cmd, args)
	}
}

// newController builds a controller with the configured launcher, a debug
// log of every transition and the telemetry counters.
func newController() (*interlock.Controller, error) {
	l, err := launcher.ByName(appConfig.Launcher, logging.L)
	if err != nil {
		return nil, err
	}
	counter, err := telemetry.NewTransitionCounter(telemetry.Meter())
	if err != nil {
		return nil, err
	}
	return interlock.New(
		interlock.WithLauncher(l),
		interlock.WithObserver(func(t interlock.Transition) { logging.Debugf("%s", t) }),
		interlock.WithObserver(counter.Observe),
	), nil
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// NewRootCmd creates and configures a new root cobra command.
// This function is used to create the main application command as well as
// fresh instances for isolated testing.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interlock",
		Short: "Two-key launch interlock console.",
		Long: `Interlock drives a two-key launch controller. Both keys must be
inserted, the unlock code accepted and the launch command given, in that
order, before the launcher fires. Out-of-order actions are ignored.

With a terminal on stdin the interactive panel starts. Otherwise stdin is
read as an operation script (see "interlock run --help").`,
		SilenceUsage:      true,
		PersistentPreRunE: setupDefaultServices,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := newController()
			if err != nil {
				return err
			}
			if isTerminal(cmd.InOrStdin()) {
				return runTUI(ctrl)
			}
			cmds, err := console.ParseScript(cmd.InOrStdin())
			if err != nil {
				return err
			}
			_, err = console.Run(ctrl, cmds, cmd.OutOrStdout())
			return err
		},
	}

	cmd.Version = compositeVersion()

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/interlock/interlock.yaml)")
	cmd.PersistentFlags().String(config.KeyLanguage, "en", fmt.Sprintf("console language (%s)", strings.Join(i18n.LocaleTags(), ", ")))
	cmd.PersistentFlags().String(config.KeyLogLevel, "info", `log level ("debug", "info", "warn", "error")`)
	cmd.PersistentFlags().String(config.KeyLauncher, launcher.NameSilo, fmt.Sprintf("launcher to fire (%q or %q)", launcher.NameSilo, launcher.NameDryRun))
	cmd.PersistentFlags().Bool(config.KeyTelemetry, false, "print OpenTelemetry metrics to stderr")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newStatesCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())
	flushAfterRun(cmd)

	return cmd
}
