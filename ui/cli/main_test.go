// Copyright (c) 2026 Keymaster Team
// Interlock - two-key launch interlock controller
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	clog "github.com/charmbracelet/log"

	"github.com/toeirei/interlock/internal/console"
	"github.com/toeirei/interlock/internal/i18n"
	"github.com/toeirei/interlock/internal/launcher"
	"github.com/toeirei/interlock/internal/logging"
)

// setupTestEnv isolates config discovery and the package logger. Log lines
// end up on the command's stderr. It returns the temp config home.
func setupTestEnv(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("HOME", home)

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	prev := logging.L
	logging.L = clog.New(io.Discard)

	t.Cleanup(func() {
		_ = os.Chdir(wd)
		logging.L = prev
		cfgFile = ""
		i18n.Init("en")
	})
	return home
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRun_LaunchSequence(t *testing.T) {
	setupTestEnv(t)

	out, logs, err := execute(t, "", "run", "insert", "insert", "remove", "insert", "code", "1234", "launch", "--expect", "launched")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(out, "submit-launch-command: WAITING_FOR_LAUNCH_COMMAND -> LAUNCHED") {
		t.Fatalf("missing launch transition; got:\n%s", out)
	}
	if strings.Count(logs, "missile launched") != 1 {
		t.Fatalf("expected exactly one launch log line; got:\n%s", logs)
	}
}

func TestRun_WrongCodeFailsExpectation(t *testing.T) {
	setupTestEnv(t)

	out, logs, err := execute(t, "", "run", "insert", "insert", "code=1235", "launch", "--expect", "LAUNCHED")
	if !errors.Is(err, ErrUnexpectedState) {
		t.Fatalf("expected ErrUnexpectedState, got %v", err)
	}
	if !strings.Contains(err.Error(), "WAITING_FOR_UNLOCK_CODE") {
		t.Fatalf("error should name the final state: %v", err)
	}
	if !strings.Contains(out, "(ignored)") {
		t.Fatalf("expected ignored operations in output; got:\n%s", out)
	}
	if strings.Contains(logs, "missile launched") {
		t.Fatalf("launcher must not fire; logs:\n%s", logs)
	}
}

func TestRun_Errors(t *testing.T) {
	setupTestEnv(t)

	if _, _, err := execute(t, "", "run", "arm"); !errors.Is(err, console.ErrSyntax) {
		t.Fatalf("expected syntax error, got %v", err)
	}
	if _, _, err := execute(t, "", "run", "insert", "--expect", "ARMED"); err == nil {
		t.Fatalf("expected error for unknown --expect state")
	}
	if _, _, err := execute(t, "", "run", "insert", "--launcher", "catapult"); !errors.Is(err, launcher.ErrUnknownLauncher) {
		t.Fatalf("expected ErrUnknownLauncher, got %v", err)
	}
	if _, _, err := execute(t, "", "run"); err == nil {
		t.Fatalf("expected error without operations")
	}
}

func TestRoot_ScriptFromStdin(t *testing.T) {
	setupTestEnv(t)

	script := "insert\ninsert\ncode 1234\nlaunch # fire\nstate\n"
	out, logs, err := execute(t, script, "--launcher", "dry-run")
	if err != nil {
		t.Fatalf("script run failed: %v", err)
	}
	if !strings.HasSuffix(out, "LAUNCHED\n") {
		t.Fatalf("expected final state line; got:\n%s", out)
	}
	if !strings.Contains(logs, "dry run") || strings.Contains(logs, "missile launched") {
		t.Fatalf("dry-run launcher should be used; logs:\n%s", logs)
	}
}

func TestRoot_WritesDefaultConfigOnFirstRun(t *testing.T) {
	home := setupTestEnv(t)

	if _, _, err := execute(t, "", "states"); err != nil {
		t.Fatalf("states failed: %v", err)
	}
	path := filepath.Join(home, "interlock", "interlock.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected default config at %s: %v", path, err)
	}
	if !strings.Contains(string(data), "launcher: silo") {
		t.Fatalf("unexpected default config:\n%s", data)
	}
}

func TestRoot_ExplicitConfigFile(t *testing.T) {
	setupTestEnv(t)

	file := filepath.Join(t.TempDir(), "drill.yaml")
	if err := os.WriteFile(file, []byte("launcher: dry-run\nlanguage: de\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, logs, err := execute(t, "", "run", "insert", "insert", "code", "1234", "launch", "--config", file)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(logs, "dry run") {
		t.Fatalf("config file launcher not applied; logs:\n%s", logs)
	}
	if i18n.GetLang() != "de" {
		t.Fatalf("expected language from config file, got %q", i18n.GetLang())
	}

	if _, _, err := execute(t, "", "states", "--config", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing --config file")
	}
}

func TestStates_PrintsTable(t *testing.T) {
	setupTestEnv(t)

	out, _, err := execute(t, "", "states")
	if err != nil {
		t.Fatalf("states failed: %v", err)
	}
	for _, want := range []string{"WAITING_FOR_FIRST_KEY", "→ WAITING_FOR_LAUNCH_COMMAND", "launch(); → LAUNCHED", "stays"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in table:\n%s", want, out)
		}
	}
}

func TestConfigInit(t *testing.T) {
	home := setupTestEnv(t)

	// The first command already writes the default file.
	if _, _, err := execute(t, "", "config", "init"); err == nil {
		t.Fatalf("expected refusal to overwrite existing config")
	}
	out, _, err := execute(t, "", "config", "init", "--force", "--language", "de")
	if err != nil {
		t.Fatalf("config init --force failed: %v", err)
	}
	path := filepath.Join(home, "interlock", "interlock.yaml")
	if !strings.Contains(out, path) {
		t.Fatalf("expected written path in output; got %q", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.Contains(string(data), "language: de") {
		t.Fatalf("flag value should be persisted:\n%s", data)
	}

	out, _, err = execute(t, "", "config", "path")
	if err != nil || strings.TrimSpace(out) != path {
		t.Fatalf("config path = %q, %v; want %s", out, err, path)
	}
}

func TestTelemetryFlag_PrintsMetrics(t *testing.T) {
	setupTestEnv(t)

	_, errOut, err := execute(t, "", "run", "insert", "--telemetry")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(errOut, "interlock.operations") {
		t.Fatalf("expected metrics on stderr; got:\n%s", errOut)
	}
	if _, _, err := execute(t, "", "run", "insert"); err != nil {
		t.Fatalf("run without telemetry failed: %v", err)
	}
}

func TestRoot_FirstRunFlagsAreNotPersisted(t *testing.T) {
	home := setupTestEnv(t)

	if _, _, err := execute(t, "", "run", "insert", "--launcher", "dry-run", "--language", "de"); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(home, "interlock", "interlock.yaml"))
	if err != nil {
		t.Fatalf("expected default config: %v", err)
	}
	if !strings.Contains(string(data), "launcher: silo") || !strings.Contains(string(data), "language: en") {
		t.Fatalf("first run must write built-in defaults, got:\n%s", data)
	}

	_, logs, err := execute(t, "", "run", "insert", "insert", "code", "1234", "launch", "--expect", "LAUNCHED")
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if strings.Contains(logs, "dry run") || strings.Count(logs, "missile launched") != 1 {
		t.Fatalf("second run must fire the silo launcher; logs:\n%s", logs)
	}
}

func TestRoot_UnsupportedLanguage(t *testing.T) {
	setupTestEnv(t)

	_, _, err := execute(t, "", "states", "--language", "fr")
	if !errors.Is(err, ErrUnsupportedLanguage) {
		t.Fatalf("expected ErrUnsupportedLanguage, got %v", err)
	}
	if !strings.Contains(err.Error(), "de (Deutsch)") || !strings.Contains(err.Error(), "en (English)") {
		t.Fatalf("error should list available locales: %v", err)
	}
	if _, _, err := execute(t, "", "states", "--language", " DE "); err != nil {
		t.Fatalf("language should be matched case-insensitively: %v", err)
	}
	if i18n.GetLang() != "de" {
		t.Fatalf("expected normalised language, got %q", i18n.GetLang())
	}
}

func TestTelemetryFlag_FlushesOnFailure(t *testing.T) {
	setupTestEnv(t)

	_, errOut, err := execute(t, "", "run", "insert", "--expect", "LAUNCHED", "--telemetry")
	if !errors.Is(err, ErrUnexpectedState) {
		t.Fatalf("expected ErrUnexpectedState, got %v", err)
	}
	if !strings.Contains(errOut, "interlock.operations") {
		t.Fatalf("metrics must be flushed when the command fails; got:\n%s", errOut)
	}
}
