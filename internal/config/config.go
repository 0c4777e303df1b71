// Copyright (c) 2026 Keymaster Team
// Interlock - two-key launch interlock controller
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads and persists operator console settings. It uses
// Viper for file/env/flag parsing and goccy/go-yaml to write files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	KeyLanguage  = "language"
	KeyLogLevel  = "log-level"
	KeyLauncher  = "launcher"
	KeyTelemetry = "telemetry"
)

// Config holds the console settings. The controller itself has no
// configuration beyond the launcher it is built with.
type Config struct {
	Language  string `mapstructure:"language" yaml:"language"`
	LogLevel  string `mapstructure:"log-level" yaml:"log-level"`
	Launcher  string `mapstructure:"launcher" yaml:"launcher"`
	Telemetry bool   `mapstructure:"telemetry" yaml:"telemetry"`
}

// Defaults returns the built-in value of every key.
func Defaults() map[string]any {
	return map[string]any{
		KeyLanguage:  "en",
		KeyLogLevel:  "info",
		KeyLauncher:  "silo",
		KeyTelemetry: false,
	}
}

// DefaultConfig returns a Config holding the values from Defaults.
func DefaultConfig() Config {
	d := Defaults()
	return Config{
		Language:  d[KeyLanguage].(string),
		LogLevel:  d[KeyLogLevel].(string),
		Launcher:  d[KeyLauncher].(string),
		Telemetry: d[KeyTelemetry].(bool),
	}
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Interlock")
		default: // Linux, macOS, etc.
			configDir = "/etc/interlock"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "interlock")
	}

	return filepath.Join(configDir, "interlock.yaml"), nil
}

// LoadConfig resolves T from, in rising precedence: defaults, config files,
// INTERLOCK_* environment variables and flags set on cmd.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, configPath *string) (T, error) {
	var c T
	v := viper.New()

	// 1. Set defaults
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// 2. Set up file search paths
	v.SetConfigName("interlock")
	v.SetConfigType("yaml")

	// 3. An explicit --config path wins over the search paths.
	if configPath != nil && *configPath != "" {
		v.SetConfigFile(*configPath)
	}

	// 4. Standard config locations
	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	// 5. Read in the primary config file.
	notFound := false
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
		notFound = true
	}

	// 6. Merge a dot-file in the current directory on top.
	mergeLegacyConfig(v)

	// 7. Read from environment variables
	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvPrefix("interlock")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// 8. Flags
	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	if notFound {
		return c, viper.ConfigFileNotFoundError{}
	}
	return c, nil
}

// mergeLegacyConfig checks for a `.interlock.yaml` file in the current directory
// and merges it into the viper configuration if found.
func mergeLegacyConfig(v *viper.Viper) {
	legacyConfigFile := ".interlock.yaml"
	if _, err := os.Stat(legacyConfigFile); err == nil {
		v.SetConfigFile(legacyConfigFile)
		// A malformed dot-file is ignored rather than failing startup.
		_ = v.MergeInConfig()
		v.SetConfigFile("")
	}
}

// WriteConfigFile writes c to the user (or system) config path and returns
// the path written.
func WriteConfigFile[T any](c *T, system bool) (string, error) {
	path, err := GetConfigPath(system)
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}

	return path, nil
}
