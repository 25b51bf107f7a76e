// Package paths locates the relations config directory, the record store and
// the rotating log file.
//
// The config directory holds config.yaml with the field definitions. The data
// directory holds the JSONL record tables the kinds package reads. Each has a
// flag, a config key (data only) and an environment override.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// Directory names used relative to the working tree.
const (
	DefaultConfigDirName = ".relations"
	DefaultDataDirName   = ".relations-db"
)

// appName is the per-user subdirectory under the platform roots.
const appName = "relations"

// Overrides consulted when no flag is given.
const (
	EnvConfigDir = "RELATIONS_CONFIG_DIR"
	EnvDataDir   = "RELATIONS_DATA_DIR"
)

// ConfigFileName is the field definition file inside the config directory.
const ConfigFileName = "config.yaml"

// platformDir is swapped in tests to simulate missing home directories.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// platformRoot returns appName under the XDG directory named by xdgVar on
// Linux, or under homeFallback inside $HOME when the variable is unset.
// Other platforms share os.UserConfigDir for both config and data.
func platformRoot(xdgVar string, homeFallback ...string) (string, error) {
	if runtime.GOOS != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appName), nil
	}
	if xdg := os.Getenv(xdgVar); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	parts := append([]string{home}, homeFallback...)
	return filepath.Join(append(parts, appName)...), nil
}

// DefaultConfigDir is where config.yaml lives when nothing overrides it:
// $XDG_CONFIG_HOME/relations or ~/.config/relations on Linux,
// ~/Library/Application Support/relations on macOS and %APPDATA%\relations
// on Windows.
func DefaultConfigDir() (string, error) {
	return platformRoot("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir is the per-user record store location
// ($XDG_DATA_HOME/relations or ~/.local/share/relations on Linux). The
// relations CLI prefers a store in the working tree, see ResolveDataDir.
func DefaultDataDir() (string, error) {
	return platformRoot("XDG_DATA_HOME", ".local", "share")
}

// ResolveConfigDir picks the config directory: --config-dir, then
// RELATIONS_CONFIG_DIR, then DefaultConfigDir. Explicit values are made
// absolute so the serve command keeps working after a chdir.
func ResolveConfigDir(flag string) (string, error) {
	if dir := firstSet(flag, os.Getenv(EnvConfigDir)); dir != "" {
		return filepath.Abs(dir)
	}
	return DefaultConfigDir()
}

// ResolveDataDir picks the record store: --data-dir, then the data_dir key
// from config.yaml, then RELATIONS_DATA_DIR, then .relations-db in the
// working directory.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	if dir := firstSet(flag, configYAMLValue, os.Getenv(EnvDataDir)); dir != "" {
		return filepath.Abs(dir)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ConfigFile joins configDir and ConfigFileName.
func ConfigFile(configDir string) string {
	return filepath.Join(configDir, ConfigFileName)
}

// ResolveLogFile maps the log.file config key to a path. Relative values sit
// inside configDir; "" turns file logging off.
func ResolveLogFile(configDir, configYAMLValue string) string {
	if configYAMLValue == "" || filepath.IsAbs(configYAMLValue) {
		return configYAMLValue
	}
	return filepath.Join(configDir, configYAMLValue)
}
