package paths

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubHome points platformDir at fixed roots for the duration of a test.
func stubHome(t *testing.T, home, userConfig string, err error) {
	t.Helper()
	saved := platformDir
	t.Cleanup(func() { platformDir = saved })
	platformDir.homeDir = func() (string, error) { return home, err }
	platformDir.userConfigDir = func() (string, error) { return userConfig, err }
}

func TestPlatformDefaults(t *testing.T) {
	stubHome(t, "/home/ada", "/home/ada/Library/Application Support", nil)

	tests := []struct {
		name    string
		resolve func() (string, error)
		xdgVar  string
		xdgVal  string
		linux   string
		other   string
	}{
		{
			name:    "config from XDG_CONFIG_HOME",
			resolve: DefaultConfigDir,
			xdgVar:  "XDG_CONFIG_HOME",
			xdgVal:  "/xdg/config",
			linux:   "/xdg/config/relations",
			other:   "/home/ada/Library/Application Support/relations",
		},
		{
			name:    "config under ~/.config",
			resolve: DefaultConfigDir,
			xdgVar:  "XDG_CONFIG_HOME",
			linux:   "/home/ada/.config/relations",
			other:   "/home/ada/Library/Application Support/relations",
		},
		{
			name:    "data from XDG_DATA_HOME",
			resolve: DefaultDataDir,
			xdgVar:  "XDG_DATA_HOME",
			xdgVal:  "/xdg/data",
			linux:   "/xdg/data/relations",
			other:   "/home/ada/Library/Application Support/relations",
		},
		{
			name:    "data under ~/.local/share",
			resolve: DefaultDataDir,
			xdgVar:  "XDG_DATA_HOME",
			linux:   "/home/ada/.local/share/relations",
			other:   "/home/ada/Library/Application Support/relations",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.xdgVar, tt.xdgVal)
			got, err := tt.resolve()
			require.NoError(t, err)
			want := tt.other
			if runtime.GOOS == "linux" {
				want = tt.linux
			}
			assert.Equal(t, filepath.FromSlash(want), got)
		})
	}
}

func TestPlatformDefaultsHomeError(t *testing.T) {
	errNoHome := errors.New("no home")
	stubHome(t, "", "", errNoHome)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")

	_, err := DefaultConfigDir()
	assert.ErrorIs(t, err, errNoHome)
	_, err = DefaultDataDir()
	assert.ErrorIs(t, err, errNoHome)
}

func TestResolveConfigDir(t *testing.T) {
	stubHome(t, "/home/ada", "/home/ada/Library/Application Support", nil)
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	fallback, err := DefaultConfigDir()
	require.NoError(t, err)

	cwd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		name string
		flag string
		env  string
		want string
	}{
		{name: "--config-dir beats the environment", flag: "/srv/relations", env: "/env/relations", want: "/srv/relations"},
		{name: "RELATIONS_CONFIG_DIR without a flag", env: "/env/relations", want: "/env/relations"},
		{name: "relative flag is anchored at cwd", flag: "conf", want: filepath.Join(cwd, "conf")},
		{name: "relative env is anchored at cwd", env: "conf-env", want: filepath.Join(cwd, "conf-env")},
		{name: "platform default otherwise", want: fallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvConfigDir, tt.env)
			got, err := ResolveConfigDir(tt.flag)
			require.NoError(t, err)
			assert.Equal(t, filepath.FromSlash(tt.want), got)
		})
	}
}

func TestResolveDataDir(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		name     string
		flag     string
		cfgValue string
		env      string
		want     string
	}{
		{name: "--data-dir beats everything", flag: "/flag/db", cfgValue: "/cfg/db", env: "/env/db", want: "/flag/db"},
		{name: "data_dir key beats the environment", cfgValue: "/cfg/db", env: "/env/db", want: "/cfg/db"},
		{name: "RELATIONS_DATA_DIR when nothing else is set", env: "/env/db", want: "/env/db"},
		{name: "relative data_dir is anchored at cwd", cfgValue: "records", want: filepath.Join(cwd, "records")},
		{name: "working tree store by default", want: filepath.Join(cwd, DefaultDataDirName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvDataDir, tt.env)
			got, err := ResolveDataDir(tt.flag, tt.cfgValue)
			require.NoError(t, err)
			assert.Equal(t, filepath.FromSlash(tt.want), got)
		})
	}
}

func TestConfigFile(t *testing.T) {
	assert.Equal(t, filepath.Join("/etc/relations", "config.yaml"), ConfigFile("/etc/relations"))
}

func TestResolveLogFile(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "unset keeps logs off disk", value: "", want: ""},
		{name: "absolute path is used as is", value: "/var/log/relations.log", want: "/var/log/relations.log"},
		{name: "relative path lands in the config dir", value: "logs/relations.log", want: filepath.Join("/cfg", "logs", "relations.log")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveLogFile("/cfg", tt.value))
		})
	}
}
