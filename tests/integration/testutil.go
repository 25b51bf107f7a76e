// Package integration runs the relations CLI end to end against a scratch
// config directory and record store.
package integration

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// relationsBin is set by TestMain once the binary is built.
var relationsBin string

// buildRelations compiles ./cmd/relations into dir and returns the binary path.
func buildRelations(dir string) (string, error) {
	root, err := moduleRoot()
	if err != nil {
		return "", err
	}
	bin := filepath.Join(dir, "relations")
	cmd := exec.Command("go", "build", "-o", bin, "./cmd/relations")
	cmd.Dir = root
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("go build: %w\n%s", err, out)
	}
	return bin, nil
}

// moduleRoot walks up from the test directory to the directory holding go.mod.
func moduleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("go.mod not found above " + dir)
		}
		dir = parent
	}
}

// TestEnv is one scratch site: config.yaml with the given fields and an empty
// SQLite-backed record store.
type TestEnv struct {
	t       *testing.T
	Config  string
	DataDir string
}

// NewTestEnv writes config.yaml under a temp dir. fieldsYAML is appended
// verbatim, so it normally starts with "fields:".
func NewTestEnv(t *testing.T, fieldsYAML string) *TestEnv {
	t.Helper()
	require.NotEmpty(t, relationsBin, "relations binary was not built")

	root := t.TempDir()
	env := &TestEnv{
		t:       t,
		Config:  filepath.Join(root, "config"),
		DataDir: filepath.Join(root, "data"),
	}
	require.NoError(t, os.MkdirAll(env.Config, 0o755))

	config := fmt.Sprintf("backend: sqlite\ndata_dir: %s\nlog:\n  level: error\n%s", env.DataDir, fieldsYAML)
	require.NoError(t, os.WriteFile(filepath.Join(env.Config, "config.yaml"), []byte(config), 0o644))
	return env
}

// CmdResult is the captured output of one relations invocation.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Run invokes relations with the env's config and data directories. A
// non-zero exit is reported in ExitCode, not as a test failure.
func (e *TestEnv) Run(args ...string) CmdResult {
	e.t.Helper()

	cmd := exec.Command(relationsBin, append([]string{"--config-dir", e.Config, "--data-dir", e.DataDir}, args...)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	res := CmdResult{}
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		require.True(e.t, errors.As(err, &exitErr), "running relations: %v", err)
		res.ExitCode = exitErr.ExitCode()
	}
	res.Stdout, res.Stderr = stdout.String(), stderr.String()
	return res
}

// MustRun is Run for commands expected to exit 0.
func (e *TestEnv) MustRun(args ...string) CmdResult {
	e.t.Helper()
	res := e.Run(args...)
	require.Zerof(e.t, res.ExitCode, "relations %v\nstdout: %s\nstderr: %s", args, res.Stdout, res.Stderr)
	return res
}

// ParseJSON decodes --json output.
func ParseJSON[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), "output: %q", out)
	return v
}

// Record mirrors `relations --json records add` output.
type Record struct {
	RecordID  string `json:"record_id"`
	Kind      string `json:"kind"`
	Handle    string `json:"handle"`
	Title     string `json:"title"`
	Parent    string `json:"parent"`
	Published bool   `json:"published"`
}

// Row is a selected item as shown in the field's preload data.
type Row struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Invalid   bool   `json:"invalid"`
	Published *bool  `json:"published"`
}

// Payload holds the preload keys the CLI tests assert on.
type Payload struct {
	Data                           []Row             `json:"data"`
	CanCreate                      bool              `json:"canCreate"`
	CanEdit                        bool              `json:"canEdit"`
	Taggable                       bool              `json:"taggable"`
	GetBaseSelectionsURLParameters map[string]string `json:"getBaseSelectionsUrlParameters"`
	FormComponentProps             map[string]any    `json:"formComponentProps"`
}

// ReadJSONLFile decodes a record table file from the data directory,
// skipping blank lines.
func ReadJSONLFile[T any](t *testing.T, path string) []T {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var rows []T
	scanner := bufio.NewScanner(f)
	for line := 1; scanner.Scan(); line++ {
		if len(bytes.TrimSpace(scanner.Bytes())) == 0 {
			continue
		}
		var row T
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &row), "%s:%d", path, line)
		rows = append(rows, row)
	}
	require.NoError(t, scanner.Err())
	return rows
}
